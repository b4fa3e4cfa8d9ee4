package pmatch

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

var (
	// a function name only counts when an opening parenthesis follows it
	funcPattern = regexp.MustCompile(`^(match(?:_[a-z0-9]+)?|not)\s*\(`)
	// "- 50": a sign, one space, then the digits
	spacedNumberPattern = regexp.MustCompile(`^[+-] [0-9]+(?:\.[0-9]+)?`)
	numberPattern       = regexp.MustCompile(`^[+-]?[0-9]+(?:\.[0-9]+)?$`)
)

// Lexer is responsible for scanning an expression and producing tokens.
type Lexer struct {
	input    string // the entire input to tokenize
	position int    // current reading position in input
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input and initializes state.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    input,
		position: 0,
		tokens:   make([]Token, 0),
	}
}

// Tokenize processes the entire input and produces the list of tokens.
// It never fails; anything it cannot classify becomes a word and is
// judged by the parser.
func (l *Lexer) Tokenize() []Token {
	for l.position < len(l.input) {
		currentPos := l.position
		switch c := l.input[l.position]; {
		case c == '(':
			l.addToken(TokenLParen, "(", currentPos)
			l.position++

		case c == ')':
			l.addToken(TokenRParen, ")", currentPos)
			l.position++

		case c == '[':
			l.addToken(TokenLBracket, "[", currentPos)
			l.position++

		case c == ']':
			l.addToken(TokenRBracket, "]", currentPos)
			l.position++

		case c == '|':
			l.addToken(TokenOr, "|", currentPos)
			l.position++

		case l.atDelimiter():
			l.lexDelimiter(currentPos)

		default:
			if l.matchFunc() || l.matchSpacedNumber() {
				continue
			}
			// position incrementing is handled inside `lexWord`
			l.lexWord(currentPos)
		}
	}

	// At the end, add an EOF token to indicate we're done.
	l.addToken(TokenEOF, "", l.position)
	return l.tokens
}

// matchFunc checks whether a function name such as "match_mow" or "not"
// starts here. The whitespace between the name and its parenthesis is
// swallowed; the parenthesis itself is left for the main loop.
func (l *Lexer) matchFunc() bool {
	m := funcPattern.FindStringSubmatchIndex(l.input[l.position:])
	if m == nil {
		return false
	}
	nameEnd := l.position + m[3]
	l.addToken(TokenFunc, l.input[l.position:nameEnd], l.position)
	// m[1] ends just after '(', which must stay in the input
	l.position += m[1] - 1
	return true
}

// matchSpacedNumber recognises a sign separated from its digits by a single
// space, which must not be mistaken for a word delimiter.
func (l *Lexer) matchSpacedNumber() bool {
	loc := spacedNumberPattern.FindStringIndex(l.input[l.position:])
	if loc == nil {
		return false
	}
	end := l.position + loc[1]
	if end < len(l.input) && isWordByte(l.input, end) {
		// "- 50kg" is a sign followed by a word
		return false
	}
	l.addToken(TokenNumber, l.input[l.position:end], l.position)
	l.position = end
	return true
}

// lexDelimiter scans a run of whitespace and underscores. Any underscore in
// the run makes it a proximity delimiter.
func (l *Lexer) lexDelimiter(startPos int) {
	proximity := false
	for l.position < len(l.input) && l.atDelimiter() {
		if l.input[l.position] == '_' {
			proximity = true
		}
		_, size := utf8.DecodeRuneInString(l.input[l.position:])
		l.position += size
	}
	if proximity {
		l.addToken(TokenProximity, l.input[startPos:l.position], startPos)
		return
	}
	l.addToken(TokenSpace, l.input[startPos:l.position], startPos)
}

// lexWord scans consecutive non-special characters to produce a word or a
// number. A backslash keeps the following character in the word.
func (l *Lexer) lexWord(startPos int) {
	for l.position < len(l.input) {
		if l.input[l.position] == '\\' && l.position+1 < len(l.input) {
			_, size := utf8.DecodeRuneInString(l.input[l.position+1:])
			l.position += 1 + size
			continue
		}
		if !isWordByte(l.input, l.position) {
			break
		}
		_, size := utf8.DecodeRuneInString(l.input[l.position:])
		l.position += size
	}

	value := l.input[startPos:l.position]
	if numberPattern.MatchString(value) {
		l.addToken(TokenNumber, value, startPos)
		return
	}
	l.addToken(TokenWord, value, startPos)
}

func (l *Lexer) atDelimiter() bool {
	if l.input[l.position] == '_' {
		return true
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.position:])
	return unicode.IsSpace(r)
}

// addToken is a helper to append a new token to the lexer's token list.
func (l *Lexer) addToken(tokenType TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: pos,
	})
}

// isWordByte reports whether the character at i can be part of a word.
func isWordByte(s string, i int) bool {
	switch s[i] {
	case '(', ')', '[', ']', '|', '_':
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsSpace(r)
}
