package pmatch

import (
	"strconv"
	"strings"

	"github.com/gnolang/pmatch/pmatch/word"
)

const (
	funcNot      = "not"
	funcMatch    = "match"
	funcMatchAll = "match_all"
	funcMatchAny = "match_any"
)

// Parser consumes tokens produced by the lexer and builds an expression tree.
// A Parser is used for a single expression and must not be shared.
type Parser struct {
	input   string
	tokens  []Token
	current int
	opts    *Options
	norm    *normalizer

	closing map[int]int // index of an opening token -> index of its closing token
	matcher int         // index of the Func token whose body is being parsed
}

// NewParser creates a new Parser for the given expression.
func NewParser(input string, opts *Options) *Parser {
	if opts == nil {
		opts = NewOptions()
	}
	return &Parser{
		input:   input,
		tokens:  NewLexer(input).Tokenize(),
		opts:    opts,
		norm:    newNormalizer(opts),
		matcher: -1,
	}
}

// Parse builds the expression tree. On failure no tree is returned.
func (p *Parser) Parse() (Node, *ParseError) {
	if err := p.matchBrackets(); err != nil {
		return nil, err
	}

	if p.peek().Type != TokenFunc {
		return nil, newParseError(ErrUnrecognisedExpression, p.input, p.peek().Position)
	}
	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, newParseError(ErrUnrecognisedExpression, p.input, tok.Position)
	}
	return root, nil
}

// matchBrackets pairs every '(' and '[' with its closing token before any
// parsing happens, so an unbalanced expression is always reported as such.
func (p *Parser) matchBrackets() *ParseError {
	p.closing = make(map[int]int)
	var stack []int
	for i, tok := range p.tokens {
		switch tok.Type {
		case TokenLParen, TokenLBracket:
			stack = append(stack, i)
		case TokenRParen, TokenRBracket:
			if len(stack) == 0 {
				// stray closers are reported by the parser
				continue
			}
			open := stack[len(stack)-1]
			want := TokenRParen
			if p.tokens[open].Type == TokenLBracket {
				want = TokenRBracket
			}
			if tok.Type != want {
				return newParseError(ErrMissingClosingBracket, p.input, p.tokens[open].Position)
			}
			stack = stack[:len(stack)-1]
			p.closing[open] = i
		}
	}
	if len(stack) > 0 {
		return newParseError(ErrMissingClosingBracket, p.input, p.tokens[stack[len(stack)-1]].Position)
	}
	return nil
}

// parseExpression parses one function call: match..., not, match_all or match_any.
func (p *Parser) parseExpression() (Node, *ParseError) {
	funcIdx := p.current
	fn := p.next()
	if p.peek().Type != TokenLParen {
		return nil, newParseError(ErrUnrecognisedExpression, p.input, fn.Position)
	}
	p.next()

	outer := p.matcher
	p.matcher = funcIdx
	defer func() { p.matcher = outer }()

	switch fn.Value {
	case funcNot:
		children, err := p.parseSubExpressions()
		if err != nil {
			return nil, err
		}
		if len(children) != 1 {
			return nil, p.errorInMatcher(ErrUnrecognisedSubContents, children[1].Position())
		}
		return &NotNode{Child: children[0], pos: fn.Position}, nil

	case funcMatchAll:
		children, err := p.parseSubExpressions()
		if err != nil {
			return nil, err
		}
		return &MatchAllNode{Children: children, pos: fn.Position}, nil

	case funcMatchAny:
		children, err := p.parseSubExpressions()
		if err != nil {
			return nil, err
		}
		return &MatchAnyNode{Children: children, pos: fn.Position}, nil
	}

	opts, ok := parseMatchOptions(fn.Value)
	if !ok {
		return nil, newParseError(ErrIllegalOptions, strings.TrimPrefix(strings.TrimPrefix(fn.Value, funcMatch), "_"), fn.Position)
	}
	contents, err := p.parseContents(TokenRParen, funcIdx+1, &opts)
	if err != nil {
		return nil, err
	}
	contents.Ordered = !opts.AnyOrder
	return &MatchNode{Options: opts, Contents: contents, pos: fn.Position}, nil
}

// parseSubExpressions parses the whitespace separated expressions inside
// not(...), match_all(...) and match_any(...), including the closing ')'.
func (p *Parser) parseSubExpressions() ([]Node, *ParseError) {
	var children []Node
	p.skip(TokenSpace)
	for {
		tok := p.peek()
		if tok.Type != TokenFunc {
			return nil, p.errorInMatcher(ErrUnrecognisedSubContents, tok.Position)
		}
		child, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		children = append(children, child)

		p.skip(TokenSpace)
		if p.peek().Type == TokenRParen {
			p.next()
			return children, nil
		}
	}
}

// parseContents parses the terms of a matcher or a bracket up to and
// including the end token. openIdx is the index of the opening token.
func (p *Parser) parseContents(end TokenType, openIdx int, opts *MatchOptions) (*SequenceNode, *ParseError) {
	start := p.peek()
	if start.Type == end || start.Type == TokenSpace || start.Type == TokenProximity {
		return nil, p.errorInMatcher(ErrUnrecognisedSubContents, start.Position)
	}

	var (
		items  []Node
		delims []TokenType
	)
	for {
		item, err := p.parseItem(end, openIdx, opts)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		tok := p.peek()
		switch tok.Type {
		case end:
			p.next()
			return buildSequence(items, delims, start.Position), nil

		case TokenSpace, TokenProximity:
			p.next()
			if p.peek().Type == end {
				return nil, p.errorInMatcher(ErrLastSubContentWordDelim, tok.Position)
			}
			delims = append(delims, tok.Type)

		default:
			return nil, p.errorInMatcher(ErrUnrecognisedSubContents, tok.Position)
		}
	}
}

// parseItem parses alternatives joined by '|'. Whitespace around '|' is ignored.
func (p *Parser) parseItem(end TokenType, openIdx int, opts *MatchOptions) (Node, *ParseError) {
	first, err := p.parseAlternative(opts)
	if err != nil {
		return nil, err
	}
	alts := []Node{first}

	for {
		if p.peek().Type == TokenSpace && p.peekAt(1).Type == TokenOr {
			p.next()
		}
		if p.peek().Type != TokenOr {
			break
		}
		or := p.next()
		p.skip(TokenSpace)
		if p.peek().Type == end {
			return nil, newParseError(ErrLastSubContentOrCharacter, p.contentsText(openIdx), or.Position)
		}
		alt, err := p.parseAlternative(opts)
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}

	if len(alts) == 1 {
		return first, nil
	}
	return &OrNode{Children: alts, pos: first.Position()}, nil
}

// parseAlternative parses a single term.
func (p *Parser) parseAlternative(opts *MatchOptions) (Node, *ParseError) {
	tok := p.peek()
	switch tok.Type {
	case TokenWord:
		p.next()
		return p.wordNode(tok.Value, tok.Position, opts), nil

	case TokenNumber:
		p.next()
		n, ok := parseNumber(tok.Value, tok.Position)
		if !ok {
			return nil, p.errorInMatcher(ErrUnrecognisedSubContents, tok.Position)
		}
		return n, nil

	case TokenLBracket:
		openIdx := p.current
		p.next()
		seq, err := p.parseContents(TokenRBracket, openIdx, opts)
		if err != nil {
			return nil, err
		}
		seq.Ordered = !opts.AnyOrder
		return &GroupNode{Child: seq, pos: tok.Position}, nil

	case TokenFunc:
		// whole-response constraints may sit among the terms
		switch tok.Value {
		case funcNot, funcMatchAll, funcMatchAny:
			return p.parseExpression()
		}
	}
	return nil, p.errorInMatcher(ErrUnrecognisedSubContents, tok.Position)
}

// wordNode builds the node for a word, expanding synonyms into alternatives.
func (p *Parser) wordNode(text string, pos int, opts *MatchOptions) Node {
	normalized := p.norm.normalize(text)
	node := p.newWordNode(normalized, pos, opts)

	synonyms := p.opts.synonymsOf(normalized)
	if len(synonyms) == 0 {
		return node
	}

	alts := []Node{node}
	for _, syn := range synonyms {
		fields := strings.Fields(syn)
		switch len(fields) {
		case 0:
			continue
		case 1:
			alts = append(alts, p.newWordNode(p.norm.normalize(fields[0]), pos, opts))
		default:
			seq := &SequenceNode{Ordered: true, pos: pos}
			for _, f := range fields {
				seq.Children = append(seq.Children, p.newWordNode(p.norm.normalize(f), pos, opts))
			}
			alts = append(alts, &GroupNode{Child: seq, pos: pos})
		}
	}
	return &OrNode{Children: alts, pos: pos}
}

func (p *Parser) newWordNode(normalized string, pos int, opts *MatchOptions) *WordNode {
	return &WordNode{
		Text:    normalized,
		Pattern: word.Compile(normalized),
		Options: word.Options{
			Misspellings:    opts.Misspellings,
			Kinds:           opts.EditKinds,
			Contains:        opts.Contains,
			ShortWordLength: p.opts.ShortWordLength,
		},
		pos: pos,
	}
}

// buildSequence joins items. Runs of items joined by '_' become proximity
// sequences, which are always ordered down to their innermost groups.
func buildSequence(items []Node, delims []TokenType, pos int) *SequenceNode {
	seq := &SequenceNode{pos: pos}

	var chain []Node
	flush := func() {
		if len(chain) == 1 {
			seq.Children = append(seq.Children, chain[0])
		} else {
			for _, n := range chain {
				markOrdered(n)
			}
			seq.Children = append(seq.Children, &SequenceNode{
				Children:  chain,
				Proximity: true,
				Ordered:   true,
				pos:       chain[0].Position(),
			})
		}
		chain = nil
	}

	for i, item := range items {
		chain = append(chain, item)
		if i == len(delims) || delims[i] != TokenProximity {
			flush()
		}
	}
	return seq
}

// markOrdered forces order on every group reachable without crossing into a
// separate expression.
func markOrdered(n Node) {
	switch v := n.(type) {
	case *GroupNode:
		v.Child.Ordered = true
		markOrdered(v.Child)
	case *SequenceNode:
		for _, c := range v.Children {
			markOrdered(c)
		}
	case *OrNode:
		for _, c := range v.Children {
			markOrdered(c)
		}
	}
}

// parseMatchOptions decodes the function name of a matcher, e.g. "match_m2ow".
func parseMatchOptions(name string) (MatchOptions, bool) {
	var opts MatchOptions
	if name == funcMatch {
		return opts, true
	}
	letters, ok := strings.CutPrefix(name, funcMatch+"_")
	if !ok || letters == "" {
		return opts, false
	}

	seen := make(map[byte]bool)
	for i := 0; i < len(letters); {
		c := letters[i]
		if seen[c] {
			return opts, false
		}
		seen[c] = true
		i++

		switch c {
		case 'c':
			opts.Contains = true
		case 'w':
			opts.AllowExtraWords = true
		case 'o':
			opts.AnyOrder = true
		case 'm':
			opts.Misspellings = 1
			digits := false
		modifiers:
			for i < len(letters) {
				d := letters[i]
				switch kind, isKind := editKindLetters[d]; {
				case d >= '0' && d <= '9' && !digits:
					j := i
					for j < len(letters) && letters[j] >= '0' && letters[j] <= '9' {
						j++
					}
					n, err := strconv.Atoi(letters[i:j])
					if err != nil {
						return opts, false
					}
					opts.Misspellings = n
					digits = true
					i = j
				case isKind:
					if opts.EditKinds&kind != 0 {
						return opts, false
					}
					opts.EditKinds |= kind
					i++
				default:
					break modifiers
				}
			}
			if opts.EditKinds == 0 {
				opts.EditKinds = word.AnyKind
			}
		default:
			return opts, false
		}
	}
	return opts, true
}

var editKindLetters = map[byte]word.Kind{
	'f': word.Fewer,
	'r': word.Replace,
	't': word.Transpose,
	'x': word.Extra,
}

// parseNumber parses a numeric literal such as "12", "+1.98" or "- 50".
func parseNumber(text string, pos int) (*NumberNode, bool) {
	compact := strings.ReplaceAll(text, " ", "")
	value, err := strconv.ParseFloat(compact, 64)
	if err != nil {
		return nil, false
	}
	n := &NumberNode{Text: text, Value: value, Integral: true, pos: pos}
	if dot := strings.IndexByte(compact, '.'); dot >= 0 {
		n.Integral = false
		n.Precision = len(compact) - dot - 1
	}
	return n, true
}

// errorInMatcher reports kind with the text of the enclosing matcher as parameter.
func (p *Parser) errorInMatcher(kind ErrorKind, pos int) *ParseError {
	return newParseError(kind, p.matcherText(), pos)
}

// matcherText returns the source of the function call being parsed, from
// its name to its closing parenthesis.
func (p *Parser) matcherText() string {
	if p.matcher < 0 {
		return p.input
	}
	closeIdx, ok := p.closing[p.matcher+1]
	if !ok {
		return p.input
	}
	return p.input[p.tokens[p.matcher].Position : p.tokens[closeIdx].Position+1]
}

// contentsText returns the source between an opening token and its closing token.
func (p *Parser) contentsText(openIdx int) string {
	closeIdx, ok := p.closing[openIdx]
	if !ok {
		return p.input
	}
	return p.input[p.tokens[openIdx].Position+1 : p.tokens[closeIdx].Position]
}

func (p *Parser) peek() Token { return p.peekAt(0) }

// peekAt looks n tokens ahead; the EOF token is returned past the end.
func (p *Parser) peekAt(n int) Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+n]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}

func (p *Parser) skip(t TokenType) {
	for p.peek().Type == t {
		p.next()
	}
}
