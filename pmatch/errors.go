package pmatch

import "fmt"

// ErrorKind names a parse failure. The values double as message keys for
// whatever renders errors for people.
type ErrorKind string

const (
	ErrMissingClosingBracket     ErrorKind = "missing_closing_bracket"
	ErrUnrecognisedSubContents   ErrorKind = "unrecognised_sub_contents"
	ErrLastSubContentOrCharacter ErrorKind = "last_subcontent_type_or_character"
	ErrLastSubContentWordDelim   ErrorKind = "last_subcontent_type_word_delimiter"
	ErrUnrecognisedExpression    ErrorKind = "unrecognised_expression"
	ErrIllegalOptions            ErrorKind = "illegal_options"
)

// ErrorKinds lists every kind the parser can report.
var ErrorKinds = []ErrorKind{
	ErrMissingClosingBracket,
	ErrUnrecognisedSubContents,
	ErrLastSubContentOrCharacter,
	ErrLastSubContentWordDelim,
	ErrUnrecognisedExpression,
	ErrIllegalOptions,
}

// ParseError is the single error kept by an invalid Expression.
type ParseError struct {
	Kind     ErrorKind
	Param    string // the offending text, used to fill in the message
	Position int    // byte offset where the problem was noticed
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pmatch: %s at %d: %q", e.Kind, e.Position, e.Param)
}

// Is makes errors.Is match on kind alone.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Param == "" || t.Param == e.Param)
}

func newParseError(kind ErrorKind, param string, pos int) *ParseError {
	return &ParseError{Kind: kind, Param: param, Position: pos}
}
