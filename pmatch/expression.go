package pmatch

import "strings"

// Expression is a parsed pattern. A valid Expression is immutable and may be
// evaluated from many goroutines at once.
type Expression struct {
	text string
	opts *Options
	root Node
	err  *ParseError
}

// ParseExpression parses text. It always returns an Expression; check
// IsValid before calling Matches.
func ParseExpression(text string, opts *Options) *Expression {
	if opts == nil {
		opts = NewOptions()
	}
	text = strings.TrimSpace(text)
	root, err := NewParser(text, opts).Parse()
	return &Expression{
		text: text,
		opts: opts,
		root: root,
		err:  err,
	}
}

// IsValid reports whether the expression parsed.
func (e *Expression) IsValid() bool { return e.err == nil }

// ParseError returns the kind of parse failure and the text it refers to.
// Both are empty for a valid expression.
func (e *Expression) ParseError() (ErrorKind, string) {
	if e.err == nil {
		return "", ""
	}
	return e.err.Kind, e.err.Param
}

// Err returns the parse failure, or nil.
func (e *Expression) Err() error {
	if e.err == nil {
		return nil
	}
	return e.err
}

// Root returns the expression tree; nil when invalid.
func (e *Expression) Root() Node { return e.root }

// Text returns the expression as parsed, without surrounding whitespace.
func (e *Expression) Text() string { return e.text }

// Options returns the options the expression was parsed with.
func (e *Expression) Options() *Options { return e.opts }

func (e *Expression) String() string {
	if e.root == nil {
		return "Invalid(" + e.text + ")"
	}
	return e.root.String()
}

// Matches reports whether the response matches. An invalid expression
// matches nothing, and so does an evaluation that ran out of search steps.
func (e *Expression) Matches(ps *ParsedString) bool {
	return e.Evaluate(ps) == Match
}

// Evaluate matches the response and tells apart a failed match from a
// search that was cut short by the step budget.
func (e *Expression) Evaluate(ps *ParsedString) Outcome {
	if e.root == nil || ps == nil {
		return NoMatch
	}
	ev := newEvaluator(ps, e.opts)
	matched := ev.expression(e.root)
	if ev.exhausted {
		return Undetermined
	}
	if matched {
		return Match
	}
	return NoMatch
}

// MatchString parses both sides with opts and matches them. The error is a
// *ParseError when the expression is invalid.
func MatchString(expression, response string, opts *Options) (bool, error) {
	if opts == nil {
		opts = NewOptions()
	}
	expr := ParseExpression(expression, opts)
	if !expr.IsValid() {
		return false, expr.Err()
	}
	return expr.Matches(ParseString(response, opts)), nil
}
