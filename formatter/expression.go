package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnolang/pmatch/grader"
	"github.com/gnolang/pmatch/messages"
	"github.com/gnolang/pmatch/pmatch"
)

type expressionFormatter struct{}

func (f *expressionFormatter) IssueTemplate() string {
	return `{{header .Severity .Rule .MaxLineNumWidth .Location .Line .StartColumn}}` +
		`{{snippet .SnippetLines .Line .MaxLineNumWidth .Padding}}` +
		`{{underlineAndMessage .Message .Padding .Line .StartColumn .EndColumn .SnippetLines}}` +
		`{{note .Note .Padding}}
`
}

// ParseErrorDiagnostic points at the part of text that err is about.
func ParseErrorDiagnostic(location, text string, pe *pmatch.ParseError, cat *messages.Catalog) Diagnostic {
	start, end := errorSpan(text, pe)
	return Diagnostic{
		Severity: SeverityError,
		Rule:     string(pe.Kind),
		Location: location,
		Text:     text,
		Start:    start,
		End:      end,
		Message:  cat.Lookup(pe.Kind, pe.Param),
	}
}

// FormatParseError renders the error of an invalid expression. Errors that
// are not *pmatch.ParseError are rendered on a single line.
func FormatParseError(location, text string, err error, cat *messages.Catalog) string {
	var pe *pmatch.ParseError
	if !errors.As(err, &pe) {
		return errorStyle.Sprint("error: ") + messageStyle.Sprintf("%s\n", cat.Error(err))
	}
	return GenerateFormattedDiagnostics([]Diagnostic{
		ParseErrorDiagnostic(location, strings.TrimSpace(text), pe, cat),
	})
}

// FormatValidationErrors renders the result of grader.Validate for the
// config at path.
func FormatValidationErrors(path string, err error, cat *messages.Catalog) string {
	verrs, other := grader.ValidationErrors(err)

	var diagnostics []Diagnostic
	for _, ve := range verrs {
		location := fmt.Sprintf("%s:questions[%s]", path, ve.QuestionID)
		if ve.Answer > 0 {
			location += fmt.Sprintf(".answers[%d]", ve.Answer)
		}

		var pe *pmatch.ParseError
		if errors.As(ve.Err, &pe) {
			diagnostics = append(diagnostics, ParseErrorDiagnostic(location, strings.TrimSpace(ve.Expression), pe, cat))
			continue
		}
		diagnostics = append(diagnostics, Diagnostic{
			Severity: SeverityError,
			Rule:     ve.Key,
			Location: location,
			Message:  ve.Message(cat),
		})
	}

	var builder strings.Builder
	builder.WriteString(GenerateFormattedDiagnostics(diagnostics))
	for _, e := range other {
		builder.WriteString(errorStyle.Sprint("error: "))
		builder.WriteString(fileStyle.Sprintf("%s: ", path))
		builder.WriteString(messageStyle.Sprintf("%s\n\n", e.Error()))
	}
	return builder.String()
}

// errorSpan finds the bytes of text a parse error refers to. The parameter
// is preferred when it appears at the reported position, then anywhere in
// text; otherwise a single character at the position is used.
func errorSpan(text string, pe *pmatch.ParseError) (int, int) {
	pos := pe.Position
	if pos < 0 {
		pos = 0
	}
	if pos > len(text) {
		pos = len(text)
	}
	if pe.Param != "" {
		if strings.HasPrefix(text[pos:], pe.Param) {
			return pos, pos + len(pe.Param)
		}
		if i := strings.Index(text, pe.Param); i >= 0 {
			return i, i + len(pe.Param)
		}
	}
	return pos, runeEnd(text, pos)
}
