package formatter

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/gnolang/pmatch/grader"
	"github.com/gnolang/pmatch/messages"
	"github.com/gnolang/pmatch/pmatch"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestFormatValidationErrors(t *testing.T) {
	t.Parallel()

	cfg := &grader.Config{
		Questions: []grader.Question{
			{ID: "q1", Answers: []grader.Answer{{Expression: "match_mow([tom maud]|)", Fraction: 1}}},
			{ID: "q2"},
			{ID: "q2", Answers: []grader.Answer{{Expression: "match(a)", Fraction: 1}}},
		},
	}
	err := grader.Validate(cfg)

	expected := `error: last_subcontent_type_or_character
 --> cfg.yaml:questions[q1].answers[1]:1:11
  |
1 | match_mow([tom maud]|)
  |           ~~~~~~~~~~~
  = The last item in '[tom maud]|' must not be an or character '|'.

error: not_enough_answers
 --> cfg.yaml:questions[q2]
  = Question 'q2' needs at least one answer.

error: cfg.yaml: duplicate question id "q2"

`

	assert.Equal(t, expected, FormatValidationErrors("cfg.yaml", err, messages.NewCatalog("en")))
	assert.Empty(t, FormatValidationErrors("cfg.yaml", nil, messages.NewCatalog("en")))
}

func TestFormatParseError(t *testing.T) {
	t.Parallel()

	text := "match_mow([tom maud]|[sid jane]"
	expr := pmatch.ParseExpression(text, nil)

	expected := "error: missing_closing_bracket\n" +
		" --> expression:1:1\n" +
		"  |\n" +
		"1 | " + text + "\n" +
		"  | " + strings.Repeat("~", len(text)) + "\n" +
		"  = Missing closing bracket in '" + text + "'.\n" +
		"\n"

	assert.Equal(t, expected, FormatParseError("expression", "  "+text, expr.Err(), messages.NewCatalog("en")))
	assert.Equal(t, "error: boom\n", FormatParseError("expression", text, errors.New("boom"), messages.NewCatalog("en")))
}

func TestGenerateFormattedDiagnostics(t *testing.T) {
	t.Parallel()

	diagnostics := []Diagnostic{
		{
			Severity: SeverityWarning,
			Rule:     "accents",
			Location: "q",
			Text:     "match(école\tcafé)",
			Start:    strings.Index("match(école\tcafé)", "café"),
			End:      len("match(école\tcafé)") - 1,
			Message:  "spelled with accents",
			Note:     "accents are kept",
		},
		{
			Rule:     "second-line",
			Location: "q",
			Text:     "match_all(\nmatch(a) match(b))",
			Start:    11,
			End:      19,
			Message:  "first child",
		},
	}

	expected := `warning: accents
 --> q:1:14
  |
1 | match(école	café)
  |                 ~~~~
  = spelled with accents
  = note: accents are kept

error: second-line
 --> q:2:1
  |
2 | match(a) match(b))
  | ~~~~~~~~
  = first child

`

	assert.Equal(t, expected, GenerateFormattedDiagnostics(diagnostics))
}

func TestGenerateReport(t *testing.T) {
	t.Parallel()

	results := []grader.Result{
		{
			ID:         "s1",
			QuestionID: "boiling",
			Response:   "at 100 degrees",
			Matched:    true,
			Answer:     1,
			Expression: "match_w(100 degrees)",
			Fraction:   1,
			Feedback:   "Correct.",
		},
		{QuestionID: "boiling", Response: "hot", Undetermined: []int{2}},
		{QuestionID: "names", Response: "a very long answer", Words: 12, TooLong: true},
		{QuestionID: "zzz", Response: "x", Error: `unknown question "zzz"`},
	}

	expected := `match: boiling (s1) answer 1, fraction 1.00
  | at 100 degrees
  = match_w(100 degrees)
  = feedback: Correct.

no match: boiling
  | hot
  = No answer matched.
  = note: Answer 2 was too costly to evaluate and was skipped.

too long: names
  | a very long answer
  = The response has 12 words, more than this question grades.

error: zzz
  | x
  = unknown question "zzz"

`

	assert.Equal(t, expected, GenerateReport(results, messages.NewCatalog("en")))

	french := GenerateReport(results[1:2], messages.NewCatalog("fr"))
	assert.Contains(t, french, "  = Aucune réponse ne correspond.\n")
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	s := grader.Summary{Responses: 4, Matched: 1, TooLong: 1, Undetermined: 1, Errors: 1, Mean: 0.5}
	assert.Equal(t,
		"4 responses: 1 matched, 1 too long, 1 undetermined, 1 errors, mean fraction 0.50\n",
		FormatSummary(s))
}

func TestLineAndColumn(t *testing.T) {
	t.Parallel()

	lines := []string{"ab", "cde"}
	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{-1, 1, 1},
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{5, 2, 3},
		{6, 2, 4},
		{100, 2, 4},
	}
	for _, tt := range tests {
		line, col := lineAndColumn(lines, tt.offset)
		assert.Equal(t, tt.wantLine, line, "offset %d", tt.offset)
		assert.Equal(t, tt.wantCol, col, "offset %d", tt.offset)
	}
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line   string
		column int
		want   int
	}{
		{"abc", 1, 0},
		{"abc", 3, 2},
		{"abc", 4, 3},
		{"\tx", 2, 8},
		{"a\tx", 3, 8},
		{"école", 3, 1},
		{"école", -1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, calculateVisualColumn(tt.line, tt.column), "%q at %d", tt.line, tt.column)
	}
}

func TestErrorSpan(t *testing.T) {
	t.Parallel()

	text := "match_q(a)"
	start, end := errorSpan(text, &pmatch.ParseError{Kind: pmatch.ErrIllegalOptions, Param: "q", Position: 6})
	assert.Equal(t, 6, start)
	assert.Equal(t, 7, end)

	start, end = errorSpan(text, &pmatch.ParseError{Param: "a", Position: 0})
	assert.Equal(t, 1, start)
	assert.Equal(t, 2, end)

	start, end = errorSpan(text, &pmatch.ParseError{Position: 99})
	assert.Equal(t, 10, start)
	assert.Equal(t, 11, end)
}
