package formatter

import (
	"fmt"
	"strings"

	"github.com/gnolang/pmatch/grader"
	"github.com/gnolang/pmatch/messages"
)

// GenerateReport renders graded results for a terminal, in order.
func GenerateReport(results []grader.Result, cat *messages.Catalog) string {
	var builder strings.Builder
	for _, r := range results {
		builder.WriteString(formatResult(r, cat))
	}
	return builder.String()
}

func formatResult(r grader.Result, cat *messages.Catalog) string {
	label := r.QuestionID
	if r.ID != "" {
		label += " (" + r.ID + ")"
	}

	var b strings.Builder
	switch {
	case r.Error != "":
		b.WriteString(errorStyle.Sprint("error: "))
		b.WriteString(fileStyle.Sprintf("%s\n", label))
	case r.TooLong:
		b.WriteString(warningStyle.Sprint("too long: "))
		b.WriteString(fileStyle.Sprintf("%s\n", label))
	case r.Matched:
		b.WriteString(suggestionStyle.Sprint("match: "))
		b.WriteString(fileStyle.Sprint(label))
		b.WriteString(ruleStyle.Sprintf(" answer %d, fraction %s\n", r.Answer, formatFraction(r.Fraction)))
	default:
		b.WriteString(warningStyle.Sprint("no match: "))
		b.WriteString(fileStyle.Sprintf("%s\n", label))
	}

	b.WriteString(lineStyle.Sprint("  | "))
	b.WriteString(r.Response + "\n")

	switch {
	case r.Error != "":
		b.WriteString(lineStyle.Sprint("  = "))
		b.WriteString(messageStyle.Sprintf("%s\n", r.Error))
	case r.TooLong:
		b.WriteString(lineStyle.Sprint("  = "))
		b.WriteString(cat.Sprintf(messages.ResponseTooLong, r.Words) + "\n")
	case r.Matched:
		b.WriteString(lineStyle.Sprint("  = "))
		b.WriteString(r.Expression + "\n")
		if r.Feedback != "" {
			b.WriteString(lineStyle.Sprint("  = "))
			b.WriteString(suggestionStyle.Sprint("feedback: "))
			b.WriteString(r.Feedback + "\n")
		}
	default:
		b.WriteString(lineStyle.Sprint("  = "))
		b.WriteString(cat.Sprintf(messages.NoMatchingAnswer) + "\n")
	}

	for _, n := range r.Undetermined {
		b.WriteString(lineStyle.Sprint("  = "))
		b.WriteString(warningStyle.Sprint("note: "))
		b.WriteString(cat.Sprintf(messages.Undetermined, n) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// FormatSummary renders the totals of a batch on one line.
func FormatSummary(s grader.Summary) string {
	line := fmt.Sprintf("%d responses: %d matched, %d too long, %d undetermined, %d errors, mean fraction %s",
		s.Responses, s.Matched, s.TooLong, s.Undetermined, s.Errors, formatFraction(s.Mean))
	if s.Errors > 0 {
		return errorStyle.Sprintf("%s\n", line)
	}
	return suggestionStyle.Sprintf("%s\n", line)
}

func formatFraction(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
