package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/fatih/color"
)

const tabWidth = 8

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

// issueFormatter is the interface that wraps the IssueTemplate method.
type issueFormatter interface {
	IssueTemplate() string
}

// Diagnostic is one problem to show to the author of a config.
// Text is the expression it concerns; it may be empty when the problem
// is about a whole question. Start and End are byte offsets into Text.
type Diagnostic struct {
	Severity string
	Rule     string
	Location string
	Text     string
	Start    int
	End      int
	Message  string
	Note     string
}

type diagnosticData struct {
	Severity        string
	Rule            string
	Location        string
	Line            int
	StartColumn     int
	EndColumn       int
	MaxLineNumWidth int
	Padding         string
	SnippetLines    []string
	Message         string
	Note            string
}

// GenerateFormattedDiagnostics renders diagnostics, one block each.
func GenerateFormattedDiagnostics(diagnostics []Diagnostic) string {
	var builder strings.Builder
	for _, d := range diagnostics {
		builder.WriteString(buildDiagnostic(d, &expressionFormatter{}))
	}
	return builder.String()
}

func buildDiagnostic(d Diagnostic, formatter issueFormatter) string {
	data := diagnosticData{
		Severity: d.Severity,
		Rule:     d.Rule,
		Location: d.Location,
		Message:  d.Message,
		Note:     d.Note,
	}
	if data.Severity == "" {
		data.Severity = SeverityError
	}

	if d.Text != "" {
		data.SnippetLines = strings.Split(d.Text, "\n")
		data.Line, data.StartColumn = lineAndColumn(data.SnippetLines, d.Start)
		endLine, endColumn := lineAndColumn(data.SnippetLines, d.End)
		if endLine != data.Line {
			// the underline stops at the end of the first line
			endColumn = len(data.SnippetLines[data.Line-1]) + 1
		}
		data.EndColumn = endColumn
	}
	data.MaxLineNumWidth = calculateMaxLineNumWidth(data.Line)
	data.Padding = strings.Repeat(" ", data.MaxLineNumWidth+1)

	funcMap := template.FuncMap{
		"header":              header,
		"snippet":             codeSnippet,
		"underlineAndMessage": underlineAndMessage,
		"note":                note,
	}

	tmpl := template.Must(template.New("diagnostic").Funcs(funcMap).Parse(formatter.IssueTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting diagnostic: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(severity, rule string, maxLineNumWidth int, location string, line, column int) string {
	var endString string
	switch severity {
	case SeverityWarning:
		endString = warningStyle.Sprint("warning: ")
	default:
		endString = errorStyle.Sprint("error: ")
	}
	endString += ruleStyle.Sprintf("%s\n", rule)

	if location == "" {
		return endString
	}
	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	if line > 0 {
		endString += fileStyle.Sprintf("%s:%d:%d\n", location, line, column)
	} else {
		endString += fileStyle.Sprintf("%s\n", location)
	}
	return endString
}

func codeSnippet(snippetLines []string, line, maxLineNumWidth int, padding string) string {
	if line < 1 || line > len(snippetLines) {
		return ""
	}
	endString := lineStyle.Sprintf("%s|\n", padding)
	lineNum := fmt.Sprintf("%*d", maxLineNumWidth, line)
	endString += lineStyle.Sprintf("%s | ", lineNum)
	endString += snippetLines[line-1] + "\n"
	return endString
}

func underlineAndMessage(message, padding string, line, startColumn, endColumn int, snippetLines []string) string {
	var endString string
	if line >= 1 && line <= len(snippetLines) {
		source := snippetLines[line-1]
		underlineStart := calculateVisualColumn(source, startColumn)
		underlineLength := calculateVisualColumn(source, endColumn) - underlineStart
		if underlineLength < 1 {
			underlineLength = 1
		}

		endString = lineStyle.Sprintf("%s| ", padding)
		endString += strings.Repeat(" ", underlineStart)
		endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", underlineLength))
	}

	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", message)
	return endString
}

func note(note, padding string) string {
	if note == "" {
		return ""
	}
	return lineStyle.Sprintf("%s= ", padding) + suggestionStyle.Sprint("note: ") + note + "\n"
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}

// lineAndColumn converts a byte offset into a 1-based line and byte column.
func lineAndColumn(lines []string, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	for i, l := range lines {
		if offset <= len(l) {
			return i + 1, offset + 1
		}
		offset -= len(l) + 1
	}
	last := len(lines)
	return last, len(lines[last-1]) + 1
}

// calculateVisualColumn calculates the visual column position
// in a string. taking into account tab characters.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}

// runeEnd returns the offset just past the rune starting at offset.
func runeEnd(text string, offset int) int {
	if offset >= len(text) {
		return offset + 1
	}
	_, size := utf8.DecodeRuneInString(text[offset:])
	return offset + size
}
