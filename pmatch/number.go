package pmatch

import (
	"regexp"
	"strconv"
	"strings"
)

var candidateNumberPattern = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)

// matchesNumber reports whether the response text, one or two words already
// joined by a space, is the number n.
func (n *NumberNode) matchesNumber(text string) bool {
	compact := strings.Replace(text, " ", "", 1)
	if !candidateNumberPattern.MatchString(compact) {
		return false
	}
	if n.Integral && strings.ContainsRune(compact, '.') {
		return false
	}
	value, err := strconv.ParseFloat(compact, 64)
	if err != nil {
		return false
	}
	return roundTo(value, n.Precision) == roundTo(n.Value, n.Precision)
}

// roundTo renders v with the given number of decimals. Formatting rounds the
// exact binary value, which avoids the drift of scaling by powers of ten.
func roundTo(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		return s[1:]
	}
	return s
}

// isSign reports whether a response word is a lone sign that may be followed
// by the digits of a number in the next word.
func isSign(w string) bool {
	return w == "+" || w == "-"
}
