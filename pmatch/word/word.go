// Package word decides whether a single response word is compatible with a
// single pattern word. It knows nothing about sentences or word order; the
// evaluator in the parent package owns those concerns and calls in here for
// every word pair it considers.
package word

import (
	"fmt"
	"strings"
)

// Kind is a set of edit operations that may be spent from the misspelling budget.
type Kind uint8

const (
	Replace   Kind = 1 << iota // one character swapped for another
	Transpose                  // two adjacent characters swapped
	Fewer                      // a pattern character missing from the response
	Extra                      // an extra character in the response

	AnyKind = Replace | Transpose | Fewer | Extra
)

func (k Kind) String() string {
	if k == 0 {
		return "none"
	}
	if k == AnyKind {
		return "any"
	}
	var parts []string
	for _, e := range []struct {
		kind Kind
		name string
	}{
		{Replace, "replace"},
		{Transpose, "transpose"},
		{Fewer, "fewer"},
		{Extra, "extra"},
	} {
		if k&e.kind != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

// DefaultShortWordLength is the pattern length below which a word may never
// be misspelt more than once.
const DefaultShortWordLength = 8

// Options controls how tolerant a comparison is.
type Options struct {
	Misspellings    int  // edit budget
	Kinds           Kind // which edits may be spent; ignored when Misspellings is 0
	Contains        bool // extra response characters are free
	ShortWordLength int  // 0 disables the short pattern cap
}

// budget returns the number of edits allowed for a pattern of n symbols.
func (o Options) budget(n int) int {
	b := o.Misspellings
	if b < 0 {
		b = 0
	}
	if o.ShortWordLength > 0 && n < o.ShortWordLength && b > 1 {
		b = 1
	}
	if o.Kinds == 0 {
		b = 0
	}
	return b
}

type symbolKind uint8

const (
	symLiteral symbolKind = iota
	symAny                // '?'
	symStar               // '*'
)

type symbol struct {
	r    rune
	kind symbolKind
}

func (s symbol) String() string {
	switch s.kind {
	case symAny:
		return "?"
	case symStar:
		return "*"
	default:
		return string(s.r)
	}
}

// Pattern is a compiled pattern word. The zero value matches only the empty word.
type Pattern struct {
	symbols []symbol
	wild    bool
}

// Compile turns a pattern word into a Pattern. '?' matches any one
// character, '*' any run of characters, and a backslash makes the next
// character literal.
func Compile(pattern string) Pattern {
	var p Pattern
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			p.symbols = append(p.symbols, symbol{r: r})
			escaped = false
		case r == '\\':
			escaped = true
		case r == '?':
			p.symbols = append(p.symbols, symbol{r: r, kind: symAny})
			p.wild = true
		case r == '*':
			// a run of stars is the same as one star
			if n := len(p.symbols); n > 0 && p.symbols[n-1].kind == symStar {
				continue
			}
			p.symbols = append(p.symbols, symbol{r: r, kind: symStar})
			p.wild = true
		default:
			p.symbols = append(p.symbols, symbol{r: r})
		}
	}
	if escaped {
		// a trailing backslash stands for itself
		p.symbols = append(p.symbols, symbol{r: '\\'})
	}
	return p
}

// Len returns the number of symbols in the pattern, wildcards included.
func (p Pattern) Len() int { return len(p.symbols) }

// HasWildcards reports whether the pattern contains '?' or '*'.
func (p Pattern) HasWildcards() bool { return p.wild }

func (p Pattern) String() string {
	var sb strings.Builder
	for _, s := range p.symbols {
		if s.kind == symLiteral && (s.r == '?' || s.r == '*' || s.r == '\\') {
			sb.WriteByte('\\')
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// GoString is used by %#v in test failure output.
func (p Pattern) GoString() string {
	return fmt.Sprintf("word.Compile(%q)", p.String())
}

// Match reports whether candidate is within the edit budget of pattern.
func Match(candidate, pattern string, opts Options) bool {
	return Compile(pattern).Match(candidate, opts)
}

// Match reports whether candidate is within the edit budget of p.
func (p Pattern) Match(candidate string, opts Options) bool {
	c := []rune(candidate)
	budget := opts.budget(len(p.symbols))

	// fast path for the common exact comparison
	if budget == 0 && !opts.Contains && !p.wild {
		if len(c) != len(p.symbols) {
			return false
		}
		for i, s := range p.symbols {
			if s.r != c[i] {
				return false
			}
		}
		return true
	}

	return distance(p.symbols, c, opts, budget) <= budget
}

// infinity is larger than any budget we will ever be asked about.
const infinity = 1 << 20

// distance computes the restricted optimal string alignment distance between
// the pattern symbols and the candidate runes, using only the edit kinds in
// opts. It gives up and returns infinity as soon as no alignment can stay
// within budget.
func distance(p []symbol, c []rune, opts Options, budget int) int {
	kinds := opts.Kinds
	if budget == 0 {
		kinds = 0
	}

	insertCost := infinity
	switch {
	case opts.Contains:
		insertCost = 0
	case kinds&Extra != 0:
		insertCost = 1
	}

	m := len(c)
	prev2 := make([]int, m+1)
	prev := make([]int, m+1)
	cur := make([]int, m+1)

	// row 0: the empty pattern against every candidate prefix
	prev[0] = 0
	for j := 1; j <= m; j++ {
		prev[j] = add(prev[j-1], insertCost)
	}
	for j := range prev2 {
		prev2[j] = infinity
	}

	for i := 1; i <= len(p); i++ {
		sym := p[i-1]
		rowMin := infinity

		for j := 0; j <= m; j++ {
			best := infinity

			if sym.kind == symStar {
				best = prev[j]
				if j > 0 {
					best = min(best, cur[j-1])
				}
				cur[j] = best
				rowMin = min(rowMin, best)
				continue
			}

			if kinds&Fewer != 0 {
				best = min(best, add(prev[j], 1))
			}
			if j > 0 {
				if sym.kind == symAny || sym.r == c[j-1] {
					best = min(best, prev[j-1])
				} else if kinds&Replace != 0 {
					best = min(best, add(prev[j-1], 1))
				}
				best = min(best, add(cur[j-1], insertCost))

				if kinds&Transpose != 0 && i > 1 && j > 1 && transposable(p[i-2], sym, c[j-2], c[j-1]) {
					best = min(best, add(prev2[j-2], 1))
				}
			}

			cur[j] = best
			rowMin = min(rowMin, best)
		}

		// every alignment passes through this row or, via a transposition, the one above
		if rowMin > budget && minOf(prev) > budget {
			return infinity
		}

		prev2, prev, cur = prev, cur, prev2
	}

	return prev[m]
}

// transposable reports whether pattern symbols a,b appear as b,a in the candidate.
func transposable(a, b symbol, ca, cb rune) bool {
	if a.kind != symLiteral || b.kind != symLiteral || a.r == b.r {
		return false
	}
	return a.r == cb && b.r == ca
}

func add(a, b int) int {
	if a >= infinity || b >= infinity {
		return infinity
	}
	return a + b
}

func minOf(row []int) int {
	m := infinity
	for _, v := range row {
		m = min(m, v)
	}
	return m
}
