package word

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pair struct {
	candidate string
	want      bool
}

func runGrid(t *testing.T, pattern string, opts Options, grid []pair) {
	t.Helper()
	p := Compile(pattern)
	for _, tt := range grid {
		assert.Equal(t, tt.want, p.Match(tt.candidate, opts), "%q against %q (%+v)", tt.candidate, pattern, opts)
	}
}

func TestMatch_Exact(t *testing.T) {
	t.Parallel()
	runGrid(t, "test", Options{}, []pair{
		{"test", true},
		{"tes", false},
		{"testt", false},
		{"tent", false},
		{"tets", false},
		{"", false},
	})
}

func TestMatch_EditKinds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		kinds Kind
		grid  []pair
	}{
		{
			name:  "fewer characters",
			kinds: Fewer,
			grid: []pair{
				{"abcd", true},
				{"abc", true},
				{"bcd", true},
				{"acbd", false},
				{"abfd", false},
				{"abcf", false},
				{"abcdg", false},
				{"gabcd", false},
			},
		},
		{
			name:  "replaced character",
			kinds: Replace,
			grid: []pair{
				{"abcd", true},
				{"abfd", true},
				{"abcf", true},
				{"fbcd", true},
				{"abc", false},
				{"acbd", false},
				{"bcd", false},
				{"abcdg", false},
				{"gabcd", false},
			},
		},
		{
			name:  "transposed characters",
			kinds: Transpose,
			grid: []pair{
				{"abcd", true},
				{"acbd", true},
				{"bacd", true},
				{"abdc", true},
				{"abc", false},
				{"abfd", false},
				{"abcf", false},
				{"fbcd", false},
				{"bcd", false},
				{"abcdg", false},
				{"gabcd", false},
			},
		},
		{
			name:  "extra character",
			kinds: Extra,
			grid: []pair{
				{"abcd", true},
				{"abcdg", true},
				{"gabcd", true},
				{"abc", false},
				{"acbd", false},
				{"bacd", false},
				{"abdc", false},
				{"abfd", false},
				{"abcf", false},
				{"fbcd", false},
				{"bcd", false},
			},
		},
		{
			name:  "any single misspelling",
			kinds: AnyKind,
			grid: []pair{
				{"abcd", true},
				{"abc", true},
				{"acbd", true},
				{"bacd", true},
				{"abdc", true},
				{"abfd", true},
				{"abcf", true},
				{"fbcd", true},
				{"bcd", true},
				{"abcdg", true},
				{"gabcd", true},
				{"bacde", false},
				{"badc", false},
				{"affd", false},
				{"fbcf", false},
				{"ffcd", false},
				{"bfcd", false},
				{"abccdg", false},
				{"gabbcd", false},
				{"abbcdg", false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			runGrid(t, "abcd", Options{Misspellings: 1, Kinds: tt.kinds, ShortWordLength: DefaultShortWordLength}, tt.grid)
		})
	}
}

func TestMatch_TwoMisspellings(t *testing.T) {
	t.Parallel()

	all := []string{
		"abcd", "abc", "acbd", "bacd", "abdc", "abfd", "abcf", "fbcd", "bcd",
		"abcdg", "gabcd", "bacde", "badc", "affd", "fbcf", "ffcd", "bfcd",
		"abccdg", "gabbcd", "abbcdg",
	}
	var grid []pair
	for _, c := range all {
		grid = append(grid, pair{c, true})
	}
	runGrid(t, "abcd", Options{Misspellings: 2, Kinds: AnyKind}, grid)

	runGrid(t, "abcd", Options{Misspellings: 2, Kinds: AnyKind}, []pair{
		{"bcdef", false},
		{"dcba", false},
	})
}

func TestMatch_ShortWordCap(t *testing.T) {
	t.Parallel()

	capped := Options{Misspellings: 2, Kinds: AnyKind, ShortWordLength: DefaultShortWordLength}
	runGrid(t, "abcd", capped, []pair{
		{"abfd", true},
		{"badc", false},
		{"affd", false},
	})

	// long enough to keep both misspellings
	runGrid(t, "temperature", capped, []pair{
		{"tempratur", true},
		{"temporatur", true},
		{"tmporatur", false},
	})

	runGrid(t, "temperature", Options{Misspellings: 1, Kinds: AnyKind, ShortWordLength: DefaultShortWordLength}, []pair{
		{"tempratur", false},
		{"temperatur", true},
	})

	runGrid(t, "tes", Options{Misspellings: 3, Kinds: Fewer, ShortWordLength: DefaultShortWordLength}, []pair{
		{"te", true},
		{"t", false},
	})
}

func TestMatch_Wildcards(t *testing.T) {
	t.Parallel()
	tests := []struct {
		pattern   string
		candidate string
		want      bool
	}{
		{"?ick", "rick", true},
		{"?ick", "ick", false},
		{"?ick", "brick", false},
		{"har*", "harold", true},
		{"har*", "har", true},
		{"har*", "ha", false},
		{"*ing", "sing", true},
		{"b*k", "book", true},
		{"b*k", "bokx", false},
		{"a**b", "ab", true},
		{`a\?`, "a?", true},
		{`a\?`, "ab", false},
		{`a\*`, "abc", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Match(tt.candidate, tt.pattern, Options{}), "%q against %q", tt.candidate, tt.pattern)
	}
}

func TestMatch_WildcardsWithMisspellings(t *testing.T) {
	t.Parallel()
	opts := Options{Misspellings: 1, Kinds: AnyKind}
	runGrid(t, "mar*age", opts, []pair{
		{"marriage", true},
		{"marrige", true},
		{"mirrxagx", false},
	})
	runGrid(t, "?at", opts, []pair{
		{"at", true},
		{"cta", true},
	})
}

func TestMatch_Contains(t *testing.T) {
	t.Parallel()
	opts := Options{Contains: true}
	runGrid(t, "tom", opts, []pair{
		{"thomas", true},
		{"tom", true},
		{"atoms", true},
		{"mot", false},
		{"to", false},
	})

	withMisspelling := Options{Contains: true, Misspellings: 1, Kinds: AnyKind}
	runGrid(t, "tom", withMisspelling, []pair{
		{"thoas", true},
		{"to", true},
	})
}

func TestCompile(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in       string
		wantLen  int
		wantWild bool
		wantStr  string
	}{
		{"abcd", 4, false, "abcd"},
		{"a?c*", 4, true, "a?c*"},
		{"a***", 2, true, "a*"},
		{`a\_b`, 3, false, "a_b"},
		{`a\?`, 2, false, `a\?`},
		{`a\`, 2, false, `a\\`},
	}
	for _, tt := range tests {
		p := Compile(tt.in)
		assert.Equal(t, tt.wantLen, p.Len(), tt.in)
		assert.Equal(t, tt.wantWild, p.HasWildcards(), tt.in)
		assert.Equal(t, tt.wantStr, p.String(), tt.in)
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "none", Kind(0).String())
	assert.Equal(t, "any", AnyKind.String())
	assert.Equal(t, "transpose|fewer", (Transpose | Fewer).String())
}
