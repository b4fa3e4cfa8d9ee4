package pmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Word is one word of a response.
type Word struct {
	Raw        string // as typed, without trailing sentence dividers
	Normalized string // compared against patterns
	Sentence   int    // zero based index of the sentence holding the word
}

// ParsedString is a response split into words. It is immutable once built.
type ParsedString struct {
	text  string
	words []Word
}

// ParseString splits text into words using opts. It never fails: empty or
// blank text yields no words.
func ParseString(text string, opts *Options) *ParsedString {
	if opts == nil {
		opts = NewOptions()
	}
	n := newNormalizer(opts)

	ps := &ParsedString{text: text}
	sentence := 0

	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		raw := current.String()
		current.Reset()

		trimmed := strings.TrimRightFunc(raw, opts.isSentenceDivider)
		if trimmed != "" {
			ps.words = append(ps.words, Word{
				Raw:        trimmed,
				Normalized: n.normalize(trimmed),
				Sentence:   sentence,
			})
		}
		if len(trimmed) < len(raw) {
			sentence++
		}
	}

	for _, r := range text {
		if unicode.IsSpace(r) || opts.isWordSeparator(r) {
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()

	return ps
}

// Text returns the original response.
func (ps *ParsedString) Text() string { return ps.text }

// Words returns a copy of the words.
func (ps *ParsedString) Words() []Word {
	out := make([]Word, len(ps.words))
	copy(out, ps.words)
	return out
}

// Len returns the number of words.
func (ps *ParsedString) Len() int { return len(ps.words) }

// Sentences returns the number of sentences that hold at least one word.
func (ps *ParsedString) Sentences() int {
	if len(ps.words) == 0 {
		return 0
	}
	count := 1
	for i := 1; i < len(ps.words); i++ {
		if ps.words[i].Sentence != ps.words[i-1].Sentence {
			count++
		}
	}
	return count
}

func (ps *ParsedString) String() string {
	parts := make([]string, len(ps.words))
	for i, w := range ps.words {
		parts[i] = w.Normalized
	}
	return strings.Join(parts, " ")
}

// normalizer folds words the same way for responses and patterns.
// A cases.Caser keeps state, so each parse owns its own normalizer.
type normalizer struct {
	fold cases.Caser
	ci   bool
}

func newNormalizer(opts *Options) *normalizer {
	return &normalizer{
		fold: cases.Fold(),
		ci:   opts.IgnoreCase,
	}
}

func (n *normalizer) normalize(s string) string {
	s = norm.NFC.String(s)
	if n.ci {
		s = n.fold.String(s)
	}
	return s
}

func (o *Options) normalize(s string) string {
	return newNormalizer(o).normalize(s)
}
