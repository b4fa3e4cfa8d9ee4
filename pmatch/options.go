package pmatch

import (
	"maps"
	"slices"
	"strings"

	"github.com/gnolang/pmatch/pmatch/word"
)

const (
	DefaultConvertToSpace   = ",;:"
	DefaultSentenceDividers = ".?!"
	DefaultProximityGap     = 2
	DefaultMaxSearchSteps   = 1_000_000
)

// Options holds the settings shared by the tokenizer, the parser and the
// evaluator for one question. Build it with NewOptions; it must not be
// modified afterwards.
type Options struct {
	IgnoreCase       bool
	ConvertToSpace   string
	SentenceDividers string
	Synonyms         map[string][]string
	ShortWordLength  int
	ProximityGap     int
	MaxSearchSteps   int
}

// OptionFunc configures Options in NewOptions.
type OptionFunc func(*Options)

// NewOptions returns the default options with fns applied in order.
func NewOptions(fns ...OptionFunc) *Options {
	o := &Options{
		IgnoreCase:       true,
		ConvertToSpace:   DefaultConvertToSpace,
		SentenceDividers: DefaultSentenceDividers,
		ShortWordLength:  word.DefaultShortWordLength,
		ProximityGap:     DefaultProximityGap,
		MaxSearchSteps:   DefaultMaxSearchSteps,
	}
	for _, fn := range fns {
		fn(o)
	}
	return o
}

func WithIgnoreCase(ignore bool) OptionFunc {
	return func(o *Options) { o.IgnoreCase = ignore }
}

func WithConvertToSpace(chars string) OptionFunc {
	return func(o *Options) { o.ConvertToSpace = chars }
}

func WithSentenceDividers(chars string) OptionFunc {
	return func(o *Options) { o.SentenceDividers = chars }
}

// WithSynonyms makes every word in an expression also accept its synonyms.
// The map is copied.
func WithSynonyms(synonyms map[string][]string) OptionFunc {
	return func(o *Options) {
		o.Synonyms = make(map[string][]string, len(synonyms))
		for k, v := range synonyms {
			o.Synonyms[k] = slices.Clone(v)
		}
	}
}

// WithShortWordLength sets the pattern length below which only one
// misspelling is tolerated. Zero disables the cap.
func WithShortWordLength(n int) OptionFunc {
	return func(o *Options) { o.ShortWordLength = max(n, 0) }
}

func WithProximityGap(n int) OptionFunc {
	return func(o *Options) { o.ProximityGap = max(n, 0) }
}

// WithMaxSearchSteps bounds the backtracking search of a single evaluation.
// Zero or less means unbounded.
func WithMaxSearchSteps(n int) OptionFunc {
	return func(o *Options) { o.MaxSearchSteps = n }
}

func (o *Options) isWordSeparator(r rune) bool {
	return strings.ContainsRune(o.ConvertToSpace, r)
}

func (o *Options) isSentenceDivider(r rune) bool {
	return strings.ContainsRune(o.SentenceDividers, r)
}

// synonymsOf returns the synonyms registered for a normalized word.
func (o *Options) synonymsOf(normalized string) []string {
	if len(o.Synonyms) == 0 {
		return nil
	}
	if s, ok := o.Synonyms[normalized]; ok {
		return s
	}
	if !o.IgnoreCase {
		return nil
	}
	// keys are written by people, so compare them folded as well
	for _, k := range slices.Sorted(maps.Keys(o.Synonyms)) {
		if o.normalize(k) == normalized {
			return o.Synonyms[k]
		}
	}
	return nil
}
