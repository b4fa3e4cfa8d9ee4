// Package grader grades batches of responses against the answers of
// configured questions. The first answer whose expression matches a
// response decides its grade.
package grader

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/pmatch/pmatch"
)

// Config is a set of questions, usually read from .pmatch.yaml.
type Config struct {
	Name      string     `yaml:"name"`
	Options   Options    `yaml:"options,omitempty"`
	Questions []Question `yaml:"questions"`
}

// Options are the matching settings of a question. Unset fields take the
// value from the config level, then the library default.
type Options struct {
	CaseSensitive    *bool               `yaml:"case_sensitive,omitempty"`
	ConvertToSpace   *string             `yaml:"convert_to_space,omitempty"`
	SentenceDividers *string             `yaml:"sentence_dividers,omitempty"`
	Synonyms         map[string][]string `yaml:"synonyms,omitempty"`
	ShortWordLength  *int                `yaml:"short_word_length,omitempty"`
	ProximityGap     *int                `yaml:"proximity_gap,omitempty"`
	MaxSearchSteps   *int                `yaml:"max_search_steps,omitempty"`
	// MaxWords rejects longer responses without grading them; 0 disables it.
	MaxWords *int `yaml:"max_words,omitempty"`
}

// Question is one question with its answers, tried in order.
type Question struct {
	ID      string   `yaml:"id"`
	Text    string   `yaml:"text,omitempty"`
	Options Options  `yaml:"options,omitempty"`
	Answers []Answer `yaml:"answers"`
}

// Answer pairs an expression with the grade a matching response earns.
type Answer struct {
	Expression string  `yaml:"expression"`
	Fraction   float64 `yaml:"fraction"`
	Feedback   string  `yaml:"feedback,omitempty"`
}

// LoadConfig reads and decodes a config file. It does not validate it.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig decodes a YAML config.
func DecodeConfig(r io.Reader) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return nil, err
	}
	return &cfg, nil
}

// merge returns o with unset fields taken from base.
func (o Options) merge(base Options) Options {
	out := base
	if o.CaseSensitive != nil {
		out.CaseSensitive = o.CaseSensitive
	}
	if o.ConvertToSpace != nil {
		out.ConvertToSpace = o.ConvertToSpace
	}
	if o.SentenceDividers != nil {
		out.SentenceDividers = o.SentenceDividers
	}
	if o.Synonyms != nil {
		out.Synonyms = o.Synonyms
	}
	if o.ShortWordLength != nil {
		out.ShortWordLength = o.ShortWordLength
	}
	if o.ProximityGap != nil {
		out.ProximityGap = o.ProximityGap
	}
	if o.MaxSearchSteps != nil {
		out.MaxSearchSteps = o.MaxSearchSteps
	}
	if o.MaxWords != nil {
		out.MaxWords = o.MaxWords
	}
	return out
}

// matchOptions converts o into library options.
func (o Options) matchOptions() *pmatch.Options {
	var fns []pmatch.OptionFunc
	if o.CaseSensitive != nil {
		fns = append(fns, pmatch.WithIgnoreCase(!*o.CaseSensitive))
	}
	if o.ConvertToSpace != nil {
		fns = append(fns, pmatch.WithConvertToSpace(*o.ConvertToSpace))
	}
	if o.SentenceDividers != nil {
		fns = append(fns, pmatch.WithSentenceDividers(*o.SentenceDividers))
	}
	if len(o.Synonyms) > 0 {
		fns = append(fns, pmatch.WithSynonyms(o.Synonyms))
	}
	if o.ShortWordLength != nil {
		fns = append(fns, pmatch.WithShortWordLength(*o.ShortWordLength))
	}
	if o.ProximityGap != nil {
		fns = append(fns, pmatch.WithProximityGap(*o.ProximityGap))
	}
	if o.MaxSearchSteps != nil {
		fns = append(fns, pmatch.WithMaxSearchSteps(*o.MaxSearchSteps))
	}
	return pmatch.NewOptions(fns...)
}

func (o Options) maxWords() int {
	if o.MaxWords == nil {
		return 0
	}
	return *o.MaxWords
}

// SampleConfig is written by "pmatch init".
func SampleConfig() *Config {
	maxWords := 20
	return &Config{
		Name: "pmatch",
		Options: Options{
			MaxWords: &maxWords,
		},
		Questions: []Question{
			{
				ID:   "boiling-point",
				Text: "At what temperature does water boil at sea level?",
				Answers: []Answer{
					{Expression: "match_w(100 degrees|celsius|c)", Fraction: 1, Feedback: "Correct."},
					{Expression: "match_w(212 fahrenheit|f)", Fraction: 0.5, Feedback: "Right, but in Fahrenheit."},
					{Expression: "match_mw(temperature)", Fraction: 0, Feedback: "Which temperature?"},
				},
			},
		},
	}
}
