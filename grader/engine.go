package grader

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"github.com/gnolang/pmatch/pmatch"
)

const maxSuggestions = 3

// GradingEngine grades one response to one question.
type GradingEngine interface {
	Grade(questionID, response string) (Result, error)
}

var _ GradingEngine = (*Engine)(nil)

// Result is the grade of a single response.
type Result struct {
	ID         string  `json:"id,omitempty" yaml:"id,omitempty"`
	QuestionID string  `json:"question" yaml:"question"`
	Response   string  `json:"response" yaml:"response"`
	Matched    bool    `json:"matched" yaml:"matched"`
	Answer     int     `json:"answer,omitempty" yaml:"answer,omitempty"` // 1-based; 0 when nothing matched
	Expression string  `json:"expression,omitempty" yaml:"expression,omitempty"`
	Fraction   float64 `json:"fraction" yaml:"fraction"`
	Feedback   string  `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	Words      int     `json:"words" yaml:"words"`
	TooLong    bool    `json:"too_long,omitempty" yaml:"too_long,omitempty"`
	// Undetermined lists the answers whose search ran out of steps.
	Undetermined []int  `json:"undetermined,omitempty" yaml:"undetermined,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}

// UnknownQuestionError is returned for a question id the config lacks.
type UnknownQuestionError struct {
	ID          string
	Suggestions []string
}

func (e *UnknownQuestionError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown question %q", e.ID)
	}
	return fmt.Sprintf("unknown question %q, did you mean %q?", e.ID, e.Suggestions[0])
}

type question struct {
	Question
	opts     *pmatch.Options
	maxWords int
}

// Engine grades responses against a validated config. It is safe for
// concurrent use, and Reload may swap the config while grading runs.
type Engine struct {
	logger *zap.Logger
	cache  *Cache

	mu        sync.RWMutex
	name      string
	questions map[string]*question
	order     []string
}

// New validates cfg and returns an engine for it.
func New(cfg *Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger: logger,
		cache:  NewCache(),
	}
	if err := e.Reload(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// NewFromFile loads, validates and wraps the config at path.
func NewFromFile(path string, logger *zap.Logger) (*Engine, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, logger)
}

// Reload validates cfg and replaces the current config with it. On error
// the engine keeps the previous config.
func (e *Engine) Reload(cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	questions := make(map[string]*question, len(cfg.Questions))
	order := make([]string, 0, len(cfg.Questions))
	for _, q := range cfg.Questions {
		opts := q.Options.merge(cfg.Options)
		questions[q.ID] = &question{
			Question: q,
			opts:     opts.matchOptions(),
			maxWords: opts.maxWords(),
		}
		order = append(order, q.ID)
	}

	e.mu.Lock()
	e.name = cfg.Name
	e.questions = questions
	e.order = order
	e.mu.Unlock()

	e.cache.InvalidateAll()
	e.logger.Debug("Loaded questions", zap.String("name", cfg.Name), zap.Int("questions", len(order)))
	return nil
}

// Questions returns the question ids in config order.
func (e *Engine) Questions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.order...)
}

// Question returns the question with the given id, or an
// *UnknownQuestionError carrying the closest ids.
func (e *Engine) Question(id string) (Question, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	q, ok := e.questions[id]
	if !ok {
		return Question{}, &UnknownQuestionError{ID: id, Suggestions: suggest(id, e.order)}
	}
	return q.Question, nil
}

// Cache returns the expression cache, mainly for reporting.
func (e *Engine) Cache() *Cache { return e.cache }

// Grade matches response against the answers of a question in order. The
// first matching answer decides the grade.
func (e *Engine) Grade(questionID, response string) (Result, error) {
	e.mu.RLock()
	q, ok := e.questions[questionID]
	var suggestions []string
	if !ok {
		suggestions = suggest(questionID, e.order)
	}
	e.mu.RUnlock()
	if !ok {
		return Result{}, &UnknownQuestionError{ID: questionID, Suggestions: suggestions}
	}

	ps := pmatch.ParseString(response, q.opts)
	result := Result{
		QuestionID: questionID,
		Response:   response,
		Words:      ps.Len(),
	}

	if q.maxWords > 0 && ps.Len() > q.maxWords {
		result.TooLong = true
		return result, nil
	}

	for i, a := range q.Answers {
		if a.Expression == "" {
			continue
		}
		expr := e.cache.Get(q.ID, a.Expression, q.opts)
		switch expr.Evaluate(ps) {
		case pmatch.Match:
			result.Matched = true
			result.Answer = i + 1
			result.Expression = expr.Text()
			result.Fraction = a.Fraction
			result.Feedback = a.Feedback
			return result, nil
		case pmatch.Undetermined:
			e.logger.Warn("Search step budget exhausted",
				zap.String("question", q.ID),
				zap.Int("answer", i+1),
				zap.String("expression", a.Expression))
			result.Undetermined = append(result.Undetermined, i+1)
		}
	}
	return result, nil
}

// suggest ranks candidates by fuzzy closeness to target.
func suggest(target string, candidates []string) []string {
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		// the target may be the longer string, e.g. a typo with an extra character
		for _, c := range candidates {
			if fuzzy.MatchFold(c, target) {
				ranks = append(ranks, fuzzy.Rank{Source: c, Target: c, Distance: len(target) - len(c)})
			}
		}
	}
	sort.Sort(ranks)

	var out []string
	for _, r := range ranks {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
