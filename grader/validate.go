package grader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/gnolang/pmatch/messages"
	"github.com/gnolang/pmatch/pmatch"
)

// ValidationError describes one problem in a config. Answer is the 1-based
// answer number, or 0 when the problem concerns the whole question.
type ValidationError struct {
	QuestionID string
	Answer     int
	Expression string
	Key        string // message key, a pmatch.ErrorKind for expressions
	Param      string
	Err        error // the *pmatch.ParseError, when there is one
}

func (e *ValidationError) Error() string {
	var where string
	if e.Answer > 0 {
		where = fmt.Sprintf("question %q answer %d", e.QuestionID, e.Answer)
	} else {
		where = fmt.Sprintf("question %q", e.QuestionID)
	}
	return where + ": " + e.Message(messages.NewCatalog("en"))
}

// Message renders the problem in the catalog's language.
func (e *ValidationError) Message(c *messages.Catalog) string {
	if e.Err != nil {
		return c.Error(e.Err)
	}
	return c.Sprintf(e.Key, e.Param)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks every question of cfg and reports all problems at once.
// The result is nil or a *multierror.Error of *ValidationError.
func Validate(cfg *Config) error {
	var result *multierror.Error

	seen := make(map[string]bool)
	for _, q := range cfg.Questions {
		if q.ID == "" {
			result = multierror.Append(result, errors.New("question without id"))
			continue
		}
		if seen[q.ID] {
			result = multierror.Append(result, fmt.Errorf("duplicate question id %q", q.ID))
			continue
		}
		seen[q.ID] = true

		if err := validateQuestion(q, q.Options.merge(cfg.Options).matchOptions()); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func validateQuestion(q Question, opts *pmatch.Options) error {
	var result *multierror.Error
	answers := 0
	fullMarks := false

	for i, a := range q.Answers {
		number := i + 1
		if strings.TrimSpace(a.Expression) == "" {
			if a.Fraction != 0 || strings.TrimSpace(a.Feedback) != "" {
				result = multierror.Append(result, &ValidationError{
					QuestionID: q.ID,
					Answer:     number,
					Key:        messages.AnswerMustBeGiven,
					Param:      fmt.Sprint(number),
				})
				answers++
			}
			continue
		}
		answers++

		if a.Fraction < 0 || a.Fraction > 1 {
			result = multierror.Append(result, fmt.Errorf("question %q answer %d: fraction %v is outside [0, 1]", q.ID, number, a.Fraction))
		}
		if a.Fraction == 1 {
			fullMarks = true
		}

		expr := pmatch.ParseExpression(a.Expression, opts)
		if !expr.IsValid() {
			kind, param := expr.ParseError()
			result = multierror.Append(result, &ValidationError{
				QuestionID: q.ID,
				Answer:     number,
				Expression: expr.Text(),
				Key:        string(kind),
				Param:      param,
				Err:        expr.Err(),
			})
		}
	}

	if answers == 0 {
		result = multierror.Append(result, &ValidationError{
			QuestionID: q.ID,
			Key:        messages.NotEnoughAnswers,
			Param:      q.ID,
		})
	} else if !fullMarks {
		result = multierror.Append(result, &ValidationError{
			QuestionID: q.ID,
			Key:        messages.FractionsNoMax,
			Param:      q.ID,
		})
	}

	return result.ErrorOrNil()
}

// ValidationErrors flattens the result of Validate into its
// *ValidationError entries; other errors are returned separately.
func ValidationErrors(err error) ([]*ValidationError, []error) {
	if err == nil {
		return nil, nil
	}
	var (
		verrs []*ValidationError
		other []error
	)
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		merr = &multierror.Error{Errors: []error{err}}
	}
	for _, e := range merr.Errors {
		var ve *ValidationError
		if errors.As(e, &ve) {
			verrs = append(verrs, ve)
		} else {
			other = append(other, e)
		}
	}
	return verrs, other
}
