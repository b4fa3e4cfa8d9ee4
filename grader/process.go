package grader

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Response is one student response waiting to be graded.
type Response struct {
	ID       string `yaml:"id,omitempty"`
	Question string `yaml:"question"`
	Text     string `yaml:"response"`
}

type responseFile struct {
	Responses []Response `yaml:"responses"`
}

// LoadResponses reads a YAML file with a top level "responses" list.
func LoadResponses(path string) ([]Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rf responseFile
	if err := yaml.NewDecoder(f).Decode(&rf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return rf.Responses, nil
}

// FilterResponses keeps the responses to one question; an empty id keeps all.
func FilterResponses(responses []Response, questionID string) []Response {
	if questionID == "" {
		return responses
	}
	var out []Response
	for _, r := range responses {
		if r.Question == questionID {
			out = append(out, r)
		}
	}
	return out
}

// GradeResponses grades responses concurrently with one worker per CPU.
// Results keep the order of responses. A response that cannot be graded
// gets a result with Error set, and its error is part of the returned
// *multierror.Error. When progress is not nil a progress bar is drawn on it.
func GradeResponses(
	ctx context.Context,
	logger *zap.Logger,
	engine GradingEngine,
	responses []Response,
	progress io.Writer,
) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]Result, len(responses))
	errs := make([]error, len(responses))

	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = progressbar.NewOptions(len(responses),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription("grading"),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)
	done := make(chan struct{}, len(responses))

	started := 0
dispatch:
	for i, r := range responses {
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}
		started++
		go func(i int, r Response) {
			defer func() {
				<-sem
				done <- struct{}{}
			}()

			result, err := engine.Grade(r.Question, r.Text)
			if err != nil {
				logger.Error("Error grading response",
					zap.String("id", r.ID),
					zap.String("question", r.Question),
					zap.Error(err))
				result = Result{QuestionID: r.Question, Response: r.Text, Error: err.Error()}
				errs[i] = fmt.Errorf("response %d (%s): %w", i+1, r.Question, err)
			}
			result.ID = r.ID
			results[i] = result

			if bar != nil {
				_ = bar.Add(1)
			}
		}(i, r)
	}

	// wait for every started worker
	for range started {
		<-done
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if err := ctx.Err(); err != nil {
		return results[:0], err
	}

	var merr *multierror.Error
	failed := 0
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
			failed++
		}
	}
	logger.Debug("Graded responses", zap.Int("responses", len(responses)), zap.Int("errors", failed))
	return results, merr.ErrorOrNil()
}

// Summary counts the outcome of a batch.
type Summary struct {
	Responses    int     `json:"responses"`
	Matched      int     `json:"matched"`
	TooLong      int     `json:"too_long"`
	Undetermined int     `json:"undetermined"`
	Errors       int     `json:"errors"`
	Mean         float64 `json:"mean"`
}

// Summarize counts results. Mean is the average fraction over graded responses.
func Summarize(results []Result) Summary {
	var s Summary
	total := 0.0
	graded := 0
	for _, r := range results {
		s.Responses++
		switch {
		case r.Error != "":
			s.Errors++
			continue
		case r.TooLong:
			s.TooLong++
		case r.Matched:
			s.Matched++
		}
		if len(r.Undetermined) > 0 {
			s.Undetermined++
		}
		total += r.Fraction
		graded++
	}
	if graded > 0 {
		s.Mean = total / float64(graded)
	}
	return s
}
