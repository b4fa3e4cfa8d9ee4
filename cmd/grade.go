package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/pmatch/formatter"
	"github.com/gnolang/pmatch/grader"
	"github.com/gnolang/pmatch/messages"
)

var (
	gradeJsonOutput bool
	outPath         string
	questionID      string
	watchFiles      bool
	showProgress    bool
)

var gradeCmd = &cobra.Command{
	Use:   "grade <responses.yaml>",
	Short: "Grade a file of responses against the question config",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := grader.NewFromFile(cfgFile, logger)
		if err != nil {
			if verrs, _ := grader.ValidationErrors(err); len(verrs) > 0 {
				fmt.Print(formatter.FormatValidationErrors(cfgFile, err, catalog))
				exit(1)
			}
			logger.Fatal("Failed to initialize grading engine", zap.Error(err))
		}

		if questionID != "" {
			if _, err := engine.Question(questionID); err != nil {
				fmt.Fprintln(os.Stderr, unknownQuestionMessage(err))
				exit(1)
			}
		}

		var progress io.Writer
		if showProgress && !gradeJsonOutput {
			progress = os.Stderr
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		ok, err := runGrade(ctx, logger, os.Stdout, engine, args[0], questionID, gradeJsonOutput, outPath, progress)
		cancel()
		if err != nil {
			logger.Error("Error grading responses", zap.Error(err))
		}

		if watchFiles {
			watchAndGrade(engine, args[0], progress)
			return
		}
		if err != nil || !ok {
			exit(1)
		}
	},
}

func init() {
	gradeCmd.Flags().BoolVar(&gradeJsonOutput, "json", false, "Output results in JSON format")
	gradeCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	gradeCmd.Flags().StringVarP(&questionID, "question", "q", "", "Only grade responses to this question")
	gradeCmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "Grade again when the config or responses change")
	gradeCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar")
}

type gradeOutput struct {
	Run      string          `json:"run"`
	GradedAt time.Time       `json:"graded_at"`
	Results  []grader.Result `json:"results"`
	Summary  grader.Summary  `json:"summary"`
}

// runGrade grades the responses file and prints the results. It reports
// false when a response could not be graded.
func runGrade(
	ctx context.Context,
	logger *zap.Logger,
	w io.Writer,
	engine grader.GradingEngine,
	responsesPath string,
	question string,
	isJson bool,
	jsonOutput string,
	progress io.Writer,
) (bool, error) {
	responses, err := grader.LoadResponses(responsesPath)
	if err != nil {
		return false, err
	}
	responses = grader.FilterResponses(responses, question)

	results, gradeErr := grader.GradeResponses(ctx, logger, engine, responses, progress)
	if errors.Is(gradeErr, context.Canceled) || errors.Is(gradeErr, context.DeadlineExceeded) {
		return false, gradeErr
	}
	summary := grader.Summarize(results)

	if err := printResults(w, results, summary, isJson, jsonOutput); err != nil {
		return false, err
	}
	return summary.Errors == 0, nil
}

func printResults(w io.Writer, results []grader.Result, summary grader.Summary, isJson bool, jsonOutput string) error {
	if !isJson {
		// text output
		fmt.Fprint(w, formatter.GenerateReport(results, catalog))
		fmt.Fprint(w, formatter.FormatSummary(summary))
		return nil
	}

	// JSON output
	d, err := json.Marshal(gradeOutput{
		Run:      uuid.NewString(),
		GradedAt: time.Now().UTC(),
		Results:  results,
		Summary:  summary,
	})
	if err != nil {
		return fmt.Errorf("error marshalling results to JSON: %w", err)
	}
	if jsonOutput == "" {
		fmt.Fprintln(w, string(d))
		return nil
	}
	f, err := os.Create(jsonOutput)
	if err != nil {
		return fmt.Errorf("error creating JSON output file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(d); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}

// watchAndGrade reloads the config and grades again on every change until
// interrupted.
func watchAndGrade(engine *grader.Engine, responsesPath string, progress io.Writer) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	configPath, _ := filepath.Abs(cfgFile)
	fmt.Fprintf(os.Stderr, "watching %s and %s\n", cfgFile, responsesPath)

	err := grader.Watch(ctx, logger, []string{cfgFile, responsesPath}, func(path string) {
		if path == configPath {
			cfg, err := grader.LoadConfig(cfgFile)
			if err != nil {
				logger.Error("Error reloading config", zap.Error(err))
				return
			}
			if err := engine.Reload(cfg); err != nil {
				fmt.Print(formatter.FormatValidationErrors(cfgFile, err, catalog))
				return
			}
			logger.Info("Config reloaded", zap.String("file", cfgFile))
		}

		gradeCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if _, err := runGrade(gradeCtx, logger, os.Stdout, engine, responsesPath, questionID, gradeJsonOutput, outPath, progress); err != nil {
			logger.Error("Error grading responses", zap.Error(err))
		}
	})
	if err != nil {
		logger.Fatal("Failed to watch files", zap.Error(err))
	}
}

func unknownQuestionMessage(err error) string {
	var uq *grader.UnknownQuestionError
	if !errors.As(err, &uq) {
		return err.Error()
	}
	msg := catalog.Sprintf(messages.UnknownQuestion, uq.ID)
	if len(uq.Suggestions) > 0 {
		msg += " " + catalog.Sprintf(messages.DidYouMean, uq.Suggestions[0])
	}
	return msg
}
