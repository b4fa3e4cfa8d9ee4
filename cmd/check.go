package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/pmatch/formatter"
	"github.com/gnolang/pmatch/grader"
)

var checkCmd = &cobra.Command{
	Use:   "check [config]",
	Short: "Validate every expression of a question config",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if len(args) == 1 {
			path = args[0]
		}
		ok, err := runCheck(os.Stdout, path)
		if err != nil {
			logger.Fatal("Failed to load config", zap.String("file", path), zap.Error(err))
		}
		if !ok {
			exit(1)
		}
	},
}

// runCheck reports whether the config at path is valid. The error is set
// only when the file cannot be read or decoded.
func runCheck(w io.Writer, path string) (bool, error) {
	cfg, err := grader.LoadConfig(path)
	if err != nil {
		return false, err
	}
	if err := grader.Validate(cfg); err != nil {
		fmt.Fprint(w, formatter.FormatValidationErrors(path, err, catalog))
		return false, nil
	}

	answers := 0
	for _, q := range cfg.Questions {
		answers += len(q.Answers)
	}
	fmt.Fprintf(w, "%s: %d questions, %d answers, ok\n", path, len(cfg.Questions), answers)
	return true, nil
}
