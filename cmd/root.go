package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/pmatch/messages"
)

const (
	defaultConfigFile = ".pmatch.yaml"
	defaultTimeout    = 5 * time.Minute
)

var (
	cfgFile string
	timeout time.Duration
	lang    string
	verbose bool

	logger  = zap.NewNop()
	catalog = messages.NewCatalog("en")

	exitFunc = os.Exit
)

var rootCmd = &cobra.Command{
	Use:              "pmatch",
	Short:            "pmatch - grade short free-text answers with pattern match expressions",
	TraverseChildren: true, // Prioritize subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return err
		}
		catalog = messages.NewCatalog(lang)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Format: pmatch <expression> <response> => behaves like the match subcommand
		if len(args) == 2 {
			matchCmd.Run(matchCmd, args)
			return
		}
		_ = cmd.Help()
	},
}

func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

// exit flushes the logger before leaving with code, since deferred calls
// do not run on os.Exit.
func exit(code int) {
	_ = logger.Sync()
	exitFunc(code)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "Path to the question config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Time limit for grading a batch")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", systemLanguage(), "Language of messages (BCP 47 tag such as en or fr)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(gradeCmd)
}

// systemLanguage turns a POSIX locale such as fr_FR.UTF-8 into a tag.
func systemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(env)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return "en"
}
