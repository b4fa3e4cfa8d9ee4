package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnolang/pmatch/formatter"
	"github.com/gnolang/pmatch/pmatch"
)

var (
	caseSensitive  bool
	convertToSpace string
	synonymFlags   []string
	showTree       bool
	maxSteps       int
)

var matchCmd = &cobra.Command{
	Use:   "match <expression> <response>",
	Short: "Match one response against an expression",
	Long: `Parses the expression and reports whether the response matches it.
Exits with 1 when it does not match and 2 when the expression is invalid.
Example) pmatch match "match_mw(tom|dick harry)" "harry tom"`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := matchOptions()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			exit(2)
		}
		outcome, err := runMatch(os.Stdout, args[0], args[1], opts, showTree)
		if err != nil {
			exit(2)
		}
		if outcome != pmatch.Match {
			exit(1)
		}
	},
}

func init() {
	matchCmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Compare words with their case")
	matchCmd.Flags().StringVar(&convertToSpace, "convert-to-space", pmatch.DefaultConvertToSpace, "Characters treated as spaces in the response")
	matchCmd.Flags().StringArrayVar(&synonymFlags, "synonym", nil, "Synonyms as word=alt1,alt2 (repeatable)")
	matchCmd.Flags().BoolVar(&showTree, "tree", false, "Print the parsed expression")
	matchCmd.Flags().IntVar(&maxSteps, "max-steps", pmatch.DefaultMaxSearchSteps, "Search step budget, 0 for none")
}

func matchOptions() (*pmatch.Options, error) {
	synonyms, err := parseSynonyms(synonymFlags)
	if err != nil {
		return nil, err
	}
	return pmatch.NewOptions(
		pmatch.WithIgnoreCase(!caseSensitive),
		pmatch.WithConvertToSpace(convertToSpace),
		pmatch.WithSynonyms(synonyms),
		pmatch.WithMaxSearchSteps(maxSteps),
	), nil
}

// parseSynonyms reads word=alt1,alt2 pairs.
func parseSynonyms(flags []string) (map[string][]string, error) {
	synonyms := make(map[string][]string, len(flags))
	for _, f := range flags {
		word, alts, ok := strings.Cut(f, "=")
		word = strings.TrimSpace(word)
		if !ok || word == "" || strings.TrimSpace(alts) == "" {
			return nil, fmt.Errorf("invalid synonym %q, want word=alt1,alt2", f)
		}
		for _, alt := range strings.Split(alts, ",") {
			if alt = strings.TrimSpace(alt); alt != "" {
				synonyms[word] = append(synonyms[word], alt)
			}
		}
	}
	return synonyms, nil
}

func runMatch(w io.Writer, expression, response string, opts *pmatch.Options, tree bool) (pmatch.Outcome, error) {
	expr := pmatch.ParseExpression(expression, opts)
	if !expr.IsValid() {
		fmt.Fprint(w, formatter.FormatParseError("expression", expression, expr.Err(), catalog))
		return pmatch.NoMatch, expr.Err()
	}
	if tree {
		fmt.Fprintln(w, expr.String())
	}

	outcome := expr.Evaluate(pmatch.ParseString(response, opts))
	fmt.Fprintln(w, outcome)
	return outcome, nil
}
