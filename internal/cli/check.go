package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rpncalc/internal/tokenizer"
)

// CheckToken is one token in the check command's JSON output.
type CheckToken struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	Pos  int    `json:"pos"`
}

// CheckResult is the JSON payload of a successful check.
type CheckResult struct {
	Valid  bool         `json:"valid"`
	Tokens []CheckToken `json:"tokens"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <expression...>",
		Short: "Validate an expression without evaluating it",
		Long: `Tokenize an expression and validate its parenthesis structure
without evaluating it. Faster feedback than eval for syntax errors; operand
counts outside parentheses are only checked by eval.

Examples:
  rpncalc check "( 3 4 + ) 2 *"
  rpncalc check --format json "3 4 )"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, strings.Join(args, " "), cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, expression string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	tokens, err := opts.calculator().Check(expression)
	if err != nil {
		return formatter.CalcError(err)
	}

	formatter.VerboseLog("%d token(s): %s", len(tokens), tokenizer.Join(tokens))

	if opts.Format == "json" {
		result := CheckResult{Valid: true, Tokens: make([]CheckToken, len(tokens))}
		for i, tok := range tokens {
			result.Tokens[i] = CheckToken{Kind: tok.Kind.String(), Text: tok.String(), Pos: tok.Pos}
		}
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ valid (%d tokens)\n", len(tokens))
	return nil
}
