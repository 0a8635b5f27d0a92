package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/rpncalc/internal/calcerr"
	"github.com/roach88/rpncalc/internal/operators"
)

// OperatorInfo describes one operator in ops output.
type OperatorInfo struct {
	Symbol        string `json:"symbol"`
	Arity         int    `json:"arity"`
	Precedence    int    `json:"precedence"`
	Associativity string `json:"associativity"`
}

func newOperatorInfo(spec operators.Spec) OperatorInfo {
	assoc := "left"
	if spec.RightAssociative {
		assoc = "right"
	}
	return OperatorInfo{
		Symbol:        spec.Symbol,
		Arity:         spec.Arity,
		Precedence:    spec.Precedence,
		Associativity: assoc,
	}
}

// NewOpsCommand creates the ops command.
func NewOpsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops [symbol]",
		Short: "List supported operators",
		Long: `List the supported operators with their arity, precedence and
associativity, or show one operator.

Precedence and associativity are informational: RPN input already fixes
the order of evaluation.

Examples:
  rpncalc ops
  rpncalc ops //`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := ""
			if len(args) == 1 {
				symbol = args[0]
			}
			return runOps(rootOpts, symbol, cmd)
		},
	}

	return cmd
}

func runOps(opts *RootOptions, symbol string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	registry := opts.calculator().Registry()

	var infos []OperatorInfo
	if symbol != "" {
		spec, err := registry.Info(symbol)
		if err != nil {
			code, details := describeCalcError(err)
			_ = formatter.Error(code, err.Error(), details)
			return reported(WrapExitError(ExitCommandError, code, err))
		}
		infos = []OperatorInfo{newOperatorInfo(spec)}
	} else {
		infos = make([]OperatorInfo, 0, registry.Len())
		for _, sym := range registry.Symbols() {
			spec, err := registry.Info(sym)
			if err != nil {
				// Symbols come from the registry itself.
				return WrapExitError(ExitCommandError, string(calcerr.CodeOf(err)), err)
			}
			infos = append(infos, newOperatorInfo(spec))
		}
	}

	if opts.Format == "json" {
		return formatter.Success(infos)
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tARITY\tPRECEDENCE\tASSOCIATIVITY")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", info.Symbol, info.Arity, info.Precedence, info.Associativity)
	}
	return tw.Flush()
}
