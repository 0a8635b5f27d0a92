package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rpncalc/internal/evaluator"
	"github.com/roach88/rpncalc/internal/numeric"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Trace bool
}

// EvalResult is the JSON payload of a successful evaluation.
type EvalResult struct {
	Expression string           `json:"expression"`
	Result     numeric.Number   `json:"result"`
	Kind       numeric.Kind     `json:"kind"`
	Steps      []evaluator.Step `json:"steps,omitempty"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <expression...>",
		Short: "Evaluate an RPN expression",
		Long: `Evaluate an RPN expression and print the result.

Arguments are joined with single spaces, so the expression may be passed
quoted or as separate words. Put expressions that start with a negative
number after "--".

Exit codes:
  0 - Expression evaluated
  1 - Calculator error (parse or evaluation failure)
  2 - Command error

Examples:
  rpncalc eval "3 4 +"
  rpncalc eval 3 4 + 2 '*'
  rpncalc eval --trace "( 3 4 + ) 2 *"
  rpncalc eval --format json -- -3 2 /`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print the stack after every token")

	return cmd
}

func runEval(opts *EvalOptions, expression string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	c := opts.calculator()

	var (
		result numeric.Number
		steps  []evaluator.Step
		err    error
	)
	if opts.Trace {
		result, steps, err = c.Trace(expression)
	} else {
		result, err = c.Evaluate(expression)
	}

	if err != nil {
		if opts.Format != "json" && len(steps) > 0 {
			writeSteps(formatter.Writer, steps)
		}
		return formatter.CalcError(err)
	}

	if opts.Format == "json" {
		return formatter.Success(EvalResult{
			Expression: expression,
			Result:     result,
			Kind:       result.Kind(),
			Steps:      steps,
		})
	}

	if opts.Trace {
		writeSteps(formatter.Writer, steps)
		fmt.Fprintf(formatter.Writer, "= %s\n", result)
		return nil
	}
	return formatter.Success(result)
}

// writeSteps prints one line per token: the token, then the stack.
func writeSteps(w io.Writer, steps []evaluator.Step) {
	width := 0
	for _, s := range steps {
		width = max(width, len(s.Token))
	}
	for _, s := range steps {
		fmt.Fprintf(w, "%-*s  %s\n", width, s.Token, formatStack(s.Stack))
	}
}

func formatStack(stack []numeric.Number) string {
	parts := make([]string, len(stack))
	for i, n := range stack {
		parts[i] = n.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
