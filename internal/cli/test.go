package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rpncalc/internal/suite"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // suite filter (glob pattern on file name)
}

// SuiteResult holds the result of a single suite file.
type SuiteResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Passed int      `json:"passed"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Suites []SuiteResult `json:"suites"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <suite.yaml|dir>",
		Short: "Run expression suites",
		Long: `Run YAML suite files of expressions with expected results or errors.

A suite passes when every case matches its expectation and, if a golden
file exists at golden/<file>.golden next to the suite, the evaluation
traces match it byte for byte.

Exit codes:
  0 - All suites passed
  1 - One or more suites failed
  2 - Command error (invalid paths, etc.)

Examples:
  rpncalc test ./suites
  rpncalc test ./suites --filter "arith*"
  rpncalc test ./suites/arithmetic.yaml --update
  rpncalc test ./suites --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter suite files by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return formatter.CommandError(ErrCodeNotFound, fmt.Sprintf("suite path not found: %s", path), nil)
	}

	files, err := suite.FindFiles(path)
	if err != nil {
		return formatter.CommandError(ErrCodeGeneric, "failed to find suites", err)
	}
	files, err = filterSuiteFiles(files, opts.Filter)
	if err != nil {
		return formatter.CommandError(ErrCodeGeneric, "invalid filter", err)
	}

	if len(files) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(cmd, TestResult{Suites: []SuiteResult{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No suites found.")
		return nil
	}

	runner := suite.NewRunner(opts.calculator(), suite.WithLogger(opts.logger()))

	result := TestResult{
		Suites: make([]SuiteResult, 0, len(files)),
		Total:  len(files),
	}
	for _, file := range files {
		formatter.VerboseLog("Running %s", file)
		sr := runSuite(runner, file, opts, cmd)
		result.Suites = append(result.Suites, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return outputTestJSON(cmd, result)
	}
	return outputTestText(cmd, result)
}

// filterSuiteFiles keeps files whose base name (without extension)
// matches the glob pattern.
func filterSuiteFiles(files []string, pattern string) ([]string, error) {
	if pattern == "" {
		return files, nil
	}
	var out []string
	for _, f := range files {
		base := filepath.Base(f)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return nil, err
		}
		if matched {
			out = append(out, f)
		}
	}
	return out, nil
}

// runSuite loads and runs a single suite file.
func runSuite(runner *suite.Runner, file string, opts *TestOptions, cmd *cobra.Command) SuiteResult {
	w := cmd.OutOrStdout()
	text := opts.Format != "json"

	fail := func(name string, errs ...string) SuiteResult {
		if text {
			fmt.Fprintf(w, "✗ %s\n", name)
			for _, e := range errs {
				fmt.Fprintf(w, "  %s\n", indent(e))
			}
		}
		return SuiteResult{Name: name, File: file, Pass: false, Errors: errs}
	}

	s, err := suite.Load(file)
	if err != nil {
		return fail(filepath.Base(file), fmt.Sprintf("failed to load suite: %v", err))
	}

	result := runner.Run(s)
	sr := SuiteResult{Name: s.Name, File: file, Passed: result.Passed, Failed: result.Failed}

	goldenPath := suite.GoldenPath(file)
	if opts.Update {
		if err := suite.WriteGolden(goldenPath, result); err != nil {
			out := fail(s.Name, fmt.Sprintf("failed to update golden file: %v", err))
			out.Passed, out.Failed = sr.Passed, sr.Failed
			return out
		}
		if result.Pass() {
			if text {
				fmt.Fprintf(w, "✓ %s (golden updated)\n", s.Name)
			}
			sr.Pass = true
			return sr
		}
	} else if _, err := os.Stat(goldenPath); err == nil {
		match, err := suite.CompareGolden(goldenPath, result)
		if err != nil {
			out := fail(s.Name, fmt.Sprintf("golden comparison failed: %v", err))
			out.Passed, out.Failed = sr.Passed, sr.Failed
			return out
		}
		if !match {
			out := fail(s.Name, append(result.Failures(), "trace does not match golden file (run with --update to regenerate)")...)
			out.Passed, out.Failed = sr.Passed, sr.Failed
			return out
		}
	}

	if !result.Pass() {
		out := fail(s.Name, result.Failures()...)
		out.Passed, out.Failed = sr.Passed, sr.Failed
		return out
	}

	if text {
		fmt.Fprintf(w, "✓ %s (%d cases)\n", s.Name, result.Passed)
	}
	sr.Pass = true
	return sr
}

// indent prefixes continuation lines of a multi-line message.
func indent(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n  ")
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	status := "ok"
	if result.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   result,
	}

	if result.Failed > 0 {
		response.Error = &CLIError{
			Code:    ErrCodeTestFailed,
			Message: fmt.Sprintf("%d suite(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		// Test failures = exit code 1
		return reported(NewExitError(ExitFailure, fmt.Sprintf("%d suite(s) failed", result.Failed)))
	}
	return nil
}

// outputTestText outputs the test result as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return reported(NewExitError(ExitFailure, fmt.Sprintf("%d suite(s) failed", result.Failed)))
	}

	fmt.Fprintln(w, "✓ All suites passed")
	return nil
}
