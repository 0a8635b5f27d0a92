package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/rpncalc/internal/calcerr"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Evaluation error or failing test cases
	ExitCommandError = 2 // Command error (bad config, missing files, unknown operator, etc.)
)

// Command error codes. Calculator failures use their calcerr code instead.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeConfig     = "E002" // Config file invalid
	ErrCodeNotFound   = "E005" // Path not found
	ErrCodeHistory    = "E008" // History database error
	ErrCodeTestFailed = "E_TEST_FAILED"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set when the command already wrote the failure to its
	// output, so Report stays quiet.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// reported marks an ExitError as already written to the command output.
func reported(e *ExitError) *ExitError {
	e.Reported = true
	return e
}

// Report writes err to w unless the command already reported it, and
// returns the process exit code. Errors that are not ExitErrors come from
// cobra itself (unknown flags, wrong argument counts) and are command
// errors.
func Report(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(w, "Error:", err)
		return ExitCommandError
	}
	if !exitErr.Reported {
		fmt.Fprintln(w, "Error:", err)
	}
	return exitErr.Code
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// newFormatter builds the formatter for a command from the global options.
// Verbose logs go to stderr to avoid corrupting JSON.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "DIVISION_BY_ZERO", "E005", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// CalcErrorDetails is the Details payload for calculator failures.
type CalcErrorDetails struct {
	Kind      string `json:"kind"`
	Token     string `json:"token,omitempty"`
	Operator  string `json:"operator,omitempty"`
	Position  int    `json:"position,omitempty"`
	StackSize int    `json:"stack_size,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %+v\n", details)
	}
	return nil
}

// CalcError outputs a calculator failure and returns the ExitError the
// command should return. Errors outside the taxonomy are reported under
// the generic CALCULATOR code.
func (f *OutputFormatter) CalcError(err error) error {
	code, details := describeCalcError(err)
	if outErr := f.Error(code, err.Error(), details); outErr != nil {
		return outErr
	}
	return reported(WrapExitError(ExitFailure, code, err))
}

// describeCalcError extracts the code and details of a calculator error.
func describeCalcError(err error) (string, CalcErrorDetails) {
	ce, ok := calcerr.As(err)
	if !ok {
		return string(calcerr.CodeCalculator), CalcErrorDetails{Kind: string(calcerr.KindCalculator)}
	}
	return string(ce.Code), CalcErrorDetails{
		Kind:      string(ce.Kind()),
		Token:     ce.Token,
		Operator:  ce.Operator,
		Position:  ce.Position,
		StackSize: ce.StackSize,
	}
}

// CommandError outputs a command-level failure and returns an ExitError
// with ExitCommandError.
func (f *OutputFormatter) CommandError(code, message string, err error) error {
	full := message
	if err != nil {
		full = fmt.Sprintf("%s: %v", message, err)
	}
	if outErr := f.Error(code, full, nil); outErr != nil {
		return outErr
	}
	return reported(WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), err))
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
