// Package shell implements the interactive read-evaluate-print loop.
//
// Each input line is evaluated and answered with exactly one line:
//
//	Result: <value>            on success
//	Error: <message>           on a calculator error
//	Unexpected error: <message> on anything else
//
// The loop never stops on an evaluation error. It stops on a quit word
// (q, quit or exit, any case), on end of input, on Ctrl-C, or when the
// context is cancelled.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/rpncalc/internal/calcerr"
	"github.com/roach88/rpncalc/internal/history"
	"github.com/roach88/rpncalc/internal/numeric"
)

// HelpText is printed at start and on "help".
const HelpText = `RPN calculator. Enter operands before their operator, separated by spaces.

Operators:
  +  -  *  /     add, subtract, multiply, divide
  //  %          floor division and modulo (integers only)
  ^              power
  ~  @           unary minus and unary plus
  ( )            group a complete sub-expression

Examples:
  3 4 +          => 7
  ( 3 4 + ) 2 *  => 14
  5 ~            => -5

Type "help" for this text, "q" to quit.`

// Evaluator evaluates one expression. *calc.Calculator satisfies it.
type Evaluator interface {
	Evaluate(expression string) (numeric.Number, error)
}

// Recorder persists evaluation outcomes. *history.Session satisfies it.
type Recorder interface {
	Record(ctx context.Context, expression string, result numeric.Number, evalErr error) (history.Entry, error)
}

// Shell is a read-evaluate-print loop over a LineReader.
type Shell struct {
	calc     Evaluator
	reader   LineReader
	out      io.Writer
	prompt   string
	banner   bool
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithPrompt sets the input prompt.
func WithPrompt(prompt string) Option {
	return func(s *Shell) {
		s.prompt = prompt
	}
}

// WithBanner controls whether HelpText is printed at start.
func WithBanner(show bool) Option {
	return func(s *Shell) {
		s.banner = show
	}
}

// WithRecorder records every evaluated line.
func WithRecorder(r Recorder) Option {
	return func(s *Shell) {
		s.recorder = r
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a shell reading from reader and writing to out.
func New(calc Evaluator, reader LineReader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		calc:   calc,
		reader: reader,
		out:    out,
		prompt: "> ",
		banner: true,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run loops until quit, end of input or cancellation.
// Returns nil on quit or end of input and ctx.Err() on cancellation.
func (s *Shell) Run(ctx context.Context) error {
	if s.banner {
		fmt.Fprintln(s.out, HelpText)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := s.reader.ReadLine(s.prompt)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, ErrAborted):
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, "Goodbye")
			return nil
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		command := strings.ToLower(strings.TrimSpace(line))
		switch {
		case isQuit(command):
			fmt.Fprintln(s.out, "Goodbye")
			return nil
		case command == "help":
			fmt.Fprintln(s.out, HelpText)
			continue
		}

		fmt.Fprintln(s.out, s.Eval(ctx, line))
	}
}

// Eval evaluates one line, records it, and returns the response line.
func (s *Shell) Eval(ctx context.Context, line string) string {
	result, err := s.calc.Evaluate(line)

	if s.recorder != nil {
		if _, recErr := s.recorder.Record(ctx, line, result, err); recErr != nil {
			s.logger.Warn("failed to record history", "expression", line, "error", recErr)
		}
	}

	return Response(result, err)
}

// Response renders an evaluation outcome as one output line.
func Response(result numeric.Number, err error) string {
	switch {
	case err == nil:
		return "Result: " + result.String()
	case errors.Is(err, calcerr.ErrCalculator):
		return "Error: " + err.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}

func isQuit(command string) bool {
	switch command {
	case "q", "quit", "exit":
		return true
	}
	return false
}
