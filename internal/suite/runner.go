package suite

import (
	"io"
	"log/slog"

	"github.com/roach88/rpncalc/internal/evaluator"
	"github.com/roach88/rpncalc/internal/numeric"
)

// Tracer evaluates an expression and reports the stack after every token.
// *calc.Calculator satisfies it.
type Tracer interface {
	Trace(expression string) (numeric.Number, []evaluator.Step, error)
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name string `json:"name"`
	Expr string `json:"expr"`
	Pass bool   `json:"pass"`

	// Result is the value produced, nil on error.
	Result numeric.Number `json:"result,omitempty"`

	// Code and Message describe the evaluation error, if any.
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`

	// Failure explains why the case failed its expectation.
	Failure string `json:"failure,omitempty"`

	Steps []evaluator.Step `json:"-"`
}

// Result holds the outcome of running a suite.
type Result struct {
	Suite  string       `json:"suite"`
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
}

// Pass reports whether every case passed.
func (r *Result) Pass() bool {
	return r.Failed == 0
}

// Failures returns the failure messages of failed cases, in order.
func (r *Result) Failures() []string {
	var out []string
	for _, c := range r.Cases {
		if !c.Pass {
			out = append(out, c.Failure)
		}
	}
	return out
}

// Runner runs suites against a Tracer.
type Runner struct {
	tracer Tracer
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger for per-case debug output.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner.
func NewRunner(tracer Tracer, opts ...RunnerOption) *Runner {
	r := &Runner{
		tracer: tracer,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates every case in order. A failing case never stops the run.
func (r *Runner) Run(s *Suite) *Result {
	result := &Result{
		Suite: s.Name,
		Cases: make([]CaseResult, 0, len(s.Cases)),
	}

	for _, c := range s.Cases {
		got, steps, err := r.tracer.Trace(c.Expr)

		cr := CaseResult{
			Name:   c.Name,
			Expr:   c.Expr,
			Result: got,
			Steps:  steps,
		}
		if err != nil {
			cr.Code = codeOf(err)
			cr.Message = err.Error()
		}

		if failure := checkCase(c, got, steps, err); failure != nil {
			cr.Failure = failure.Error()
			result.Failed++
			r.logger.Debug("case failed", "suite", s.Name, "case", c.Name, "expr", c.Expr)
		} else {
			cr.Pass = true
			result.Passed++
			r.logger.Debug("case passed", "suite", s.Name, "case", c.Name, "expr", c.Expr)
		}

		result.Cases = append(result.Cases, cr)
	}

	return result
}
