// Package calc is the calculator entry point: it composes the tokenizer and
// the evaluator behind Evaluate.
//
// Every error returned from this package is a *calcerr.Error. Failures that
// did not come from the taxonomy (including panics) are wrapped in a generic
// CALCULATOR error so implementation-internal error types never reach the
// caller.
package calc

import (
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/width"

	"github.com/roach88/rpncalc/internal/calcerr"
	"github.com/roach88/rpncalc/internal/evaluator"
	"github.com/roach88/rpncalc/internal/numeric"
	"github.com/roach88/rpncalc/internal/operators"
	"github.com/roach88/rpncalc/internal/tokenizer"
)

// Calculator evaluates RPN expressions.
//
// Thread-safety: a Calculator is immutable after New and safe for
// concurrent use.
type Calculator struct {
	registry  *operators.Registry
	tokenizer *tokenizer.Tokenizer
	evaluator *evaluator.Evaluator
	logger    *slog.Logger
	normalize bool
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithRegistry replaces the built-in operator registry.
func WithRegistry(registry *operators.Registry) Option {
	return func(c *Calculator) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithLogger sets the logger for debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithoutNormalization disables width folding of input text.
func WithoutNormalization() Option {
	return func(c *Calculator) {
		c.normalize = false
	}
}

// New creates a calculator.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		registry:  operators.Default(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		normalize: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.tokenizer = tokenizer.New(c.registry)
	c.evaluator = evaluator.New(c.registry, evaluator.WithLogger(c.logger))
	return c
}

var defaultCalculator = New()

// Evaluate evaluates expression with the default calculator.
func Evaluate(expression string) (numeric.Number, error) {
	return defaultCalculator.Evaluate(expression)
}

// Registry returns the operator registry in use.
func (c *Calculator) Registry() *operators.Registry {
	return c.registry
}

// Evaluate tokenizes, validates and evaluates expression.
func (c *Calculator) Evaluate(expression string) (result numeric.Number, err error) {
	defer recoverInto(&err)

	tokens, err := c.tokenize(expression)
	if err != nil {
		return nil, err
	}

	result, err = c.evaluator.Evaluate(tokens)
	if err != nil {
		c.logger.Debug("evaluation failed", "expression", expression, "error", err)
		return nil, calcerr.Wrap(err)
	}

	c.logger.Debug("evaluated", "expression", expression, "result", result, "kind", result.Kind())
	return result, nil
}

// Trace evaluates expression and returns the stack after every token.
func (c *Calculator) Trace(expression string) (result numeric.Number, steps []evaluator.Step, err error) {
	defer recoverInto(&err)

	tokens, err := c.tokenize(expression)
	if err != nil {
		return nil, nil, err
	}

	result, steps, err = c.evaluator.Trace(tokens)
	return result, steps, calcerr.Wrap(err)
}

// Check tokenizes and validates expression without evaluating it.
func (c *Calculator) Check(expression string) (tokens []tokenizer.Token, err error) {
	defer recoverInto(&err)
	return c.tokenize(expression)
}

func (c *Calculator) tokenize(expression string) ([]tokenizer.Token, error) {
	if c.normalize {
		expression = width.Fold.String(expression)
	}
	tokens, err := c.tokenizer.Tokenize(expression)
	if err != nil {
		c.logger.Debug("tokenize failed", "expression", expression, "error", err)
		return nil, calcerr.Wrap(err)
	}
	return tokens, nil
}

// recoverInto converts a panic into a generic calculator error.
func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = calcerr.Wrap(fmt.Errorf("internal error: %v", r))
	}
}
