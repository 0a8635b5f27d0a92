// Package evaluator executes tokenized RPN expressions with a value stack.
//
// The evaluator trusts the tokenizer for parenthesis structure: paren tokens
// are skipped. It owns the stack-level checks instead (operand count per
// operator, exactly one value at the end).
//
// Error propagation:
//   - DIVISION_BY_ZERO and INVALID_OPERAND_TYPE from an operator pass
//     through unchanged
//   - any other operator failure, including a panic, becomes
//     EVALUATION_FAILED carrying the symbol and the cause
package evaluator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/rpncalc/internal/calcerr"
	"github.com/roach88/rpncalc/internal/numeric"
	"github.com/roach88/rpncalc/internal/operators"
	"github.com/roach88/rpncalc/internal/tokenizer"
)

// Step records the stack after one token was processed.
type Step struct {
	Token string           `json:"token"`
	Stack []numeric.Number `json:"stack"`
}

// Evaluator evaluates token sequences against an operator registry.
//
// Thread-safety: an Evaluator holds no per-evaluation state; every call
// uses its own stack. Safe for concurrent use.
type Evaluator struct {
	registry *operators.Registry
	logger   *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an evaluator. A nil registry selects operators.Default().
func New(registry *operators.Registry, opts ...Option) *Evaluator {
	if registry == nil {
		registry = operators.Default()
	}
	e := &Evaluator{
		registry: registry,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs the stack algorithm over tokens and returns the single
// remaining value.
func (e *Evaluator) Evaluate(tokens []tokenizer.Token) (numeric.Number, error) {
	return e.run(tokens, nil)
}

// Trace is like Evaluate but also returns the stack after every token.
// On failure the steps completed before the failing token are returned.
func (e *Evaluator) Trace(tokens []tokenizer.Token) (numeric.Number, []Step, error) {
	steps := make([]Step, 0, len(tokens))
	result, err := e.run(tokens, func(tok tokenizer.Token, stack []numeric.Number) {
		snapshot := make([]numeric.Number, len(stack))
		copy(snapshot, stack)
		steps = append(steps, Step{Token: tok.String(), Stack: snapshot})
	})
	return result, steps, err
}

// run is the evaluation loop shared by Evaluate and Trace.
// record, when non-nil, is called after each token is processed.
func (e *Evaluator) run(tokens []tokenizer.Token, record func(tokenizer.Token, []numeric.Number)) (numeric.Number, error) {
	stack := make([]numeric.Number, 0, len(tokens))

	for _, tok := range tokens {
		switch tok.Kind {
		case tokenizer.KindNumber:
			if tok.Value == nil {
				return nil, calcerr.NewUnknownOperator(tok.String())
			}
			stack = append(stack, numeric.Collapse(tok.Value))

		case tokenizer.KindOperator:
			spec, err := e.registry.Info(tok.Symbol)
			if err != nil {
				return nil, err
			}
			if len(stack) < spec.Arity {
				return nil, calcerr.NewInsufficientOperands(spec.Symbol, spec.Arity, len(stack), tok.Pos)
			}

			// Operands keep push order: for binary operators b is popped
			// first and a second, so operands is [a, b].
			operands := make([]numeric.Number, spec.Arity)
			copy(operands, stack[len(stack)-spec.Arity:])
			stack = stack[:len(stack)-spec.Arity]

			result, err := e.apply(spec, operands)
			if err != nil {
				e.logger.Debug("operator failed", "symbol", spec.Symbol, "pos", tok.Pos, "error", err)
				return nil, err
			}
			e.logger.Debug("operator applied", "symbol", spec.Symbol, "operands", operands, "result", result)
			stack = append(stack, result)

		case tokenizer.KindOpenParen, tokenizer.KindCloseParen:
			// Structure was validated by the tokenizer.

		default:
			return nil, calcerr.NewUnknownOperator(tok.String())
		}

		if record != nil {
			record(tok, stack)
		}
	}

	if len(stack) != 1 {
		return nil, calcerr.NewMalformedExpression(len(stack))
	}
	return stack[0], nil
}

// errNoResult is returned when an operator yields neither a value nor an error.
var errNoResult = errors.New("operator returned no value")

// apply invokes the operator and normalizes its outcome.
func (e *Evaluator) apply(spec operators.Spec, operands []numeric.Number) (result numeric.Number, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = calcerr.NewEvaluationFailed(spec.Symbol, fmt.Errorf("panic: %v", r))
		}
	}()

	result, err = spec.Apply(operands...)
	if err != nil {
		if calcerr.IsDomainError(err) {
			return nil, err
		}
		return nil, calcerr.NewEvaluationFailed(spec.Symbol, err)
	}
	if result == nil {
		return nil, calcerr.NewEvaluationFailed(spec.Symbol, errNoResult)
	}
	return numeric.Collapse(result), nil
}
