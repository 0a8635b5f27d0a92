// Package calcerr defines the calculator error taxonomy.
//
// Every failure raised by the tokenizer, the operator registry and the
// evaluator is an *Error. The Code identifies the exact condition; the Kind
// groups codes into the categories callers branch on:
//
//	CalculatorError
//	├── ParserError       UNKNOWN_TOKEN, EMPTY_EXPRESSION,
//	│                     UNBALANCED_PARENTHESIS, INVALID_SUBEXPRESSION
//	└── EvaluationError   INSUFFICIENT_OPERANDS, MALFORMED_EXPRESSION,
//	    │                 UNKNOWN_OPERATOR, EVALUATION_FAILED
//	    ├── DivisionByZeroError       DIVISION_BY_ZERO
//	    └── InvalidOperandTypeError   INVALID_OPERAND_TYPE
//
// Use errors.Is with the Err* sentinels to test a category:
//
//	if errors.Is(err, calcerr.ErrParser) { ... }
package calcerr

import (
	"errors"
	"fmt"
)

// Code identifies the exact error condition.
type Code string

const (
	// CodeCalculator is the generic code for failures that did not come
	// from the taxonomy and were wrapped at the entry point.
	CodeCalculator Code = "CALCULATOR"

	// Parser codes.
	CodeUnknownToken          Code = "UNKNOWN_TOKEN"
	CodeEmptyExpression       Code = "EMPTY_EXPRESSION"
	CodeUnbalancedParenthesis Code = "UNBALANCED_PARENTHESIS"
	CodeInvalidSubexpression  Code = "INVALID_SUBEXPRESSION"

	// Evaluation codes.
	CodeInsufficientOperands Code = "INSUFFICIENT_OPERANDS"
	CodeMalformedExpression  Code = "MALFORMED_EXPRESSION"
	CodeUnknownOperator      Code = "UNKNOWN_OPERATOR"
	CodeEvaluationFailed     Code = "EVALUATION_FAILED"

	// Domain codes raised by operator functions.
	CodeDivisionByZero     Code = "DIVISION_BY_ZERO"
	CodeInvalidOperandType Code = "INVALID_OPERAND_TYPE"
)

// Kind is the error category a Code belongs to.
type Kind string

const (
	KindCalculator         Kind = "CalculatorError"
	KindParser             Kind = "ParserError"
	KindEvaluation         Kind = "EvaluationError"
	KindDivisionByZero     Kind = "DivisionByZeroError"
	KindInvalidOperandType Kind = "InvalidOperandTypeError"
)

// KindOf returns the category of a code.
func KindOf(code Code) Kind {
	switch code {
	case CodeUnknownToken, CodeEmptyExpression, CodeUnbalancedParenthesis, CodeInvalidSubexpression:
		return KindParser
	case CodeInsufficientOperands, CodeMalformedExpression, CodeUnknownOperator, CodeEvaluationFailed:
		return KindEvaluation
	case CodeDivisionByZero:
		return KindDivisionByZero
	case CodeInvalidOperandType:
		return KindInvalidOperandType
	default:
		return KindCalculator
	}
}

// kindError is the sentinel type behind the Err* values.
type kindError Kind

func (k kindError) Error() string { return string(k) }

// Category sentinels for errors.Is.
var (
	ErrCalculator         error = kindError(KindCalculator)
	ErrParser             error = kindError(KindParser)
	ErrEvaluation         error = kindError(KindEvaluation)
	ErrDivisionByZero     error = kindError(KindDivisionByZero)
	ErrInvalidOperandType error = kindError(KindInvalidOperandType)
)

// Error is a calculator failure.
//
// Error includes structured fields for diagnostics. Only the fields relevant
// to the Code are set.
type Error struct {
	// Code identifies the error condition.
	Code Code

	// Message is a human-readable description.
	Message string

	// Token is the offending input piece (UNKNOWN_TOKEN).
	Token string

	// Operator is the operator symbol involved, if any.
	Operator string

	// Position is the 1-based index of the offending token, 0 when unknown.
	Position int

	// StackSize is the number of values left on the stack (MALFORMED_EXPRESSION)
	// or available to an operator (INSUFFICIENT_OPERANDS).
	StackSize int

	// Cause is the underlying failure (EVALUATION_FAILED, CALCULATOR).
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Kind returns the category of the error.
func (e *Error) Kind() Kind {
	return KindOf(e.Code)
}

// Is matches the category sentinels. Every *Error is a CalculatorError;
// division-by-zero and invalid-operand errors are also EvaluationErrors.
func (e *Error) Is(target error) bool {
	k, ok := target.(kindError)
	if !ok {
		return false
	}
	kind := e.Kind()
	switch Kind(k) {
	case KindCalculator:
		return true
	case KindEvaluation:
		return kind == KindEvaluation || kind == KindDivisionByZero || kind == KindInvalidOperandType
	default:
		return kind == Kind(k)
	}
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// CodeOf returns the code of the first *Error in err's chain, or "" when err
// is not a calculator error.
func CodeOf(err error) Code {
	if ce, ok := As(err); ok {
		return ce.Code
	}
	return ""
}

// IsParserError returns true if err is a tokenizer failure.
// Uses errors.Is to handle wrapped errors.
func IsParserError(err error) bool {
	return errors.Is(err, ErrParser)
}

// IsEvaluationError returns true if err is an evaluator or operator failure.
func IsEvaluationError(err error) bool {
	return errors.Is(err, ErrEvaluation)
}

// IsDivisionByZero returns true if err is a zero-divisor failure.
func IsDivisionByZero(err error) bool {
	return errors.Is(err, ErrDivisionByZero)
}

// IsInvalidOperandType returns true if err is a non-integer operand failure.
func IsInvalidOperandType(err error) bool {
	return errors.Is(err, ErrInvalidOperandType)
}

// IsDomainError returns true for the failures operators raise themselves.
// These propagate through the evaluator unchanged.
func IsDomainError(err error) bool {
	return IsDivisionByZero(err) || IsInvalidOperandType(err)
}
