package calcerr

import "fmt"

// NewUnknownToken creates a ParserError for a piece that is neither an
// operator, a parenthesis nor a number.
func NewUnknownToken(piece string, pos int) *Error {
	return &Error{
		Code:     CodeUnknownToken,
		Message:  fmt.Sprintf("unknown token: %s", piece),
		Token:    piece,
		Position: pos,
	}
}

// NewEmptyExpression creates a ParserError for empty or all-whitespace input.
func NewEmptyExpression() *Error {
	return &Error{
		Code:    CodeEmptyExpression,
		Message: "empty expression",
	}
}

// NewNoTokens creates a ParserError for input that produced no tokens.
func NewNoTokens() *Error {
	return &Error{
		Code:    CodeEmptyExpression,
		Message: "expression contains no tokens",
	}
}

// NewExtraClosing creates a ParserError for a ')' with no matching '('.
func NewExtraClosing(pos int) *Error {
	return &Error{
		Code:     CodeUnbalancedParenthesis,
		Message:  "unbalanced parenthesis: extra closing",
		Token:    ")",
		Position: pos,
	}
}

// NewMissingClosing creates a ParserError for '(' groups left open at the
// end of the input.
func NewMissingClosing(open int) *Error {
	return &Error{
		Code:      CodeUnbalancedParenthesis,
		Message:   fmt.Sprintf("unbalanced parenthesis: missing closing (%d open)", open),
		StackSize: open,
	}
}

// NewInvalidSubexpression creates a ParserError for a parenthesized group
// that is not a self-contained valid RPN expression.
func NewInvalidSubexpression(group string, pos int) *Error {
	msg := "invalid subexpression: ( )"
	if group != "" {
		msg = fmt.Sprintf("invalid subexpression: ( %s )", group)
	}
	return &Error{
		Code:     CodeInvalidSubexpression,
		Message:  msg,
		Position: pos,
	}
}

// NewInsufficientOperands creates an EvaluationError for an operator that
// found fewer values on the stack than its arity.
func NewInsufficientOperands(symbol string, arity, depth, pos int) *Error {
	return &Error{
		Code:      CodeInsufficientOperands,
		Message:   fmt.Sprintf("insufficient operands for operator '%s': need %d, have %d", symbol, arity, depth),
		Operator:  symbol,
		Position:  pos,
		StackSize: depth,
	}
}

// NewMalformedExpression creates an EvaluationError for an evaluation that
// did not end with exactly one value on the stack.
func NewMalformedExpression(stackSize int) *Error {
	return &Error{
		Code:      CodeMalformedExpression,
		Message:   fmt.Sprintf("malformed expression: %d values left on stack", stackSize),
		StackSize: stackSize,
	}
}

// NewUnknownOperator creates an EvaluationError for a symbol absent from the
// operator registry.
func NewUnknownOperator(symbol string) *Error {
	return &Error{
		Code:     CodeUnknownOperator,
		Message:  fmt.Sprintf("unknown operator: %s", symbol),
		Operator: symbol,
	}
}

// NewEvaluationFailed wraps a non-domain failure raised while applying an
// operator.
func NewEvaluationFailed(symbol string, cause error) *Error {
	return &Error{
		Code:     CodeEvaluationFailed,
		Message:  fmt.Sprintf("error applying operator '%s'", symbol),
		Operator: symbol,
		Cause:    cause,
	}
}

// NewDivisionByZero creates the domain error for a zero divisor.
func NewDivisionByZero(symbol, message string) *Error {
	return &Error{
		Code:     CodeDivisionByZero,
		Message:  message,
		Operator: symbol,
	}
}

// NewInvalidOperandType creates the domain error for a non-integer operand
// supplied to an integer-only operator.
func NewInvalidOperandType(symbol string) *Error {
	return &Error{
		Code:     CodeInvalidOperandType,
		Message:  fmt.Sprintf("operands must be integers for operator '%s'", symbol),
		Operator: symbol,
	}
}

// Wrap converts an arbitrary failure into a generic CalculatorError.
// Calculator errors are returned unchanged.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	return &Error{
		Code:    CodeCalculator,
		Message: "evaluation error",
		Cause:   err,
	}
}
