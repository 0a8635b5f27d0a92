package suite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/rpncalc/internal/calcerr"
	"github.com/roach88/rpncalc/internal/evaluator"
	"github.com/roach88/rpncalc/internal/numeric"
)

// kindSentinels maps category names to the sentinels errors.Is matches.
var kindSentinels = map[calcerr.Kind]error{
	calcerr.KindCalculator:         calcerr.ErrCalculator,
	calcerr.KindParser:             calcerr.ErrParser,
	calcerr.KindEvaluation:         calcerr.ErrEvaluation,
	calcerr.KindDivisionByZero:     calcerr.ErrDivisionByZero,
	calcerr.KindInvalidOperandType: calcerr.ErrInvalidOperandType,
}

// AssertionError is returned when a case does not behave as expected.
// It includes the evaluation steps to help debug the failure.
type AssertionError struct {
	Case     string
	Expected string
	Actual   string
	Steps    []evaluator.Step
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Case)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Steps) > 0 {
		fmt.Fprintf(&buf, "\nSteps:\n")
		for i, step := range e.Steps {
			fmt.Fprintf(&buf, "  [%d] %s -> %s\n", i+1, step.Token, formatStack(step.Stack))
		}
	}

	return buf.String()
}

// checkCase compares an evaluation outcome against the case's expectation.
func checkCase(c Case, got numeric.Number, steps []evaluator.Step, err error) error {
	if c.Expect != nil {
		return checkExpect(c, got, steps, err)
	}
	return checkError(c, got, steps, err)
}

func checkExpect(c Case, got numeric.Number, steps []evaluator.Step, err error) error {
	want, convErr := expectedNumber(c.Expect.Value)
	if convErr != nil {
		// Validated at load time.
		return convErr
	}

	expected := want.String()
	if c.Expect.Kind != "" {
		expected = fmt.Sprintf("%s (%s)", want, c.Expect.Kind)
	}

	if err != nil {
		return &AssertionError{
			Case:     c.Name,
			Expected: expected,
			Actual:   fmt.Sprintf("error %s: %v", codeOf(err), err),
			Steps:    steps,
		}
	}

	if !sameValue(want, got) || (c.Expect.Kind != "" && numeric.Kind(c.Expect.Kind) != got.Kind()) {
		return &AssertionError{
			Case:     c.Name,
			Expected: expected,
			Actual:   fmt.Sprintf("%s (%s)", got, got.Kind()),
			Steps:    steps,
		}
	}
	return nil
}

func checkError(c Case, got numeric.Number, steps []evaluator.Step, err error) error {
	want := c.Error
	expected := describeExpectError(want)

	if err == nil {
		return &AssertionError{
			Case:     c.Name,
			Expected: expected,
			Actual:   fmt.Sprintf("result %s (%s)", got, got.Kind()),
			Steps:    steps,
		}
	}

	actual := fmt.Sprintf("error %s: %v", codeOf(err), err)
	fail := func() error {
		return &AssertionError{Case: c.Name, Expected: expected, Actual: actual, Steps: steps}
	}

	if want.Kind != "" && !errors.Is(err, kindSentinels[calcerr.Kind(want.Kind)]) {
		return fail()
	}
	if want.Code != "" && string(calcerr.CodeOf(err)) != want.Code {
		return fail()
	}
	if want.Contains != "" && !strings.Contains(err.Error(), want.Contains) {
		return fail()
	}
	return nil
}

// sameValue compares numerically across kinds; kind is checked separately
// so that an expectation without a kind accepts 5 for 5.0.
func sameValue(want, got numeric.Number) bool {
	if numeric.Equal(want, got) {
		return true
	}
	if want.Kind() != got.Kind() {
		return want.Float64() == got.Float64()
	}
	return false
}

func describeExpectError(e *ExpectError) string {
	var parts []string
	if e.Kind != "" {
		parts = append(parts, "kind "+e.Kind)
	}
	if e.Code != "" {
		parts = append(parts, "code "+e.Code)
	}
	if e.Contains != "" {
		parts = append(parts, fmt.Sprintf("message containing %q", e.Contains))
	}
	if len(parts) == 0 {
		return "any error"
	}
	return "error with " + strings.Join(parts, ", ")
}

func codeOf(err error) string {
	if code := calcerr.CodeOf(err); code != "" {
		return string(code)
	}
	return string(calcerr.CodeCalculator)
}

func formatStack(stack []numeric.Number) string {
	parts := make([]string, len(stack))
	for i, n := range stack {
		parts[i] = n.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
