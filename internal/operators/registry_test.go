package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rpncalc/internal/calcerr"
	"github.com/roach88/rpncalc/internal/numeric"
)

func TestDefaultSymbols(t *testing.T) {
	want := []string{"%", "*", "+", "-", "/", "//", "@", "^", "~"}
	assert.Equal(t, want, Default().Symbols())
	assert.Equal(t, 9, Default().Len())
}

func TestSymbolsReturnsCopy(t *testing.T) {
	syms := Default().Symbols()
	syms[0] = "mutated"
	assert.NotContains(t, Default().Symbols(), "mutated")
}

func TestInfo(t *testing.T) {
	tests := []struct {
		symbol     string
		arity      int
		precedence int
		rightAssoc bool
	}{
		{"+", 2, 1, false},
		{"-", 2, 1, false},
		{"*", 2, 2, false},
		{"/", 2, 2, false},
		{"//", 2, 2, false},
		{"%", 2, 3, false},
		{"^", 2, 3, true},
		{"~", 1, 4, false},
		{"@", 1, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			spec, err := Default().Info(tt.symbol)
			require.NoError(t, err)
			assert.Equal(t, tt.symbol, spec.Symbol)
			assert.Equal(t, tt.arity, spec.Arity)
			assert.Equal(t, tt.precedence, spec.Precedence)
			assert.Equal(t, tt.rightAssoc, spec.RightAssociative)
			assert.NotNil(t, spec.Apply)
		})
	}
}

func TestInfoUnknownOperator(t *testing.T) {
	_, err := Default().Info("?")
	require.Error(t, err)
	assert.Equal(t, calcerr.CodeUnknownOperator, calcerr.CodeOf(err))
	assert.True(t, calcerr.IsEvaluationError(err))
}

func TestLookup(t *testing.T) {
	spec, ok := Default().Lookup("//")
	assert.True(t, ok)
	assert.Equal(t, 2, spec.Arity)

	_, ok = Default().Lookup("**")
	assert.False(t, ok)
}

func TestNewRejectsInvalidSpecs(t *testing.T) {
	apply := unary("x", identity)

	tests := []struct {
		name  string
		specs []Spec
		msg   string
	}{
		{"empty symbol", []Spec{{Symbol: "", Arity: 1, Apply: apply}}, "empty"},
		{"paren symbol", []Spec{{Symbol: "(", Arity: 1, Apply: apply}}, "parenthesis"},
		{"bad arity", []Spec{{Symbol: "x", Arity: 3, Apply: apply}}, "arity"},
		{"nil apply", []Spec{{Symbol: "x", Arity: 1}}, "nil"},
		{"duplicate", []Spec{{Symbol: "x", Arity: 1, Apply: apply}, {Symbol: "x", Arity: 1, Apply: apply}}, "twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.specs...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(Spec{Symbol: "x", Arity: 0, Apply: unary("x", identity)})
	})
}

func TestApplyWrongOperandCount(t *testing.T) {
	spec, err := Default().Info("+")
	require.NoError(t, err)

	_, err = spec.Apply(numeric.Int(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 2 operands")
	// Not a calculator error: the evaluator is responsible for wrapping it.
	assert.Equal(t, calcerr.Code(""), calcerr.CodeOf(err))
}
