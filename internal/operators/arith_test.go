package operators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rpncalc/internal/calcerr"
	"github.com/roach88/rpncalc/internal/numeric"
)

// apply runs a registered operator by symbol.
func apply(t *testing.T, symbol string, operands ...numeric.Number) (numeric.Number, error) {
	t.Helper()
	spec, err := Default().Info(symbol)
	require.NoError(t, err)
	return spec.Apply(operands...)
}

func TestBinaryOperators(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		a, b   numeric.Number
		want   numeric.Number
	}{
		{"add ints", "+", numeric.Int(3), numeric.Int(4), numeric.Int(7)},
		{"add floats", "+", numeric.Float(3.5), numeric.Float(2.5), numeric.Int(6)},
		{"add mixed", "+", numeric.Int(1), numeric.Float(0.5), numeric.Float(1.5)},
		{"sub keeps order", "-", numeric.Int(7), numeric.Int(3), numeric.Int(4)},
		{"sub negative", "-", numeric.Int(3), numeric.Int(7), numeric.Int(-4)},
		{"mul ints", "*", numeric.Int(3), numeric.Int(4), numeric.Int(12)},
		{"mul float", "*", numeric.Float(1.5), numeric.Int(3), numeric.Float(4.5)},
		{"div integral collapses", "/", numeric.Int(10), numeric.Int(2), numeric.Int(5)},
		{"div fractional", "/", numeric.Int(7), numeric.Int(2), numeric.Float(3.5)},
		{"div keeps order", "/", numeric.Int(2), numeric.Int(8), numeric.Float(0.25)},
		{"floor div", "//", numeric.Int(10), numeric.Int(3), numeric.Int(3)},
		{"floor div negative", "//", numeric.Int(-7), numeric.Int(2), numeric.Int(-4)},
		{"floor div negative divisor", "//", numeric.Int(7), numeric.Int(-2), numeric.Int(-4)},
		{"floor div exact negative", "//", numeric.Int(-6), numeric.Int(3), numeric.Int(-2)},
		{"mod", "%", numeric.Int(10), numeric.Int(3), numeric.Int(1)},
		{"mod negative dividend", "%", numeric.Int(-7), numeric.Int(3), numeric.Int(2)},
		{"mod negative divisor", "%", numeric.Int(7), numeric.Int(-3), numeric.Int(-2)},
		{"mod by minus one", "%", numeric.Int(math.MinInt64), numeric.Int(-1), numeric.Int(0)},
		{"pow ints", "^", numeric.Int(2), numeric.Int(3), numeric.Int(8)},
		{"pow zero exponent", "^", numeric.Int(5), numeric.Int(0), numeric.Int(1)},
		{"pow negative exponent", "^", numeric.Int(2), numeric.Int(-1), numeric.Float(0.5)},
		{"pow float root", "^", numeric.Int(9), numeric.Float(0.5), numeric.Int(3)},
		{"pow negative base int exponent", "^", numeric.Int(-2), numeric.Int(3), numeric.Int(-8)},
		{"pow keeps order", "^", numeric.Int(3), numeric.Int(2), numeric.Int(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := apply(t, tt.symbol, tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnaryOperators(t *testing.T) {
	got, err := apply(t, "~", numeric.Int(5))
	require.NoError(t, err)
	assert.Equal(t, numeric.Int(-5), got)

	got, err = apply(t, "~", numeric.Float(-2.5))
	require.NoError(t, err)
	assert.Equal(t, numeric.Float(2.5), got)

	got, err = apply(t, "@", numeric.Int(5))
	require.NoError(t, err)
	assert.Equal(t, numeric.Int(5), got)

	got, err = apply(t, "@", numeric.Float(0.1))
	require.NoError(t, err)
	assert.Equal(t, numeric.Float(0.1), got)
}

func TestIntegerOverflowFallsBackToFloat(t *testing.T) {
	got, err := apply(t, "+", numeric.Int(math.MaxInt64), numeric.Int(1))
	require.NoError(t, err)
	assert.Equal(t, numeric.KindFloat, got.Kind())
	assert.Equal(t, 9223372036854775808.0, got.Float64())

	got, err = apply(t, "-", numeric.Int(math.MinInt64), numeric.Int(1))
	require.NoError(t, err)
	assert.Equal(t, numeric.KindFloat, got.Kind())

	got, err = apply(t, "*", numeric.Int(math.MaxInt64), numeric.Int(2))
	require.NoError(t, err)
	assert.Equal(t, numeric.KindFloat, got.Kind())

	got, err = apply(t, "*", numeric.Int(math.MinInt64), numeric.Int(-1))
	require.NoError(t, err)
	assert.Equal(t, numeric.KindFloat, got.Kind())

	got, err = apply(t, "//", numeric.Int(math.MinInt64), numeric.Int(-1))
	require.NoError(t, err)
	assert.Equal(t, numeric.KindFloat, got.Kind())

	got, err = apply(t, "~", numeric.Int(math.MinInt64))
	require.NoError(t, err)
	assert.Equal(t, numeric.KindFloat, got.Kind())

	got, err = apply(t, "^", numeric.Int(2), numeric.Int(64))
	require.NoError(t, err)
	assert.Equal(t, numeric.Float(18446744073709551616.0), got)

	got, err = apply(t, "^", numeric.Int(2), numeric.Int(62))
	require.NoError(t, err)
	assert.Equal(t, numeric.Int(1<<62), got)
}

func TestDivisionByZero(t *testing.T) {
	for _, symbol := range []string{"/", "//", "%"} {
		t.Run(symbol, func(t *testing.T) {
			_, err := apply(t, symbol, numeric.Int(10), numeric.Int(0))
			require.Error(t, err)
			assert.True(t, calcerr.IsDivisionByZero(err))
		})
	}

	_, err := apply(t, "/", numeric.Float(1.5), numeric.Float(0))
	assert.True(t, calcerr.IsDivisionByZero(err))
}

func TestInvalidOperandType(t *testing.T) {
	cases := [][2]numeric.Number{
		{numeric.Float(10.5), numeric.Int(2)},
		{numeric.Int(10), numeric.Float(2.5)},
		// An integral Float is not Int-typed.
		{numeric.Float(10), numeric.Int(2)},
	}
	for _, symbol := range []string{"//", "%"} {
		for _, c := range cases {
			_, err := apply(t, symbol, c[0], c[1])
			require.Error(t, err)
			assert.True(t, calcerr.IsInvalidOperandType(err), "%s %v %v", symbol, c[0], c[1])
		}
	}

	// The type check runs before the zero check.
	_, err := apply(t, "//", numeric.Float(1.5), numeric.Int(0))
	assert.True(t, calcerr.IsInvalidOperandType(err))
}

func TestPowFailures(t *testing.T) {
	_, err := apply(t, "^", numeric.Int(0), numeric.Int(-1))
	assert.ErrorIs(t, err, ErrZeroNegativePower)

	_, err = apply(t, "^", numeric.Int(-8), numeric.Float(0.5))
	assert.ErrorIs(t, err, ErrComplexResult)

	_, err = apply(t, "^", numeric.Int(10), numeric.Int(400))
	assert.ErrorIs(t, err, ErrOverflow)

	// None of these are domain errors.
	assert.False(t, calcerr.IsDomainError(err))
}

func TestFloatArithmeticKeepsInfinity(t *testing.T) {
	got, err := apply(t, "*", numeric.Float(1e308), numeric.Int(10))
	require.NoError(t, err)
	assert.True(t, math.IsInf(got.Float64(), 1))
}
