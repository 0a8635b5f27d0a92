package operators

import (
	"errors"
	"math"

	"github.com/roach88/rpncalc/internal/calcerr"
	"github.com/roach88/rpncalc/internal/numeric"
)

// Non-domain failures. The evaluator wraps these as EVALUATION_FAILED.
var (
	ErrZeroNegativePower = errors.New("zero cannot be raised to a negative power")
	ErrComplexResult     = errors.New("negative base with fractional exponent has a complex result")
	ErrOverflow          = errors.New("numerical result out of range")
)

// ints returns both operands as int64 when both are Int-typed.
func ints(a, b numeric.Number) (int64, int64, bool) {
	x, okA := a.(numeric.Int)
	y, okB := b.(numeric.Int)
	if !okA || !okB {
		return 0, 0, false
	}
	return int64(x), int64(y), true
}

// Int arithmetic falls back to float64 when the int64 result overflows.

func add(a, b numeric.Number) (numeric.Number, error) {
	if x, y, ok := ints(a, b); ok {
		s := x + y
		if (s > x) == (y > 0) {
			return numeric.Int(s), nil
		}
		return numeric.FromFloat(float64(x) + float64(y)), nil
	}
	return numeric.FromFloat(a.Float64() + b.Float64()), nil
}

func sub(a, b numeric.Number) (numeric.Number, error) {
	if x, y, ok := ints(a, b); ok {
		d := x - y
		if (d < x) == (y > 0) {
			return numeric.Int(d), nil
		}
		return numeric.FromFloat(float64(x) - float64(y)), nil
	}
	return numeric.FromFloat(a.Float64() - b.Float64()), nil
}

func mul(a, b numeric.Number) (numeric.Number, error) {
	if x, y, ok := ints(a, b); ok {
		if p, ok := mulInt(x, y); ok {
			return numeric.Int(p), nil
		}
		return numeric.FromFloat(float64(x) * float64(y)), nil
	}
	return numeric.FromFloat(a.Float64() * b.Float64()), nil
}

// mulInt multiplies with overflow detection.
func mulInt(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	if (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return 0, false
	}
	p := x * y
	if p/y != x {
		return 0, false
	}
	return p, true
}

// div is true division. The quotient is computed in float64 and collapsed.
func div(a, b numeric.Number) (numeric.Number, error) {
	if b.Float64() == 0 {
		return nil, calcerr.NewDivisionByZero("/", "division by zero")
	}
	return numeric.FromFloat(a.Float64() / b.Float64()), nil
}

// floorDiv rounds the quotient toward negative infinity.
// Both operands must be Int-typed; an integral Float is rejected.
func floorDiv(a, b numeric.Number) (numeric.Number, error) {
	x, y, ok := ints(a, b)
	if !ok {
		return nil, calcerr.NewInvalidOperandType("//")
	}
	if y == 0 {
		return nil, calcerr.NewDivisionByZero("//", "integer division by zero")
	}
	if x == math.MinInt64 && y == -1 {
		return numeric.FromFloat(-float64(x)), nil
	}
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}
	return numeric.Int(q), nil
}

// mod returns a remainder whose sign follows the divisor.
// Both operands must be Int-typed.
func mod(a, b numeric.Number) (numeric.Number, error) {
	x, y, ok := ints(a, b)
	if !ok {
		return nil, calcerr.NewInvalidOperandType("%")
	}
	if y == 0 {
		return nil, calcerr.NewDivisionByZero("%", "modulo by zero")
	}
	if y == -1 {
		return numeric.Int(0), nil
	}
	r := x % y
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return numeric.Int(r), nil
}

func pow(a, b numeric.Number) (numeric.Number, error) {
	if x, y, ok := ints(a, b); ok && y >= 0 {
		if p, ok := powInt(x, y); ok {
			return numeric.Int(p), nil
		}
	}

	base, exp := a.Float64(), b.Float64()
	if base == 0 && exp < 0 {
		return nil, ErrZeroNegativePower
	}
	if base < 0 && !math.IsInf(exp, 0) && exp != math.Trunc(exp) {
		return nil, ErrComplexResult
	}
	r := math.Pow(base, exp)
	if math.IsInf(r, 0) && !math.IsInf(base, 0) && !math.IsInf(exp, 0) {
		return nil, ErrOverflow
	}
	return numeric.FromFloat(r), nil
}

// powInt is exponentiation by squaring with overflow detection.
func powInt(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			r, ok := mulInt(result, base)
			if !ok {
				return 0, false
			}
			result = r
		}
		exp >>= 1
		if exp > 0 {
			sq, ok := mulInt(base, base)
			if !ok {
				return 0, false
			}
			base = sq
		}
	}
	return result, true
}

func neg(a numeric.Number) (numeric.Number, error) {
	switch v := a.(type) {
	case numeric.Int:
		if v == math.MinInt64 {
			return numeric.FromFloat(-float64(v)), nil
		}
		return -v, nil
	default:
		return numeric.FromFloat(-a.Float64()), nil
	}
}

func identity(a numeric.Number) (numeric.Number, error) {
	return a, nil
}
