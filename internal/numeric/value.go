package numeric

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Number is a sealed interface representing a calculator value.
// Only Int and Float implement it.
type Number interface {
	number() // Sealed - only these types implement it

	// Kind reports which representation the value uses.
	Kind() Kind

	// Float64 returns the value widened to float64.
	Float64() float64

	// String renders the value for display.
	String() string
}

// Kind identifies the representation of a Number.
type Kind string

const (
	KindInt   Kind = "int"
	KindFloat Kind = "float"
)

// Int represents an integer value.
// Always int64.
type Int int64

func (Int) number() {}

// Kind implements Number.
func (Int) Kind() Kind { return KindInt }

// Float64 implements Number.
func (i Int) Float64() float64 { return float64(i) }

// String implements Number.
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// MarshalJSON implements json.Marshaler for Int.
func (i Int) MarshalJSON() ([]byte, error) {
	return []byte(i.String()), nil
}

// Float represents a floating-point value.
// Values built through FromFloat or Collapse are never integral unless they
// fall outside the int64 range.
type Float float64

func (Float) number() {}

// Kind implements Number.
func (Float) Kind() Kind { return KindFloat }

// Float64 implements Number.
func (f Float) Float64() float64 { return float64(f) }

// String implements Number.
// Uses the shortest representation that round-trips; non-finite values
// render as inf, -inf and nan.
func (f Float) String() string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// MarshalJSON implements json.Marshaler for Float.
// Non-finite values have no JSON number form and are emitted as strings.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(f.String())
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

// int64 bounds as exactly representable float64 values.
const (
	minInt64Float = -9223372036854775808.0 // -2^63
	maxInt64Float = 9223372036854775808.0  // 2^63, exclusive
)

// Collapse applies the integral-collapse rule: a Float with zero fractional
// part that fits in int64 becomes an Int. Every other value is returned
// unchanged.
func Collapse(n Number) Number {
	f, ok := n.(Float)
	if !ok {
		return n
	}
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return f
	}
	if v != math.Trunc(v) {
		return f
	}
	if v < minInt64Float || v >= maxInt64Float {
		return f
	}
	return Int(int64(v))
}

// FromFloat wraps v as a Number and collapses it.
func FromFloat(v float64) Number {
	return Collapse(Float(v))
}

// IsInt reports whether n is Int-typed. An integral Float is not Int-typed.
func IsInt(n Number) bool {
	_, ok := n.(Int)
	return ok
}

// Equal reports whether a and b have the same kind and value.
// NaN is equal to NaN so that repeated evaluations compare equal.
func Equal(a, b Number) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if fa, ok := a.(Float); ok {
		fb := b.(Float)
		if math.IsNaN(float64(fa)) && math.IsNaN(float64(fb)) {
			return true
		}
		return fa == fb
	}
	return a == b
}

// FromAny converts a decoded YAML or JSON scalar into a Number.
// Floats are collapsed; strings are rejected.
func FromAny(v any) (Number, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is not a number")
	case Number:
		return Collapse(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return FromFloat(float64(val)), nil
		}
		return Int(int64(val)), nil
	case float64:
		return FromFloat(val), nil
	case float32:
		return FromFloat(float64(val)), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val, err)
		}
		return FromFloat(f), nil
	default:
		return nil, fmt.Errorf("unsupported type for number: %T", v)
	}
}

// ParseNonFinite parses the rendered forms of the non-finite floats:
// "inf", "+inf", "-inf" and "nan".
func ParseNonFinite(s string) (Number, error) {
	switch s {
	case "inf", "+inf":
		return Float(math.Inf(1)), nil
	case "-inf":
		return Float(math.Inf(-1)), nil
	case "nan":
		return Float(math.NaN()), nil
	default:
		return nil, fmt.Errorf("not a non-finite float: %q", s)
	}
}
