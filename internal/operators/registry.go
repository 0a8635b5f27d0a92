package operators

import (
	"fmt"
	"sort"

	"github.com/roach88/rpncalc/internal/calcerr"
	"github.com/roach88/rpncalc/internal/numeric"
)

// ApplyFunc evaluates an operator. It receives exactly Arity operands in
// push order (for binary operators: a, then b).
//
// Domain failures are returned as calcerr DIVISION_BY_ZERO or
// INVALID_OPERAND_TYPE errors; any other error is wrapped by the evaluator.
type ApplyFunc func(operands ...numeric.Number) (numeric.Number, error)

// Spec describes one operator.
//
// Precedence and RightAssociative are informational only: RPN already fixes
// evaluation order, so the evaluator never consults them.
type Spec struct {
	Symbol           string
	Arity            int
	Precedence       int
	RightAssociative bool
	Apply            ApplyFunc
}

// Registry is an immutable table of operators keyed by symbol.
//
// Thread-safety: a Registry is never mutated after construction and is safe
// for concurrent use without locking.
type Registry struct {
	specs   map[string]Spec
	symbols []string
}

// New builds a registry from specs.
// Returns an error if a symbol is empty or duplicated, an arity is not 1 or
// 2, or an Apply function is missing.
func New(specs ...Spec) (*Registry, error) {
	r := &Registry{
		specs:   make(map[string]Spec, len(specs)),
		symbols: make([]string, 0, len(specs)),
	}
	for _, s := range specs {
		if s.Symbol == "" {
			return nil, fmt.Errorf("operator symbol is empty")
		}
		if s.Symbol == "(" || s.Symbol == ")" {
			return nil, fmt.Errorf("operator %q collides with a parenthesis", s.Symbol)
		}
		if s.Arity != 1 && s.Arity != 2 {
			return nil, fmt.Errorf("operator %q: arity must be 1 or 2, got %d", s.Symbol, s.Arity)
		}
		if s.Apply == nil {
			return nil, fmt.Errorf("operator %q: apply function is nil", s.Symbol)
		}
		if _, dup := r.specs[s.Symbol]; dup {
			return nil, fmt.Errorf("operator %q registered twice", s.Symbol)
		}
		r.specs[s.Symbol] = s
		r.symbols = append(r.symbols, s.Symbol)
	}
	sort.Strings(r.symbols)
	return r, nil
}

// MustNew is like New but panics on error.
// Intended for package-level tables built from literals.
func MustNew(specs ...Spec) *Registry {
	r, err := New(specs...)
	if err != nil {
		panic(err)
	}
	return r
}

// builtin is the process-wide registry, populated once at init.
var builtin = MustNew(
	Spec{Symbol: "+", Arity: 2, Precedence: 1, Apply: binary("+", add)},
	Spec{Symbol: "-", Arity: 2, Precedence: 1, Apply: binary("-", sub)},
	Spec{Symbol: "*", Arity: 2, Precedence: 2, Apply: binary("*", mul)},
	Spec{Symbol: "/", Arity: 2, Precedence: 2, Apply: binary("/", div)},
	Spec{Symbol: "//", Arity: 2, Precedence: 2, Apply: binary("//", floorDiv)},
	Spec{Symbol: "%", Arity: 2, Precedence: 3, Apply: binary("%", mod)},
	Spec{Symbol: "^", Arity: 2, Precedence: 3, RightAssociative: true, Apply: binary("^", pow)},
	Spec{Symbol: "~", Arity: 1, Precedence: 4, Apply: unary("~", neg)},
	Spec{Symbol: "@", Arity: 1, Precedence: 4, Apply: unary("@", identity)},
)

// Default returns the built-in operator registry.
func Default() *Registry {
	return builtin
}

// Symbols returns all recognized operator symbols in sorted order.
// The returned slice is a copy.
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.symbols))
	copy(out, r.symbols)
	return out
}

// Info returns the spec for symbol.
// Fails with UNKNOWN_OPERATOR when the symbol is not registered.
func (r *Registry) Info(symbol string) (Spec, error) {
	s, ok := r.specs[symbol]
	if !ok {
		return Spec{}, calcerr.NewUnknownOperator(symbol)
	}
	return s, nil
}

// Lookup reports whether symbol is registered, returning its spec if so.
func (r *Registry) Lookup(symbol string) (Spec, bool) {
	s, ok := r.specs[symbol]
	return s, ok
}

// Len returns the number of registered operators.
func (r *Registry) Len() int {
	return len(r.specs)
}

// unary adapts a one-operand function to ApplyFunc.
func unary(symbol string, fn func(a numeric.Number) (numeric.Number, error)) ApplyFunc {
	return func(operands ...numeric.Number) (numeric.Number, error) {
		if len(operands) != 1 {
			return nil, fmt.Errorf("operator %q expects 1 operand, got %d", symbol, len(operands))
		}
		return fn(operands[0])
	}
}

// binary adapts a two-operand function to ApplyFunc.
func binary(symbol string, fn func(a, b numeric.Number) (numeric.Number, error)) ApplyFunc {
	return func(operands ...numeric.Number) (numeric.Number, error) {
		if len(operands) != 2 {
			return nil, fmt.Errorf("operator %q expects 2 operands, got %d", symbol, len(operands))
		}
		return fn(operands[0], operands[1])
	}
}
