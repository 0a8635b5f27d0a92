// Package operators provides the fixed operator table consulted by the
// tokenizer and the evaluator.
//
// Operators are modeled as immutable records keyed by symbol, not as a type
// hierarchy: behavior varies only in a pure Apply function and its arity.
//
//	+  -  *  /  //  %  ^   binary
//	~  @                   unary (negation, identity)
//
// Int operands stay Int for +, -, * and ^ unless the int64 result overflows,
// in which case the float64 result is used. // and % accept Int-typed
// operands only.
package operators
