// Package suite runs YAML case files against the calculator.
//
// A suite file lists expressions with their expected value or expected
// error:
//
//	name: arithmetic
//	description: Basic operators
//	cases:
//	  - name: addition
//	    expr: "3 4 +"
//	    expect: {value: 7, kind: int}
//	  - name: divide by zero
//	    expr: "3 0 /"
//	    error: {kind: DivisionByZeroError, code: DIVISION_BY_ZERO}
//
// Files are decoded strictly: unknown fields are errors, so a misspelled
// key fails loudly instead of silently skipping an assertion.
//
// Besides per-case assertions, a suite run produces a Snapshot of every
// case's evaluation trace. Snapshots are compared against golden files,
// either with goldie in tests (RunWithGolden) or on disk by the CLI
// (CompareGolden, WriteGolden).
package suite
