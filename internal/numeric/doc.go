// Package numeric provides the tagged number type shared by every stage of
// the calculator.
//
// This package contains type definitions only. All other internal packages
// import numeric; numeric imports nothing internal.
//
// Key design constraints:
//   - A Number is either Int (int64) or Float (float64), never both
//   - Collapse is the ONLY place the integral-collapse rule is implemented
//   - Integral floats outside the int64 range, NaN and ±Inf stay Float
package numeric
