package history

import (
	"github.com/roach88/rpncalc/internal/calcerr"
	"github.com/roach88/rpncalc/internal/numeric"
)

// Entry is one recorded evaluation.
// Exactly one of Result and ErrorCode is set.
type Entry struct {
	ID           string         `json:"id"`
	Session      string         `json:"session"`
	Seq          int64          `json:"seq"`
	Expression   string         `json:"expression"`
	Result       numeric.Number `json:"result,omitempty"`
	ErrorCode    string         `json:"error_code,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// OK reports whether the evaluation succeeded.
func (e Entry) OK() bool {
	return e.ErrorCode == ""
}

// errorFields extracts the stored code and message for err.
// Errors outside the taxonomy are stored under the generic code.
func errorFields(err error) (string, string) {
	code := calcerr.CodeOf(err)
	if code == "" {
		code = calcerr.CodeCalculator
	}
	return string(code), err.Error()
}
