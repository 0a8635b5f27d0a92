package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeEval(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewEvalCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestEvalCommandText(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"quoted", []string{"3 4 +"}, "7\n"},
		{"separate words", []string{"3", "4", "+", "2", "*"}, "14\n"},
		{"true division", []string{"10 4 /"}, "2.5\n"},
		{"integral quotient collapses", []string{"10 2 /"}, "5\n"},
		{"grouped", []string{"( 3 4 + ) 2 *"}, "14\n"},
		{"negative literal", []string{"--", "-3 2 *"}, "-6\n"},
		{"overflow to inf", []string{"1.0e308 10 *"}, "inf\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeEval(t, "text", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEvalCommandJSON(t *testing.T) {
	out, err := executeEval(t, "json", "7 2 //")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Expression string          `json:"expression"`
			Result     json.RawMessage `json:"result"`
			Kind       string          `json:"kind"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "7 2 //", resp.Data.Expression)
	assert.Equal(t, "3", string(resp.Data.Result))
	assert.Equal(t, "int", resp.Data.Kind)
}

func TestEvalCommandTrace(t *testing.T) {
	out, err := executeEval(t, "text", "--trace", "3 4 +")
	require.NoError(t, err)
	assert.Equal(t, "3  [3]\n4  [3 4]\n+  [7]\n= 7\n", out)
}

func TestEvalCommandTraceJSON(t *testing.T) {
	out, err := executeEval(t, "json", "--trace", "2 3 ^")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"status": "ok",
		"data": {
			"expression": "2 3 ^",
			"result": 8,
			"kind": "int",
			"steps": [
				{"token": "2", "stack": [2]},
				{"token": "3", "stack": [2, 3]},
				{"token": "^", "stack": [8]}
			]
		}
	}`, out)
}

func TestEvalCommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		wantCode string
		wantMsg  string
	}{
		{"division by zero", "3 0 /", "DIVISION_BY_ZERO", "division by zero"},
		{"unknown token", "3 x +", "UNKNOWN_TOKEN", "unknown token: x"},
		{"insufficient operands", "3 +", "INSUFFICIENT_OPERANDS", "need 2, have 1"},
		{"malformed", "3 4", "MALFORMED_EXPRESSION", "2 values left on stack"},
		{"extra closing", "3 4 + )", "UNBALANCED_PARENTHESIS", "extra closing"},
		{"empty group", "( ) 1 +", "INVALID_SUBEXPRESSION", ""},
		{"blank", "   ", "EMPTY_EXPRESSION", "empty expression"},
		{"float modulo", "5.5 2 %", "INVALID_OPERAND_TYPE", "must be integers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeEval(t, "text", tt.expr)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.wantCode+"]")
			assert.Contains(t, out, tt.wantMsg)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.True(t, exitErr.Reported, "eval writes its own error output")
		})
	}
}

func TestEvalCommandErrorJSON(t *testing.T) {
	out, err := executeEval(t, "json", "3 0 /")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DIVISION_BY_ZERO", resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "DivisionByZeroError", details["kind"])
	assert.Equal(t, "/", details["operator"])
}

func TestEvalCommandMissingArgs(t *testing.T) {
	_, err := executeEval(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}
