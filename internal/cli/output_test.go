package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rpncalc/internal/calcerr"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]int{"result": 7})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E005", "suite not found", nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E005", resp.Error.Code)
	assert.Equal(t, "suite not found", resp.Error.Message)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Error("UNKNOWN_TOKEN", "unknown token: x", CalcErrorDetails{Kind: "ParserError"})
	require.NoError(t, err)
	assert.Equal(t, "Error [UNKNOWN_TOKEN]: unknown token: x\n", buf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	err := formatter.Error("UNKNOWN_TOKEN", "unknown token: x", CalcErrorDetails{Kind: "ParserError", Position: 2})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [UNKNOWN_TOKEN]")
	assert.Contains(t, buf.String(), "Details:")
	assert.Contains(t, buf.String(), "Position:2")
}

func TestOutputFormatter_CalcError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.CalcError(calcerr.NewInsufficientOperands("+", 2, 1, 2))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, calcerr.IsEvaluationError(err), "ExitError keeps the calculator error in its chain")

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code    string           `json:"code"`
			Message string           `json:"message"`
			Details CalcErrorDetails `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "INSUFFICIENT_OPERANDS", resp.Error.Code)
	assert.Equal(t, "EvaluationError", resp.Error.Details.Kind)
	assert.Equal(t, "+", resp.Error.Details.Operator)
	assert.Equal(t, 2, resp.Error.Details.Position)
	assert.Equal(t, 1, resp.Error.Details.StackSize)
}

func TestOutputFormatter_CalcErrorNonTaxonomy(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.CalcError(errors.New("boom"))
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "Error [CALCULATOR]: boom\n", buf.String())
}

func TestOutputFormatter_CommandError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.CommandError(ErrCodeNotFound, "suite not found", errors.New("stat x.yaml"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Equal(t, "Error [E005]: suite not found: stat x.yaml\n", buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: errOut,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Loaded %s", "suite.yaml")

			assert.Empty(t, out.String(), "verbose logs never touch stdout")
			if tt.wantLog {
				assert.Contains(t, errOut.String(), "Loaded suite.yaml")
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))

	wrapped := WrapExitError(ExitFailure, "eval", calcerr.NewEmptyExpression())
	assert.Equal(t, "eval: empty expression", wrapped.Error())
	assert.True(t, calcerr.IsParserError(wrapped))
}
