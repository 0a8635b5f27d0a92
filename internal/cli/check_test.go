package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCommandValid(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCheckCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"( 3 4 + ) 2 *"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "✓ valid (7 tokens)\n", buf.String())
}

func TestCheckCommandDoesNotEvaluate(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCheckCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"3 0 /"})

	require.NoError(t, cmd.Execute(), "division by zero is only detected by eval")
	assert.Contains(t, buf.String(), "✓ valid")
}

func TestCheckCommandJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewCheckCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"( 1.5 2 ) +"})

	err := cmd.Execute()
	require.Error(t, err, "the group leaves two values")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_SUBEXPRESSION", resp.Error.Code)

	buf.Reset()
	cmd = NewCheckCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"1.5 ~"})
	require.NoError(t, cmd.Execute())

	var ok struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ok))
	assert.Equal(t, "ok", ok.Status)
	assert.True(t, ok.Data.Valid)
	assert.Equal(t, []CheckToken{
		{Kind: "number", Text: "1.5", Pos: 1},
		{Kind: "operator", Text: "~", Pos: 2},
	}, ok.Data.Tokens)
}

func TestCheckCommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		wantCode string
	}{
		{"unknown token", "3 four +", "UNKNOWN_TOKEN"},
		{"missing closing", "( 3 4 +", "UNBALANCED_PARENTHESIS"},
		{"extra closing", "3 4 ) +", "UNBALANCED_PARENTHESIS"},
		{"hex rejected", "0x10", "UNKNOWN_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			rootOpts := &RootOptions{Format: "text"}
			cmd := NewCheckCommand(rootOpts)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{tt.expr})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, buf.String(), "Error ["+tt.wantCode+"]")
		})
	}
}
