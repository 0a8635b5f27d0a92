package suite

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidSuite(t *testing.T) {
	s, err := Load("testdata/arithmetic.yaml")
	require.NoError(t, err)

	assert.Equal(t, "arithmetic", s.Name)
	require.Len(t, s.Cases, 5)

	first := s.Cases[0]
	assert.Equal(t, "addition", first.Name)
	assert.Equal(t, "3 4 +", first.Expr)
	require.NotNil(t, first.Expect)
	assert.Equal(t, 7, first.Expect.Value)
	assert.Equal(t, "int", first.Expect.Kind)

	last := s.Cases[4]
	require.NotNil(t, last.Error)
	assert.Equal(t, "ParserError", last.Error.Kind)
	assert.Equal(t, "UNKNOWN_TOKEN", last.Error.Code)
	assert.Equal(t, "x", last.Error.Contains)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read suite file")
}

func TestParse_UnknownField(t *testing.T) {
	src := `
name: typo
cases:
  - name: a
    expr: "1"
    expected: {value: 1}
`
	_, err := Parse([]byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing name",
			src:  "cases: [{name: a, expr: '1', expect: {value: 1}}]",
			want: "name is required",
		},
		{
			name: "no cases",
			src:  "name: empty",
			want: "cases list is required",
		},
		{
			name: "case without name",
			src:  "name: s\ncases: [{expr: '1', expect: {value: 1}}]",
			want: "cases[0]: name is required",
		},
		{
			name: "duplicate case",
			src:  "name: s\ncases: [{name: a, expr: '1', expect: {value: 1}}, {name: a, expr: '2', expect: {value: 2}}]",
			want: "duplicate case name",
		},
		{
			name: "neither expect nor error",
			src:  "name: s\ncases: [{name: a, expr: '1'}]",
			want: "one of expect or error is required",
		},
		{
			name: "both expect and error",
			src:  "name: s\ncases: [{name: a, expr: '1', expect: {value: 1}, error: {code: UNKNOWN_TOKEN}}]",
			want: "mutually exclusive",
		},
		{
			name: "bad kind",
			src:  "name: s\ncases: [{name: a, expr: '1', expect: {value: 1, kind: complex}}]",
			want: "unknown kind",
		},
		{
			name: "bad value",
			src:  "name: s\ncases: [{name: a, expr: '1', expect: {value: seven}}]",
			want: "cases[0].expect: value",
		},
		{
			name: "bad error kind",
			src:  "name: s\ncases: [{name: a, expr: '1', error: {kind: OopsError}}]",
			want: "unknown error kind",
		},
		{
			name: "bad error code",
			src:  "name: s\ncases: [{name: a, expr: '1', error: {code: NOPE}}]",
			want: "unknown error code",
		},
		{
			name: "path in name",
			src:  "name: ../escape\ncases: [{name: a, expr: '1', expect: {value: 1}}]",
			want: "path separators",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExpectedNumber_NonFinite(t *testing.T) {
	n, err := expectedNumber("inf")
	require.NoError(t, err)
	assert.True(t, math.IsInf(n.Float64(), 1))

	n, err = expectedNumber(5.0)
	require.NoError(t, err)
	assert.Equal(t, "int", string(n.Kind()))
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt", "golden/a.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}

	files, err := FindFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
	}, files)

	files, err = FindFiles(filepath.Join(dir, "b.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.yaml")}, files)

	_, err = FindFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
