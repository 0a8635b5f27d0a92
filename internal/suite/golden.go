package suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/rpncalc/internal/evaluator"
	"github.com/roach88/rpncalc/internal/numeric"
)

// Snapshot captures every case's evaluation trace for golden comparison.
type Snapshot struct {
	Suite string         `json:"suite"`
	Cases []CaseSnapshot `json:"cases"`
}

// CaseSnapshot is one case in a Snapshot.
type CaseSnapshot struct {
	Name   string           `json:"name"`
	Expr   string           `json:"expr"`
	Steps  []evaluator.Step `json:"steps,omitempty"`
	Result numeric.Number   `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// NewSnapshot builds a snapshot from a suite result.
func NewSnapshot(r *Result) Snapshot {
	snap := Snapshot{
		Suite: r.Suite,
		Cases: make([]CaseSnapshot, len(r.Cases)),
	}
	for i, c := range r.Cases {
		cs := CaseSnapshot{
			Name:   c.Name,
			Expr:   c.Expr,
			Steps:  c.Steps,
			Result: c.Result,
		}
		if c.Code != "" {
			cs.Error = c.Code + ": " + c.Message
		}
		snap.Cases[i] = cs
	}
	return snap
}

// Marshal renders the snapshot as indented JSON with a trailing newline.
// Field order is fixed by the struct definitions, so output is
// deterministic.
func (s Snapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden runs a suite and compares its snapshot against
// testdata/golden/{suite.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/suite -update
//
// Returns the result so callers can also assert on pass/fail accounting.
func RunWithGolden(t *testing.T, tracer Tracer, s *Suite) (*Result, error) {
	t.Helper()

	result := NewRunner(tracer).Run(s)
	if err := AssertGolden(t, s.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's snapshot against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}

// GoldenPath returns the golden file used by the CLI for a suite file:
// a golden/ directory next to it, named after the file.
func GoldenPath(suiteFile string) string {
	dir := filepath.Dir(suiteFile)
	base := filepath.Base(suiteFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// WriteGolden writes the result's snapshot to path, creating directories.
func WriteGolden(path string, result *Result) error {
	data, err := NewSnapshot(result).Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the result's snapshot matches the golden
// file at path byte for byte.
func CompareGolden(path string, result *Result) (bool, error) {
	golden, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}

	current, err := NewSnapshot(result).Marshal()
	if err != nil {
		return false, err
	}
	return bytes.Equal(golden, current), nil
}
