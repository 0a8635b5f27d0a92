package suite

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/rpncalc/internal/calcerr"
	"github.com/roach88/rpncalc/internal/numeric"
)

// Suite is a named list of cases.
type Suite struct {
	// Name identifies the suite and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the suite covers.
	Description string `yaml:"description"`

	// Cases are run in order.
	Cases []Case `yaml:"cases"`
}

// Case is one expression with exactly one of Expect or Error.
type Case struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`

	// Expect is the expected successful result.
	Expect *Expect `yaml:"expect,omitempty"`

	// Error is the expected failure.
	Error *ExpectError `yaml:"error,omitempty"`
}

// Expect describes a successful result.
type Expect struct {
	// Value is a YAML number, or one of "inf", "-inf", "nan".
	Value any `yaml:"value"`

	// Kind is "int" or "float". Empty matches either.
	Kind string `yaml:"kind,omitempty"`
}

// ExpectError describes a failure. Empty fields are not checked.
type ExpectError struct {
	// Kind is an error category such as "ParserError". Categories follow
	// the error hierarchy, so "EvaluationError" also matches division by
	// zero.
	Kind string `yaml:"kind,omitempty"`

	// Code is the exact error code such as "UNKNOWN_TOKEN".
	Code string `yaml:"code,omitempty"`

	// Contains must be a substring of the error message.
	Contains string `yaml:"contains,omitempty"`
}

// Load reads and parses a suite YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or fails validation.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	return Parse(data)
}

// Parse decodes suite YAML.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateSuite(&s); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}

	return &s, nil
}

// validateSuite checks that required fields are present and valid.
func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(s.Name, `/\`) {
		return fmt.Errorf("name %q must not contain path separators", s.Name)
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		switch {
		case c.Expect == nil && c.Error == nil:
			return fmt.Errorf("cases[%d]: one of expect or error is required", i)
		case c.Expect != nil && c.Error != nil:
			return fmt.Errorf("cases[%d]: expect and error are mutually exclusive", i)
		}

		if c.Expect != nil {
			if err := validateExpect(c.Expect); err != nil {
				return fmt.Errorf("cases[%d].expect: %w", i, err)
			}
		}
		if c.Error != nil {
			if err := validateExpectError(c.Error); err != nil {
				return fmt.Errorf("cases[%d].error: %w", i, err)
			}
		}
	}

	return nil
}

func validateExpect(e *Expect) error {
	if _, err := expectedNumber(e.Value); err != nil {
		return err
	}
	switch numeric.Kind(e.Kind) {
	case "", numeric.KindInt, numeric.KindFloat:
		return nil
	default:
		return fmt.Errorf("unknown kind %q (want int or float)", e.Kind)
	}
}

func validateExpectError(e *ExpectError) error {
	if e.Kind != "" {
		if _, ok := kindSentinels[calcerr.Kind(e.Kind)]; !ok {
			return fmt.Errorf("unknown error kind %q", e.Kind)
		}
	}
	if e.Code != "" && calcerr.KindOf(calcerr.Code(e.Code)) == calcerr.KindCalculator &&
		calcerr.Code(e.Code) != calcerr.CodeCalculator {
		return fmt.Errorf("unknown error code %q", e.Code)
	}
	return nil
}

// expectedNumber converts a decoded YAML value to a Number. The strings
// "inf", "-inf" and "nan" stand for the non-finite floats.
func expectedNumber(v any) (numeric.Number, error) {
	if s, ok := v.(string); ok {
		n, err := numeric.ParseNonFinite(s)
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		return n, nil
	}
	n, err := numeric.FromAny(v)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	return n, nil
}

// FindFiles returns the suite files at path: path itself when it is a
// file, or every .yaml/.yml file below it when it is a directory.
// Files under golden/ directories are skipped. Results are sorted.
func FindFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "golden" && p != path {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(p)
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
