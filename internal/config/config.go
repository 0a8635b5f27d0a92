// Package config loads rpncalc settings from a CUE file.
//
// The file is unified with the closed #Config schema below, so unknown
// fields and wrong types are rejected with CUE positions. Fields left out
// take the schema defaults.
//
// Example rpncalc.cue:
//
//	format:  "json"
//	prompt:  "rpn> "
//	history: "~/.rpncalc/history.db"
//
// A leading "~/" in history is expanded with ExpandHome.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// DefaultFile is the config file looked up in the working directory when
// no explicit path is given.
const DefaultFile = "rpncalc.cue"

//go:embed schema.cue
var schemaCUE string

// Config holds resolved settings.
type Config struct {
	Format  string `json:"format"`
	Verbose bool   `json:"verbose"`
	Prompt  string `json:"prompt"`
	History string `json:"history"`
	Banner  bool   `json:"banner"`
}

// Default returns the settings used when no config file exists.
// It mirrors the defaults in schema.cue.
func Default() Config {
	return Config{
		Format: "text",
		Prompt: "> ",
		Banner: true,
	}
}

// ExpandHome replaces a leading "~/" (or a bare "~") with the user's home
// directory. Other paths are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Error codes for config failures.
const (
	ErrCodeNotFound    = "E005" // Config file not found
	ErrCodeLoadFailed  = "E004" // File could not be read or parsed
	ErrCodeBuildFailed = "E006" // Schema unification or validation failed
)

// Error represents a config loading failure.
type Error struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads and validates the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return Config{}, &Error{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading config: %v", err)}
	}
	return Parse(data, path)
}

// LoadOptional loads path if set, otherwise DefaultFile if it exists in
// the working directory, otherwise returns Default().
// The second result is the file actually loaded, or "".
func LoadOptional(path string) (Config, string, error) {
	if path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	if _, err := os.Stat(DefaultFile); err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(DefaultFile)
	return cfg, DefaultFile, err
}

// Parse validates CUE source against the schema and decodes it.
// filename is used only for error positions.
func Parse(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The embedded schema is fixed; failing here is a programming error.
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	file := ctx.CompileBytes(data, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Config{}, newError(ErrCodeLoadFailed, "parsing config", err)
	}

	value := def.Unify(file)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return Config{}, newError(ErrCodeBuildFailed, "invalid config", err)
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return Config{}, newError(ErrCodeBuildFailed, "decoding config", err)
	}
	return cfg, nil
}

// newError converts a CUE error into an Error carrying the first position.
func newError(code, msg string, err error) *Error {
	e := &Error{Code: code, Message: fmt.Sprintf("%s: %s", msg, cueerrors.Details(err, nil))}
	for _, ce := range cueerrors.Errors(err) {
		if pos := ce.Position(); pos.IsValid() {
			e.Pos = pos
			break
		}
	}
	return e
}
