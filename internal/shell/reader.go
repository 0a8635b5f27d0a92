package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// ErrAborted is returned by ReadLine when the user pressed Ctrl-C.
var ErrAborted = errors.New("prompt aborted")

// LineReader reads one line of input after showing prompt.
// ReadLine returns io.EOF when input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// TerminalReader reads from the controlling terminal with line editing
// and in-session history.
type TerminalReader struct {
	ln          *liner.State
	historyFile string
}

// NewTerminalReader takes over the terminal. historyFile, if set, is
// loaded now and rewritten on Close. Callers must call Close to restore
// the terminal mode.
func NewTerminalReader(historyFile string) *TerminalReader {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	return &TerminalReader{ln: ln, historyFile: historyFile}
}

// ReadLine implements LineReader.
func (r *TerminalReader) ReadLine(prompt string) (string, error) {
	line, err := r.ln.Prompt(prompt)
	switch {
	case errors.Is(err, liner.ErrPromptAborted):
		return "", ErrAborted
	case err != nil:
		return "", err
	}
	if line != "" {
		r.ln.AppendHistory(line)
	}
	return line, nil
}

// Close saves line history and restores the terminal.
func (r *TerminalReader) Close() error {
	if r.historyFile != "" {
		if f, err := os.Create(r.historyFile); err == nil {
			_, _ = r.ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return r.ln.Close()
}

// TerminalSupported reports whether stdin/stdout can drive a TerminalReader.
func TerminalSupported() bool {
	if !liner.TerminalSupported() {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// StreamReader reads lines from any io.Reader. It is used for pipes,
// redirected input and tests. Line length is bounded only by memory.
type StreamReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStreamReader reads from in and echoes prompts to out.
// out may be nil to suppress prompts.
func NewStreamReader(in io.Reader, out io.Writer) *StreamReader {
	return &StreamReader{in: bufio.NewReader(in), out: out}
}

// ReadLine implements LineReader.
// A final line without a newline is returned before io.EOF.
func (r *StreamReader) ReadLine(prompt string) (string, error) {
	if r.out != nil && prompt != "" {
		fmt.Fprint(r.out, prompt)
	}
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// Close implements LineReader.
func (r *StreamReader) Close() error {
	return nil
}
