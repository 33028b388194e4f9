// Package console implements operator input for oldconfig runs.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/Bibi40k/kconfig-oldconfig/pkg/oldconfig"
)

// ErrInterrupted is returned when the operator presses Ctrl+C at a prompt.
var ErrInterrupted = errors.New("interrupted")

// compile-time interface compliance check
var _ oldconfig.LineReader = (*Reader)(nil)

var ansiEscapeRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
var caretEscapeRE = regexp.MustCompile(`\^\[\[[0-9;?]*[ -/]*[@-~]`)

// Reader reads answers line by line.
type Reader struct {
	// in is the single buffered reader over the input. Multiple buffered
	// readers over the same fd would each buffer ahead and consume each
	// other's input.
	in       *bufio.Reader
	out      io.Writer
	terminal bool
}

// New returns a Reader over stdin and stdout. Line editing is used when
// stdin is a terminal.
func New() *Reader {
	return &Reader{
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		terminal: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// NewPlain returns a Reader without line editing. Prompts are written to w.
func NewPlain(r io.Reader, w io.Writer) *Reader {
	return &Reader{in: bufio.NewReader(r), out: w}
}

// ReadLine prints prompt and reads one line. It returns io.EOF once the
// input is exhausted and ErrInterrupted on Ctrl+C.
func (r *Reader) ReadLine(prompt string) (string, error) {
	if r.terminal {
		rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
		if err == nil {
			line, err := rl.Readline()
			_ = rl.Close()
			r.in.Reset(os.Stdin) // resync bufio reader after readline
			switch {
			case err == nil:
				return sanitizeConsoleInput(line), nil
			case errors.Is(err, readline.ErrInterrupt):
				return "", ErrInterrupted
			case errors.Is(err, io.EOF):
				return "", io.EOF
			}
			return "", fmt.Errorf("read input: %w", err)
		}
	}

	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line != "" {
				return sanitizeConsoleInput(line), nil
			}
			fmt.Fprintln(r.out)
			return "", io.EOF
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return sanitizeConsoleInput(line), nil
}

// sanitizeConsoleInput drops terminal escape sequences and control
// characters that end up in the line when the terminal answers cursor
// queries, along with the line terminator. Spaces and tabs are kept: they
// are part of string answers.
func sanitizeConsoleInput(raw string) string {
	raw = ansiEscapeRE.ReplaceAllString(raw, "")
	raw = caretEscapeRE.ReplaceAllString(raw, "")
	return strings.Map(func(r rune) rune {
		if r != '\t' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw)
}

// SaveTerminal records the terminal state of stdin and returns a function
// restoring it, for exit paths that bypass readline's own cleanup.
func SaveTerminal() func() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}
	state, err := term.GetState(fd)
	if err != nil {
		return func() {}
	}
	return func() { _ = term.Restore(fd, state) }
}
