// =============================================================================
// lineeditor.go - Console Line Editor with Dual-Mode Operation
// =============================================================================
//
// The console reads operator commands through a LineEditor that picks its
// input method from the kind of stdin it was given:
//
//   - Interactive mode: ergochat/readline with Emacs keybindings, persistent
//     history in ~/.screensim_history and Ctrl-R search.
//   - Non-interactive mode: bufio.Scanner over the input, with the prompt
//     printed by hand. Used for piped scripts and Emacs comint buffers.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is the history file in the user's home directory.
	historyFileName = ".screensim_history"

	// historySize is the maximum number of history entries to retain.
	historySize = 500
)

// LineEditor wraps line editing with dual-mode operation.
type LineEditor struct {
	// interactive is true when input is a TTY and not inside Emacs.
	interactive bool

	// rl is the readline instance used in interactive mode, nil otherwise.
	rl *readline.Instance

	// scanner and out serve non-interactive mode.
	scanner *bufio.Scanner
	out     io.Writer
}

// GO CONCEPT: TTY Detection
// -------------------------
// golang.org/x/term.IsTerminal reports whether a file descriptor is a
// terminal. A pipe or a regular file is not, so `screensim run < script`
// gets the plain scanner and no history is written for scripted input.

// NewLineEditor creates a LineEditor for in. Readline always owns the
// process terminal, so in and out only matter in non-interactive mode.
func NewLineEditor(in *os.File, out io.Writer) *LineEditor {
	interactive := term.IsTerminal(int(in.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !interactive {
		return newScannerEditor(in, out)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:  filepath.Join(homeDir(), historyFileName),
		HistoryLimit: historySize,

		// Only non-empty lines are saved, by getInteractiveLine.
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newScannerEditor(in, out)
	}

	return &LineEditor{interactive: true, rl: rl}
}

func newScannerEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// GetLine reads one line after showing prompt. It returns io.EOF when input
// is exhausted or the user presses Ctrl-D or Ctrl-C.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close saves history and releases the terminal. It is safe to call more
// than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether the editor is in readline mode.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}

// homeDir returns the user's home directory, or the working directory if it
// cannot be determined.
func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
