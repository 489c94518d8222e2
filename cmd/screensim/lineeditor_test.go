package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestEditor returns a non-interactive editor fed from a pipe holding
// input, and the buffer its prompts go to.
func newTestEditor(t *testing.T, input string) (*LineEditor, *bytes.Buffer) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	_, err = w.WriteString(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var out bytes.Buffer
	le := NewLineEditor(r, &out)
	t.Cleanup(le.Close)
	return le, &out
}

func TestLineEditorNonInteractiveOnPipe(t *testing.T) {
	le, _ := newTestEditor(t, "")
	require.False(t, le.IsInteractive())
	require.Nil(t, le.rl)
}

func TestLineEditorReadsLinesThenEOF(t *testing.T) {
	le, out := newTestEditor(t, ".add\nRECT|1|1|0|0|2|2\n")

	line, err := le.GetLine("a> ")
	require.NoError(t, err)
	require.Equal(t, ".add", line)

	line, err = le.GetLine("b> ")
	require.NoError(t, err)
	require.Equal(t, "RECT|1|1|0|0|2|2", line)

	_, err = le.GetLine("c> ")
	require.ErrorIs(t, err, io.EOF)

	require.Equal(t, "a> b> c> ", out.String())
}

func TestLineEditorLastLineWithoutNewline(t *testing.T) {
	le, _ := newTestEditor(t, ".quit")

	line, err := le.GetLine("")
	require.NoError(t, err)
	require.Equal(t, ".quit", line)
}

func TestLineEditorCloseIsIdempotent(t *testing.T) {
	le, _ := newTestEditor(t, "")
	le.Close()
	le.Close()
}

func TestHomeDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	require.Equal(t, dir, homeDir())
}
