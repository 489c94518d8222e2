package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lifeboatapi/screensim/internal/interp"
	"github.com/lifeboatapi/screensim/internal/screen"
)

// scriptReader replays fixed console lines, then reports EOF.
type scriptReader struct {
	lines   []string
	read    int
	prompts []string
}

func (s *scriptReader) GetLine(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.read == len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.read]
	s.read++
	return line, nil
}

// startInterpreter runs a drain loop for the duration of the test.
func startInterpreter(t *testing.T, maxScreens int) *interp.Interpreter {
	t.Helper()

	reg := screen.NewRegistry(screen.Options{MaxScreens: maxScreens})
	it := interp.New(reg, interp.NewDispatcher(nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = it.Run(ctx, 500)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return it
}

func snapshotOf(t *testing.T, it *interp.Interpreter, n int) screen.Snapshot {
	t.Helper()
	snap, err := query(context.Background(), it, func(r *screen.Registry) screen.Snapshot {
		s, _ := r.Snapshot(n)
		return s
	})
	require.NoError(t, err)
	return snap
}

func TestConsoleAppliesInputsAndCommands(t *testing.T) {
	it := startInterpreter(t, 4)
	var out bytes.Buffer
	in := &scriptReader{lines: []string{
		".add",
		".touch 1 1 0 5 6",
		"COLOUR|1|255|0|0|255",
		"RECT|1|1|0|0|4|4",
		".screens",
		".stats",
		".quit",
		"RECT|1|1|0|0|9|9",
	}}

	require.NoError(t, newConsole(it, &out).run(context.Background(), in))
	require.Equal(t, 7, in.read, "lines after .quit are not read")
	require.Equal(t, consolePrompt, in.prompts[0])

	require.Eventually(t, func() bool {
		return len(snapshotOf(t, it, 1).Primitives) == 1
	}, time.Second, 5*time.Millisecond)

	snap := snapshotOf(t, it, 1)
	require.Equal(t, screen.Touch{Left: true, Position: image.Pt(5, 6)}, snap.Touch)
	require.Equal(t, color.NRGBA{R: 255, A: 255}, snap.Color)

	text := out.String()
	require.Contains(t, text, "Added screen 1")
	require.Contains(t, text, "32x32")
	require.Contains(t, text, "dispatched")
}

func TestConsoleStopsAtEOF(t *testing.T) {
	it := startInterpreter(t, 1)
	var out bytes.Buffer
	in := &scriptReader{lines: []string{".power 1 off"}}

	require.NoError(t, newConsole(it, &out).run(context.Background(), in))
	require.Equal(t, 1, in.read)
}

func TestConsoleStopsWhenContextDone(t *testing.T) {
	it := startInterpreter(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := &scriptReader{lines: []string{".add"}}
	require.NoError(t, newConsole(it, io.Discard).run(ctx, in))
	require.Zero(t, in.read)
}

func TestConsoleReportsErrorsAndContinues(t *testing.T) {
	it := startInterpreter(t, 1)
	var out bytes.Buffer
	c := newConsole(it, &out)

	require.False(t, c.execute(context.Background(), ".bogus"))
	require.Contains(t, out.String(), "Error: unknown command: .bogus")

	out.Reset()
	require.False(t, c.execute(context.Background(), ".snapshot 1 x.png"))
	require.Contains(t, out.String(), "no screen 1")
}

func TestConsoleAddWhenFull(t *testing.T) {
	it := startInterpreter(t, 2)
	var out bytes.Buffer
	c := newConsole(it, &out)

	c.execute(context.Background(), ".add")
	c.execute(context.Background(), ".add")
	c.execute(context.Background(), ".add")

	text := out.String()
	require.Contains(t, text, "Added screen 1")
	require.Contains(t, text, "Added screen 2")
	require.Contains(t, text, "all 2 screens are in use")
}

func TestConsoleSnapshotWritesPNG(t *testing.T) {
	it := startInterpreter(t, 1)
	var out bytes.Buffer
	c := newConsole(it, &out)

	c.execute(context.Background(), "RECT|1|1|0|0|8|8")
	require.Eventually(t, func() bool {
		return len(snapshotOf(t, it, 1).Primitives) == 1
	}, time.Second, 5*time.Millisecond)

	path := filepath.Join(t.TempDir(), "screen.png")
	c.execute(context.Background(), ".snapshot 1 "+path)
	require.Contains(t, out.String(), "Saved screen 1 (32x32)")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestConsoleStatsListsDroppedNames(t *testing.T) {
	it := startInterpreter(t, 1)
	c := newConsole(it, io.Discard)
	c.execute(context.Background(), "FOO|1|2")

	require.Eventually(t, func() bool {
		return it.Dispatcher().Stats().Dropped["FOO"] == 1
	}, time.Second, 5*time.Millisecond)

	var out bytes.Buffer
	c.out = &out
	c.execute(context.Background(), ".stats")
	require.Contains(t, out.String(), `"FOO"=1`)
}

func TestQueryGivesUpWithoutDrainLoop(t *testing.T) {
	it := interp.New(screen.NewRegistry(screen.DefaultOptions()), interp.NewDispatcher(nil), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := query(ctx, it, (*screen.Registry).Len)
	require.ErrorIs(t, err, context.Canceled)
	require.Contains(t, err.Error(), "simulator not responding")
}
