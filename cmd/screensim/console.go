// =============================================================================
// console.go - Operator Console
// =============================================================================
//
// The console stands in for the touch panel and power buttons of the real
// screens. It runs beside the session: every line is translated, then either
// queued on the interpreter (protocol commands and local inputs) or answered
// by reading the registry on the drain loop.
//
// The console never touches the registry directly. Queries submit an
// InspectInput and wait for the drain loop to hand back a copy.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/lifeboatapi/screensim/internal/interp"
	"github.com/lifeboatapi/screensim/internal/render"
	"github.com/lifeboatapi/screensim/internal/screen"
)

const (
	consolePrompt = "screensim> "

	// queryTimeout bounds how long a query waits for the drain loop.
	queryTimeout = 2 * time.Second
)

// lineReader supplies console lines. LineEditor implements it.
type lineReader interface {
	GetLine(prompt string) (string, error)
}

// console executes operator commands against a running interpreter.
type console struct {
	it  *interp.Interpreter
	out io.Writer
}

func newConsole(it *interp.Interpreter, out io.Writer) *console {
	return &console{it: it, out: out}
}

// run reads and executes lines until input ends, .quit is entered or ctx is
// done.
func (c *console) run(ctx context.Context, in lineReader) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := in.GetLine(consolePrompt)
		if err == io.EOF {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil {
			return err
		}
		if c.execute(ctx, line) {
			return nil
		}
	}
}

// execute carries out one line and reports whether the console should stop.
func (c *console) execute(ctx context.Context, line string) (quit bool) {
	a, err := translateLine(line)
	if err != nil {
		c.fail(err)
		return false
	}

	switch a.kind {
	case actionQuit:
		return true
	case actionHelp:
		printHelp(c.out, a.topic)
	case actionCommand:
		c.it.Enqueue(a.command)
	case actionInput:
		c.it.Submit(a.input)
	case actionAdd:
		c.add(ctx)
	case actionScreens:
		c.screens(ctx)
	case actionSnapshot:
		c.snapshot(ctx, a.screen, a.path)
	case actionStats:
		c.stats()
	}
	return false
}

func (c *console) add(ctx context.Context) {
	done := make(chan int, 1)
	c.it.Submit(screen.AddInput{Done: func(n int) { done <- n }})

	n, err := wait(ctx, done)
	if err != nil {
		c.fail(err)
		return
	}
	if n == 0 {
		c.fail(fmt.Errorf("all %d screens are in use", c.maxScreens()))
		return
	}
	fmt.Fprintf(c.out, "Added screen %d\n", n)
}

func (c *console) screens(ctx context.Context) {
	snaps, err := query(ctx, c.it, (*screen.Registry).Snapshots)
	if err != nil {
		c.fail(err)
		return
	}
	fmt.Fprint(c.out, formatScreens(snaps))
}

func (c *console) snapshot(ctx context.Context, n int, path string) {
	type result struct {
		snap screen.Snapshot
		ok   bool
	}
	res, err := query(ctx, c.it, func(r *screen.Registry) result {
		snap, ok := r.Snapshot(n)
		return result{snap, ok}
	})
	if err != nil {
		c.fail(err)
		return
	}
	if !res.ok {
		c.fail(fmt.Errorf("no screen %d", n))
		return
	}
	if err := render.SavePNG(path, res.snap); err != nil {
		c.fail(err)
		return
	}
	size := res.snap.DeviceSize()
	fmt.Fprintf(c.out, "Saved screen %d (%dx%d) to %s\n", n, size.X, size.Y, path)
}

func (c *console) stats() {
	s := c.it.Dispatcher().Stats()
	fmt.Fprintf(c.out, "dispatched %d  short %d  faults %d\n", s.Dispatched, s.Short, s.Faults)
	if len(s.Dropped) == 0 {
		return
	}
	fmt.Fprint(c.out, "dropped:")
	for _, name := range slices.Sorted(maps.Keys(s.Dropped)) {
		fmt.Fprintf(c.out, " %q=%d", name, s.Dropped[name])
	}
	fmt.Fprintln(c.out)
}

func (c *console) maxScreens() int {
	return c.it.Registry().Options().MaxScreens
}

func (c *console) fail(err error) {
	fmt.Fprintln(c.out, errorStyle.Render("Error: "+err.Error()))
}

// query runs fn on the drain loop and returns its result.
func query[T any](ctx context.Context, it *interp.Interpreter, fn func(*screen.Registry) T) (T, error) {
	ch := make(chan T, 1)
	it.Submit(screen.InspectInput{Fn: func(r *screen.Registry) { ch <- fn(r) }})
	return wait(ctx, ch)
}

// wait receives from ch, giving up after queryTimeout or when ctx is done.
func wait[T any](ctx context.Context, ch <-chan T) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("simulator not responding: %w", ctx.Err())
	}
}
