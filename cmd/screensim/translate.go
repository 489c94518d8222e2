// =============================================================================
// translate.go - Console Command Translation
// =============================================================================
//
// The console accepts two kinds of lines:
//
//   - Dot-commands (.touch, .power, .add, ...) are operator actions. State
//     changes become screen.Input values queued for the drain loop; queries
//     (.screens, .snapshot, .stats) read state through the same loop.
//   - Anything else is a raw protocol line, e.g. "RECT|1|1|0|0|4|4", queued
//     exactly as if the debugger had sent it.
//
// translateLine never touches the registry itself. It only decides what
// should happen, so it can be tested without a running simulator.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lifeboatapi/screensim/internal/screen"
	"github.com/lifeboatapi/screensim/simprotocol"
)

// actionKind says how the console carries out a translated line.
type actionKind int

const (
	actionNone     actionKind = iota // blank line
	actionCommand                    // queue a protocol command
	actionInput                      // queue a local input
	actionAdd                        // add a screen and report its number
	actionScreens                    // list screens
	actionSnapshot                   // write a screen to PNG
	actionStats                      // print dispatcher counters
	actionHelp                       // print help
	actionQuit                       // leave the console
)

// action is the result of translating one console line.
type action struct {
	kind    actionKind
	command simprotocol.Command
	input   screen.Input
	screen  int
	path    string
	topic   string
}

// errUnknownDotCommand is returned for a dot-command the console lacks.
var errUnknownDotCommand = errors.New("unknown command")

// translateLine turns one console line into an action.
func translateLine(line string) (action, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return action{kind: actionNone}, nil
	}
	if !strings.HasPrefix(line, ".") {
		return action{kind: actionCommand, command: simprotocol.Parse(line)}, nil
	}

	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case ".quit", ".exit":
		return action{kind: actionQuit}, nil

	case ".help":
		a := action{kind: actionHelp}
		if len(args) > 0 {
			a.topic = args[0]
		}
		return a, nil

	case ".add":
		return action{kind: actionAdd}, nil

	case ".screens":
		return action{kind: actionScreens}, nil

	case ".stats":
		return action{kind: actionStats}, nil

	case ".touch":
		n, err := intArgs(name, args, "<screen> <left> <right> <x> <y>", 5)
		if err != nil {
			return action{}, err
		}
		return inputAction(screen.TouchInput{
			Screen: n[0], Left: n[1] != 0, Right: n[2] != 0, X: n[3], Y: n[4],
		}), nil

	case ".release":
		n, err := intArgs(name, args, "<screen>", 1)
		if err != nil {
			return action{}, err
		}
		return inputAction(screen.ReleaseInput{Screen: n[0]}), nil

	case ".power":
		if len(args) != 2 {
			return action{}, usageError(name, "<screen> on|off")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return action{}, usageError(name, "<screen> on|off")
		}
		on, ok := parseSwitch(args[1])
		if !ok {
			return action{}, fmt.Errorf("%s: expected on or off, got %q", name, args[1])
		}
		return inputAction(screen.PowerInput{Screen: n, On: on}), nil

	case ".resize":
		n, err := intArgs(name, args, "<screen> <width> <height>", 3)
		if err != nil {
			return action{}, err
		}
		if n[1] <= 0 || n[2] <= 0 {
			return action{}, fmt.Errorf("%s: width and height must be positive", name)
		}
		return inputAction(screen.ResizeInput{Screen: n[0], Width: n[1], Height: n[2]}), nil

	case ".scale":
		n, err := intArgs(name, args, "<screen> <scale>", 2)
		if err != nil {
			return action{}, err
		}
		if n[1] <= 0 {
			return action{}, fmt.Errorf("%s: scale must be positive", name)
		}
		return inputAction(screen.ScaleInput{Screen: n[0], Scale: n[1]}), nil

	case ".snapshot":
		if len(args) != 2 {
			return action{}, usageError(name, "<screen> <file.png>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return action{}, usageError(name, "<screen> <file.png>")
		}
		return action{kind: actionSnapshot, screen: n, path: args[1]}, nil

	default:
		return action{}, fmt.Errorf("%w: %s (type .help)", errUnknownDotCommand, name)
	}
}

func inputAction(in screen.Input) action {
	return action{kind: actionInput, input: in}
}

// intArgs parses exactly count integer arguments.
func intArgs(name string, args []string, usage string, count int) ([]int, error) {
	if len(args) != count {
		return nil, usageError(name, usage)
	}
	out := make([]int, count)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", name, a)
		}
		out[i] = v
	}
	return out, nil
}

func parseSwitch(s string) (on, ok bool) {
	switch strings.ToLower(s) {
	case "on", "1", "true":
		return true, true
	case "off", "0", "false":
		return false, true
	}
	return false, false
}

func usageError(name, usage string) error {
	return fmt.Errorf("usage: %s %s", name, usage)
}
