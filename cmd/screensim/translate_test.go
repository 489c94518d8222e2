package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lifeboatapi/screensim/internal/screen"
	"github.com/lifeboatapi/screensim/simprotocol"
)

func TestTranslateDotCommands(t *testing.T) {
	tests := []struct {
		line string
		want action
	}{
		{"", action{kind: actionNone}},
		{"   ", action{kind: actionNone}},
		{".quit", action{kind: actionQuit}},
		{".EXIT", action{kind: actionQuit}},
		{".help", action{kind: actionHelp}},
		{".help touch", action{kind: actionHelp, topic: "touch"}},
		{".add", action{kind: actionAdd}},
		{".screens", action{kind: actionScreens}},
		{".stats", action{kind: actionStats}},
		{".touch 1 1 0 12 20", action{kind: actionInput, input: screen.TouchInput{Screen: 1, Left: true, X: 12, Y: 20}}},
		{".touch 2 0 5 0 0", action{kind: actionInput, input: screen.TouchInput{Screen: 2, Right: true}}},
		{".release 3", action{kind: actionInput, input: screen.ReleaseInput{Screen: 3}}},
		{".power 1 off", action{kind: actionInput, input: screen.PowerInput{Screen: 1, On: false}}},
		{".power 1 ON", action{kind: actionInput, input: screen.PowerInput{Screen: 1, On: true}}},
		{".resize 1 64 48", action{kind: actionInput, input: screen.ResizeInput{Screen: 1, Width: 64, Height: 48}}},
		{".scale 2 3", action{kind: actionInput, input: screen.ScaleInput{Screen: 2, Scale: 3}}},
		{".snapshot 1 out.png", action{kind: actionSnapshot, screen: 1, path: "out.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := translateLine(tt.line)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateRawProtocolLine(t *testing.T) {
	got, err := translateLine("  RECT|1|1|0|0|4|4  ")
	require.NoError(t, err)
	require.Equal(t, actionCommand, got.kind)
	require.Equal(t, simprotocol.Command{Name: "RECT", Params: []string{"1", "1", "0", "0", "4", "4"}}, got.command)

	// Names stay case-sensitive; the dispatcher decides what is unknown.
	got, err = translateLine("rect|1")
	require.NoError(t, err)
	require.Equal(t, "rect", got.command.Name)
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		line   string
		errHas string
	}{
		{".touch 1 1 0 12", "usage: .touch"},
		{".touch 1 1 0 x 2", `invalid number "x"`},
		{".release", "usage: .release"},
		{".power 1", "usage: .power"},
		{".power one on", "usage: .power"},
		{".power 1 maybe", "expected on or off"},
		{".resize 1 0 10", "must be positive"},
		{".scale 1 -2", "must be positive"},
		{".snapshot 1", "usage: .snapshot"},
		{".frobnicate", "unknown command: .frobnicate"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := translateLine(tt.line)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errHas)
		})
	}

	_, err := translateLine(".frobnicate")
	require.ErrorIs(t, err, errUnknownDotCommand)
}
