package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelpOverviewListsEveryTopic(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "")

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Console commands:"))
	for topic := range globalHelp {
		first, _, _ := strings.Cut(globalHelp[topic], "\n")
		require.Contains(t, out, first)
	}
}

func TestHelpTopicLookup(t *testing.T) {
	for _, topic := range []string{"touch", ".touch", "TOUCH"} {
		t.Run(topic, func(t *testing.T) {
			var buf bytes.Buffer
			printHelp(&buf, topic)
			require.Contains(t, buf.String(), ".touch <screen> <left> <right> <x> <y>")
		})
	}
}

func TestHelpUnknownTopic(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "warp")
	require.Contains(t, buf.String(), "No help for 'warp'")
}

// Every dot-command the console accepts has a help entry.
func TestHelpCoversDotCommands(t *testing.T) {
	for _, line := range []string{
		".add", ".touch 1 0 0 0 0", ".release 1", ".power 1 on", ".resize 1 2 2",
		".scale 1 1", ".screens", ".snapshot 1 a.png", ".stats", ".help", ".quit",
	} {
		_, err := translateLine(line)
		require.NoError(t, err, line)

		name := strings.TrimPrefix(strings.Fields(line)[0], ".")
		require.Contains(t, globalHelp, name)
	}
}
