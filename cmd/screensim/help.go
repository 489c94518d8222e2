// =============================================================================
// help.go - Console Help
// =============================================================================
//
//   - ".help"         lists every console command
//   - ".help <topic>" prints the detailed entry for one command
//
// Topics are matched case-insensitively, with or without the leading dot.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// globalHelp holds the detailed help for each dot-command.
var globalHelp = map[string]string{
	"add": `.add
    Add the next free screen. New screens use the configured resolution
    and scale, start powered on and are reported to the debugger on the
    next tick.`,

	"touch": `.touch <screen> <left> <right> <x> <y>
    Set the pointer state of a screen. <left> and <right> are 1 for a
    pressed button and 0 otherwise. The debugger receives one TOUCH
    message per change.
    Example: .touch 1 1 0 12 20`,

	"release": `.release <screen>
    Lift both buttons, keeping the last pointer position.`,

	"power": `.power <screen> on|off
    Switch a screen on or off. A screen that is off keeps its display
    list and still accepts drawing commands.`,

	"resize": `.resize <screen> <width> <height>
    Change the logical resolution of a screen. The debugger receives a
    SCREENSIZE message.`,

	"scale": `.scale <screen> <scale>
    Change the draw-scale applied to commands received after this one.
    Stored primitives keep the scale they were drawn with.`,

	"screens": `.screens
    List every screen with its resolution, scale, power, colour, touch
    state and the number of stored primitives.`,

	"snapshot": `.snapshot <screen> <file.png>
    Rasterize a screen's display list at device resolution and save it
    as a PNG image.`,

	"stats": `.stats
    Show how many commands were dispatched, how many were too short,
    how many failed to parse and which unknown names were dropped.`,

	"help": `.help [topic]
    Show the command list, or detailed help for one command.`,

	"quit": `.quit
    Leave the console and detach from the debugger.`,

	"protocol": `<NAME>|<param>|...
    Lines that do not start with a dot are queued as protocol commands,
    exactly as if the debugger had sent them. Names are case-sensitive.
    Example: COLOUR|1|255|0|0|255
             RECT|1|1|2|2|10|6`,
}

// printHelp writes the overview, or the entry for topic, to w.
func printHelp(w io.Writer, topic string) {
	if topic == "" {
		printHelpOverview(w)
		return
	}

	key := strings.ToLower(strings.TrimPrefix(topic, "."))
	text, ok := globalHelp[key]
	if !ok {
		fmt.Fprintf(w, "No help for '%s'. Type .help for the command list.\n", topic)
		return
	}
	fmt.Fprintln(w, text)
}

func printHelpOverview(w io.Writer) {
	fmt.Fprintln(w, "Console commands:")

	topics := make([]string, 0, len(globalHelp))
	for k := range globalHelp {
		topics = append(topics, k)
	}
	sort.Strings(topics)

	for _, k := range topics {
		first, _, _ := strings.Cut(globalHelp[k], "\n")
		fmt.Fprintf(w, "  %s\n", first)
	}
	fmt.Fprintln(w, "\nType .help <command> for details.")
}
