package simprotocol

import (
	"strconv"
	"strings"
)

// Command represents one protocol message: a name and its positional
// parameters, left as strings. Numeric conversion is up to the consumer.
// A Command is treated as immutable once parsed or constructed.
type Command struct {
	Name   string
	Params []string
}

// Parse splits a protocol line into a Command. It never fails: an empty line
// yields a Command with an empty name, which no handler matches.
func Parse(line string) Command {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return Command{}
	}

	parts := strings.Split(line, Delimiter)
	cmd := Command{Name: parts[0]}
	if len(parts) > 1 {
		cmd.Params = parts[1:]
	}
	return cmd
}

// Fields returns the number of wire fields, counting the name.
func (c Command) Fields() int {
	return len(c.Params) + 1
}

// Param returns the i-th parameter, or "" if there are not that many.
func (c Command) Param(i int) string {
	if i < 0 || i >= len(c.Params) {
		return ""
	}
	return c.Params[i]
}

// String returns the command formatted as a protocol line, without the line
// terminator.
func (c Command) String() string {
	if len(c.Params) == 0 {
		return c.Name
	}
	return c.Name + Delimiter + strings.Join(c.Params, Delimiter)
}

// FormatLine returns the command formatted for transmission on a stream
// transport, including the trailing newline.
func (c Command) FormatLine() string {
	return c.String() + LineTerminator
}

// NewScreenSizeMessage reports a screen's resolution in logical units.
func NewScreenSizeMessage(screen, width, height int) Command {
	return Command{
		Name:   MsgScreenSize,
		Params: []string{strconv.Itoa(screen), strconv.Itoa(width), strconv.Itoa(height)},
	}
}

// NewScreenPowerMessage reports a screen's power state.
func NewScreenPowerMessage(screen int, powered bool) Command {
	return Command{
		Name:   MsgScreenPower,
		Params: []string{strconv.Itoa(screen), boolParam(powered)},
	}
}

// NewTouchMessage reports a screen's touch state.
func NewTouchMessage(screen int, leftDown, rightDown bool, x, y int) Command {
	return Command{
		Name: MsgTouch,
		Params: []string{
			strconv.Itoa(screen),
			boolParam(leftDown),
			boolParam(rightDown),
			strconv.Itoa(x),
			strconv.Itoa(y),
		},
	}
}

// NewAliveMessage creates the zero-payload heartbeat.
func NewAliveMessage() Command {
	return Command{Name: MsgAlive}
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
