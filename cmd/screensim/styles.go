package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lifeboatapi/screensim/internal/screen"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	touchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// formatScreens renders one row per screen.
func formatScreens(snaps []screen.Snapshot) string {
	if len(snaps) == 0 {
		return offStyle.Render("no screens") + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s %-11s %-5s %-5s %-9s %-6s %s",
		"#", "size", "scale", "power", "colour", "prims", "touch")))
	b.WriteByte('\n')

	for _, s := range snaps {
		power := offStyle.Render("off  ")
		if s.Powered {
			power = onStyle.Render("on   ")
		}
		fmt.Fprintf(&b, "%-4d %-11s %-5d %s %-9s %-6d %s\n",
			s.Number,
			fmt.Sprintf("%dx%d", s.Width, s.Height),
			s.Scale,
			power,
			hexColor(s.Color),
			len(s.Primitives),
			formatTouch(s.Touch))
	}
	return b.String()
}

func formatTouch(t screen.Touch) string {
	if t.Idle() {
		return offStyle.Render("idle")
	}
	if !t.Left && !t.Right {
		return fmt.Sprintf("up @%d,%d", t.Position.X, t.Position.Y)
	}
	var buttons []string
	if t.Left {
		buttons = append(buttons, "left")
	}
	if t.Right {
		buttons = append(buttons, "right")
	}
	return touchStyle.Render(fmt.Sprintf("%s @%d,%d", strings.Join(buttons, "+"), t.Position.X, t.Position.Y))
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
