package interp

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lifeboatapi/screensim/internal/screen"
	"github.com/lifeboatapi/screensim/simprotocol"
)

// maxMagnitude bounds numeric fields so truncation to int cannot overflow
// once multiplied by a draw-scale.
const maxMagnitude = 1 << 31

// DrawHandlers returns the static table of drawing commands. Minimum field
// counts include the command name, as on the wire.
func DrawHandlers() map[string]Handler {
	return map[string]Handler{
		simprotocol.CmdRect:     {MinFields: 7, Apply: applyRect},
		simprotocol.CmdCircle:   {MinFields: 6, Apply: applyCircle},
		simprotocol.CmdLine:     {MinFields: 6, Apply: applyLine},
		simprotocol.CmdText:     {MinFields: 5, Apply: applyText},
		simprotocol.CmdTextBox:  {MinFields: 9, Apply: applyTextBox},
		simprotocol.CmdTriangle: {MinFields: 9, Apply: applyTriangle},
		simprotocol.CmdColour:   {MinFields: 6, Apply: applyColour},
		simprotocol.CmdClear:    {MinFields: 2, Apply: applyClear},
	}
}

// RECT|screen|filled|x|y|width|height
func applyRect(params []string, reg *screen.Registry) error {
	n, err := parseScreen(params[0])
	if err != nil {
		return err
	}
	v, err := parseNumbers(params[2:6], "x", "y", "width", "height")
	if err != nil {
		return err
	}

	s, ok := reg.Resolve(n)
	if !ok {
		return nil
	}
	k := s.Scale()
	s.Draw(screen.Rect{
		X: v[0] * k, Y: v[1] * k, Width: v[2] * k, Height: v[3] * k,
		Filled: parseFlag(params[1]),
		Color:  s.Color(),
	})
	return nil
}

// CIRCLE|screen|filled|x|y|radius
func applyCircle(params []string, reg *screen.Registry) error {
	n, err := parseScreen(params[0])
	if err != nil {
		return err
	}
	v, err := parseNumbers(params[2:5], "x", "y", "radius")
	if err != nil {
		return err
	}

	s, ok := reg.Resolve(n)
	if !ok {
		return nil
	}
	k := s.Scale()
	s.Draw(screen.Circle{
		X: v[0] * k, Y: v[1] * k, Radius: v[2] * k,
		Filled: parseFlag(params[1]),
		Color:  s.Color(),
	})
	return nil
}

// LINE|screen|x1|y1|x2|y2
func applyLine(params []string, reg *screen.Registry) error {
	n, err := parseScreen(params[0])
	if err != nil {
		return err
	}
	v, err := parseNumbers(params[1:5], "x1", "y1", "x2", "y2")
	if err != nil {
		return err
	}

	s, ok := reg.Resolve(n)
	if !ok {
		return nil
	}
	k := s.Scale()
	s.Draw(screen.Line{
		X1: v[0] * k, Y1: v[1] * k, X2: v[2] * k, Y2: v[3] * k,
		Color: s.Color(),
	})
	return nil
}

// TEXT|screen|x|y|text
func applyText(params []string, reg *screen.Registry) error {
	n, err := parseScreen(params[0])
	if err != nil {
		return err
	}
	x, err := parseNumber("x", params[1])
	if err != nil {
		return err
	}
	y, err := parseTextY(params[2])
	if err != nil {
		return err
	}

	s, ok := reg.Resolve(n)
	if !ok {
		return nil
	}
	k := s.Scale()
	s.Draw(screen.Text{
		X: x * k, Y: y * k,
		Text:     params[3],
		FontSize: screen.TextFontSize * k,
		Color:    s.Color(),
	})
	return nil
}

// TEXTBOX|screen|x|y|h-align|v-align|width|height|text
func applyTextBox(params []string, reg *screen.Registry) error {
	n, err := parseScreen(params[0])
	if err != nil {
		return err
	}
	x, err := parseNumber("x", params[1])
	if err != nil {
		return err
	}
	y, err := parseTextY(params[2])
	if err != nil {
		return err
	}
	hAlign, err := parseAlign("h-align", params[3])
	if err != nil {
		return err
	}
	vAlign, err := parseAlign("v-align", params[4])
	if err != nil {
		return err
	}
	size, err := parseNumbers(params[5:7], "width", "height")
	if err != nil {
		return err
	}

	s, ok := reg.Resolve(n)
	if !ok {
		return nil
	}
	k := s.Scale()
	s.Draw(screen.TextBox{
		X: x * k, Y: y * k, Width: size[0] * k, Height: size[1] * k,
		HAlign: hAlign, VAlign: vAlign,
		Text:     params[7],
		FontSize: screen.TextBoxFontSize * k,
		Color:    s.Color(),
	})
	return nil
}

// TRIANGLE|screen|filled|x1|y1|x2|y2|x3|y3
func applyTriangle(params []string, reg *screen.Registry) error {
	n, err := parseScreen(params[0])
	if err != nil {
		return err
	}
	v, err := parseNumbers(params[2:8], "x1", "y1", "x2", "y2", "x3", "y3")
	if err != nil {
		return err
	}

	s, ok := reg.Resolve(n)
	if !ok {
		return nil
	}
	k := s.Scale()
	s.Draw(screen.Triangle{
		Points: [3]image.Point{
			{X: v[0] * k, Y: v[1] * k},
			{X: v[2] * k, Y: v[3] * k},
			{X: v[4] * k, Y: v[5] * k},
		},
		Filled: parseFlag(params[1]),
		Color:  s.Color(),
	})
	return nil
}

// COLOUR|screen|r|g|b|a
func applyColour(params []string, reg *screen.Registry) error {
	n, err := parseScreen(params[0])
	if err != nil {
		return err
	}
	var ch [4]uint8
	for i, field := range []string{"r", "g", "b", "a"} {
		if ch[i], err = parseChannel(field, params[i+1]); err != nil {
			return err
		}
	}

	s, ok := reg.Resolve(n)
	if !ok {
		return nil
	}
	s.SetColor(color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]})
	return nil
}

// CLEAR|screen
func applyClear(params []string, reg *screen.Registry) error {
	n, err := parseScreen(params[0])
	if err != nil {
		return err
	}
	if s, ok := reg.Resolve(n); ok {
		s.Clear()
	}
	return nil
}

// parseFloat accepts any finite decimal number, with surrounding spaces.
func parseFloat(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, simprotocol.NewInvalidNumberError(field, s)
	}
	return f, nil
}

// parseNumber parses a numeric field and truncates it toward zero.
func parseNumber(field, s string) (int, error) {
	f, err := parseFloat(field, s)
	if err != nil {
		return 0, err
	}
	if math.Abs(f) >= maxMagnitude {
		return 0, simprotocol.NewInvalidNumberError(field, s)
	}
	return int(f), nil
}

func parseNumbers(values []string, fields ...string) ([]int, error) {
	out := make([]int, len(fields))
	for i, field := range fields {
		v, err := parseNumber(field, values[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseTextY applies the one-unit baseline correction before truncating.
func parseTextY(s string) (int, error) {
	f, err := parseFloat("y", s)
	if err != nil {
		return 0, err
	}
	f--
	if math.Abs(f) >= maxMagnitude {
		return 0, simprotocol.NewInvalidNumberError("y", s)
	}
	return int(f), nil
}

// parseScreen parses a wire screen number. Range checks are left to the
// registry so out-of-range numbers are no-ops rather than faults.
func parseScreen(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, simprotocol.NewInvalidScreenError(s)
	}
	return n, nil
}

// parseAlign maps 1..3 to start/center/end, clamping anything outside.
func parseAlign(field, s string) (screen.Align, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, simprotocol.NewInvalidNumberError(field, s)
	}
	return screen.Align(clamp(v-1, int(screen.AlignStart), int(screen.AlignEnd))), nil
}

func parseChannel(field, s string) (uint8, error) {
	f, err := parseFloat(field, s)
	if err != nil {
		return 0, err
	}
	return uint8(clamp(math.Trunc(f), 0, 255)), nil
}

func parseFlag(s string) bool {
	return s == "1"
}

func clamp[T int | float64](v, lo, hi T) T {
	return max(lo, min(hi, v))
}
