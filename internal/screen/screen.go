// Package screen holds the simulated display surfaces: per-screen state, the
// retained draw buffer and the registry that owns them.
//
// Nothing in this package is safe for concurrent use. All mutation happens on
// the interpreter's drain loop; other goroutines observe state through
// Snapshot values or by queueing an Input.
package screen

import (
	"image"
	"image/color"
	"slices"
)

// Defaults for newly created screens.
const (
	DefaultWidth  = 32
	DefaultHeight = 32
	DefaultScale  = 1

	// StrokeWidth is the outline thickness of unfilled shapes and lines, in
	// device units.
	StrokeWidth = 2

	// TextFontSize and TextBoxFontSize are multiplied by the draw-scale.
	TextFontSize    = 5
	TextBoxFontSize = 8
)

// DefaultColor is the draw color of a new screen.
var DefaultColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Touch is the pointer state of a screen in logical units.
type Touch struct {
	Left     bool
	Right    bool
	Position image.Point
}

// Idle reports whether no button is held and the pointer is at the origin.
func (t Touch) Idle() bool {
	return t == Touch{}
}

// Signal names one of the state changes reported to the peer.
type Signal int

const (
	SignalResolution Signal = iota
	SignalPower
	SignalTouch
	signalCount
)

func (s Signal) String() string {
	switch s {
	case SignalResolution:
		return "resolution"
	case SignalPower:
		return "power"
	case SignalTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// Screen is one virtual display surface.
type Screen struct {
	number  int
	width   int
	height  int
	scale   int
	powered bool
	color   color.NRGBA
	buffer  []Primitive
	touch   Touch

	lastSent [signalCount]string
	sent     [signalCount]bool
}

func newScreen(number int, opts Options) *Screen {
	return &Screen{
		number:  number,
		width:   opts.Width,
		height:  opts.Height,
		scale:   opts.Scale,
		powered: true,
		color:   DefaultColor,
	}
}

// Number returns the 1-based screen number used on the wire.
func (s *Screen) Number() int { return s.number }

// Width returns the horizontal resolution in logical units.
func (s *Screen) Width() int { return s.width }

// Height returns the vertical resolution in logical units.
func (s *Screen) Height() int { return s.height }

// Scale returns the draw-scale.
func (s *Screen) Scale() int { return s.scale }

// Powered reports the power state.
func (s *Screen) Powered() bool { return s.powered }

// Color returns the current draw color.
func (s *Screen) Color() color.NRGBA { return s.color }

// Touch returns the current pointer state.
func (s *Screen) Touch() Touch { return s.touch }

// Len returns the number of primitives in the draw buffer.
func (s *Screen) Len() int { return len(s.buffer) }

// Primitives returns a copy of the draw buffer in draw order.
func (s *Screen) Primitives() []Primitive {
	return slices.Clone(s.buffer)
}

// Draw appends p to the draw buffer.
func (s *Screen) Draw(p Primitive) {
	s.buffer = append(s.buffer, p)
}

// Clear empties the draw buffer. Color, power and touch are untouched.
func (s *Screen) Clear() {
	clear(s.buffer)
	s.buffer = s.buffer[:0]
}

// SetColor sets the color used by subsequent draw commands.
func (s *Screen) SetColor(c color.NRGBA) { s.color = c }

// SetTouch replaces the pointer state.
func (s *Screen) SetTouch(t Touch) { s.touch = t }

// SetPower switches the screen on or off.
func (s *Screen) SetPower(on bool) { s.powered = on }

// Resize changes the logical resolution. Non-positive sizes are ignored.
func (s *Screen) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	s.width, s.height = width, height
	return true
}

// SetScale changes the draw-scale for subsequent commands. Primitives
// already in the buffer keep their device coordinates.
func (s *Screen) SetScale(scale int) bool {
	if scale <= 0 {
		return false
	}
	s.scale = scale
	return true
}

// LastSent returns the last line successfully sent for sig.
func (s *Screen) LastSent(sig Signal) (string, bool) {
	return s.lastSent[sig], s.sent[sig]
}

// MarkSent records line as the last one sent for sig.
func (s *Screen) MarkSent(sig Signal, line string) {
	s.lastSent[sig] = line
	s.sent[sig] = true
}

// Snapshot is a detached copy of a screen's visible state.
type Snapshot struct {
	Number     int
	Width      int
	Height     int
	Scale      int
	Powered    bool
	Color      color.NRGBA
	Touch      Touch
	Primitives []Primitive
}

// Snapshot copies the screen's visible state.
func (s *Screen) Snapshot() Snapshot {
	return Snapshot{
		Number:     s.number,
		Width:      s.width,
		Height:     s.height,
		Scale:      s.scale,
		Powered:    s.powered,
		Color:      s.color,
		Touch:      s.touch,
		Primitives: s.Primitives(),
	}
}

// DeviceSize returns the surface size in device units.
func (s Snapshot) DeviceSize() image.Point {
	return image.Pt(s.Width*s.Scale, s.Height*s.Scale)
}

// Renderer draws primitives onto some surface. Begin is called once per
// frame with the device size before any Render call.
type Renderer interface {
	Begin(size image.Point)
	Render(p Primitive)
}

// Paint replays the snapshot onto r. A powered-off screen paints blank.
func (s Snapshot) Paint(r Renderer) {
	r.Begin(s.DeviceSize())
	if !s.Powered {
		return
	}
	for _, p := range s.Primitives {
		r.Render(p)
	}
}
