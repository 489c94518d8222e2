package screen

import (
	"image"
	"image/color"
)

// Kind identifies the shape a Primitive draws.
type Kind int

const (
	KindRect Kind = iota
	KindCircle
	KindLine
	KindText
	KindTextBox
	KindTriangle
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindCircle:
		return "circle"
	case KindLine:
		return "line"
	case KindText:
		return "text"
	case KindTextBox:
		return "textbox"
	case KindTriangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Primitive is one retained drawing on a screen. Coordinates are in pixels,
// already multiplied by the screen's scale at the time the command was
// handled.
type Primitive interface {
	Kind() Kind
	Bounds() image.Rectangle
}

// Align positions text inside a TextBox along one axis.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

func (a Align) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height int
	Filled              bool
	Color               color.NRGBA
}

func (r Rect) Kind() Kind { return KindRect }

func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Circle is an ellipse inscribed in the Radius x Radius box at (X, Y). The
// radius doubles as the box size, so the visible diameter equals Radius.
type Circle struct {
	X, Y, Radius int
	Filled       bool
	Color        color.NRGBA
}

func (c Circle) Kind() Kind { return KindCircle }

func (c Circle) Bounds() image.Rectangle {
	return image.Rect(c.X, c.Y, c.X+c.Radius, c.Y+c.Radius)
}

// Line is a stroked segment.
type Line struct {
	X1, Y1, X2, Y2 int
	Color          color.NRGBA
}

func (l Line) Kind() Kind { return KindLine }

func (l Line) Bounds() image.Rectangle {
	return image.Rect(l.X1, l.Y1, l.X2, l.Y2)
}

// Text is a single unwrapped label anchored at its top-left corner.
type Text struct {
	X, Y     int
	Text     string
	FontSize int
	Color    color.NRGBA
}

func (t Text) Kind() Kind { return KindText }

func (t Text) Bounds() image.Rectangle {
	return image.Rect(t.X, t.Y, t.X+len(t.Text)*t.FontSize, t.Y+t.FontSize)
}

// TextBox is wrapped text aligned inside a rectangle.
type TextBox struct {
	X, Y, Width, Height int
	HAlign, VAlign      Align
	Text                string
	FontSize            int
	Color               color.NRGBA
}

func (t TextBox) Kind() Kind { return KindTextBox }

func (t TextBox) Bounds() image.Rectangle {
	return image.Rect(t.X, t.Y, t.X+t.Width, t.Y+t.Height)
}

// Triangle is a polygon through three points.
type Triangle struct {
	Points [3]image.Point
	Filled bool
	Color  color.NRGBA
}

func (t Triangle) Kind() Kind { return KindTriangle }

func (t Triangle) Bounds() image.Rectangle {
	r := image.Rectangle{Min: t.Points[0], Max: t.Points[0]}
	for _, p := range t.Points[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}
