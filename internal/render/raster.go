// Package render rasterizes screen snapshots into images.
//
// The output is an approximation of the peer's display: shapes use the
// stored device geometry and color, text uses a fixed bitmap face zoomed to
// the requested size.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/lifeboatapi/screensim/internal/screen"
)

// MaxSide bounds either dimension of a rendered frame.
const MaxSide = 8192

// Background fills every frame before primitives are drawn.
var Background = color.NRGBA{A: 255}

// fontUnit is the glyph height, in device units, that maps to zoom 1.
const fontUnit = 5

// circleSegments is the polygon resolution used for ellipses.
const circleSegments = 48

// Raster is a screen.Renderer that draws into an *image.NRGBA.
type Raster struct {
	img  *image.NRGBA
	rast *vector.Rasterizer
	face font.Face
}

// NewRaster creates an empty raster. Begin sizes it.
func NewRaster() *Raster {
	return &Raster{face: basicfont.Face7x13}
}

// Image returns the current frame.
func (r *Raster) Image() *image.NRGBA { return r.img }

// Begin starts a new frame of the given device size.
func (r *Raster) Begin(size image.Point) {
	w := min(max(size.X, 1), MaxSide)
	h := min(max(size.Y, 1), MaxSide)
	r.img = image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	r.rast = vector.NewRasterizer(w, h)
}

// Render draws one primitive.
func (r *Raster) Render(p screen.Primitive) {
	if r.img == nil {
		return
	}
	switch p := p.(type) {
	case screen.Rect:
		pts := []point{
			{float64(p.X), float64(p.Y)},
			{float64(p.X + p.Width), float64(p.Y)},
			{float64(p.X + p.Width), float64(p.Y + p.Height)},
			{float64(p.X), float64(p.Y + p.Height)},
		}
		r.shape(pts, p.Filled, p.Color)
	case screen.Circle:
		rad := float64(p.Radius) / 2
		cx, cy := float64(p.X)+rad, float64(p.Y)+rad
		pts := make([]point, circleSegments)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / circleSegments
			pts[i] = point{cx + rad*math.Cos(a), cy + rad*math.Sin(a)}
		}
		r.shape(pts, p.Filled, p.Color)
	case screen.Line:
		r.segment(point{float64(p.X1), float64(p.Y1)}, point{float64(p.X2), float64(p.Y2)}, p.Color)
	case screen.Triangle:
		pts := make([]point, len(p.Points))
		for i, v := range p.Points {
			pts[i] = point{float64(v.X), float64(v.Y)}
		}
		r.shape(pts, p.Filled, p.Color)
	case screen.Text:
		r.text(image.Pt(p.X, p.Y), p.Text, p.FontSize, p.Color)
	case screen.TextBox:
		r.textBox(p)
	}
}

type point struct{ x, y float64 }

// shape fills the closed polygon pts, or strokes its outline.
func (r *Raster) shape(pts []point, filled bool, c color.NRGBA) {
	if !filled {
		for i := range pts {
			r.segment(pts[i], pts[(i+1)%len(pts)], c)
		}
		return
	}
	r.rast.Reset(r.img.Bounds().Dx(), r.img.Bounds().Dy())
	r.rast.MoveTo(float32(pts[0].x), float32(pts[0].y))
	for _, p := range pts[1:] {
		r.rast.LineTo(float32(p.x), float32(p.y))
	}
	r.rast.ClosePath()
	r.fill(c)
}

// segment strokes a line of width screen.StrokeWidth as a quad.
func (r *Raster) segment(a, b point, c color.NRGBA) {
	dx, dy := b.x-a.x, b.y-a.y
	length := math.Hypot(dx, dy)
	half := float64(screen.StrokeWidth) / 2

	var nx, ny float64
	if length == 0 {
		// A zero-length line still leaves a dot.
		a.x, b.x = a.x-half, a.x+half
		nx, ny = 0, half
	} else {
		nx, ny = -dy/length*half, dx/length*half
	}

	r.rast.Reset(r.img.Bounds().Dx(), r.img.Bounds().Dy())
	r.rast.MoveTo(float32(a.x+nx), float32(a.y+ny))
	r.rast.LineTo(float32(b.x+nx), float32(b.y+ny))
	r.rast.LineTo(float32(b.x-nx), float32(b.y-ny))
	r.rast.LineTo(float32(a.x-nx), float32(a.y-ny))
	r.rast.ClosePath()
	r.fill(c)
}

func (r *Raster) fill(c color.NRGBA) {
	r.rast.DrawOp = draw.Over
	r.rast.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

func zoom(fontSize int) int {
	return max(1, fontSize/fontUnit)
}

// text draws s with its top-left corner at at.
func (r *Raster) text(at image.Point, s string, fontSize int, c color.NRGBA) {
	r.textInto(r.img, at, s, zoom(fontSize), c)
}

func (r *Raster) textInto(dst draw.Image, at image.Point, s string, z int, c color.NRGBA) {
	if s == "" {
		return
	}
	m := r.face.Metrics()
	w := font.MeasureString(r.face, s).Ceil()
	h := m.Height.Ceil()
	if w <= 0 || h <= 0 {
		return
	}

	glyphs := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(0, m.Ascent.Ceil()),
	}
	d.DrawString(s)

	target := image.Rect(at.X, at.Y, at.X+w*z, at.Y+h*z)
	xdraw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), xdraw.Over, nil)
}

// textBox wraps and aligns text inside the box, clipping what overflows.
func (r *Raster) textBox(p screen.TextBox) {
	box := image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height).Intersect(r.img.Bounds())
	if box.Empty() {
		return
	}
	clip, ok := r.img.SubImage(box).(*image.NRGBA)
	if !ok {
		return
	}

	z := zoom(p.FontSize)
	advance := func(s string) int { return font.MeasureString(r.face, s).Ceil() * z }
	lines := wrap(p.Text, p.Width, advance)
	lineHeight := r.face.Metrics().Height.Ceil() * z

	top := p.Y + offset(p.VAlign, p.Height, len(lines)*lineHeight)
	for i, line := range lines {
		left := p.X + offset(p.HAlign, p.Width, advance(line))
		r.textInto(clip, image.Pt(left, top+i*lineHeight), line, z, p.Color)
	}
}

func offset(a screen.Align, room, used int) int {
	switch a {
	case screen.AlignCenter:
		return (room - used) / 2
	case screen.AlignEnd:
		return room - used
	default:
		return 0
	}
}
