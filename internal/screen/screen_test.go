package screen

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryResolveCreatesOnDemand(t *testing.T) {
	r := NewRegistry(Options{})

	_, ok := r.Get(3)
	require.False(t, ok)

	s, ok := r.Resolve(3)
	require.True(t, ok)
	require.Equal(t, 3, s.Number())
	require.Equal(t, DefaultWidth, s.Width())
	require.Equal(t, DefaultHeight, s.Height())
	require.Equal(t, DefaultScale, s.Scale())
	require.True(t, s.Powered())
	require.Equal(t, DefaultColor, s.Color())
	require.Equal(t, 1, r.Len())

	again, ok := r.Resolve(3)
	require.True(t, ok)
	require.Same(t, s, again)
	require.Equal(t, 1, r.Len())

	_, ok = r.Get(1)
	require.False(t, ok, "holes below a created screen stay empty")
}

func TestRegistryOutOfRange(t *testing.T) {
	r := NewRegistry(Options{MaxScreens: 2})

	for _, n := range []int{0, -1, 3, 1000} {
		_, ok := r.Resolve(n)
		require.False(t, ok, "screen %d", n)
	}
	require.Zero(t, r.Len())
	require.Empty(t, r.Screens())
}

func TestRegistryAddFillsLowestFreeNumber(t *testing.T) {
	r := NewRegistry(Options{MaxScreens: 3})

	s, ok := r.Add()
	require.True(t, ok)
	require.Equal(t, 1, s.Number())

	_, ok = r.Resolve(3)
	require.True(t, ok)

	s, ok = r.Add()
	require.True(t, ok)
	require.Equal(t, 2, s.Number())

	_, ok = r.Add()
	require.False(t, ok)

	var numbers []int
	for _, s := range r.Screens() {
		numbers = append(numbers, s.Number())
	}
	require.Equal(t, []int{1, 2, 3}, numbers)
}

func TestRegistryOptionsDefaults(t *testing.T) {
	r := NewRegistry(Options{Width: 64, Scale: 4})
	opts := r.Options()
	require.Equal(t, DefaultMaxScreens, opts.MaxScreens)
	require.Equal(t, 64, opts.Width)
	require.Equal(t, DefaultHeight, opts.Height)
	require.Equal(t, 4, opts.Scale)
}

func TestScreenClearKeepsAmbientState(t *testing.T) {
	r := NewRegistry(Options{})
	s, _ := r.Resolve(1)

	red := color.NRGBA{R: 255, A: 255}
	s.SetColor(red)
	s.SetTouch(Touch{Left: true, Position: image.Pt(1, 2)})
	s.Draw(Rect{X: 1, Y: 1, Width: 2, Height: 2, Color: red})
	s.Draw(Line{X2: 4, Y2: 4, Color: red})
	require.Equal(t, 2, s.Len())

	s.Clear()
	require.Zero(t, s.Len())
	require.Equal(t, red, s.Color())
	require.True(t, s.Touch().Left)

	s.Draw(Circle{Radius: 3, Color: red})
	require.Equal(t, 1, s.Len())
}

func TestScreenPrimitivesIsACopy(t *testing.T) {
	s := newScreen(1, DefaultOptions())
	s.Draw(Rect{Width: 1, Height: 1})

	prims := s.Primitives()
	prims[0] = Line{}
	require.Equal(t, KindRect, s.Primitives()[0].Kind())
}

func TestScreenResizeAndScaleRejectNonPositive(t *testing.T) {
	s := newScreen(1, DefaultOptions())

	require.False(t, s.Resize(0, 10))
	require.False(t, s.SetScale(-2))
	require.Equal(t, DefaultWidth, s.Width())
	require.Equal(t, DefaultScale, s.Scale())

	require.True(t, s.Resize(128, 64))
	require.True(t, s.SetScale(3))
	require.Equal(t, 128, s.Width())
	require.Equal(t, 64, s.Height())
	require.Equal(t, 3, s.Scale())
}

func TestScreenLastSent(t *testing.T) {
	s := newScreen(1, DefaultOptions())

	_, ok := s.LastSent(SignalTouch)
	require.False(t, ok)

	s.MarkSent(SignalTouch, "TOUCH|1|0|0|0|0")
	line, ok := s.LastSent(SignalTouch)
	require.True(t, ok)
	require.Equal(t, "TOUCH|1|0|0|0|0", line)

	_, ok = s.LastSent(SignalPower)
	require.False(t, ok, "signals are tracked independently")
}

func TestTouchIdle(t *testing.T) {
	require.True(t, Touch{}.Idle())
	require.False(t, Touch{Right: true}.Idle())
	require.False(t, Touch{Position: image.Pt(0, 1)}.Idle())
}

func TestPrimitiveBounds(t *testing.T) {
	tests := []struct {
		name string
		p    Primitive
		want image.Rectangle
	}{
		{"rect", Rect{X: 2, Y: 3, Width: 10, Height: 4}, image.Rect(2, 3, 12, 7)},
		{"circle", Circle{X: 5, Y: 5, Radius: 6}, image.Rect(5, 5, 11, 11)},
		{"line", Line{X1: 8, Y1: 1, X2: 2, Y2: 9}, image.Rect(2, 1, 8, 9)},
		{"textbox", TextBox{X: 1, Y: 1, Width: 20, Height: 10}, image.Rect(1, 1, 21, 11)},
		{"triangle", Triangle{Points: [3]image.Point{{4, 0}, {0, 8}, {9, 5}}}, image.Rect(0, 0, 9, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.p.Bounds())
		})
	}
}

type recordingRenderer struct {
	size  image.Point
	kinds []Kind
}

func (r *recordingRenderer) Begin(size image.Point) { r.size = size; r.kinds = nil }
func (r *recordingRenderer) Render(p Primitive)     { r.kinds = append(r.kinds, p.Kind()) }

func TestSnapshotPaint(t *testing.T) {
	reg := NewRegistry(Options{Width: 16, Height: 8, Scale: 2})
	s, _ := reg.Resolve(1)
	s.Draw(Rect{Width: 2, Height: 2})
	s.Draw(Text{Text: "hi", FontSize: 10})

	snap, ok := reg.Snapshot(1)
	require.True(t, ok)

	var rr recordingRenderer
	snap.Paint(&rr)
	require.Equal(t, image.Pt(32, 16), rr.size)
	require.Equal(t, []Kind{KindRect, KindText}, rr.kinds)

	s.SetPower(false)
	snap, _ = reg.Snapshot(1)
	snap.Paint(&rr)
	require.Empty(t, rr.kinds, "powered-off screens paint blank")
}

func TestInputsApplyToExistingScreensOnly(t *testing.T) {
	r := NewRegistry(Options{})
	s, _ := r.Resolve(1)

	TouchInput{Screen: 1, Left: true, X: 3, Y: 4}.Apply(r)
	require.Equal(t, Touch{Left: true, Position: image.Pt(3, 4)}, s.Touch())

	ReleaseInput{Screen: 1}.Apply(r)
	require.Equal(t, Touch{Position: image.Pt(3, 4)}, s.Touch())

	PowerInput{Screen: 1, On: false}.Apply(r)
	require.False(t, s.Powered())

	ResizeInput{Screen: 1, Width: 48, Height: 24}.Apply(r)
	require.Equal(t, 48, s.Width())
	require.Equal(t, 24, s.Height())

	ScaleInput{Screen: 1, Scale: 5}.Apply(r)
	require.Equal(t, 5, s.Scale())

	TouchInput{Screen: 2, Left: true}.Apply(r)
	PowerInput{Screen: 2}.Apply(r)
	_, ok := r.Get(2)
	require.False(t, ok)
}

func TestAddInputReportsNumber(t *testing.T) {
	r := NewRegistry(Options{MaxScreens: 1})

	var got []int
	add := AddInput{Done: func(n int) { got = append(got, n) }}
	add.Apply(r)
	add.Apply(r)
	require.Equal(t, []int{1, 0}, got)
}
