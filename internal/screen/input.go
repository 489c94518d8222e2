package screen

import "image"

// Input is a local state change queued for the drain loop. Apply runs on the
// loop that owns the registry.
type Input interface {
	Apply(r *Registry)
}

// TouchInput sets the pointer state of an existing screen.
type TouchInput struct {
	Screen int
	Left   bool
	Right  bool
	X, Y   int
}

func (in TouchInput) Apply(r *Registry) {
	if s, ok := r.Get(in.Screen); ok {
		s.SetTouch(Touch{Left: in.Left, Right: in.Right, Position: image.Pt(in.X, in.Y)})
	}
}

// ReleaseInput lifts both buttons, keeping the last position.
type ReleaseInput struct {
	Screen int
}

func (in ReleaseInput) Apply(r *Registry) {
	if s, ok := r.Get(in.Screen); ok {
		t := s.Touch()
		t.Left, t.Right = false, false
		s.SetTouch(t)
	}
}

// PowerInput switches an existing screen on or off.
type PowerInput struct {
	Screen int
	On     bool
}

func (in PowerInput) Apply(r *Registry) {
	if s, ok := r.Get(in.Screen); ok {
		s.SetPower(in.On)
	}
}

// ResizeInput changes the logical resolution of an existing screen.
type ResizeInput struct {
	Screen        int
	Width, Height int
}

func (in ResizeInput) Apply(r *Registry) {
	if s, ok := r.Get(in.Screen); ok {
		s.Resize(in.Width, in.Height)
	}
}

// ScaleInput changes the draw-scale of an existing screen.
type ScaleInput struct {
	Screen int
	Scale  int
}

func (in ScaleInput) Apply(r *Registry) {
	if s, ok := r.Get(in.Screen); ok {
		s.SetScale(in.Scale)
	}
}

// AddInput creates the next free screen. Done, if set, receives the new
// screen number, or 0 when the registry is full.
type AddInput struct {
	Done func(n int)
}

func (in AddInput) Apply(r *Registry) {
	n := 0
	if s, ok := r.Add(); ok {
		n = s.Number()
	}
	if in.Done != nil {
		in.Done(n)
	}
}

// InspectInput runs Fn on the drain loop, for reads that need a consistent
// view of the registry.
type InspectInput struct {
	Fn func(r *Registry)
}

func (in InspectInput) Apply(r *Registry) {
	if in.Fn != nil {
		in.Fn(r)
	}
}
