package screen

// DefaultMaxScreens bounds how many screens a peer can create.
const DefaultMaxScreens = 16

// Options configures screens created by a Registry.
type Options struct {
	MaxScreens int
	Width      int
	Height     int
	Scale      int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxScreens: DefaultMaxScreens,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Scale:      DefaultScale,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxScreens <= 0 {
		o.MaxScreens = d.MaxScreens
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	return o
}

// Registry maps 1-based screen numbers to screens. Screens are created on
// first reference and never removed.
type Registry struct {
	opts    Options
	screens []*Screen // index n-1 holds screen n; nil for numbers never used
	count   int
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	return &Registry{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (r *Registry) Options() Options { return r.opts }

// InRange reports whether n is a screen number this registry can hold.
func (r *Registry) InRange(n int) bool {
	return n >= 1 && n <= r.opts.MaxScreens
}

// Get returns screen n if it exists.
func (r *Registry) Get(n int) (*Screen, bool) {
	if n < 1 || n > len(r.screens) {
		return nil, false
	}
	s := r.screens[n-1]
	return s, s != nil
}

// Resolve returns screen n, creating it if needed. It returns false when n
// is out of range.
func (r *Registry) Resolve(n int) (*Screen, bool) {
	if s, ok := r.Get(n); ok {
		return s, true
	}
	if !r.InRange(n) {
		return nil, false
	}
	for len(r.screens) < n {
		r.screens = append(r.screens, nil)
	}
	s := newScreen(n, r.opts)
	r.screens[n-1] = s
	r.count++
	return s, true
}

// Add creates the lowest-numbered screen that does not exist yet. It
// returns false when the registry is full.
func (r *Registry) Add() (*Screen, bool) {
	for i, s := range r.screens {
		if s == nil {
			return r.Resolve(i + 1)
		}
	}
	return r.Resolve(len(r.screens) + 1)
}

// Len returns the number of existing screens.
func (r *Registry) Len() int { return r.count }

// Screens returns the existing screens in ascending number order.
func (r *Registry) Screens() []*Screen {
	out := make([]*Screen, 0, r.count)
	for _, s := range r.screens {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Snapshot copies the state of screen n.
func (r *Registry) Snapshot(n int) (Snapshot, bool) {
	s, ok := r.Get(n)
	if !ok {
		return Snapshot{}, false
	}
	return s.Snapshot(), true
}

// Snapshots copies the state of every screen in ascending order.
func (r *Registry) Snapshots() []Snapshot {
	screens := r.Screens()
	out := make([]Snapshot, len(screens))
	for i, s := range screens {
		out[i] = s.Snapshot()
	}
	return out
}
