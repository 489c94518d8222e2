// Package interp turns inbound protocol commands into screen state changes.
//
// The Dispatcher maps command names to handlers; the Interpreter owns the
// inbound queue and the fixed-rate drain loop that is the only writer of the
// screen registry.
package interp

import (
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lifeboatapi/screensim/internal/screen"
	"github.com/lifeboatapi/screensim/simprotocol"
)

// Handler applies one command kind to the registry. MinFields counts the
// command name; shorter commands never reach Apply. Apply receives the
// parameters without the name and must parse every field before touching
// the registry.
type Handler struct {
	MinFields int
	Apply     func(params []string, reg *screen.Registry) error
}

// Stats counts what the dispatcher has seen.
type Stats struct {
	Dispatched int64            // commands passed to a handler
	Short      int64            // known commands with too few fields
	Faults     int64            // handler errors and panics
	Dropped    map[string]int64 // unknown command names
}

// Dispatcher routes commands to handlers by exact, case-sensitive name.
type Dispatcher struct {
	handlers map[string]Handler
	logger   *slog.Logger

	// faultLog throttles fault logging; suppressed counts skipped entries.
	faultLog   *rate.Limiter
	suppressed int

	mu    sync.Mutex
	stats Stats
}

// NewDispatcher creates a dispatcher with the drawing handlers registered.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		handlers: DrawHandlers(),
		logger:   logger,
		faultLog: rate.NewLimiter(rate.Every(time.Second), 5),
		stats:    Stats{Dropped: make(map[string]int64)},
	}
}

// Register adds or replaces the handler for name. It must be called before
// the dispatcher is in use.
func (d *Dispatcher) Register(name string, h Handler) {
	d.handlers[name] = h
}

// Dispatch applies cmd to reg. Unknown names and short commands are silent
// no-ops. A handler fault, returned or panicked, is logged and counted and
// returned so callers can inspect it; it never affects later commands.
func (d *Dispatcher) Dispatch(cmd simprotocol.Command, reg *screen.Registry) (err error) {
	h, ok := d.handlers[cmd.Name]
	if !ok {
		d.count(func(s *Stats) { s.Dropped[cmd.Name]++ })
		return nil
	}
	if cmd.Fields() < h.MinFields {
		d.count(func(s *Stats) { s.Short++ })
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s handler panicked: %v", cmd.Name, r)
		}
		if err != nil {
			d.fault(cmd, err)
		}
	}()

	d.count(func(s *Stats) { s.Dispatched++ })
	return h.Apply(cmd.Params, reg)
}

func (d *Dispatcher) count(fn func(*Stats)) {
	d.mu.Lock()
	fn(&d.stats)
	d.mu.Unlock()
}

func (d *Dispatcher) fault(cmd simprotocol.Command, err error) {
	d.count(func(s *Stats) { s.Faults++ })

	if !d.faultLog.Allow() {
		d.suppressed++
		return
	}
	attrs := []any{"command", cmd.Name, "line", cmd.String(), "error", err}
	if d.suppressed > 0 {
		attrs = append(attrs, "suppressed", d.suppressed)
		d.suppressed = 0
	}
	d.logger.Warn("Dropping malformed command", attrs...)
}

// Stats returns a copy of the counters.
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.stats
	s.Dropped = maps.Clone(d.stats.Dropped)
	return s
}

// Dropped returns how many commands were dropped per unknown name.
func (d *Dispatcher) Dropped() map[string]int64 {
	return d.Stats().Dropped
}

// Faults returns how many commands failed inside a handler.
func (d *Dispatcher) Faults() int64 {
	return d.Stats().Faults
}

// LogStats writes the counters at info level.
func (d *Dispatcher) LogStats() {
	s := d.Stats()
	var dropped int64
	for _, n := range s.Dropped {
		dropped += n
	}
	d.logger.Info("Dispatcher stats",
		"dispatched", s.Dispatched,
		"short", s.Short,
		"faults", s.Faults,
		"dropped", dropped)
}
