package interp

import (
	"context"
	"log/slog"
	"time"

	"github.com/lifeboatapi/screensim/internal/screen"
	"github.com/lifeboatapi/screensim/simprotocol"
)

// Observer runs on the drain loop after each tick's mutations. An error is
// fatal to the loop.
type Observer interface {
	Poll(reg *screen.Registry) error
}

// Interpreter owns the registry and applies queued work to it on a single
// drain loop. Enqueue and Submit are safe from any goroutine.
type Interpreter struct {
	registry   *screen.Registry
	dispatcher *Dispatcher
	logger     *slog.Logger

	commands Queue[simprotocol.Command]
	inputs   Queue[screen.Input]

	observers []Observer
}

// New creates an interpreter over reg.
func New(reg *screen.Registry, dispatcher *Dispatcher, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Interpreter{
		registry:   reg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Registry returns the registry. Only touch it from the drain loop.
func (it *Interpreter) Registry() *screen.Registry { return it.registry }

// Dispatcher returns the dispatcher used by Tick.
func (it *Interpreter) Dispatcher() *Dispatcher { return it.dispatcher }

// Observe adds an observer polled after every tick, in registration order.
// Call before Run.
func (it *Interpreter) Observe(o Observer) {
	it.observers = append(it.observers, o)
}

// Enqueue queues an inbound command.
func (it *Interpreter) Enqueue(cmd simprotocol.Command) {
	it.commands.Push(cmd)
}

// Submit queues a local input.
func (it *Interpreter) Submit(in screen.Input) {
	it.inputs.Push(in)
}

// Pending returns the number of queued commands and inputs.
func (it *Interpreter) Pending() int {
	return it.commands.Len() + it.inputs.Len()
}

// Tick applies everything queued so far: local inputs first, then inbound
// commands in arrival order, then polls the observers.
func (it *Interpreter) Tick() error {
	for _, in := range it.inputs.DrainAll() {
		in.Apply(it.registry)
	}
	for _, cmd := range it.commands.DrainAll() {
		_ = it.dispatcher.Dispatch(cmd, it.registry)
	}
	for _, o := range it.observers {
		if err := o.Poll(it.registry); err != nil {
			return err
		}
	}
	return nil
}

// Run ticks at hz until ctx is done or an observer fails.
func (it *Interpreter) Run(ctx context.Context, hz int) error {
	if hz <= 0 {
		hz = simprotocol.DefaultTickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	it.logger.Debug("Drain loop started", "rate", hz)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := it.Tick(); err != nil {
				return err
			}
		}
	}
}
