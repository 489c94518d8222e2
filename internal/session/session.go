// Package session runs one simulator session against a connected peer: the
// inbound reader, the drain loop and the heartbeat, cancelled together.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lifeboatapi/screensim/internal/interp"
	"github.com/lifeboatapi/screensim/internal/notify"
	"github.com/lifeboatapi/screensim/simprotocol"
)

// Config holds the session timing.
type Config struct {
	TickRate          int           // drain loop frequency in Hz
	HeartbeatInterval time.Duration // period between ALIVE messages
}

// Session connects a transport to an interpreter.
type Session struct {
	transport simprotocol.Transport
	interp    *interp.Interpreter
	liveness  *Liveness
	cfg       Config
	logger    *slog.Logger
}

// New creates a session. It registers a Notifier writing to transport as an
// observer of it, so New must be called before the interpreter runs.
func New(transport simprotocol.Transport, it *interp.Interpreter, cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = simprotocol.DefaultTickRate
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = simprotocol.DefaultHeartbeatInterval
	}

	it.Observe(notify.New(transport, logger))
	return &Session{
		transport: transport,
		interp:    it,
		liveness:  NewLiveness(transport, cfg.HeartbeatInterval, logger),
		cfg:       cfg,
		logger:    logger,
	}
}

// Run blocks until the peer detaches, a transport operation fails or ctx is
// cancelled. The transport is closed before Run returns. Cancellation of ctx
// returns nil; otherwise the first fatal error is returned, which satisfies
// simprotocol.IsDetach when the peer went away.
func (s *Session) Run(ctx context.Context) error {
	defer s.transport.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.read(gctx) })
	g.Go(func() error { return s.interp.Run(gctx, s.cfg.TickRate) })
	g.Go(func() error { return s.liveness.Run(gctx) })

	s.logger.Info("Session started",
		"tick_rate", s.cfg.TickRate,
		"heartbeat", s.cfg.HeartbeatInterval)

	err := g.Wait()
	if ctx.Err() != nil {
		s.logger.Info("Session stopped")
		return nil
	}
	if simprotocol.IsDetach(err) {
		s.logger.Info("Peer detached", "error", err)
	} else {
		s.logger.Error("Session failed", "error", err)
	}
	return err
}

// read moves inbound lines onto the interpreter queue.
func (s *Session) read(ctx context.Context) error {
	for {
		line, err := s.transport.Next(ctx)
		if err != nil {
			if errors.Is(err, simprotocol.ErrClosed) {
				s.logger.Debug("Inbound stream closed")
			}
			return err
		}
		s.interp.Enqueue(simprotocol.Parse(line))
	}
}
