package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lifeboatapi/screensim/simprotocol"
)

// Liveness sends ALIVE on a fixed period. A failed send means the peer is
// gone.
type Liveness struct {
	sender   simprotocol.Sender
	interval time.Duration
	logger   *slog.Logger
}

// NewLiveness creates a heartbeat over sender. A non-positive interval uses
// simprotocol.DefaultHeartbeatInterval.
func NewLiveness(sender simprotocol.Sender, interval time.Duration, logger *slog.Logger) *Liveness {
	if interval <= 0 {
		interval = simprotocol.DefaultHeartbeatInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Liveness{sender: sender, interval: interval, logger: logger}
}

// Run sends heartbeats until ctx is done or a send fails. Send failures are
// returned as *simprotocol.TransportError.
func (l *Liveness) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	alive := simprotocol.NewAliveMessage().String()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := l.sender.Send(alive); err != nil {
				l.logger.Info("Heartbeat failed, peer detached", "error", err)
				var te *simprotocol.TransportError
				if errors.As(err, &te) {
					return err
				}
				return simprotocol.NewTransportError("send", err)
			}
		}
	}
}
