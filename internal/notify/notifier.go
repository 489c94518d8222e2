// Package notify reports screen state changes to the peer.
package notify

import (
	"log/slog"

	"github.com/lifeboatapi/screensim/internal/screen"
	"github.com/lifeboatapi/screensim/simprotocol"
)

// Notifier emits SCREENSIZE, SCREENPOWER and TOUCH messages when the
// corresponding state of a screen differs from what was last sent. It keeps
// no state of its own; the last sent line lives on each Screen.
type Notifier struct {
	sender simprotocol.Sender
	logger *slog.Logger
}

// New creates a notifier that writes to sender.
func New(sender simprotocol.Sender, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Notifier{sender: sender, logger: logger}
}

// Poll compares every screen against its last sent signatures and sends
// what changed. The first send error is returned and is fatal to the
// session; state that failed to send is retried on the next poll.
func (n *Notifier) Poll(reg *screen.Registry) error {
	for _, s := range reg.Screens() {
		if err := n.pollScreen(s); err != nil {
			return err
		}
	}
	return nil
}

func (n *Notifier) pollScreen(s *screen.Screen) error {
	num := s.Number()

	if err := n.emit(s, screen.SignalResolution,
		simprotocol.NewScreenSizeMessage(num, s.Width(), s.Height())); err != nil {
		return err
	}
	if err := n.emit(s, screen.SignalPower,
		simprotocol.NewScreenPowerMessage(num, s.Powered())); err != nil {
		return err
	}

	t := s.Touch()
	msg := simprotocol.NewTouchMessage(num, t.Left, t.Right, t.Position.X, t.Position.Y)
	if _, seen := s.LastSent(screen.SignalTouch); !seen && t.Idle() {
		// An untouched screen starts from the idle signature without
		// announcing it.
		s.MarkSent(screen.SignalTouch, msg.String())
		return nil
	}
	return n.emit(s, screen.SignalTouch, msg)
}

func (n *Notifier) emit(s *screen.Screen, sig screen.Signal, msg simprotocol.Command) error {
	line := msg.String()
	if last, ok := s.LastSent(sig); ok && last == line {
		return nil
	}
	if err := n.sender.Send(line); err != nil {
		return err
	}
	s.MarkSent(sig, line)
	n.logger.Debug("Sent state change", "screen", s.Number(), "signal", sig.String(), "line", line)
	return nil
}
