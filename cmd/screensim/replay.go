// =============================================================================
// replay.go - The replay Command
// =============================================================================
//
// replay rebuilds the screens of a recorded session without a debugger.
// Inbound lines go through the same dispatcher a live session uses. Outbound
// SCREENSIZE, SCREENPOWER and TOUCH lines carry the local state changes the
// console made, so they are applied too, in recording order. ALIVE lines are
// ignored.
//
// The result is printed as a screen table and, with --png-dir, written as
// one PNG per screen.
//
// =============================================================================

package main

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lifeboatapi/screensim/internal/interp"
	"github.com/lifeboatapi/screensim/internal/recorder"
	"github.com/lifeboatapi/screensim/internal/render"
	"github.com/lifeboatapi/screensim/internal/screen"
	"github.com/lifeboatapi/screensim/simprotocol"
)

// Flags for the replay command.
var (
	replayDB      string
	replaySession string
	replayPNGDir  string
	replayScale   int
	replayList    bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Rebuild screens from a recorded session",
	Long: `Rebuild screens from a recorded session.

Sessions are recorded with 'screensim run --record <db>'. Without --session
the most recent session in the database is replayed.

Examples:
  screensim replay --db session.db --list
  screensim replay --db session.db
  screensim replay --db session.db --session 4f0c... --png-dir frames`,
	Args: cobra.NoArgs,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&replayDB, "db", "", "Transcript database written by run --record")
	replayCmd.Flags().StringVar(&replaySession, "session", "", "Session id (default: most recent)")
	replayCmd.Flags().StringVar(&replayPNGDir, "png-dir", "", "Write screen-<n>.png for every screen into this directory")
	replayCmd.Flags().IntVar(&replayScale, "scale", 0, "Draw-scale of replayed screens (default: configured scale)")
	replayCmd.Flags().BoolVar(&replayList, "list", false, "List recorded sessions and exit")
	_ = replayCmd.MarkFlagRequired("db")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if replayList {
		sessions, err := recorder.Sessions(ctx, replayDB)
		if err != nil {
			return err
		}
		printSessions(out, sessions)
		return nil
	}

	info, entries, err := recorder.Load(ctx, replayDB, replaySession)
	if err != nil {
		return err
	}

	opts := cfg.ScreenOptions()
	if replayScale > 0 {
		opts.Scale = replayScale
	}
	reg := screen.NewRegistry(opts)
	inbound := interp.NewDispatcher(logger)
	outbound := interp.NewDispatcher(logger)
	for name, h := range echoHandlers() {
		outbound.Register(name, h)
	}

	var in, sent int
	for _, e := range entries {
		msg := simprotocol.Parse(e.Line)
		switch e.Direction {
		case recorder.Inbound:
			in++
			_ = inbound.Dispatch(msg, reg)
		case recorder.Outbound:
			sent++
			if msg.Name != simprotocol.MsgAlive {
				_ = outbound.Dispatch(msg, reg)
			}
		}
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Session %s", info.ID)))
	fmt.Fprintf(out, "endpoint %s, started %s, %d lines in, %d out\n\n",
		info.Endpoint, info.StartedAt.Local().Format("2006-01-02 15:04:05"), in, sent)
	snaps := reg.Snapshots()
	fmt.Fprint(out, formatScreens(snaps))

	s := inbound.Stats()
	fmt.Fprintf(out, "\ndispatched %d  short %d  faults %d  dropped %d\n",
		s.Dispatched, s.Short, s.Faults, sum(s.Dropped))

	if replayPNGDir == "" {
		return nil
	}
	if err := os.MkdirAll(replayPNGDir, 0o755); err != nil {
		return err
	}
	for _, snap := range snaps {
		path := filepath.Join(replayPNGDir, fmt.Sprintf("screen-%d.png", snap.Number))
		if err := render.SavePNG(path, snap); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return nil
}

func printSessions(w io.Writer, sessions []recorder.SessionInfo) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, offStyle.Render("no sessions"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-36s  %-19s  %6s  %s", "session", "started", "lines", "endpoint")))
	for _, s := range sessions {
		fmt.Fprintf(w, "%-36s  %-19s  %6d  %s\n",
			s.ID, s.StartedAt.Local().Format("2006-01-02 15:04:05"), s.Lines, s.Endpoint)
	}
}

// echoHandlers apply outbound state reports to the registry. They share the
// inbound handlers' rule of parsing every field before touching a screen.
func echoHandlers() map[string]interp.Handler {
	return map[string]interp.Handler{
		simprotocol.MsgScreenSize: {
			MinFields: 4,
			Apply: func(p []string, reg *screen.Registry) error {
				n, err := atoiAll(p[:3])
				if err != nil {
					return err
				}
				if s, ok := reg.Resolve(n[0]); ok {
					s.Resize(n[1], n[2])
				}
				return nil
			},
		},
		simprotocol.MsgScreenPower: {
			MinFields: 3,
			Apply: func(p []string, reg *screen.Registry) error {
				n, err := atoiAll(p[:1])
				if err != nil {
					return err
				}
				if s, ok := reg.Resolve(n[0]); ok {
					s.SetPower(p[1] == "1")
				}
				return nil
			},
		},
		simprotocol.MsgTouch: {
			MinFields: 6,
			Apply: func(p []string, reg *screen.Registry) error {
				n, err := atoiAll([]string{p[0], p[3], p[4]})
				if err != nil {
					return err
				}
				if s, ok := reg.Resolve(n[0]); ok {
					s.SetTouch(screen.Touch{
						Left:     p[1] == "1",
						Right:    p[2] == "1",
						Position: image.Pt(n[1], n[2]),
					})
				}
				return nil
			},
		},
	}
}

func atoiAll(values []string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", v)
		}
		out[i] = n
	}
	return out, nil
}

func sum(m map[string]int64) int64 {
	var total int64
	for _, n := range m {
		total += n
	}
	return total
}
