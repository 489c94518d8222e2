// =============================================================================
// run.go - The run Command
// =============================================================================
//
// run attaches the simulator to a debugger:
//
//  1. Resolve settings and take the per-endpoint instance lock.
//  2. Dial the endpoint, optionally wrapping the connection in a recorder.
//  3. Build the registry (pre-creating --screens screens), the dispatcher
//     and the interpreter.
//  4. Run the session, with the console beside it when stdin is a terminal
//     or --console is given.
//
// The session ends when the peer detaches, a transport error occurs, the
// console quits or the process receives SIGINT/SIGTERM. A peer detach is a
// normal exit.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lifeboatapi/screensim/internal/config"
	"github.com/lifeboatapi/screensim/internal/instance"
	"github.com/lifeboatapi/screensim/internal/interp"
	"github.com/lifeboatapi/screensim/internal/recorder"
	"github.com/lifeboatapi/screensim/internal/screen"
	"github.com/lifeboatapi/screensim/internal/session"
	"github.com/lifeboatapi/screensim/simprotocol"
)

// Flags for the run command that are not settings.
var (
	runConsole   bool
	runNoConsole bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Attach to a debugger and simulate its screens",
	Long: `Attach to a debugger and simulate its screens.

The simulator dials --endpoint, applies every drawing command it receives and
reports screen changes back. When stdin is a terminal a console is started
for touch, power and resolution input; type .help there for its commands.

Examples:
  screensim run
  screensim run --endpoint unix:///tmp/debugger.sock --screens 2
  screensim run --scale 4 --record session.db
  screensim run --console < script.txt`,
	Args: cobra.NoArgs,
	RunE: runSimulator,
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.Int("tick-rate", simprotocol.DefaultTickRate, "Drain loop frequency in Hz")
	flags.Duration("heartbeat", simprotocol.DefaultHeartbeatInterval, "Interval between ALIVE messages")
	flags.Int("max-screens", screen.DefaultMaxScreens, "Highest screen number accepted")
	flags.Int("width", screen.DefaultWidth, "Logical width of new screens")
	flags.Int("height", screen.DefaultHeight, "Logical height of new screens")
	flags.Int("scale", screen.DefaultScale, "Draw-scale of new screens")
	flags.Int("screens", 1, "Screens to create before attaching")
	flags.String("record", "", "Record the session transcript to this SQLite file")
	flags.String("lock-dir", "", "Directory for per-endpoint lock files")
	flags.BoolVar(&runConsole, "console", false, "Read console commands from stdin even when it is not a terminal")
	flags.BoolVar(&runNoConsole, "no-console", false, "Do not start the console")
	runCmd.MarkFlagsMutuallyExclusive("console", "no-console")

	bindFlag(config.KeyTickRate, runCmd, "tick-rate")
	bindFlag(config.KeyHeartbeatInterval, runCmd, "heartbeat")
	bindFlag(config.KeyMaxScreens, runCmd, "max-screens")
	bindFlag(config.KeyScreenWidth, runCmd, "width")
	bindFlag(config.KeyScreenHeight, runCmd, "height")
	bindFlag(config.KeyScreenScale, runCmd, "scale")
	bindFlag(config.KeyScreens, runCmd, "screens")
	bindFlag(config.KeyRecord, runCmd, "record")
	bindFlag(config.KeyLockDir, runCmd, "lock-dir")
}

func runSimulator(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var editor *LineEditor
	if wantConsole() {
		editor = NewLineEditor(os.Stdin, cmd.OutOrStdout())
		defer editor.Close()
		if editor.IsInteractive() {
			fmt.Fprint(cmd.OutOrStdout(), welcomeBanner(cfg.Endpoint))
		}
	}

	var in lineReader
	if editor != nil {
		in = editor
	}
	return simulate(ctx, cfg, logger, in, cmd.OutOrStdout())
}

// wantConsole decides whether run starts the console.
func wantConsole() bool {
	if runNoConsole {
		return false
	}
	return runConsole || term.IsTerminal(int(os.Stdin.Fd()))
}

// simulate runs one session against cfg.Endpoint. When in is non-nil the
// console reads from it, and leaving the console ends the session.
func simulate(ctx context.Context, cfg config.Config, logger *slog.Logger, in lineReader, out io.Writer) error {
	lock, err := instance.Acquire(cfg.LockDir, cfg.Endpoint)
	if err != nil {
		return err
	}
	defer lock.Release()

	conn, err := simprotocol.Dial(ctx, cfg.Endpoint)
	if err != nil {
		return err
	}
	logger.Info("Attached", "endpoint", conn.Endpoint())

	var transport simprotocol.Transport = conn
	if cfg.Record != "" {
		rec, err := recorder.Open(ctx, cfg.Record, cfg.Endpoint, logger)
		if err != nil {
			conn.Close()
			return err
		}
		defer rec.Close()
		transport = rec.Wrap(conn)
		logger.Info("Recording session", "db", cfg.Record, "session", rec.SessionID())
	}

	reg := screen.NewRegistry(cfg.ScreenOptions())
	for range cfg.Screens {
		reg.Add()
	}
	disp := interp.NewDispatcher(logger)
	it := interp.New(reg, disp, logger)
	sess := session.New(transport, it, session.Config{
		TickRate:          cfg.TickRate,
		HeartbeatInterval: cfg.HeartbeatInterval,
	}, logger)

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if in != nil {
		// The console goroutine may stay blocked on stdin after the session
		// ends; the process exits around it.
		go func() {
			if err := newConsole(it, out).run(sessCtx, in); err != nil {
				logger.Warn("Console input failed", "error", err)
			}
			cancel()
		}()
	}

	err = sess.Run(sessCtx)
	disp.LogStats()

	if err == nil || simprotocol.IsDetach(err) {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return fmt.Errorf("session: %w", err)
}
