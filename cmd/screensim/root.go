// =============================================================================
// root.go - Command Tree and Shared Settings
// =============================================================================
//
// The root command owns the flags every subcommand shares and the viper
// instance they are bound to. Subcommands register themselves in init(), the
// same way each file contributes one command.
//
// Settings resolve in this order, highest first:
//   - command-line flags that were set explicitly
//   - SCREENSIM_* environment variables
//   - the TOML config file ($SCREENSIM_CONFIG or ~/.config/screensim/config.toml)
//   - built-in defaults
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lifeboatapi/screensim/internal/config"
)

// settings collects flag bindings for config.Load.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Virtual screen simulator for a debugger peer",
	Long: `screensim simulates the screens of a debugger target.

It dials the debugger over tcp, unix, ws or wss, applies the RECT, CIRCLE,
LINE, TEXT, TEXTBOX, TRIANGLE, COLOUR and CLEAR commands it receives to a set
of virtual screens, and reports SCREENSIZE, SCREENPOWER and TOUCH changes
back, with an ALIVE heartbeat.

Examples:
  screensim run
  screensim run --endpoint ws://127.0.0.1:9000/screens --screens 2
  screensim replay --db session.db --list`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("endpoint", config.DefaultEndpoint, "Debugger endpoint (tcp://, unix://, ws://, wss:// or host:port)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")

	bindFlag(config.KeyEndpoint, rootCmd, "endpoint")
	bindFlag(config.KeyLogLevel, rootCmd, "log-level")
	bindFlag(config.KeyLogFormat, rootCmd, "log-format")
}

// bindFlag ties a flag of cmd to a settings key. A missing flag is a
// programming error.
func bindFlag(key string, cmd *cobra.Command, name string) {
	flag := cmd.PersistentFlags().Lookup(name)
	if flag == nil {
		flag = cmd.Flags().Lookup(name)
	}
	if err := settings.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind --%s to %s: %v", name, key, err))
	}
}

// execute runs the command tree and returns the process exit code.
func execute() int {
	if err := rootCmd.Execute(); err != nil {
		printError(err.Error())
		return 1
	}
	return 0
}

// loadSettings resolves and validates the configuration and builds the
// logger, which writes to stderr.
func loadSettings(stderr io.Writer) (config.Config, *slog.Logger, error) {
	c, err := config.Load(settings)
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := c.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, c.Logger(stderr), nil
}

// printError writes an error message to stderr in the CLI's format.
func printError(msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
}
