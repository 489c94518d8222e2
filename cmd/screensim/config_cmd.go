package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lifeboatapi/screensim/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
	Long: `Inspect the effective configuration.

Subcommands:
  show  - Print the resolved settings as a TOML config file
  path  - Print the config file location that is read

Examples:
  screensim config show > ~/.config/screensim/config.toml
  SCREENSIM_TICK_RATE=30 screensim config show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved settings as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := loadSettings(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return config.Write(cmd.OutOrStdout(), c)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), configPath())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", fullTitle(), copyright)
	},
}

func init() {
	rootCmd.AddCommand(configCmd, versionCmd)
	configCmd.AddCommand(configShowCmd, configPathCmd)
}

// configPath mirrors the lookup in config.Load.
func configPath() string {
	if path := os.Getenv(config.EnvPrefix + "_CONFIG"); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "(no user config directory)"
	}
	return filepath.Join(dir, "screensim", "config.toml")
}
