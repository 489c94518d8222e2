// Package config loads simulator settings from defaults, a TOML file,
// SCREENSIM_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/lifeboatapi/screensim/internal/screen"
	"github.com/lifeboatapi/screensim/simprotocol"
)

// EnvPrefix prefixes every environment override, e.g. SCREENSIM_TICK_RATE.
const EnvPrefix = "SCREENSIM"

// Keys shared with command-line flag bindings.
const (
	KeyEndpoint          = "endpoint"
	KeyTickRate          = "tick_rate"
	KeyHeartbeatInterval = "heartbeat_interval"
	KeyMaxScreens        = "max_screens"
	KeyScreenWidth       = "screen.width"
	KeyScreenHeight      = "screen.height"
	KeyScreenScale       = "screen.scale"
	KeyScreens           = "screens"
	KeyRecord            = "record"
	KeyLockDir           = "lock_dir"
	KeyLogLevel          = "log_level"
	KeyLogFormat         = "log_format"
)

// DefaultEndpoint is where the debugger listens unless configured otherwise.
const DefaultEndpoint = "tcp://127.0.0.1:7777"

// Config holds simulator configuration.
type Config struct {
	Endpoint          string        `mapstructure:"endpoint"`
	TickRate          int           `mapstructure:"tick_rate"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	MaxScreens        int           `mapstructure:"max_screens"`
	Screen            ScreenConfig  `mapstructure:"screen"`
	Screens           int           `mapstructure:"screens"`
	Record            string        `mapstructure:"record"`
	LockDir           string        `mapstructure:"lock_dir"`
	LogLevel          string        `mapstructure:"log_level"`
	LogFormat         string        `mapstructure:"log_format"`
}

// ScreenConfig holds the settings of newly created screens.
type ScreenConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	Scale  int `mapstructure:"scale"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEndpoint, DefaultEndpoint)
	v.SetDefault(KeyTickRate, simprotocol.DefaultTickRate)
	v.SetDefault(KeyHeartbeatInterval, simprotocol.DefaultHeartbeatInterval)
	v.SetDefault(KeyMaxScreens, screen.DefaultMaxScreens)
	v.SetDefault(KeyScreenWidth, screen.DefaultWidth)
	v.SetDefault(KeyScreenHeight, screen.DefaultHeight)
	v.SetDefault(KeyScreenScale, screen.DefaultScale)
	v.SetDefault(KeyScreens, 1)
	v.SetDefault(KeyRecord, "")
	v.SetDefault(KeyLockDir, filepath.Join(os.TempDir(), "screensim"))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

// Load reads configuration into v and decodes it. The config file is
// $SCREENSIM_CONFIG if set, else config.toml under the user config
// directory; a missing file is not an error. Flags bound to v before Load
// take precedence over everything else.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.SetConfigType("toml")

	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "screensim"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	if _, err := simprotocol.ParseEndpoint(c.Endpoint); err != nil {
		return fmt.Errorf("%s: %w", KeyEndpoint, err)
	}
	positive := []struct {
		key   string
		value int
	}{
		{KeyTickRate, c.TickRate},
		{KeyMaxScreens, c.MaxScreens},
		{KeyScreenWidth, c.Screen.Width},
		{KeyScreenHeight, c.Screen.Height},
		{KeyScreenScale, c.Screen.Scale},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.key, p.value)
		}
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyHeartbeatInterval, c.HeartbeatInterval)
	}
	if c.Screens < 0 || c.Screens > c.MaxScreens {
		return fmt.Errorf("%s must be between 0 and %d, got %d", KeyScreens, c.MaxScreens, c.Screens)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%s must be text or json, got %q", KeyLogFormat, c.LogFormat)
	}
	return nil
}

// ScreenOptions returns the registry options for this configuration.
func (c Config) ScreenOptions() screen.Options {
	return screen.Options{
		MaxScreens: c.MaxScreens,
		Width:      c.Screen.Width,
		Height:     c.Screen.Height,
		Scale:      c.Screen.Scale,
	}
}

// Logger builds the process logger writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	return level, nil
}

// fileView is the TOML layout of a config file.
type fileView struct {
	Endpoint          string     `toml:"endpoint"`
	TickRate          int        `toml:"tick_rate"`
	HeartbeatInterval string     `toml:"heartbeat_interval"`
	MaxScreens        int        `toml:"max_screens"`
	Screens           int        `toml:"screens"`
	Record            string     `toml:"record"`
	LockDir           string     `toml:"lock_dir"`
	LogLevel          string     `toml:"log_level"`
	LogFormat         string     `toml:"log_format"`
	Screen            screenView `toml:"screen"`
}

type screenView struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	Scale  int `toml:"scale"`
}

// Write encodes c as a TOML config file that Load accepts.
func Write(w io.Writer, c Config) error {
	view := fileView{
		Endpoint:          c.Endpoint,
		TickRate:          c.TickRate,
		HeartbeatInterval: c.HeartbeatInterval.String(),
		MaxScreens:        c.MaxScreens,
		Screens:           c.Screens,
		Record:            c.Record,
		LockDir:           c.LockDir,
		LogLevel:          c.LogLevel,
		LogFormat:         c.LogFormat,
		Screen: screenView{
			Width:  c.Screen.Width,
			Height: c.Screen.Height,
			Scale:  c.Screen.Scale,
		},
	}
	return toml.NewEncoder(w).Encode(view)
}
