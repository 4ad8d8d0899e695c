package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the arena
type Config struct {
	Arena      ArenaConfig      `mapstructure:"arena"`
	Players    PlayersConfig    `mapstructure:"players"`
	Game       GameConfig       `mapstructure:"game"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Transcript TranscriptConfig `mapstructure:"transcript"`
	Progress   ProgressConfig   `mapstructure:"progress"`
}

// ArenaConfig holds tournament settings
type ArenaConfig struct {
	Episodes            int    `mapstructure:"episodes"`
	Iteration           int    `mapstructure:"iteration"`
	MaxTurns            int    `mapstructure:"max_turns"`
	IllegalActionPolicy string `mapstructure:"illegal_action_policy"`
}

// PlayersConfig holds the player descriptions, e.g. "minimax:depth=9"
type PlayersConfig struct {
	One string `mapstructure:"one"`
	Two string `mapstructure:"two"`
}

// GameConfig selects the game and its parameters
type GameConfig struct {
	Name string    `mapstructure:"name"`
	Nim  NimConfig `mapstructure:"nim"`
}

// NimConfig holds nim settings
type NimConfig struct {
	Stones  int `mapstructure:"stones"`
	MaxTake int `mapstructure:"max_take"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Verbose bool   `mapstructure:"verbose"`
	// Events limits the event log to these types, empty logs all
	Events []string `mapstructure:"events"`
}

// TranscriptConfig holds game history settings
type TranscriptConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Format  string `mapstructure:"format"`
}

// ProgressConfig holds progress bar settings
type ProgressConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Width   int  `mapstructure:"width"`
}

// Supported game names
const (
	GameTicTacToe = "tictactoe"
	GameNim       = "nim"
)

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("arena.episodes", 20)
	v.SetDefault("arena.iteration", 0)
	v.SetDefault("arena.max_turns", 0)
	v.SetDefault("arena.illegal_action_policy", "strict")

	v.SetDefault("players.one", "minimax:depth=9")
	v.SetDefault("players.two", "random:seed=1")

	v.SetDefault("game.name", GameTicTacToe)
	v.SetDefault("game.nim.stones", 21)
	v.SetDefault("game.nim.max_take", 3)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.verbose", false)
	v.SetDefault("logging.events", []string{})

	v.SetDefault("transcript.enabled", false)
	v.SetDefault("transcript.path", "logs/game_history.txt")
	v.SetDefault("transcript.format", "text")

	v.SetDefault("progress.enabled", true)
	v.SetDefault("progress.width", 30)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("arena")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/arena")
	}

	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file falls back to defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage, such as flag binding
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// Reload re-reads the struct from viper, after flags were bound for example
func Reload() error {
	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(next); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	cfg = next
	return nil
}

// Set allows runtime config updates. A value that fails validation is
// rolled back and the current config stays in place.
func Set(key string, value interface{}) error {
	prev := v.Get(key)
	v.Set(key, value)
	if err := Reload(); err != nil {
		v.Set(key, prev)
		return err
	}
	return nil
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. Invalid edits are
// reported to onChange and leave the current config in place.
func WatchConfig(onChange func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		err := Reload()
		if onChange != nil {
			onChange(err)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Arena.Episodes < 0 {
		return fmt.Errorf("arena.episodes must be non-negative")
	}
	if c.Arena.Iteration < 0 {
		return fmt.Errorf("arena.iteration must be non-negative")
	}
	if c.Arena.MaxTurns < 0 {
		return fmt.Errorf("arena.max_turns must be non-negative")
	}
	switch c.Arena.IllegalActionPolicy {
	case "strict", "lenient":
	default:
		return fmt.Errorf("arena.illegal_action_policy must be strict or lenient, got %q", c.Arena.IllegalActionPolicy)
	}

	if c.Players.One == "" || c.Players.Two == "" {
		return fmt.Errorf("players.one and players.two must be set")
	}

	switch c.Game.Name {
	case GameTicTacToe:
	case GameNim:
		if c.Game.Nim.Stones <= 0 {
			return fmt.Errorf("game.nim.stones must be positive")
		}
		if c.Game.Nim.MaxTake <= 0 {
			return fmt.Errorf("game.nim.max_take must be positive")
		}
	default:
		return fmt.Errorf("game.name must be %s or %s, got %q", GameTicTacToe, GameNim, c.Game.Name)
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	if c.Transcript.Enabled && c.Transcript.Path == "" {
		return fmt.Errorf("transcript.path must be set when transcript is enabled")
	}
	switch c.Transcript.Format {
	case "text", "jsonl":
	default:
		return fmt.Errorf("transcript.format must be text or jsonl, got %q", c.Transcript.Format)
	}

	if c.Progress.Width <= 0 {
		return fmt.Errorf("progress.width must be positive")
	}

	return nil
}
