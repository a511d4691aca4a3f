package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"uct/searcher"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the recognized engine options.
type Config struct {
	Time        float64 `mapstructure:"time"`        // Search budget in seconds
	MaxActions  int     `mapstructure:"max_actions"` // Depth cap of a playout
	C           float64 `mapstructure:"c"`           // Exploration constant
	Strategy    string  `mapstructure:"strategy"`
	Simulations int     `mapstructure:"simulations"` // Replaces Time when positive
	Seed        uint64  `mapstructure:"seed"`        // Random when zero
	LogLevel    string  `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("time", searcher.DefaultDuration.Seconds())
	v.SetDefault("max_actions", searcher.DefaultMaxActions)
	v.SetDefault("c", searcher.DefaultC)
	v.SetDefault("strategy", searcher.WinRate.String())
	v.SetDefault("simulations", 0)
	v.SetDefault("seed", 0)
	v.SetDefault("log_level", zerolog.InfoLevel.String())
}

// Load reads the config file at path (skipped when empty), then UCT_
// environment variables, then overrides, each taking precedence over the
// previous source.
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("uct")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range overrides {
		v.Set(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Simulations < 0 {
		return fmt.Errorf("%w: simulations must not be negative, got %d", ErrInvalidConfig, c.Simulations)
	}
	if c.Simulations == 0 && c.Time <= 0 {
		return fmt.Errorf("%w: time must be positive, got %g", ErrInvalidConfig, c.Time)
	}
	if c.MaxActions < 1 {
		return fmt.Errorf("%w: max_actions must be at least 1, got %d", ErrInvalidConfig, c.MaxActions)
	}
	if c.C < 0 {
		return fmt.Errorf("%w: C must not be negative, got %g", ErrInvalidConfig, c.C)
	}
	if _, err := searcher.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) Duration() time.Duration {
	return time.Duration(c.Time * float64(time.Second))
}

// Options converts the config into searcher options. It assumes c is valid.
func (c *Config) Options() []searcher.Option {
	strategy, _ := searcher.ParseStrategy(c.Strategy)
	options := []searcher.Option{
		searcher.WithDuration(c.Duration()),
		searcher.WithMaxActions(c.MaxActions),
		searcher.WithExploration(c.C),
		searcher.WithStrategy(strategy),
	}
	if c.Simulations > 0 {
		options = append(options, searcher.WithSimulations(c.Simulations))
	}
	if c.Seed != 0 {
		options = append(options, searcher.WithSeed(c.Seed))
	}
	return options
}

func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
