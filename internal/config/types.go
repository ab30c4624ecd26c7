package config

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/dish/internal/errors"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// MinRefresh is the floor for the dashboard refresh interval. Anything
// faster just burns CPU repainting frames nobody can perceive.
const MinRefresh = 50 * time.Millisecond

// DefaultRefresh is the dashboard refresh cadence when nothing overrides it.
const DefaultRefresh = 100 * time.Millisecond

// Config represents the complete .dish.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Root is the directory to serve. Relative paths resolve against
	// the working directory at startup.
	Root string `yaml:"root" mapstructure:"root"`

	// Host is the address to bind. Use 0.0.0.0 to share on the LAN.
	Host string `yaml:"host" mapstructure:"host"`

	// Port is the TCP port to bind. 0 picks a free port.
	Port int `yaml:"port" mapstructure:"port"`

	// Refresh is the dashboard refresh cadence.
	Refresh time.Duration `yaml:"refresh" mapstructure:"refresh"`

	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// LogConfig controls where diagnostic output goes.
type LogConfig struct {
	// File receives log lines while the dashboard owns the terminal.
	// Empty means logging is discarded during TUI sessions.
	File string `yaml:"file" mapstructure:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Root:    ".",
		Host:    "127.0.0.1",
		Port:    8080,
		Refresh: DefaultRefresh,
	}
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but dish only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest dish: https://github.com/rileyhilliard/dish/releases")
	}

	if cfg.Root == "" {
		return errors.New(errors.ErrConfig,
			"No directory to serve",
			"Set 'root' in .dish.yaml or pass a directory argument")
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Port %d is not a valid TCP port", cfg.Port),
			"Pick a port between 0 and 65535 (0 lets the OS choose)")
	}

	if cfg.Refresh != 0 && cfg.Refresh < MinRefresh {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval %s is too fast", cfg.Refresh),
			fmt.Sprintf("Use %s or slower", MinRefresh))
	}

	return nil
}
