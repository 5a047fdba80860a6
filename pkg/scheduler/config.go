// Package scheduler allocates outstanding study tasks into the free time of a
// week. It is a pure computation: no I/O, no logging, no shared state.
package scheduler

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when an Engine is built from a bad Config.
var ErrInvalidConfig = errors.New("invalid scheduler config")

// Config controls slot calculation and chunking. All values are minutes.
type Config struct {
	BufferMinutes     int `json:"buffer_minutes" toml:"buffer_minutes"`
	MinSessionMinutes int `json:"min_session_minutes" toml:"min_session_minutes"`
	MaxSessionMinutes int `json:"max_session_minutes" toml:"max_session_minutes"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BufferMinutes:     15,
		MinSessionMinutes: 30,
		MaxSessionMinutes: 120,
	}
}

// Validate checks the config for values the engine cannot work with.
func (c Config) Validate() error {
	switch {
	case c.BufferMinutes < 0:
		return fmt.Errorf("%w: buffer must not be negative, got %d", ErrInvalidConfig, c.BufferMinutes)
	case c.MinSessionMinutes <= 0:
		return fmt.Errorf("%w: minimum session length must be positive, got %d", ErrInvalidConfig, c.MinSessionMinutes)
	case c.MaxSessionMinutes < c.MinSessionMinutes:
		return fmt.Errorf("%w: maximum session length %d is below minimum %d", ErrInvalidConfig, c.MaxSessionMinutes, c.MinSessionMinutes)
	}
	return nil
}
