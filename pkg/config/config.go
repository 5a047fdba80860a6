package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/harrisonrobin/studyplan/pkg/scheduler"
	"github.com/pelletier/go-toml/v2"
)

const (
	AppName    = "studyplan"
	configFile = "config.toml"
)

// ErrInvalid is returned for unknown keys or unusable values.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	User          string           `toml:"user"`
	Calendar      string           `toml:"calendar"`
	BusyCalendars []string         `toml:"busy_calendars"`
	Timezone      string           `toml:"timezone"`
	LogLevel      string           `toml:"log_level"`
	Scheduler     scheduler.Config `toml:"scheduler"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		User:          "me",
		Calendar:      "Study",
		BusyCalendars: []string{"primary"},
		Timezone:      "UTC",
		LogLevel:      "info",
		Scheduler:     scheduler.DefaultConfig(),
	}
}

// Dir returns $XDG_CONFIG_HOME/studyplan, falling back to ~/.config/studyplan.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}

// Path returns the location of the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config file, returning defaults when it does not exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Keys missing from the file keep their
// default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to the default config path.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path, creating the directory if needed.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the timezone and scheduler settings.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := c.Scheduler.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Location resolves the configured IANA timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalid, c.Timezone, err)
	}
	return loc, nil
}

// Set assigns a single key given in dotted form, e.g. "scheduler.buffer_minutes".
func (c *Config) Set(key, value string) error {
	intValue := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number: %v", ErrInvalid, key, err)
		}
		return n, nil
	}

	switch key {
	case "user":
		c.User = value
	case "calendar":
		c.Calendar = value
	case "busy_calendars":
		c.BusyCalendars = nil
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				c.BusyCalendars = append(c.BusyCalendars, id)
			}
		}
	case "timezone":
		c.Timezone = value
	case "log_level":
		c.LogLevel = value
	case "scheduler.buffer_minutes":
		n, err := intValue()
		if err != nil {
			return err
		}
		c.Scheduler.BufferMinutes = n
	case "scheduler.min_session_minutes":
		n, err := intValue()
		if err != nil {
			return err
		}
		c.Scheduler.MinSessionMinutes = n
	case "scheduler.max_session_minutes":
		n, err := intValue()
		if err != nil {
			return err
		}
		c.Scheduler.MaxSessionMinutes = n
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalid, key)
	}
	return c.Validate()
}
