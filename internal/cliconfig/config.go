package cliconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds CLI configuration for the egnyte command.
type Config struct {
	Domain  string
	Token   string
	BaseURL string

	HTTPTimeout   time.Duration
	WatchDebounce time.Duration

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		HTTPTimeout:   30 * time.Second,
		WatchDebounce: 500 * time.Millisecond,
		LogLevel:      "info",
	}
}

// Validate checks the configuration for errors and normalizes values.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	if c.Domain == "" && c.BaseURL == "" {
		return fmt.Errorf("domain is required (or base-url)")
	}

	// Accept "acme.egnyte.com" as well as "acme".
	c.Domain = strings.TrimSuffix(c.Domain, ".egnyte.com")
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// configSetter applies configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
