// Package config holds the environment configuration of the formstate CLI.
package config

import (
	"fmt"
	"strings"
)

// Config is read from FORMSTATE_* variables.
type Config struct {
	LogLevel    string `env:"FORMSTATE_LOG_LEVEL"    envDefault:"info"`
	LogFormat   string `env:"FORMSTATE_LOG_FORMAT"   envDefault:"text"`
	MaxAttempts int    `env:"FORMSTATE_MAX_ATTEMPTS" envDefault:"3"`
}

// Load parses the environment and checks the values.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalises case and rejects unknown levels, formats and
// non-positive attempt counts.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("config: max attempts must be positive, got %d", c.MaxAttempts)
	}
	return nil
}
