// Package config provides configuration management for the tinysh loop.
// It handles loading the YAML config file and validating its values.
package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ArgvMode selects how an input line becomes an argument vector.
type ArgvMode string

const (
	// ArgvLiteral treats the whole line as the executable path.
	ArgvLiteral ArgvMode = "literal"

	// ArgvFields splits the line into shell words; the first word is the path.
	ArgvFields ArgvMode = "fields"
)

// DefaultPrompt is written before every read.
const DefaultPrompt = "# "

// Config holds all loop configuration.
type Config struct {
	// Prompt is written to stdout before each read.
	Prompt string `yaml:"prompt"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// History enables recording launched commands in the history database.
	History bool `yaml:"history"`

	// Argv is "literal" or "fields".
	Argv ArgvMode `yaml:"argv"`

	// Env is the complete environment handed to every child, as KEY=VALUE.
	Env []string `yaml:"env"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Prompt:   DefaultPrompt,
		LogLevel: "info",
		History:  true,
		Argv:     ArgvLiteral,
	}
}

// Validate reports the first invalid value.
func (c *Config) Validate() error {
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	switch c.Argv {
	case ArgvLiteral, ArgvFields:
	default:
		return fmt.Errorf("invalid argv mode %q: must be %q or %q", c.Argv, ArgvLiteral, ArgvFields)
	}

	for _, entry := range c.Env {
		if name, _, ok := strings.Cut(entry, "="); !ok || name == "" {
			return fmt.Errorf("invalid env entry %q: expected KEY=VALUE", entry)
		}
	}

	return nil
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() zap.AtomicLevel {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return level
}
