package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of config.yaml files.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new configuration loader.
// The logger is optional (can be nil).
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger: logger,
	}
}

// LoadFromFile loads configuration from a YAML file.
// If the file doesn't exist, returns default configuration with no error.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Debug("config file not found, using defaults", zap.String("path", path))
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := l.LoadFromBytes(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.logger.Debug("loaded config file", zap.String("path", path))
	return cfg, nil
}

// LoadFromBytes parses YAML content on top of the defaults.
func (l *Loader) LoadFromBytes(content []byte) (*Config, error) {
	cfg := DefaultConfig()

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
