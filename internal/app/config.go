package app

import (
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // hcl files or directories; empty means built-in sample providers

	LogFormat   string
	LogLevel    string
	HTTPTimeout time.Duration

	NotifierURL       string // socket.io dashboard; empty disables it
	NotifierNamespace string
}

var (
	logLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	logFormats = map[string]bool{"text": true, "json": true}
)

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !logLevels[cfg.LogLevel] {
		return nil, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", cfg.LogLevel)
	}
	if !logFormats[cfg.LogFormat] {
		return nil, fmt.Errorf("unknown log format %q (want text or json)", cfg.LogFormat)
	}
	if cfg.HTTPTimeout < 0 {
		return nil, fmt.Errorf("http timeout must not be negative, got %s", cfg.HTTPTimeout)
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	return &cfg, nil
}
