// Package config loads dayscore configuration from an optional YAML file
// with DAYSCORE_-prefixed environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces environment overrides, e.g. DAYSCORE_ADDR.
const envPrefix = "DAYSCORE_"

// Config holds process configuration for the CLI and the server.
type Config struct {
	// Addr is the HTTP listen address of the scoring server.
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CacheDir is where the label cache persists. Empty disables it.
	CacheDir string `koanf:"cache_dir"`

	// GeminiAPIKey enables the classification oracle when set.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel overrides the oracle model.
	GeminiModel string `koanf:"gemini_model"`

	// Goals is the goals context handed to the oracle.
	Goals string `koanf:"goals"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Addr:     ":8080",
		LogLevel: "info",
	}
}

// Load builds a Config from defaults, then the YAML file at path (if any),
// then DAYSCORE_ environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}
