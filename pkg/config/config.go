package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file. An empty path yields the
// defaults with environment overrides applied.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if cfg.Cache.Capacity < 1 {
		return fmt.Errorf("cache.capacity: must be >= 1, got %d", cfg.Cache.Capacity)
	}

	if cfg.Cache.MissingAlertThreshold < 1 {
		return fmt.Errorf("cache.missing_alert_threshold: must be >= 1, got %d", cfg.Cache.MissingAlertThreshold)
	}

	for i, phrase := range cfg.Media.OmittedPhrases {
		if strings.TrimSpace(phrase) == "" {
			return fmt.Errorf("media.omitted_phrases[%d]: blank phrase", i)
		}
	}

	switch cfg.Output.Format {
	case "text", "json":
	case "":
		return errors.New("output.format: is required")
	default:
		return fmt.Errorf("output.format: invalid format %q (must be text or json)", cfg.Output.Format)
	}

	return nil
}
