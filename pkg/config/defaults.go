package config

import (
	"os"
	"strconv"
)

// Default values for configuration.
const (
	DefaultCacheCapacity         = 50
	DefaultMissingAlertThreshold = 10000
	DefaultOutputFormat          = "text"
)

// Environment variable names.
const (
	EnvCacheCapacity         = "CHATSIFT_CACHE_CAPACITY"
	EnvMissingAlertThreshold = "CHATSIFT_MISSING_ALERT_THRESHOLD"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Capacity:              DefaultCacheCapacity,
			MissingAlertThreshold: DefaultMissingAlertThreshold,
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvCacheCapacity); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Cache.Capacity = n
		}
	}
	if v := os.Getenv(EnvMissingAlertThreshold); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Cache.MissingAlertThreshold = n
		}
	}
}
