// Package config provides configuration loading and validation for ChatSift.
package config

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Cache  CacheConfig  `yaml:"cache,omitempty"`
	Media  MediaConfig  `yaml:"media,omitempty"`
	Output OutputConfig `yaml:"output,omitempty"`
}

// CacheConfig bounds the media display-handle cache.
type CacheConfig struct {
	// Capacity is the maximum number of concurrently live display handles.
	Capacity int `yaml:"capacity,omitempty"`

	// MissingAlertThreshold is the distinct missing-media lookup count at
	// which the one-time exhaustion alert fires.
	MissingAlertThreshold int `yaml:"missing_alert_threshold,omitempty"`
}

// MediaConfig tunes media recognition in transcript bodies.
type MediaConfig struct {
	// OmittedPhrases appends extra omitted-media phrases to the built-in
	// English set, for localized exports. Matching is case-insensitive.
	OmittedPhrases []string `yaml:"omitted_phrases,omitempty"`
}

// OutputConfig sets report defaults.
type OutputConfig struct {
	// Format is the default report format (text or json).
	Format string `yaml:"format,omitempty"`
}
