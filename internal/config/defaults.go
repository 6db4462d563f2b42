package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Cache defaults
	DefaultCacheEnabled = false
	DefaultCacheTTL     = 7 * 24 * time.Hour

	// Clone state defaults
	DefaultStateEnabled = false
	DefaultStateFile    = ".processincludes-state.json"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// Report defaults
	DefaultReportGzip = false

	// ConfigName is the base name of the config file looked up in the
	// working directory and ConfigDir
	ConfigName = "processincludes"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".processincludes"
	}
	return filepath.Join(home, ".processincludes")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// Default returns the default configuration. No task keys are provided.
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			Gzip: DefaultReportGzip,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		State: StateConfig{
			Enabled: DefaultStateEnabled,
			File:    DefaultStateFile,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
