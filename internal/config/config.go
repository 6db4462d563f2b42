package config

import (
	"fmt"
	"time"

	"github.com/francoishill/grunt-process-includes/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Task             string        `mapstructure:"task" yaml:"task"`
	Expand           ExpandConfig  `mapstructure:"expand" yaml:"expand"`
	ExpandedManifest string        `mapstructure:"expanded_manifest" yaml:"expanded_manifest"`
	HTML             HTMLConfig    `mapstructure:"html" yaml:"html"`
	Report           ReportConfig  `mapstructure:"report" yaml:"report"`
	Cache            CacheConfig   `mapstructure:"cache" yaml:"cache"`
	State            StateConfig   `mapstructure:"state" yaml:"state"`
	Logging          LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Progress         bool          `mapstructure:"progress" yaml:"progress"`

	// provided records which keys were supplied by any source
	provided map[string]bool
}

// ExpandConfig contains the inputs of the expand task
type ExpandConfig struct {
	JSManifests  []string `mapstructure:"js_manifests" yaml:"js_manifests"`
	CSSManifests []string `mapstructure:"css_manifests" yaml:"css_manifests"`

	// Section lists are nil when every section is included
	JSSections  []string `mapstructure:"-" yaml:"js_sections"`
	CSSSections []string `mapstructure:"-" yaml:"css_sections"`

	BaseCoffeeDir   string `mapstructure:"base_coffee_dir" yaml:"base_coffee_dir"`
	BaseScssDir     string `mapstructure:"base_scss_dir" yaml:"base_scss_dir"`
	ClonedCoffeeDir string `mapstructure:"cloned_coffee_dir" yaml:"cloned_coffee_dir"`
	ClonedScssDir   string `mapstructure:"cloned_scss_dir" yaml:"cloned_scss_dir"`
	CompiledJSDir   string `mapstructure:"compiled_js_dir" yaml:"compiled_js_dir"`
	CompiledCSSDir  string `mapstructure:"compiled_css_dir" yaml:"compiled_css_dir"`
	CombinedJSDir   string `mapstructure:"combined_js_dir" yaml:"combined_js_dir"`
	CombinedCSSDir  string `mapstructure:"combined_css_dir" yaml:"combined_css_dir"`
	MinifiedJSDir   string `mapstructure:"minified_js_dir" yaml:"minified_js_dir"`
	MinifiedCSSDir  string `mapstructure:"minified_css_dir" yaml:"minified_css_dir"`

	// Placeholders keep the order they were authored in
	JSPlaceholders  domain.PlaceholderMap `mapstructure:"-" yaml:"js_placeholders"`
	CSSPlaceholders domain.PlaceholderMap `mapstructure:"-" yaml:"css_placeholders"`

	Output string `mapstructure:"output" yaml:"output"`
}

// HTMLConfig contains include-file settings
type HTMLConfig struct {
	Output          string `mapstructure:"output" yaml:"output"`
	UseCombinedPath bool   `mapstructure:"use_combined_path" yaml:"use_combined_path"`
}

// ReportConfig contains size report settings
type ReportConfig struct {
	Output string `mapstructure:"output" yaml:"output"`
	Gzip   bool   `mapstructure:"gzip" yaml:"gzip"`
}

// CacheConfig contains fingerprint cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// StateConfig controls the clone state file. When enabled, clone skips
// sources whose content has not changed since the recorded copy.
type StateConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	File    string `mapstructure:"file" yaml:"file"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Provide marks keys as supplied, for configs built in code
func (c *Config) Provide(keys ...string) {
	if c.provided == nil {
		c.provided = make(map[string]bool, len(keys))
	}
	for _, k := range keys {
		c.provided[k] = true
	}
}

// IsProvided reports whether key was supplied by any source
func (c *Config) IsProvided(key string) bool {
	return c.provided[key]
}

// Validate normalizes values and checks the keys required by task. The
// first missing key is reported as a *domain.ConfigurationError.
func (c *Config) Validate(task Task) error {
	if c.Cache.TTL < 0 {
		c.Cache.TTL = 0
	}
	switch c.Logging.Format {
	case "", "pretty", "json":
	default:
		return domain.NewConfigurationError(KeyLoggingFormat,
			fmt.Sprintf("unsupported format %q (use pretty or json)", c.Logging.Format), nil)
	}

	for _, key := range RequiredKeys(task) {
		if !c.IsProvided(key) {
			return domain.NewMissingKeyError(key)
		}
	}
	return nil
}
