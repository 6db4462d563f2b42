package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/francoishill/grunt-process-includes/internal/domain"
)

// EnvPrefix prefixes every environment variable (PROCESSINCLUDES_*)
const EnvPrefix = "PROCESSINCLUDES"

// Loader loads configuration from a file, the environment and defaults
type Loader struct {
	v  *viper.Viper
	fs afero.Fs
}

// NewLoader creates a loader over v (nil means a fresh instance) reading
// files through fs (nil means the OS filesystem)
func NewLoader(v *viper.Viper, fs afero.Fs) *Loader {
	if v == nil {
		v = viper.New()
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	v.SetFs(fs)
	return &Loader{v: v, fs: fs}
}

// Load reads configFile, or looks for processincludes.{yaml,yml,json} in
// the working directory and ConfigDir when configFile is empty
func (l *Loader) Load(configFile string) (*Config, error) {
	v := l.v

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}

	// A missing file is only an error when it was named explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, domain.NewConfigurationError("config", "cannot read config file", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, domain.NewConfigurationError("config", "cannot decode configuration", err)
	}

	ov := &overlay{present: map[string]bool{}}
	if used := v.ConfigFileUsed(); used != "" {
		if err := l.readOverlay(used, ov); err != nil {
			return nil, err
		}
	}

	cfg.Expand.JSSections = l.sections(KeyJSSections, ov.Expand.JSSections, ov)
	cfg.Expand.CSSSections = l.sections(KeyCSSSections, ov.Expand.CSSSections, ov)
	cfg.Expand.JSPlaceholders = l.placeholders(KeyJSPlaceholders, ov.Expand.JSPlaceholders, ov)
	cfg.Expand.CSSPlaceholders = l.placeholders(KeyCSSPlaceholders, ov.Expand.CSSPlaceholders, ov)

	for _, key := range trackedKeys() {
		if ov.present[key] || v.IsSet(key) {
			cfg.Provide(key)
		}
	}

	return cfg, nil
}

// overlay holds the values viper cannot represent faithfully: key order of
// placeholder maps, null section lists and keys present with a null value
type overlay struct {
	Expand struct {
		JSSections      sectionList           `json:"js_sections" yaml:"js_sections"`
		CSSSections     sectionList           `json:"css_sections" yaml:"css_sections"`
		JSPlaceholders  domain.PlaceholderMap `json:"js_placeholders" yaml:"js_placeholders"`
		CSSPlaceholders domain.PlaceholderMap `json:"css_placeholders" yaml:"css_placeholders"`
	} `json:"expand" yaml:"expand"`

	present map[string]bool
}

func (l *Loader) readOverlay(path string, ov *overlay) error {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return domain.NewConfigurationError("config", "cannot read config file", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return domain.NewConfigurationError("config", "invalid JSON", err)
		}
		collectJSONKeys(raw, "", ov.present)
		if err := json.Unmarshal(data, ov); err != nil {
			return domain.NewConfigurationError("config", "invalid JSON", err)
		}
		return nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return domain.NewConfigurationError("config", "invalid YAML", err)
	}
	if len(root.Content) == 0 {
		return nil
	}
	collectYAMLKeys(root.Content[0], "", ov.present)
	if err := root.Content[0].Decode(ov); err != nil {
		return domain.NewConfigurationError("config", "invalid YAML", err)
	}
	return nil
}

func (l *Loader) sections(key string, fromFile sectionList, ov *overlay) []string {
	if ov.present[key] {
		return fromFile
	}
	if l.v.IsSet(key) {
		return sectionsFromValue(l.v.Get(key))
	}
	return nil
}

func (l *Loader) placeholders(key string, fromFile domain.PlaceholderMap, ov *overlay) domain.PlaceholderMap {
	if ov.present[key] {
		return fromFile
	}
	if !l.v.IsSet(key) {
		return nil
	}
	// Without a file there is no authored order; sort for determinism
	m := l.v.GetStringMapString(key)
	patterns := make([]string, 0, len(m))
	for p := range m {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	out := make(domain.PlaceholderMap, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, domain.Placeholder{Pattern: p, Replacement: m[p]})
	}
	return out
}

func collectJSONKeys(m map[string]any, prefix string, into map[string]bool) {
	for k, val := range m {
		key := prefix + strings.ToLower(k)
		into[key] = true
		if child, ok := val.(map[string]any); ok {
			collectJSONKeys(child, key+".", into)
		}
	}
}

func collectYAMLKeys(node *yaml.Node, prefix string, into map[string]bool) {
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := prefix + strings.ToLower(node.Content[i].Value)
		into[key] = true
		collectYAMLKeys(node.Content[i+1], key+".", into)
	}
}

// setDefaults sets default values in viper. Required task keys have no
// default so that their absence can be detected.
func setDefaults(v *viper.Viper) {
	// Report defaults
	v.SetDefault(KeyReportGzip, DefaultReportGzip)

	// Cache defaults
	v.SetDefault(KeyCacheEnabled, DefaultCacheEnabled)
	v.SetDefault(KeyCacheTTL, DefaultCacheTTL)
	v.SetDefault(KeyCacheDirectory, CacheDir())

	// Clone state defaults
	v.SetDefault(KeyStateEnabled, DefaultStateEnabled)
	v.SetDefault(KeyStateFile, DefaultStateFile)

	// Logging defaults
	v.SetDefault(KeyLoggingLevel, DefaultLogLevel)
	v.SetDefault(KeyLoggingFormat, DefaultLogFormat)

	v.SetDefault(KeyProgress, false)
}

// String renders a short summary for debug logs
func (c *Config) String() string {
	return fmt.Sprintf("task=%s expanded_manifest=%s html.output=%s report.output=%s",
		c.Task, c.ExpandedManifest, c.HTML.Output, c.Report.Output)
}
