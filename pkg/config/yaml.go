package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToTOML serializes the configuration to TOML format.
func (c *Config) ToTOML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// FromYAML parses a configuration from YAML bytes. Fields absent from data keep
// their zero value; callers merge the result over defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.initMaps()
	return cfg, nil
}

// FromTOML parses a configuration from TOML bytes.
func FromTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	cfg.initMaps()
	return cfg, nil
}

// Decode parses data as TOML or YAML according to the extension of path.
func Decode(path string, data []byte) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FromTOML(data)
	}
	return FromYAML(data)
}

func (c *Config) initMaps() {
	if c.Rules == nil {
		c.Rules = make(map[string]RuleConfig)
	}
	if c.Formatters == nil {
		c.Formatters = make(map[string]FormatterConfig)
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c

	if c.ExtensionOverrides != nil {
		clone.ExtensionOverrides = maps.Clone(c.ExtensionOverrides)
	}
	if c.Ignore != nil {
		clone.Ignore = append([]string(nil), c.Ignore...)
	}
	if c.Formatters != nil {
		clone.Formatters = make(map[string]FormatterConfig, len(c.Formatters))
		for lang, f := range c.Formatters {
			clone.Formatters[lang] = f.clone()
		}
	}
	if c.Rules != nil {
		clone.Rules = make(map[string]RuleConfig, len(c.Rules))
		for id, rc := range c.Rules {
			clone.Rules[id] = rc.clone()
		}
	}

	return &clone
}

// Fingerprint returns a stable hash of everything that influences formatting
// output. Two configs with equal fingerprints format any input identically.
func (c *Config) Fingerprint() string {
	data, err := c.ToYAML()
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", *c))
	}
	sum := sha256.Sum256(append(data, fmt.Sprintf("%+v", c.Ext)...))
	return hex.EncodeToString(sum[:])
}

func (f FormatterConfig) clone() FormatterConfig {
	clone := f
	if f.Args != nil {
		clone.Args = append([]string(nil), f.Args...)
	}
	if f.Enabled != nil {
		enabled := *f.Enabled
		clone.Enabled = &enabled
	}
	if f.Stdin != nil {
		stdin := *f.Stdin
		clone.Stdin = &stdin
	}
	return clone
}

func (rc RuleConfig) clone() RuleConfig {
	clone := RuleConfig{}

	if rc.Enabled != nil {
		enabled := *rc.Enabled
		clone.Enabled = &enabled
	}

	if rc.Severity != nil {
		severity := *rc.Severity
		clone.Severity = &severity
	}

	if rc.AutoFix != nil {
		autoFix := *rc.AutoFix
		clone.AutoFix = &autoFix
	}

	if rc.Options != nil {
		clone.Options = maps.Clone(rc.Options) // nested values are shared
	}

	return clone
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
