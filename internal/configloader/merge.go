package configloader

import (
	"fmt"
	"maps"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdfmt/pkg/config"
)

// overlay decodes data over cfg. Keys present in data replace the current
// values, so an explicit false or zero in a later file wins over an earlier
// layer. The rules and formatters tables merge per entry.
func overlay(cfg *config.Config, path string, data []byte) error {
	rules, formatters := cfg.Rules, cfg.Formatters
	cfg.Rules, cfg.Formatters = nil, nil

	var err error
	if IsTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}

	cfg.Rules = mergeRules(rules, cfg.Rules)
	cfg.Formatters = mergeFormatters(formatters, cfg.Formatters)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// mergeRules combines rule tables; entries in override merge field by field
// into base.
func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	result := make(map[string]config.RuleConfig, len(base)+len(override))
	maps.Copy(result, base)
	for key, val := range override {
		if existing, ok := result[key]; ok {
			result[key] = mergeRuleConfig(existing, val)
		} else {
			result[key] = val
		}
	}
	return result
}

func mergeRuleConfig(base, override config.RuleConfig) config.RuleConfig {
	result := base
	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}
	if override.Severity != nil {
		result.Severity = override.Severity
	}
	if override.AutoFix != nil {
		result.AutoFix = override.AutoFix
	}
	if override.Options != nil {
		merged := make(map[string]any, len(base.Options)+len(override.Options))
		maps.Copy(merged, base.Options)
		maps.Copy(merged, override.Options)
		result.Options = merged
	}
	return result
}

// mergeFormatters combines formatter tables. A language defined again
// replaces the earlier definition, except that a definition without a
// command only toggles the earlier one.
func mergeFormatters(base, override map[string]config.FormatterConfig) map[string]config.FormatterConfig {
	result := make(map[string]config.FormatterConfig, len(base)+len(override))
	maps.Copy(result, base)
	for lang, f := range override {
		if existing, ok := result[lang]; ok && f.Cmd == "" {
			if f.Enabled != nil {
				existing.Enabled = f.Enabled
			}
			if f.Stdin != nil {
				existing.Stdin = f.Stdin
			}
			if f.TimeoutSeconds != 0 {
				existing.TimeoutSeconds = f.TimeoutSeconds
			}
			f = existing
		}
		result[lang] = f
	}
	return result
}
