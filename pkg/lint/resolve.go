package lint

import "github.com/yaklabco/mdfmt/pkg/config"

// ResolvedRule pairs a rule with its effective configuration.
type ResolvedRule struct {
	Rule     Rule
	Enabled  bool
	Severity config.Severity
	AutoFix  bool
	Config   *config.RuleConfig
}

// ResolveRules returns the enabled rules of registry under cfg.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var resolved []ResolvedRule
	for _, rule := range registry.Rules() {
		if rr := resolveRule(rule, cfg); rr.Enabled {
			resolved = append(resolved, rr)
		}
	}
	return resolved
}

func resolveRule(rule Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
		AutoFix:  rule.CanFix(),
	}
	if cfg == nil {
		rr.AutoFix = false
		return rr
	}

	// Configuration may name a rule by ID or by name; the ID wins.
	rc, ok := cfg.Rules[rule.ID()]
	if !ok {
		rc, ok = cfg.Rules[rule.Name()]
	}
	if ok {
		rr.Config = &rc
		if rc.Enabled != nil {
			rr.Enabled = *rc.Enabled
		}
		if rc.Severity != nil {
			rr.Severity = config.Severity(*rc.Severity)
		}
		if rc.AutoFix != nil {
			rr.AutoFix = *rc.AutoFix && rule.CanFix()
		}
	}
	if !cfg.Fix {
		rr.AutoFix = false
	}
	return rr
}
