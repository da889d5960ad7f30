package lint

import "github.com/yaklabco/mdfmt/pkg/config"

// BaseRule implements the metadata half of Rule. Embed it and provide Apply.
type BaseRule struct {
	id      string
	name    string
	desc    string
	fixable bool
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(id, name, desc string, fixable bool) BaseRule {
	return BaseRule{id: id, name: name, desc: desc, fixable: fixable}
}

// ID returns the rule identifier.
func (r *BaseRule) ID() string { return r.id }

// Name returns the rule name.
func (r *BaseRule) Name() string { return r.name }

// Description returns what the rule checks.
func (r *BaseRule) Description() string { return r.desc }

// DefaultEnabled returns true; override to make a rule opt-in.
func (r *BaseRule) DefaultEnabled() bool { return true }

// DefaultSeverity returns warning.
func (r *BaseRule) DefaultSeverity() config.Severity { return config.SeverityWarning }

// CanFix reports whether the rule proposes edits.
func (r *BaseRule) CanFix() bool { return r.fixable }
