// Package lint runs rules over the syntax tree of a document and collects
// diagnostics, some of which carry edits that fix the problem.
package lint

import (
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/fix"
)

// Diagnostic is a single issue found in a document.
type Diagnostic struct {
	// RuleID is the identifier of the rule, such as "MDF001".
	RuleID string

	// RuleName is the human-readable name, such as "heading-hierarchy".
	RuleName string

	Message  string
	Severity config.Severity
	FilePath string

	// StartOffset and EndOffset delimit the offending bytes.
	StartOffset int
	EndOffset   int

	// Lines and columns are 1-based; columns count bytes.
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int

	// Suggestion optionally describes the fix in words.
	Suggestion string

	// FixEdits fix the issue when applied together.
	FixEdits []fix.TextEdit
}

// HasFix reports whether the diagnostic carries edits.
func (d *Diagnostic) HasFix() bool {
	return len(d.FixEdits) > 0
}

// Rule checks a document for one kind of issue.
type Rule interface {
	// ID returns the stable identifier, such as "MDF001".
	ID() string

	// Name returns the kebab-case name used in configuration.
	Name() string

	Description() string
	DefaultEnabled() bool
	DefaultSeverity() config.Severity

	// CanFix reports whether diagnostics of this rule may carry edits.
	CanFix() bool

	// Apply returns the rule's diagnostics for the document in ctx. An
	// error reports an internal failure, never a finding.
	Apply(ctx *RuleContext) ([]Diagnostic, error)
}
