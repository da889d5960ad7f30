package lint

import (
	"github.com/yaklabco/mdfmt/pkg/fix"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// DiagnosticBuilder assembles a Diagnostic.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts a diagnostic from rule covering r. Positions are
// computed from lines.
func NewDiagnostic(rule Rule, path string, lines *syntax.LineIndex, r syntax.Range, message string) *DiagnosticBuilder {
	d := Diagnostic{
		RuleID:      rule.ID(),
		RuleName:    rule.Name(),
		Message:     message,
		Severity:    rule.DefaultSeverity(),
		FilePath:    path,
		StartOffset: r.Start,
		EndOffset:   r.End,
	}
	if lines != nil {
		line, col := lines.Position(r.Start)
		d.StartLine, d.StartColumn = line+1, col+1
		line, col = lines.Position(r.End)
		d.EndLine, d.EndColumn = line+1, col+1
	}
	return &DiagnosticBuilder{diag: d}
}

// WithSuggestion sets a human-readable fix description.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// WithEdits attaches fix edits.
func (b *DiagnosticBuilder) WithEdits(edits ...fix.TextEdit) *DiagnosticBuilder {
	b.diag.FixEdits = append(b.diag.FixEdits, edits...)
	return b
}

// Build returns the diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
