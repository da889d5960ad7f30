package lint

import (
	"context"

	"github.com/yaklabco/mdfmt/pkg/ast"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// RuleContext is what a rule sees of the document being linted. It is
// created per rule invocation and not retained afterwards.
type RuleContext struct {
	Ctx context.Context

	// Path is the file path used in diagnostics; it may be empty.
	Path string

	// Source is the document text; Root.Text() equals Source.
	Source string

	Root  *syntax.Node
	Doc   ast.Document
	Lines *syntax.LineIndex

	Config     *config.Config
	RuleConfig *config.RuleConfig
}

// Cancelled reports whether the context is done.
func (rc *RuleContext) Cancelled() bool {
	return rc.Ctx.Err() != nil
}

// Option returns a rule option, or def when it is unset.
func (rc *RuleContext) Option(key string, def any) any {
	if rc.RuleConfig == nil {
		return def
	}
	if v, ok := rc.RuleConfig.Options[key]; ok {
		return v
	}
	return def
}

// OptionInt returns an integer rule option. YAML and TOML numbers decode
// as int, int64 or float64.
func (rc *RuleContext) OptionInt(key string, def int) int {
	switch v := rc.Option(key, def).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// OptionBool returns a boolean rule option.
func (rc *RuleContext) OptionBool(key string, def bool) bool {
	if b, ok := rc.Option(key, def).(bool); ok {
		return b
	}
	return def
}

// Diagnostic starts a diagnostic covering r.
func (rc *RuleContext) Diagnostic(rule Rule, r syntax.Range, message string) *DiagnosticBuilder {
	return NewDiagnostic(rule, rc.Path, rc.Lines, r, message)
}
