package lint

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/mdfmt/pkg/ast"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/fix"
	"github.com/yaklabco/mdfmt/pkg/parser"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// Result holds the outcome of linting one document.
type Result struct {
	Root        *syntax.Node
	Diagnostics []Diagnostic

	// Edits are the non-conflicting fix edits of auto-fixable rules,
	// sorted by offset. They are empty unless fixing was requested.
	Edits []fix.TextEdit

	// SkippedEdits overlapped an earlier edit and were dropped.
	SkippedEdits []fix.TextEdit

	// RuleErrors maps a rule ID to its internal failure.
	RuleErrors map[string]error
}

// FixableCount returns the number of diagnostics that carry edits.
func (r *Result) FixableCount() int {
	n := 0
	for i := range r.Diagnostics {
		if r.Diagnostics[i].HasFix() {
			n++
		}
	}
	return n
}

// Engine runs the rules of a registry.
type Engine struct {
	Registry *Registry
}

// NewEngine creates an engine over registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{Registry: registry}
}

// Lint parses source and runs every enabled rule over it. Diagnostics are
// ordered by position, then rule ID.
func (e *Engine) Lint(ctx context.Context, path, source string, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	root := parser.Parse(source, cfg)
	doc, _ := ast.AsDocument(root)
	lines := syntax.NewLineIndex(source)

	result := &Result{Root: root, RuleErrors: make(map[string]error)}
	var edits []fix.TextEdit

	for _, rr := range ResolveRules(e.Registry, cfg) {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("linting cancelled: %w", err)
		}

		rc := &RuleContext{
			Ctx:        ctx,
			Path:       path,
			Source:     source,
			Root:       root,
			Doc:        doc,
			Lines:      lines,
			Config:     cfg,
			RuleConfig: rr.Config,
		}
		diags, err := rr.Rule.Apply(rc)
		if err != nil {
			result.RuleErrors[rr.Rule.ID()] = err
			continue
		}
		for i := range diags {
			diags[i].Severity = rr.Severity
			if rr.AutoFix {
				edits = append(edits, diags[i].FixEdits...)
			}
		}
		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	slices.SortStableFunc(result.Diagnostics, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.StartOffset, b.StartOffset),
			cmp.Compare(a.RuleID, b.RuleID),
		)
	})

	if len(edits) > 0 {
		accepted, skipped, err := fix.Prepare(edits, len(source))
		if err != nil {
			return result, fmt.Errorf("prepare fixes: %w", err)
		}
		result.Edits, result.SkippedEdits = accepted, skipped
	}
	return result, nil
}

// Fix lints source and applies the edits of auto-fixable rules until no
// further edits apply, at most maxPasses times. It returns the fixed text
// and the diagnostics that remain.
func (e *Engine) Fix(ctx context.Context, path, source string, cfg *config.Config) (string, *Result, error) {
	const maxPasses = 10

	if cfg == nil {
		cfg = config.NewConfig()
	}
	cfg = cfg.Clone()
	cfg.Fix = true

	for range maxPasses {
		result, err := e.Lint(ctx, path, source, cfg)
		if err != nil {
			return source, result, err
		}
		if len(result.Edits) == 0 {
			return source, result, nil
		}
		source = string(fix.ApplyEdits([]byte(source), result.Edits))
	}
	result, err := e.Lint(ctx, path, source, cfg)
	return source, result, err
}
