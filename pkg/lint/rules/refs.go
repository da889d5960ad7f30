package rules

import (
	"fmt"

	"github.com/yaklabco/mdfmt/pkg/lint"
	"github.com/yaklabco/mdfmt/pkg/parser"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// DuplicateReferenceRule reports reference labels and footnote identifiers
// that are defined more than once. Labels match case-insensitively with
// whitespace collapsed, as they do when links are resolved.
type DuplicateReferenceRule struct {
	lint.BaseRule
}

// NewDuplicateReferenceRule creates the duplicate-reference rule.
func NewDuplicateReferenceRule() *DuplicateReferenceRule {
	return &DuplicateReferenceRule{
		BaseRule: lint.NewBaseRule(
			"MDF002",
			"duplicate-reference",
			"Reference labels and footnote identifiers should be defined once",
			false,
		),
	}
}

// Apply reports every definition after the first for each label.
func (r *DuplicateReferenceRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic

	refs := make(map[string]int)
	for _, def := range ctx.Doc.ReferenceDefinitions() {
		label := def.Label()
		rng := labelRange(def.Node(), syntax.KindReferenceLabel)
		if line, seen := refs[parser.NormalizeLabel(label)]; seen {
			diags = append(diags, ctx.Diagnostic(r, rng,
				fmt.Sprintf("Duplicate reference label '[%s]' (first defined at line %d)", label, line)).Build())
			continue
		}
		refs[parser.NormalizeLabel(label)] = lineOf(ctx, rng.Start)
	}

	notes := make(map[string]int)
	for _, def := range ctx.Doc.FootnoteDefinitions() {
		id := def.Label()
		rng := labelRange(def.Node(), syntax.KindFootnoteLabel)
		if line, seen := notes[parser.NormalizeLabel(id)]; seen {
			diags = append(diags, ctx.Diagnostic(r, rng,
				fmt.Sprintf("Duplicate footnote ID '[^%s]' (first defined at line %d)", id, line)).Build())
			continue
		}
		notes[parser.NormalizeLabel(id)] = lineOf(ctx, rng.Start)
	}
	return diags, nil
}

func labelRange(n *syntax.Node, kind syntax.Kind) syntax.Range {
	if t := n.FirstToken(kind); t != nil {
		return t.Range()
	}
	return n.Range()
}

func lineOf(ctx *lint.RuleContext, offset int) int {
	line, _ := ctx.Lines.Position(offset)
	return line + 1
}
