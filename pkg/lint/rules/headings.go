package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdfmt/pkg/fix"
	"github.com/yaklabco/mdfmt/pkg/lint"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// HeadingHierarchyRule reports headings that skip a level relative to the
// heading before them.
type HeadingHierarchyRule struct {
	lint.BaseRule
}

// NewHeadingHierarchyRule creates the heading-hierarchy rule.
func NewHeadingHierarchyRule() *HeadingHierarchyRule {
	return &HeadingHierarchyRule{
		BaseRule: lint.NewBaseRule(
			"MDF001",
			"heading-hierarchy",
			"Heading levels should increase by one level at a time",
			true,
		),
	}
}

// Apply compares each heading with the one before it. The first heading
// may have any level.
func (r *HeadingHierarchyRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var (
		diags []lint.Diagnostic
		prev  int
	)
	for _, h := range ctx.Doc.Headings() {
		if ctx.Cancelled() {
			return diags, ctx.Ctx.Err()
		}

		level := h.Level()
		if prev > 0 && level > prev+1 {
			want := prev + 1
			rng := h.Node().Range()
			marker := h.Node().FirstToken(syntax.KindAtxHeadingMarker)
			if marker != nil {
				rng = marker.Range()
			}

			b := ctx.Diagnostic(r, rng,
				fmt.Sprintf("Heading level skipped from h%d to h%d; expected h%d", prev, level, want))
			if marker != nil {
				b.WithSuggestion(fmt.Sprintf("Change heading level from %d to %d", level, want)).
					WithEdits(fix.Replace(rng.Start, rng.End, strings.Repeat("#", want)))
			}
			diags = append(diags, b.Build())
		}
		prev = level
	}
	return diags, nil
}
