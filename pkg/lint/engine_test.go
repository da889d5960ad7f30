package lint_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/fix"
	"github.com/yaklabco/mdfmt/pkg/lint"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// stubRule reports every heading, or fails.
type stubRule struct {
	lint.BaseRule
	fail bool
}

func newStubRule(id string, fail bool) *stubRule {
	return &stubRule{BaseRule: lint.NewBaseRule(id, "stub-"+id, "stub", true), fail: fail}
}

func (r *stubRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if r.fail {
		return nil, errors.New("boom")
	}
	var diags []lint.Diagnostic
	for _, n := range syntax.FindByKind(ctx.Root, syntax.KindHeading) {
		rng := n.Range()
		diags = append(diags, ctx.Diagnostic(r, rng, "heading").
			WithEdits(fix.Insert(rng.Start, "x")).Build())
	}
	return diags, nil
}

func TestEngineLint(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	registry.Register(newStubRule("T002", false))
	registry.Register(newStubRule("T001", false))
	registry.Register(newStubRule("T003", true))

	cfg := config.NewConfig()
	cfg.Fix = true
	result, err := lint.NewEngine(registry).Lint(context.Background(), "a.md", "# A\n\n# B\n", cfg)
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 4)
	assert.Equal(t, "T001", result.Diagnostics[0].RuleID, "same position sorts by rule ID")
	assert.Equal(t, "T002", result.Diagnostics[1].RuleID)
	assert.Equal(t, 3, result.Diagnostics[2].StartLine)
	assert.Equal(t, "a.md", result.Diagnostics[0].FilePath)
	assert.Equal(t, 4, result.FixableCount())
	assert.Len(t, result.Edits, 4, "inserts at one offset do not conflict")
	assert.Contains(t, result.RuleErrors, "T003")
}

func TestEngineLintCancelled(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	registry.Register(newStubRule("T001", false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := lint.NewEngine(registry).Lint(ctx, "", "# A\n", nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRegistryGet(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	registry.Register(newStubRule("T001", false))

	rule, ok := registry.Get("T001")
	require.True(t, ok)
	byName, ok := registry.Get("stub-T001")
	require.True(t, ok)
	assert.Same(t, rule, byName)

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func TestRuleContextOptions(t *testing.T) {
	t.Parallel()

	rc := &lint.RuleContext{
		Ctx: context.Background(),
		RuleConfig: &config.RuleConfig{Options: map[string]any{
			"width": float64(72),
			"long":  int64(9),
			"flag":  true,
			"bad":   "x",
		}},
	}
	assert.Equal(t, 72, rc.OptionInt("width", 80))
	assert.Equal(t, 9, rc.OptionInt("long", 0))
	assert.Equal(t, 5, rc.OptionInt("bad", 5))
	assert.True(t, rc.OptionBool("flag", false))
	assert.Equal(t, 3, rc.OptionInt("missing", 3))
}
