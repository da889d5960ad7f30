package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdfmt/internal/ui/pretty"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/lint"
)

func TestFormatDiagnostic(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	diag := &lint.Diagnostic{
		RuleID:      "MDF001",
		RuleName:    "heading-hierarchy",
		Message:     "Heading level skipped from h1 to h3; expected h2",
		Severity:    config.SeverityWarning,
		FilePath:    "doc.md",
		StartLine:   3,
		StartColumn: 1,
		Suggestion:  "Use ## instead",
	}

	tests := []struct {
		name       string
		sourceLine string
		want       []string
		notWant    []string
	}{
		{
			name: "without context",
			want: []string{"doc.md:3:1", "warning", "expected h2", "(MDF001/heading-hierarchy)", "Suggestion: Use ## instead"},
			notWant: []string{"^"},
		},
		{
			name:       "with context",
			sourceLine: "### B",
			want:       []string{"### B", "^"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := styles.FormatDiagnostic(diag, tc.sourceLine)
			for _, w := range tc.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tc.notWant {
				assert.NotContains(t, got, w)
			}
		})
	}
}

func TestFormatSeverity(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "error", styles.FormatSeverity(config.SeverityError))
	assert.Equal(t, "warning", styles.FormatSeverity(config.SeverityWarning))
	assert.Equal(t, "info", styles.FormatSeverity(config.SeverityInfo))
	assert.Equal(t, "custom", styles.FormatSeverity("custom"))
}

func TestFormatSourceContext(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	got := styles.FormatSourceContext("abc def", 5)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, strings.Index(lines[0], "d"), strings.Index(lines[1], "^"))

	wide := styles.FormatSourceContext("日本 x", len("日本 ")+1)
	lines = strings.Split(strings.TrimSuffix(wide, "\n"), "\n")
	assert.Equal(t, "        "+"     "+"^", lines[1], "caret follows display width")

	assert.NotContains(t, styles.FormatSourceContext("abc", 0), "^")
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "doc.md (1 issue)", styles.FormatFileHeader("doc.md", 1))
	assert.Equal(t, "doc.md (4 issues)", styles.FormatFileHeader("doc.md", 4))
	assert.Equal(t, "doc.md", styles.FormatFileHeader("doc.md", 0))
}
