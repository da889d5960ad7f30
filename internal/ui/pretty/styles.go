// Package pretty renders diagnostics, diffs and run summaries for the
// terminal with Lipgloss styles.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ANSI palette indexes.
const (
	red    = "9"
	green  = "10"
	yellow = "11"
	blue   = "12"
	cyan   = "14"
	grey   = "8"
	silver = "7"
)

// Styles holds the renderers for every element of CLI output. With color
// disabled every style renders its text unchanged.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	FilePath   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	Suggestion lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Success and Failure color the counts of a run summary.
	Success lipgloss.Style
	Failure lipgloss.Style

	Dim lipgloss.Style
}

// NewStyles returns the styles for the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	fg := func(color string) lipgloss.Style {
		if !colorEnabled {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	bold := func(s lipgloss.Style) lipgloss.Style {
		if !colorEnabled {
			return s
		}
		return s.Bold(true)
	}

	return &Styles{
		Error:   bold(fg(red)),
		Warning: bold(fg(yellow)),
		Info:    bold(fg(blue)),

		FilePath:   bold(lipgloss.NewStyle()),
		RuleID:     fg(grey),
		Message:    lipgloss.NewStyle(),
		Suggestion: fg(green),
		SourceLine: fg(silver),
		Caret:      fg(red),

		DiffHeader:  bold(lipgloss.NewStyle()),
		DiffHunk:    fg(cyan),
		DiffAdd:     fg(green),
		DiffRemove:  fg(red),
		DiffContext: lipgloss.NewStyle(),

		Success: bold(fg(green)),
		Failure: bold(fg(red)),

		Dim: fg(grey),
	}
}

// IsColorEnabled reports whether output to writer should be colored.
// Mode is "always", "never" or "auto"; any other value means auto, which
// colors terminals unless NO_COLOR is set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
