package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/runner"
)

// FormatLintSummary renders lint statistics on one line, e.g.
// "12 issues (8 errors, 4 warnings) in 3 files, 6 fixable".
func (s *Styles) FormatLintSummary(stats runner.Stats) string {
	fixed := ""
	if stats.DiagnosticsFixed > 0 {
		fixed = s.Success.Render(fmt.Sprintf("%d fixed in %d %s",
			stats.DiagnosticsFixed, stats.FilesWritten, plural(stats.FilesWritten, "file", "files")))
	}

	if stats.DiagnosticsTotal == 0 {
		msg := s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, "file", "files")))
		if fixed != "" {
			msg += ", " + fixed
		}
		return msg + s.errored(stats) + "\n"
	}

	var severities []string
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		severities = append(severities, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		severities = append(severities, s.Warning.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		severities = append(severities, s.Info.Render(fmt.Sprintf("%d info", n)))
	}

	head := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))
	if len(severities) > 0 {
		head += " (" + strings.Join(severities, ", ") + ")"
	}
	head += fmt.Sprintf(" in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, "file", "files"))
	parts := []string{head}
	if stats.DiagnosticsFixable > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixable", stats.DiagnosticsFixable)))
	}
	if fixed != "" {
		parts = append(parts, fixed)
	}
	return strings.Join(parts, ", ") + s.errored(stats) + "\n"
}

// FormatFormatSummary renders formatting statistics on one line. In check
// mode changed files are reported as "would be reformatted".
func (s *Styles) FormatFormatSummary(stats runner.Stats, check bool) string {
	unchanged := stats.FilesProcessed - stats.FilesChanged
	var parts []string
	switch {
	case stats.FilesChanged == 0:
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s already formatted",
			stats.FilesProcessed, plural(stats.FilesProcessed, "file", "files"))))
	case check:
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s would be reformatted",
			stats.FilesChanged, plural(stats.FilesChanged, "file", "files"))))
	default:
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s reformatted",
			stats.FilesWritten, plural(stats.FilesWritten, "file", "files"))))
	}
	if stats.FilesChanged > 0 && unchanged > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", unchanged))
	}
	if stats.FilesCached > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d cached", stats.FilesCached)))
	}
	return strings.Join(parts, ", ") + s.errored(stats) + "\n"
}

func (s *Styles) errored(stats runner.Stats) string {
	if stats.FilesErrored == 0 {
		return ""
	}
	return ", " + s.Failure.Render(fmt.Sprintf("%d %s failed",
		stats.FilesErrored, plural(stats.FilesErrored, "file", "files")))
}
