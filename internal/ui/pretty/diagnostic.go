package pretty

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/lint"
)

// contextIndent aligns source context under a diagnostic line.
const contextIndent = "        "

// FormatDiagnostic renders one diagnostic as
// "path:line:col  severity  message  (ID/name)", followed by the source
// line with a caret when sourceLine is not empty, and the suggestion.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, sourceLine string) string {
	var b strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(diag.FilePath), diag.StartLine, diag.StartColumn)
	rule := diag.RuleID
	if diag.RuleName != "" {
		rule += "/" + diag.RuleName
	}
	fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.RuleID.Render("("+rule+")"),
	)

	if sourceLine != "" {
		b.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn))
	}
	if diag.Suggestion != "" {
		b.WriteString("    " + s.Dim.Render("Suggestion:") + " " + s.Suggestion.Render(diag.Suggestion) + "\n")
	}
	return b.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext renders a source line with a caret under the 1-based
// byte column. The caret is placed by display width so wide characters
// before it keep it aligned.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var b strings.Builder
	b.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		prefix := line[:min(column-1, len(line))]
		pad := strings.Repeat(" ", runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", " ")))
		b.WriteString(contextIndent + pad + s.Caret.Render("^") + "\n")
	}
	return b.String()
}

// FormatFileHeader renders a file name with its issue count.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}
