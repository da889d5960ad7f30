package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdfmt/pkg/fix"
)

// FormatDiff renders a file diff in git style with a "diff --git" header.
// displayPath replaces the diff's own path in the headers.
func (s *Styles) FormatDiff(d *fix.Diff, displayPath string) string {
	if d == nil || !d.HasChanges() {
		return ""
	}
	var b strings.Builder
	b.WriteString(s.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)) + "\n")
	b.WriteString(s.DiffRemove.Render("--- a/"+displayPath) + "\n")
	b.WriteString(s.DiffAdd.Render("+++ b/"+displayPath) + "\n")

	body := d.String()
	for _, line := range strings.Split(strings.TrimSuffix(body, "\n"), "\n") {
		if strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") {
			continue
		}
		b.WriteString(s.diffLine(line) + "\n")
	}
	return b.String()
}

func (s *Styles) diffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "@@"):
		return s.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		return s.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		return s.DiffRemove.Render(line)
	default:
		return s.DiffContext.Render(line)
	}
}

// FormatDiffStat renders "N files changed, A insertions(+), D deletions(-)".
func (s *Styles) FormatDiffStat(files, additions, deletions int) string {
	parts := []string{fmt.Sprintf("%d %s changed", files, plural(files, "file", "files"))}
	if additions > 0 {
		parts = append(parts, s.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, plural(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, s.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, plural(deletions, "deletion", "deletions"))))
	}
	return strings.Join(parts, ", ") + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
