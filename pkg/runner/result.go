package runner

import (
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/fix"
	"github.com/yaklabco/mdfmt/pkg/lint"
)

// FileResult is the outcome of processing one file.
type FileResult struct {
	Path string

	// Changed reports that formatting or fixing produced different content.
	Changed bool

	// Written reports that the new content replaced the file.
	Written bool

	// Cached reports that the file was skipped as already formatted.
	Cached bool

	// Diff is set when diffs were requested and the content changed.
	Diff *fix.Diff

	// Diagnostics are the lint findings that remain.
	Diagnostics []lint.Diagnostic

	// Source is the content the diagnostics refer to. Only the linter sets it.
	Source string

	// Fixed is the number of diagnostics resolved by fixes.
	Fixed int

	// Err is set when the file could not be processed or was left alone
	// because its output failed verification.
	Err error
}

// Stats aggregates the results of a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesChanged    int
	FilesWritten    int
	FilesCached     int
	FilesErrored    int
	FilesWithIssues int

	DiagnosticsTotal      int
	DiagnosticsFixable    int
	DiagnosticsFixed      int
	DiagnosticsBySeverity map[config.Severity]int
}

// Result is the outcome of a run. Files are ordered by path.
type Result struct {
	Files []FileResult
	Stats Stats
}

// HasFailures reports whether any file errored or has error diagnostics.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.DiagnosticsBySeverity[config.SeverityError] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

// HasChanges reports whether any file was or would be changed.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// NewResult aggregates file results produced outside a Runner, such as
// the result for standard input.
func NewResult(files ...FileResult) *Result {
	r := newResult(len(files))
	for _, f := range files {
		r.accumulate(f)
	}
	return r
}

func newResult(n int) *Result {
	return &Result{
		Files: make([]FileResult, 0, n),
		Stats: Stats{
			FilesDiscovered:       n,
			DiagnosticsBySeverity: make(map[config.Severity]int),
		},
	}
}

func (r *Result) accumulate(fr FileResult) {
	r.Files = append(r.Files, fr)
	if fr.Err != nil {
		r.Stats.FilesErrored++
		return
	}

	s := &r.Stats
	s.FilesProcessed++
	if fr.Changed {
		s.FilesChanged++
	}
	if fr.Written {
		s.FilesWritten++
	}
	if fr.Cached {
		s.FilesCached++
	}
	s.DiagnosticsFixed += fr.Fixed
	if len(fr.Diagnostics) > 0 {
		s.FilesWithIssues++
	}
	for i := range fr.Diagnostics {
		d := &fr.Diagnostics[i]
		s.DiagnosticsTotal++
		if d.HasFix() {
			s.DiagnosticsFixable++
		}
		sev := d.Severity
		if sev == "" {
			sev = config.SeverityWarning
		}
		s.DiagnosticsBySeverity[sev]++
	}
}
