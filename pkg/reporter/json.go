package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/runner"
)

// jsonVersion versions the JSON output schema.
const jsonVersion = "1"

// JSONOutput is the top-level JSON document.
type JSONOutput struct {
	Version string           `json:"version"`
	Mode    Mode             `json:"mode"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult is one file's outcome.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Changed     bool             `json:"changed"`
	Written     bool             `json:"written,omitempty"`
	Cached      bool             `json:"cached,omitempty"`
	Fixed       int              `json:"fixed,omitempty"`
	Diff        string           `json:"diff,omitempty"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Error       string           `json:"error,omitempty"`
}

// JSONDiagnostic is one diagnostic. Positions are 1-based.
type JSONDiagnostic struct {
	RuleID      string    `json:"ruleId"`
	RuleName    string    `json:"ruleName"`
	Severity    string    `json:"severity"`
	Message     string    `json:"message"`
	StartLine   int       `json:"startLine"`
	StartColumn int       `json:"startColumn"`
	EndLine     int       `json:"endLine"`
	EndColumn   int       `json:"endColumn"`
	Suggestion  string    `json:"suggestion,omitempty"`
	Fixable     bool      `json:"fixable"`
	Fixes       []JSONFix `json:"fixes,omitempty"`
}

// JSONFix is one edit of a proposed fix, in byte offsets.
type JSONFix struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// JSONSummary holds the run statistics.
type JSONSummary struct {
	FilesProcessed   int            `json:"filesProcessed"`
	FilesChanged     int            `json:"filesChanged"`
	FilesWritten     int            `json:"filesWritten"`
	FilesCached      int            `json:"filesCached"`
	FilesErrored     int            `json:"filesErrored"`
	FilesWithIssues  int            `json:"filesWithIssues"`
	DiagnosticsTotal int            `json:"diagnosticsTotal"`
	DiagnosticsFixed int            `json:"diagnosticsFixed"`
	BySeverity       map[string]int `json:"bySeverity"`
}

// JSONReporter writes results as one JSON document.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)
	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	if r.opts.Mode == ModeLint {
		return output.Summary.DiagnosticsTotal, nil
	}
	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Mode:    r.opts.Mode,
		Files:   []JSONFileResult{},
		Summary: JSONSummary{BySeverity: map[string]int{}},
	}
	if result == nil {
		return output
	}

	s := result.Stats
	output.Summary = JSONSummary{
		FilesProcessed:   s.FilesProcessed,
		FilesChanged:     s.FilesChanged,
		FilesWritten:     s.FilesWritten,
		FilesCached:      s.FilesCached,
		FilesErrored:     s.FilesErrored,
		FilesWithIssues:  s.FilesWithIssues,
		DiagnosticsTotal: s.DiagnosticsTotal,
		DiagnosticsFixed: s.DiagnosticsFixed,
		BySeverity:       make(map[string]int, len(s.DiagnosticsBySeverity)),
	}
	for sev, n := range s.DiagnosticsBySeverity {
		output.Summary.BySeverity[string(sev)] = n
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for i := range result.Files {
		file := &result.Files[i]
		fr := JSONFileResult{
			Path:        r.opts.displayPath(file.Path),
			Changed:     file.Changed,
			Written:     file.Written,
			Cached:      file.Cached,
			Fixed:       file.Fixed,
			Diff:        file.Diff.String(),
			Diagnostics: make([]JSONDiagnostic, 0, len(file.Diagnostics)),
		}
		if file.Err != nil {
			fr.Error = file.Err.Error()
		}
		for _, diag := range file.Diagnostics {
			severity := diag.Severity
			if severity == "" {
				severity = config.SeverityWarning
			}
			jd := JSONDiagnostic{
				RuleID:      diag.RuleID,
				RuleName:    diag.RuleName,
				Severity:    string(severity),
				Message:     diag.Message,
				StartLine:   diag.StartLine,
				StartColumn: diag.StartColumn,
				EndLine:     diag.EndLine,
				EndColumn:   diag.EndColumn,
				Suggestion:  diag.Suggestion,
				Fixable:     diag.HasFix(),
			}
			for _, edit := range diag.FixEdits {
				jd.Fixes = append(jd.Fixes, JSONFix{
					StartOffset: edit.Start,
					EndOffset:   edit.End,
					NewText:     edit.NewText,
				})
			}
			fr.Diagnostics = append(fr.Diagnostics, jd)
		}
		output.Files = append(output.Files, fr)
	}
	return output
}
