package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdfmt/internal/ui/pretty"
	"github.com/yaklabco/mdfmt/pkg/runner"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// TextReporter writes styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No Markdown files found."))
		}
		return 0, nil
	}

	var n int
	for i := range result.Files {
		file := &result.Files[i]
		path := r.opts.displayPath(file.Path)
		if file.Err != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Err)))
			continue
		}
		if r.opts.Mode == ModeLint {
			n += r.diagnostics(file, path)
			continue
		}
		if file.Changed {
			n++
			r.changed(file, path)
		}
	}

	if r.opts.ShowSummary {
		if r.opts.Mode == ModeLint {
			fmt.Fprint(r.bw, r.styles.FormatLintSummary(result.Stats))
		} else {
			fmt.Fprint(r.bw, r.styles.FormatFormatSummary(result.Stats, r.opts.Check || result.Stats.FilesWritten == 0))
		}
	}
	return n, nil
}

func (r *TextReporter) changed(file *runner.FileResult, path string) {
	if file.Diff != nil {
		fmt.Fprint(r.bw, r.styles.FormatDiff(file.Diff, path))
		return
	}
	verb := "would reformat"
	if file.Written {
		verb = "reformatted"
	}
	fmt.Fprintf(r.bw, "%s %s\n", r.styles.Dim.Render(verb), r.styles.FilePath.Render(path))
}

func (r *TextReporter) diagnostics(file *runner.FileResult, path string) int {
	if len(file.Diagnostics) == 0 {
		if file.Diff != nil {
			fmt.Fprint(r.bw, r.styles.FormatDiff(file.Diff, path))
		}
		return 0
	}

	var lines *syntax.LineIndex
	if r.opts.ShowContext && file.Source != "" {
		lines = syntax.NewLineIndex(file.Source)
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Diagnostics)))
	for i := range file.Diagnostics {
		diag := file.Diagnostics[i]
		diag.FilePath = path
		var source string
		if lines != nil {
			source = lines.LineText(diag.StartLine - 1)
		}
		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(&diag, source))
	}
	if file.Diff != nil {
		fmt.Fprint(r.bw, r.styles.FormatDiff(file.Diff, path))
	}
	fmt.Fprintln(r.bw)
	return len(file.Diagnostics)
}
