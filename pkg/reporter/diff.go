package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdfmt/internal/ui/pretty"
	"github.com/yaklabco/mdfmt/pkg/runner"
)

// DiffReporter writes the diffs of changed files in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. It returns the number of files with diffs.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()
	if result == nil {
		return 0, nil
	}

	var files, additions, deletions int
	for i := range result.Files {
		file := &result.Files[i]
		path := r.opts.displayPath(file.Path)
		if file.Err != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Err)))
			continue
		}
		if !file.Diff.HasChanges() {
			continue
		}
		files++
		additions += file.Diff.Additions
		deletions += file.Diff.Deletions
		fmt.Fprint(r.bw, r.styles.FormatDiff(file.Diff, path))
		fmt.Fprintln(r.bw)
	}

	if files > 0 && r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatDiffStat(files, additions, deletions))
	}
	return files, nil
}
