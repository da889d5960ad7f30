// Package reporter writes the results of format and lint runs as text,
// JSON or unified diffs.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/mdfmt/pkg/runner"
)

// Reporter writes run results.
type Reporter interface {
	// Report writes result and returns the number of findings it reported:
	// changed files in format mode, diagnostics in lint mode, diffs for
	// the diff format.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New returns the Reporter for opts.Format.
func New(opts Options) (Reporter, error) {
	def := DefaultOptions()
	if opts.Writer == nil {
		opts.Writer = def.Writer
	}
	if opts.Format == "" {
		opts.Format = def.Format
	}
	if opts.Mode == "" {
		opts.Mode = def.Mode
	}

	switch opts.Format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}
