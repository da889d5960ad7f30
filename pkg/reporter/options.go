package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// bufWriterSize is the buffer size for output writers.
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output. Defaults to os.Stdout.
	Writer io.Writer

	Format Format
	Mode   Mode

	// Check reports changed files as "would reformat" instead of written.
	Check bool

	// Color is "auto", "always" or "never".
	Color string

	// ShowContext prints the source line under each diagnostic.
	ShowContext bool

	// ShowSummary prints aggregate statistics after the results.
	ShowSummary bool

	// Compact disables JSON indentation.
	Compact bool

	// WorkingDir makes displayed paths relative. Empty uses the current
	// directory.
	WorkingDir string
}

// DefaultOptions returns options for text output of a format run.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Mode:        ModeFormat,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
	}
}

// displayPath returns path relative to the working directory, or the path
// unchanged when it lies more than two directories above it.
func (o Options) displayPath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	dir := o.WorkingDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return path
		}
		dir = cwd
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil || strings.Count(rel, "..") > 2 {
		return path
	}
	return filepath.ToSlash(rel)
}
