// Package runner applies a per-file processor to many Markdown files with a
// bounded worker pool.
package runner

import "github.com/yaklabco/mdfmt/pkg/config"

// Options controls discovery and concurrency.
type Options struct {
	// Paths are files or directories to process. Empty means the working
	// directory.
	Paths []string

	// WorkingDir resolves relative Paths and exclude patterns. Empty means
	// the process working directory.
	WorkingDir string

	// Extensions are the file extensions treated as Markdown, compared
	// case-insensitively. Empty means DefaultExtensions.
	Extensions []string

	// ExcludeGlobs skip matching files and directories. Patterns without a
	// slash match the base name; "**" crosses directories.
	ExcludeGlobs []string

	// FollowSymlinks traverses directory symlinks.
	FollowSymlinks bool

	// Jobs bounds the number of concurrent workers. Zero or less means
	// runtime.NumCPU().
	Jobs int
}

// OptionsFromConfig returns options for paths using the ignore patterns
// and job count of cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths}
	if cfg != nil {
		opts.ExcludeGlobs = append(opts.ExcludeGlobs, cfg.Ignore...)
		opts.Jobs = cfg.Jobs
	}
	return opts
}

// DefaultExtensions returns the extensions of Markdown, Quarto and
// R Markdown documents.
func DefaultExtensions() []string {
	return []string{".md", ".markdown", ".qmd", ".rmd"}
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) paths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
