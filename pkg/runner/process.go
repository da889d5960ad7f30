package runner

import (
	"context"
	"fmt"

	"github.com/yaklabco/mdfmt/internal/logging"
	"github.com/yaklabco/mdfmt/pkg/cache"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/fix"
	"github.com/yaklabco/mdfmt/pkg/format"
	"github.com/yaklabco/mdfmt/pkg/fsutil"
	"github.com/yaklabco/mdfmt/pkg/lint"
	"github.com/yaklabco/mdfmt/pkg/verify"
)

// Formatter formats files in place. With Config.Check or Config.Diff set it
// only reports what would change.
type Formatter struct {
	config      *config.Config
	fingerprint string
	cache       *cache.Cache
	verifier    *verify.Verifier
	options     []format.Option
}

// NewFormatter returns a Formatter for cfg. The cache may be nil. A
// verifier is created when cfg.Verify is set.
func NewFormatter(cfg *config.Config, c *cache.Cache, opts ...format.Option) *Formatter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	f := &Formatter{
		config:      cfg,
		fingerprint: cfg.Fingerprint(),
		cache:       c,
		options:     opts,
	}
	if cfg.Verify {
		f.verifier = verify.New()
	}
	return f
}

// Process formats one file.
func (f *Formatter) Process(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		res.Err = err
		return res
	}
	if f.cache.Formatted(content, f.fingerprint) {
		logger.Debug("cached")
		res.Cached = true
		return res
	}

	out := []byte(format.Format(ctx, string(content), f.config, f.options...))
	if string(out) == string(content) {
		f.remember(ctx, content)
		return res
	}
	res.Changed = true

	if f.verifier != nil {
		if err := f.verifier.Check(content, out); err != nil {
			res.Err = fmt.Errorf("verify %s: %w", path, err)
			return res
		}
	}
	if f.config.Diff {
		res.Diff = fix.GenerateDiff(path, content, out)
	}
	if f.config.Check || f.config.Diff {
		return res
	}

	if err := fsutil.Replace(ctx, info, out); err != nil {
		res.Err = err
		return res
	}
	res.Written = true
	f.remember(ctx, out)
	logger.Debug("formatted", logging.FieldBytes, len(out))
	return res
}

func (f *Formatter) remember(ctx context.Context, content []byte) {
	if f.cache == nil {
		return
	}
	if err := f.cache.MarkFormatted(content, f.fingerprint); err != nil {
		logging.FromContext(ctx).Debug("cache write failed", logging.FieldError, err)
	}
}

// Linter lints files, applying fixes in place when Config.Fix is set.
type Linter struct {
	config *config.Config
	engine *lint.Engine
}

// NewLinter returns a Linter running engine under cfg.
func NewLinter(cfg *config.Config, engine *lint.Engine) *Linter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Linter{config: cfg, engine: engine}
}

// Process lints one file.
func (l *Linter) Process(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		res.Err = err
		return res
	}
	source := string(content)
	res.Source = source

	if !l.config.Fix {
		lr, err := l.engine.Lint(ctx, path, source, l.config)
		if err != nil {
			res.Err = err
			return res
		}
		res.Diagnostics = lr.Diagnostics
		return res
	}

	before, err := l.engine.Lint(ctx, path, source, l.config)
	if err != nil {
		res.Err = err
		return res
	}
	fixed, after, err := l.engine.Fix(ctx, path, source, l.config)
	if err != nil {
		res.Err = err
		return res
	}
	res.Diagnostics = after.Diagnostics
	res.Source = fixed
	if fixed == source {
		return res
	}
	res.Changed = true
	res.Fixed = max(len(before.Diagnostics)-len(after.Diagnostics), 0)

	if l.config.Diff {
		res.Diff = fix.GenerateDiff(path, content, []byte(fixed))
		return res
	}
	if err := fsutil.Replace(ctx, info, []byte(fixed)); err != nil {
		res.Err = err
		return res
	}
	res.Written = true
	return res
}
