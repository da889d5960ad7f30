package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfmt/internal/logging"
	"github.com/yaklabco/mdfmt/internal/ui/pretty"
	"github.com/yaklabco/mdfmt/pkg/cache"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/fix"
	"github.com/yaklabco/mdfmt/pkg/format"
	"github.com/yaklabco/mdfmt/pkg/reporter"
	"github.com/yaklabco/mdfmt/pkg/runner"
	"github.com/yaklabco/mdfmt/pkg/verify"
)

// stdinDisplayName labels standard input in diffs and messages.
const stdinDisplayName = "<stdin>"

type formatFlags struct {
	check     bool
	diff      bool
	watch     bool
	verify    bool
	noCache   bool
	jobs      int
	lineWidth int
	flavor    string
	wrap      string
	output    string
	quiet     bool
}

func newFormatCommand() *cobra.Command {
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "format [paths...|-]",
		Short: "Format Markdown files",
		Long: `Format Markdown files in place.

With no paths, formats the current directory, or standard input when it is
piped. "-" reads standard input and writes the result to standard output.

Examples:
  mdfmt format                     # Format the current directory
  mdfmt format docs/ README.qmd    # Format a directory and a file
  mdfmt format --check             # Exit 1 if any file would change
  mdfmt format --diff              # Show changes without writing
  mdfmt format --watch docs/       # Reformat files as they are saved
  cat doc.md | mdfmt format -      # Format standard input`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, flags)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.check, "check", false, "report files that would change and exit 1; write nothing")
	f.BoolVar(&flags.diff, "diff", false, "print a diff of the changes instead of writing")
	f.BoolVar(&flags.watch, "watch", false, "keep running and reformat files when they change")
	f.BoolVar(&flags.verify, "verify", false, "check that formatting preserves the rendered document")
	f.BoolVar(&flags.noCache, "no-cache", false, "ignore the cache of already formatted files")
	f.IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = one per CPU)")
	f.IntVar(&flags.lineWidth, "line-width", config.DefaultLineWidth, "maximum line width for reflowed paragraphs")
	f.StringVar(&flags.flavor, "flavor", string(config.FlavorPandoc),
		"Markdown flavor: pandoc, quarto, rmarkdown, gfm, commonmark")
	f.StringVar(&flags.wrap, "wrap", string(config.WrapReflow), "paragraph wrapping: reflow, preserve")
	f.StringVarP(&flags.output, "output", "o", "text", "report format: text, json, diff")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "print nothing but errors")

	return cmd
}

// overrides applies the flags the user set on top of the loaded config.
func (flags *formatFlags) overrides(cmd *cobra.Command) func(*config.Config) {
	changed := cmd.Flags().Changed
	return func(cfg *config.Config) {
		if changed("line-width") {
			cfg.LineWidth = flags.lineWidth
		}
		if changed("flavor") {
			cfg.Flavor = config.Flavor(flags.flavor)
		}
		if changed("wrap") {
			cfg.Wrap = config.WrapMode(flags.wrap)
		}
		if changed("verify") {
			cfg.Verify = flags.verify
		}
		if changed("jobs") {
			cfg.Jobs = flags.jobs
		}
		if flags.noCache {
			cfg.Cache.Enabled = false
		}
		cfg.Check = flags.check
		cfg.Diff = flags.diff
	}
}

func runFormat(cmd *cobra.Command, args []string, flags *formatFlags) error {
	stdin, err := useStdin(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if stdin && flags.watch {
		return usageErrorf("--watch cannot be used with standard input")
	}
	if flags.check && flags.diff {
		return usageErrorf("--check and --diff cannot be combined")
	}

	cfg, err := loadConfig(cmd, flags.overrides(cmd))
	if err != nil {
		return err
	}
	if stdin {
		return formatStdin(cmd, cfg)
	}

	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	var store *cache.Cache
	if cfg.Cache.Enabled {
		store = openCache(ctx, cfg)
		defer func() {
			if err := store.Close(); err != nil {
				logger.Debug("close cache", logging.FieldError, err)
			}
		}()
	}

	rep, err := newFormatReporter(cmd, cfg, flags)
	if err != nil {
		return err
	}
	run := runner.New(runner.NewFormatter(cfg, store))
	opts := runner.OptionsFromConfig(cfg, args)

	start := time.Now()
	result, err := run.Run(ctx, opts)
	if err != nil {
		return ioError(err)
	}
	logger.Debug("format run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesCached, result.Stats.FilesCached,
		logging.FieldDuration, time.Since(start),
	)
	if _, err := rep.Report(ctx, result); err != nil {
		return ioError(fmt.Errorf("report results: %w", err))
	}

	if flags.watch {
		return watchFormat(ctx, run, rep, opts, cfg)
	}
	if result.Stats.FilesErrored > 0 || (cfg.Check && result.HasChanges()) {
		return ErrIssuesFound
	}
	return nil
}

func newFormatReporter(cmd *cobra.Command, cfg *config.Config, flags *formatFlags) (reporter.Reporter, error) {
	out, err := reporter.ParseFormat(flags.output)
	if err != nil {
		return nil, usageError(err)
	}
	if cfg.Diff && !cmd.Flags().Changed("output") {
		out = reporter.FormatDiff
	}
	color, _ := cmd.Flags().GetString(flagColor)
	w := cmd.OutOrStdout()
	if flags.quiet {
		w = io.Discard
	}
	rep, err := reporter.New(reporter.Options{
		Writer:      w,
		Format:      out,
		Mode:        reporter.ModeFormat,
		Check:       cfg.Check,
		Color:       color,
		ShowSummary: true,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return rep, nil
}

// openCache opens the configured cache. Failing to open it only disables
// caching.
func openCache(ctx context.Context, cfg *config.Config) *cache.Cache {
	path := cfg.Cache.Path
	if path == "" {
		var err error
		if path, err = cache.DefaultPath(); err != nil {
			logging.FromContext(ctx).Debug("no cache directory", logging.FieldError, err)
			return nil
		}
	}
	c, err := cache.Open(path)
	if err != nil {
		logging.FromContext(ctx).Warn("cache disabled", logging.FieldPath, path, logging.FieldError, err)
		return nil
	}
	return c
}

func watchFormat(ctx context.Context, run *runner.Runner, rep reporter.Reporter, opts runner.Options, cfg *config.Config) error {
	logger := logging.FromContext(ctx)
	logger.Info("watching for changes", logging.FieldPaths, opts.Paths)

	err := runner.Watch(ctx, opts, runner.DefaultDebounce, func(ctx context.Context, files []string) {
		result, err := run.RunFiles(ctx, files, cfg.Jobs)
		if err != nil {
			logger.Debug("watch run stopped", logging.FieldError, err)
			return
		}
		if _, err := rep.Report(ctx, result); err != nil {
			logger.Warn("report results", logging.FieldError, err)
		}
	})
	if err != nil {
		return ioError(err)
	}
	return nil
}

// formatStdin formats standard input to standard output. Under --check it
// writes nothing and fails when the input would change; under --diff it
// writes the diff.
func formatStdin(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return ioError(fmt.Errorf("read standard input: %w", err))
	}
	source := string(input)
	out := format.Format(ctx, source, cfg)

	if cfg.Verify && out != source {
		if err := verify.New().Check(input, []byte(out)); err != nil {
			logging.FromContext(ctx).Error("formatting changed the document; output left unformatted",
				logging.FieldError, err)
			if !cfg.Check && !cfg.Diff {
				_, _ = io.WriteString(cmd.OutOrStdout(), source)
			}
			return ErrIssuesFound
		}
	}

	switch {
	case cfg.Check:
		if out != source {
			logging.FromContext(ctx).Info("would reformat", logging.FieldPath, stdinDisplayName)
			return ErrIssuesFound
		}
		return nil
	case cfg.Diff:
		color, _ := cmd.Flags().GetString(flagColor)
		styles := pretty.NewStyles(pretty.IsColorEnabled(color, cmd.OutOrStdout()))
		d := fix.GenerateDiff(stdinDisplayName, input, []byte(out))
		_, err := io.WriteString(cmd.OutOrStdout(), styles.FormatDiff(d, stdinDisplayName))
		return err
	default:
		_, err := io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
}
