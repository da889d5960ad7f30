package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfmt/internal/logging"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/lint"
	"github.com/yaklabco/mdfmt/pkg/lint/rules"
	"github.com/yaklabco/mdfmt/pkg/reporter"
	"github.com/yaklabco/mdfmt/pkg/runner"
)

type lintFlags struct {
	fix       bool
	diff      bool
	strict    bool
	noContext bool
	compact   bool
	jobs      int
	flavor    string
	output    string
}

func newLintCommand() *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...|-]",
		Short: "Lint Markdown files",
		Long: `Check Markdown files for structural problems.

Rules:
  MDF001 heading-hierarchy     heading levels increase by one at a time
  MDF002 duplicate-reference   reference and footnote labels are unique
  MDF003 yaml-metadata         YAML metadata blocks parse as a mapping

Examples:
  mdfmt lint                    # Lint the current directory
  mdfmt lint --fix docs/        # Apply the available fixes
  mdfmt lint --fix --diff       # Show the fixes without writing
  mdfmt lint --output json      # Machine-readable diagnostics`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.fix, "fix", false, "apply fixes")
	f.BoolVar(&flags.diff, "diff", false, "with --fix, print the fixes as a diff instead of writing")
	f.BoolVar(&flags.strict, "strict", false, "exit 2 when only warnings are found")
	f.BoolVar(&flags.noContext, "no-context", false, "hide the source line under each diagnostic")
	f.BoolVar(&flags.compact, "compact", false, "compact JSON output")
	f.IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = one per CPU)")
	f.StringVar(&flags.flavor, "flavor", string(config.FlavorPandoc),
		"Markdown flavor: pandoc, quarto, rmarkdown, gfm, commonmark")
	f.StringVarP(&flags.output, "output", "o", "text", "report format: text, json, diff")

	return cmd
}

func runLint(cmd *cobra.Command, args []string, flags *lintFlags) error {
	stdin, err := useStdin(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if stdin && flags.fix {
		return usageErrorf("--fix cannot be used with standard input")
	}

	changed := cmd.Flags().Changed
	cfg, err := loadConfig(cmd, func(cfg *config.Config) {
		if changed("flavor") {
			cfg.Flavor = config.Flavor(flags.flavor)
		}
		if changed("jobs") {
			cfg.Jobs = flags.jobs
		}
		cfg.Fix = flags.fix
		cfg.Diff = flags.diff
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	engine := lint.NewEngine(rules.NewRegistry())

	var result *runner.Result
	if stdin {
		input, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return ioError(fmt.Errorf("read standard input: %w", err))
		}
		lr, err := engine.Lint(ctx, stdinDisplayName, string(input), cfg)
		if err != nil {
			return fmt.Errorf("lint standard input: %w", err)
		}
		result = runner.NewResult(runner.FileResult{
			Path:        stdinDisplayName,
			Source:      string(input),
			Diagnostics: lr.Diagnostics,
		})
	} else {
		result, err = runner.New(runner.NewLinter(cfg, engine)).Run(ctx, runner.OptionsFromConfig(cfg, args))
		if err != nil {
			return ioError(err)
		}
	}
	logging.FromContext(ctx).Debug("lint run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
	)

	out, err := reporter.ParseFormat(flags.output)
	if err != nil {
		return usageError(err)
	}
	color, _ := cmd.Flags().GetString(flagColor)
	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      out,
		Mode:        reporter.ModeLint,
		Color:       color,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Compact:     flags.compact,
	})
	if err != nil {
		return usageError(err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return ioError(fmt.Errorf("report results: %w", err))
	}

	return lintOutcome(result, flags.strict)
}

// lintOutcome maps a lint result to the error carrying its exit code.
func lintOutcome(result *runner.Result, strict bool) error {
	switch {
	case result.HasFailures():
		return ErrIssuesFound
	case strict && result.Stats.DiagnosticsBySeverity[config.SeverityWarning] > 0:
		return ErrWarningsFound
	default:
		return nil
	}
}
