// Package cli implements the mdfmt command line.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfmt/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Persistent flag names shared by every command.
const (
	flagDebug  = "debug"
	flagConfig = "config"
	flagColor  = "color"
)

// NewRootCommand creates the mdfmt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var (
		debug bool
		color string
	)

	rootCmd := &cobra.Command{
		Use:   "mdfmt",
		Short: "A formatter and linter for Pandoc, Quarto and R Markdown",
		Long: `mdfmt formats Pandoc-flavored Markdown, including Quarto and R Markdown
documents, into a canonical style without changing what the document means.

It parses documents losslessly, so anything it does not rewrite is kept
byte for byte. Code blocks can be handed to external formatters, and a
small set of lint rules reports structural problems.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.PersistentFlags().BoolVar(&debug, flagDebug, false, "enable debug logging")
	rootCmd.PersistentFlags().String(flagConfig, "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, flagColor, "auto", "colorize output: auto, always, never")

	rootCmd.AddCommand(
		newFormatCommand(),
		newParseCommand(),
		newLintCommand(),
		newRulesCommand(),
		newConfigCommand(),
		newInitCommand(),
		newLSPCommand(),
		newVersionCommand(info),
	)

	applyHelp(rootCmd, color, os.Stdout)

	return rootCmd
}
