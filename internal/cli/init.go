package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfmt/internal/configloader"
	"github.com/yaklabco/mdfmt/internal/logging"
	"github.com/yaklabco/mdfmt/pkg/config"
)

type initFlags struct {
	force  bool
	toml   bool
	flavor string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file",
		Long: `Write the default configuration for a flavor to .mdfmt.yml (or .mdfmt.toml)
in the current directory.

Examples:
  mdfmt init                       Create .mdfmt.yml
  mdfmt init --flavor quarto       Start from the Quarto defaults
  mdfmt init --toml                Create .mdfmt.toml
  mdfmt init -o docs/.mdfmt.yml    Write somewhere else`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&flags.toml, "toml", false, "write TOML instead of YAML")
	cmd.Flags().StringVar(&flags.flavor, "flavor", string(config.FlavorPandoc),
		"Markdown flavor: pandoc, quarto, rmarkdown, gfm, commonmark")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "file to write (default .mdfmt.yml or .mdfmt.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWriter(cmd.ErrOrStderr(), "info")

	flavor := config.Flavor(flags.flavor)
	if !flavor.IsValid() {
		return usageErrorf("invalid flavor %q", flags.flavor)
	}

	path := flags.output
	if path == "" {
		path = ".mdfmt.yml"
		if flags.toml {
			path = ".mdfmt.toml"
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(abs); err == nil {
		if !flags.force {
			return usageErrorf("file %q already exists; use --force to overwrite", path)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, path)
	}

	if err := configloader.WriteConfig(config.NewConfigForFlavor(flavor), abs); err != nil {
		return ioError(err)
	}
	logger.Info("created configuration file", logging.FieldPath, path, logging.FieldFlavor, flavor)
	return nil
}
