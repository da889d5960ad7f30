package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfmt/internal/configloader"
	"github.com/yaklabco/mdfmt/internal/logging"
	"github.com/yaklabco/mdfmt/pkg/config"
)

// loadConfig resolves the configuration for the working directory, applying
// overrides last.
func loadConfig(cmd *cobra.Command, overrides func(*config.Config)) (*config.Config, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, ioError(fmt.Errorf("get working directory: %w", err))
	}
	return loadConfigIn(cmd.Context(), cmd, workDir, overrides)
}

func loadConfigIn(ctx context.Context, cmd *cobra.Command, workDir string, overrides func(*config.Config)) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	explicit, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	res, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: explicit,
		Overrides:    overrides,
	})
	if err != nil {
		return nil, configError(fmt.Errorf("load configuration: %w", err))
	}
	for _, w := range res.Warnings {
		logger.Warn(w)
	}
	if len(res.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, res.LoadedFrom)
	}
	cfg := res.Config
	logger.Debug("configuration resolved",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldLineWidth, cfg.LineWidth,
		logging.FieldWrap, cfg.Wrap,
		logging.FieldJobs, cfg.Jobs,
	)
	return cfg, nil
}

func newConfigCommand() *cobra.Command {
	var asTOML bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long: `Print the configuration mdfmt would use in the current directory, after
merging the system, user and project files, the --config file and MDFMT_*
environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			var out []byte
			if asTOML {
				out, err = cfg.ToTOML()
			} else {
				out, err = cfg.ToYAML()
			}
			if err != nil {
				return fmt.Errorf("encode configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&asTOML, "toml", false, "print TOML instead of YAML")
	return cmd
}
