package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfmt/internal/logging"
	"github.com/yaklabco/mdfmt/internal/lsp"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/lint"
	"github.com/yaklabco/mdfmt/pkg/lint/rules"
)

func newLSPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on standard input and output",
		Long: `Run a Language Server Protocol server over standard input and output.

The server formats documents on request, lists headings as document symbols
and publishes lint diagnostics as documents change. Configuration is resolved
for the workspace root the editor reports. Logs go to standard error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logging.FromContext(ctx).Debug("starting language server")

			return lsp.Serve(ctx, lsp.Stdio(), lsp.Options{
				Config: cfg,
				LoadConfig: func(ctx context.Context, root string) (*config.Config, error) {
					return loadConfigIn(ctx, cmd, root, nil)
				},
				Engine: lint.NewEngine(rules.NewRegistry()),
			})
		},
	}
}
