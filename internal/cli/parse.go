package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/parser"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

func newParseCommand() *cobra.Command {
	var flavor string

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Print the syntax tree of a document",
		Long: `Parse a document and print its concrete syntax tree, one element per line
with its byte range. Reads standard input when the file is "-" or omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("flavor") {
					cfg.Flavor = config.Flavor(flavor)
				}
			})
			if err != nil {
				return err
			}
			if err := syntax.Fdump(cmd.OutOrStdout(), parser.Parse(string(input), cfg)); err != nil {
				return ioError(fmt.Errorf("write tree: %w", err))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flavor, "flavor", string(config.FlavorPandoc),
		"Markdown flavor: pandoc, quarto, rmarkdown, gfm, commonmark")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, ioError(fmt.Errorf("read standard input: %w", err))
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, ioError(fmt.Errorf("read %s: %w", args[0], err))
	}
	return data, nil
}
