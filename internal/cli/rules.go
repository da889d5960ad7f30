package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfmt/internal/logging"
	"github.com/yaklabco/mdfmt/pkg/lint"
	"github.com/yaklabco/mdfmt/pkg/lint/rules"
)

// ruleInfo is a rule in JSON output.
type ruleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Fixable     bool   `json:"fixable"`
}

func newRulesCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List lint rules",
		Long: `List the lint rules with their IDs, names, default severity and whether
they can fix what they find. Rules are configured under "rules:" by ID or name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all := rules.NewRegistry().Rules()
			switch output {
			case "json":
				return writeRulesJSON(cmd, all)
			case "text":
			default:
				return usageErrorf("unknown format %q; valid formats: text, json", output)
			}

			logger := logging.NewWriter(cmd.OutOrStdout(), "info")
			for _, rule := range all {
				logger.Info(rule.ID()+" "+rule.Name(),
					logging.FieldSeverity, rule.DefaultSeverity(),
					logging.FieldFixable, rule.CanFix(),
					logging.FieldDescription, rule.Description(),
				)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json")
	return cmd
}

func writeRulesJSON(cmd *cobra.Command, all []lint.Rule) error {
	infos := make([]ruleInfo, 0, len(all))
	for _, rule := range all {
		infos = append(infos, ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Severity:    string(rule.DefaultSeverity()),
			Fixable:     rule.CanFix(),
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	return nil
}
