package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/bootwatch/internal/config"
	"github.com/harrison/bootwatch/internal/display"
	"github.com/harrison/bootwatch/internal/logger"
	"github.com/harrison/bootwatch/internal/patterns"
)

// NewRulesCommand creates the rules subcommand, which prints the effective
// pattern table in match order.
func NewRulesCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the effective pattern rules in match order",
		Long: `Rules prints the classification table: custom rules from the
configured rules file first, then the built-in signatures. Rules are tried
in exactly this order and the first match wins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			diag := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
			library, err := patterns.DefaultLibrary(cfg.RulesFile, diag)
			if err != nil {
				return err
			}

			rows := make([]display.RuleRow, 0, library.Len())
			for _, r := range library.Rules() {
				rows = append(rows, display.RuleRow{
					Name:       r.Name,
					Title:      r.Title,
					Signature:  r.Signature,
					Confidence: r.Confidence,
				})
			}
			display.NewRenderer(cmd.OutOrStdout()).Rules(rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "bootwatch.yml", "path to config file")

	return cmd
}
