package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/threatscope/core/internal/models"
	"github.com/threatscope/core/internal/rules"
)

func ValidateCmd(opts *rootOptions) *cobra.Command {
	var (
		category string
		asJSON   bool
		strict   bool
	)
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Run the rule catalog against a diagram file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return fmt.Errorf("validate failed: %w", err)
			}
			graph, err := loadDiagram(args[0])
			if err != nil {
				return fmt.Errorf("validate failed: %w", err)
			}

			findings := engine.Evaluate(graph, rules.Context{Category: category})
			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), findings); err != nil {
					return err
				}
			} else {
				printFindings(cmd.OutOrStdout(), findings)
			}

			if n := models.CountSeverity(findings, models.SeverityError); strict && n > 0 {
				return fmt.Errorf("validate failed: %d errors", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Scenario category (enables category rules such as web)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print findings as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any error finding is reported")
	return cmd
}
