package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/threatscope/core/internal/rules"
)

func RulesCmd(opts *rootOptions) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return fmt.Errorf("rules failed: %w", err)
			}
			for _, r := range engine.Rules() {
				if group != "" && r.Group != rules.Group(group) {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", r.ID, r.Group, r.Category, r.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "Only list rules of this group")
	return cmd
}
