package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/stage/internal/app"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [entries...]",
		Short: "Show the steps each matrix entry would run",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			noCoverage, _ := cmd.Flags().GetBool("no-coverage")
			return c.app.Plan(cmd.Context(), app.PlanOptions{
				Only:       args,
				NoCoverage: noCoverage,
			})
		},
	}
	cmd.Flags().Bool("no-coverage", false, "Leave the coverage step out of the plan")
	return cmd
}
