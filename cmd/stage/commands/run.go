package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/stage/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [entries...]",
		Short: "Build and test every matrix entry",
		Long: "Run fetches fixtures, provisions an environment, installs dependencies, " +
			"builds and tests the project for each matrix entry. No arguments runs every entry.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parallel, _ := cmd.Flags().GetInt("parallel")
			keepEnv, _ := cmd.Flags().GetBool("keep-env")
			keepFixtures, _ := cmd.Flags().GetBool("keep-fixtures")
			noCoverage, _ := cmd.Flags().GetBool("no-coverage")
			return c.app.Run(cmd.Context(), app.RunOptions{
				Only:         args,
				Parallelism:  parallel,
				KeepEnv:      keepEnv,
				KeepFixtures: keepFixtures,
				NoCoverage:   noCoverage,
			})
		},
	}
	cmd.Flags().IntP("parallel", "p", 1, "Number of matrix entries to run at once")
	cmd.Flags().Bool("keep-env", false, "Keep environments after the run")
	cmd.Flags().Bool("keep-fixtures", false, "Keep extracted fixtures after the run")
	cmd.Flags().Bool("no-coverage", false, "Skip the coverage step")
	return cmd
}
