package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/stage/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove job records and caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tools, _ := cmd.Flags().GetBool("tools")
			all, _ := cmd.Flags().GetBool("all")

			var opts app.CleanOptions
			switch {
			case all:
				opts.Records = true
				opts.Tools = true
			case tools:
				opts.Tools = true
			default:
				opts.Records = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("tools", "t", false, "Clean the channel index cache and kept run directories")
	cmd.Flags().BoolP("all", "a", false, "Clean job records and every cache")

	return cmd
}
