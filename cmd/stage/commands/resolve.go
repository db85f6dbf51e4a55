package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/stage/internal/app"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [entries...]",
		Short: "Resolve dependency pins and write the lockfile",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Resolve(cmd.Context(), app.ResolveOptions{Only: args})
		},
	}
}
