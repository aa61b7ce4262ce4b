package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/integration"
)

func newDisintegrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "disintegrate NAME...",
		Aliases: []string{"remove"},
		Short:   "Remove MCP servers from client configurations",
		Long: `Remove MCP servers from the targeted clients.

For Codex, environment variables that no remaining server references are also
removed from the shell environment allow-list. Removing a server that is not
configured is not an error.`,
		Example: `  # Remove a server everywhere
  mcpsync disintegrate github

  # Remove it from Goose only
  mcpsync disintegrate github --client goose`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			report := root.app.dispatcher.Disintegrate(c.Context(), integration.Request{
				Names:   args,
				Clients: root.clients,
			})
			if !root.quiet {
				printReport(c.OutOrStdout(), report, "removed", "not configured")
			}
			return reportError(report)
		},
	}
}
