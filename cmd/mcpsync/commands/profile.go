package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "profile",
		Short:  "Manage named sets of servers (not implemented)",
		Hidden: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return errors.NewUserError(
				errors.New("profiles are not implemented"),
				"Pass several names to 'mcpsync integrate' instead")
		},
	}
}
