package handlers

import (
	"context"

	"github.com/spf13/cobra"
)

// NewMigrateCommand wraps the schema migration runner. It needs no services, so it is
// registered separately from the ledger commands.
func NewMigrateCommand(run func(ctx context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := run(cmd.Context()); err != nil {
				return handleError(commandLogger(cmd), "migrate", err)
			}
			return nil
		},
	}
}
