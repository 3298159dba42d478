package commands

import (
	"fmt"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/app"
	"github.com/spf13/cobra"
)

// NewMigrateCommand applies pending schema migrations and exits.
func NewMigrateCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Apply pending migrations to the database selected by database_url.
serve also migrates on start; this is for running it as a separate step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.OpenStore(cmd.Context(), opts.Config)
			if err != nil {
				return err
			}
			if err := db.Close(); err != nil {
				return fmt.Errorf("close database: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
