package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/masterplan/internal/app"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			// Opening the database applies pending migrations.
			return opts.withApp(cmd.Context(), cfg, func(a *app.App) error {
				fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", a.DB.Dialect)
				return nil
			})
		},
	}
}
