package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/masterplan/internal/app"
	"github.com/alexanderramin/masterplan/internal/cli/formatter"
)

func newDashboardCmd(opts *globalOptions) *cobra.Command {
	var statusID int64
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show project counts by status and progress per project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			var filter *int64
			if cmd.Flags().Changed("status-id") {
				filter = &statusID
			}
			return opts.withApp(cmd.Context(), cfg, func(a *app.App) error {
				ov, err := a.Dashboard.Overview(cmd.Context(), filter)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDashboard(ov.Buckets, ov.Projects))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&statusID, "status-id", 0, "only list projects with this status id")
	return cmd
}
