package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/masterplan/internal/app"
	"github.com/alexanderramin/masterplan/internal/cli/formatter"
)

func newTreeCmd(opts *globalOptions) *cobra.Command {
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "tree <project-id-or-code>",
		Short: "Print a project's classification tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), cfg, func(a *app.App) error {
				ctx := cmd.Context()
				p, err := a.Projects.Get(ctx, args[0])
				if err != nil {
					return err
				}
				forest, err := a.Classifications.TreeByRef(ctx, args[0], activeOnly)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatClassificationTree(p, forest))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active-only", false, "hide inactive classifications")
	return cmd
}
