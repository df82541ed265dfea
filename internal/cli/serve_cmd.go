package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/masterplan/internal/app"
	apphttp "github.com/alexanderramin/masterplan/internal/http"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return opts.withApp(ctx, cfg, func(a *app.App) error {
				return serve(ctx, a, cfg.HTTP.Addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, e.g. :8080")
	return cmd
}

func serve(ctx context.Context, a *app.App, addr string) error {
	srv := apphttp.NewServer(a.RouterConfig())
	a.Log.Info("http server listening", "addr", addr)
	if err := srv.Run(ctx, addr); err != nil {
		a.Log.Error("http server stopped", "error", err)
		return err
	}
	a.Log.Info("http server stopped")
	return nil
}
