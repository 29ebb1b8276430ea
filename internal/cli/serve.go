package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/ideaval/internal/server"
)

func newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Run the demo analysis backend",
		Long:        "Serve POST /validate with the built-in example report, so the client can be tried without the hosted API.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationStderrLog: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			addr := listen
			if addr == "" {
				addr = app.Cfg.GetString("serve.addr")
			}
			srv := server.New(app.Log.Named("server"))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "Demo backend listening on %s (POST /validate)\n", addr)
			return srv.Run(ctx, addr, 5*time.Second)
		},
	}
	cmd.Flags().StringVar(&listen, "addr", "", "listen address (overrides serve.addr)")
	return cmd
}
