package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codescope/internal/observability"
	"github.com/Sumatoshi-tech/codescope/internal/server"
)

// NewServeCommand creates the serve subcommand.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd, observability.ModeServe)
			if err != nil {
				return err
			}
			defer a.close()

			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Server.Addr
			}

			srv := server.New(a.engine, server.Options{
				Addr:        addr,
				CORSOrigins: a.cfg.Server.CORSOrigins,
				Defaults:    a.cfg.AnalysisDefaults(),
				Log:         a.log,
				Tracer:      a.providers.Tracer,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
