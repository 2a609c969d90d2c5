package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/voxalign/engine"
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/observability"
	"github.com/kbukum/voxalign/server"
	"github.com/kbukum/voxalign/server/endpoint"
	"github.com/kbukum/voxalign/version"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(g *globals) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the attribution API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.settings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				s.Server.Port = port
			}
			log := newLogger(s)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			metrics, shutdownTelemetry, err := observability.Setup(ctx, s.Observability, s.Name, version.Get().Short())
			if err != nil {
				return err
			}
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := shutdownTelemetry(flushCtx); err != nil {
					log.Warn("telemetry shutdown failed", logger.MergeWithError(nil, err))
				}
			}()

			eng, err := engine.New(s, engine.WithLogger(log), engine.WithMetrics(metrics))
			if err != nil {
				return err
			}
			srv := server.New(s.Server, log, server.WithMetrics(metrics))
			endpoint.Register(srv.GinEngine(), eng, log)

			if err := srv.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Stop(stopCtx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "override server.port")
	return cmd
}
