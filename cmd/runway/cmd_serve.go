package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-runway/internal/calculation"
	"github.com/rpgo/retirement-runway/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	cfg := server.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Starts the HTTP server with /health, /metrics and the /api/retirement endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := root.logger(cmd.ErrOrStderr())
			store, err := root.store()
			if err != nil {
				return err
			}

			server.Version = version
			srv, err := server.NewServer(cfg, server.Dependencies{
				Store:  store,
				Engine: calculation.NewProjectionEngine(nil, nil, nil, calculation.NewZerologLogger(logger)),
				Logger: logger,
			})
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&cfg.Host, "host", cfg.Host, "HTTP server host")
	cmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port (env RUNWAY_HTTP_PORT)")
	cmd.Flags().DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "Per-request simulation timeout")
	return cmd
}
