package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/nobra/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/nobra/internal/transport/httpapi"
)

type serveOptions struct {
	addr string
}

func newServeCmd(app *AppContext) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the score catalog over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "command.serve")

			cfg := app.Config.Server
			if opts.addr != "" {
				cfg.Addr = opts.addr
			}

			// Every served calculation leaves an audit entry in the log.
			app.Service.WithEvents(events.NewLoggingPublisher(app.Logger))

			loaded := app.Service.Reload(ctx)
			logger.Info(ctx, "calculators loaded", "count", loaded, "registered", len(app.Service.IDs(ctx)))

			server := httpapi.New(httpapi.Options{
				Service:   app.Service,
				Config:    cfg,
				Logger:    app.Logger,
				AccessLog: app.access,
			})

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.Run(ctx); err != nil {
				logger.Error(ctx, "server stopped", "error", err)
				return newCommandError("serve", "listening on "+cfg.Addr, err,
					"Check that the address is free or pick another with --addr.")
			}
			logger.Info(context.WithoutCancel(ctx), "server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}
