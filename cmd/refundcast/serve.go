package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgehrsitz/refundcast/internal/api"
	"github.com/rgehrsitz/refundcast/internal/calculation"
	"github.com/rgehrsitz/refundcast/internal/logging"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the forecast HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		pretty, _ := cmd.Flags().GetBool("log-pretty")
		level := "info"
		if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
			level = "debug"
		}
		logger := logging.New(logging.Config{Level: level, Pretty: pretty, Out: cmd.ErrOrStderr()})

		engine := calculation.NewForecastEngine()
		engine.SetLogger(logging.NewAdapter(logger, "engine"))
		srv := api.NewServer(addr, api.NewHandler(engine, logger, version))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

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

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
}
