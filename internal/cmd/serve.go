package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/modelout/internal/server"
)

// shutdownTimeout bounds how long in-flight requests may finish
const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve resolutions over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  GET /health
  GET /api/v1/profiles
  GET /api/v1/resolve?model=&format=&root=&sub=&valid_time=&domain=
  GET /api/v1/history?limit=

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: serveCommand,
	}

	cmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	return cmd
}

func serveCommand(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if addr := changedString(cmd, "addr"); addr != nil {
		e.cfg.Server.Addr = *addr
	}

	opts := server.Options{
		Registry:    e.reg,
		Defaults:    e.cfg.Defaults,
		Logger:      e.log,
		ReadTimeout: e.cfg.Server.ReadTimeout,
	}
	store, err := e.openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		opts.History = store
	}
	srv := server.New(opts)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(e.cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	e.log.LogInfo("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
