package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lamim/horrorforge/internal/metrics"
	"github.com/lamim/horrorforge/internal/story"
	"github.com/lamim/horrorforge/internal/web"
)

var serveAddr string

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the story form over HTTP",
		Long: `Start the web form and JSON API:
  GET  /                 story form
  POST /generate         form submission
  POST /api/v1/stories   JSON variant
  GET  /health           liveness
  GET  /metrics          Prometheus metrics (when enabled)`,
		RunE: runServe,
	}

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")

	return serveCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.cfg
	logger := rt.logger

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	collector := metrics.NewCollector()
	service := story.NewService(rt.provider, cfg.Story, collector, logger)
	router := web.New(cfg, service, collector, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Horrorforge starting",
		"version", Version,
		"addr", cfg.Server.Addr,
		"provider", cfg.Model.Provider,
		"model", cfg.Model.ModelName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	logger.Info("Server exited")
	return nil
}
