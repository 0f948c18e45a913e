package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wolfman30/listing-lead-relay/internal/app/bootstrap"
	appconfig "github.com/wolfman30/listing-lead-relay/internal/config"
	"github.com/wolfman30/listing-lead-relay/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting listing-lead-relay API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"mail_provider", cfg.MailProvider,
		"lead_path", cfg.LeadPath,
	)

	app := bootstrap.BuildApp(context.Background(), cfg, logger)
	defer app.Close()

	srv := newServer(cfg, app.Handler)

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// newServer sizes the write timeout so a slow relay call can still answer.
func newServer(cfg *appconfig.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RelayTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// shutdownTimeout lets an in-flight relay call finish.
func shutdownTimeout(cfg *appconfig.Config) time.Duration {
	if d := cfg.RelayTimeout + 5*time.Second; d > 30*time.Second {
		return d
	}
	return 30 * time.Second
}
