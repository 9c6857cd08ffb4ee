package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"pennywise/internal/backend"
	"pennywise/internal/cli"
	apphttp "pennywise/internal/http"
	"pennywise/internal/log"
	"pennywise/internal/middleware/ratelimit"
)

func main() {
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	res, err := backend.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Cleanup failed", "error", err)
		}
	}()

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:     ":" + cfg.Port,
		Logger:   logger,
		Location: res.Location,
		Clock:    res.Clock,
		Database: res.Store,
		RateLimit: ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
		},
		TrustedProxies: cfg.TrustedProxies,
	}, res.Services)
	if err != nil {
		logger.Error("Failed to create HTTP server", "error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting pennywise server",
			"port", cfg.Port,
			"timezone", res.Location.String(),
			"amqp", res.AMQP != nil,
			"redis", cfg.Cache.RedisURL != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", "error", err, "port", cfg.Port)
			_ = res.Cleanup()
			os.Exit(1)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped gracefully")
}
