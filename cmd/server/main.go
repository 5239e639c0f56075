package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/nacebel/internal/config"
	"github.com/JonMunkholm/nacebel/internal/dataset"
	"github.com/JonMunkholm/nacebel/internal/logging"
	"github.com/JonMunkholm/nacebel/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"dataset_source", cfg.Dataset.Source,
		"refresh_interval", cfg.Dataset.RefreshInterval,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()
	src, err := dataset.NewSourceFromConfig(ctx, cfg.Dataset)
	if err != nil {
		slog.Error("failed to create dataset source", "error", err)
		os.Exit(1)
	}
	defer dataset.Close(src)

	cache := dataset.NewCache(src, dataset.Options{
		MaxAge:      cfg.Dataset.RefreshInterval,
		LoadTimeout: cfg.Dataset.LoadTimeout,
		MaxBytes:    cfg.Dataset.MaxBytes,
	})

	server := web.NewServer(cache, cfg)

	// Background refresh; a failed warm-up is logged and retried on first request
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go cache.StartRefreshScheduler(jobCtx, dataset.SchedulerConfig{
		Interval:   cfg.Dataset.RefreshInterval,
		RunOnStart: cfg.Dataset.WarmOnStart,
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		cancelJobs()
		cache.Wait()
		os.Exit(1)
	}

	cache.Wait()
	slog.Info("server stopped")
}
