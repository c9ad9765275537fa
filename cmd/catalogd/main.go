// Command catalogd serves the item CRUD API backed by PostgreSQL.
//
// Startup order matters: settings are resolved first (fail fast on a
// broken environment), then the bootstrap ensures database, schema and
// connectivity before the HTTP listener opens.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fernandezvara/catalogd/internal/api"
	"github.com/fernandezvara/catalogd/internal/config"
	"github.com/fernandezvara/catalogd/internal/item"
	"github.com/fernandezvara/catalogd/internal/store"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		slog.Error("configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: settings.LogLevel,
	}))

	registry := prometheus.NewRegistry()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.Bootstrap(ctx, store.Config{
		URL:             settings.DSN(),
		AdminURL:        settings.AdminDSN(),
		Database:        settings.DBName,
		Logger:          logger,
		LogQueries:      settings.LogLevel <= slog.LevelDebug,
		MetricsRegistry: registry,
	})
	cancel()
	if err != nil {
		logger.Error("bootstrap failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	repo := item.NewRepository(st, logger)
	router := api.NewRouter(logger, repo, st, registry)

	srv := &http.Server{
		Addr:         settings.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", settings.HTTPAddr),
			slog.String("database", settings.DBName),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	}
}
