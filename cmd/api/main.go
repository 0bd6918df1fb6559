// Package main is the entry point for the garage inventory API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/garage-inventory/internal/config"
	"github.com/pkordes/garage-inventory/internal/handler"
	"github.com/pkordes/garage-inventory/internal/metrics"
	"github.com/pkordes/garage-inventory/internal/middleware"
	"github.com/pkordes/garage-inventory/internal/repo"
	"github.com/pkordes/garage-inventory/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// --- Storage ----------------------------------------------------------
	garageRepo, closeStore, err := openGarageStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	catalogDB, err := openCatalog(ctx, cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer catalogDB.Close()

	catalogRepo := repo.NewCatalogRepo(catalogDB)
	dictRepo := repo.NewDictionaryRepo(catalogDB)

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	transferMetrics := metrics.NewTransfers(reg)

	// --- Services ---------------------------------------------------------
	garages := service.NewGarageService(garageRepo, catalogRepo, transferMetrics, logger)
	if err := garages.Load(ctx); err != nil {
		return err
	}
	transfers := service.NewTransferService(garages, catalogRepo, transferMetrics, logger)
	catalog := service.NewCatalogService(catalogRepo, dictRepo)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	srvHandlers := handler.NewServer(garages, transfers, catalog, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", srvHandlers.Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
