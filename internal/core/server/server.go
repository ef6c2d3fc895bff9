package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammed-shakir/parkmap/internal/core/config"
	"github.com/mohammed-shakir/parkmap/internal/core/health"
	middleware "github.com/mohammed-shakir/parkmap/internal/core/middleware"
	"github.com/mohammed-shakir/parkmap/internal/core/router"
)

// NewHandler wires middleware, health, metrics and the map API.
func NewHandler(cfg config.Config, logger *slog.Logger, api *router.API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger, cfg.ParkName))
	r.Use(middleware.CORS())

	r.Get("/healthz", health.Liveness())
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	api.Mount(r)
	return r
}

// sets up http and serves until ctx is done
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, api *router.API) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewHandler(cfg, logger, api),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
