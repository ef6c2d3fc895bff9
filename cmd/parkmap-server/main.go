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

	"github.com/joho/godotenv"

	"github.com/mohammed-shakir/parkmap/internal/app"
	"github.com/mohammed-shakir/parkmap/internal/core/config"
	"github.com/mohammed-shakir/parkmap/internal/core/observability"
	"github.com/mohammed-shakir/parkmap/internal/core/server"
	"github.com/mohammed-shakir/parkmap/internal/logger"
	"github.com/mohammed-shakir/parkmap/internal/metrics"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	envErr := godotenv.Load()
	cfg := config.FromEnv()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Park:      cfg.ParkName,
		Component: "parkmap-server",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)
	if envErr != nil {
		appLog.Debug("no .env file loaded", "err", envErr)
	}

	observability.SetPark(cfg.ParkName)
	observability.ExposeBuildInfo(Version)
	appLog.Info("starting parkmap-server",
		"addr", cfg.Addr,
		"version", Version,
		"data_dir", cfg.DataDir,
		"events", cfg.Events.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, appLog)
	if err != nil {
		appLog.Error("park setup failed", "err", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			appLog.Warn("events sink close", "err", err)
		}
	}()

	if cfg.MetricsEnabled {
		startMetrics(ctx, cfg, appLog)
	}

	if err := server.Run(ctx, cfg, appLog, a.API); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}

func startMetrics(ctx context.Context, cfg config.Config, log *slog.Logger) {
	p := metrics.Init(metrics.Config{
		Build: metrics.BuildInfo{
			Version:   Version,
			Revision:  os.Getenv("BUILD_REVISION"),
			BuildDate: os.Getenv("BUILD_DATE"),
		},
	})

	mux := http.NewServeMux()
	mux.Handle(cfg.MetricsPath, p.Handler())
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("metrics listen", "addr", cfg.MetricsAddr, "path", cfg.MetricsPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server exited", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("metrics shutdown", "err", err)
		}
	}()
}
