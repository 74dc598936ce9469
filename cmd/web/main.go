package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/salesapi"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const (
	version       = "1.0.0"
	sweepInterval = time.Minute
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting application",
		"version", version,
		"addr", cfg.Address(),
		"source", cfg.Source.Endpoint,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	source := salesapi.NewClient(cfg.Source, logger)
	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	go rateLimiter.Run(ctx, sweepInterval)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, source, logger, metrics, rateLimiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.OnShutdown("sales-api", func(context.Context) error {
		logger.Info("closing sales API connections")
		source.Close()
		return nil
	})
	gracefulServer.OnShutdown("rate-limiter", func(context.Context) error {
		cancel()
		return nil
	})

	return gracefulServer.Run(ctx)
}

// newHandler wires the dashboard pipeline behind the middleware chain. The
// metrics middleware sits last so it sees the route matched by the mux.
func newHandler(cfg *config.Config, source services.SalesSource, logger *slog.Logger, metrics *observability.Metrics, limiter *middleware.RateLimiter) http.Handler {
	dashboard := services.NewDashboard(source, logger, metrics)

	srv := server.NewServer(dashboard, logger, metrics, templates.Options{
		Title:          cfg.Dashboard.Title,
		CurrencyPrefix: cfg.Dashboard.CurrencyPrefix,
	})

	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
		middleware.Metrics(metrics),
	)(srv)
}
