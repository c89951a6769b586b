// ABOUTME: Entry point for the decompression planner backend service
// ABOUTME: Wires config, cache, metrics, and the rate-limited HTTP API

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

	"github.com/arthurportas/tech-diving-app/backend/cache"
	"github.com/arthurportas/tech-diving-app/backend/config"
	"github.com/arthurportas/tech-diving-app/backend/handlers"
	"github.com/arthurportas/tech-diving-app/backend/logger"
	"github.com/arthurportas/tech-diving-app/backend/metrics"
	"github.com/arthurportas/tech-diving-app/backend/middleware"
	"github.com/arthurportas/tech-diving-app/backend/models"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting decompression planner", "model", handlers.ModelName, "version", handlers.Version)
	slog.Info("Planning defaults",
		"gf_low", cfg.DefaultGFLow,
		"gf_high", cfg.DefaultGFHigh,
		"last_stop", cfg.DefaultLastStop,
		"deco_o2", cfg.DefaultDecoO2Percent)
	if len(cfg.CORSAllowedOrigins) == 0 {
		slog.Info("CORS disabled, cross-origin requests will be blocked")
	} else {
		slog.Info("CORS enabled", "origins", cfg.CORSAllowedOrigins)
	}

	// Initialize cache
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	c := cache.New[*models.PlanResult](cacheTTL)
	defer c.Close()
	slog.Info("Plan cache initialized", "ttl", cacheTTL)

	m := metrics.NewPlannerMetrics(metrics.NewRegistry())
	h := handlers.NewHandler(cfg, c, m)

	var limits handlers.Limits
	if cfg.RateLimitEnabled {
		limits.Plan = middleware.NewRateLimiter(cfg.RateLimitPlan, time.Minute)
		limits.Default = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
		slog.Info("Rate limiting enabled", "plan", cfg.RateLimitPlan, "default", cfg.RateLimitDefault)
	} else {
		slog.Warn("Rate limiting disabled")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.NewMux(limits),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
