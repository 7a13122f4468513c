package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aurawell/aurawell-web/internal/analytics"
	"github.com/aurawell/aurawell-web/internal/api"
	"github.com/aurawell/aurawell-web/internal/db"
	"github.com/aurawell/aurawell-web/internal/logger"
	"github.com/aurawell/aurawell-web/internal/ratelimit"
)

var version string

func main() {
	// Initialize OpenTelemetry (OTLP exporter). Configured via env vars:
	// OTEL_SERVICE_NAME, OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_HEADERS
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry()
	if err != nil {
		// Non-fatal: continue without tracing if OTEL env vars not set
		logger.Warn("failed to configure OpenTelemetry", "error", err)
	} else {
		defer otelShutdown()
	}

	config := loadConfig()

	database, err := db.Connect(config.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	defer database.Close()

	if err := database.RunMigrations(); err != nil {
		logger.Fatal("failed to run migrations", "error", err)
	}

	engine := analytics.NewEngine(database, config.Assumptions)
	limiter := ratelimit.New(config.RateLimitRPS, config.RateLimitBurst)

	server := api.NewServer(engine, limiter, version)
	router := server.SetupRoutes()

	// Trace all incoming HTTP requests.
	handler := otelhttp.NewHandler(router, "aurawell-backend")

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", config.Port, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}
