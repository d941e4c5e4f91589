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

	"cravecart-api/config"
	"cravecart-api/events"
	"cravecart-api/handlers"
	"cravecart-api/imagefetch"
	"cravecart-api/middleware"
	"cravecart-api/routes"
	"cravecart-api/telemetry"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

const serviceName = "cravecart-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	shutdownTracing, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, serviceName, handlers.ServiceVersion)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(logger, "tracer provider", shutdownTracing)

	metricsHandler, shutdownMetrics, err := telemetry.InitMeterProvider(serviceName, handlers.ServiceVersion)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(logger, "meter provider", shutdownMetrics)

	metrics, err := telemetry.NewMetrics(otel.Meter(serviceName))
	if err != nil {
		return err
	}

	db, err := config.OpenDB(cfg.DBPath)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	logger.Info("database ready", "path", cfg.DBPath)

	admin, err := config.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword, logger)
	if err != nil {
		return err
	}
	if cfg.SeedCatalog {
		if err := config.SeedCatalog(db, admin, logger); err != nil {
			return err
		}
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer func() { _ = kafka.Close() }()
		publisher = kafka
		logger.Info("publishing order events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	router, err := routes.NewRouter(routes.Deps{
		DB:          db,
		Logger:      logger,
		Tokens:      middleware.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
		Publisher:   publisher,
		Images:      imagefetch.New(cfg.UploadDir, nil, logger),
		Metrics:     metrics,
		MetricsHTTP: metricsHandler,
		UploadDir:   cfg.UploadDir,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func shutdownWithTimeout(logger *slog.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Warn("shutdown failed", "component", name, "error", err)
	}
}
