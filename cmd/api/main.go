package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/benchpoint/benchpoint/internal/adapters/http"
	natsadapter "github.com/benchpoint/benchpoint/internal/adapters/nats"
	"github.com/benchpoint/benchpoint/internal/adapters/objectstore"
	"github.com/benchpoint/benchpoint/internal/adapters/postgres"
	"github.com/benchpoint/benchpoint/internal/adapters/token"
	"github.com/benchpoint/benchpoint/internal/adapters/valkey"
	"github.com/benchpoint/benchpoint/internal/core/ports"
	"github.com/benchpoint/benchpoint/internal/core/usecases"
	"github.com/benchpoint/benchpoint/internal/pkg/config"
	"github.com/benchpoint/benchpoint/internal/pkg/logging"
	"github.com/benchpoint/benchpoint/internal/pkg/metrics"
	"github.com/benchpoint/benchpoint/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("benchpoint-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Image store
	images, err := objectstore.New(cfg.Storage)
	if err != nil {
		log.Fatalf("object store: %v", err)
	}

	// Cache + rate limiter backend
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
	}

	var limiterStore fiber.Storage
	if ls, err := valkey.NewLimiterStorage(cfg.Valkey.Addr, cfg.Valkey.LimiterDB); err != nil {
		slog.Warn("valkey limiter storage unavailable, using in-memory limits", "error", err)
	} else {
		limiterStore = ls
		defer ls.Close()
	}

	// NATS event publisher
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, marker events disabled", "error", err)
	} else {
		events = pub
		defer pub.Close()
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	markerRepo := postgres.NewMarkerRepo(db)
	markerSvc := usecases.NewMarkerService(markerRepo, images, events)
	verifier := token.NewVerifier(cfg.Auth.JWTSecret)

	deps := &http.Dependencies{
		Markers:  markerSvc,
		Verifier: verifier,
		NATS:     natsConn,
		DB:       db,
		Cache:    cache,
		Limiter:  limiterStore,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    10 * 1024 * 1024, // room for marker image uploads
		AppName:      "BenchPoint API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
