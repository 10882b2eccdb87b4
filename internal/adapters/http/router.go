package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/benchpoint/benchpoint/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP. Backed by Valkey
	// when configured so limits survive restarts and hold across
	// replicas; falls back to in-memory storage otherwise.
	limiterCfg := limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}
	if deps.Limiter != nil {
		limiterCfg.Storage = deps.Limiter
	}
	app.Use(limiter.New(limiterCfg))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout. /markers/nearby and
	// /markers/me must register before /markers/:id so Fiber never
	// swallows them as an id segment.
	v1 := app.Group("/v1")
	auth := RequireAuth(deps)

	v1.Get("/markers/nearby", timeout.NewWithContext(NearbyMarkersHandler(deps), 15*time.Second))
	v1.Get("/markers/me", auth, timeout.NewWithContext(MyMarkersHandler(deps), 15*time.Second))
	v1.Get("/markers/:id", timeout.NewWithContext(GetMarkerHandler(deps), 15*time.Second))
	v1.Post("/markers", auth, timeout.NewWithContext(CreateMarkerHandler(deps), 30*time.Second))
	v1.Put("/markers/:id", auth, timeout.NewWithContext(UpdateMarkerHandler(deps), 15*time.Second))
	v1.Patch("/markers/:id", auth, timeout.NewWithContext(UpdateMarkerHandler(deps), 15*time.Second))
	v1.Delete("/markers/:id", auth, timeout.NewWithContext(DeleteMarkerHandler(deps), 15*time.Second))

	// GraphQL (read-only marker queries)
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket marker event feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
