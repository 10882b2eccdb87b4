package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on
// endpoint. Marker data mutates freely and clients must see their own
// writes immediately, so marker reads revalidate on every request.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0"

		case strings.HasPrefix(path, "/v1/markers/me"):
			ttl = "private, no-cache" // Per-user, read-after-write

		case strings.HasPrefix(path, "/v1/markers"):
			ttl = "no-cache" // Always revalidate; ETag handles 304s
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
