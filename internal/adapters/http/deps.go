package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/benchpoint/benchpoint/internal/adapters/postgres"
	"github.com/benchpoint/benchpoint/internal/adapters/valkey"
	"github.com/benchpoint/benchpoint/internal/core/ports"
	"github.com/benchpoint/benchpoint/internal/core/usecases"
)

// Dependencies holds everything the HTTP handlers need.
type Dependencies struct {
	Markers  *usecases.MarkerService
	Verifier ports.IdentityVerifier
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    *valkey.Cache
	Limiter  fiber.Storage // nil falls back to in-memory limiting
}
