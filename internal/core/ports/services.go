package ports

import (
	"context"

	"github.com/benchpoint/benchpoint/internal/core/domain"
)

// ObjectStore stores opaque blobs under generated collision-resistant
// keys and hands back publicly reachable URLs.
type ObjectStore interface {
	Put(ctx context.Context, data []byte, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}

// IdentityVerifier maps a bearer token to a user id. Token issuance
// lives in the external auth service; only verification crosses into
// this process.
type IdentityVerifier interface {
	Verify(token string) (int64, error)
}

// EventPublisher publishes marker lifecycle events to a message broker.
type EventPublisher interface {
	PublishMarkerCreated(ctx context.Context, m *domain.Marker) error
	PublishMarkerUpdated(ctx context.Context, m *domain.Marker) error
	PublishMarkerDeleted(ctx context.Context, id int64) error
}

// CacheService provides byte-level key/value access with TTLs.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
