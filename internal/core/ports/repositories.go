package ports

import (
	"context"

	"github.com/benchpoint/benchpoint/internal/core/domain"
)

// MarkerRepository persists markers with point geometry and answers
// radius queries on the geodesic (ellipsoidal) distance model.
type MarkerRepository interface {
	// Insert assigns id and creation timestamp and returns the full
	// persisted row.
	Insert(ctx context.Context, m *domain.NewMarker) (*domain.Marker, error)

	// FindWithinRadius returns every marker within radiusMeters of the
	// point, nearest first, ties broken by id ascending. Each result
	// carries its distance in meters.
	FindWithinRadius(ctx context.Context, lat, lng, radiusMeters float64) ([]domain.Marker, error)

	// GetByID returns a marker or domain.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Marker, error)

	// ListByOwner returns a user's markers, newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Marker, error)

	// Update applies the minimal field set. An empty change-set returns
	// domain.ErrNoFields without touching the database; an unknown id
	// returns domain.ErrNotFound.
	Update(ctx context.Context, id int64, upd *domain.MarkerUpdate) (*domain.Marker, error)

	// Delete removes a marker, reporting whether a row existed.
	Delete(ctx context.Context, id int64) (bool, error)

	// ListImageURLs returns every stored image URL, for orphan sweeps.
	ListImageURLs(ctx context.Context) ([]string, error)
}
