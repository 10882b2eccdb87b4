package usecases

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/benchpoint/benchpoint/internal/core/domain"
	"github.com/benchpoint/benchpoint/internal/core/ports"
)

var errNotConfigured = errors.New("not configured")

// DefaultRadiusMeters is used when a nearby search supplies no radius.
const DefaultRadiusMeters = 5000

// MarkerService is the operation surface consumed by the API boundary.
// It orchestrates the repository, the image store, and the ownership
// guard; it holds no cross-request state.
type MarkerService struct {
	markers ports.MarkerRepository
	images  ports.ObjectStore
	events  ports.EventPublisher
	guard   OwnershipGuard
}

// NewMarkerService creates a new MarkerService. images and events may
// be nil (image uploads rejected / events skipped).
func NewMarkerService(markers ports.MarkerRepository, images ports.ObjectStore, events ports.EventPublisher) *MarkerService {
	return &MarkerService{markers: markers, images: images, events: events}
}

// CreateMarker is the request-level input for Create.
type CreateMarker struct {
	Title       string
	Description string
	Lat         float64
	Lng         float64

	// Optional image payload; stored externally before the row is
	// written, so a marker never exists without its image.
	Image            []byte
	ImageContentType string
}

// Create stores the image (if any) and persists the marker. An image
// store failure aborts the whole operation.
func (s *MarkerService) Create(ctx context.Context, actorID int64, in CreateMarker) (*domain.Marker, error) {
	nm := &domain.NewMarker{
		OwnerID:     actorID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Lat:         in.Lat,
		Lng:         in.Lng,
	}
	if err := nm.Validate(); err != nil {
		return nil, err
	}

	if len(in.Image) > 0 {
		if s.images == nil {
			return nil, &domain.ExternalServiceError{Service: "image store", Err: errNotConfigured}
		}
		url, err := s.images.Put(ctx, in.Image, in.ImageContentType)
		if err != nil {
			return nil, &domain.ExternalServiceError{Service: "image store", Err: err}
		}
		nm.ImageURL = &url
	}

	m, err := s.markers.Insert(ctx, nm)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishMarkerCreated(ctx, m); err != nil {
			slog.Warn("marker event publish failed", "event", "created", "marker_id", m.ID, "error", err)
		}
	}
	return m, nil
}

// Nearby returns markers within radiusMeters of the point, nearest
// first. The radius must be at least one meter; callers resolve an
// absent or unparseable radius to DefaultRadiusMeters beforehand.
func (s *MarkerService) Nearby(ctx context.Context, lat, lng, radiusMeters float64) ([]domain.Marker, error) {
	if err := domain.ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	if radiusMeters < 1 {
		return nil, &domain.ValidationError{Field: "r", Reason: "radius must be at least 1 meter"}
	}
	return s.markers.FindWithinRadius(ctx, lat, lng, radiusMeters)
}

// ByOwner returns the acting user's markers, newest first.
func (s *MarkerService) ByOwner(ctx context.Context, actorID int64) ([]domain.Marker, error) {
	return s.markers.ListByOwner(ctx, actorID)
}

// ByID returns a marker or domain.ErrNotFound. Reads are public.
func (s *MarkerService) ByID(ctx context.Context, id int64) (*domain.Marker, error) {
	return s.markers.GetByID(ctx, id)
}

// Update applies a partial update after the fetch → guard sequence.
// A lone coordinate is ignored (logged, never applied to one axis);
// an update with nothing to change surfaces as domain.ErrNoFields.
func (s *MarkerService) Update(ctx context.Context, actorID, id int64, upd *domain.MarkerUpdate) (*domain.Marker, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	if upd.PartialLocation() {
		slog.Warn("ignoring partial coordinate update", "marker_id", id, "actor_id", actorID)
	}

	existing, err := s.markers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Allow(existing.UserID, actorID); err != nil {
		return nil, err
	}

	// The row may vanish between fetch and mutate; the repository
	// reports that as ErrNotFound rather than a silent success.
	m, err := s.markers.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishMarkerUpdated(ctx, m); err != nil {
			slog.Warn("marker event publish failed", "event", "updated", "marker_id", m.ID, "error", err)
		}
	}
	return m, nil
}

// Delete removes a marker after the fetch → guard sequence. Deleting an
// id that no longer exists is ErrNotFound, never a silent success.
func (s *MarkerService) Delete(ctx context.Context, actorID, id int64) error {
	existing, err := s.markers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Allow(existing.UserID, actorID); err != nil {
		return err
	}

	ok, err := s.markers.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}

	if s.events != nil {
		if err := s.events.PublishMarkerDeleted(ctx, id); err != nil {
			slog.Warn("marker event publish failed", "event", "deleted", "marker_id", id, "error", err)
		}
	}
	return nil
}
