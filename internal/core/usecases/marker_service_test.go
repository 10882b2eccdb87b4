package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/benchpoint/benchpoint/internal/core/domain"
)

// ---- Mocks ----

type mockMarkerRepo struct {
	insertFn        func(ctx context.Context, m *domain.NewMarker) (*domain.Marker, error)
	findRadiusFn    func(ctx context.Context, lat, lng, radius float64) ([]domain.Marker, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.Marker, error)
	listByOwnerFn   func(ctx context.Context, ownerID int64) ([]domain.Marker, error)
	updateFn        func(ctx context.Context, id int64, upd *domain.MarkerUpdate) (*domain.Marker, error)
	deleteFn        func(ctx context.Context, id int64) (bool, error)
	listImageURLsFn func(ctx context.Context) ([]string, error)
}

func (m *mockMarkerRepo) Insert(ctx context.Context, nm *domain.NewMarker) (*domain.Marker, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, nm)
	}
	return &domain.Marker{ID: 1, UserID: nm.OwnerID, Title: nm.Title, Description: nm.Description,
		Location: domain.NewPoint(nm.Lat, nm.Lng), ImageURL: nm.ImageURL}, nil
}
func (m *mockMarkerRepo) FindWithinRadius(ctx context.Context, lat, lng, radius float64) ([]domain.Marker, error) {
	if m.findRadiusFn != nil {
		return m.findRadiusFn(ctx, lat, lng, radius)
	}
	return nil, nil
}
func (m *mockMarkerRepo) GetByID(ctx context.Context, id int64) (*domain.Marker, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}
func (m *mockMarkerRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Marker, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}
func (m *mockMarkerRepo) Update(ctx context.Context, id int64, upd *domain.MarkerUpdate) (*domain.Marker, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, upd)
	}
	return nil, domain.ErrNotFound
}
func (m *mockMarkerRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return false, nil
}
func (m *mockMarkerRepo) ListImageURLs(ctx context.Context) ([]string, error) {
	if m.listImageURLsFn != nil {
		return m.listImageURLsFn(ctx)
	}
	return nil, nil
}

type mockObjectStore struct {
	putFn func(ctx context.Context, data []byte, contentType string) (string, error)
}

func (m *mockObjectStore) Put(ctx context.Context, data []byte, ct string) (string, error) {
	if m.putFn != nil {
		return m.putFn(ctx, data, ct)
	}
	return "https://img.example.com/abc.jpg", nil
}
func (m *mockObjectStore) Delete(ctx context.Context, key string) error { return nil }
func (m *mockObjectStore) List(ctx context.Context) ([]string, error)   { return nil, nil }

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

// ---- Create ----

func TestCreate_TrimsTitleAndDefaults(t *testing.T) {
	var inserted *domain.NewMarker
	repo := &mockMarkerRepo{
		insertFn: func(ctx context.Context, nm *domain.NewMarker) (*domain.Marker, error) {
			inserted = nm
			return &domain.Marker{ID: 1, UserID: nm.OwnerID, Title: nm.Title}, nil
		},
	}
	svc := NewMarkerService(repo, nil, nil)

	_, err := svc.Create(context.Background(), 9, CreateMarker{Title: "  Fountain  ", Lat: 43.2, Lng: -2.9})
	if err != nil {
		t.Fatal(err)
	}
	if inserted.Title != "Fountain" {
		t.Errorf("title not trimmed: %q", inserted.Title)
	}
	if inserted.Description != "" {
		t.Errorf("description should default empty, got %q", inserted.Description)
	}
	if inserted.ImageURL != nil {
		t.Error("no image given, ImageURL should be nil")
	}
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	svc := NewMarkerService(&mockMarkerRepo{}, nil, nil)

	var verr *domain.ValidationError
	_, err := svc.Create(context.Background(), 9, CreateMarker{Title: "   ", Lat: 1, Lng: 2})
	if !errors.As(err, &verr) || verr.Field != "title" {
		t.Errorf("blank title: got %v", err)
	}

	_, err = svc.Create(context.Background(), 9, CreateMarker{Title: "ok", Lat: 91, Lng: 2})
	if !errors.As(err, &verr) || verr.Field != "lat" {
		t.Errorf("bad latitude: got %v", err)
	}
}

func TestCreate_ImageStoreFailureAbortsInsert(t *testing.T) {
	inserted := false
	repo := &mockMarkerRepo{
		insertFn: func(ctx context.Context, nm *domain.NewMarker) (*domain.Marker, error) {
			inserted = true
			return &domain.Marker{ID: 1}, nil
		},
	}
	store := &mockObjectStore{
		putFn: func(ctx context.Context, data []byte, ct string) (string, error) {
			return "", errors.New("bucket unreachable")
		},
	}
	svc := NewMarkerService(repo, store, nil)

	_, err := svc.Create(context.Background(), 9, CreateMarker{
		Title: "ok", Lat: 1, Lng: 2, Image: []byte{0xff}, ImageContentType: "image/jpeg",
	})

	var eserr *domain.ExternalServiceError
	if !errors.As(err, &eserr) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if inserted {
		t.Error("marker row written despite image store failure")
	}
}

func TestCreate_StoresImageURL(t *testing.T) {
	var inserted *domain.NewMarker
	repo := &mockMarkerRepo{
		insertFn: func(ctx context.Context, nm *domain.NewMarker) (*domain.Marker, error) {
			inserted = nm
			return &domain.Marker{ID: 1, ImageURL: nm.ImageURL}, nil
		},
	}
	svc := NewMarkerService(repo, &mockObjectStore{}, nil)

	m, err := svc.Create(context.Background(), 9, CreateMarker{
		Title: "ok", Lat: 1, Lng: 2, Image: []byte{0xff}, ImageContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatal(err)
	}
	if inserted.ImageURL == nil || *inserted.ImageURL != "https://img.example.com/abc.jpg" {
		t.Errorf("image url not threaded through: %v", inserted.ImageURL)
	}
	if m.ImageURL == nil {
		t.Error("result lost image url")
	}
}

// ---- Nearby ----

func TestNearby_ValidatesInput(t *testing.T) {
	svc := NewMarkerService(&mockMarkerRepo{}, nil, nil)

	var verr *domain.ValidationError
	if _, err := svc.Nearby(context.Background(), 95, 0, 500); !errors.As(err, &verr) {
		t.Errorf("bad latitude accepted: %v", err)
	}
	if _, err := svc.Nearby(context.Background(), 0, 0, 0); !errors.As(err, &verr) || verr.Field != "r" {
		t.Errorf("zero radius accepted: %v", err)
	}
	if _, err := svc.Nearby(context.Background(), 0, 0, -10); !errors.As(err, &verr) {
		t.Errorf("negative radius accepted: %v", err)
	}
}

func TestNearby_OriginIsValid(t *testing.T) {
	called := false
	repo := &mockMarkerRepo{
		findRadiusFn: func(ctx context.Context, lat, lng, radius float64) ([]domain.Marker, error) {
			called = true
			if lat != 0 || lng != 0 {
				t.Errorf("coordinates mangled: %v, %v", lat, lng)
			}
			return []domain.Marker{}, nil
		},
	}
	svc := NewMarkerService(repo, nil, nil)

	if _, err := svc.Nearby(context.Background(), 0, 0, 500); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("repository never queried for (0,0)")
	}
}

// ---- Update ----

func existingMarker(owner int64) *domain.Marker {
	return &domain.Marker{ID: 5, UserID: owner, Title: "old", Location: domain.NewPoint(1, 2)}
}

func TestUpdate_ForbiddenForNonOwner(t *testing.T) {
	repo := &mockMarkerRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Marker, error) {
			return existingMarker(42), nil
		},
	}
	svc := NewMarkerService(repo, nil, nil)

	_, err := svc.Update(context.Background(), 7, 5, &domain.MarkerUpdate{Title: str("new")})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdate_NotFoundBeforeForbidden(t *testing.T) {
	// Asking about someone else's nonexistent marker reveals only that
	// it does not exist.
	svc := NewMarkerService(&mockMarkerRepo{}, nil, nil)

	_, err := svc.Update(context.Background(), 7, 999, &domain.MarkerUpdate{Title: str("new")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_PartialCoordinateIgnored(t *testing.T) {
	var applied *domain.MarkerUpdate
	repo := &mockMarkerRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Marker, error) {
			return existingMarker(7), nil
		},
		updateFn: func(ctx context.Context, id int64, upd *domain.MarkerUpdate) (*domain.Marker, error) {
			applied = upd
			return existingMarker(7), nil
		},
	}
	svc := NewMarkerService(repo, nil, nil)

	// Title plus a lone latitude: the title lands, the location stays.
	_, err := svc.Update(context.Background(), 7, 5, &domain.MarkerUpdate{
		Title: str("renamed"), Lat: f64(50),
	})
	if err != nil {
		t.Fatal(err)
	}
	if applied == nil || applied.Title == nil {
		t.Fatal("title change not applied")
	}
	if applied.HasLocation() {
		t.Error("lone coordinate reached the repository as a full pair")
	}
}

func TestUpdate_EmptyUpdateIsNoFields(t *testing.T) {
	repo := &mockMarkerRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Marker, error) {
			return existingMarker(7), nil
		},
		updateFn: func(ctx context.Context, id int64, upd *domain.MarkerUpdate) (*domain.Marker, error) {
			if upd.Empty() {
				return nil, domain.ErrNoFields
			}
			return existingMarker(7), nil
		},
	}
	svc := NewMarkerService(repo, nil, nil)

	_, err := svc.Update(context.Background(), 7, 5, &domain.MarkerUpdate{Lat: f64(50)})
	if !errors.Is(err, domain.ErrNoFields) {
		t.Errorf("expected ErrNoFields, got %v", err)
	}
}

func TestUpdate_RowVanishedDuringMutate(t *testing.T) {
	repo := &mockMarkerRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Marker, error) {
			return existingMarker(7), nil
		},
		updateFn: func(ctx context.Context, id int64, upd *domain.MarkerUpdate) (*domain.Marker, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := NewMarkerService(repo, nil, nil)

	_, err := svc.Update(context.Background(), 7, 5, &domain.MarkerUpdate{Title: str("new")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for vanished row, got %v", err)
	}
}

// ---- Delete ----

func TestDelete_OwnerOnly(t *testing.T) {
	repo := &mockMarkerRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Marker, error) {
			return existingMarker(42), nil
		},
	}
	svc := NewMarkerService(repo, nil, nil)

	if err := svc.Delete(context.Background(), 7, 5); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	deleted := false
	repo := &mockMarkerRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Marker, error) {
			return existingMarker(7), nil
		},
		deleteFn: func(ctx context.Context, id int64) (bool, error) {
			deleted = true
			return true, nil
		},
	}
	svc := NewMarkerService(repo, nil, nil)

	if err := svc.Delete(context.Background(), 7, 5); err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Error("repository delete never called")
	}
}

func TestDelete_VanishedRowIsNotFound(t *testing.T) {
	repo := &mockMarkerRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Marker, error) {
			return existingMarker(7), nil
		},
		deleteFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewMarkerService(repo, nil, nil)

	if err := svc.Delete(context.Background(), 7, 5); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
