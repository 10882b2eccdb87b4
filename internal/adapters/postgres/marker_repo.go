package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/benchpoint/benchpoint/internal/core/domain"
)

// MarkerRepo implements ports.MarkerRepository with pgx against a
// PostGIS-enabled database. The location column is geography(Point,4326)
// under a GIST index, so ST_DWithin and ST_Distance operate on geodesic
// meters rather than planar degrees.
type MarkerRepo struct {
	db *DB
}

// NewMarkerRepo creates a new MarkerRepo.
func NewMarkerRepo(db *DB) *MarkerRepo {
	return &MarkerRepo{db: db}
}

// Insert persists a new marker and returns the full row, including the
// assigned id and creation timestamp.
func (r *MarkerRepo) Insert(ctx context.Context, m *domain.NewMarker) (*domain.Marker, error) {
	var (
		out      domain.Marker
		lng, lat float64
	)
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO markers (user_id, title, description, location, image_url)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography, $6)
		RETURNING id, user_id, title, description,
		          ST_X(location::geometry), ST_Y(location::geometry),
		          image_url, created_at
	`, m.OwnerID, m.Title, m.Description, m.Lng, m.Lat, m.ImageURL).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description,
		&lng, &lat, &out.ImageURL, &out.CreatedAt,
	)
	if err != nil {
		return nil, &domain.StorageError{Op: "insert marker", Err: err}
	}
	out.Location = domain.NewPoint(lat, lng)
	return &out, nil
}

// FindWithinRadius returns markers whose geodesic distance to the point
// is within radiusMeters, nearest first, ties broken by id.
func (r *MarkerRepo) FindWithinRadius(ctx context.Context, lat, lng, radiusMeters float64) ([]domain.Marker, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT m.id, m.user_id, u.username, m.title, m.description,
		       ST_X(m.location::geometry), ST_Y(m.location::geometry),
		       m.image_url,
		       ST_Distance(m.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance,
		       m.created_at
		FROM markers m
		JOIN users u ON u.id = m.user_id
		WHERE ST_DWithin(m.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance, m.id
	`, lng, lat, radiusMeters)
	if err != nil {
		return nil, &domain.StorageError{Op: "find within radius", Err: err}
	}
	defer rows.Close()

	var markers []domain.Marker
	for rows.Next() {
		var (
			m          domain.Marker
			mLng, mLat float64
			dist       float64
		)
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Username, &m.Title, &m.Description,
			&mLng, &mLat, &m.ImageURL, &dist, &m.CreatedAt,
		); err != nil {
			return nil, &domain.StorageError{Op: "scan marker", Err: err}
		}
		m.Location = domain.NewPoint(mLat, mLng)
		m.Distance = &dist
		markers = append(markers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "find within radius", Err: err}
	}
	return markers, nil
}

// GetByID returns a single marker with its owner's username.
func (r *MarkerRepo) GetByID(ctx context.Context, id int64) (*domain.Marker, error) {
	var (
		m        domain.Marker
		lng, lat float64
	)
	err := r.db.Pool.QueryRow(ctx, `
		SELECT m.id, m.user_id, u.username, m.title, m.description,
		       ST_X(m.location::geometry), ST_Y(m.location::geometry),
		       m.image_url, m.created_at
		FROM markers m
		JOIN users u ON u.id = m.user_id
		WHERE m.id = $1
	`, id).Scan(
		&m.ID, &m.UserID, &m.Username, &m.Title, &m.Description,
		&lng, &lat, &m.ImageURL, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get marker", Err: err}
	}
	m.Location = domain.NewPoint(lat, lng)
	return &m, nil
}

// ListByOwner returns a user's markers, newest first. The owner already
// knows their own username, so no join here.
func (r *MarkerRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Marker, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, user_id, title, description,
		       ST_X(location::geometry), ST_Y(location::geometry),
		       image_url, created_at
		FROM markers
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, &domain.StorageError{Op: "list by owner", Err: err}
	}
	defer rows.Close()

	var markers []domain.Marker
	for rows.Next() {
		var (
			m        domain.Marker
			lng, lat float64
		)
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Title, &m.Description,
			&lng, &lat, &m.ImageURL, &m.CreatedAt,
		); err != nil {
			return nil, &domain.StorageError{Op: "scan marker", Err: err}
		}
		m.Location = domain.NewPoint(lat, lng)
		markers = append(markers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list by owner", Err: err}
	}
	return markers, nil
}

// Update builds the minimal SET list and applies it in one statement.
// The column fragments are fixed strings; all values go through
// positional placeholders. If both coordinates are present they form a
// single atomic geometry assignment; a lone coordinate was already
// discarded by the caller's policy and never reaches this method's
// change-set.
func (r *MarkerRepo) Update(ctx context.Context, id int64, upd *domain.MarkerUpdate) (*domain.Marker, error) {
	var (
		sets []string
		args []any
		i    = 1
	)
	if upd.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", i))
		args = append(args, *upd.Title)
		i++
	}
	if upd.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", i))
		args = append(args, *upd.Description)
		i++
	}
	if upd.HasLocation() {
		sets = append(sets, fmt.Sprintf("location = ST_SetSRID(ST_MakePoint($%d, $%d), 4326)::geography", i, i+1))
		args = append(args, *upd.Lng, *upd.Lat)
		i += 2
	}

	if len(sets) == 0 {
		return nil, domain.ErrNoFields
	}
	args = append(args, id)

	var (
		m        domain.Marker
		lng, lat float64
	)
	err := r.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE markers SET %s
		WHERE id = $%d
		RETURNING id, user_id, title, description,
		          ST_X(location::geometry), ST_Y(location::geometry),
		          image_url, created_at
	`, strings.Join(sets, ", "), i), args...).Scan(
		&m.ID, &m.UserID, &m.Title, &m.Description,
		&lng, &lat, &m.ImageURL, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "update marker", Err: err}
	}
	m.Location = domain.NewPoint(lat, lng)
	return &m, nil
}

// Delete removes a marker, reporting whether a row existed.
func (r *MarkerRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM markers WHERE id = $1`, id)
	if err != nil {
		return false, &domain.StorageError{Op: "delete marker", Err: err}
	}
	return tag.RowsAffected() > 0, nil
}

// ListImageURLs returns every referenced image URL.
func (r *MarkerRepo) ListImageURLs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT image_url FROM markers WHERE image_url IS NOT NULL
	`)
	if err != nil {
		return nil, &domain.StorageError{Op: "list image urls", Err: err}
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, &domain.StorageError{Op: "scan image url", Err: err}
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
