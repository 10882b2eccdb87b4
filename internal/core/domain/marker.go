package domain

import (
	"strings"
	"time"
)

// Marker is a user-posted point of interest.
type Marker struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	Username    string       `json:"username,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    GeoJSONPoint `json:"location"`
	ImageURL    *string      `json:"image_url"`
	Distance    *float64     `json:"distance_m,omitempty"` // computed field, meters
	CreatedAt   time.Time    `json:"created_at"`
}

// NewMarker is the validated input for marker creation.
type NewMarker struct {
	OwnerID     int64
	Title       string
	Description string
	Lat         float64
	Lng         float64
	ImageURL    *string
}

// Validate checks the creation input before it reaches storage.
func (n *NewMarker) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return ValidateCoordinates(n.Lat, n.Lng)
}

// MarkerUpdate carries requested field changes. A nil field means
// "leave as is".
type MarkerUpdate struct {
	Title       *string
	Description *string
	Lat         *float64
	Lng         *float64
}

// HasLocation reports whether a complete coordinate pair was supplied.
func (u *MarkerUpdate) HasLocation() bool {
	return u.Lat != nil && u.Lng != nil
}

// PartialLocation reports whether exactly one coordinate was supplied.
// A lone coordinate never mutates the stored location.
func (u *MarkerUpdate) PartialLocation() bool {
	return (u.Lat != nil) != (u.Lng != nil)
}

// Empty reports whether the update carries no applicable change. A lone
// coordinate does not count: it is ignored, never applied to one axis.
func (u *MarkerUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && !u.HasLocation()
}

// Validate checks the applicable fields of the update.
func (u *MarkerUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if u.HasLocation() {
		return ValidateCoordinates(*u.Lat, *u.Lng)
	}
	return nil
}
