package domain

import "math"

// GeoPoint is a geographic coordinate (WGS 84, SRID 4326).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeoJSONPoint is the wire encoding of a point geometry. Coordinates are
// [longitude, latitude] per the GeoJSON convention — the reverse of the
// lat/lng order used in query and form parameters.
type GeoJSONPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewPoint builds a GeoJSON point from a lat/lng pair.
func NewPoint(lat, lng float64) GeoJSONPoint {
	return GeoJSONPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func (p GeoJSONPoint) Lng() float64 { return p.Coordinates[0] }
func (p GeoJSONPoint) Lat() float64 { return p.Coordinates[1] }

// ValidateCoordinates checks that a lat/lng pair is a usable WGS 84 point.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return &ValidationError{Field: "lat", Reason: "must be a finite number in [-90, 90]"}
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return &ValidationError{Field: "lng", Reason: "must be a finite number in [-180, 180]"}
	}
	return nil
}
