package geospatial

import (
	"math"
	"testing"
)

func TestHaversine_KnownDistances(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantMeters             float64
		tolerance              float64
	}{
		{"same point", 43.263, -2.935, 43.263, -2.935, 0, 0.001},
		// Bilbao Abando to Bilbao Casco Viejo, roughly 750 m
		{"short hop", 43.2609, -2.9253, 43.2569, -2.9236, 460, 30},
		// Madrid to Barcelona, ~505 km great circle
		{"city pair", 40.4168, -3.7038, 41.3874, 2.1686, 505000, 5000},
		{"equator degree", 0, 0, 0, 1, 111195, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Haversine(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			if math.Abs(got-tc.wantMeters) > tc.tolerance {
				t.Errorf("Haversine = %.1f m, want %.1f ± %.1f", got, tc.wantMeters, tc.tolerance)
			}
		})
	}
}

func TestHaversine_Symmetry(t *testing.T) {
	a := Haversine(55.75, 37.61, 43.26, -2.93)
	b := Haversine(43.26, -2.93, 55.75, 37.61)
	if math.Abs(a-b) > 1e-6 {
		t.Errorf("distance not symmetric: %v vs %v", a, b)
	}
}
