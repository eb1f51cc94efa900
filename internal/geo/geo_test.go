package geo

import (
	"math"
	"testing"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
)

func loc(lat, lng float64) models.Location {
	return models.Location{Latitude: lat, Longitude: lng}
}

func speed(v float64) *float64 { return &v }

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Location
		want float64
		tol  float64
	}{
		{"same point", loc(3.139, 101.6869), loc(3.139, 101.6869), 0, 0},
		{"one degree of longitude at equator", loc(0, 0), loc(0, 1), 111.19, 0.01},
		{"one degree of latitude", loc(0, 0), loc(1, 0), 111.19, 0.01},
		{"kuala lumpur to penang", loc(3.139, 101.6869), loc(5.4141, 100.3288), 294.4, 0.1},
		{"antipodes", loc(0, 0), loc(0, 180), math.Pi * EarthRadiusKm, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("DistanceKm() = %v, want %v ± %v", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	points := []models.Location{
		loc(0, 0), loc(3.139, 101.6869), loc(-33.8688, 151.2093), loc(51.5074, -0.1278), loc(89.9, 179.9),
	}
	for _, a := range points {
		for _, b := range points {
			ab, ba := DistanceKm(a, b), DistanceKm(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("asymmetric distance %v -> %v: %v vs %v", a, b, ab, ba)
			}
			if (ab == 0) != a.Equal(b) {
				t.Errorf("distance %v between %v and %v: zero iff equal violated", ab, a, b)
			}
		}
	}
}

func TestETAMinutes(t *testing.T) {
	tests := []struct {
		name     string
		from, to models.Location
		speed    *float64
		want     int
	}{
		{"one degree at default speed", loc(0, 0), loc(0, 1), nil, 222},
		{"same point", loc(1, 1), loc(1, 1), speed(12), 0},
		{"zero speed falls back", loc(0, 0), loc(0, 1), speed(0), 222},
		{"negative speed falls back", loc(0, 0), loc(0, 1), speed(-5), 222},
		{"36 km/h", loc(0, 0), loc(0, 1), speed(10), 185},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ETAMinutes(tt.from, tt.to, tt.speed); got != tt.want {
				t.Errorf("ETAMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestETAMinutesFallbackMatchesThirtyKmh(t *testing.T) {
	from, to := loc(3.139, 101.6869), loc(3.2, 101.7)
	thirtyKmh := 30 / 3.6

	if ETAMinutes(from, to, nil) != ETAMinutes(from, to, speed(thirtyKmh)) {
		t.Error("missing speed should behave like 30 km/h")
	}
	if ETAMinutes(from, to, speed(0)) != ETAMinutes(from, to, nil) {
		t.Error("zero speed should behave like missing speed")
	}
}
