package geo

import (
	"math"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
)

// DefaultSpeedKmh is assumed when the driver reports no usable speed.
const DefaultSpeedKmh = 30.0

// SpeedKmh converts an optional m/s reading, falling back to DefaultSpeedKmh
// when it is missing or not positive.
func SpeedKmh(speedMps *float64) float64 {
	if speedMps != nil && *speedMps > 0 {
		return *speedMps * 3.6
	}
	return DefaultSpeedKmh
}

// ETAMinutes estimates straight-line travel time from one point to another.
func ETAMinutes(from, to models.Location, speedMps *float64) int {
	hours := DistanceKm(from, to) / SpeedKmh(speedMps)
	return max(0, int(math.Round(hours*60)))
}
