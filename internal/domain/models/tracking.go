package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
)

// LocationPing is a driver position report for an active ride.
type LocationPing struct {
	RideID    uuid.UUID `json:"ride_id"`
	DriverID  string    `json:"driver_id"`
	Location  Location  `json:"location"`
	SpeedMps  *float64  `json:"speed_mps,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SpeedValid reports whether the optional speed is finite and non-negative.
func (p LocationPing) SpeedValid() bool {
	if p.SpeedMps == nil {
		return true
	}
	s := *p.SpeedMps
	return !math.IsNaN(s) && !math.IsInf(s, 0) && s >= 0
}

// TrackingSnapshot is what a passenger polls while waiting or riding.
type TrackingSnapshot struct {
	RideID         uuid.UUID        `json:"ride_id"`
	Status         types.RideStatus `json:"status"`
	DriverID       *string          `json:"driver_id,omitempty"`
	DriverLocation *LocationPing    `json:"driver_location,omitempty"`
	ETAMinutes     *int             `json:"eta_minutes,omitempty"`
	ETATarget      string           `json:"eta_target,omitempty"`
}

const (
	ETATargetPickup      = "pickup"
	ETATargetDestination = "destination"
)
