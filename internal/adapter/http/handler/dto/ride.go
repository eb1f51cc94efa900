package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/validator"
)

type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Address   string   `json:"address" validate:"max=255"`
}

func (l LocationRequest) ToModel() models.Location {
	loc := models.Location{Address: l.Address}
	if l.Latitude != nil {
		loc.Latitude = *l.Latitude
	}
	if l.Longitude != nil {
		loc.Longitude = *l.Longitude
	}
	return loc
}

type CreateRideRequest struct {
	Pickup       LocationRequest `json:"pickup"`
	Destination  LocationRequest `json:"destination"`
	RequestedAt  *time.Time      `json:"requested_at"`
	SpecialNeeds string          `json:"special_needs" validate:"max=500"`
}

func (r *CreateRideRequest) Validate(v *validator.Validator) {
	v.Struct(r)
}

func (r *CreateRideRequest) ToInput(passengerID string) models.CreateRideInput {
	in := models.CreateRideInput{
		PassengerID:  passengerID,
		Pickup:       r.Pickup.ToModel(),
		Destination:  r.Destination.ToModel(),
		SpecialNeeds: r.SpecialNeeds,
	}
	if r.RequestedAt != nil {
		in.RequestedAt = *r.RequestedAt
	}
	return in
}

// OpenRide is one entry of the open-rides board.
type OpenRide struct {
	RideID       uuid.UUID       `json:"ride_id"`
	Pickup       models.Location `json:"pickup"`
	Destination  models.Location `json:"destination"`
	RequestedAt  time.Time       `json:"requested_at"`
	SpecialNeeds string          `json:"special_needs,omitempty"`
}

func NewOpenRides(rides []*models.Ride) []OpenRide {
	out := make([]OpenRide, 0, len(rides))
	for _, r := range rides {
		out = append(out, OpenRide{
			RideID:       r.ID,
			Pickup:       r.Pickup,
			Destination:  r.Destination,
			RequestedAt:  r.RequestedAt,
			SpecialNeeds: r.SpecialNeeds,
		})
	}
	return out
}

// RideStatusResponse answers every lifecycle transition.
type RideStatusResponse struct {
	RideID   uuid.UUID        `json:"ride_id"`
	Status   types.RideStatus `json:"status"`
	DriverID *string          `json:"driver_id,omitempty"`
}

type LocationPingRequest struct {
	Latitude  *float64   `json:"latitude" validate:"required,latitude"`
	Longitude *float64   `json:"longitude" validate:"required,longitude"`
	SpeedMps  *float64   `json:"speed_mps" validate:"omitempty,gte=0"`
	Timestamp *time.Time `json:"timestamp" validate:"required"`
}

func (r *LocationPingRequest) Validate(v *validator.Validator) {
	v.Struct(r)
}

func (r *LocationPingRequest) ToModel(rideID uuid.UUID, driverID string) models.LocationPing {
	p := models.LocationPing{
		RideID:   rideID,
		DriverID: driverID,
		SpeedMps: r.SpeedMps,
	}
	if r.Latitude != nil {
		p.Location.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		p.Location.Longitude = *r.Longitude
	}
	if r.Timestamp != nil {
		p.Timestamp = *r.Timestamp
	}
	return p
}
