package ride

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
)

/*=================Ride Repository======================*/

type RideRepo interface {
	Create(ctx context.Context, ride *models.Ride) error
	Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
	ListOpen(ctx context.Context) ([]*models.Ride, error)
	ListByPassenger(ctx context.Context, passengerID string) ([]*models.Ride, error)
	ListByDriver(ctx context.Context, driverID string) ([]*models.Ride, error)
	List(ctx context.Context, filters models.RideFilters) ([]*models.Ride, models.Metadata, error)

	// Transition applies t atomically. It returns types.ErrRideNotFound when
	// the ride does not exist and types.ErrInvalidRideState when the guard
	// of t does not hold.
	Transition(ctx context.Context, t models.Transition) (*models.Ride, error)
}

type RideEventRepo interface {
	// CreateEvent appends to the ride's audit trail.
	CreateEvent(ctx context.Context, rideID uuid.UUID, eventType types.RideEvent, eventData json.RawMessage) error
}

/*=================Driver Registry======================*/

type DriverGetter interface {
	Get(ctx context.Context, driverID string) (*models.Driver, error)
}

/*=================Location Tracker=====================*/

type LocationEvictor interface {
	Evict(ctx context.Context, rideID uuid.UUID) error
}

/*===================Publisher==========================*/

type Publisher interface {
	PublishRideStatus(ctx context.Context, evt models.RideStatusEvent) error
}

/*==================Address Geo Coder===================*/

type GeoCoder interface {
	GetAddress(ctx context.Context, longitude, latitude float64) (string, error)
}
