package tracking

import (
	"context"

	"github.com/google/uuid"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
)

type RideGetter interface {
	Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
}

// LocationStore keeps the latest accepted ping per ride.
type LocationStore interface {
	// Put stores ping unless the stored one is newer. The check and the
	// write are atomic; stored reports whether ping was kept.
	Put(ctx context.Context, ping models.LocationPing) (stored bool, err error)
	// Get returns types.ErrLocationNotFound when nothing is stored.
	Get(ctx context.Context, rideID uuid.UUID) (*models.LocationPing, error)
	Delete(ctx context.Context, rideID uuid.UUID) error
}

// LocationStream receives every accepted ping for history and analytics.
type LocationStream interface {
	PublishPing(ctx context.Context, ping models.LocationPing) error
}
