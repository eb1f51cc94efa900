package tracking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/internal/geo"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
	"github.com/okutransport/ride-coordinator/pkg/metrics"
)

// Service records driver pings for active rides and answers passenger polls.
type Service struct {
	rides     RideGetter
	locations LocationStore
	stream    LocationStream
	l         logger.Logger
}

// New returns a tracking service. stream may be nil.
func New(rides RideGetter, locations LocationStore, stream LocationStream, l logger.Logger) *Service {
	return &Service{
		rides:     rides,
		locations: locations,
		stream:    stream,
		l:         l,
	}
}

// RecordPing stores ping as the ride's latest position. A ping older than
// the stored one is dropped and reported as accepted=false without error.
func (s *Service) RecordPing(ctx context.Context, ping models.LocationPing) (bool, error) {
	ctx = wrap.WithAction(wrap.WithDriverID(wrap.WithRideID(ctx, ping.RideID.String()), ping.DriverID), types.ActionLocationRecorded)

	if !ping.Location.Valid() {
		metrics.RecordPing(metrics.PingRejected)
		return false, wrap.Error(ctx, types.ErrInvalidCoordinates)
	}
	if !ping.SpeedValid() {
		metrics.RecordPing(metrics.PingRejected)
		return false, wrap.Error(ctx, types.Validation("speed must be a non-negative number"))
	}
	if ping.Timestamp.IsZero() {
		metrics.RecordPing(metrics.PingRejected)
		return false, wrap.Error(ctx, types.Validation("timestamp is required"))
	}
	ping.Timestamp = ping.Timestamp.UTC()

	ride, err := s.rides.Get(ctx, ping.RideID)
	if err != nil {
		return false, wrap.Error(ctx, err)
	}
	if !ride.IsAssignedTo(ping.DriverID) {
		metrics.RecordPing(metrics.PingRejected)
		return false, wrap.Error(ctx, types.ErrNotAssignedDriver)
	}
	if !ride.Status.IsTrackable() {
		metrics.RecordPing(metrics.PingRejected)
		return false, wrap.Error(ctx, fmt.Errorf("%w: ride is %s", types.ErrRideNotTrackable, ride.Status))
	}

	stored, err := s.locations.Put(ctx, ping)
	if err != nil {
		return false, wrap.Error(ctx, fmt.Errorf("failed to store location: %w", err))
	}
	if !stored {
		metrics.RecordPing(metrics.PingDropped)
		s.l.Debug(ctx, "stale ping dropped", "timestamp", ping.Timestamp)
		return false, nil
	}

	// the ride may have finished between the check and the write
	if cur, err := s.rides.Get(ctx, ping.RideID); err == nil && cur.Status.IsTerminal() {
		s.evict(ctx, ping.RideID)
		metrics.RecordPing(metrics.PingDropped)
		return false, nil
	}

	metrics.RecordPing(metrics.PingAccepted)
	if s.stream != nil {
		if err := s.stream.PublishPing(ctx, ping); err != nil {
			ctx = wrap.WithAction(ctx, types.ActionEventPublishFailed)
			s.l.Warn(wrap.ErrorCtx(ctx, err), "failed to stream location", "error", err.Error())
		}
	}
	return true, nil
}

// Latest returns the most recent accepted ping of the ride.
func (s *Service) Latest(ctx context.Context, rideID uuid.UUID) (*models.LocationPing, error) {
	ping, err := s.locations.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(wrap.WithRideID(ctx, rideID.String()), err)
	}
	return ping, nil
}

// Snapshot combines ride status, the latest driver position and an ETA to
// the pickup (while ACCEPTED) or the destination (while IN_PROGRESS).
func (s *Service) Snapshot(ctx context.Context, rideID uuid.UUID, viewer models.Actor) (*models.TrackingSnapshot, error) {
	ctx = wrap.WithUserID(wrap.WithRideID(ctx, rideID.String()), viewer.ID)

	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if !ride.CanBeViewedBy(viewer) {
		return nil, wrap.Error(ctx, types.ErrNotRideParticipant)
	}

	snap := &models.TrackingSnapshot{
		RideID:   ride.ID,
		Status:   ride.Status,
		DriverID: ride.DriverID,
	}
	if !ride.Status.IsTrackable() {
		return snap, nil
	}

	ping, err := s.locations.Get(ctx, rideID)
	if err != nil {
		if types.Kind(err) == types.KindNotFound {
			return snap, nil
		}
		return nil, wrap.Error(ctx, err)
	}
	snap.DriverLocation = ping

	target, label := ride.Pickup, models.ETATargetPickup
	if ride.Status == types.RideInProgress {
		target, label = ride.Destination, models.ETATargetDestination
	}
	eta := geo.ETAMinutes(ping.Location, target, ping.SpeedMps)
	snap.ETAMinutes = &eta
	snap.ETATarget = label

	return snap, nil
}

// Evict drops the ride's stored position.
func (s *Service) Evict(ctx context.Context, rideID uuid.UUID) error {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, rideID.String()), types.ActionLocationEvicted)
	if err := s.locations.Delete(ctx, rideID); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to evict location: %w", err))
	}
	return nil
}

func (s *Service) evict(ctx context.Context, rideID uuid.UUID) {
	if err := s.Evict(ctx, rideID); err != nil {
		s.l.Warn(wrap.ErrorCtx(ctx, err), "failed to evict location", "error", err.Error())
	}
}
