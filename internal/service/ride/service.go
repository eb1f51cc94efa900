package ride

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
	"github.com/okutransport/ride-coordinator/pkg/metrics"
	"github.com/okutransport/ride-coordinator/pkg/trm"
	"github.com/okutransport/ride-coordinator/pkg/validator"
)

/*
Service drives a ride through REQUESTED -> ACCEPTED -> IN_PROGRESS -> COMPLETED,
with CANCELLED reachable from REQUESTED and ACCEPTED. Every transition is a
single guarded write, so concurrent callers racing on the same ride observe
exactly one winner.
*/
type Service struct {
	rides     RideRepo
	events    RideEventRepo
	drivers   DriverGetter
	locations LocationEvictor
	publisher Publisher
	geocoder  GeoCoder
	trm       trm.TxManager
	l         logger.Logger

	now func() time.Time
}

// New returns a ride service. publisher and geocoder may be nil.
func New(rides RideRepo, events RideEventRepo, drivers DriverGetter, locations LocationEvictor, publisher Publisher, geocoder GeoCoder, trm trm.TxManager, l logger.Logger) *Service {
	return &Service{
		rides:     rides,
		events:    events,
		drivers:   drivers,
		locations: locations,
		publisher: publisher,
		geocoder:  geocoder,
		trm:       trm,
		l:         l,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new REQUESTED ride for the passenger.
func (s *Service) Create(ctx context.Context, in models.CreateRideInput) (*models.Ride, error) {
	ctx = wrap.WithAction(wrap.WithUserID(ctx, in.PassengerID), types.ActionRideCreated)

	in.PassengerID = strings.TrimSpace(in.PassengerID)
	if in.PassengerID == "" {
		return nil, wrap.Error(ctx, types.Validation("passenger id is required"))
	}
	if !in.Pickup.Valid() {
		return nil, wrap.Error(ctx, fmt.Errorf("pickup: %w", types.ErrInvalidCoordinates))
	}
	if !in.Destination.Valid() {
		return nil, wrap.Error(ctx, fmt.Errorf("destination: %w", types.ErrInvalidCoordinates))
	}

	now := s.now()
	ride := &models.Ride{
		ID:           uuid.New(),
		PassengerID:  in.PassengerID,
		Pickup:       s.resolveAddress(ctx, in.Pickup),
		Destination:  s.resolveAddress(ctx, in.Destination),
		RequestedAt:  in.RequestedAt.UTC(),
		SpecialNeeds: strings.TrimSpace(in.SpecialNeeds),
		Status:       types.RideRequested,
		CreatedAt:    now,
	}
	if in.RequestedAt.IsZero() {
		ride.RequestedAt = now
	}
	ctx = wrap.WithRideID(ctx, ride.ID.String())

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.rides.Create(ctx, ride); err != nil {
			return fmt.Errorf("failed to create ride: %w", err)
		}
		return s.recordEvent(ctx, ride)
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.RecordRideTransition(ride.Status.String())
	s.publish(ctx, ride)
	s.l.Info(ctx, "ride requested", "special_needs", ride.SpecialNeeds != "")

	return ride, nil
}

// resolveAddress fills an empty address through the geocoder. Failures only
// cost the address text.
func (s *Service) resolveAddress(ctx context.Context, loc models.Location) models.Location {
	loc.Address = strings.TrimSpace(loc.Address)
	if loc.Address != "" || s.geocoder == nil {
		return loc
	}
	addr, err := s.geocoder.GetAddress(ctx, loc.Longitude, loc.Latitude)
	if err != nil {
		s.l.Warn(wrap.ErrorCtx(ctx, err), "failed to resolve address", "error", err.Error())
		return loc
	}
	loc.Address = addr
	return loc
}

// Get returns one ride if actor may see it.
func (s *Service) Get(ctx context.Context, rideID uuid.UUID, actor models.Actor) (*models.Ride, error) {
	ctx = wrap.WithUserID(wrap.WithRideID(ctx, rideID.String()), actor.ID)

	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if !ride.CanBeViewedBy(actor) {
		return nil, wrap.Error(ctx, types.ErrNotRideParticipant)
	}
	return ride, nil
}

// ListOpen returns REQUESTED rides, oldest request first.
func (s *Service) ListOpen(ctx context.Context) ([]*models.Ride, error) {
	rides, err := s.rides.ListOpen(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list open rides: %w", err))
	}
	return rides, nil
}

// PassengerHistory returns every ride of the passenger, newest first.
func (s *Service) PassengerHistory(ctx context.Context, passengerID string) ([]*models.Ride, error) {
	rides, err := s.rides.ListByPassenger(ctx, passengerID)
	if err != nil {
		return nil, wrap.Error(wrap.WithUserID(ctx, passengerID), fmt.Errorf("failed to list passenger rides: %w", err))
	}
	return rides, nil
}

// DriverHistory returns every ride the driver was assigned to, newest first.
func (s *Service) DriverHistory(ctx context.Context, driverID string) ([]*models.Ride, error) {
	rides, err := s.rides.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(wrap.WithDriverID(ctx, driverID), fmt.Errorf("failed to list driver rides: %w", err))
	}
	return rides, nil
}

const DefaultPageSize = 20

// List is the admin bookings view.
func (s *Service) List(ctx context.Context, filters models.RideFilters) ([]*models.Ride, models.Metadata, error) {
	if filters.Status != "" && !filters.Status.IsValid() {
		return nil, models.Metadata{}, types.Validation("unknown ride status %q", filters.Status)
	}
	if len(filters.SortSafelist) == 0 {
		filters.SortSafelist = models.RideSortSafelist
	}
	if filters.Sort == "" {
		filters.Sort = filters.SortSafelist[0]
	}
	if filters.Page == 0 {
		filters.Page = 1
	}
	if filters.PageSize == 0 {
		filters.PageSize = DefaultPageSize
	}
	v := validator.New()
	if filters.Validate(v); !v.Valid() {
		return nil, models.Metadata{}, types.Validation("%s", v.Summary())
	}
	rides, meta, err := s.rides.List(ctx, filters)
	if err != nil {
		return nil, models.Metadata{}, wrap.Error(ctx, fmt.Errorf("failed to list rides: %w", err))
	}
	return rides, meta, nil
}

// Accept assigns the ride to driverID. Among concurrent callers for the
// same ride exactly one succeeds; the rest get a conflict.
func (s *Service) Accept(ctx context.Context, rideID uuid.UUID, driverID string) (*models.Ride, error) {
	ctx = wrap.WithAction(wrap.WithDriverID(wrap.WithRideID(ctx, rideID.String()), driverID), types.ActionRideAccepted)

	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if ride.Status != types.RideRequested {
		metrics.RideAcceptConflictsTotal.Inc()
		return nil, wrap.Error(ctx, types.ErrRideNotRequested)
	}

	driver, err := s.drivers.Get(ctx, driverID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, wrap.Error(ctx, types.ErrDriverNotApproved)
		}
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load driver: %w", err))
	}
	if driver.ApprovalStatus != types.ApprovalApproved {
		return nil, wrap.Error(ctx, types.ErrDriverNotApproved)
	}

	accepted, err := s.transition(ctx, models.Transition{
		RideID:         rideID,
		From:           []types.RideStatus{types.RideRequested},
		To:             types.RideAccepted,
		AssignDriverID: &driverID,
		At:             s.now(),
	})
	if err != nil {
		if errors.Is(err, types.ErrInvalidRideState) {
			metrics.RideAcceptConflictsTotal.Inc()
			return nil, wrap.Error(ctx, types.ErrRideNotRequested)
		}
		return nil, err
	}

	s.l.Info(ctx, "ride accepted")
	return accepted, nil
}

// BeginTrip moves an ACCEPTED ride to IN_PROGRESS for its assigned driver.
func (s *Service) BeginTrip(ctx context.Context, rideID uuid.UUID, driverID string) (*models.Ride, error) {
	ctx = wrap.WithAction(wrap.WithDriverID(wrap.WithRideID(ctx, rideID.String()), driverID), types.ActionRideStarted)
	return s.driverStep(ctx, rideID, driverID, types.RideAccepted, types.RideInProgress)
}

// Complete moves an IN_PROGRESS ride to COMPLETED for its assigned driver
// and drops its tracked location.
func (s *Service) Complete(ctx context.Context, rideID uuid.UUID, driverID string) (*models.Ride, error) {
	ctx = wrap.WithAction(wrap.WithDriverID(wrap.WithRideID(ctx, rideID.String()), driverID), types.ActionRideCompleted)
	return s.driverStep(ctx, rideID, driverID, types.RideInProgress, types.RideCompleted)
}

func (s *Service) driverStep(ctx context.Context, rideID uuid.UUID, driverID string, from, to types.RideStatus) (*models.Ride, error) {
	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	// a ride without a driver is simply in the wrong state
	if ride.DriverID != nil && !ride.IsAssignedTo(driverID) {
		return nil, wrap.Error(ctx, types.ErrNotAssignedDriver)
	}
	if ride.Status != from {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: ride is %s, expected %s", types.ErrInvalidRideState, ride.Status, from))
	}

	updated, err := s.transition(ctx, models.Transition{
		RideID:           rideID,
		From:             []types.RideStatus{from},
		To:               to,
		ExpectedDriverID: &driverID,
		At:               s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.l.Info(ctx, "ride status changed", "from", from, "to", to)
	return updated, nil
}

// Cancel cancels a REQUESTED or ACCEPTED ride. The actor must be the
// passenger, the assigned driver or an admin.
func (s *Service) Cancel(ctx context.Context, rideID uuid.UUID, actor models.Actor) (*models.Ride, error) {
	ctx = wrap.WithAction(wrap.WithUserID(wrap.WithRideID(ctx, rideID.String()), actor.ID), types.ActionRideCancelled)

	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if ride.Status != types.RideRequested && ride.Status != types.RideAccepted {
		return nil, wrap.Error(ctx, types.ErrRideCannotBeCancelled)
	}

	t := models.Transition{
		RideID:      rideID,
		From:        []types.RideStatus{types.RideRequested, types.RideAccepted},
		To:          types.RideCancelled,
		ClearDriver: true,
		CancelledBy: &actor.ID,
		At:          s.now(),
	}
	switch {
	case actor.Role == types.AdminRole:
	case actor.ID != "" && actor.ID == ride.PassengerID:
	case actor.ID != "" && ride.IsAssignedTo(actor.ID):
		// the driver may only cancel while still assigned
		t.From = []types.RideStatus{types.RideAccepted}
		t.ExpectedDriverID = &actor.ID
	default:
		return nil, wrap.Error(ctx, types.ErrNotRideParticipant)
	}

	cancelled, err := s.transition(ctx, t)
	if err != nil {
		if errors.Is(err, types.ErrInvalidRideState) {
			return nil, wrap.Error(ctx, types.ErrRideCannotBeCancelled)
		}
		return nil, err
	}

	s.l.Info(ctx, "ride cancelled", "cancelled_by_role", actor.Role)
	return cancelled, nil
}

// transition applies t, records it and runs the after-commit side effects.
func (s *Service) transition(ctx context.Context, t models.Transition) (*models.Ride, error) {
	var updated *models.Ride
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.rides.Transition(ctx, t)
		if err != nil {
			return err
		}
		return s.recordEvent(ctx, updated)
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.RecordRideTransition(updated.Status.String())

	if updated.Status.IsTerminal() && s.locations != nil {
		if err := s.locations.Evict(ctx, updated.ID); err != nil {
			s.l.Warn(wrap.ErrorCtx(ctx, err), "failed to evict ride location", "error", err.Error())
		}
	}
	s.publish(ctx, updated)

	return updated, nil
}

func (s *Service) recordEvent(ctx context.Context, ride *models.Ride) error {
	if s.events == nil {
		return nil
	}
	data, err := json.Marshal(statusEvent(ride))
	if err != nil {
		return fmt.Errorf("failed to encode ride event: %w", err)
	}
	if err := s.events.CreateEvent(ctx, ride.ID, types.EventFor(ride.Status), data); err != nil {
		return fmt.Errorf("failed to record ride event: %w", err)
	}
	return nil
}

// publish is best effort; the transition is already committed.
func (s *Service) publish(ctx context.Context, ride *models.Ride) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRideStatus(ctx, statusEvent(ride)); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionEventPublishFailed)
		s.l.Warn(wrap.ErrorCtx(ctx, err), "failed to publish ride status", "error", err.Error())
	}
}

func statusEvent(ride *models.Ride) models.RideStatusEvent {
	at := ride.CreatedAt
	for _, ts := range []*time.Time{ride.AcceptedAt, ride.StartedAt, ride.CompletedAt, ride.CancelledAt} {
		if ts != nil && ts.After(at) {
			at = *ts
		}
	}
	return models.RideStatusEvent{
		Event:       types.EventFor(ride.Status),
		RideID:      ride.ID,
		PassengerID: ride.PassengerID,
		DriverID:    ride.DriverID,
		Status:      ride.Status,
		Timestamp:   at,
	}
}
