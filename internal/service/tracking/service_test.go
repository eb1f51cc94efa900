package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/okutransport/ride-coordinator/internal/adapter/memory"
	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/logger"
)

var (
	klcc   = models.Location{Latitude: 3.1579, Longitude: 101.7116}
	midVal = models.Location{Latitude: 3.1176, Longitude: 101.6776}

	rider = models.Actor{ID: "p-1", Role: types.PassengerRole}
)

type fakeStream struct {
	pings []models.LocationPing
	err   error
}

func (s *fakeStream) PublishPing(_ context.Context, p models.LocationPing) error {
	s.pings = append(s.pings, p)
	return s.err
}

func strPtr(s string) *string { return &s }

func addRide(t *testing.T, rides *memory.RideStore, status types.RideStatus, driverID *string) uuid.UUID {
	t.Helper()
	r := &models.Ride{
		ID:          uuid.New(),
		PassengerID: "p-1",
		Pickup:      klcc,
		Destination: midVal,
		RequestedAt: time.Now(),
		Status:      status,
		DriverID:    driverID,
		CreatedAt:   time.Now(),
	}
	if err := rides.Create(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	return r.ID
}

func ping(rideID uuid.UUID, driverID string, at time.Time) models.LocationPing {
	return models.LocationPing{RideID: rideID, DriverID: driverID, Location: midVal, Timestamp: at}
}

func TestRecordPingValidation(t *testing.T) {
	rides := memory.NewRideStore()
	svc := New(rides, memory.NewLocationStore(), nil, logger.Discard())
	id := addRide(t, rides, types.RideAccepted, strPtr("d1"))
	now := time.Now()
	neg := -1.0

	tests := []struct {
		name string
		ping models.LocationPing
		want error
	}{
		{"latitude out of range", models.LocationPing{RideID: id, DriverID: "d1", Location: models.Location{Latitude: 91}, Timestamp: now}, types.ErrValidation},
		{"negative speed", models.LocationPing{RideID: id, DriverID: "d1", Location: klcc, SpeedMps: &neg, Timestamp: now}, types.ErrValidation},
		{"missing timestamp", models.LocationPing{RideID: id, DriverID: "d1", Location: klcc}, types.ErrValidation},
		{"unknown ride", ping(uuid.New(), "d1", now), types.ErrNotFound},
		{"other driver", ping(id, "d2", now), types.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := svc.RecordPing(context.Background(), tt.ping)
			if ok || !errors.Is(err, tt.want) {
				t.Errorf("RecordPing = %v, %v; want %v", ok, err, tt.want)
			}
		})
	}
}

func TestRecordPingRejectsNonTrackable(t *testing.T) {
	for _, status := range []types.RideStatus{types.RideCompleted, types.RideCancelled} {
		t.Run(status.String(), func(t *testing.T) {
			rides := memory.NewRideStore()
			svc := New(rides, memory.NewLocationStore(), nil, logger.Discard())
			var driver *string
			if status == types.RideCompleted {
				driver = strPtr("d1")
			}
			id := addRide(t, rides, status, driver)

			_, err := svc.RecordPing(context.Background(), ping(id, "d1", time.Now()))
			if err == nil {
				t.Fatal("expected an error")
			}
			if status == types.RideCompleted && !errors.Is(err, types.ErrRideNotTrackable) {
				t.Errorf("err = %v, want not trackable", err)
			}
		})
	}
}

func TestStalePingIsDropped(t *testing.T) {
	rides := memory.NewRideStore()
	stream := &fakeStream{}
	svc := New(rides, memory.NewLocationStore(), stream, logger.Discard())
	id := addRide(t, rides, types.RideInProgress, strPtr("d1"))
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	if ok, err := svc.RecordPing(ctx, ping(id, "d1", t0.Add(10*time.Second))); !ok || err != nil {
		t.Fatalf("fresh ping = %v, %v", ok, err)
	}
	old := ping(id, "d1", t0)
	old.Location = klcc
	if ok, err := svc.RecordPing(ctx, old); ok || err != nil {
		t.Fatalf("stale ping = %v, %v; want dropped without error", ok, err)
	}

	latest, err := svc.Latest(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !latest.Timestamp.Equal(t0.Add(10*time.Second)) || !latest.Location.Equal(midVal) {
		t.Errorf("latest = %+v, stale ping overwrote it", latest)
	}
	if len(stream.pings) != 1 {
		t.Errorf("streamed %d pings, want 1", len(stream.pings))
	}
}

func TestStreamFailureKeepsPing(t *testing.T) {
	rides := memory.NewRideStore()
	svc := New(rides, memory.NewLocationStore(), &fakeStream{err: errors.New("broker down")}, logger.Discard())
	id := addRide(t, rides, types.RideAccepted, strPtr("d1"))

	if ok, err := svc.RecordPing(context.Background(), ping(id, "d1", time.Now())); !ok || err != nil {
		t.Errorf("RecordPing = %v, %v", ok, err)
	}
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	speed := 10.0

	tests := []struct {
		name       string
		status     types.RideStatus
		withPing   bool
		wantTarget string
		wantETA    bool
	}{
		{"accepted heads to pickup", types.RideAccepted, true, models.ETATargetPickup, true},
		{"in progress heads to destination", types.RideInProgress, true, models.ETATargetDestination, true},
		{"accepted without ping", types.RideAccepted, false, "", false},
		{"requested has no eta", types.RideRequested, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rides := memory.NewRideStore()
			locations := memory.NewLocationStore()
			svc := New(rides, locations, nil, logger.Discard())

			var driver *string
			if tt.status.HasDriver() {
				driver = strPtr("d1")
			}
			id := addRide(t, rides, tt.status, driver)
			if tt.withPing {
				p := ping(id, "d1", time.Now())
				p.Location = models.Location{Latitude: 3.1390, Longitude: 101.6869}
				p.SpeedMps = &speed
				if _, err := svc.RecordPing(ctx, p); err != nil {
					t.Fatal(err)
				}
			}

			snap, err := svc.Snapshot(ctx, id, rider)
			if err != nil {
				t.Fatal(err)
			}
			if snap.Status != tt.status || snap.ETATarget != tt.wantTarget || (snap.ETAMinutes != nil) != tt.wantETA {
				t.Errorf("snapshot = %+v", snap)
			}
			if tt.wantETA && *snap.ETAMinutes < 0 {
				t.Errorf("eta = %d", *snap.ETAMinutes)
			}
		})
	}
}

func TestSnapshotUnknownRide(t *testing.T) {
	svc := New(memory.NewRideStore(), memory.NewLocationStore(), nil, logger.Discard())
	if _, err := svc.Snapshot(context.Background(), uuid.New(), rider); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestSnapshotAccess(t *testing.T) {
	rides := memory.NewRideStore()
	svc := New(rides, memory.NewLocationStore(), nil, logger.Discard())
	id := addRide(t, rides, types.RideAccepted, strPtr("d1"))

	tests := []struct {
		name   string
		viewer models.Actor
		want   error
	}{
		{"passenger", rider, nil},
		{"assigned driver", models.Actor{ID: "d1", Role: types.DriverRole}, nil},
		{"admin", models.Actor{ID: "ops", Role: types.AdminRole}, nil},
		{"other passenger", models.Actor{ID: "p-2", Role: types.PassengerRole}, types.ErrUnauthorized},
		{"other driver", models.Actor{ID: "d2", Role: types.DriverRole}, types.ErrUnauthorized},
		{"anonymous", models.Actor{}, types.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Snapshot(context.Background(), id, tt.viewer)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// finishingRides reports the ride as completed from the second read on,
// as if the trip ended while the ping was being stored.
type finishingRides struct {
	*memory.RideStore
	reads int
}

func (r *finishingRides) Get(ctx context.Context, id uuid.UUID) (*models.Ride, error) {
	ride, err := r.RideStore.Get(ctx, id)
	r.reads++
	if err == nil && r.reads > 1 {
		ride.Status = types.RideCompleted
	}
	return ride, err
}

func TestPingRacingCompletionIsEvicted(t *testing.T) {
	store := memory.NewRideStore()
	locations := memory.NewLocationStore()
	svc := New(&finishingRides{RideStore: store}, locations, nil, logger.Discard())
	id := addRide(t, store, types.RideInProgress, strPtr("d1"))

	ok, err := svc.RecordPing(context.Background(), ping(id, "d1", time.Now()))
	if ok || err != nil {
		t.Errorf("RecordPing = %v, %v; want dropped", ok, err)
	}
	if _, err := locations.Get(context.Background(), id); !errors.Is(err, types.ErrLocationNotFound) {
		t.Errorf("location still stored: %v", err)
	}
}

func TestEvict(t *testing.T) {
	rides := memory.NewRideStore()
	svc := New(rides, memory.NewLocationStore(), nil, logger.Discard())
	id := addRide(t, rides, types.RideAccepted, strPtr("d1"))
	ctx := context.Background()

	if _, err := svc.RecordPing(ctx, ping(id, "d1", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := svc.Evict(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Latest(ctx, id); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Latest after evict err = %v", err)
	}
}
