package memory

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
)

// RideEvent is one entry of a ride's audit trail.
type RideEvent struct {
	RideID    uuid.UUID
	Type      types.RideEvent
	Data      json.RawMessage
	CreatedAt time.Time
}

// RideStore keeps rides in a map. Reads return copies so callers never
// observe later writes.
type RideStore struct {
	mu     sync.RWMutex
	rides  map[uuid.UUID]*models.Ride
	events []RideEvent
}

func NewRideStore() *RideStore {
	return &RideStore{rides: make(map[uuid.UUID]*models.Ride)}
}

func (s *RideStore) Create(_ context.Context, ride *models.Ride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rides[ride.ID]; ok {
		return types.ErrConflict
	}
	s.rides[ride.ID] = ride.Clone()
	return nil
}

func (s *RideStore) Get(_ context.Context, rideID uuid.UUID) (*models.Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rides[rideID]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	return r.Clone(), nil
}

func (s *RideStore) ListOpen(_ context.Context) ([]*models.Ride, error) {
	out := s.filter(func(r *models.Ride) bool { return r.Status == types.RideRequested })
	slices.SortStableFunc(out, func(a, b *models.Ride) int {
		if c := a.RequestedAt.Compare(b.RequestedAt); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (s *RideStore) ListByPassenger(_ context.Context, passengerID string) ([]*models.Ride, error) {
	out := s.filter(func(r *models.Ride) bool { return r.PassengerID == passengerID })
	sortNewestFirst(out)
	return out, nil
}

// ListByDriver matches rides the driver holds or completed. Cancelled rides
// carry no driver and are not listed.
func (s *RideStore) ListByDriver(_ context.Context, driverID string) ([]*models.Ride, error) {
	out := s.filter(func(r *models.Ride) bool { return r.IsAssignedTo(driverID) })
	sortNewestFirst(out)
	return out, nil
}

func (s *RideStore) List(_ context.Context, f models.RideFilters) ([]*models.Ride, models.Metadata, error) {
	out := s.filter(func(r *models.Ride) bool { return f.Status == "" || r.Status == f.Status })

	desc := f.SortDirection() == "DESC"
	column := "requested_at"
	if len(f.SortSafelist) > 0 {
		column = f.SortColumn()
	}
	slices.SortStableFunc(out, func(a, b *models.Ride) int {
		var c int
		switch column {
		case "created_at":
			c = a.CreatedAt.Compare(b.CreatedAt)
		case "status":
			c = strings.Compare(string(a.Status), string(b.Status))
		default:
			c = a.RequestedAt.Compare(b.RequestedAt)
		}
		if desc {
			return -c
		}
		return c
	})

	total := len(out)
	if f.PageSize <= 0 || f.Page <= 0 {
		return out, models.CalculateMetadata(total, 1, max(total, 1)), nil
	}
	start := min(f.Offset(), total)
	end := min(start+f.Limit(), total)
	return out[start:end], models.CalculateMetadata(total, f.Page, f.PageSize), nil
}

// Transition checks the guard and applies t under the write lock.
func (s *RideStore) Transition(_ context.Context, t models.Transition) (*models.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rides[t.RideID]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	if !t.Allows(r) {
		return nil, types.ErrInvalidRideState
	}
	t.Apply(r)
	return r.Clone(), nil
}

func (s *RideStore) CreateEvent(_ context.Context, rideID uuid.UUID, eventType types.RideEvent, eventData json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, RideEvent{
		RideID:    rideID,
		Type:      eventType,
		Data:      slices.Clone(eventData),
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// Events returns the audit trail of one ride in insertion order.
func (s *RideStore) Events(rideID uuid.UUID) []RideEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []RideEvent
	for _, e := range s.events {
		if e.RideID == rideID {
			out = append(out, e)
		}
	}
	return out
}

func (s *RideStore) filter(keep func(*models.Ride) bool) []*models.Ride {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Ride, 0)
	for _, r := range s.rides {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

func sortNewestFirst(rides []*models.Ride) {
	slices.SortStableFunc(rides, func(a, b *models.Ride) int {
		if c := cmp.Compare(b.RequestedAt.UnixNano(), a.RequestedAt.UnixNano()); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
