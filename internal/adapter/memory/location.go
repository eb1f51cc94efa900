package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
)

// LocationStore holds one latest ping per ride.
type LocationStore struct {
	mu    sync.Mutex
	pings map[uuid.UUID]models.LocationPing
}

func NewLocationStore() *LocationStore {
	return &LocationStore{pings: make(map[uuid.UUID]models.LocationPing)}
}

// Put keeps ping when no ping is stored or ping is not older than the stored one.
func (s *LocationStore) Put(_ context.Context, ping models.LocationPing) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.pings[ping.RideID]; ok && ping.Timestamp.Before(cur.Timestamp) {
		return false, nil
	}
	s.pings[ping.RideID] = clonePing(ping)
	return true, nil
}

func (s *LocationStore) Get(_ context.Context, rideID uuid.UUID) (*models.LocationPing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pings[rideID]
	if !ok {
		return nil, types.ErrLocationNotFound
	}
	c := clonePing(p)
	return &c, nil
}

func (s *LocationStore) Delete(_ context.Context, rideID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pings, rideID)
	return nil
}

func clonePing(p models.LocationPing) models.LocationPing {
	if p.SpeedMps != nil {
		v := *p.SpeedMps
		p.SpeedMps = &v
	}
	return p
}
