package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
)

type DriverStore struct {
	mu        sync.RWMutex
	drivers   map[string]*models.Driver
	approvals []models.ApprovalEvent
}

func NewDriverStore() *DriverStore {
	return &DriverStore{drivers: make(map[string]*models.Driver)}
}

func cloneDriver(d *models.Driver) *models.Driver {
	c := *d
	c.Languages = slices.Clone(d.Languages)
	return &c
}

func (s *DriverStore) Create(_ context.Context, driver *models.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drivers[driver.ID]; ok {
		return types.ErrDriverRegistered
	}
	s.drivers[driver.ID] = cloneDriver(driver)
	return nil
}

func (s *DriverStore) Get(_ context.Context, driverID string) (*models.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drivers[driverID]
	if !ok {
		return nil, types.ErrDriverNotFound
	}
	return cloneDriver(d), nil
}

func (s *DriverStore) ListByApproval(_ context.Context, status types.ApprovalStatus) ([]*models.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Driver, 0)
	for _, d := range s.drivers {
		if d.ApprovalStatus == status {
			out = append(out, cloneDriver(d))
		}
	}
	slices.SortFunc(out, func(a, b *models.Driver) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (s *DriverStore) UpdateApproval(_ context.Context, driverID string, from, to types.ApprovalStatus, at time.Time) (*models.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drivers[driverID]
	if !ok {
		return nil, types.ErrDriverNotFound
	}
	if d.ApprovalStatus != from {
		return nil, types.ErrApprovalChanged
	}
	d.ApprovalStatus = to
	d.UpdatedAt = at
	return cloneDriver(d), nil
}

func (s *DriverStore) LogApproval(_ context.Context, evt models.ApprovalEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.approvals = append(s.approvals, evt)
	return nil
}

// Approvals returns the audit trail of one driver.
func (s *DriverStore) Approvals(driverID string) []models.ApprovalEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ApprovalEvent
	for _, e := range s.approvals {
		if e.DriverID == driverID {
			out = append(out, e)
		}
	}
	return out
}
