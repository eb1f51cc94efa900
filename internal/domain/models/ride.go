package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
)

// Ride is a passenger's ride request and its lifecycle.
type Ride struct {
	ID           uuid.UUID        `json:"ride_id"`
	PassengerID  string           `json:"passenger_id"`
	Pickup       Location         `json:"pickup"`
	Destination  Location         `json:"destination"`
	RequestedAt  time.Time        `json:"requested_at"`
	SpecialNeeds string           `json:"special_needs,omitempty"`
	Status       types.RideStatus `json:"status"`

	// set iff Status is ACCEPTED, IN_PROGRESS or COMPLETED
	DriverID *string `json:"driver_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy *string    `json:"cancelled_by,omitempty"`
}

// IsAssignedTo reports whether driverID is the ride's assigned driver.
func (r *Ride) IsAssignedTo(driverID string) bool {
	return r.DriverID != nil && *r.DriverID == driverID
}

// Clone returns a deep copy.
func (r *Ride) Clone() *Ride {
	if r == nil {
		return nil
	}
	c := *r
	c.DriverID = clonePtr(r.DriverID)
	c.AcceptedAt = clonePtr(r.AcceptedAt)
	c.StartedAt = clonePtr(r.StartedAt)
	c.CompletedAt = clonePtr(r.CompletedAt)
	c.CancelledAt = clonePtr(r.CancelledAt)
	c.CancelledBy = clonePtr(r.CancelledBy)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// CreateRideInput carries a passenger's ride request.
type CreateRideInput struct {
	PassengerID  string
	Pickup       Location
	Destination  Location
	RequestedAt  time.Time
	SpecialNeeds string
}

// Transition is a guarded ride status change. The store applies it only when
// the ride is currently in one of From and, if ExpectedDriverID is set, is
// assigned to that driver.
type Transition struct {
	RideID           uuid.UUID
	From             []types.RideStatus
	To               types.RideStatus
	ExpectedDriverID *string
	AssignDriverID   *string
	ClearDriver      bool
	CancelledBy      *string
	At               time.Time
}

// Apply mutates r as the transition describes. Guards are not checked.
func (t Transition) Apply(r *Ride) {
	r.Status = t.To
	if t.AssignDriverID != nil {
		id := *t.AssignDriverID
		r.DriverID = &id
	}
	if t.ClearDriver {
		r.DriverID = nil
	}
	at := t.At
	switch t.To {
	case types.RideAccepted:
		r.AcceptedAt = &at
	case types.RideInProgress:
		r.StartedAt = &at
	case types.RideCompleted:
		r.CompletedAt = &at
	case types.RideCancelled:
		r.CancelledAt = &at
		r.CancelledBy = clonePtr(t.CancelledBy)
	}
}

// Allows reports whether the guard of t admits r.
func (t Transition) Allows(r *Ride) bool {
	ok := false
	for _, s := range t.From {
		if r.Status == s {
			ok = true
			break
		}
	}
	if !ok {
		return false
	}
	if t.ExpectedDriverID != nil && !r.IsAssignedTo(*t.ExpectedDriverID) {
		return false
	}
	return true
}

// Actor identifies the caller of a ride operation.
type Actor struct {
	ID   string
	Role types.UserRole
}

// CanBeViewedBy reports whether a may read the ride and its tracking: its
// passenger, its assigned driver or an admin. Drivers may also read a ride
// that is still REQUESTED, as the open list shows it to them anyway.
func (r *Ride) CanBeViewedBy(a Actor) bool {
	switch {
	case a.Role == types.AdminRole:
		return true
	case a.ID == "":
		return false
	case a.ID == r.PassengerID, r.IsAssignedTo(a.ID):
		return true
	}
	return a.Role == types.DriverRole && r.Status == types.RideRequested
}

// RideStatusEvent is published after every successful ride transition.
type RideStatusEvent struct {
	Event       types.RideEvent  `json:"event"`
	RideID      uuid.UUID        `json:"ride_id"`
	PassengerID string           `json:"passenger_id"`
	DriverID    *string          `json:"driver_id,omitempty"`
	Status      types.RideStatus `json:"status"`
	Timestamp   time.Time        `json:"timestamp"`
}

// RideSortSafelist holds the sort keys accepted by the bookings list. The
// first entry is the default.
var RideSortSafelist = []string{"-requested_at", "requested_at", "-created_at", "created_at", "status", "-status"}

// RideFilters narrows the admin bookings list.
type RideFilters struct {
	Filters
	Status types.RideStatus
}
