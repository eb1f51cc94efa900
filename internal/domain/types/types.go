package types

// RideStatus is the lifecycle state of a ride request.
type RideStatus string

func (s RideStatus) String() string {
	return string(s)
}

const (
	RideRequested  RideStatus = "REQUESTED"
	RideAccepted   RideStatus = "ACCEPTED"
	RideInProgress RideStatus = "IN_PROGRESS"
	RideCompleted  RideStatus = "COMPLETED"
	RideCancelled  RideStatus = "CANCELLED"
)

// IsValid reports whether s is a known ride status.
func (s RideStatus) IsValid() bool {
	switch s {
	case RideRequested, RideAccepted, RideInProgress, RideCompleted, RideCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition leaves s.
func (s RideStatus) IsTerminal() bool {
	return s == RideCompleted || s == RideCancelled
}

// HasDriver reports whether a ride in state s carries an assigned driver.
func (s RideStatus) HasDriver() bool {
	return s == RideAccepted || s == RideInProgress || s == RideCompleted
}

// IsTrackable reports whether location pings are accepted in state s.
func (s RideStatus) IsTrackable() bool {
	return s == RideAccepted || s == RideInProgress
}

// ApprovalStatus is the admin review state of a driver profile.
type ApprovalStatus string

func (s ApprovalStatus) String() string {
	return string(s)
}

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// UserRole is the role claim carried by access tokens.
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	PassengerRole UserRole = "PASSENGER"
	DriverRole    UserRole = "DRIVER"
	AdminRole     UserRole = "ADMIN"
)

func (r UserRole) IsValid() bool {
	switch r {
	case PassengerRole, DriverRole, AdminRole:
		return true
	}
	return false
}

// StorageMode selects the persistence backend.
type StorageMode string

const (
	StoragePostgres StorageMode = "postgres"
	StorageMemory   StorageMode = "memory"
)
