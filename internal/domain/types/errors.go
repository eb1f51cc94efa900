package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("requested item not found")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrServiceUnavailable = errors.New("service unavailable")
)

var (
	ErrRideNotFound          = fmt.Errorf("%w: ride not found", ErrNotFound)
	ErrDriverNotFound        = fmt.Errorf("%w: driver not found", ErrNotFound)
	ErrLocationNotFound      = fmt.Errorf("%w: no location recorded for ride", ErrNotFound)
	ErrRideNotRequested      = fmt.Errorf("%w: ride is no longer open", ErrConflict)
	ErrInvalidRideState      = fmt.Errorf("%w: ride is not in the required state", ErrConflict)
	ErrRideCannotBeCancelled = fmt.Errorf("%w: ride cannot be cancelled", ErrConflict)
	ErrApprovalChanged       = fmt.Errorf("%w: approval status changed concurrently", ErrConflict)
	ErrDriverRegistered      = fmt.Errorf("%w: driver already registered", ErrConflict)
	ErrDriverNotApproved     = fmt.Errorf("%w: driver is not approved", ErrUnauthorized)
	ErrNotAssignedDriver     = fmt.Errorf("%w: driver is not assigned to ride", ErrUnauthorized)
	ErrNotRideParticipant    = fmt.Errorf("%w: caller is not a participant of the ride", ErrUnauthorized)
	ErrForbidden             = fmt.Errorf("%w: access denied", ErrUnauthorized)
	ErrRideNotTrackable      = fmt.Errorf("%w: ride is not accepting location updates", ErrValidation)
	ErrInvalidTransition     = fmt.Errorf("%w: approval transition not allowed", ErrValidation)
	ErrInvalidApproval       = fmt.Errorf("%w: unknown approval status", ErrValidation)
	ErrInvalidCoordinates    = fmt.Errorf("%w: invalid coordinates", ErrValidation)
)

// Kind strings exposed to clients.
const (
	KindValidation         = "validation_error"
	KindNotFound           = "not_found"
	KindConflict           = "conflict"
	KindUnauthorized       = "unauthorized"
	KindServiceUnavailable = "service_unavailable"
	KindInternal           = "internal_error"
)

// Kind returns the stable kind string for err.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrServiceUnavailable):
		return KindServiceUnavailable
	default:
		return KindInternal
	}
}

// Validation builds an ErrValidation with a message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Unavailable marks err as a ServiceUnavailable failure.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrServiceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
}
