package types

// RideEvent names a ride status change published to the broker.
type RideEvent string

func (s RideEvent) String() string {
	return string(s)
}

const (
	EventRideRequested RideEvent = "RIDE_REQUESTED"
	EventRideAccepted  RideEvent = "RIDE_ACCEPTED"
	EventRideStarted   RideEvent = "RIDE_STARTED"
	EventRideCompleted RideEvent = "RIDE_COMPLETED"
	EventRideCancelled RideEvent = "RIDE_CANCELLED"
)

// EventFor maps a ride status to the event announcing it.
func EventFor(s RideStatus) RideEvent {
	switch s {
	case RideAccepted:
		return EventRideAccepted
	case RideInProgress:
		return EventRideStarted
	case RideCompleted:
		return EventRideCompleted
	case RideCancelled:
		return EventRideCancelled
	default:
		return EventRideRequested
	}
}
