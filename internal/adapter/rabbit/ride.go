package rabbit

import (
	"context"
	"fmt"
	"time"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/pkg/hasher"
)

// RideEventProducer announces ride status changes on the ride exchange.
type RideEventProducer struct {
	client Publisher
}

func NewRideEventProducer(client Publisher) *RideEventProducer {
	return &RideEventProducer{
		client: client,
	}
}

// PublishRideStatus publishes evt with routing key ride.status.<ride_id>.
func (p *RideEventProducer) PublishRideStatus(ctx context.Context, evt models.RideStatusEvent) error {
	const op = "RideEventProducer.PublishRideStatus"

	key := fmt.Sprintf("ride.status.%s", evt.RideID)
	id := hasher.Fingerprint(evt.RideID.String(), evt.Event.String(), evt.Timestamp.UTC().Format(time.RFC3339Nano))

	return publishJSON(ctx, p.client, op, RideExchange, key, id, evt)
}
