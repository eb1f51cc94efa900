package rabbit

import (
	"context"
	"encoding/json"
	"fmt"

	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
	"github.com/okutransport/ride-coordinator/pkg/metrics"
)

const (
	RideExchange         = "ride_topic"
	NotificationExchange = "notifications"
)

// Publisher is satisfied by *rabbit.RabbitMQ.
type Publisher interface {
	Publish(ctx context.Context, exchange, key, messageID string, body []byte) error
}

func publishJSON(ctx context.Context, client Publisher, op, exchange, key, messageID string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		ctx = wrap.WithAction(ctx, "marshal_message")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	err = client.Publish(ctx, exchange, key, messageID, body)
	metrics.RecordPublish("rabbitmq", exchange, err)
	if err != nil {
		ctx = wrap.WithAction(ctx, "publish_message")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish to %s: %w", op, exchange, err))
	}
	return nil
}
