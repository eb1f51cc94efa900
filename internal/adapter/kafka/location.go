package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/pkg/metrics"
)

const LocationTopic = "ride-locations"

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// LocationProducer appends accepted pings to the location history topic,
// keyed by ride so one ride's pings stay ordered within a partition.
type LocationProducer struct {
	writer  MessageWriter
	topic   string
	timeout time.Duration
}

func NewLocationProducer(brokers []string, topic string, timeout time.Duration) *LocationProducer {
	if topic == "" {
		topic = LocationTopic
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: timeout,
	}
	return NewLocationProducerWithWriter(w, topic, timeout)
}

func NewLocationProducerWithWriter(w MessageWriter, topic string, timeout time.Duration) *LocationProducer {
	return &LocationProducer{writer: w, topic: topic, timeout: timeout}
}

type locationMessage struct {
	RideID    string   `json:"ride_id"`
	DriverID  string   `json:"driver_id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	SpeedMps  *float64 `json:"speed_mps,omitempty"`
	Timestamp string   `json:"timestamp"`
}

func (p *LocationProducer) PublishPing(ctx context.Context, ping models.LocationPing) error {
	b, err := json.Marshal(locationMessage{
		RideID:    ping.RideID.String(),
		DriverID:  ping.DriverID,
		Latitude:  ping.Location.Latitude,
		Longitude: ping.Location.Longitude,
		SpeedMps:  ping.SpeedMps,
		Timestamp: ping.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal ping: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ping.RideID.String()),
		Value: b,
		Time:  ping.Timestamp,
	})
	metrics.RecordPublish("kafka", p.topic, err)
	if err != nil {
		return fmt.Errorf("failed to write ping to %s: %w", p.topic, err)
	}
	return nil
}

func (p *LocationProducer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
