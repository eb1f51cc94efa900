package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublishPing(t *testing.T) {
	w := &fakeWriter{}
	p := NewLocationProducerWithWriter(w, LocationTopic, time.Second)
	rideID := uuid.New()

	err := p.PublishPing(context.Background(), models.LocationPing{
		RideID:    rideID,
		DriverID:  "d@x.io",
		Location:  models.Location{Latitude: 3.1, Longitude: 101.7},
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 || string(w.msgs[0].Key) != rideID.String() {
		t.Fatalf("messages = %+v", w.msgs)
	}

	var got locationMessage
	if err := json.Unmarshal(w.msgs[0].Value, &got); err != nil {
		t.Fatal(err)
	}
	if got.DriverID != "d@x.io" || got.Timestamp != "2025-01-02T03:04:05Z" || got.SpeedMps != nil {
		t.Errorf("payload = %+v", got)
	}
}

func TestPublishPingError(t *testing.T) {
	p := NewLocationProducerWithWriter(&fakeWriter{err: errors.New("leader not available")}, LocationTopic, 0)
	if err := p.PublishPing(context.Background(), models.LocationPing{RideID: uuid.New()}); err == nil {
		t.Error("expected an error")
	}
}
