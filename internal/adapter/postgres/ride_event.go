package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/postgres"
)

type RideEventRepo struct {
	db *pgxpool.Pool
}

func NewRideEventRepo(db *pgxpool.Pool) *RideEventRepo {
	return &RideEventRepo{db: db}
}

// CreateEvent inserts a new ride event into the database.
func (r *RideEventRepo) CreateEvent(ctx context.Context, rideID uuid.UUID, eventType types.RideEvent, eventData json.RawMessage) error {
	const op = "RideEventRepo.CreateEvent"
	start := time.Now()

	query := `INSERT INTO ride_events (ride_id, event_type, event_data)
			  VALUES ($1, $2, $3);`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query, rideID, eventType.String(), eventData); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return types.ErrRideNotFound
		}
		return fail(ctx, op, start, err)
	}
	done(op, start)
	return nil
}
