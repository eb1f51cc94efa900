package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/postgres"
)

type RideRepo struct {
	db *pgxpool.Pool
}

func NewRideRepo(db *pgxpool.Pool) *RideRepo {
	return &RideRepo{db: db}
}

const rideColumns = `id, passenger_id,
	pickup_lat, pickup_lon, pickup_address,
	dest_lat, dest_lon, dest_address,
	requested_at, special_needs, status, driver_id,
	created_at, accepted_at, started_at, completed_at, cancelled_at, cancelled_by`

func scanRide(row pgx.Row) (*models.Ride, error) {
	var r models.Ride
	err := row.Scan(
		&r.ID, &r.PassengerID,
		&r.Pickup.Latitude, &r.Pickup.Longitude, &r.Pickup.Address,
		&r.Destination.Latitude, &r.Destination.Longitude, &r.Destination.Address,
		&r.RequestedAt, &r.SpecialNeeds, &r.Status, &r.DriverID,
		&r.CreatedAt, &r.AcceptedAt, &r.StartedAt, &r.CompletedAt, &r.CancelledAt, &r.CancelledBy,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *RideRepo) Create(ctx context.Context, ride *models.Ride) error {
	const op = "RideRepo.Create"
	start := time.Now()

	query := `
		INSERT INTO rides (id, passenger_id,
			pickup_lat, pickup_lon, pickup_address,
			dest_lat, dest_lon, dest_address,
			requested_at, special_needs, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	_, err := TxorDB(ctx, r.db).Exec(ctx, query,
		ride.ID, ride.PassengerID,
		ride.Pickup.Latitude, ride.Pickup.Longitude, ride.Pickup.Address,
		ride.Destination.Latitude, ride.Destination.Longitude, ride.Destination.Address,
		ride.RequestedAt, ride.SpecialNeeds, ride.Status, ride.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, types.ErrConflict)
		}
		return fail(ctx, op, start, err)
	}
	done(op, start)
	return nil
}

func (r *RideRepo) Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	const op = "RideRepo.Get"
	start := time.Now()

	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1;`

	ride, err := scanRide(TxorDB(ctx, r.db).QueryRow(ctx, query, rideID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fail(ctx, op, start, err)
	}
	done(op, start)
	return ride, nil
}

// ListOpen returns REQUESTED rides, earliest requested first.
func (r *RideRepo) ListOpen(ctx context.Context) ([]*models.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE status = 'REQUESTED'
		ORDER BY requested_at ASC, created_at ASC;`
	return r.list(ctx, "RideRepo.ListOpen", query)
}

func (r *RideRepo) ListByPassenger(ctx context.Context, passengerID string) ([]*models.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE passenger_id = $1
		ORDER BY requested_at DESC, created_at DESC;`
	return r.list(ctx, "RideRepo.ListByPassenger", query, passengerID)
}

func (r *RideRepo) ListByDriver(ctx context.Context, driverID string) ([]*models.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE driver_id = $1
		ORDER BY requested_at DESC, created_at DESC;`
	return r.list(ctx, "RideRepo.ListByDriver", query, driverID)
}

// List pages through all rides. The sort column comes from the filter's
// safelist, never from raw input.
func (r *RideRepo) List(ctx context.Context, f models.RideFilters) ([]*models.Ride, models.Metadata, error) {
	const op = "RideRepo.List"
	start := time.Now()

	query := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM rides
		WHERE ($1::text = '' OR status = $1)
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3;`, rideColumns, f.SortColumn(), f.SortDirection())

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, string(f.Status), f.Limit(), f.Offset())
	if err != nil {
		return nil, models.Metadata{}, fail(ctx, op, start, err)
	}
	defer rows.Close()

	total := 0
	rides := make([]*models.Ride, 0, f.Limit())
	for rows.Next() {
		var ride models.Ride
		if err := rows.Scan(&total,
			&ride.ID, &ride.PassengerID,
			&ride.Pickup.Latitude, &ride.Pickup.Longitude, &ride.Pickup.Address,
			&ride.Destination.Latitude, &ride.Destination.Longitude, &ride.Destination.Address,
			&ride.RequestedAt, &ride.SpecialNeeds, &ride.Status, &ride.DriverID,
			&ride.CreatedAt, &ride.AcceptedAt, &ride.StartedAt, &ride.CompletedAt, &ride.CancelledAt, &ride.CancelledBy,
		); err != nil {
			return nil, models.Metadata{}, fail(ctx, op, start, err)
		}
		rides = append(rides, &ride)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Metadata{}, fail(ctx, op, start, err)
	}

	done(op, start)
	return rides, models.CalculateMetadata(total, f.Page, f.PageSize), nil
}

// Transition is a compare-and-set on the ride row: the UPDATE only matches
// while the ride is in one of t.From (and held by t.ExpectedDriverID when
// set), so two concurrent accepts can never both win.
func (r *RideRepo) Transition(ctx context.Context, t models.Transition) (*models.Ride, error) {
	const op = "RideRepo.Transition"
	start := time.Now()

	from := make([]string, len(t.From))
	for i, s := range t.From {
		from[i] = s.String()
	}

	query := `
		UPDATE rides SET
			status       = $2,
			driver_id    = CASE WHEN $4 THEN NULL ELSE COALESCE($3, driver_id) END,
			accepted_at  = CASE WHEN $2 = 'ACCEPTED'    THEN $5 ELSE accepted_at END,
			started_at   = CASE WHEN $2 = 'IN_PROGRESS' THEN $5 ELSE started_at END,
			completed_at = CASE WHEN $2 = 'COMPLETED'   THEN $5 ELSE completed_at END,
			cancelled_at = CASE WHEN $2 = 'CANCELLED'   THEN $5 ELSE cancelled_at END,
			cancelled_by = CASE WHEN $2 = 'CANCELLED'   THEN $6 ELSE cancelled_by END,
			updated_at   = now()
		WHERE id = $1
		  AND status = ANY($7)
		  AND ($8::text IS NULL OR driver_id = $8)
		RETURNING ` + rideColumns + `;`

	q := TxorDB(ctx, r.db)
	ride, err := scanRide(q.QueryRow(ctx, query,
		t.RideID, t.To.String(), t.AssignDriverID, t.ClearDriver, t.At, t.CancelledBy, from, t.ExpectedDriverID,
	))
	if err == nil {
		done(op, start)
		return ride, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fail(ctx, op, start, err)
	}

	// the guard failed; tell a missing ride from one in the wrong state
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM rides WHERE id = $1);`, t.RideID).Scan(&exists); err != nil {
		return nil, fail(ctx, op, start, err)
	}
	done(op, start)
	if !exists {
		return nil, types.ErrRideNotFound
	}
	return nil, types.ErrInvalidRideState
}

func (r *RideRepo) list(ctx context.Context, op, query string, args ...any) ([]*models.Ride, error) {
	start := time.Now()

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fail(ctx, op, start, err)
	}
	defer rows.Close()

	rides := make([]*models.Ride, 0)
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, fail(ctx, op, start, err)
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, op, start, err)
	}

	done(op, start)
	return rides, nil
}
