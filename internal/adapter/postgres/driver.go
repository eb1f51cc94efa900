package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/postgres"
)

type DriverRepo struct {
	db *pgxpool.Pool
}

func NewDriverRepo(db *pgxpool.Pool) *DriverRepo {
	return &DriverRepo{
		db: db,
	}
}

const driverColumns = `id, full_name, phone, ic_number, license_number,
	vehicle_type, vehicle_plate, address, emergency_contact, experience_years,
	languages, availability, documents, password_hash, approval_status,
	created_at, updated_at`

func scanDriver(row pgx.Row) (*models.Driver, error) {
	var d models.Driver
	err := row.Scan(
		&d.ID, &d.FullName, &d.Phone, &d.ICNumber, &d.LicenseNumber,
		&d.VehicleType, &d.VehiclePlate, &d.Address, &d.EmergencyContact, &d.ExperienceYears,
		&d.Languages, &d.Availability, &d.Documents, &d.PasswordHash, &d.ApprovalStatus,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DriverRepo) Create(ctx context.Context, driver *models.Driver) error {
	const op = "DriverRepo.Create"
	start := time.Now()

	query := `
		INSERT INTO drivers (id, full_name, phone, ic_number, license_number,
			vehicle_type, vehicle_plate, address, emergency_contact, experience_years,
			languages, availability, documents, password_hash, approval_status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`

	languages := driver.Languages
	if languages == nil {
		languages = []string{}
	}

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		driver.ID, driver.FullName, driver.Phone, driver.ICNumber, driver.LicenseNumber,
		driver.VehicleType, driver.VehiclePlate, driver.Address, driver.EmergencyContact, driver.ExperienceYears,
		languages, driver.Availability, driver.Documents, driver.PasswordHash, driver.ApprovalStatus,
		driver.CreatedAt, driver.UpdatedAt,
	); err != nil {
		if postgres.IsUniqueViolation(err) {
			return types.ErrDriverRegistered
		}
		return fail(ctx, op, start, err)
	}

	done(op, start)
	return nil
}

func (r *DriverRepo) Get(ctx context.Context, driverID string) (*models.Driver, error) {
	const op = "DriverRepo.Get"
	start := time.Now()

	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1;`

	driver, err := scanDriver(TxorDB(ctx, r.db).QueryRow(ctx, query, driverID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrDriverNotFound
		}
		return nil, fail(ctx, op, start, err)
	}
	done(op, start)
	return driver, nil
}

// ListByApproval returns drivers in the given bucket, oldest registration first.
func (r *DriverRepo) ListByApproval(ctx context.Context, status types.ApprovalStatus) ([]*models.Driver, error) {
	const op = "DriverRepo.ListByApproval"
	start := time.Now()

	query := `
		SELECT ` + driverColumns + `
		FROM drivers
		WHERE approval_status = $1
		ORDER BY created_at ASC;`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, status)
	if err != nil {
		return nil, fail(ctx, op, start, err)
	}
	defer rows.Close()

	drivers := make([]*models.Driver, 0)
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fail(ctx, op, start, err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, op, start, err)
	}

	done(op, start)
	return drivers, nil
}

// UpdateApproval changes the status only while it still equals from.
func (r *DriverRepo) UpdateApproval(ctx context.Context, driverID string, from, to types.ApprovalStatus, at time.Time) (*models.Driver, error) {
	const op = "DriverRepo.UpdateApproval"
	start := time.Now()

	query := `
		UPDATE drivers
		SET approval_status = $3, updated_at = $4
		WHERE id = $1 AND approval_status = $2
		RETURNING ` + driverColumns + `;`

	q := TxorDB(ctx, r.db)
	driver, err := scanDriver(q.QueryRow(ctx, query, driverID, from, to, at))
	if err == nil {
		done(op, start)
		return driver, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fail(ctx, op, start, err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM drivers WHERE id = $1);`, driverID).Scan(&exists); err != nil {
		return nil, fail(ctx, op, start, err)
	}
	done(op, start)
	if !exists {
		return nil, types.ErrDriverNotFound
	}
	return nil, fmt.Errorf("%s: %w", op, types.ErrApprovalChanged)
}

// LogApproval appends to driver_approval_log. An empty From is stored as NULL.
func (r *DriverRepo) LogApproval(ctx context.Context, evt models.ApprovalEvent) error {
	const op = "DriverRepo.LogApproval"
	start := time.Now()

	var from *string
	if evt.From != "" {
		s := evt.From.String()
		from = &s
	}

	query := `
		INSERT INTO driver_approval_log (driver_id, from_status, to_status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5);`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query, evt.DriverID, from, evt.To, evt.ChangedBy, evt.ChangedAt); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return types.ErrDriverNotFound
		}
		return fail(ctx, op, start, err)
	}
	done(op, start)
	return nil
}
