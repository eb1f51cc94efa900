package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okutransport/ride-coordinator/internal/domain/types"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
	"github.com/okutransport/ride-coordinator/pkg/metrics"
	"github.com/okutransport/ride-coordinator/pkg/postgres"
	"github.com/okutransport/ride-coordinator/pkg/trm"
)

type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// TxorDB returns the transaction opened by trm.Manager, or the pool.
func TxorDB(ctx context.Context, db *pgxpool.Pool) Querier {
	tx, ok := ctx.Value(trm.TxKey).(pgx.Tx)
	if !ok {
		return db
	}
	return tx
}

// fail records the query outcome and turns err into a wrapped error.
// Connection failures become ErrServiceUnavailable.
func fail(ctx context.Context, op string, start time.Time, err error) error {
	metrics.RecordDatabaseQuery(op, err, time.Since(start))
	if postgres.IsUnavailable(err) {
		err = types.Unavailable(err)
	}
	return wrap.Error(wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed), fmt.Errorf("%s: %w", op, err))
}

// TxManager runs functions in a transaction like trm.Manager, but reports a
// database that cannot be reached at begin or commit as ErrServiceUnavailable.
type TxManager struct {
	m *trm.Manager
}

func NewTxManager(db *pgxpool.Pool) *TxManager {
	return &TxManager{m: trm.New(db)}
}

func (t *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := t.m.Do(ctx, fn)
	if errors.Is(err, types.ErrServiceUnavailable) {
		return err
	}
	if postgres.IsUnavailable(err) {
		return wrap.Error(wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed), types.Unavailable(err))
	}
	return err
}

func done(op string, start time.Time) {
	metrics.RecordDatabaseQuery(op, nil, time.Since(start))
}
