package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/internal/service/ride"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	"github.com/okutransport/ride-coordinator/pkg/trm"
)

// unreachablePool connects lazily to a port nothing listens on.
func unreachablePool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool, err := pgxpool.New(context.Background(), "postgres://u:p@127.0.0.1:1/db?connect_timeout=2")
	if err != nil {
		t.Fatalf("pgxpool.New() error = %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestTxManagerUnreachableDatabase(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	called := false
	err := NewTxManager(unreachablePool(t)).Do(ctx, func(context.Context) error {
		called = true
		return nil
	})
	if got := types.Kind(err); got != types.KindServiceUnavailable {
		t.Fatalf("Do() kind = %q (%v), want %q", got, err, types.KindServiceUnavailable)
	}
	if called {
		t.Error("fn ran without a transaction")
	}
}

// joinedTx stands in for an outer transaction. Its methods are never called.
type joinedTx struct{ pgx.Tx }

func TestTxManagerKeepsOtherErrors(t *testing.T) {
	// Nested calls join the outer transaction, so no connection is needed.
	ctx := context.WithValue(context.Background(), trm.TxKey, joinedTx{})

	err := NewTxManager(unreachablePool(t)).Do(ctx, func(context.Context) error {
		return types.ErrRideNotRequested
	})
	if !errors.Is(err, types.ErrRideNotRequested) {
		t.Fatalf("Do() error = %v, want %v", err, types.ErrRideNotRequested)
	}
	if got := types.Kind(err); got != types.KindConflict {
		t.Errorf("Do() kind = %q, want %q", got, types.KindConflict)
	}
}

func TestCreateRideUnreachableDatabase(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool := unreachablePool(t)
	svc := ride.New(NewRideRepo(pool), NewRideEventRepo(pool), NewDriverRepo(pool), nil, nil, nil, NewTxManager(pool), logger.Discard())

	_, err := svc.Create(ctx, models.CreateRideInput{
		PassengerID: "p-1",
		Pickup:      models.Location{Latitude: 43.238, Longitude: 76.945},
		Destination: models.Location{Latitude: 43.256, Longitude: 76.928},
	})
	if got := types.Kind(err); got != types.KindServiceUnavailable {
		t.Fatalf("Create() kind = %q (%v), want %q", got, err, types.KindServiceUnavailable)
	}
}
