package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestErrorClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}
	adminShutdown := &pgconn.PgError{Code: "57P01"}
	connFailure := &pgconn.PgError{Code: "08006"}

	tests := []struct {
		name        string
		err         error
		unique      bool
		fk          bool
		unavailable bool
	}{
		{name: "nil", err: nil},
		{name: "plain", err: errors.New("boom")},
		{name: "unique wrapped", err: fmt.Errorf("insert: %w", unique), unique: true},
		{name: "foreign key", err: fk, fk: true},
		{name: "admin shutdown", err: adminShutdown, unavailable: true},
		{name: "connection failure", err: connFailure, unavailable: true},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), unavailable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.unique {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.unique)
			}
			if got := IsForeignKeyViolation(tt.err); got != tt.fk {
				t.Errorf("IsForeignKeyViolation() = %v, want %v", got, tt.fk)
			}
			if got := IsUnavailable(tt.err); got != tt.unavailable {
				t.Errorf("IsUnavailable() = %v, want %v", got, tt.unavailable)
			}
		})
	}
}
