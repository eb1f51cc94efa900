package driver

import (
	"context"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
)

type DriverRepo interface {
	// Create returns types.ErrDriverRegistered when the id is taken.
	Create(ctx context.Context, driver *models.Driver) error
	Get(ctx context.Context, driverID string) (*models.Driver, error)
	LogApproval(ctx context.Context, evt models.ApprovalEvent) error
}

// CredentialHasher turns a plaintext password into a storable hash.
type CredentialHasher interface {
	Hash(password string) (string, error)
}
