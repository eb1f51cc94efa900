package approval

import (
	"context"
	"time"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
)

type DriverRepo interface {
	Get(ctx context.Context, driverID string) (*models.Driver, error)
	ListByApproval(ctx context.Context, status types.ApprovalStatus) ([]*models.Driver, error)

	// UpdateApproval sets the status only if it still equals from. It returns
	// types.ErrApprovalChanged when the guard fails.
	UpdateApproval(ctx context.Context, driverID string, from, to types.ApprovalStatus, at time.Time) (*models.Driver, error)
	// LogApproval appends to the approval audit trail.
	LogApproval(ctx context.Context, evt models.ApprovalEvent) error
}

// Notifier delivers approval changes to the driver, e.g. by e-mail.
type Notifier interface {
	NotifyApprovalChanged(ctx context.Context, evt models.ApprovalEvent) error
}
