package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
	"github.com/okutransport/ride-coordinator/pkg/metrics"
	"github.com/okutransport/ride-coordinator/pkg/trm"
)

// allowed lists the approval transitions. Same-state requests are handled
// before this table is consulted.
var allowed = map[types.ApprovalStatus][]types.ApprovalStatus{
	types.ApprovalPending:  {types.ApprovalApproved, types.ApprovalRejected},
	types.ApprovalApproved: {types.ApprovalPending},
	types.ApprovalRejected: {types.ApprovalPending},
}

func canMove(from, to types.ApprovalStatus) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Service struct {
	drivers       DriverRepo
	notifier      Notifier
	notifyTimeout time.Duration
	trm           trm.TxManager
	l             logger.Logger

	now func() time.Time
}

func New(drivers DriverRepo, notifier Notifier, notifyTimeout time.Duration, trm trm.TxManager, l logger.Logger) *Service {
	return &Service{
		drivers:       drivers,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		trm:           trm,
		l:             l,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SetStatus moves the driver's approval to target on behalf of adminID.
// Asking for the current status succeeds without side effects. A failed
// notification is reported in Result.Warning and never undoes the change.
func (s *Service) SetStatus(ctx context.Context, adminID, driverID string, target types.ApprovalStatus) (*models.ApprovalResult, error) {
	ctx = wrap.WithAction(wrap.WithUserID(wrap.WithDriverID(ctx, driverID), adminID), types.ActionApprovalChanged)

	if !target.IsValid() {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %q", types.ErrInvalidApproval, target))
	}

	driver, err := s.drivers.Get(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return s.move(ctx, adminID, driver, target)
}

// Reset returns an APPROVED or REJECTED driver to PENDING.
func (s *Service) Reset(ctx context.Context, adminID, driverID string) (*models.ApprovalResult, error) {
	ctx = wrap.WithAction(wrap.WithUserID(wrap.WithDriverID(ctx, driverID), adminID), types.ActionApprovalChanged)

	driver, err := s.drivers.Get(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if driver.ApprovalStatus == types.ApprovalPending {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: driver is already pending", types.ErrInvalidTransition))
	}
	return s.move(ctx, adminID, driver, types.ApprovalPending)
}

func (s *Service) move(ctx context.Context, adminID string, driver *models.Driver, target types.ApprovalStatus) (*models.ApprovalResult, error) {
	from := driver.ApprovalStatus
	if from == target {
		return &models.ApprovalResult{DriverID: driver.ID, Status: from}, nil
	}
	if !canMove(from, target) {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %s -> %s", types.ErrInvalidTransition, from, target))
	}

	evt := models.ApprovalEvent{
		DriverID:  driver.ID,
		FullName:  driver.FullName,
		From:      from,
		To:        target,
		ChangedBy: adminID,
		ChangedAt: s.now(),
	}

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		if _, err := s.drivers.UpdateApproval(ctx, driver.ID, from, target, evt.ChangedAt); err != nil {
			return err
		}
		return s.drivers.LogApproval(ctx, evt)
	})
	if err != nil {
		if errors.Is(err, types.ErrApprovalChanged) {
			// a concurrent admin may have made the same decision
			if cur, getErr := s.drivers.Get(ctx, driver.ID); getErr == nil && cur.ApprovalStatus == target {
				return &models.ApprovalResult{DriverID: driver.ID, Status: target}, nil
			}
		}
		return nil, wrap.Error(ctx, err)
	}

	metrics.RecordApprovalChange(target.String())
	s.l.Info(ctx, "driver approval changed", "from", from, "to", target)

	res := &models.ApprovalResult{DriverID: driver.ID, Status: target, Changed: true}
	if err := s.notify(ctx, evt); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionNotificationFailed)
		s.l.Warn(wrap.ErrorCtx(ctx, err), "approval notification failed", "error", err.Error())
		res.Warning = "status changed but the driver could not be notified"
	}
	return res, nil
}

func (s *Service) notify(ctx context.Context, evt models.ApprovalEvent) error {
	if s.notifier == nil {
		return nil
	}
	if s.notifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.notifyTimeout)
		defer cancel()
	}
	err := s.notifier.NotifyApprovalChanged(ctx, evt)
	metrics.RecordNotification(err)
	return err
}

// ListByBucket returns drivers in the given approval status, oldest
// registration first.
func (s *Service) ListByBucket(ctx context.Context, bucket types.ApprovalStatus) ([]*models.Driver, error) {
	if !bucket.IsValid() {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %q", types.ErrInvalidApproval, bucket))
	}
	drivers, err := s.drivers.ListByApproval(ctx, bucket)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list drivers: %w", err))
	}
	return drivers, nil
}
