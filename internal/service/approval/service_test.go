package approval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okutransport/ride-coordinator/internal/adapter/memory"
	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	"github.com/okutransport/ride-coordinator/pkg/trm"
)

type fakeNotifier struct {
	sent []models.ApprovalEvent
	err  error
}

func (n *fakeNotifier) NotifyApprovalChanged(_ context.Context, evt models.ApprovalEvent) error {
	n.sent = append(n.sent, evt)
	return n.err
}

func setup(t *testing.T, status types.ApprovalStatus) (*Service, *memory.DriverStore, *fakeNotifier) {
	t.Helper()
	store := memory.NewDriverStore()
	if err := store.Create(context.Background(), &models.Driver{ID: "d@x.io", FullName: "Aminah", ApprovalStatus: status, CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	n := &fakeNotifier{}
	return New(store, n, time.Second, trm.Nop{}, logger.Discard()), store, n
}

func TestSetStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    types.ApprovalStatus
		target  types.ApprovalStatus
		wantErr error
		changed bool
	}{
		{"approve pending", types.ApprovalPending, types.ApprovalApproved, nil, true},
		{"reject pending", types.ApprovalPending, types.ApprovalRejected, nil, true},
		{"approved back to pending", types.ApprovalApproved, types.ApprovalPending, nil, true},
		{"rejected back to pending", types.ApprovalRejected, types.ApprovalPending, nil, true},
		{"approved straight to rejected", types.ApprovalApproved, types.ApprovalRejected, types.ErrValidation, false},
		{"rejected straight to approved", types.ApprovalRejected, types.ApprovalApproved, types.ErrValidation, false},
		{"same state is a no-op", types.ApprovalApproved, types.ApprovalApproved, nil, false},
		{"unknown target", types.ApprovalPending, types.ApprovalStatus("MAYBE"), types.ErrValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, n := setup(t, tt.from)

			res, err := svc.SetStatus(context.Background(), "admin", "d@x.io", tt.target)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			d, _ := store.Get(context.Background(), "d@x.io")
			if err != nil {
				if d.ApprovalStatus != tt.from {
					t.Errorf("failed call changed status to %s", d.ApprovalStatus)
				}
				return
			}
			if res.Changed != tt.changed || res.Status != tt.target || d.ApprovalStatus != tt.target {
				t.Errorf("result = %+v, stored = %s", res, d.ApprovalStatus)
			}
			if wantSent := map[bool]int{true: 1, false: 0}[tt.changed]; len(n.sent) != wantSent {
				t.Errorf("notifications = %d, want %d", len(n.sent), wantSent)
			}
		})
	}
}

func TestSetStatusIdempotent(t *testing.T) {
	svc, store, n := setup(t, types.ApprovalPending)
	ctx := context.Background()

	for i := range 2 {
		res, err := svc.SetStatus(ctx, "admin", "d@x.io", types.ApprovalApproved)
		if err != nil || res.Status != types.ApprovalApproved {
			t.Fatalf("call %d: %+v, %v", i, res, err)
		}
	}
	if len(n.sent) != 1 {
		t.Errorf("notifications = %d, want 1", len(n.sent))
	}
	if log := store.Approvals("d@x.io"); len(log) != 1 || log[0].ChangedBy != "admin" {
		t.Errorf("audit log = %+v", log)
	}
}

func TestResetThenApprove(t *testing.T) {
	svc, _, n := setup(t, types.ApprovalRejected)
	ctx := context.Background()

	res, err := svc.Reset(ctx, "admin", "d@x.io")
	if err != nil || res.Status != types.ApprovalPending || !res.Changed {
		t.Fatalf("Reset = %+v, %v", res, err)
	}
	res, err = svc.SetStatus(ctx, "admin", "d@x.io", types.ApprovalApproved)
	if err != nil || res.Status != types.ApprovalApproved {
		t.Fatalf("SetStatus = %+v, %v", res, err)
	}
	if len(n.sent) != 2 || n.sent[0].From != types.ApprovalRejected || n.sent[1].To != types.ApprovalApproved {
		t.Errorf("notifications = %+v", n.sent)
	}
}

func TestResetPendingIsInvalid(t *testing.T) {
	svc, _, _ := setup(t, types.ApprovalPending)
	if _, err := svc.Reset(context.Background(), "admin", "d@x.io"); !errors.Is(err, types.ErrValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestUnknownDriver(t *testing.T) {
	svc, _, _ := setup(t, types.ApprovalPending)
	if _, err := svc.SetStatus(context.Background(), "admin", "ghost@x.io", types.ApprovalApproved); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("SetStatus err = %v, want not found", err)
	}
	if _, err := svc.Reset(context.Background(), "admin", "ghost@x.io"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Reset err = %v, want not found", err)
	}
}

func TestNotifierFailureBecomesWarning(t *testing.T) {
	svc, store, n := setup(t, types.ApprovalPending)
	n.err = errors.New("smtp relay unreachable")

	res, err := svc.SetStatus(context.Background(), "admin", "d@x.io", types.ApprovalApproved)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if res.Warning == "" || !res.Changed {
		t.Errorf("result = %+v, want a warning", res)
	}
	d, _ := store.Get(context.Background(), "d@x.io")
	if d.ApprovalStatus != types.ApprovalApproved {
		t.Errorf("status = %s, the change must not be rolled back", d.ApprovalStatus)
	}
}

// racingRepo flips the stored status right before the guarded update runs.
type racingRepo struct {
	*memory.DriverStore
	flipTo types.ApprovalStatus
}

func (r *racingRepo) UpdateApproval(ctx context.Context, id string, from, to types.ApprovalStatus, at time.Time) (*models.Driver, error) {
	if _, err := r.DriverStore.UpdateApproval(ctx, id, from, r.flipTo, at); err != nil {
		return nil, err
	}
	return r.DriverStore.UpdateApproval(ctx, id, from, to, at)
}

func TestConcurrentChange(t *testing.T) {
	ctx := context.Background()

	t.Run("different decision conflicts", func(t *testing.T) {
		store := memory.NewDriverStore()
		_ = store.Create(ctx, &models.Driver{ID: "d@x.io", ApprovalStatus: types.ApprovalPending})
		svc := New(&racingRepo{DriverStore: store, flipTo: types.ApprovalRejected}, nil, 0, trm.Nop{}, logger.Discard())

		if _, err := svc.SetStatus(ctx, "admin", "d@x.io", types.ApprovalApproved); !errors.Is(err, types.ErrConflict) {
			t.Errorf("err = %v, want conflict", err)
		}
	})

	t.Run("same decision is idempotent", func(t *testing.T) {
		store := memory.NewDriverStore()
		_ = store.Create(ctx, &models.Driver{ID: "d@x.io", ApprovalStatus: types.ApprovalPending})
		svc := New(&racingRepo{DriverStore: store, flipTo: types.ApprovalApproved}, nil, 0, trm.Nop{}, logger.Discard())

		res, err := svc.SetStatus(ctx, "admin", "d@x.io", types.ApprovalApproved)
		if err != nil || res.Changed {
			t.Errorf("result = %+v, %v, want unchanged success", res, err)
		}
	})
}

func TestListByBucket(t *testing.T) {
	svc, _, _ := setup(t, types.ApprovalPending)

	pending, err := svc.ListByBucket(context.Background(), types.ApprovalPending)
	if err != nil || len(pending) != 1 {
		t.Errorf("pending = %v, %v", pending, err)
	}
	if _, err := svc.ListByBucket(context.Background(), "ALL"); !errors.Is(err, types.ErrValidation) {
		t.Errorf("bad bucket err = %v", err)
	}
}
