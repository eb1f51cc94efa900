package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/logger"
)

type fakeApprovals struct {
	adminID  string
	driverID string
	target   types.ApprovalStatus
	bucket   types.ApprovalStatus
	result   *models.ApprovalResult
	err      error
}

func (f *fakeApprovals) SetStatus(_ context.Context, adminID, driverID string, target types.ApprovalStatus) (*models.ApprovalResult, error) {
	f.adminID, f.driverID, f.target = adminID, driverID, target
	return f.result, f.err
}

func (f *fakeApprovals) Reset(_ context.Context, adminID, driverID string) (*models.ApprovalResult, error) {
	f.adminID, f.driverID, f.target = adminID, driverID, types.ApprovalPending
	return f.result, f.err
}

func (f *fakeApprovals) ListByBucket(_ context.Context, bucket types.ApprovalStatus) ([]*models.Driver, error) {
	f.bucket = bucket
	return []*models.Driver{}, f.err
}

type fakeBookings struct {
	filters models.RideFilters
}

func (f *fakeBookings) List(_ context.Context, filters models.RideFilters) ([]*models.Ride, models.Metadata, error) {
	f.filters = filters
	return []*models.Ride{}, models.CalculateMetadata(0, filters.Page, filters.PageSize), nil
}

func TestSetApproval(t *testing.T) {
	approvals := &fakeApprovals{result: &models.ApprovalResult{DriverID: "d@x.io", Status: types.ApprovalApproved, Changed: true}}
	h := NewAdmin(approvals, &fakeBookings{}, logger.Discard())

	r := request(http.MethodPut, "/admin/drivers/x/approval", `{"status": "APPROVED"}`, admin)
	r.SetPathValue("driver_id", "d@x.io")
	rec := httptest.NewRecorder()
	h.SetApproval(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if approvals.adminID != admin.Subject || approvals.driverID != "d@x.io" || approvals.target != types.ApprovalApproved {
		t.Errorf("service got admin=%q driver=%q target=%q", approvals.adminID, approvals.driverID, approvals.target)
	}
	result := decode(t, rec)["result"].(map[string]any)
	if result["changed"] != true {
		t.Errorf("changed not reported: %v", result)
	}
}

func TestSetApprovalErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{"unknown status", `{"status": "BANNED"}`, nil, http.StatusUnprocessableEntity},
		{"missing status", `{}`, nil, http.StatusUnprocessableEntity},
		{"transition not allowed", `{"status": "PENDING"}`, types.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"concurrent change", `{"status": "REJECTED"}`, types.ErrApprovalChanged, http.StatusConflict},
		{"unknown driver", `{"status": "APPROVED"}`, types.ErrDriverNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAdmin(&fakeApprovals{err: tt.err}, &fakeBookings{}, logger.Discard())

			r := request(http.MethodPut, "/admin/drivers/x/approval", tt.body, admin)
			r.SetPathValue("driver_id", "d@x.io")
			rec := httptest.NewRecorder()
			h.SetApproval(rec, r)

			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.code, rec.Body.String())
			}
		})
	}
}

func TestListDriversDefaultsToPending(t *testing.T) {
	approvals := &fakeApprovals{}
	h := NewAdmin(approvals, &fakeBookings{}, logger.Discard())

	rec := httptest.NewRecorder()
	h.ListDrivers(rec, request(http.MethodGet, "/admin/drivers", "", admin))
	if rec.Code != http.StatusOK || approvals.bucket != types.ApprovalPending {
		t.Fatalf("status = %d bucket = %q", rec.Code, approvals.bucket)
	}

	rec = httptest.NewRecorder()
	h.ListDrivers(rec, request(http.MethodGet, "/admin/drivers?bucket=approved", "", admin))
	if approvals.bucket != types.ApprovalApproved {
		t.Errorf("bucket = %q, want APPROVED", approvals.bucket)
	}
}

func TestListBookings(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		code     int
		page     int
		pageSize int
		sort     string
	}{
		{"defaults", "", http.StatusOK, 1, 20, "-requested_at"},
		{"explicit", "?page=2&page_size=5&sort=status&status=completed", http.StatusOK, 2, 5, "status"},
		{"unsafe sort", "?sort=password", http.StatusUnprocessableEntity, 0, 0, ""},
		{"bad page", "?page=abc", http.StatusUnprocessableEntity, 0, 0, ""},
		{"zero page size", "?page_size=0", http.StatusUnprocessableEntity, 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &fakeBookings{}
			h := NewAdmin(&fakeApprovals{}, bookings, logger.Discard())

			rec := httptest.NewRecorder()
			h.ListBookings(rec, request(http.MethodGet, "/admin/rides"+tt.query, "", admin))

			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.code, rec.Body.String())
			}
			if tt.code != http.StatusOK {
				return
			}
			f := bookings.filters
			if f.Page != tt.page || f.PageSize != tt.pageSize || f.Sort != tt.sort {
				t.Errorf("filters = %+v", f.Filters)
			}
			if _, ok := decode(t, rec)["metadata"]; !ok {
				t.Errorf("metadata missing")
			}
		})
	}
}
