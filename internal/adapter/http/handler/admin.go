package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/okutransport/ride-coordinator/internal/adapter/http/handler/dto"
	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/internal/service/ride"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
	"github.com/okutransport/ride-coordinator/pkg/validator"
)

type ApprovalService interface {
	SetStatus(ctx context.Context, adminID, driverID string, target types.ApprovalStatus) (*models.ApprovalResult, error)
	Reset(ctx context.Context, adminID, driverID string) (*models.ApprovalResult, error)
	ListByBucket(ctx context.Context, bucket types.ApprovalStatus) ([]*models.Driver, error)
}

type BookingLister interface {
	List(ctx context.Context, filters models.RideFilters) ([]*models.Ride, models.Metadata, error)
}

type Admin struct {
	approvals ApprovalService
	bookings  BookingLister
	l         logger.Logger
}

func NewAdmin(approvals ApprovalService, bookings BookingLister, l logger.Logger) *Admin {
	return &Admin{
		approvals: approvals,
		bookings:  bookings,
		l:         l,
	}
}

// SetApproval godoc
// @Summary      Change a driver's approval status
// @Description  Setting the current status again is a no-op reported with changed=false.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        driver_id  path      string               true  "Driver ID"
// @Param        request    body      dto.ApprovalRequest  true  "Target status"
// @Success      200        {object}  models.ApprovalResult
// @Failure      409        {object}  map[string]any
// @Failure      422        {object}  map[string]any
// @Router       /admin/drivers/{driver_id}/approval [put]
func (h *Admin) SetApproval(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_driver_approval")
	driverID := r.PathValue("driver_id")
	ctx = wrap.WithDriverID(ctx, driverID)

	var req dto.ApprovalRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	result, err := h.approvals.SetStatus(ctx, models.IdentityFromContext(ctx).Actor().ID, driverID, req.Status)
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to change approval status", err)
		return
	}

	h.writeApproval(ctx, w, result)
}

// ResetApproval godoc
// @Summary      Move an approved or rejected driver back to PENDING
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        driver_id  path      string  true  "Driver ID"
// @Success      200        {object}  models.ApprovalResult
// @Router       /admin/drivers/{driver_id}/reset [post]
func (h *Admin) ResetApproval(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "reset_driver_approval")
	driverID := r.PathValue("driver_id")
	ctx = wrap.WithDriverID(ctx, driverID)

	result, err := h.approvals.Reset(ctx, models.IdentityFromContext(ctx).Actor().ID, driverID)
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to reset approval status", err)
		return
	}

	h.writeApproval(ctx, w, result)
}

func (h *Admin) writeApproval(ctx context.Context, w http.ResponseWriter, result *models.ApprovalResult) {
	if result.Warning != "" {
		h.l.Warn(ctx, "approval changed with warning", "warning", result.Warning)
	}
	if err := writeJSON(w, http.StatusOK, envelope{"result": result}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// ListDrivers godoc
// @Summary      Drivers in one approval bucket
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        bucket  query     string  false  "PENDING, APPROVED or REJECTED"
// @Success      200     {array}   models.Driver
// @Router       /admin/drivers [get]
func (h *Admin) ListDrivers(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_drivers_by_bucket")

	bucket := types.ApprovalStatus(strings.ToUpper(readString(r.URL.Query(), "bucket", string(types.ApprovalPending))))

	drivers, err := h.approvals.ListByBucket(ctx, bucket)
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to list drivers", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"drivers": drivers}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// ListBookings godoc
// @Summary      Paginated bookings list
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Param        sort       query     string  false  "Sort key, prefix with - for descending"
// @Param        status     query     string  false  "Ride status"
// @Success      200        {object}  map[string]any
// @Router       /admin/rides [get]
func (h *Admin) ListBookings(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_list_bookings")

	v := validator.New()
	qs := r.URL.Query()

	filters := models.RideFilters{
		Filters: models.Filters{
			Page:         readInt(qs, "page", 1, v),
			PageSize:     readInt(qs, "page_size", ride.DefaultPageSize, v),
			Sort:         readString(qs, "sort", models.RideSortSafelist[0]),
			SortSafelist: models.RideSortSafelist,
		},
		Status: types.RideStatus(strings.ToUpper(qs.Get("status"))),
	}
	if filters.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	rides, metadata, err := h.bookings.List(ctx, filters)
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to list bookings", err)
		return
	}

	h.l.Debug(ctx, "fetched bookings", "total", metadata.TotalRecords)

	if err := writeJSON(w, http.StatusOK, envelope{"rides": rides, "metadata": metadata}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}
