package handler

import (
	"context"
	"net/http"

	"github.com/okutransport/ride-coordinator/internal/adapter/http/handler/dto"
	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
	"github.com/okutransport/ride-coordinator/pkg/validator"
)

type DriverService interface {
	Register(ctx context.Context, in models.RegisterDriverInput) (*models.Driver, error)
	Get(ctx context.Context, driverID string) (*models.Driver, error)
}

type Driver struct {
	service DriverService
	l       logger.Logger
}

func NewDriver(service DriverService, l logger.Logger) *Driver {
	return &Driver{
		service: service,
		l:       l,
	}
}

// Register godoc
// @Summary      Register a driver
// @Description  Creates a PENDING driver profile keyed by the lowercased e-mail.
// @Tags         Drivers
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RegisterDriverRequest  true  "Driver profile"
// @Success      201      {object}  models.Driver
// @Failure      409      {object}  map[string]any
// @Failure      422      {object}  map[string]any
// @Router       /drivers [post]
func (h *Driver) Register(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "register_driver")

	var req dto.RegisterDriverRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		h.l.Debug(ctx, "invalid driver registration", "fields", v.Summary())
		failedValidationResponse(w, v.Errors)
		return
	}

	driver, err := h.service.Register(ctx, req.ToInput())
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to register a new driver", err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"driver": driver}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// Get godoc
// @Summary      Driver profile for the driver or an admin
// @Tags         Drivers
// @Produce      json
// @Security     BearerAuth
// @Param        driver_id  path      string  true  "Driver ID"
// @Success      200        {object}  models.Driver
// @Failure      403        {object}  map[string]any
// @Failure      404        {object}  map[string]any
// @Router       /drivers/{driver_id} [get]
func (h *Driver) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_driver")
	driverID := r.PathValue("driver_id")
	ctx = wrap.WithDriverID(ctx, driverID)

	if !selfOrAdmin(ctx, driverID) {
		errorResponse(w, http.StatusForbidden, types.KindUnauthorized, types.ErrForbidden.Error())
		return
	}

	driver, err := h.service.Get(ctx, driverID)
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to get driver", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"driver": driver}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}
