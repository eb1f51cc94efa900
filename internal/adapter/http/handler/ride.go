package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/okutransport/ride-coordinator/internal/adapter/http/handler/dto"
	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
	"github.com/okutransport/ride-coordinator/pkg/validator"
)

type RideService interface {
	Create(ctx context.Context, in models.CreateRideInput) (*models.Ride, error)
	Get(ctx context.Context, rideID uuid.UUID, viewer models.Actor) (*models.Ride, error)
	ListOpen(ctx context.Context) ([]*models.Ride, error)
	PassengerHistory(ctx context.Context, passengerID string) ([]*models.Ride, error)
	DriverHistory(ctx context.Context, driverID string) ([]*models.Ride, error)
	Accept(ctx context.Context, rideID uuid.UUID, driverID string) (*models.Ride, error)
	BeginTrip(ctx context.Context, rideID uuid.UUID, driverID string) (*models.Ride, error)
	Complete(ctx context.Context, rideID uuid.UUID, driverID string) (*models.Ride, error)
	Cancel(ctx context.Context, rideID uuid.UUID, actor models.Actor) (*models.Ride, error)
}

type TrackingService interface {
	RecordPing(ctx context.Context, ping models.LocationPing) (bool, error)
	Snapshot(ctx context.Context, rideID uuid.UUID, viewer models.Actor) (*models.TrackingSnapshot, error)
}

type Ride struct {
	rides    RideService
	tracking TrackingService
	l        logger.Logger
}

func NewRide(rides RideService, tracking TrackingService, l logger.Logger) *Ride {
	return &Ride{
		rides:    rides,
		tracking: tracking,
		l:        l,
	}
}

// CreateRide godoc
// @Summary      Request a ride
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.CreateRideRequest  true  "Ride request"
// @Success      201      {object}  dto.RideStatusResponse
// @Failure      422      {object}  map[string]any
// @Router       /rides [post]
func (h *Ride) CreateRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_ride")
	caller := models.IdentityFromContext(ctx)

	var req dto.CreateRideRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	ride, err := h.rides.Create(ctx, req.ToInput(caller.Actor().ID))
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to create ride", err)
		return
	}

	response := envelope{
		"ride_id":      ride.ID,
		"status":       ride.Status,
		"requested_at": ride.RequestedAt,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// ListOpen godoc
// @Summary      Open ride requests, earliest first
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.OpenRide
// @Router       /rides/open [get]
func (h *Ride) ListOpen(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_open_rides")

	rides, err := h.rides.ListOpen(ctx)
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to list open rides", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"rides": dto.NewOpenRides(rides)}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// GetRide godoc
// @Summary      Ride details for its passenger, assigned driver or an admin
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string  true  "Ride ID"
// @Success      200      {object}  models.Ride
// @Failure      403      {object}  map[string]any
// @Failure      404      {object}  map[string]any
// @Router       /rides/{ride_id} [get]
func (h *Ride) GetRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_ride")

	rideID, err := readRideID(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	ride, err := h.rides.Get(ctx, rideID, models.IdentityFromContext(ctx).Actor())
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to get ride", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": ride}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// AcceptRide godoc
// @Summary      Accept an open ride
// @Description  Exactly one of several concurrent accepts succeeds; the others get 409.
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string  true  "Ride ID"
// @Success      200      {object}  dto.RideStatusResponse
// @Failure      403      {object}  map[string]any
// @Failure      409      {object}  map[string]any
// @Router       /rides/{ride_id}/accept [post]
func (h *Ride) AcceptRide(w http.ResponseWriter, r *http.Request) {
	h.driverTransition(w, r, "accept_ride", h.rides.Accept)
}

// StartRide godoc
// @Summary      Start the trip after pickup
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string  true  "Ride ID"
// @Success      200      {object}  dto.RideStatusResponse
// @Failure      403      {object}  map[string]any
// @Failure      409      {object}  map[string]any
// @Router       /rides/{ride_id}/start [post]
func (h *Ride) StartRide(w http.ResponseWriter, r *http.Request) {
	h.driverTransition(w, r, "start_ride", h.rides.BeginTrip)
}

// CompleteRide godoc
// @Summary      Complete the trip
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string  true  "Ride ID"
// @Success      200      {object}  dto.RideStatusResponse
// @Failure      403      {object}  map[string]any
// @Failure      409      {object}  map[string]any
// @Router       /rides/{ride_id}/complete [post]
func (h *Ride) CompleteRide(w http.ResponseWriter, r *http.Request) {
	h.driverTransition(w, r, "complete_ride", h.rides.Complete)
}

func (h *Ride) driverTransition(w http.ResponseWriter, r *http.Request, action string, fn func(context.Context, uuid.UUID, string) (*models.Ride, error)) {
	ctx := wrap.WithAction(r.Context(), action)

	rideID, err := readRideID(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	ride, err := fn(ctx, rideID, models.IdentityFromContext(ctx).Actor().ID)
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "ride transition failed", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, rideStatus(ride), nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// CancelRide godoc
// @Summary      Cancel a requested or accepted ride
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string  true  "Ride ID"
// @Success      200      {object}  dto.RideStatusResponse
// @Failure      409      {object}  map[string]any
// @Router       /rides/{ride_id}/cancel [post]
func (h *Ride) CancelRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "cancel_ride")

	rideID, err := readRideID(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	ride, err := h.rides.Cancel(ctx, rideID, models.IdentityFromContext(ctx).Actor())
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to cancel ride", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, rideStatus(ride), nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// UpdateLocation godoc
// @Summary      Report the driver's position for an active ride
// @Description  Pings older than the stored one are ignored and answered with accepted=false.
// @Tags         Tracking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string                   true  "Ride ID"
// @Param        request  body      dto.LocationPingRequest  true  "Ping"
// @Success      200      {object}  map[string]bool
// @Router       /rides/{ride_id}/location [post]
func (h *Ride) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_location")

	rideID, err := readRideID(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.LocationPingRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	accepted, err := h.tracking.RecordPing(ctx, req.ToModel(rideID, models.IdentityFromContext(ctx).Actor().ID))
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to record location", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"accepted": accepted}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// Tracking godoc
// @Summary      Ride status, driver position and ETA
// @Tags         Tracking
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string  true  "Ride ID"
// @Success      200      {object}  models.TrackingSnapshot
// @Failure      403      {object}  map[string]any
// @Router       /rides/{ride_id}/tracking [get]
func (h *Ride) Tracking(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_tracking")

	rideID, err := readRideID(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	snap, err := h.tracking.Snapshot(ctx, rideID, models.IdentityFromContext(ctx).Actor())
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to build tracking snapshot", err)
		return
	}

	response := envelope{
		"ride_id": snap.RideID,
		"status":  snap.Status,
	}
	if snap.DriverID != nil {
		response["driver_id"] = *snap.DriverID
	}
	if snap.DriverLocation != nil {
		response["driver_location"] = snap.DriverLocation
	}
	if snap.ETAMinutes != nil {
		response["eta_minutes"] = *snap.ETAMinutes
		response["eta_target"] = snap.ETATarget
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// PassengerHistory godoc
// @Summary      Rides of a passenger, newest first
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Param        passenger_id  path      string  true  "Passenger ID"
// @Success      200           {array}   models.Ride
// @Failure      403           {object}  map[string]any
// @Router       /passengers/{passenger_id}/rides [get]
func (h *Ride) PassengerHistory(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "passenger_history")
	passengerID := r.PathValue("passenger_id")

	if !selfOrAdmin(ctx, passengerID) {
		errorResponse(w, http.StatusForbidden, types.KindUnauthorized, types.ErrForbidden.Error())
		return
	}

	rides, err := h.rides.PassengerHistory(ctx, passengerID)
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to get passenger history", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"rides": rides}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// DriverHistory godoc
// @Summary      Rides assigned to a driver, newest first
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Param        driver_id  path      string  true  "Driver ID"
// @Success      200        {array}   models.Ride
// @Failure      403        {object}  map[string]any
// @Router       /drivers/{driver_id}/rides [get]
func (h *Ride) DriverHistory(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "driver_history")
	driverID := r.PathValue("driver_id")

	if !selfOrAdmin(ctx, driverID) {
		errorResponse(w, http.StatusForbidden, types.KindUnauthorized, types.ErrForbidden.Error())
		return
	}

	rides, err := h.rides.DriverHistory(ctx, driverID)
	if err != nil {
		serviceErrorResponse(ctx, h.l, w, "failed to get driver history", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"rides": rides}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// rideStatus is the body of every lifecycle transition.
func rideStatus(r *models.Ride) envelope {
	body := envelope{"ride_id": r.ID, "status": r.Status}
	if r.DriverID != nil {
		body["driver_id"] = *r.DriverID
	}
	return body
}

// selfOrAdmin reports whether the caller is subject or an admin.
func selfOrAdmin(ctx context.Context, subject string) bool {
	id := models.IdentityFromContext(ctx)
	if id.IsAnonymous() {
		return false
	}
	return id.Role == types.AdminRole || id.Subject == subject
}
