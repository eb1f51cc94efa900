package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/okutransport/ride-coordinator/docs"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	mux, h, m := a.mux, a.routes, a.m

	mux.HandleFunc("GET /health", h.health.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler(httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))

	// Rides
	mux.Handle("POST /rides", m.RequireRoles(h.ride.CreateRide, types.PassengerRole))
	mux.Handle("GET /rides/open", m.RequireRoles(h.ride.ListOpen, types.DriverRole, types.AdminRole))
	mux.Handle("GET /rides/{ride_id}", m.RequireRoles(h.ride.GetRide))
	mux.Handle("POST /rides/{ride_id}/accept", m.RequireRoles(h.ride.AcceptRide, types.DriverRole))
	mux.Handle("POST /rides/{ride_id}/start", m.RequireRoles(h.ride.StartRide, types.DriverRole))
	mux.Handle("POST /rides/{ride_id}/complete", m.RequireRoles(h.ride.CompleteRide, types.DriverRole))
	mux.Handle("POST /rides/{ride_id}/cancel", m.RequireRoles(h.ride.CancelRide))

	// Tracking
	mux.Handle("POST /rides/{ride_id}/location", m.RequireRoles(h.ride.UpdateLocation, types.DriverRole))
	mux.Handle("GET /rides/{ride_id}/tracking", m.RequireRoles(h.ride.Tracking))

	// History
	mux.Handle("GET /passengers/{passenger_id}/rides", m.RequireRoles(h.ride.PassengerHistory))
	mux.Handle("GET /drivers/{driver_id}/rides", m.RequireRoles(h.ride.DriverHistory))

	// Drivers
	mux.HandleFunc("POST /drivers", h.driver.Register)
	mux.Handle("GET /drivers/{driver_id}", m.RequireRoles(h.driver.Get))

	// Admin
	mux.Handle("GET /admin/drivers", m.RequireRoles(h.admin.ListDrivers, types.AdminRole))
	mux.Handle("PUT /admin/drivers/{driver_id}/approval", m.RequireRoles(h.admin.SetApproval, types.AdminRole))
	mux.Handle("POST /admin/drivers/{driver_id}/reset", m.RequireRoles(h.admin.ResetApproval, types.AdminRole))
	mux.Handle("GET /admin/rides", m.RequireRoles(h.admin.ListBookings, types.AdminRole))
}
