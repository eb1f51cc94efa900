package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okutransport/ride-coordinator/config"
	"github.com/okutransport/ride-coordinator/internal/adapter/http/handler"
	"github.com/okutransport/ride-coordinator/internal/adapter/http/middleware"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
)

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.ServerConfig
	log  logger.Logger
}

type handlers struct {
	ride   *handler.Ride
	driver *handler.Driver
	admin  *handler.Admin
	health *handler.Health
}

// Services groups everything the HTTP layer calls into.
type Services struct {
	Rides     handler.RideService
	Tracking  handler.TrackingService
	Drivers   handler.DriverService
	Approvals handler.ApprovalService
	Bookings  handler.BookingLister
	Auth      middleware.AuthService
	Health    *handler.Health
}

func New(cfg config.Config, s Services, logger logger.Logger) (*API, error) {
	if s.Auth == nil {
		return nil, errors.New("auth service is required")
	}
	if s.Health == nil {
		s.Health = handler.NewHealth(cfg.ServiceName, string(cfg.Storage), nil, logger)
	}

	api := &API{
		mux: http.NewServeMux(),
		routes: &handlers{
			ride:   handler.NewRide(s.Rides, s.Tracking, logger),
			driver: handler.NewDriver(s.Drivers, logger),
			admin:  handler.NewAdmin(s.Approvals, s.Bookings, logger),
			health: s.Health,
		},
		m:    middleware.NewMiddleware(s.Auth, logger),
		addr: cfg.Server.Addr(),
		cfg:  cfg.Server,
		log:  logger,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:         api.addr,
		Handler:      api.Handler(cfg.ServiceName),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return api, nil
}

// Handler returns the mux wrapped in the middleware chain. Metrics sits
// directly on the mux so it can read the matched pattern.
func (a *API) Handler(serviceName string) http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Logging(a.m.Auth(a.m.Metrics(serviceName)(a.mux)))))
}

func (a *API) Stop(ctx context.Context) error {
	timeout := a.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}
