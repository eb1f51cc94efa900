package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/okutransport/ride-coordinator/config"
	"github.com/okutransport/ride-coordinator/internal/adapter/http/handler"
	"github.com/okutransport/ride-coordinator/internal/adapter/http/server"
	"github.com/okutransport/ride-coordinator/internal/adapter/kafka"
	"github.com/okutransport/ride-coordinator/internal/adapter/locationIQ"
	"github.com/okutransport/ride-coordinator/internal/adapter/memory"
	repo "github.com/okutransport/ride-coordinator/internal/adapter/postgres"
	rabbitadapter "github.com/okutransport/ride-coordinator/internal/adapter/rabbit"
	redisadapter "github.com/okutransport/ride-coordinator/internal/adapter/redis"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/internal/service/approval"
	"github.com/okutransport/ride-coordinator/internal/service/auth"
	"github.com/okutransport/ride-coordinator/internal/service/driver"
	"github.com/okutransport/ride-coordinator/internal/service/ride"
	"github.com/okutransport/ride-coordinator/internal/service/tracking"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
	"github.com/okutransport/ride-coordinator/pkg/passhash"
	"github.com/okutransport/ride-coordinator/pkg/postgres"
	"github.com/okutransport/ride-coordinator/pkg/rabbit"
	"github.com/okutransport/ride-coordinator/pkg/redis"
	"github.com/okutransport/ride-coordinator/pkg/trm"
)

var ErrInvalidStorageMode = errors.New("invalid storage mode")

// stores is what differs between storage modes.
type stores struct {
	rides     ride.RideRepo
	events    ride.RideEventRepo
	drivers   interface {
		driver.DriverRepo
		approval.DriverRepo
	}
	locations tracking.LocationStore
	stream    tracking.LocationStream
	publisher ride.Publisher
	notifier  approval.Notifier
	trm       trm.TxManager
	checks    map[string]handler.Check
}

type App struct {
	httpServer *server.API
	closers    []func(ctx context.Context) error

	cfg config.Config
	log logger.Logger
}

// NewApplication wires the services for cfg.Storage and builds the HTTP server.
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg: cfg,
		log: log,
	}

	var (
		s   *stores
		err error
	)
	switch cfg.Storage {
	case types.StorageMemory:
		s = a.memoryStores()
	case types.StoragePostgres:
		s, err = a.postgresStores(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStorageMode, cfg.Storage)
	}
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	var geocoder ride.GeoCoder
	if cfg.ExternalAPI.LocationIQapiKey != "" {
		geocoder = locationIQ.New(cfg.ExternalAPI.LocationIQapiKey, cfg.ExternalAPI.LocationIQBaseURL, cfg.ExternalAPI.Timeout)
	}

	trackingService := tracking.New(s.rides, s.locations, s.stream, log)
	rideService := ride.New(s.rides, s.events, s.drivers, trackingService, s.publisher, geocoder, s.trm, log)
	driverService := driver.New(s.drivers, passhash.New(passhash.DefaultIterations), s.trm, log)
	approvalService := approval.New(s.drivers, s.notifier, cfg.Tracking.NotifyTimeout, s.trm, log)

	a.httpServer, err = server.New(cfg, server.Services{
		Rides:     rideService,
		Tracking:  trackingService,
		Drivers:   driverService,
		Approvals: approvalService,
		Bookings:  rideService,
		Auth:      auth.NewTokenService(cfg.Auth.JWTSecret),
		Health:    handler.NewHealth(cfg.ServiceName, string(cfg.Storage), s.checks, log),
	}, log)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("failed to setup http server: %w", err)
	}

	return a, nil
}

func (a *App) memoryStores() *stores {
	rides := memory.NewRideStore()
	return &stores{
		rides:     rides,
		events:    rides,
		drivers:   memory.NewDriverStore(),
		locations: memory.NewLocationStore(),
		trm:       trm.Nop{},
	}
}

func (a *App) postgresStores(ctx context.Context) (*stores, error) {
	db, err := postgres.New(ctx, a.cfg.Database)
	if err != nil {
		a.log.Error(ctx, "failed to setup database", err)
		return nil, fmt.Errorf("postgres: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error {
		db.Close()
		return nil
	})

	redisClient, err := redis.New(ctx, a.cfg.Redis)
	if err != nil {
		a.log.Error(ctx, "failed to setup redis", err)
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error {
		return redisClient.Close()
	})

	mq, err := rabbit.New(ctx, a.cfg.RabbitMQ.GetDSN(), a.log, rabbitadapter.RideExchange, rabbitadapter.NotificationExchange)
	if err != nil {
		a.log.Error(ctx, "failed to setup rabbitmq", err)
		return nil, fmt.Errorf("rabbitmq: %w", err)
	}
	a.closers = append(a.closers, mq.Close)

	s := &stores{
		rides:     repo.NewRideRepo(db.Pool),
		events:    repo.NewRideEventRepo(db.Pool),
		drivers:   repo.NewDriverRepo(db.Pool),
		locations: redisadapter.NewLocationCache(redisClient, a.cfg.Tracking.LocationTTL),
		publisher: rabbitadapter.NewRideEventProducer(mq),
		notifier:  rabbitadapter.NewApprovalNotifier(mq),
		trm:       repo.NewTxManager(db.Pool),
		checks: map[string]handler.Check{
			"postgres": db.Pool.Ping,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	}

	if a.cfg.Kafka.Enabled {
		producer := kafka.NewLocationProducer(a.cfg.Kafka.Brokers, a.cfg.Kafka.LocationTopic, a.cfg.Kafka.WriteTimeout)
		s.stream = producer
		a.closers = append(a.closers, func(context.Context) error {
			return producer.Close()
		})
	}

	return s, nil
}

// Run serves HTTP until SIGINT/SIGTERM or a server failure.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.httpServer.Run(ctx, errCh)
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "ride coordinator closed")
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "ride coordinator started", "storage", a.cfg.Storage)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	}
}

// close stops the server first, then the dependencies in reverse order.
func (a *App) close(ctx context.Context) {
	ctx = wrap.WithAction(ctx, "app_close")

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Warn(ctx, "failed to gracefully close http server", "error", err.Error())
		}
	}

	for _, closeFn := range slices.Backward(a.closers) {
		if err := closeFn(ctx); err != nil {
			a.log.Warn(ctx, "failed to close dependency", "error", err.Error())
		}
	}
	a.closers = nil
}
