// @title        Dispatch Coordinator API
// @version      1.0
// @description  Offer, acceptance and dispatch coordination for transport requests.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/dispatch-coordinator/internal/api"
	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
	"github.com/99minutos/dispatch-coordinator/internal/core/service"
	"github.com/99minutos/dispatch-coordinator/internal/infrastructure/config"
	"github.com/99minutos/dispatch-coordinator/internal/infrastructure/db/mongo"
	"github.com/99minutos/dispatch-coordinator/internal/infrastructure/db/redis"
	"github.com/99minutos/dispatch-coordinator/internal/infrastructure/events"
	"github.com/99minutos/dispatch-coordinator/internal/infrastructure/events/kafka"
	"github.com/99minutos/dispatch-coordinator/internal/infrastructure/http/handlers"
	"github.com/99minutos/dispatch-coordinator/internal/infrastructure/keylock"
	"github.com/99minutos/dispatch-coordinator/internal/infrastructure/memory"
	"github.com/99minutos/dispatch-coordinator/internal/infrastructure/queue"
	"github.com/99minutos/dispatch-coordinator/pkg/logger"
)

const (
	serviceName     = "dispatch-coordinator"
	shutdownTimeout = 10 * time.Second
	eventWorkers    = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

// app holds the wired adapters and everything that must be closed on shutdown.
type app struct {
	requests   ports.RequestRegistry
	drivers    ports.DriverRegistry
	offers     ports.OfferRepository
	dispatches ports.DispatchRepository
	locker     ports.Locker
	publishers events.Fanout
	checks     []handlers.Check
	closers    []func(context.Context) error
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	a := &app{}
	defer a.close(log)

	if err := a.wireStorage(ctx, cfg, log); err != nil {
		return err
	}
	if err := a.wireLocking(ctx, cfg, log); err != nil {
		return err
	}
	if len(cfg.Kafka.Brokers) > 0 {
		pub := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		a.publishers = append(a.publishers, pub)
		a.closers = append(a.closers, func(context.Context) error { return pub.Close() })
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka lifecycle events enabled")
	}

	var publisher ports.EventPublisher
	if len(a.publishers) > 0 {
		dispatcher := queue.NewDispatcher(eventWorkers, a.publishers, log)
		dispatcher.Start()
		// Drained before the publishers it feeds are closed.
		a.closers = append([]func(context.Context) error{dispatcher.Stop}, a.closers...)
		publisher = dispatcher
	}

	svc := service.NewCoordinationService(service.CoordinationDeps{
		Registry:    service.NewRegistryGateway(a.requests, a.drivers, cfg.Registry.Timeout, log),
		Offers:      a.offers,
		Dispatches:  a.dispatches,
		Locker:      a.locker,
		Events:      publisher,
		LockTimeout: cfg.Lock.Timeout,
	}, log)

	e := api.NewRouter(api.Deps{
		Service:     svc,
		Checks:      a.checks,
		AuthEnabled: cfg.Auth.Enabled,
		JWTSecret:   cfg.Auth.JWTSecret,
		Log:         log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage.Backend).Str("lock", cfg.Lock.Backend).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func (a *app) wireStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	seedRequests, err := memory.ParseRequestSeed(cfg.Storage.SeedRequests)
	if err != nil {
		return err
	}
	seedDrivers, err := memory.ParseDriverSeed(cfg.Storage.SeedDrivers)
	if err != nil {
		return err
	}

	switch cfg.Storage.Backend {
	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(ctx context.Context) error { return client.Disconnect(ctx) })
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			return err
		}

		requests := mongo.NewRequestRegistry(db)
		drivers := mongo.NewDriverRegistry(db)
		if err := seedMongo(ctx, requests, drivers, seedRequests, seedDrivers); err != nil {
			return err
		}

		a.requests = requests
		a.drivers = drivers
		a.offers = mongo.NewOfferRepository(db)
		a.dispatches = mongo.NewDispatchRepository(db)
		a.publishers = append(a.publishers, mongo.NewEventRepository(db))
		a.checks = append(a.checks, handlers.Check{Name: "mongodb", Ping: mongo.Ping(db)})
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb storage ready")
		return nil

	default:
		a.requests = memory.NewRequestRegistry(seedRequests...)
		a.drivers = memory.NewDriverRegistry(seedDrivers...)
		a.offers = memory.NewOfferStore()
		a.dispatches = memory.NewDispatchStore()
		log.Info().Int("requests", len(seedRequests)).Int("drivers", len(seedDrivers)).Msg("in-memory storage ready")
		return nil
	}
}

func seedMongo(
	ctx context.Context,
	requests *mongo.RequestRegistry,
	drivers *mongo.DriverRegistry,
	seedRequests []domain.TrackingRequest,
	seedDrivers []domain.Driver,
) error {
	for _, r := range seedRequests {
		if err := requests.Put(ctx, r); err != nil {
			return fmt.Errorf("seed request %s: %w", r.TrackingID, err)
		}
	}
	for _, d := range seedDrivers {
		if err := drivers.Put(ctx, d); err != nil {
			return fmt.Errorf("seed driver %s: %w", d.DriverID, err)
		}
	}
	return nil
}

func (a *app) wireLocking(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if !cfg.UsesRedis() {
		a.locker = keylock.New()
		return nil
	}

	client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeRedis(client))
	a.checks = append(a.checks, handlers.Check{Name: "redis", Ping: redis.Ping(client)})

	if cfg.Lock.Backend == config.BackendRedis {
		a.locker = redis.NewLock(client, cfg.Lock.TTL, log)
	} else {
		a.locker = keylock.New()
	}
	if cfg.Registry.DriverCacheTTL > 0 {
		a.drivers = redis.NewDriverCache(a.drivers, client, cfg.Registry.DriverCacheTTL, log)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	return nil
}

func closeRedis(client *goredis.Client) func(context.Context) error {
	return func(context.Context) error { return client.Close() }
}

// close releases adapters in registration order.
func (a *app) close(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, c := range a.closers {
		if err := c(ctx); err != nil {
			log.Warn().Err(err).Msg("shutdown: close adapter")
		}
	}
}
