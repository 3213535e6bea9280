package api

import (
	"context"
	"errors"
	"log/slog"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	adoptionmemory "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/adapters/memory"
	adoptionobs "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/adapters/observability"
	adoptionpostgres "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/adapters/persistence/postgres"
	adoptionredis "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/adapters/redis"
	adoptionapp "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application"
	adoptionports "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	animalmemory "github.com/Apurer/rescue-adoption-api/internal/domains/animals/adapters/memory"
	animalobs "github.com/Apurer/rescue-adoption-api/internal/domains/animals/adapters/observability"
	animalpostgres "github.com/Apurer/rescue-adoption-api/internal/domains/animals/adapters/persistence/postgres"
	animalapp "github.com/Apurer/rescue-adoption-api/internal/domains/animals/application"
	animalports "github.com/Apurer/rescue-adoption-api/internal/domains/animals/ports"
	volmemory "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/adapters/memory"
	volobs "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/adapters/observability"
	volpostgres "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/adapters/persistence/postgres"
	volapp "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/application"
	volports "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/ports"
	"github.com/Apurer/rescue-adoption-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/rescue-adoption-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/rescue-adoption-api/internal/platform/postgres"
	platformredis "github.com/Apurer/rescue-adoption-api/internal/platform/redis"
	"github.com/Apurer/rescue-adoption-api/internal/platform/txn"
)

// Services are the decorated use cases of the three bounded contexts.
type Services struct {
	Animals      animalports.Service
	Adoptions    adoptionports.Service
	Volunteering volports.Service
}

// BuildServices picks Postgres or in-memory storage, wires one shared transaction runner
// through every context, and wraps each service with its observability decorator.
// The returned cleanup releases every connection that was opened.
func BuildServices(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Services, func(), error) {
	logger := instruments.Logger
	db, closeDB, err := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if err != nil {
		return nil, func() {}, err
	}
	if db != nil {
		if err := migrations.Run(db); err != nil {
			closeDB()
			return nil, func() {}, err
		}
	}

	var (
		runner      txn.Runner
		animalRepo  animalports.Repository
		requests    adoptionports.RequestRepository
		adoptions   adoptionports.AdoptionRepository
		activities  volports.ActivityRepository
		enrollments volports.EnrollmentRepository
	)
	if db != nil {
		runner = platformpostgres.NewTxRunner(db)
		animalRepo = animalpostgres.NewRepository(db)
		requests = adoptionpostgres.NewRequestRepository(db)
		adoptions = adoptionpostgres.NewAdoptionRepository(db)
		activities = volpostgres.NewActivityRepository(db)
		enrollments = volpostgres.NewEnrollmentRepository(db)
	} else {
		runner = txn.NewLocalRunner()
		animalRepo = animalmemory.NewRepository()
		requests = adoptionmemory.NewRequestRepository()
		adoptions = adoptionmemory.NewAdoptionRepository()
		activities = volmemory.NewActivityRepository()
		enrollments = volmemory.NewEnrollmentRepository()
	}

	idempotency, closeRedis := buildIdempotencyStore(ctx, cfg, db, logger)
	cleanup := chain(closeRedis, closeDB)

	animals := animalobs.New(
		animalapp.NewService(animalRepo, runner, animalapp.WithLocation(cfg.Location)),
		animalobs.WithLogger(logger),
		animalobs.WithTracer(instruments.Tracer("internal.animals.application")),
		animalobs.WithMeter(instruments.Meter("internal.animals.application")),
	)
	adoptionService := adoptionobs.New(
		adoptionapp.NewService(requests, adoptions, animals, runner,
			adoptionapp.WithIdempotencyStore(idempotency),
			adoptionapp.WithLocation(cfg.Location)),
		adoptionobs.WithLogger(logger),
		adoptionobs.WithTracer(instruments.Tracer("internal.adoptions.application")),
		adoptionobs.WithMeter(instruments.Meter("internal.adoptions.application")),
	)
	volunteering := volobs.New(
		volapp.NewService(activities, enrollments, runner, volapp.WithLocation(cfg.Location)),
		volobs.WithLogger(logger),
		volobs.WithTracer(instruments.Tracer("internal.volunteering.application")),
		volobs.WithMeter(instruments.Meter("internal.volunteering.application")),
	)
	return &Services{Animals: animals, Adoptions: adoptionService, Volunteering: volunteering}, cleanup, nil
}

// buildIdempotencyStore prefers Redis, then the Postgres table, then process memory.
func buildIdempotencyStore(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) (adoptionports.IdempotencyStore, func()) {
	if cfg.RedisURL != "" {
		client, err := platformredis.New(ctx, cfg.RedisURL)
		if err == nil {
			logger.Info("submission idempotency keys stored in redis", slog.Duration("ttl", cfg.IdempotencyTTL))
			return adoptionredis.NewIdempotencyStore(client, adoptionredis.WithTTL(cfg.IdempotencyTTL)), func() { _ = client.Close() }
		}
		logger.Warn("redis unavailable, falling back", slog.String("error", err.Error()))
	}
	if db != nil {
		return adoptionpostgres.NewIdempotencyStore(db, adoptionpostgres.WithIdempotencyTTL(cfg.IdempotencyTTL)), func() {}
	}
	return adoptionmemory.NewIdempotencyStore(adoptionmemory.WithTTL(cfg.IdempotencyTTL)), func() {}
}

// DialTemporal connects to Temporal with tracing and structured logging, unless disabled.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(tracerName),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func chain(fns ...func()) func() {
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}
