package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/metrics"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/redislock"
	"dispatch/internal/adapters/out/zonecatalog"
	"dispatch/internal/core/application/candidates"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CompositionRoot owns the adapters selected by Config and builds the use
// cases on top of them.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	gormDB *gorm.DB
	redis  redis.UniversalClient

	directory  ports.DriverDirectory
	drivers    ports.DriverRegistry
	deliveries ports.DeliveryStore
	intake     ports.OrderIntake
	pending    ports.PendingOrderSource
	uowFactory ports.UnitOfWorkFactory
	reserver   ports.DriverReserver
	zones      ports.ZoneResolver

	weights *assignment.WeightRegistry
	metrics *metrics.Metrics
}

// NewCompositionRoot connects the configured storage and reservation
// backends. Close releases them.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &CompositionRoot{
		cfg:     cfg,
		logger:  logger,
		weights: assignment.NewWeightRegistry(assignment.DefaultWeights()),
		metrics: metrics.New(),
	}

	if err := c.openStorage(); err != nil {
		return nil, err
	}
	if err := c.openReserver(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.loadZones(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *CompositionRoot) openStorage() error {
	switch c.cfg.StorageBackend {
	case StoragePostgres:
		db, err := gorm.Open(gormpostgres.Open(c.cfg.DSN()), &gorm.Config{})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		if err = postgres.Migrate(db); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return fmt.Errorf("migrate postgres: %w", err)
		}
		c.useGorm(db)
	default:
		store := memory.NewStore()
		c.directory = store
		c.drivers = store
		c.deliveries = store
		c.intake = store
		c.pending = store
		c.uowFactory = store
	}
	c.logger.Info("storage ready", "backend", c.cfg.StorageBackend)
	return nil
}

func (c *CompositionRoot) useGorm(db *gorm.DB) {
	driverRepo := driverrepo.NewGormDriverRepository(db)
	deliveryRepo := deliveryrepo.NewGormDeliveryRepository(db)

	c.gormDB = db
	c.directory = driverRepo
	c.drivers = driverRepo
	c.deliveries = deliveryRepo
	c.intake = deliveryRepo
	c.pending = deliveryRepo
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
}

func (c *CompositionRoot) openReserver(ctx context.Context) error {
	if c.cfg.RedisURL == "" {
		c.reserver = memory.NewReserver()
		return nil
	}

	opts, err := redis.ParseURL(c.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("connect redis: %w", err)
	}

	c.redis = client
	c.reserver = redislock.NewReserver(client, redislock.WithTTL(c.cfg.RedisLockTTL))
	c.logger.Info("driver reservations backed by redis", "addr", opts.Addr, "ttl", c.cfg.RedisLockTTL)
	return nil
}

func (c *CompositionRoot) loadZones() error {
	if c.cfg.ZoneFile == "" {
		catalog, err := zonecatalog.New(nil)
		if err != nil {
			return err
		}
		c.zones = catalog
		c.logger.Warn("no zone catalog configured, every order scores the unknown zone")
		return nil
	}

	catalog, err := zonecatalog.Load(c.cfg.ZoneFile)
	if err != nil {
		return fmt.Errorf("load zone catalog: %w", err)
	}
	c.zones = catalog
	c.logger.Info("zone catalog loaded", "file", c.cfg.ZoneFile, "zones", catalog.Len())
	return nil
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(commands.AssignOrderDependencies{
		Candidates: candidates.NewProvider(c.directory, c.deliveries, c.cfg.LookupConcurrency),
		Zones:      c.zones,
		Weights:    c.weights,
		Scorer:     services.NewScorer(c.cfg.TrafficFactor),
		UoWFactory: c.uowFactory,
		Reserver:   c.reserver,
		Observer:   c.metrics,
		Logger:     c.logger,
	}, commands.AssignmentPolicy{
		SearchRadiusKm:      c.cfg.SearchRadiusKm,
		MaxActiveDeliveries: c.cfg.MaxActiveDeliveries,
		ReservationWait:     c.cfg.ReservationWait,
	})
}

func (c *CompositionRoot) CreateAssignBatchCommandHandler() commands.AssignBatchCommandHandler {
	return commands.NewAssignBatchCommandHandler(c.CreateAssignOrderCommandHandler(), c.cfg.BatchPause, c.logger)
}

func (c *CompositionRoot) CreateSetWeightsCommandHandler() commands.SetWeightsCommandHandler {
	return commands.NewSetWeightsCommandHandler(c.weights, c.logger)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.intake, c.logger)
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	return commands.NewRegisterDriverCommandHandler(c.drivers, c.zones, c.logger)
}

func (c *CompositionRoot) CreateGetWeightsQueryHandler() queries.GetWeightsQueryHandler {
	return queries.NewGetWeightsQueryHandler(c.weights)
}

func (c *CompositionRoot) CreateQuoteFareQueryHandler() queries.QuoteFareQueryHandler {
	return queries.NewQuoteFareQueryHandler(services.DefaultFareCalculator(), c.cfg.TrafficFactor)
}

// CreateHTTPServer builds the API server. The SQL read models are served
// only with the postgres backend.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	handlers := httpadapter.Handlers{
		CreateOrder:    c.CreateCreateOrderCommandHandler(),
		RegisterDriver: c.CreateRegisterDriverCommandHandler(),
		AssignOrder:    c.CreateAssignOrderCommandHandler(),
		AssignBatch:    c.CreateAssignBatchCommandHandler(),
		SetWeights:     c.CreateSetWeightsCommandHandler(),
		GetWeights:     c.CreateGetWeightsQueryHandler(),
		QuoteFare:      c.CreateQuoteFareQueryHandler(),
	}
	if c.gormDB != nil {
		handlers.DriverWorkload = queries.NewGetDriverWorkloadQueryHandler(c.gormDB)
		handlers.PendingOrders = queries.NewGetPendingOrdersQueryHandler(c.gormDB)
		handlers.AssignmentHistory = queries.NewGetAssignmentHistoryQueryHandler(c.gormDB)
	}
	return httpadapter.NewServer(handlers, c.logger)
}

// CreateJobManager returns the background jobs enabled by Config.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	manager := jobs.NewJobManager()
	if c.cfg.BatchJob {
		manager.Add("batch_assignment", jobs.NewBatchAssignmentJob(
			c.pending,
			c.CreateAssignBatchCommandHandler(),
			c.cfg.BatchSchedule,
			c.cfg.PendingLimit,
			c.logger,
		))
	}
	return manager
}

// Close releases the database pool and the Redis client.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		} else {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
