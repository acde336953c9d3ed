package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/config"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/db"
	"aiso/tripdesk/internal/db/repositories"
	"aiso/tripdesk/internal/metrics"
	"aiso/tripdesk/internal/services"
	"aiso/tripdesk/internal/store"
	"aiso/tripdesk/internal/workers"
)

const planningStreamMaxLen = 10000

type Repositories struct {
	Preferences *repositories.PreferenceRepository
	Reasoning   *repositories.ReasoningRepository
	Bookings    *repositories.BookingRepository
	Searches    *repositories.SearchRepository
	Events      repositories.EventRepository
}

type Services struct {
	Reasoning    *services.ReasoningService
	Preferences  *services.PreferenceService
	Confirmation *services.ConfirmationService
	Search       *services.FlightSearchService
	Bookings     *services.BookingService
	Events       *services.EventService
	Seed         *services.SeedService
}

type Dependencies struct {
	Config   *config.Config
	Metrics  *metrics.MetricsRegistry
	Store    store.KVStore
	Cache    common.CacheInterface
	Queue    common.TaskQueue
	Repo     *Repositories
	Services *Services

	sql    *sqlx.DB
	redis  *redis.Client
	checks map[string]HealthCheck
}

// InitDependencies connects the configured backends and wires repositories and services on top
func InitDependencies(ctx context.Context, cfg *config.Config, m *metrics.MetricsRegistry) (*Dependencies, error) {
	var (
		kv          store.KVStore
		events      repositories.EventRepository
		sqlDB       *sqlx.DB
		redisClient *redis.Client
	)

	if cfg.UsesRedis() {
		redisClient = db.NewRedisClient(cfg)
	}

	switch cfg.StoreBackend {
	case constants.StoreKindMemory:
		kv = store.NewMemoryStore()
	case constants.StoreKindRedis:
		kv = store.NewRedisStore(redisClient, cfg.RedisPrefix)
	case constants.StoreKindSQLite, constants.StoreKindPostgres:
		orm, err := db.InitORM(cfg)
		if err != nil {
			return nil, err
		}
		gormStore, err := store.NewGormStore(orm)
		if err != nil {
			return nil, err
		}
		kv = gormStore
		if sqlDB, err = db.InitSQL(cfg, orm); err != nil {
			return nil, fmt.Errorf("init sql: %w", err)
		}
		events = repositories.NewSQLEventRepository(sqlDB)
	case constants.StoreKindMongo:
		client, database, err := db.NewMongoDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		kv = store.NewMongoStore(client, database)
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}

	kv = store.NewInstrumentedStore(kv, m)
	if events == nil {
		events = repositories.NewKVEventRepository(kv)
	}

	var cache common.CacheInterface
	if cfg.CandidateCacheBackend == constants.StoreKindRedis {
		cache = common.NewRedisCacheService(redisClient, cfg.RedisPrefix+"cache:")
	} else {
		cache = common.NewCacheService(cfg.CandidateTTL, 10*time.Minute)
	}

	deps := NewDependencies(cfg, m, kv, events, cache)
	deps.sql = sqlDB
	deps.redis = redisClient

	if cfg.PlanningWorkers > 0 {
		var queue common.TaskQueue
		if cfg.PlanningQueueBackend == constants.StoreKindRedis {
			rq, err := common.NewRedisTaskQueue(ctx, redisClient, cfg.RedisPrefix+"planning", "planners", planningStreamMaxLen)
			if err != nil {
				_ = deps.Close()
				return nil, fmt.Errorf("init planning queue: %w", err)
			}
			queue = rq
		} else {
			queue = common.NewMemoryTaskQueue(cfg.PlanningQueueCapacity)
		}
		deps.UsePlanningQueue(queue)
	}

	if sqlDB != nil {
		deps.checks["sql"] = HealthCheck{Backend: string(cfg.StoreBackend), Ping: sqlDB.PingContext}
	}
	if redisClient != nil {
		deps.checks["redis"] = HealthCheck{Backend: "redis", Ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}}
	}
	return deps, nil
}

// NewDependencies wires repositories and services over an already built store
func NewDependencies(cfg *config.Config, m *metrics.MetricsRegistry, kv store.KVStore, events repositories.EventRepository, cache common.CacheInterface) *Dependencies {
	repos := &Repositories{
		Preferences: repositories.NewPreferenceRepository(kv),
		Reasoning:   repositories.NewReasoningRepository(kv),
		Bookings:    repositories.NewBookingRepository(kv),
		Searches:    repositories.NewSearchRepository(kv),
		Events:      events,
	}

	reasoning := services.NewReasoningService(repos.Reasoning)
	prefs := services.NewPreferenceService(repos.Preferences, reasoning)
	search := services.NewFlightSearchService(prefs, repos.Searches, reasoning, cache, m, services.SearchOptions{
		CandidateCount: cfg.SearchCandidateCount,
		PriceFloor:     cfg.SearchPriceFloor,
		PriceCeiling:   cfg.SearchPriceCeiling,
		CandidateTTL:   cfg.CandidateTTL,
	})

	svcs := &Services{
		Reasoning:    reasoning,
		Preferences:  prefs,
		Confirmation: services.NewConfirmationService(prefs, m),
		Search:       search,
		Bookings:     services.NewBookingService(repos.Bookings, reasoning, search, cfg.BookingValidateCandidates, m),
		Events:       services.NewEventService(events),
		Seed:         services.NewSeedService(events, repos.Preferences, repos.Reasoning),
	}

	return &Dependencies{
		Config:   cfg,
		Metrics:  m,
		Store:    kv,
		Cache:    cache,
		Repo:     repos,
		Services: svcs,
		checks: map[string]HealthCheck{
			"store": {Backend: kv.Backend(), Ping: kv.Ping},
		},
	}
}

// UsePlanningQueue routes accepted confirmations to queue
func (d *Dependencies) UsePlanningQueue(queue common.TaskQueue) {
	d.Queue = queue
	d.Services.Confirmation.SetQueue(queue)
}

// StartWorkers launches the planning workers when a queue is configured.
// It returns nil otherwise.
func (d *Dependencies) StartWorkers(ctx context.Context) *workers.WorkersContainer {
	if d.Queue == nil {
		return nil
	}
	return workers.InitWorkers(ctx, d.Queue, d.Services.Search, d.Services.Reasoning, d.Metrics, max(d.Config.PlanningWorkers, 1))
}

// HealthChecks lists the pings served by /healthCheck
func (d *Dependencies) HealthChecks() map[string]HealthCheck {
	return d.checks
}

// Close releases every connection the dependencies opened. The store closes
// its own client; the sqlx handle only owns a connection under postgres.
func (d *Dependencies) Close() error {
	errs := []error{d.Cache.Close(), d.Store.Close()}
	if d.sql != nil && d.Config.StoreBackend == constants.StoreKindPostgres {
		errs = append(errs, d.sql.Close())
	}
	if d.redis != nil && d.Config.StoreBackend != constants.StoreKindRedis {
		errs = append(errs, d.redis.Close())
	}
	return errors.Join(errs...)
}
