package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/pitwall/f1-stats/external/alerthook"
	"github.com/pitwall/f1-stats/external/ergast"
	"github.com/pitwall/f1-stats/internal/config"
	"github.com/pitwall/f1-stats/internal/domain/etlrun"
	"github.com/pitwall/f1-stats/internal/domain/rawdata"
	"github.com/pitwall/f1-stats/internal/infrastructure/repository/postgres"
	"github.com/pitwall/f1-stats/internal/platform/cache"
	idgen "github.com/pitwall/f1-stats/internal/platform/id"
	"github.com/pitwall/f1-stats/internal/platform/logging"
	"github.com/pitwall/f1-stats/internal/platform/ratelimit"
	"github.com/pitwall/f1-stats/internal/platform/resilience"
	"github.com/pitwall/f1-stats/internal/usecase"
)

// App holds the wired services for one ETL process.
type App struct {
	Pipeline *usecase.PipelineService
	Metrics  *usecase.MetricsService
	Runs     etlrun.Repository

	db     *sqlx.DB
	logger *logging.Logger
}

// New connects to Postgres and wires repositories, the Ergast client, and the
// pipeline services. The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := otelsqlx.ConnectContext(ctx, "postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	// Workers write concurrently during a run; size the pool off the worker
	// count so the limiter, not the pool, is the bottleneck.
	db.SetMaxOpenConns(cfg.ETLMaxWorkers * 2)
	db.SetMaxIdleConns(cfg.ETLMaxWorkers)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap alias seed: %w", err)
	}

	seasonRepo := postgres.NewSeasonRepository(db)
	circuitRepo := postgres.NewCircuitRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	constructorRepo := postgres.NewConstructorRepository(db)
	raceRepo := postgres.NewRaceRepository(db)
	resultRepo := postgres.NewResultRepository(db)
	qualifyingRepo := postgres.NewQualifyingRepository(db)
	standingRepo := postgres.NewStandingRepository(db)
	metricsRepo := postgres.NewMetricsRepository(db)
	aliasRepo := postgres.NewAliasRepository(db)
	runRepo := postgres.NewETLRunRepository(db)

	var rawRepo rawdata.Repository
	if cfg.ETLSaveRawPayloads {
		rawRepo = postgres.NewRawDataRepository(db)
	}

	var refCache *cache.Store
	if cfg.CacheEnabled {
		refCache = cache.NewStore(cfg.CacheTTL)
	}

	provider := ergast.NewClient(ergast.ClientConfig{
		BaseURL:        cfg.ErgastBaseURL,
		Timeout:        cfg.ErgastTimeout,
		MaxRetries:     cfg.ErgastMaxRetries,
		RetryBaseDelay: cfg.ErgastRetryBaseDelay,
		PageLimit:      cfg.ErgastPageLimit,
		Logger:         logger,
		Limiter:        ratelimit.New(cfg.ErgastRateLimitRPS, cfg.ErgastRateLimitBurst),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ErgastCircuitEnabled,
			FailureThreshold: cfg.ErgastCircuitFailureCount,
			OpenTimeout:      cfg.ErgastCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ErgastCircuitHalfOpenMaxReq,
		},
	})

	var alerts usecase.AlertPublisher
	if cfg.AlertHookEnabled {
		alerts = alerthook.NewPublisher(alerthook.PublisherConfig{
			URL:     cfg.AlertHookURL,
			Token:   cfg.AlertHookToken,
			Timeout: cfg.AlertHookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.AlertHookCircuitEnabled,
				FailureThreshold: cfg.AlertHookCircuitFailures,
				OpenTimeout:      cfg.AlertHookCircuitOpenWait,
				HalfOpenMaxReq:   cfg.AlertHookCircuitHalfOpenMax,
			},
		}, logger)
	}

	gen := idgen.NewRandomGenerator()
	normalizer := usecase.NewNormalizerService(aliasRepo, logger)
	metricsService := usecase.NewMetricsService(metricsRepo, logger)
	ingestion := usecase.NewIngestionService(
		seasonRepo,
		circuitRepo,
		driverRepo,
		constructorRepo,
		raceRepo,
		resultRepo,
		qualifyingRepo,
		standingRepo,
		metricsRepo,
		rawRepo,
		gen,
		refCache,
		logger,
	)
	pipeline := usecase.NewPipelineService(
		provider,
		normalizer,
		metricsService,
		ingestion,
		runRepo,
		resultRepo,
		qualifyingRepo,
		alerts,
		gen,
		usecase.PipelineConfig{
			MaxWorkers:  cfg.ETLMaxWorkers,
			SeasonFloor: cfg.ETLBackfillStartSeason,
		},
		logger,
	)

	return &App{
		Pipeline: pipeline,
		Metrics:  metricsService,
		Runs:     runRepo,
		db:       db,
		logger:   logger,
	}, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}

	return a.db.Close()
}
