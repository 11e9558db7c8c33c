// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/snacktrack/v2/internal/application/mealplan"
	"github.com/snacktrack/v2/internal/application/ranking"
	"github.com/snacktrack/v2/internal/application/ratebudget"
	"github.com/snacktrack/v2/internal/infrastructure/cache"
	"github.com/snacktrack/v2/internal/infrastructure/config"
	"github.com/snacktrack/v2/internal/infrastructure/ml"
	"github.com/snacktrack/v2/internal/infrastructure/monitoring"
	gormRepo "github.com/snacktrack/v2/internal/infrastructure/persistence/gorm"
	"github.com/snacktrack/v2/internal/infrastructure/persistence/memory"
	"github.com/snacktrack/v2/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/snacktrack/v2/internal/infrastructure/persistence/redis"
	"github.com/snacktrack/v2/internal/infrastructure/persistence/sqlite"
	"github.com/snacktrack/v2/internal/ports/inbound"
	"github.com/snacktrack/v2/internal/ports/outbound"
	"github.com/snacktrack/v2/pkg/healthcheck"
	"github.com/snacktrack/v2/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	MetricsModule,
	DatabaseModule,
	CacheModule,

	// Repository modules
	RepositoryModule,

	// Service modules
	ServiceModule,

	// Health checks
	HealthModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MetricsModule provides Prometheus metrics
var MetricsModule = fx.Provide(
	func() (prometheus.Registerer, *monitoring.Metrics) {
		reg := prometheus.NewRegistry()
		return reg, monitoring.NewMetrics(reg)
	},
)

// DatabaseModule provides database connections. SQLite serves
// development runs; production uses PostgreSQL.
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		if cfg.Database.Driver == "sqlite" {
			logLevel := gormLogger.Silent
			if cfg.App.Debug {
				logLevel = gormLogger.Info
			}

			db, err := sqlite.SetupDatabase(cfg.Database.Database, logLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
			}
			log.Info("Connected to SQLite database",
				zap.String("path", cfg.Database.Database))
			return db, nil
		}

		return postgres.Connect(cfg, log)
	},
)

// CacheModule provides caching. Without a configured Redis host the
// service runs on the in-memory cache, which also means rate budget
// windows are per-process only.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*goredis.Client, outbound.CacheRepository) {
		if cfg.Redis.Host == "" {
			log.Info("Using in-memory cache")
			return nil, memory.NewCacheRepository()
		}

		client := redisRepo.NewClient(cfg.Redis)
		return client, redisRepo.NewCacheRepository(client, log)
	},
)

// RepositoryModule provides repository implementations. Recipe reads
// go through the read-through cache decorator.
var RepositoryModule = fx.Provide(
	func(db *gorm.DB, cacheRepo outbound.CacheRepository, cfg *config.Config, log *zap.Logger) outbound.RecipeRepository {
		return cache.NewRecipeRepository(gormRepo.NewRecipeRepository(db), cacheRepo, cfg.Planner.RecipeCacheTTL, log)
	},
	gormRepo.NewMealPlanRepository,
	gormRepo.NewAllergenRepository,
	gormRepo.NewFeedbackRepository,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	// Recommendation service client
	func(cfg *config.Config, log *zap.Logger) *ml.Client {
		return ml.NewClient(cfg.ML, log)
	},
	fx.Annotate(
		func(client *ml.Client) *ml.Client { return client },
		fx.As(new(outbound.PreferenceOracle)),
	),

	// Rate budget
	fx.Annotate(
		func(cfg *config.Config, cache outbound.CacheRepository, log *zap.Logger) *ratebudget.Budget {
			return ratebudget.NewBudget(cfg.RateBudget, cache, log)
		},
		fx.As(new(outbound.RateBudget)),
	),

	// Preference ranker and background trainer
	ranking.NewRanker,
	func(
		oracle outbound.PreferenceOracle,
		budget outbound.RateBudget,
		metrics *monitoring.Metrics,
		cfg *config.Config,
		log *zap.Logger,
	) *ranking.Trainer {
		return ranking.NewTrainer(oracle, budget, metrics, cfg.ML.FeedbackBuffer, log)
	},

	// Planner service
	func(
		recipeRepo outbound.RecipeRepository,
		planRepo outbound.MealPlanRepository,
		allergenRepo outbound.AllergenRepository,
		feedbackRepo outbound.FeedbackRepository,
		ranker *ranking.Ranker,
		trainer *ranking.Trainer,
		metrics *monitoring.Metrics,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.MealPlanService {
		return mealplan.NewPlannerService(
			recipeRepo, planRepo, allergenRepo, feedbackRepo,
			ranker, trainer, metrics, cfg.Planner, log,
		)
	},
)

// HealthModule provides the dependency health aggregate
var HealthModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, db *gorm.DB, redisClient *goredis.Client, oracle *ml.Client) *healthcheck.HealthCheck {
		hc := healthcheck.New(cfg.App.Version, log)
		hc.Register("database", healthcheck.DatabaseChecker(db))
		if redisClient != nil {
			hc.Register("redis", healthcheck.RedisChecker(redisClient))
		}
		hc.Register("recommender", healthcheck.ExternalServiceChecker(oracle, cfg.ML.LivenessTimeout))
		return hc
	},
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	trainer *ranking.Trainer,
	hc *healthcheck.HealthCheck,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting SnackTrack planner",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			trainer.Start()

			// A degraded recommender is logged, not fatal.
			report := hc.Check(ctx)
			log.Info("Startup dependency check",
				zap.String("status", string(report.Status)),
				zap.Duration("took", report.TotalDuration))
			if report.Status == healthcheck.StatusUnhealthy {
				return fmt.Errorf("critical dependency unavailable")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down SnackTrack planner")

			// Drain queued training requests before closing anything
			// the trainer might still touch.
			trainer.Stop()

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
