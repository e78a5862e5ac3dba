// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"

	authapp "github.com/alchemorsel/recipeshare/internal/application/auth"
	"github.com/alchemorsel/recipeshare/internal/application/favorite"
	recipeapp "github.com/alchemorsel/recipeshare/internal/application/recipe"
	"github.com/alchemorsel/recipeshare/internal/application/userrecipe"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/config"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/http/server"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/monitoring"
	gormrepo "github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/postgres"
	rediscache "github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/provider/spoonacular"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/security"
	"github.com/alchemorsel/recipeshare/internal/ports/inbound"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	"github.com/alchemorsel/recipeshare/pkg/healthcheck"
	"github.com/alchemorsel/recipeshare/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// Module wires the whole API process around an already loaded config
func Module(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		LoggerModule,
		ObservabilityModule,
		StoreModule,
		CacheModule,
		ProviderModule,
		ServiceModule,
		HTTPModule,
		LifecycleModule,
	)
}

// LoggerModule provides logging and routes fx's own events through zap
var LoggerModule = fx.Options(
	fx.Provide(func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.IsDevelopment(),
		})
	}),
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
)

// ObservabilityModule provides the metrics registry and tracer provider
var ObservabilityModule = fx.Provide(
	monitoring.NewRegistry,
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(context.Background(), cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
	func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
		return healthcheck.New(cfg.App.Version, log)
	},
)

// Store groups the repositories of the selected database driver
type Store struct {
	fx.Out

	Users       outbound.UserRepository
	Favorites   outbound.FavoriteRepository
	UserRecipes outbound.UserRecipeRepository
}

// StoreModule provides the repositories
var StoreModule = fx.Provide(NewStore)

// NewStore opens the configured database, migrates it when asked to, and
// registers its readiness check.
func NewStore(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	reg *prometheus.Registry,
	health *healthcheck.HealthCheck,
) (Store, error) {
	log = log.Named("store")

	switch cfg.Database.Driver {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg, log)
		if err != nil {
			return Store{}, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			pool.Close()
			return nil
		}})

		if cfg.Database.AutoMigrate {
			migrator, err := migrations.NewFromPool(pool, cfg.Database.Database, log)
			if err != nil {
				return Store{}, err
			}
			if err := migrator.Up(); err != nil {
				return Store{}, err
			}
		}

		if err := reg.Register(postgres.NewPoolCollector(pool)); err != nil {
			return Store{}, fmt.Errorf("failed to register pool metrics: %w", err)
		}
		health.Register("database", healthcheck.NewDatabaseChecker(pool))

		gw := postgres.NewGateway(pool, log)
		return Store{
			Users:       postgres.NewUserRepository(gw, log),
			Favorites:   postgres.NewFavoriteRepository(gw, log),
			UserRecipes: postgres.NewUserRecipeRepository(gw, log),
		}, nil

	case "sqlite":
		level := gormlogger.Silent
		if cfg.IsDevelopment() {
			level = gormlogger.Warn
		}
		db, err := sqlite.SetupDatabase(cfg.Database.SQLitePath, level)
		if err != nil {
			return Store{}, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return Store{}, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return sqlDB.Close() }})
		health.Register("database", healthcheck.NewPingChecker(sqlDB.PingContext))

		log.Info("SQLite database ready", zap.String("path", cfg.Database.SQLitePath))
		return Store{
			Users:       gormrepo.NewUserRepository(db),
			Favorites:   gormrepo.NewFavoriteRepository(db),
			UserRecipes: gormrepo.NewUserRecipeRepository(db),
		}, nil

	default:
		return Store{}, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// CacheModule provides the provider response cache
var CacheModule = fx.Provide(NewCache)

// NewCache builds the configured cache
func NewCache(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	health *healthcheck.HealthCheck,
) (outbound.CacheRepository, error) {
	switch cfg.Cache.Driver {
	case "redis":
		client, err := rediscache.NewClient(context.Background(), cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
		health.Register("cache", healthcheck.NewRedisChecker(client))
		return rediscache.NewCacheRepository(client, cfg.Cache.KeyPrefix, log), nil

	case "memory", "":
		cache := memory.NewCacheRepository(cfg.Cache.TTL / 2)
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return cache.Close() }})
		return cache, nil

	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Cache.Driver)
	}
}

// ProviderModule provides the Spoonacular client
var ProviderModule = fx.Provide(
	fx.Annotate(
		func(cfg *config.Config, log *zap.Logger) (*spoonacular.Client, error) {
			return spoonacular.NewClient(cfg.Provider, log)
		},
		fx.As(new(outbound.RecipeProvider)),
	),
)

// ServiceModule provides the application services
var ServiceModule = fx.Provide(
	fx.Annotate(
		security.NewValidationService,
		fx.As(new(authapp.Validator)),
	),
	fx.Annotate(
		func(users outbound.UserRepository, v authapp.Validator, cfg *config.Config, log *zap.Logger) (*authapp.Service, error) {
			return authapp.NewService(users, v, cfg.Auth.BCryptCost, log)
		},
		fx.As(new(inbound.AuthService)),
	),
	fx.Annotate(
		func(
			provider outbound.RecipeProvider,
			favorites outbound.FavoriteRepository,
			cache outbound.CacheRepository,
			cfg *config.Config,
			log *zap.Logger,
		) *recipeapp.Service {
			return recipeapp.NewService(provider, favorites, cache, recipeapp.Options{
				CacheTTL:       cfg.Cache.TTL,
				MaxConcurrency: cfg.Provider.MaxConcurrency,
			}, log)
		},
		fx.As(new(inbound.RecipeService)),
	),
	fx.Annotate(
		favorite.NewService,
		fx.As(new(inbound.FavoriteService)),
	),
	fx.Annotate(
		userrecipe.NewService,
		fx.As(new(inbound.UserRecipeService)),
	),
)

// HTTPModule provides the router and server
var HTTPModule = fx.Provide(
	security.NewSessionManager,
	middleware.New,
	func(reg *prometheus.Registry) (*middleware.Metrics, error) {
		return middleware.NewMetrics(reg)
	},
	NewRouter,
	func(cfg *config.Config, log *zap.Logger, router *gin.Engine) *server.Server {
		return server.New(cfg, log, router)
	},
)

// RouterParams are the router's dependencies
type RouterParams struct {
	fx.In

	Config      *config.Config
	Logger      *zap.Logger
	Middleware  *middleware.Middleware
	Metrics     *middleware.Metrics
	Registry    *prometheus.Registry
	Health      *healthcheck.HealthCheck
	Sessions    *security.SessionManager
	Auth        inbound.AuthService
	Recipes     inbound.RecipeService
	Favorites   inbound.FavoriteService
	UserRecipes inbound.UserRecipeService
}

// NewRouter adapts RouterParams to server.NewRouter
func NewRouter(p RouterParams) (*gin.Engine, error) {
	return server.NewRouter(server.RouterDeps{
		Config:      p.Config,
		Logger:      p.Logger,
		Middleware:  p.Middleware,
		Metrics:     p.Metrics,
		Registry:    p.Registry,
		Health:      p.Health,
		Sessions:    p.Sessions,
		Auth:        p.Auth,
		Recipes:     p.Recipes,
		Favorites:   p.Favorites,
		UserRecipes: p.UserRecipes,
	})
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// RegisterLifecycleHooks starts the server, follows config file edits, and
// flushes logs on shutdown.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	level zap.AtomicLevel,
	_ *monitoring.TracingProvider,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting recipeshare",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
				zap.String("cache", cfg.Cache.Driver),
			)

			cfg.OnChange(func(next *config.Config) {
				old := level.Level()
				level.SetLevel(logger.ParseLevel(next.App.LogLevel))
				log.Info("Configuration reloaded",
					zap.Stringer("old_level", old),
					zap.Stringer("log_level", level.Level()),
				)
			}, func(err error) {
				log.Warn("Ignoring invalid configuration change", zap.Error(err))
			})

			return srv.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down recipeshare")
			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			_ = log.Sync()
			return nil
		},
	})
}
