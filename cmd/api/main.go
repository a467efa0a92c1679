// Package main is the entry point for the game-recommendation-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"game-recommendation-service/internal/app/service"
	"game-recommendation-service/internal/config"
	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/infra/postgres"
	"game-recommendation-service/internal/infra/postgres/migrations"
	"game-recommendation-service/internal/infra/provider/registry"
	rediscache "game-recommendation-service/internal/infra/redis"
	"game-recommendation-service/internal/job"
	"game-recommendation-service/internal/logger"
	"game-recommendation-service/internal/metrics"
	"game-recommendation-service/internal/transport/httpserver"
	"game-recommendation-service/internal/validator"
	"game-recommendation-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Logger, cfg.Sentry, cfg.App.Name)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting game-recommendation-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database, cfg.App.Debug, log.Logger)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	// Run migrations
	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	repo := postgres.NewRepository(db)

	// Connect to Redis
	ctx := context.Background()
	redisClient, err := rediscache.NewClient(ctx, cfg.Redis, log.Logger)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	// Create cache implementation (optional, based on config)
	var cache domain.Cache
	if cfg.Cache.Enabled {
		cache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		log.Info("cache enabled",
			zap.Duration("discovery_ttl", cfg.Cache.DiscoveryTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("cache disabled")
	}

	distLocker := locker.NewRedisLocker(redisClient, cfg.Cache.KeyPrefix, log.Logger)

	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.New()
	}

	// Create provider clients
	providers := registry.NewProviders(cfg.Provider, cfg.App.UserAgent, log.Logger)

	// Create services
	recommendationSvc := service.NewRecommendationService(repo, rec, log.Logger)
	discoverySvc := service.NewDiscoveryService(
		providers.Catalogs,
		cache,
		service.DiscoveryConfig{
			PageSize: cfg.Discovery.PageSize,
			Timeout:  cfg.Discovery.Timeout,
			CacheTTL: cfg.Cache.DiscoveryTTL,
		},
		rec,
		log.Logger,
	)
	syncSvc := service.NewLibrarySyncService(
		repo,
		providers.Library,
		providers.Enrichers,
		distLocker,
		service.SyncConfig{
			Concurrency:  cfg.Refresh.Concurrency,
			Cooldown:     cfg.Refresh.Cooldown,
			EnrichMaxAge: cfg.Refresh.EnrichMaxAge,
		},
		rec,
		log.Logger,
	)

	providerCheckers := make([]service.Checker, 0, len(providers.Checkers()))
	for _, c := range providers.Checkers() {
		providerCheckers = append(providerCheckers, c)
	}
	healthSvc := service.NewHealthService(
		[]service.Checker{postgres.NewPinger(db), rediscache.NewPinger(redisClient)},
		providerCheckers,
		3*time.Second,
	)

	// Create HTTP server
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			AppName:     cfg.App.Name,
			BodyLimit:   1024 * 1024, // 1MB
			AdminToken:  cfg.App.AdminToken,
			MetricsPath: metricsPath,
		},
		httpserver.Services{
			Ranker:     recommendationSvc,
			Discoverer: discoverySvc,
			Syncer:     syncSvc,
			Health:     healthSvc,
		},
		rec,
		validator.New(),
		log.Logger,
	)

	// Start library refresh scheduler with distributed locking
	var scheduler *job.RefreshScheduler
	if cfg.Refresh.Enabled && providers.Library != nil {
		scheduler = job.NewRefreshScheduler(
			syncSvc,
			job.RefreshConfig{
				Interval:  cfg.Refresh.Interval,
				Timeout:   cfg.Refresh.Timeout,
				OnStartup: cfg.Refresh.OnStartup,
			},
			distLocker,
			rec,
			log.Logger,
		)
		scheduler.Start()
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
