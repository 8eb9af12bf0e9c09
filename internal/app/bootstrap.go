package app

import (
	"context"
	"errors"
	"time"

	"questionboard/internal/app/board"
	"questionboard/internal/app/health"
	"questionboard/internal/app/question"
	"questionboard/internal/config"
	"questionboard/internal/db"
	"questionboard/internal/db/seeder"
	"questionboard/internal/gateways/websocket"
	"questionboard/internal/middleware"
	"questionboard/internal/providers/redis"
	"questionboard/internal/router"
	"questionboard/internal/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const rateLimitCleanupInterval = time.Minute

type Application struct {
	Router    *router.Router
	DB        *gorm.DB
	Hub       *websocket.Hub
	Registry  *prometheus.Registry
	Questions question.Service

	redis  *redis.RedisProvider
	cancel context.CancelFunc
}

// Bootstrap wires storage, services and routes. Background workers (the
// websocket hub, the Redis monitor, rate limit cleanup) stop when ctx is done
// or when Close is called.
func Bootstrap(parent context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	ctx, cancel := context.WithCancel(parent)
	application, err := build(ctx, cfg, logger)
	if err != nil {
		cancel()
		return nil, err
	}
	application.cancel = cancel
	return application, nil
}

func build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	if cfg.SeedDemo {
		seed := seeder.NewSeeder(dbConn, logger)
		if _, err := seed.ReseedDemo(ctx, cfg.DemoBoard); err != nil {
			logger.Warn("Failed to seed demo board", zap.Error(err))
		}
	}

	var (
		redisProvider *redis.RedisProvider
		redisClient   *goredis.Client
		relay         websocket.Relay
	)
	if cfg.RedisURL != "" {
		redisProvider, err = redis.NewRedisProvider(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		redisClient = redisProvider.Client
		relay = redis.NewRelay(redisClient, logger)
	} else {
		logger.Info("REDIS_URL not set, running single-instance without Redis")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics()
	questionMetrics := question.NewMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		return nil, err
	}
	if err := questionMetrics.Register(registry); err != nil {
		return nil, err
	}

	eventBus := utils.NewEventBus()

	questionRepo := question.NewRepository(dbConn)
	boardRepo := board.NewRepository(dbConn)

	questionService := question.NewService(questionRepo, question.ServiceConfig{
		DefaultStrategy: cfg.SearchStrategy,
		Threshold:       cfg.SearchThreshold,
		DefaultLimit:    cfg.SearchDefaultLimit,
		MaxLimit:        cfg.SearchMaxLimit,
		Votes: question.VotePolicy{
			MaxAmount:   cfg.VoteMaxAmount,
			Multipliers: cfg.VoteMultipliers,
		},
	}, eventBus, questionMetrics, logger)
	boardService := board.NewService(boardRepo)

	hub := websocket.NewHub(logger, eventBus, relay)
	go hub.Run(ctx)

	var rateStore middleware.RateLimitStore
	if redisClient != nil {
		rateStore = middleware.NewRedisRateLimitStore(redisClient)
	} else {
		memStore := middleware.NewInMemoryRateLimitStore()
		go memStore.RunCleanup(ctx, rateLimitCleanupInterval)
		rateStore = memStore
	}
	writeLimit := middleware.RateLimitMiddleware(rateStore, middleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimitWrites,
		WindowDuration:    cfg.RateLimitWindow,
	}, httpMetrics, logger)

	healthHandler := health.NewHandler(&utils.HealthChecker{
		DB:    dbConn,
		Redis: redisClient,
	})
	questionHandler := question.NewHandler(questionService, logger)
	boardHandler := board.NewHandler(boardService, logger)

	r := router.NewRouter(logger, cfg.FrontendURLs, httpMetrics)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterBoardRoutes(boardHandler)
	r.RegisterQuestionRoutes(questionHandler, writeLimit)
	r.RegisterWebSocketRoutes(hub)
	r.RegisterMetricsRoute(registry)
	r.RegisterSwaggerRoutes()

	return &Application{
		Router:    r,
		DB:        dbConn,
		Hub:       hub,
		Registry:  registry,
		Questions: questionService,
		redis:     redisProvider,
	}, nil
}

// Close stops the background workers, then releases the Redis client and
// the database pool.
func (a *Application) Close() error {
	if a.cancel != nil {
		a.cancel()
	}

	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if sqlDB, err := a.DB.DB(); err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}
