package backend

import (
	"context"
	"fmt"
	"time"

	"pennywise/internal/amqp"
	"pennywise/internal/cache"
	"pennywise/internal/categorizer/gemini"
	"pennywise/internal/classify"
	"pennywise/internal/config"
	"pennywise/internal/core"
	"pennywise/internal/log"
	"pennywise/internal/report"
	"pennywise/internal/services"
	"pennywise/internal/storage"
	"pennywise/internal/target"
)

const cacheCleanupInterval = time.Minute

// Build wires the application from cfg. SQLite is required; the categorizer,
// Redis and AMQP are optional and degrade to local behaviour when they fail.
func Build(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app config is nil")
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentApp)

	res := &Result{
		Clock:    core.SystemClock(),
		Location: cfg.Location(),
	}
	res.Calc = target.NewCalculator(cfg.TargetPercent, res.Location)

	store, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	res.Store = store
	res.onCleanup(store.Close)
	logger.Info("Initialized SQLite repository", "path", cfg.SQLiteDBPath)

	var external classify.Categorizer
	if cfg.Gemini.APIKey != "" {
		client, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Warn("Failed to initialize Gemini categorizer, using rule tables", "error", err)
		} else {
			external = client
		}
	}
	res.Engine = classify.NewEngine(external, classify.Config{Timeout: cfg.Gemini.Timeout})

	res.Cache = newReadCache(ctx, cfg.Cache, res, logger)

	if cfg.AMQP.URL != "" {
		client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without ledger events", "error", err)
		} else {
			res.AMQP = client
			res.onCleanup(client.Close)
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQP.Exchange, "queue", cfg.AMQP.Queue)
		}
	}

	pub := res.Publisher()
	res.Services = services.Bundle{
		Auth:        services.NewAuthService(store, res.Clock, cfg.SessionTTL),
		Expenses:    services.NewExpenseService(store, res.Engine, pub, res.Cache, res.Clock, res.Location),
		Savings:     services.NewSavingService(store, pub, res.Cache, res.Clock),
		Goals:       services.NewGoalService(store, pub, res.Cache, res.Clock, res.Location),
		Rewards:     services.NewRewardService(store, res.Calc, res.Cache, res.Clock),
		Reports:     services.NewReportService(store, res.Engine, res.Cache, res.Location),
		Predictions: services.NewPredictionService(store, res.Clock, res.Location),
	}
	return res, nil
}

// newReadCache uses Redis when configured and reachable, otherwise
// in-process LRU caches swept by a cache.Manager.
func newReadCache(ctx context.Context, cfg config.Cache, res *Result, logger *log.Logger) *services.ReadCache {
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			res.onCleanup(client.Close)
			logger.Info("Initialized Redis read cache", "ttl", cfg.TTL)
			return services.NewReadCache(
				cache.NewRedisCache[[]target.Record](client, "pennywise:history", cfg.TTL),
				cache.NewRedisCache[report.Summary](client, "pennywise:summary", cfg.TTL),
			)
		}
		logger.Warn("Redis unavailable, falling back to in-process cache", "error", err)
	}

	history := cache.NewLRUCache[[]target.Record](cfg.Size, cfg.TTL)
	summaries := cache.NewLRUCache[report.Summary](cfg.Size, cfg.TTL)
	manager := cache.NewManager()
	manager.Register(history)
	manager.Register(summaries)
	manager.StartCleanup(cacheCleanupInterval)
	res.onCleanup(func() error {
		manager.Stop()
		return nil
	})
	logger.Info("Initialized in-process read cache", "size", cfg.Size, "ttl", cfg.TTL)
	return services.NewReadCache(history, summaries)
}
