package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinventory "github.com/opsboard/backend/internal/application/inventory"
	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/infrastructure/cache"
	"github.com/opsboard/backend/internal/infrastructure/config"
	"github.com/opsboard/backend/internal/infrastructure/logger"
	"github.com/opsboard/backend/internal/infrastructure/persistence"
	"github.com/opsboard/backend/internal/interfaces/http/handler"
	"github.com/opsboard/backend/internal/interfaces/http/middleware"
	"github.com/opsboard/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting batch ledger backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with GORM logging through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := db.DB.AutoMigrate(&inventory.StockBatch{}, &persistence.AdjustmentAudit{}); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Stock cache: Redis when enabled, in-process fallback otherwise
	var stockCache appinventory.StockCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisStockCache(cache.RedisConfig{
			Addr:     cfg.Redis.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Ledger.StockCacheTTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		stockCache = redisCache
		log.Info("Redis stock cache connected", zap.String("addr", cfg.Redis.RedisAddr()))
	} else {
		stockCache = cache.NewInMemoryStockCache(cfg.Ledger.StockCacheTTL)
		log.Info("Using in-process stock cache")
	}

	// Wire the ledger
	batchStore := persistence.NewGormBatchStore(db.DB)
	auditSink := persistence.NewGormAuditSink(db.DB)
	validator := inventory.NewAdjustmentValidator(
		inventory.WithRestockCeilingRatio(decimal.NewFromFloat(cfg.Ledger.RestockCeilingRatio)),
	)
	ledger := appinventory.NewBatchLedger(batchStore,
		appinventory.WithAuditSink(auditSink),
		appinventory.WithStockCache(stockCache),
		appinventory.WithLogger(log),
		appinventory.WithAdjustmentValidator(validator),
		appinventory.WithMaxCommitRetries(cfg.Ledger.MaxCommitRetries),
		appinventory.WithRetryBackoff(cfg.Ledger.RetryBackoff),
		appinventory.WithStoreTimeout(cfg.Ledger.StoreTimeout),
	)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(middleware.DefaultMaxBodyBytes))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	router.NewRouter(engine).
		Register(handler.NewStockHandler(ledger)).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
