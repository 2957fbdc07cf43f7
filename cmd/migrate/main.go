package main

import (
	"go.uber.org/zap"

	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/infrastructure/config"
	"github.com/opsboard/backend/internal/infrastructure/logger"
	"github.com/opsboard/backend/internal/infrastructure/persistence"
)

// Standalone schema migration, for deployments that run migrations
// before rolling the server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.DB.AutoMigrate(&inventory.StockBatch{}, &persistence.AdjustmentAudit{}); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migration complete",
		zap.String("database", cfg.Database.DBName),
	)
}
