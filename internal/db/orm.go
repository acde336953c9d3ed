package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aiso/tripdesk/internal/config"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/logging"
	gormModels "aiso/tripdesk/internal/models/gorm"
)

// InitORM opens the GORM connection for the sqlite or postgres backend and
// migrates the event table. The kv tables are migrated by the store itself.
func InitORM(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreBackend {
	case constants.StoreKindPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case constants.StoreKindSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("no ORM for store backend %q", cfg.StoreBackend)
	}

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.StoreBackend, err)
	}

	if cfg.StoreBackend == constants.StoreKindSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&gormModels.Event{}); err != nil {
		return nil, fmt.Errorf("migrate events: %w", err)
	}

	logging.Info("Connected via GORM", "backend", cfg.StoreBackend)
	return db, nil
}
