package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"aiso/tripdesk/internal/config"
	"aiso/tripdesk/internal/constants"
)

// InitSQL returns the sqlx handle used for raw event queries.
// For postgres it dials through lib/pq with retries; for sqlite it wraps the
// connection GORM already holds so both see the same database.
func InitSQL(cfg *config.Config, orm *gorm.DB) (*sqlx.DB, error) {
	switch cfg.StoreBackend {
	case constants.StoreKindPostgres:
		var (
			conn *sqlx.DB
			err  error
		)
		for i := 0; i < 10; i++ {
			conn, err = sqlx.Connect("postgres", cfg.PostgresDSN())
			if err == nil {
				return conn, nil
			}
			time.Sleep(500 * time.Millisecond)
		}
		return nil, err
	case constants.StoreKindSQLite:
		sqlDB, err := orm.DB()
		if err != nil {
			return nil, err
		}
		return sqlx.NewDb(sqlDB, "sqlite3"), nil
	default:
		return nil, fmt.Errorf("no SQL handle for store backend %q", cfg.StoreBackend)
	}
}
