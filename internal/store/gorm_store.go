package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	gormModels "aiso/tripdesk/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps values in kv_entries and lists in kv_list_entries.
// It runs on either the sqlite or the postgres GORM driver.
type GormStore struct {
	db      *gormlib.DB
	dialect string
}

var _ KVStore = (*GormStore)(nil)

// NewGormStore migrates the store tables and returns the store
func NewGormStore(db *gormlib.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&gormModels.KVEntry{}, &gormModels.KVListEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv tables: %w", err)
	}
	return &GormStore{db: db, dialect: db.Dialector.Name()}, nil
}

func (g *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry gormModels.KVEntry

	err := g.db.WithContext(ctx).
		Where("key = ?", key).
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return entry.Value, nil
}

// Set upserts the value
// ON CONFLICT (key) DO UPDATE
func (g *GormStore) Set(ctx context.Context, key string, value []byte) error {
	entry := gormModels.KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}

	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (g *GormStore) Append(ctx context.Context, key string, value []byte) error {
	entry := gormModels.KVListEntry{ListKey: key, Value: value, CreatedAt: time.Now().UTC()}
	return g.db.WithContext(ctx).Create(&entry).Error
}

func (g *GormStore) Range(ctx context.Context, key string) ([][]byte, error) {
	var entries []gormModels.KVListEntry

	err := g.db.WithContext(ctx).
		Where("list_key = ?", key).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out, nil
}

func (g *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (g *GormStore) Backend() string {
	return g.dialect
}
