package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/models/entities"
	"aiso/tripdesk/internal/store"
)

// EventRepository lists the meeting invitations in insertion order
type EventRepository interface {
	List(ctx context.Context) ([]entities.Event, error)
	Insert(ctx context.Context, event entities.Event) error
	Count(ctx context.Context) (int, error)
}

// KVEventRepository keeps events as a single list in the kv store.
// Used by the memory, redis and mongo backends.
type KVEventRepository struct {
	store store.KVStore
}

var _ EventRepository = (*KVEventRepository)(nil)

func NewKVEventRepository(s store.KVStore) *KVEventRepository {
	return &KVEventRepository{store: s}
}

func (r *KVEventRepository) List(ctx context.Context) ([]entities.Event, error) {
	return store.RangeJSON[entities.Event](ctx, r.store, constants.StoreKeyEvents)
}

func (r *KVEventRepository) Insert(ctx context.Context, event entities.Event) error {
	return store.AppendJSON(ctx, r.store, constants.StoreKeyEvents, event)
}

func (r *KVEventRepository) Count(ctx context.Context) (int, error) {
	items, err := r.store.Range(ctx, constants.StoreKeyEvents)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// SQLEventRepository reads the events table with raw queries.
// Used by the sqlite and postgres backends.
type SQLEventRepository struct {
	db *sqlx.DB
}

var _ EventRepository = (*SQLEventRepository)(nil)

func NewSQLEventRepository(db *sqlx.DB) *SQLEventRepository {
	return &SQLEventRepository{db: db}
}

func (r *SQLEventRepository) List(ctx context.Context) ([]entities.Event, error) {
	events := []entities.Event{}
	if err := r.db.SelectContext(ctx, &events, constants.SelectEvents); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	return events, nil
}

func (r *SQLEventRepository) Insert(ctx context.Context, event entities.Event) error {
	if _, err := r.db.NamedExecContext(ctx, constants.InsertEvent, event); err != nil {
		return fmt.Errorf("insert event %s: %w", event.ID, err)
	}
	return nil
}

func (r *SQLEventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, constants.CountEvents)
	return count, err
}
