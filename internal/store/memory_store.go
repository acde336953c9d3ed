package store

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps everything in process. Entries never expire.
type MemoryStore struct {
	values *cache.Cache
	lists  *cache.Cache
	mu     sync.Mutex
}

var _ KVStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: cache.New(cache.NoExpiration, 0),
		lists:  cache.New(cache.NoExpiration, 0),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	val, found := m.values.Get(key)
	if !found {
		return nil, ErrKeyNotFound
	}
	return clone(val.([]byte)), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.values.Set(key, clone(value), cache.NoExpiration)
	return nil
}

func (m *MemoryStore) Append(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items [][]byte
	if val, found := m.lists.Get(key); found {
		items = val.([][]byte)
	}
	// copy so readers holding the previous slice never observe the append
	next := make([][]byte, len(items), len(items)+1)
	copy(next, items)
	next = append(next, clone(value))
	m.lists.Set(key, next, cache.NoExpiration)
	return nil
}

func (m *MemoryStore) Range(_ context.Context, key string) ([][]byte, error) {
	val, found := m.lists.Get(key)
	if !found {
		return [][]byte{}, nil
	}
	items := val.([][]byte)
	out := make([][]byte, len(items))
	for i, item := range items {
		out[i] = clone(item)
	}
	return out, nil
}

func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

func (m *MemoryStore) Close() error {
	m.values.Flush()
	m.lists.Flush()
	return nil
}

func (m *MemoryStore) Backend() string {
	return "memory"
}
