package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheService is the in-process cache implementation
type CacheService struct {
	cache *cache.Cache
}

// Ensure CacheService implements CacheInterface
var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(defaultExpiration, cleanUpInterval time.Duration) *CacheService {
	c := cache.New(defaultExpiration, cleanUpInterval)
	return &CacheService{cache: c}
}

func (cs *CacheService) Set(_ context.Context, key string, value any, duration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	cs.cache.Set(key, data, duration)
	return nil
}

func (cs *CacheService) Get(_ context.Context, key string, out any) (bool, error) {
	val, found := cs.cache.Get(key)
	if !found {
		return false, nil
	}
	data, ok := val.([]byte)
	if !ok {
		return false, fmt.Errorf("cache: unexpected value type %T for %s", val, key)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("cache: unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (cs *CacheService) Delete(_ context.Context, key string) error {
	cs.cache.Delete(key)
	return nil
}

// ItemCount reports how many entries are currently held, expired ones included.
func (cs *CacheService) ItemCount() int {
	return cs.cache.ItemCount()
}

// Close is a no-op for the in-memory cache
func (cs *CacheService) Close() error {
	return nil
}
