package store

import (
	"context"
	"errors"
	"time"

	"aiso/tripdesk/internal/metrics"
)

// InstrumentedStore records operation counts and latency for the wrapped store
type InstrumentedStore struct {
	next    KVStore
	metrics *metrics.MetricsRegistry
}

var _ KVStore = (*InstrumentedStore)(nil)

func NewInstrumentedStore(next KVStore, m *metrics.MetricsRegistry) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: m}
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrKeyNotFound):
		result = "miss"
	case err != nil:
		result = "error"
	}
	backend := s.next.Backend()
	s.metrics.StoreOpsTotal.WithLabelValues(backend, op, result).Inc()
	s.metrics.StoreOpDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := s.next.Get(ctx, key)
	s.observe("get", start, err)
	return v, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.observe("set", start, err)
	return err
}

func (s *InstrumentedStore) Append(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Append(ctx, key, value)
	s.observe("append", start, err)
	return err
}

func (s *InstrumentedStore) Range(ctx context.Context, key string) ([][]byte, error) {
	start := time.Now()
	v, err := s.next.Range(ctx, key)
	s.observe("range", start, err)
	return v, err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}

func (s *InstrumentedStore) Backend() string {
	return s.next.Backend()
}
