package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Get when the key holds no value
var ErrKeyNotFound = errors.New("store: key not found")

// KVStore is the persistence contract every repository is built on.
// Values and lists live in separate namespaces: Set/Get never see Append/Range data.
type KVStore interface {
	// Get returns the value stored under key or ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key
	Set(ctx context.Context, key string, value []byte) error

	// Append adds value to the end of the list stored under key
	Append(ctx context.Context, key string, value []byte) error

	// Range returns the list stored under key in append order; missing lists are empty
	Range(ctx context.Context, key string) ([][]byte, error)

	Ping(ctx context.Context) error
	Close() error

	// Backend names the implementation for logs and metrics
	Backend() string
}

// GetJSON decodes the value under key into out. It returns false when the key is absent.
func GetJSON(ctx context.Context, s KVStore, key string, out any) (bool, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, s KVStore, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

func AppendJSON(ctx context.Context, s KVStore, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Append(ctx, key, data)
}

// RangeJSON decodes every element of the list under key
func RangeJSON[T any](ctx context.Context, s KVStore, key string) ([]T, error) {
	items, err := s.Range(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("decode %s[%d]: %w", key, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
