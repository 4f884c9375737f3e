// Package state stores small per-client records for livesite. Backends are
// an in-memory map and a SQLite file.
package state

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Common store errors.
var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrStoreClosed   = errors.New("store is closed")
	ErrInvalidData   = errors.New("invalid data format")
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Store is the interface for state storage backends.
type Store interface {
	// Get retrieves a value by key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Keys returns all keys matching a glob pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Close closes the store.
	Close() error
}

// Drivers accepted by Open.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Open opens the store selected by driver. path is only used by the SQLite
// driver.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// TypedStore provides type-safe access to the store.
type TypedStore[T any] struct {
	store      Store
	serializer Serializer[T]
	prefix     string
}

// NewTypedStore creates a typed view of store. Keys are prefixed with prefix.
func NewTypedStore[T any](store Store, serializer Serializer[T], prefix string) *TypedStore[T] {
	return &TypedStore[T]{
		store:      store,
		serializer: serializer,
		prefix:     prefix,
	}
}

// Get retrieves and deserializes a value.
func (ts *TypedStore[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	data, err := ts.store.Get(ctx, ts.prefix+key)
	if err != nil {
		return zero, err
	}

	v, err := ts.serializer.Deserialize(data)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return v, nil
}

// Set serializes and stores a value.
func (ts *TypedStore[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := ts.serializer.Serialize(value)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", key, err)
	}

	return ts.store.Set(ctx, ts.prefix+key, data, ttl)
}

// Delete removes a key.
func (ts *TypedStore[T]) Delete(ctx context.Context, key string) error {
	return ts.store.Delete(ctx, ts.prefix+key)
}

// Serializer handles serialization/deserialization.
type Serializer[T any] interface {
	Serialize(value T) ([]byte, error)
	Deserialize(data []byte) (T, error)
}
