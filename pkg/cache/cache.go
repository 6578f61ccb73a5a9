package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines the result-cache operations used by the orchestrator.
// Get returns ErrCacheMiss for absent or expired entries; an expired entry
// is removed on lookup (lazy expiry). Set at capacity evicts the single
// entry with the oldest creation timestamp before inserting.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
	Size(ctx context.Context) (int, error)
	Cleanup(ctx context.Context) (int, error)
	Close() error
}
