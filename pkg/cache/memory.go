package cache

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// MemoryItem stores a cached value with its lifecycle timestamps.
type MemoryItem struct {
	Value     interface{}
	CreatedAt time.Time
	ExpireAt  time.Time
}

// MemoryCache implements Service with an in-process map.
//
// Eviction is age-based, not LRU: when Set finds the cache at capacity it
// removes the entry with the oldest CreatedAt. Access times are not tracked
// at all, which keeps the policy explicit in the type.
type MemoryCache struct {
	mutex      sync.Mutex
	data       map[string]*MemoryItem
	maxSize    int
	defaultTTL time.Duration
	now        func() time.Time
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:    50,
		DefaultTTL: 5 * time.Minute,
		Clock:      time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &MemoryCache{
		data:       make(map[string]*MemoryItem),
		maxSize:    cfg.MaxSize,
		defaultTTL: cfg.DefaultTTL,
		now:        cfg.Clock,
	}
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if ttl <= 0 {
		ttl = mc.defaultTTL
	}

	if _, exists := mc.data[key]; !exists && len(mc.data) >= mc.maxSize {
		mc.evictOldest()
	}

	now := mc.now()
	mc.data[key] = &MemoryItem{
		Value:     value,
		CreatedAt: now,
		ExpireAt:  now.Add(ttl),
	}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	item, exists := mc.data[key]
	if !exists {
		return ErrCacheMiss
	}
	if mc.now().After(item.ExpireAt) {
		delete(mc.data, key)
		return ErrCacheMiss
	}

	return assign(dest, item.Value)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
	}
	return nil
}

func (mc *MemoryCache) Clear(_ context.Context) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	mc.data = make(map[string]*MemoryItem)
	return nil
}

func (mc *MemoryCache) Size(_ context.Context) (int, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	return len(mc.data), nil
}

// Cleanup removes every expired entry and returns the number removed.
// Intended for a periodic sweep; Get already expires lazily.
func (mc *MemoryCache) Cleanup(_ context.Context) (int, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	now := mc.now()
	evicted := 0
	for key, item := range mc.data {
		if now.After(item.ExpireAt) {
			delete(mc.data, key)
			evicted++
		}
	}
	return evicted, nil
}

// Close is a no-op; the memory cache holds no external resources.
func (mc *MemoryCache) Close() error { return nil }

// StartSweeper runs Cleanup on the given interval until ctx is done.
func (mc *MemoryCache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = mc.Cleanup(ctx)
			}
		}
	}()
}

// evictOldest removes the single entry with the oldest creation timestamp.
// Caller must hold the mutex.
func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range mc.data {
		if oldestKey == "" || item.CreatedAt.Before(oldestTime) {
			oldestTime = item.CreatedAt
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(mc.data, oldestKey)
	}
}

// assign copies val into the pointer dest without serialization, so callers
// of the memory cache get back the stored object itself.
func assign(dest, val interface{}) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("cache: dest must be a non-nil pointer, got %T", dest)
	}
	vv := reflect.ValueOf(val)
	if !vv.IsValid() {
		dv.Elem().Set(reflect.Zero(dv.Elem().Type()))
		return nil
	}
	if !vv.Type().AssignableTo(dv.Elem().Type()) {
		return fmt.Errorf("cache: cannot assign %T to %T", val, dest)
	}
	dv.Elem().Set(vv)
	return nil
}
