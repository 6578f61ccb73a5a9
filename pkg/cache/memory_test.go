package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(maxSize int, ttl time.Duration) (*MemoryCache, *fakeClock) {
	clk := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	mc := NewMemoryCache(
		WithMemoryMaxSize(maxSize),
		WithMemoryTTL(ttl),
		WithClock(clk.Now),
	)
	return mc, clk
}

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestCache(10, 5*time.Minute)

	if err := mc.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got string
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "v" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestCache(10, 5*time.Minute)

	var got string
	if err := mc.Get(ctx, "absent", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	mc, clk := newTestCache(10, 5*time.Minute)

	if err := mc.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	clk.Advance(5*time.Minute + time.Second)

	var got string
	if err := mc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after TTL, got %v", err)
	}
	// lazy expiry removed the entry
	if n, _ := mc.Size(ctx); n != 0 {
		t.Fatalf("expected empty cache after expiry, size=%d", n)
	}
}

func TestMemoryCacheEvictsOldest(t *testing.T) {
	ctx := context.Background()
	mc, clk := newTestCache(3, time.Hour)

	for _, k := range []string{"a", "b", "c"} {
		if err := mc.Set(ctx, k, k, 0); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
		clk.Advance(time.Second)
	}

	// at capacity: inserting d must evict a (oldest CreatedAt) only
	if err := mc.Set(ctx, "d", "d", 0); err != nil {
		t.Fatalf("set d: %v", err)
	}

	if n, _ := mc.Size(ctx); n != 3 {
		t.Fatalf("size exceeded max: %d", n)
	}
	var got string
	if err := mc.Get(ctx, "a", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected oldest entry evicted, got %v", err)
	}
	for _, k := range []string{"b", "c", "d"} {
		if err := mc.Get(ctx, k, &got); err != nil {
			t.Fatalf("entry %s should survive eviction: %v", k, err)
		}
	}
}

func TestMemoryCacheOverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	mc, clk := newTestCache(2, time.Hour)

	_ = mc.Set(ctx, "a", 1, 0)
	clk.Advance(time.Second)
	_ = mc.Set(ctx, "b", 2, 0)
	clk.Advance(time.Second)
	// overwriting an existing key at capacity must not evict anything
	_ = mc.Set(ctx, "a", 3, 0)

	var got int
	if err := mc.Get(ctx, "b", &got); err != nil {
		t.Fatalf("b should survive overwrite of a: %v", err)
	}
	if err := mc.Get(ctx, "a", &got); err != nil || got != 3 {
		t.Fatalf("a not overwritten: %v %d", err, got)
	}
}

func TestMemoryCacheCleanup(t *testing.T) {
	ctx := context.Background()
	mc, clk := newTestCache(10, time.Minute)

	_ = mc.Set(ctx, "old1", 1, 0)
	_ = mc.Set(ctx, "old2", 2, 0)
	clk.Advance(2 * time.Minute)
	_ = mc.Set(ctx, "fresh", 3, 0)

	evicted, err := mc.Cleanup(ctx)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if evicted != 2 {
		t.Fatalf("expected 2 evicted, got %d", evicted)
	}
	if n, _ := mc.Size(ctx); n != 1 {
		t.Fatalf("expected 1 entry left, got %d", n)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestCache(10, time.Minute)

	_ = mc.Set(ctx, "a", 1, 0)
	_ = mc.Set(ctx, "b", 2, 0)
	if err := mc.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n, _ := mc.Size(ctx); n != 0 {
		t.Fatalf("expected empty cache, size=%d", n)
	}
}

func TestMemoryCachePointerIdentity(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestCache(10, time.Minute)

	type payload struct{ N int }
	p := &payload{N: 42}
	_ = mc.Set(ctx, "p", p, 0)

	var got *payload
	if err := mc.Get(ctx, "p", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != p {
		t.Fatalf("expected the stored object itself back")
	}
}
