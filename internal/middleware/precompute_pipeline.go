package middleware

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"DestinyMap/internal/domain/models"
	domrepo "DestinyMap/internal/domain/repository"
	"DestinyMap/internal/usecase"
)

// Computer is the minimal orchestrator surface the pipeline needs.
type Computer interface {
	Compute(ctx context.Context, input models.BirthInput) (*models.DestinyMap, error)
}

// PrecomputePipeline sits between the Kafka precompute consumer and the
// orchestrator. It validates requests and throttles per cache key, so a
// batch full of duplicate charts warms the cache once instead of
// recomputing the same aggregate over and over.
type PrecomputePipeline struct {
	comp    Computer
	metrics domrepo.Metrics

	window   time.Duration
	maxKeys  int
	mu       sync.Mutex
	lastSeen map[string]time.Time // per cache key last accepted time
}

type PipelineOption func(*PrecomputePipeline)

// WithDedupeWindow sets how long a cache key is suppressed after acceptance.
func WithDedupeWindow(d time.Duration) PipelineOption {
	return func(p *PrecomputePipeline) {
		if d > 0 {
			p.window = d
		}
	}
}

// WithMaxTrackedKeys bounds the throttle map.
func WithMaxTrackedKeys(n int) PipelineOption {
	return func(p *PrecomputePipeline) {
		if n > 0 {
			p.maxKeys = n
		}
	}
}

// NewPrecomputePipeline creates a new pipeline.
func NewPrecomputePipeline(comp Computer, metrics domrepo.Metrics, opts ...PipelineOption) *PrecomputePipeline {
	p := &PrecomputePipeline{
		comp:     comp,
		metrics:  metrics,
		window:   time.Minute,
		maxKeys:  10000,
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process validates, throttles, and forwards one precompute request.
func (p *PrecomputePipeline) Process(ctx context.Context, input models.BirthInput) error {
	start := time.Now()
	if err := validateInput(input); err != nil {
		p.metrics.RecordError("precompute_validate")
		return err
	}

	key := usecase.BuildCacheKey(input)
	if !p.allow(key, start) {
		// duplicate within the window; drop silently
		p.metrics.RecordError("precompute_throttle")
		return nil
	}

	if _, err := p.comp.Compute(ctx, input); err != nil {
		p.metrics.RecordError("precompute_process")
		return fmt.Errorf("precompute: %w", err)
	}
	p.metrics.RecordLatency("precompute_process", time.Since(start).Seconds())
	return nil
}

func validateInput(input models.BirthInput) error {
	if input.BirthDate == "" {
		return fmt.Errorf("birth date empty")
	}
	if input.BirthTime == "" {
		return fmt.Errorf("birth time empty")
	}
	if math.IsNaN(input.Latitude) || input.Latitude < -90 || input.Latitude > 90 {
		return fmt.Errorf("latitude invalid")
	}
	if math.IsNaN(input.Longitude) || input.Longitude < -180 || input.Longitude > 180 {
		return fmt.Errorf("longitude invalid")
	}
	return nil
}

func (p *PrecomputePipeline) allow(key string, now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if last, ok := p.lastSeen[key]; ok && now.Sub(last) < p.window {
		return false
	}
	if len(p.lastSeen) >= p.maxKeys {
		p.prune(now)
	}
	p.lastSeen[key] = now
	return true
}

// prune drops expired entries; caller holds the lock.
func (p *PrecomputePipeline) prune(now time.Time) {
	for k, t := range p.lastSeen {
		if now.Sub(t) >= p.window {
			delete(p.lastSeen, k)
		}
	}
}
