package repository

import (
	"context"
	"time"

	"DestinyMap/internal/domain/models"
)

type Publisher interface {
	Publish(ctx context.Context, rec *models.ComputationRecord) error
	PublishBatch(ctx context.Context, recs []*models.ComputationRecord) error
	Close() error
}

type AuditStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, rec *models.ComputationRecord) error
	StoreBatch(ctx context.Context, recs []*models.ComputationRecord) error
	Query(ctx context.Context, from, to time.Time, limit int) ([]*models.ComputationRecord, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordComputation(outcome string)
	RecordCacheLookup(result string)
	RecordModuleResult(module, result string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
