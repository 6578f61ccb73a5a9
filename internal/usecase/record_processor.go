package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"DestinyMap/internal/domain/models"
	drepo "DestinyMap/internal/domain/repository"
	"DestinyMap/pkg/logger"
)

// RecordProcessor routes computation audit records to the configured
// backend. Records arrive through Submit and are flushed in batches so the
// compute path never waits on Kafka or ClickHouse.
type RecordProcessor struct {
	pub     drepo.Publisher
	store   drepo.AuditStore
	metrics drepo.Metrics
	log     *logger.Logger
	backend string
	batchSz int
	batchTO time.Duration

	ch   chan *models.ComputationRecord
	done chan struct{}
	once sync.Once
}

// NewRecordProcessor creates a RecordProcessor and starts its flush loop.
func NewRecordProcessor(
	pub drepo.Publisher,
	store drepo.AuditStore,
	metrics drepo.Metrics,
	log *logger.Logger,
	backend string,
	batchSz int,
	batchTO time.Duration,
) *RecordProcessor {
	if batchSz <= 0 {
		batchSz = 100
	}
	if batchTO <= 0 {
		batchTO = time.Second
	}
	p := &RecordProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		log:     log,
		backend: backend,
		batchSz: batchSz,
		batchTO: batchTO,
		ch:      make(chan *models.ComputationRecord, 4*batchSz),
		done:    make(chan struct{}),
	}
	go p.flushLoop()
	return p
}

// Submit enqueues a record without blocking. A full buffer drops the record
// rather than stalling a computation.
func (p *RecordProcessor) Submit(rec *models.ComputationRecord) {
	if rec == nil {
		return
	}
	select {
	case p.ch <- rec:
	default:
		p.metrics.RecordError("audit_buffer_full")
	}
}

func (p *RecordProcessor) flushLoop() {
	batch := make([]*models.ComputationRecord, 0, p.batchSz)
	timer := time.NewTimer(p.batchTO)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := p.ProcessBatch(ctx, batch); err != nil {
			p.log.Warn("audit flush failed", logger.Error(err), logger.Int("records", len(batch)))
		}
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case rec, ok := <-p.ch:
			if !ok {
				flush()
				close(p.done)
				return
			}
			batch = append(batch, rec)
			if len(batch) >= p.batchSz {
				flush()
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(p.batchTO)
			}
		case <-timer.C:
			flush()
			timer.Reset(p.batchTO)
		}
	}
}

// Process routes a single record to the configured backend.
func (p *RecordProcessor) Process(ctx context.Context, rec *models.ComputationRecord) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, rec)
	case "clickhouse":
		err = p.store.Store(ctx, rec)
	case "both":
		if err = p.pub.Publish(ctx, rec); err == nil {
			err = p.store.Store(ctx, rec)
		}
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("audit_process")
		return fmt.Errorf("process record: %w", err)
	}

	p.metrics.RecordLatency("audit_process", time.Since(start).Seconds())
	return nil
}

// ProcessBatch routes multiple records in a batch.
func (p *RecordProcessor) ProcessBatch(ctx context.Context, recs []*models.ComputationRecord) error {
	if len(recs) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, recs)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, recs)
	case "both":
		if err = p.pub.PublishBatch(ctx, recs); err == nil {
			err = p.store.StoreBatch(ctx, recs)
		}
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("audit_process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	p.metrics.RecordLatency("audit_process_batch", time.Since(start).Seconds())
	return nil
}

// Close drains the buffer and closes the underlying backends.
func (p *RecordProcessor) Close() {
	p.once.Do(func() {
		close(p.ch)
		<-p.done
	})
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
