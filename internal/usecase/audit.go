package usecase

import (
	"context"
	"fmt"
	"time"

	"DestinyMap/internal/domain/models"
	domrepo "DestinyMap/internal/domain/repository"
)

// AuditUseCase provides business logic for querying computation records.
type AuditUseCase struct {
	store domrepo.AuditStore
}

func NewAuditUseCase(store domrepo.AuditStore) *AuditUseCase {
	return &AuditUseCase{store: store}
}

type GetRecordsParams struct {
	From  time.Time
	To    time.Time
	Limit int
}

type GetRecordsResult struct {
	From    time.Time
	To      time.Time
	Count   int
	Records []*models.ComputationRecord
}

func (uc *AuditUseCase) GetRecords(ctx context.Context, p GetRecordsParams) (*GetRecordsResult, error) {
	if uc.store == nil {
		return nil, fmt.Errorf("audit store not configured")
	}
	if p.To.IsZero() {
		p.To = time.Now()
	}
	if p.From.IsZero() {
		p.From = p.To.Add(-24 * time.Hour)
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 100
	}
	if p.Limit > 1000 {
		p.Limit = 1000
	}

	recs, err := uc.store.Query(ctx, p.From, p.To, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	return &GetRecordsResult{
		From:    p.From,
		To:      p.To,
		Count:   len(recs),
		Records: recs,
	}, nil
}
