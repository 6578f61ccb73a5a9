package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"DestinyMap/internal/domain/models"
	"DestinyMap/internal/domain/repository"
)

// AuditSchema creates the computation audit table. Rows are anonymized: the
// key hash cannot be reversed into birth parameters.
var AuditSchema = []string{
	`CREATE TABLE IF NOT EXISTS destiny_audit (
		key_hash     String,
		generator_id String,
		outcome      LowCardinality(String),
		duration_ms  Int64,
		modules      Map(String, String),
		created_at   DateTime64(3)
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(created_at)
	ORDER BY (created_at, key_hash)
	TTL toDateTime(created_at) + INTERVAL 90 DAY`,
}

// ClickHouseAuditStore implements AuditStore on ClickHouse.
type ClickHouseAuditStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseAuditStore creates the ClickHouse-backed audit store.
func NewClickHouseAuditStore(db *sql.DB, table string) repository.AuditStore {
	if table == "" {
		table = "destiny_audit"
	}
	return &ClickHouseAuditStore{db: db, table: table}
}

func (s *ClickHouseAuditStore) Init(ctx context.Context) error {
	for _, stmt := range AuditSchema {
		if _, err := s.db.ExecContext(ctx, strings.Replace(stmt, "destiny_audit", s.table, 1)); err != nil {
			return fmt.Errorf("init audit schema: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseAuditStore) Store(ctx context.Context, rec *models.ComputationRecord) error {
	q := fmt.Sprintf("INSERT INTO %s (key_hash, generator_id, outcome, duration_ms, modules, created_at) VALUES (?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		rec.KeyHash,
		rec.GeneratorID,
		rec.Outcome,
		rec.DurationMS,
		rec.Modules,
		rec.CreatedAt,
	)
	return err
}

func (s *ClickHouseAuditStore) StoreBatch(ctx context.Context, recs []*models.ComputationRecord) error {
	if len(recs) == 0 {
		return nil
	}

	const chunkSize = 2000
	for start := 0; start < len(recs); start += chunkSize {
		end := start + chunkSize
		if end > len(recs) {
			end = len(recs)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*6)
		for _, rec := range recs[start:end] {
			if rec == nil || rec.KeyHash == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args,
				rec.KeyHash,
				rec.GeneratorID,
				rec.Outcome,
				rec.DurationMS,
				rec.Modules,
				rec.CreatedAt,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (key_hash, generator_id, outcome, duration_ms, modules, created_at) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseAuditStore) Query(ctx context.Context, from, to time.Time, limit int) ([]*models.ComputationRecord, error) {
	q := fmt.Sprintf("SELECT key_hash, generator_id, outcome, duration_ms, modules, created_at FROM %s WHERE created_at >= ? AND created_at <= ? ORDER BY created_at DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*models.ComputationRecord
	for rows.Next() {
		var rec models.ComputationRecord
		if err := rows.Scan(&rec.KeyHash, &rec.GeneratorID, &rec.Outcome, &rec.DurationMS, &rec.Modules, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

func (s *ClickHouseAuditStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseAuditStore) Close() error {
	return nil // Managed by pkg
}
