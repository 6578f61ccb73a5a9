package usecase

import (
	"context"
	"encoding/json"
	"time"

	"DestinyMap/internal/domain/models"
	domrepo "DestinyMap/internal/domain/repository"
	pkgkafka "DestinyMap/pkg/kafka"
)

// Pipeline forwards a validated precompute request toward the orchestrator.
type Pipeline interface {
	Process(ctx context.Context, input models.BirthInput) error
}

// PrecomputeHandler consumes Kafka precompute requests to warm the
// aggregate cache ahead of batch report generation.
type PrecomputeHandler struct {
	topic    string
	pipeline Pipeline
	metrics  domrepo.Metrics
}

func NewPrecomputeHandler(topic string, pipeline Pipeline, metrics domrepo.Metrics) *PrecomputeHandler {
	return &PrecomputeHandler{topic: topic, pipeline: pipeline, metrics: metrics}
}

func (h *PrecomputeHandler) Topic() string { return h.topic }

// incoming message schema: {birth_date, birth_time, latitude, longitude, gender, timezone}
func (h *PrecomputeHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		BirthDate string  `json:"birth_date"`
		BirthTime string  `json:"birth_time"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Gender    string  `json:"gender"`
		Timezone  string  `json:"timezone"`
		Requested int64   `json:"requested_at"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("precompute_unmarshal")
		return err
	}
	if m.Requested > 0 {
		if m.Requested > 1e11 { // ms
			m.Requested = m.Requested / 1000
		}
		h.metrics.RecordLatency("precompute_e2e_seconds", time.Since(time.Unix(m.Requested, 0)).Seconds())
	}

	return h.pipeline.Process(ctx, models.BirthInput{
		BirthDate: m.BirthDate,
		BirthTime: m.BirthTime,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		Gender:    m.Gender,
		Timezone:  m.Timezone,
	})
}

var _ pkgkafka.MessageHandler = (*PrecomputeHandler)(nil)
