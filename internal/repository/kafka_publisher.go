package repository

import (
	"context"

	"DestinyMap/internal/domain/models"
	"DestinyMap/internal/domain/repository"
	pkgkafka "DestinyMap/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka. Records are keyed by their
// hashed cache key so replays of one chart land in one partition.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func recordPayload(rec *models.ComputationRecord) map[string]interface{} {
	return map[string]interface{}{
		"key_hash":     rec.KeyHash,
		"generator_id": rec.GeneratorID,
		"outcome":      rec.Outcome,
		"duration_ms":  rec.DurationMS,
		"modules":      rec.Modules,
		"created_at":   rec.CreatedAt,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, rec *models.ComputationRecord) error {
	return p.producer.Publish(ctx, p.topic, []byte(rec.KeyHash), recordPayload(rec))
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, recs []*models.ComputationRecord) error {
	if len(recs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(recs))
	for i, rec := range recs {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(rec.KeyHash),
			Value: recordPayload(rec),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
