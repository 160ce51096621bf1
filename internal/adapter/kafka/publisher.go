// Package kafka publishes finished scene cards to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/scene-card-service/internal/config"
	"github.com/couchcryptid/scene-card-service/internal/domain"
	"github.com/couchcryptid/scene-card-service/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces scene cards to the cards topic. Keys are card IDs, so
// re-publishes of the same card land on the same partition.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured cards topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaCardsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes and writes one card to the topic.
func (p *Publisher) Publish(ctx context.Context, card *domain.SceneCard) error {
	msg, err := serializeToMessage(card)
	if err != nil {
		p.metrics.PublishErrors.Inc()
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.PublishErrors.Inc()
		return fmt.Errorf("publish card %s: %w", card.ID, err)
	}
	p.metrics.CardsPublished.Inc()
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a scene card into a Kafka message.
func serializeToMessage(card *domain.SceneCard) (kafkago.Message, error) {
	data, err := json.Marshal(card)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize scene card: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(card.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "schema_version", Value: []byte(card.Version)},
			{Key: "created_at", Value: []byte(card.Provenance.CreatedAtUTC.Format(time.RFC3339))},
		},
	}, nil
}
