package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bodyfat/internal/domain/bodyfat"
	"bodyfat/internal/metrics"
	"bodyfat/pkg/errors"
	"bodyfat/pkg/logger"
)

// EventPredictionCompleted is the type of a successful prediction event
const EventPredictionCompleted = "prediction.completed"

// Sink is the transport the publisher writes to (Kafka in production)
type Sink interface {
	Publish(ctx context.Context, topic string, key string, event interface{}) error
}

// PredictionCompleted is published after every successful prediction
type PredictionCompleted struct {
	Type           string    `json:"type"`
	ID             uuid.UUID `json:"id"`
	User           string    `json:"user"`
	Engine         string    `json:"engine"`
	BodyFatPercent float64   `json:"body_fat_percent"`
	Status         string    `json:"status"`
	TargetWeight   float64   `json:"target_weight"`
	WeightDiff     float64   `json:"weight_diff"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher publishes prediction events
type Publisher struct {
	sink  Sink
	topic string
	log   *logger.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(sink Sink, topic string, log *logger.Logger) *Publisher {
	return &Publisher{
		sink:  sink,
		topic: topic,
		log:   log.With("component", "event_publisher"),
	}
}

// PublishPrediction publishes a prediction.completed event keyed by prediction ID.
// User labels default to "Guest", so keying by user would pin most events to one partition.
func (p *Publisher) PublishPrediction(ctx context.Context, pred *bodyfat.Prediction) error {
	event := PredictionCompleted{
		Type:           EventPredictionCompleted,
		ID:             pred.ID,
		User:           pred.User,
		Engine:         pred.Variant.Slug(),
		BodyFatPercent: pred.BodyFatPercent,
		Status:         pred.Status.Label,
		TargetWeight:   pred.Goal.TargetWeight,
		WeightDiff:     pred.Goal.WeightDiff,
		OccurredAt:     pred.PredictedAt,
	}

	err := p.sink.Publish(ctx, p.topic, pred.ID.String(), event)
	metrics.RecordEventPublish(p.topic, err)
	if err != nil {
		return errors.Wrapf(err, "publish %s", EventPredictionCompleted)
	}
	return nil
}
