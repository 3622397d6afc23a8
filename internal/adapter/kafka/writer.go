package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

const (
	publishAttempts = 3
	initialBackoff  = 200 * time.Millisecond
	maxBackoff      = 2 * time.Second
)

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces the displayed events of each applied refresh to a
// Kafka topic. It implements dashboard.EventSink.
type Publisher struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes events and writes them in a single WriteMessages call,
// retrying with backoff on failure.
func (p *Publisher) Publish(ctx context.Context, window domain.Window, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	renderedAt := domain.Now()
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i], window, renderedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		if err = p.writer.WriteMessages(ctx, msgs...); err == nil {
			p.metrics.EventsPublished.Add(float64(len(msgs)))
			return nil
		}
		if attempt == publishAttempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		p.logger.Debug("retrying kafka publish", "attempt", attempt, "error", err)
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}

	p.metrics.PublishErrors.Inc()
	return fmt.Errorf("publish %d events: %w", len(msgs), err)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an Event into a Kafka message.
func serializeToMessage(event domain.Event, window domain.Window, renderedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize earthquake event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "window", Value: []byte(window.String())},
			{Key: "rendered_at", Value: []byte(renderedAt.Format(time.RFC3339))},
		},
	}, nil
}
