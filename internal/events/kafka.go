package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/benx421/digital-bank/internal/config"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON messages keyed by aggregate id
type KafkaPublisher struct {
	writer       messageWriter
	logger       *slog.Logger
	writeTimeout time.Duration
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic on cfg.Brokers
func NewKafkaPublisher(cfg *config.KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	log := logger.With("component", "kafka")

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
		Logger: kafka.LoggerFunc(func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		}),
		ErrorLogger: kafka.LoggerFunc(func(format string, args ...any) {
			log.Error(fmt.Sprintf(format, args...))
		}),
	}

	return newKafkaPublisher(w, logger, cfg.WriteTimeout)
}

func newKafkaPublisher(w messageWriter, logger *slog.Logger, writeTimeout time.Duration) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger, writeTimeout: writeTimeout}
}

// Publish writes events in one batch
func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to encode %s event: %w", e.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.AggregateID.String()),
			Value: value,
			Time:  e.OccurredAt,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(e.Type)},
			},
		})
	}

	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}

	p.logger.Debug("events published", "count", len(msgs))
	return nil
}

// Close flushes pending writes and releases the connection
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// NopPublisher otherwise
func NewPublisher(cfg *config.KafkaConfig, logger *slog.Logger) Publisher {
	if len(cfg.Brokers) == 0 {
		logger.Info("event publishing disabled, no kafka brokers configured")
		return NopPublisher{}
	}

	logger.Info("publishing events to kafka", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return NewKafkaPublisher(cfg, logger)
}
