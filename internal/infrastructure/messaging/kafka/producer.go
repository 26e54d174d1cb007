package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")

// ProducerConfig holds configuration for the Producer.
type ProducerConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Acks         string        `mapstructure:"acks"` // all, one, none
	MaxRetries   int           `mapstructure:"max_retries"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes pipeline events.
type Producer struct {
	writer WriterInterface
	logger logging.Logger
	closed atomic.Bool
	sent   atomic.Int64
	failed atomic.Int64
}

// NewProducer creates a Producer against the configured brokers.
func NewProducer(cfg ProducerConfig, logger logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	acks := kafka.RequireAll
	switch cfg.Acks {
	case "one":
		acks = kafka.RequireOne
	case "none":
		acks = kafka.RequireNone
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: acks,
		MaxAttempts:  cfg.MaxRetries + 1,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Producer{writer: writer, logger: logger.Named("kafka.producer")}, nil
}

// NewProducerWithWriter is the test seam.
func NewProducerWithWriter(writer WriterInterface, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Producer{writer: writer, logger: logger.Named("kafka.producer")}
}

// Publish writes one envelope to a topic, keyed so all events of one entry
// land on the same partition.
func (p *Producer) Publish(ctx context.Context, topic, key string, env *EventEnvelope) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	msg, err := env.ToMessage(topic, key)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.failed.Add(1)
		p.logger.Error("publish failed",
			logging.String("topic", topic),
			logging.String("event_type", env.EventType),
			logging.Err(err),
		)
		return errors.Wrap(err, errors.ErrCodePublishFailed, "failed to publish event")
	}
	p.sent.Add(1)
	return nil
}

// PublishEntityEnriched publishes one enriched entity event.
func (p *Producer) PublishEntityEnriched(ctx context.Context, payload EntityEnrichedPayload) error {
	env, err := NewEventEnvelope(TopicEntityEnriched, "oncoterm", payload)
	if err != nil {
		return err
	}
	return p.Publish(ctx, TopicEntityEnriched, payload.EntryID, env)
}

// PublishRunCompleted publishes the run summary event.
func (p *Producer) PublishRunCompleted(ctx context.Context, payload RunCompletedPayload) error {
	env, err := NewEventEnvelope(TopicRunCompleted, "oncoterm", payload)
	if err != nil {
		return err
	}
	return p.Publish(ctx, TopicRunCompleted, payload.RunID, env)
}

// Sent returns the number of successfully published messages.
func (p *Producer) Sent() int64 { return p.sent.Load() }

// Failed returns the number of failed publishes.
func (p *Producer) Failed() int64 { return p.failed.Load() }

// Close flushes and closes the writer; safe to call more than once.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

//Personal.AI order the ending
