package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

var ErrConsumerClosed = errors.New(errors.ErrCodeInternal, "consumer closed")

// EnvelopeHandler processes one decoded event.  A non-nil error sends the
// raw message to the dead-letter topic; the consumer keeps going either way.
type EnvelopeHandler func(ctx context.Context, env *EventEnvelope) error

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers        []string      `mapstructure:"brokers"`
	GroupID        string        `mapstructure:"group_id"`
	Topic          string        `mapstructure:"topic"`
	MinBytes       int           `mapstructure:"min_bytes"`
	MaxBytes       int           `mapstructure:"max_bytes"`
	CommitInterval time.Duration `mapstructure:"commit_interval"`
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads intake events and hands them to a handler, dead-lettering
// events the handler rejects.
type Consumer struct {
	reader     ReaderInterface
	deadLetter *Producer
	logger     logging.Logger
	closed     atomic.Bool
	processed  atomic.Int64
	rejected   atomic.Int64
}

// NewConsumer creates a consumer-group reader for one topic.  deadLetter may
// be nil, in which case rejected events are only logged.
func NewConsumer(cfg ConsumerConfig, deadLetter *Producer, logger logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "group id required")
	}
	if cfg.Topic == "" {
		return nil, errors.New(errors.ErrCodeValidation, "topic required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10 * 1024 * 1024
	}
	if cfg.CommitInterval == 0 {
		cfg.CommitInterval = time.Second
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		CommitInterval: cfg.CommitInterval,
	})
	return &Consumer{
		reader:     reader,
		deadLetter: deadLetter,
		logger:     logger.Named("kafka.consumer"),
	}, nil
}

// NewConsumerWithReader is the test seam.
func NewConsumerWithReader(reader ReaderInterface, deadLetter *Producer, logger logging.Logger) *Consumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Consumer{
		reader:     reader,
		deadLetter: deadLetter,
		logger:     logger.Named("kafka.consumer"),
	}
}

// Run consumes until ctx is cancelled or the consumer is closed.  Malformed
// envelopes and handler failures are dead-lettered and committed so the
// partition keeps moving.
func (c *Consumer) Run(ctx context.Context, handler EnvelopeHandler) error {
	for {
		if c.closed.Load() {
			return ErrConsumerClosed
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if c.closed.Load() {
				return ErrConsumerClosed
			}
			c.logger.Warn("fetch failed", logging.Err(err))
			continue
		}

		if err := c.processOne(ctx, msg, handler); err != nil {
			c.rejected.Add(1)
			c.toDeadLetter(ctx, msg, err)
		} else {
			c.processed.Add(1)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("commit failed",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err),
			)
		}
	}
}

func (c *Consumer) processOne(ctx context.Context, msg kafka.Message, handler EnvelopeHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrCodeInternal, "handler panic: %v", r)
		}
	}()

	env, err := ParseEnvelope(msg)
	if err != nil {
		return err
	}
	return handler(ctx, env)
}

func (c *Consumer) toDeadLetter(ctx context.Context, msg kafka.Message, cause error) {
	c.logger.Warn("event rejected",
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset),
		logging.Err(cause),
	)
	if c.deadLetter == nil {
		return
	}
	dead := kafka.Message{
		Topic: TopicDeadLetter,
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(msg.Headers, kafka.Header{
			Key: "rejection_reason", Value: []byte(cause.Error()),
		}),
	}
	if err := c.deadLetter.writer.WriteMessages(ctx, dead); err != nil {
		c.logger.Error("dead-letter publish failed", logging.Err(err))
	}
}

// Processed returns the count of successfully handled events.
func (c *Consumer) Processed() int64 { return c.processed.Load() }

// Rejected returns the count of dead-lettered events.
func (c *Consumer) Rejected() int64 { return c.rejected.Load() }

// Close stops the consumer; safe to call more than once.
func (c *Consumer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.reader.Close()
}

//Personal.AI order the ending
