// Package kafka carries the pipeline's events: upload announcements consumed
// by the worker and processing/analysis outcomes consumed by downstream
// systems.
package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/pkg/errors"
)

var errProducerClosed = errors.New(errors.ErrCodeInternal, "kafka producer is closed")

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer publishes event envelopes.  Safe for concurrent use.
type Producer struct {
	writer writerInterface
	source string
	logger logging.Logger
	closed atomic.Bool
}

// NewProducer builds a Producer against the configured brokers.  source
// names the publishing process in every envelope.
func NewProducer(cfg config.KafkaConfig, source string, logger logging.Logger) *Producer {
	retries := cfg.ProducerRetries
	if retries <= 0 {
		retries = 3
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 250 * time.Millisecond
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Balancer:     &kafkago.Hash{},
		MaxAttempts:  retries + 1,
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
		RequiredAcks: kafkago.RequireOne,
	}
	return newProducer(writer, source, logger)
}

func newProducer(writer writerInterface, source string, logger logging.Logger) *Producer {
	return &Producer{writer: writer, source: source, logger: logger.Named("kafka.producer")}
}

// Publish wraps payload in an envelope and writes it to topic, keyed so
// events for one subject stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	if p.closed.Load() {
		return errProducerClosed
	}
	env, err := NewEnvelope(topic, p.source, payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode event payload")
	}
	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode event envelope")
	}

	msg := kafkago.Message{Topic: topic, Key: []byte(key), Value: value}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publish failed",
			logging.String("topic", topic),
			logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeExternalService, "publish event")
	}

	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_id", env.EventID))
	return nil
}

// Close flushes and shuts the underlying writer.  Publish calls after Close
// fail fast.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.writer.Close()
}
