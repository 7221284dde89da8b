package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
)

// Handler processes one decoded envelope.  Returning an error leaves the
// message uncommitted so the group redelivers it.
type Handler func(ctx context.Context, env *EventEnvelope) error

// readerInterface abstracts kafka.Reader for testing.
type readerInterface interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer runs a consumer-group loop over one topic.
type Consumer struct {
	reader readerInterface
	topic  string
	logger logging.Logger
}

// NewConsumer joins the configured group on topic.
func NewConsumer(cfg config.KafkaConfig, topic string, logger logging.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   topic,
	})
	return newConsumer(reader, topic, logger)
}

func newConsumer(reader readerInterface, topic string, logger logging.Logger) *Consumer {
	return &Consumer{reader: reader, topic: topic, logger: logger.Named("kafka.consumer")}
}

// Run fetches, decodes and handles messages until ctx is cancelled or the
// reader is closed.  Undecodable messages are committed and dropped; they
// would never succeed on redelivery.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var env EventEnvelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			c.logger.Warn("dropping undecodable message",
				logging.String("topic", c.topic),
				logging.Int("offset", int(msg.Offset)),
				logging.Err(err))
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return err
			}
			continue
		}

		if err := handle(ctx, &env); err != nil {
			c.logger.Error("handler failed, message left for redelivery",
				logging.String("topic", c.topic),
				logging.String("event_id", env.EventID),
				logging.Err(err))
			continue
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

// Close shuts the underlying reader, unblocking Run.
func (c *Consumer) Close() error { return c.reader.Close() }
