package kafka

import (
	"context"
	"errors"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"meal_storefront/internal/config"
	domain "meal_storefront/internal/domain/order"
	"meal_storefront/pkg/logger"
)

type OrderDecoder interface {
	Decode(payload []byte) (*domain.Order, error)
}

// OrderHandler reacts to one placed order. Returning an error stops the
// consumer without committing the message.
type OrderHandler interface {
	HandleOrderPlaced(ctx context.Context, o *domain.Order) error
}

type OrderConsumer struct {
	reader  *kafkago.Reader
	decoder OrderDecoder
	handler OrderHandler
	logger  logger.Logger
}

func NewOrderConsumer(cfg config.KafkaConfig, decoder OrderDecoder, handler OrderHandler, log logger.Logger) *OrderConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.ConsumerGroup,
		Topic:    cfg.OrderTopic,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})

	return &OrderConsumer{
		reader:  reader,
		decoder: decoder,
		handler: handler,
		logger:  log,
	}
}

// Start consumes until ctx is cancelled. Messages are committed only after
// the handler succeeded; undecodable messages are logged and committed.
func (c *OrderConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		if err := c.handle(ctx, msg); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit message: %w", err)
		}
	}
}

func (c *OrderConsumer) handle(ctx context.Context, msg kafkago.Message) error {
	o, err := c.decoder.Decode(msg.Value)
	if err != nil {
		c.logger.Warn("skipping undecodable order placed message",
			logger.Int64("offset", msg.Offset),
			logger.Int("partition", msg.Partition),
			logger.Error(err),
		)
		return nil
	}

	if err := c.handler.HandleOrderPlaced(ctx, o); err != nil {
		return fmt.Errorf("handle order %s: %w", o.ID, err)
	}
	return nil
}

func (c *OrderConsumer) Close() {
	_ = c.reader.Close()
}
