package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"

	"meal_storefront/internal/config"
	domain "meal_storefront/internal/domain/order"
	"meal_storefront/pkg/logger"
)

const (
	eventTypeOrderPlaced = "order_placed"
	eventVersion         = "1"
)

// OrderEncoder serializes an order into an OrderPlaced payload.
type OrderEncoder interface {
	Encode(o *domain.Order) ([]byte, error)
}

type OrderProducer struct {
	client  *kgo.Client
	topic   string
	encoder OrderEncoder
	logger  logger.Logger
}

func NewOrderProducer(cfg config.KafkaConfig, encoder OrderEncoder, log logger.Logger) (*OrderProducer, error) {
	log.Info("connecting kafka producer",
		logger.Any("brokers", cfg.Brokers),
		logger.String("topic", cfg.OrderTopic),
	)

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.OrderTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(5 * time.Millisecond),
		kgo.RecordDeliveryTimeout(10 * time.Second),
	}
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts, kgo.SASL(plain.Auth{
			User: cfg.Username,
			Pass: cfg.Password,
		}.AsMechanism()))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &OrderProducer{
		client:  client,
		topic:   cfg.OrderTopic,
		encoder: encoder,
		logger:  log,
	}, nil
}

// PublishOrderPlaced writes one OrderPlaced record keyed by order id.
func (p *OrderProducer) PublishOrderPlaced(ctx context.Context, o *domain.Order) error {
	rec, err := p.record(o)
	if err != nil {
		return err
	}

	results := p.client.ProduceSync(ctx, rec)
	if err := results.FirstErr(); err != nil {
		p.logger.WithContext(ctx).Error("publish order placed failed",
			logger.String("topic", p.topic),
			logger.String("order_id", o.ID),
			logger.Int("payload_bytes", len(rec.Value)),
			logger.Error(err),
		)
		return fmt.Errorf("publish to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *OrderProducer) record(o *domain.Order) (*kgo.Record, error) {
	if o == nil {
		return nil, fmt.Errorf("order is nil")
	}
	payload, err := p.encoder.Encode(o)
	if err != nil {
		return nil, fmt.Errorf("encode order placed: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	return &kgo.Record{
		Topic: p.topic,
		Key:   []byte(o.ID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(eventTypeOrderPlaced)},
			{Key: "version", Value: []byte(eventVersion)},
			{Key: "content_type", Value: []byte("avro/binary")},
		},
		Timestamp: time.Now().UTC(),
	}, nil
}

func (p *OrderProducer) Close() {
	p.logger.Info("closing kafka producer", logger.String("topic", p.topic))
	p.client.Close()
}
