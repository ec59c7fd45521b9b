package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TypePaymentPaid      = "payment.paid"
	TypePaymentCancelled = "payment.cancelled"
	TypePaymentExpired   = "payment.expired"
	TypeDeliveryUpdated  = "delivery.updated"
)

// Event is the lifecycle notification emitted after successful state changes.
type Event struct {
	Type          string    `json:"type"`
	TransactionID string    `json:"transaction_id"`
	PaymentID     string    `json:"payment_id,omitempty"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewPublisher builds a Kafka-backed publisher. An empty broker address
// returns a no-op publisher so local runs and tests need no broker.
func NewPublisher(broker, topic string, log *zap.Logger) Publisher {
	if broker == "" {
		return noopPublisher{}
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(broker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	log.Info("Kafka publisher initialized",
		zap.String("broker", broker),
		zap.String("topic", topic),
	)

	return &kafkaPublisher{
		writer: writer,
		log:    log.With(zap.String("component", "events")),
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish event",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.String("transaction_id", event.TransactionID),
		)
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (noopPublisher) Close() error                                   { return nil }
