package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/volnyigory/storefront/internal/domain/model/event"
	"github.com/volnyigory/storefront/internal/infra/producer/balancer"
)

type IOrderEventProducer interface {
	ProduceOrderCreatedEvent(ctx context.Context, evt *event.OrderCreatedEvent) error
	Close() error
}

type OrderEventProducer struct {
	writer *kafka.Writer
}

func NewOrderEventProducer(brokers []string, topic string, numPartitions int) *OrderEventProducer {
	return &OrderEventProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     balancer.NewOrderBalancer(numPartitions),
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func (p *OrderEventProducer) ProduceOrderCreatedEvent(ctx context.Context, evt *event.OrderCreatedEvent) error {
	if evt.EventID == "" {
		evt.EventID = uuid.NewString()
	}
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = time.Now()
	}
	evt.AggregateID = evt.OrderID
	evt.EventType = evt.Type()

	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(evt.UserID),
		Value: value,
		Headers: []kafka.Header{
			{
				Key:   "event_type",
				Value: []byte(evt.Type()),
			},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *OrderEventProducer) Close() error {
	return p.writer.Close()
}
