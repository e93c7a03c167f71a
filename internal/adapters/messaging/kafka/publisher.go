// Package kafka publishes committed ledger events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
}

var _ portssvc.LedgerEventPublisher = (*Publisher)(nil)

// NewPublisher writes to topic on brokers. Messages are keyed by tenant so one tenant's
// events keep their order within a partition.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, events ...domain.LedgerEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs, err := toMessages(events)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish %d ledger events: %w", len(msgs), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func toMessages(events []domain.LedgerEvent) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("failed to encode event %s: %w", event.EventID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.TenantID),
			Value: data,
			Time:  event.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event-type", Value: []byte(event.Type)},
			},
		})
	}
	return msgs, nil
}
