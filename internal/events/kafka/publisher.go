package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes transaction events to a topic, keyed by transaction id so
// every event of one transaction lands on the same partition.
type Publisher struct {
	w messageWriter
}

// DefaultBatchTimeout is used when NewPublisher gets a zero batchTimeout.
const DefaultBatchTimeout = 10 * time.Millisecond

// NewPublisher builds a Publisher for topic. Publish blocks until the batch
// holding the event is flushed, so batchTimeout bounds the latency it adds
// to a mutation. kafka-go defaults to one second.
func NewPublisher(brokers []string, topic string, batchTimeout time.Duration) *Publisher {
	if batchTimeout <= 0 {
		batchTimeout = DefaultBatchTimeout
	}

	return &Publisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           batchTimeout,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, event transaction.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Transaction.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}

	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
