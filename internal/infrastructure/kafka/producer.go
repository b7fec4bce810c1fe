package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/ec-orders/internal/domain/order"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderContentType = "content-type"
	HeaderEventType   = "event-type"
	HeaderEventID     = "event-id"
)

// ProducerConfig configures the order event writer. Zero durations take defaults.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

// Producer writes order lifecycle envelopes keyed by order id.
type Producer struct {
	writer *kafka.Writer
	now    func() time.Time
}

func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: cfg.BatchTimeout,
			WriteTimeout: cfg.WriteTimeout,
			RequiredAcks: kafka.RequireOne,
		},
		now: time.Now,
	}
}

// Publish satisfies command.Publisher.
func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	msg, err := encodeMessage(key, event, p.now())
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", p.writer.Topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// encodeMessage JSON-encodes event under key. Envelopes also carry their
// type and id as headers and are stamped with their occurrence time.
func encodeMessage(key string, event any, now time.Time) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   data,
		Time:    now,
		Headers: []kafka.Header{{Key: HeaderContentType, Value: []byte("application/json")}},
	}
	if e, ok := event.(order.Event); ok {
		msg.Headers = append(msg.Headers,
			kafka.Header{Key: HeaderEventType, Value: []byte(e.Type)},
			kafka.Header{Key: HeaderEventID, Value: []byte(e.ID)},
		)
		if !e.OccurredAt.IsZero() {
			msg.Time = e.OccurredAt
		}
	}
	return msg, nil
}

// header returns the first value stored under key
func header(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
