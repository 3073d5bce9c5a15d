package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"example.com/fitanalytics/internal/domain"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Publisher sends analytics events to a single topic.
type Publisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewPublisher constructs a Publisher writing to topic.
func NewPublisher(writer messageWriter, topic string) *Publisher {
	return &Publisher{writer: writer, topic: topic, now: time.Now}
}

func (p *Publisher) PatternsDetected(ctx context.Context, patterns []domain.UserPattern) error {
	if patterns == nil {
		patterns = []domain.UserPattern{}
	}
	evt := PatternsDetected{
		EventID:    uuid.NewString(),
		OccurredAt: p.now().UTC(),
		Patterns:   patterns,
	}
	return p.publish(ctx, TypePatternsDetected, evt.EventID, evt)
}

func (p *Publisher) ModelsTrained(ctx context.Context, metas []domain.ModelMeta) error {
	evt := ModelsTrained{
		EventID:    uuid.NewString(),
		OccurredAt: p.now().UTC(),
		Models:     metas,
	}
	return p.publish(ctx, TypeModelsTrained, evt.EventID, evt)
}

func (p *Publisher) publish(ctx context.Context, eventType, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", eventType, err)
	}
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Time:    p.now().UTC(),
		Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte(eventType)}},
	}
	if err := p.writer.WriteMessages(ctx, p.topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}
