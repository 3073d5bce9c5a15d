// Package consumer reads workout records from Kafka and feeds them into the analytics service.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/fitanalytics/internal/events"
	"example.com/fitanalytics/internal/logger"
)

// ErrRejected marks a message that can never be handled. Rejected messages are
// committed so they do not block the partition.
var ErrRejected = errors.New("message rejected")

// Reject wraps err so the processor treats the message as a poison pill.
func Reject(err error) error {
	return fmt.Errorf("%w: %w", ErrRejected, err)
}

// Reader exposes the minimal kafka.Reader interface needed by the processor.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler receives decoded messages from Kafka.
type Handler interface {
	Handle(context.Context, Message) error
}

// Message is the decoded representation of a Kafka record.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       string
	Timestamp time.Time
	EventType string
	Payload   json.RawMessage
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(l *logger.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// Processor pulls messages from Kafka, decodes them, and dispatches to a Handler.
type Processor struct {
	reader  Reader
	handler Handler
	logger  *logger.Logger
}

// NewProcessor constructs a Processor with the provided reader and handler.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:  reader,
		handler: handler,
		logger:  logger.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes messages until the context is cancelled.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			p.logger.Warn("fetch failed", "error", err)
			continue
		}

		event, decodeErr := decodeMessage(msg)
		if decodeErr != nil {
			p.logger.Warn("decode failed", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "error", decodeErr)
			recordDecodeError(msg.Topic)
			p.commit(ctx, msg)
			continue
		}

		if handleErr := p.handler.Handle(ctx, event); handleErr != nil {
			if errors.Is(handleErr, ErrRejected) {
				p.logger.Warn("message rejected", "event_type", event.EventType, "offset", event.Offset, "error", handleErr)
				recordRejected(event)
				p.commit(ctx, msg)
				continue
			}
			p.logger.Error("handler failed", "event_type", event.EventType, "offset", event.Offset, "error", handleErr)
			recordHandlerError(event)
			continue
		}

		if p.commit(ctx, msg) {
			recordProcessed(event)
		}
	}
}

// Close releases the underlying reader.
func (p *Processor) Close() error {
	return p.reader.Close()
}

func (p *Processor) commit(ctx context.Context, msg kafka.Message) bool {
	if err := p.reader.CommitMessages(ctx, msg); err != nil {
		p.logger.Warn("commit failed", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		return false
	}
	return true
}

func decodeMessage(msg kafka.Message) (Message, error) {
	eventType, ok := headerValue(msg, events.HeaderEventType)
	if !ok {
		return Message{}, errors.New("missing event_type header")
	}
	if !json.Valid(msg.Value) {
		return Message{}, fmt.Errorf("payload is not valid JSON (%d bytes)", len(msg.Value))
	}

	return Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       string(msg.Key),
		Timestamp: msg.Time,
		EventType: string(eventType),
		Payload:   json.RawMessage(append([]byte(nil), msg.Value...)),
	}, nil
}

func headerValue(msg kafka.Message, key string) ([]byte, bool) {
	for _, header := range msg.Headers {
		if header.Key == key {
			return header.Value, true
		}
	}
	return nil, false
}
