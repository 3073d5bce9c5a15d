package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/models"
	"example.com/fitanalytics/internal/testsupport"
)

type stubWriter struct {
	topic string
	msgs  []kafka.Message
	err   error
}

func (w *stubWriter) WriteMessages(_ context.Context, topic string, msgs ...kafka.Message) error {
	w.topic = topic
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublisherPatternsDetected(t *testing.T) {
	writer := &stubWriter{}
	pub := NewPublisher(writer, "analytics_events")

	err := pub.PatternsDetected(context.Background(), []domain.UserPattern{{ID: "sleep_pattern", Confidence: 0.6, Impact: domain.ImpactPositive}})
	require.NoError(t, err)

	require.Equal(t, "analytics_events", writer.topic)
	require.Len(t, writer.msgs, 1)
	msg := writer.msgs[0]
	require.Equal(t, TypePatternsDetected, headerValue(msg, HeaderEventType))

	var evt PatternsDetected
	require.NoError(t, json.Unmarshal(msg.Value, &evt))
	require.Equal(t, string(msg.Key), evt.EventID)
	require.Len(t, evt.Patterns, 1)
	require.Equal(t, "sleep_pattern", evt.Patterns[0].ID)
}

func TestPublisherEmptyPatternsEncodeAsArray(t *testing.T) {
	writer := &stubWriter{}
	require.NoError(t, NewPublisher(writer, "t").PatternsDetected(context.Background(), nil))
	require.Contains(t, string(writer.msgs[0].Value), `"patterns":[]`)
}

func TestPublisherModelsTrained(t *testing.T) {
	writer := &stubWriter{}
	pub := NewPublisher(writer, "analytics_events")

	require.NoError(t, pub.ModelsTrained(context.Background(), models.DefaultModels(testsupport.Reference)))

	var evt ModelsTrained
	require.NoError(t, json.Unmarshal(writer.msgs[0].Value, &evt))
	require.Len(t, evt.Models, 5)
	require.Equal(t, TypeModelsTrained, headerValue(writer.msgs[0], HeaderEventType))
}

func TestPublisherWrapsWriterErrors(t *testing.T) {
	writer := &stubWriter{err: errors.New("leader not available")}
	err := NewPublisher(writer, "analytics_events").ModelsTrained(context.Background(), nil)
	require.ErrorContains(t, err, "publish analytics.models_trained")
}
