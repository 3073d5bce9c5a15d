//go:build integration

package consumer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkaContainer "github.com/testcontainers/testcontainers-go/modules/kafka"

	"example.com/fitanalytics/internal/analytics"
	"example.com/fitanalytics/internal/events"
	"example.com/fitanalytics/internal/persistence"
	"example.com/fitanalytics/internal/testsupport"
)

func TestKafkaWorkoutsFeedAnalytics(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	kafkaC, err := kafkaContainer.RunContainer(ctx, testcontainers.WithEnv(map[string]string{
		"KAFKA_AUTO_CREATE_TOPICS_ENABLE": "true",
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kafkaC.Terminate(context.Background()) })

	brokers, err := kafkaC.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	broker := brokers[0]

	const ingestTopic, eventsTopic = "workout_records", "analytics_events"

	conn, err := kafka.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.CreateTopics(
		kafka.TopicConfig{Topic: ingestTopic, NumPartitions: 1, ReplicationFactor: 1},
		kafka.TopicConfig{Topic: eventsTopic, NumPartitions: 1, ReplicationFactor: 1},
	))

	producer := events.NewKafkaProducer([]string{broker})
	defer producer.Close()

	cfg := analytics.DefaultConfig()
	cfg.TrainingDuration = 0
	service := analytics.NewService(persistence.NewMemoryStore(), cfg,
		analytics.WithPublisher(events.NewPublisher(producer, eventsTopic)),
	)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		GroupID:     "fitanalytics-integration",
		Topic:       ingestTopic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	consumerCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = service.Run(consumerCtx) }()
	go func() { _ = NewProcessor(reader, NewWorkoutHandler(service, nil)).Run(consumerCtx) }()

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  ingestTopic,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	defer writer.Close()

	series := testsupport.Series("kafka", 5, time.Now().UTC().Add(-time.Hour))
	msgs := make([]kafka.Message, 0, len(series)+1)
	for _, rec := range series {
		payload, err := json.Marshal(rec)
		require.NoError(t, err)
		msgs = append(msgs, kafka.Message{
			Key:     []byte(rec.ID),
			Value:   payload,
			Headers: []kafka.Header{{Key: events.HeaderEventType, Value: []byte(events.TypeWorkoutRecorded)}},
		})
	}
	msgs = append(msgs, kafka.Message{
		Key:     []byte("broken"),
		Value:   []byte(`{"id":"broken","intensity":42}`),
		Headers: []kafka.Header{{Key: events.HeaderEventType, Value: []byte(events.TypeWorkoutRecorded)}},
	})
	require.NoError(t, writer.WriteMessages(ctx, msgs...))

	require.Eventually(t, func() bool {
		return len(service.GetWorkoutHistory(30)) == len(series)
	}, 60*time.Second, 500*time.Millisecond)

	eventsReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       eventsTopic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer eventsReader.Close()

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := eventsReader.ReadMessage(readCtx)
	require.NoError(t, err)
	eventType, ok := headerValue(msg, events.HeaderEventType)
	require.True(t, ok)
	require.Equal(t, events.TypePatternsDetected, string(eventType))

	var evt events.PatternsDetected
	require.NoError(t, json.Unmarshal(msg.Value, &evt))
	require.NotEmpty(t, evt.EventID)
}
