// Package events defines the analytics event payloads and delivers them to Kafka.
package events

import (
	"time"

	"example.com/fitanalytics/internal/domain"
)

// Event type header values.
const (
	TypeWorkoutRecorded  = "workout.recorded"
	TypePatternsDetected = "analytics.patterns_detected"
	TypeModelsTrained    = "analytics.models_trained"
)

// HeaderEventType carries the event type on every Kafka message.
const HeaderEventType = "event_type"

// PatternsDetected is emitted after each pattern analysis.
type PatternsDetected struct {
	EventID    string               `json:"event_id"`
	OccurredAt time.Time            `json:"occurred_at"`
	Patterns   []domain.UserPattern `json:"patterns"`
}

// ModelsTrained is emitted after each completed retrain pass.
type ModelsTrained struct {
	EventID    string             `json:"event_id"`
	OccurredAt time.Time          `json:"occurred_at"`
	Models     []domain.ModelMeta `json:"models"`
}
