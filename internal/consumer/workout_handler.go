package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/events"
	"example.com/fitanalytics/internal/logger"
)

// Ingester is the subset of the analytics service the handler needs.
type Ingester interface {
	AddWorkoutData(ctx context.Context, rec domain.WorkoutRecord) (domain.WorkoutRecord, error)
}

// WorkoutHandler appends workout.recorded events to the analytics history.
type WorkoutHandler struct {
	ingester Ingester
	logger   *logger.Logger
}

// NewWorkoutHandler builds a WorkoutHandler.
func NewWorkoutHandler(ingester Ingester, log *logger.Logger) *WorkoutHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &WorkoutHandler{ingester: ingester, logger: log}
}

// Handle decodes the payload and appends it. Other event types are skipped.
// Redelivered records are acknowledged without being applied twice.
func (h *WorkoutHandler) Handle(ctx context.Context, msg Message) error {
	if msg.EventType != events.TypeWorkoutRecorded {
		h.logger.Debug("skipping event", "event_type", msg.EventType, "offset", msg.Offset)
		return nil
	}

	var rec domain.WorkoutRecord
	if err := json.Unmarshal(msg.Payload, &rec); err != nil {
		return Reject(fmt.Errorf("decode workout: %w", err))
	}
	if rec.ID == "" && msg.Key != "" {
		rec.ID = msg.Key
	}

	stored, err := h.ingester.AddWorkoutData(ctx, rec)
	switch {
	case err == nil:
		h.logger.Debug("workout ingested", "id", stored.ID, "offset", msg.Offset)
		return nil
	case errors.Is(err, domain.ErrDuplicateRecord):
		h.logger.Info("duplicate workout ignored", "id", rec.ID, "offset", msg.Offset)
		return nil
	case domain.IsValidationError(err):
		return Reject(err)
	default:
		return err
	}
}
