// Package prediction turns record windows into rule-based predictions.
//
// Every predictor follows the same shape: guard on a minimum record count,
// aggregate features over its window, score against named thresholds and
// attach recommendations keyed by the same thresholds.
package prediction

import (
	"time"

	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/observability"
)

// Source supplies the record window for a predictor.
type Source interface {
	Windowed(days int, now time.Time) []domain.WorkoutRecord
}

// Counter receives one increment per computed prediction.
type Counter interface {
	Increment(kind domain.PredictionKind)
}

// Engine runs the five predictors against a Source.
type Engine struct {
	source  Source
	counter Counter
	now     func() time.Time
	loc     *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock used to cut windows.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the time zone used to bucket times of day.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// NewEngine constructs an Engine. counter may be nil.
func NewEngine(source Source, counter Counter, opts ...Option) *Engine {
	e := &Engine{
		source:  source,
		counter: counter,
		now:     time.Now,
		loc:     time.UTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) PredictPerformance() domain.Prediction {
	return e.record(Performance(e.window(PerformanceWindowDays)))
}

func (e *Engine) PredictInjuryRisk() domain.Prediction {
	return e.record(InjuryRisk(e.window(InjuryWindowDays)))
}

func (e *Engine) PredictOptimalTime() domain.Prediction {
	return e.record(OptimalTime(e.window(OptimalTimeWindowDays), e.loc))
}

// PredictNutrition sizes a plan for the planned session. It fails only on invalid input.
func (e *Engine) PredictNutrition(workoutType domain.ActivityType, intensity int) (domain.Prediction, error) {
	req := domain.NutritionRequest{WorkoutType: workoutType, Intensity: intensity}
	if err := req.Validate(); err != nil {
		return domain.Prediction{}, err
	}
	return e.record(Nutrition(e.window(NutritionWindowDays), req), true), nil
}

func (e *Engine) PredictRecovery() domain.Prediction {
	return e.record(Recovery(e.window(RecoveryWindowDays)))
}

func (e *Engine) window(days int) []domain.WorkoutRecord {
	return e.source.Windowed(days, e.now())
}

func (e *Engine) record(p domain.Prediction, computed bool) domain.Prediction {
	p.Confidence = domain.ClampUnit(p.Confidence)
	if !computed {
		observability.RecordPrediction(string(p.Kind), observability.OutcomeGuarded)
		return p
	}
	observability.RecordPrediction(string(p.Kind), observability.OutcomeComputed)
	if e.counter != nil {
		e.counter.Increment(p.Kind)
	}
	return p
}
