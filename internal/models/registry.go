// Package models keeps the bookkeeping record of each predictor and simulates retraining.
package models

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/logger"
	"example.com/fitanalytics/internal/observability"
)

// ErrTrainingTimedOut is returned when a retrain pass outlives its timeout.
// The pass is a no-op in that case.
var ErrTrainingTimedOut = errors.New("model training timed out")

const (
	DefaultTrainingDuration = 3 * time.Second
	DefaultTrainingTimeout  = 10 * time.Second

	maxTrainedAccuracy = 0.98
	maxAccuracyGain    = 0.05
	minBatchIncrement  = 10
	batchIncrementSpan = 50
	trainKey           = "train"
)

// DefaultModels is the initial catalogue, one model per prediction kind.
func DefaultModels(now time.Time) []domain.ModelMeta {
	metas := []domain.ModelMeta{
		{
			Kind: domain.KindPerformance, Name: "Performance Predictor", Version: "1.0.0", Accuracy: 0.87,
			Features: []string{"sleep", "nutrition", "previous_performance", "mood", "weather"},
		},
		{
			Kind: domain.KindInjuryRisk, Name: "Injury Risk Analyzer", Version: "1.0.0", Accuracy: 0.92,
			Features: []string{"workout_intensity", "recovery_time", "exercise_history", "fatigue_levels"},
		},
		{
			Kind: domain.KindOptimalTime, Name: "Optimal Time Predictor", Version: "1.0.0", Accuracy: 0.85,
			Features: []string{"circadian_rhythm", "energy_levels", "schedule_patterns", "performance_history"},
		},
		{
			Kind: domain.KindNutrition, Name: "Nutrition Optimizer", Version: "1.0.0", Accuracy: 0.89,
			Features: []string{"workout_type", "intensity", "body_composition", "goals", "preferences"},
		},
		{
			Kind: domain.KindRecovery, Name: "Recovery Predictor", Version: "1.0.0", Accuracy: 0.91,
			Features: []string{"workout_load", "sleep_quality", "stress_levels", "nutrition", "age"},
		},
	}
	for i := range metas {
		metas[i].LastUpdated = now
	}
	return metas
}

// Registry holds one ModelMeta per prediction kind.
type Registry struct {
	mu    sync.RWMutex
	metas []domain.ModelMeta

	training atomic.Bool
	group    singleflight.Group

	duration  time.Duration
	timeout   time.Duration
	now       func() time.Time
	random    func() float64
	onTrained func(context.Context, []domain.ModelMeta)
	logger    *logger.Logger
}

// Option configures a Registry.
type Option func(*Registry)

func WithTrainingDuration(d time.Duration) Option {
	return func(r *Registry) {
		if d >= 0 {
			r.duration = d
		}
	}
}

func WithTrainingTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRandSource makes retrain deltas deterministic.
func WithRandSource(src rand.Source) Option {
	return func(r *Registry) {
		if src != nil {
			r.random = rand.New(src).Float64
		}
	}
}

// WithOnTrained registers a callback invoked once per completed retrain pass.
// It runs after IsTraining reports false and must not block.
func WithOnTrained(fn func(context.Context, []domain.ModelMeta)) Option {
	return func(r *Registry) {
		r.onTrained = fn
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry seeds the default catalogue.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		duration: DefaultTrainingDuration,
		timeout:  DefaultTrainingTimeout,
		now:      time.Now,
		random:   rand.Float64,
		logger:   logger.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.metas = DefaultModels(r.now().UTC())
	return r
}

// Increment bumps the prediction counter of kind.
func (r *Registry) Increment(kind domain.PredictionKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.metas {
		if r.metas[i].Kind == kind {
			r.metas[i].PredictionCount++
			return
		}
	}
}

// Snapshot returns a copy of every ModelMeta.
func (r *Registry) Snapshot() []domain.ModelMeta {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneMetas(r.metas)
}

// Restore merges persisted metas onto the catalogue by name. Accuracy is clamped
// and counters are never lowered; unknown names are ignored.
func (r *Registry) Restore(persisted []domain.ModelMeta) {
	byName := make(map[string]domain.ModelMeta, len(persisted))
	for _, m := range persisted {
		byName[m.Name] = m
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := cloneMetas(r.metas)
	for i := range next {
		m, ok := byName[next[i].Name]
		if !ok {
			continue
		}
		next[i].Accuracy = domain.ClampUnit(m.Accuracy)
		if m.Version != "" {
			next[i].Version = m.Version
		}
		if !m.LastUpdated.IsZero() {
			next[i].LastUpdated = m.LastUpdated.UTC()
		}
		if m.PredictionCount > next[i].PredictionCount {
			next[i].PredictionCount = m.PredictionCount
		}
	}
	r.metas = next
}

// Reset reseeds the default catalogue, dropping trained values and counters.
func (r *Registry) Reset() {
	fresh := DefaultModels(r.now().UTC())
	r.mu.Lock()
	r.metas = fresh
	r.mu.Unlock()
}

// IsTraining reports whether a retrain pass is in flight.
func (r *Registry) IsTraining() bool {
	return r.training.Load()
}

// Train runs one simulated retrain pass. Calls made while a pass is in flight
// join it and receive its outcome instead of starting another. The pass itself
// is detached from ctx: cancelling ctx only stops this caller from waiting.
func (r *Registry) Train(ctx context.Context) error {
	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan(trainKey, func() (any, error) {
		return nil, r.train(detached)
	})

	select {
	case res := <-ch:
		if res.Shared {
			r.logger.Debug("joined in-flight training pass")
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) train(ctx context.Context) error {
	r.training.Store(true)
	start := time.Now()
	deadline, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	timer := time.NewTimer(r.duration)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-deadline.Done():
		r.training.Store(false)
		observability.RecordTraining(observability.OutcomeTimedOut, time.Since(start))
		r.logger.Warn("model training timed out, keeping previous values", "timeout", r.timeout.String())
		return ErrTrainingTimedOut
	}

	r.mu.Lock()
	next := cloneMetas(r.metas)
	trainedAt := r.now().UTC()
	for i := range next {
		next[i].Accuracy = math.Min(next[i].Accuracy+r.random()*maxAccuracyGain, maxTrainedAccuracy)
		next[i].LastUpdated = trainedAt
		next[i].PredictionCount += int64(minBatchIncrement + int(r.random()*batchIncrementSpan))
	}
	r.metas = next
	snapshot := cloneMetas(next)
	r.mu.Unlock()
	r.training.Store(false)

	observability.RecordTraining(observability.OutcomeSuccess, time.Since(start))
	r.logger.Info("model training completed", "models", len(snapshot), "elapsed", time.Since(start).String())

	if r.onTrained != nil {
		r.onTrained(ctx, snapshot)
	}
	return nil
}

// Summary aggregates the catalogue with the given pattern and record counts.
func (r *Registry) Summary(patternsFound, dataPoints int) domain.AnalyticsSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := domain.AnalyticsSummary{
		TotalModels:   len(r.metas),
		PatternsFound: patternsFound,
		DataPoints:    dataPoints,
		IsTraining:    r.training.Load(),
	}
	var accuracy float64
	for _, m := range r.metas {
		summary.TotalPredictions += m.PredictionCount
		accuracy += m.Accuracy
		if m.LastUpdated.After(summary.LastTraining) {
			summary.LastTraining = m.LastUpdated
		}
	}
	if len(r.metas) > 0 {
		summary.AverageAccuracy = math.Round(accuracy/float64(len(r.metas))*100) / 100
	}
	return summary
}

func cloneMetas(in []domain.ModelMeta) []domain.ModelMeta {
	out := make([]domain.ModelMeta, len(in))
	for i, m := range in {
		out[i] = m
		out[i].Features = append([]string(nil), m.Features...)
	}
	return out
}
