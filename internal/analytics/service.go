// Package analytics is the service boundary of the fitness analytics core.
// It owns the record store, model registry and last pattern result, and keeps
// the persisted document in sync through a background Flusher.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/logger"
	"example.com/fitanalytics/internal/models"
	"example.com/fitanalytics/internal/observability"
	"example.com/fitanalytics/internal/patterns"
	"example.com/fitanalytics/internal/persistence"
	"example.com/fitanalytics/internal/prediction"
	"example.com/fitanalytics/internal/records"
)

// DefaultStateKey is the namespaced key the document is stored under.
const DefaultStateKey = "fitanalytics:state"

// Config tunes the service.
type Config struct {
	StateKey string
	// PatternRefreshEvery re-runs pattern analysis whenever the record count
	// reaches a multiple of it. Zero disables the refresh.
	PatternRefreshEvery int
	TrainingDuration    time.Duration
	TrainingTimeout     time.Duration
	FlushTimeout        time.Duration
	// PublishTimeout bounds each event delivery. Deliveries run in the
	// background and never hold up training or ingestion.
	PublishTimeout time.Duration
	Location       *time.Location
}

// DefaultConfig mirrors the stock behaviour.
func DefaultConfig() Config {
	return Config{
		StateKey:            DefaultStateKey,
		PatternRefreshEvery: 5,
		TrainingDuration:    models.DefaultTrainingDuration,
		TrainingTimeout:     models.DefaultTrainingTimeout,
		FlushTimeout:        5 * time.Second,
		PublishTimeout:      5 * time.Second,
		Location:            time.UTC,
	}
}

// Publisher announces analytics results to other systems.
type Publisher interface {
	PatternsDetected(ctx context.Context, patterns []domain.UserPattern) error
	ModelsTrained(ctx context.Context, metas []domain.ModelMeta) error
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

func (NoopPublisher) PatternsDetected(context.Context, []domain.UserPattern) error { return nil }
func (NoopPublisher) ModelsTrained(context.Context, []domain.ModelMeta) error      { return nil }

// Service implements the analytics operations over a single workout history.
type Service struct {
	cfg       Config
	records   *records.Store
	registry  *models.Registry
	engine    *prediction.Engine
	detector  *patterns.Detector
	kv        persistence.Store
	flusher   *Flusher
	publisher Publisher
	logger    *logger.Logger
	now       func() time.Time

	regOpts []models.Option

	running  atomic.Bool
	inFlight sync.WaitGroup

	mu       sync.RWMutex
	patterns []domain.UserPattern
}

// Option configures a Service.
type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRegistryOptions forwards extra options to the model registry.
func WithRegistryOptions(opts ...models.Option) Option {
	return func(s *Service) {
		s.regOpts = append(s.regOpts, opts...)
	}
}

// NewService wires the core components over kv.
func NewService(kv persistence.Store, cfg Config, opts ...Option) *Service {
	if cfg.StateKey == "" {
		cfg.StateKey = DefaultStateKey
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultConfig().PublishTimeout
	}

	s := &Service{
		cfg:       cfg,
		records:   records.NewStore(),
		kv:        kv,
		publisher: NoopPublisher{},
		logger:    logger.NewNop(),
		now:       time.Now,
		patterns:  []domain.UserPattern{},
	}
	for _, opt := range opts {
		opt(s)
	}

	regOpts := []models.Option{
		models.WithTrainingDuration(cfg.TrainingDuration),
		models.WithTrainingTimeout(cfg.TrainingTimeout),
		models.WithClock(s.now),
		models.WithLogger(s.logger.With("component", "registry")),
		models.WithOnTrained(s.modelsTrained),
	}
	s.registry = models.NewRegistry(append(regOpts, s.regOpts...)...)
	s.engine = prediction.NewEngine(s.records, s.registry,
		prediction.WithClock(s.now),
		prediction.WithLocation(cfg.Location),
	)
	s.detector = patterns.NewDetector(cfg.Location)
	s.flusher = NewFlusher(kv, cfg.StateKey, s.encodeState, cfg.FlushTimeout, s.logger)
	return s
}

// Run drives background persistence until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.running.Store(true)
	s.flusher.Start(ctx)
	return nil
}

// Close waits for the background flusher, if Run was started, and for pending
// event deliveries, then writes the current state synchronously. Waiting stops
// early when ctx is done.
func (s *Service) Close(ctx context.Context) error {
	if s.running.Load() {
		waitDone(ctx, s.flusher.Wait)
	}
	waitDone(ctx, s.inFlight.Wait)
	return s.Save(ctx)
}

func waitDone(ctx context.Context, wait func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		wait()
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// publish delivers an event in the background under PublishTimeout. Failures
// are logged only.
func (s *Service) publish(ctx context.Context, event string, send func(context.Context) error) {
	s.inFlight.Add(1)
	go func() {
		defer s.inFlight.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.PublishTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			s.logger.Warn("publish event failed", "event", event, "error", err)
		}
	}()
}

// AddWorkoutData validates and stores rec. Persistence happens in the background.
func (s *Service) AddWorkoutData(ctx context.Context, rec domain.WorkoutRecord) (domain.WorkoutRecord, error) {
	stored, held, err := s.records.Append(rec, s.now())
	if err != nil {
		return domain.WorkoutRecord{}, err
	}

	observability.RecordRecordsHeld(held)
	observability.RecordAppended(stored.Timestamp)
	s.flusher.Request()

	if every := s.cfg.PatternRefreshEvery; every > 0 && held%every == 0 {
		s.AnalyzeUserPatterns(ctx)
	}
	return stored, nil
}

// GetWorkoutHistory returns records from the last days days in insertion order.
func (s *Service) GetWorkoutHistory(days int) []domain.WorkoutRecord {
	return s.records.Windowed(days, s.now())
}

func (s *Service) PredictPerformance() domain.Prediction {
	defer s.flusher.Request()
	return s.engine.PredictPerformance()
}

func (s *Service) PredictInjuryRisk() domain.Prediction {
	defer s.flusher.Request()
	return s.engine.PredictInjuryRisk()
}

func (s *Service) PredictOptimalTime() domain.Prediction {
	defer s.flusher.Request()
	return s.engine.PredictOptimalTime()
}

func (s *Service) PredictNutrition(workoutType domain.ActivityType, intensity int) (domain.Prediction, error) {
	p, err := s.engine.PredictNutrition(workoutType, intensity)
	if err != nil {
		return domain.Prediction{}, err
	}
	s.flusher.Request()
	return p, nil
}

func (s *Service) PredictRecovery() domain.Prediction {
	defer s.flusher.Request()
	return s.engine.PredictRecovery()
}

// Predict dispatches to the predictor for kind. Nutrition needs its own inputs
// and is rejected here.
func (s *Service) Predict(kind domain.PredictionKind) (domain.Prediction, error) {
	switch kind {
	case domain.KindPerformance:
		return s.PredictPerformance(), nil
	case domain.KindInjuryRisk:
		return s.PredictInjuryRisk(), nil
	case domain.KindOptimalTime:
		return s.PredictOptimalTime(), nil
	case domain.KindRecovery:
		return s.PredictRecovery(), nil
	default:
		return domain.Prediction{}, &domain.ValidationError{Field: "kind", Reason: fmt.Sprintf("unsupported prediction kind %q", kind)}
	}
}

// AnalyzeUserPatterns replaces the held pattern set with a fresh analysis of
// the last 60 days and announces it in the background.
func (s *Service) AnalyzeUserPatterns(ctx context.Context) []domain.UserPattern {
	found := s.detector.Analyze(s.records.Windowed(patterns.WindowDays, s.now()))

	s.mu.Lock()
	s.patterns = found
	s.mu.Unlock()

	observability.RecordPatterns(len(found))
	s.flusher.Request()

	announced := clonePatterns(found)
	s.publish(ctx, "patterns_detected", func(ctx context.Context) error {
		return s.publisher.PatternsDetected(ctx, announced)
	})
	return clonePatterns(found)
}

// Patterns returns the result of the last analysis.
func (s *Service) Patterns() []domain.UserPattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePatterns(s.patterns)
}

// TrainModels runs or joins a simulated retrain pass.
func (s *Service) TrainModels(ctx context.Context) error {
	return s.registry.Train(ctx)
}

func (s *Service) modelsTrained(ctx context.Context, metas []domain.ModelMeta) {
	s.flusher.Request()
	s.publish(ctx, "models_trained", func(ctx context.Context) error {
		return s.publisher.ModelsTrained(ctx, metas)
	})
}

// Models returns the registry catalogue.
func (s *Service) Models() []domain.ModelMeta {
	return s.registry.Snapshot()
}

func (s *Service) GetAnalyticsSummary() domain.AnalyticsSummary {
	s.mu.RLock()
	found := len(s.patterns)
	s.mu.RUnlock()
	return s.registry.Summary(found, s.records.Len())
}

// Prune drops records older than maxAgeDays. It is never called automatically.
func (s *Service) Prune(ctx context.Context, maxAgeDays int) int {
	removed := s.records.Prune(maxAgeDays, s.now())
	if removed > 0 {
		observability.RecordRecordsHeld(s.records.Len())
		s.flusher.Request()
		s.logger.Info("pruned workout records", "removed", removed, "max_age_days", maxAgeDays)
	}
	return removed
}

// Clear removes every record and the patterns derived from them.
func (s *Service) Clear(ctx context.Context) {
	s.records.Clear()
	s.mu.Lock()
	s.patterns = []domain.UserPattern{}
	s.mu.Unlock()

	observability.RecordRecordsHeld(0)
	observability.RecordPatterns(0)
	s.flusher.Request()
}

// Load replaces in-memory state with the persisted document. A missing
// document leaves the state empty; a corrupt one is discarded with a warning
// and records, models and patterns all return to their initial values.
// Only store failures are returned.
func (s *Service) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, s.cfg.StateKey)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load analytics state: %w", err)
	}

	doc, err := DecodeDocument(raw)
	if err != nil {
		s.logger.Warn("discarding persisted analytics state", "key", s.cfg.StateKey, "error", err)
		s.records.Clear()
		s.registry.Reset()
		s.mu.Lock()
		s.patterns = []domain.UserPattern{}
		s.mu.Unlock()
		observability.RecordRecordsHeld(0)
		observability.RecordPatterns(0)
		return nil
	}

	if dropped := s.records.Replace(doc.Records); dropped > 0 {
		s.logger.Warn("dropped duplicate workout records on load", "dropped", dropped)
	}
	s.registry.Restore(doc.Models)

	loaded := doc.Patterns
	if loaded == nil {
		loaded = []domain.UserPattern{}
	}
	s.mu.Lock()
	s.patterns = loaded
	s.mu.Unlock()

	observability.RecordRecordsHeld(s.records.Len())
	observability.RecordPatterns(len(loaded))
	s.logger.Info("analytics state loaded", "records", s.records.Len(), "patterns", len(loaded))
	return nil
}

// Save writes the current state synchronously.
func (s *Service) Save(ctx context.Context) error {
	if err := s.flusher.Flush(ctx); err != nil {
		return fmt.Errorf("save analytics state: %w", err)
	}
	return nil
}

func (s *Service) encodeState() ([]byte, error) {
	return EncodeDocument(Document{
		Records:  s.records.All(),
		Models:   s.registry.Snapshot(),
		Patterns: s.Patterns(),
	})
}

func clonePatterns(in []domain.UserPattern) []domain.UserPattern {
	out := make([]domain.UserPattern, len(in))
	for i, p := range in {
		out[i] = p
		out[i].Recommendations = append([]string(nil), p.Recommendations...)
	}
	return out
}
