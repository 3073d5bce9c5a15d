package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	recordsHeldGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitanalytics",
		Subsystem: "records",
		Name:      "held",
		Help:      "Number of workout records currently held in memory.",
	})

	lastRecordGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitanalytics",
		Subsystem: "records",
		Name:      "last_record_timestamp_seconds",
		Help:      "Unix timestamp of the most recently appended workout record.",
	})

	predictionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitanalytics",
		Subsystem: "predictions",
		Name:      "served_total",
		Help:      "Predictions served, labeled by kind and whether the minimum-data guard fired.",
	}, []string{"kind", "outcome"})

	patternsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitanalytics",
		Subsystem: "patterns",
		Name:      "detected",
		Help:      "Number of patterns returned by the most recent analysis.",
	})

	trainingCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitanalytics",
		Subsystem: "training",
		Name:      "runs_total",
		Help:      "Simulated retrain passes by outcome.",
	}, []string{"outcome"})

	trainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fitanalytics",
		Subsystem: "training",
		Name:      "duration_seconds",
		Help:      "Wall time of simulated retrain passes.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	flushCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitanalytics",
		Subsystem: "persistence",
		Name:      "flushes_total",
		Help:      "State flushes to the key-value store by outcome.",
	}, []string{"outcome"})

	lastFlushGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitanalytics",
		Subsystem: "persistence",
		Name:      "last_flush_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful state flush.",
	})
)

// Prediction outcomes.
const (
	OutcomeComputed = "computed"
	OutcomeGuarded  = "guarded"
)

// Training and flush outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeTimedOut = "timeout"
)

func init() {
	prometheus.MustRegister(
		recordsHeldGauge,
		lastRecordGauge,
		predictionCounter,
		patternsGauge,
		trainingCounter,
		trainingDuration,
		flushCounter,
		lastFlushGauge,
	)
}

// RecordRecordsHeld sets the in-memory record count.
func RecordRecordsHeld(n int) {
	recordsHeldGauge.Set(float64(n))
}

// RecordAppended updates the append watermark.
func RecordAppended(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastRecordGauge.Set(float64(ts.Unix()))
}

func RecordPrediction(kind, outcome string) {
	predictionCounter.WithLabelValues(kind, outcome).Inc()
}

func RecordPatterns(n int) {
	patternsGauge.Set(float64(n))
}

// RecordTraining counts a retrain pass and observes its duration.
func RecordTraining(outcome string, elapsed time.Duration) {
	trainingCounter.WithLabelValues(outcome).Inc()
	trainingDuration.Observe(elapsed.Seconds())
}

// RecordFlush counts a flush; successful flushes also move the watermark.
func RecordFlush(outcome string, ts time.Time) {
	flushCounter.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess && !ts.IsZero() {
		lastFlushGauge.Set(float64(ts.Unix()))
	}
}

// PredictionCounter exposes the collector for tests.
func PredictionCounter(kind, outcome string) prometheus.Counter {
	return predictionCounter.WithLabelValues(kind, outcome)
}

// FlushCounter exposes the collector for tests.
func FlushCounter(outcome string) prometheus.Counter {
	return flushCounter.WithLabelValues(outcome)
}
