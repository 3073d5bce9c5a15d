package domain

import "time"

// Impact describes whether a pattern helps or hurts training.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// UserPattern is a statistically qualified relationship between a lifestyle factor and intensity.
type UserPattern struct {
	ID              string   `json:"id"`
	Description     string   `json:"description"`
	Confidence      float64  `json:"confidence"`
	Frequency       float64  `json:"frequency"`
	Impact          Impact   `json:"impact"`
	Recommendations []string `json:"recommendations"`
}

// ModelMeta is the bookkeeping record for one predictor.
type ModelMeta struct {
	Kind            PredictionKind `json:"kind"`
	Name            string         `json:"name"`
	Version         string         `json:"version"`
	Accuracy        float64        `json:"accuracy"`
	LastUpdated     time.Time      `json:"last_updated"`
	Features        []string       `json:"features"`
	PredictionCount int64          `json:"prediction_count"`
}

// AnalyticsSummary aggregates registry, pattern and record counters.
type AnalyticsSummary struct {
	TotalModels      int       `json:"total_models"`
	TotalPredictions int64     `json:"total_predictions"`
	AverageAccuracy  float64   `json:"average_accuracy"`
	PatternsFound    int       `json:"patterns_found"`
	DataPoints       int       `json:"data_points"`
	LastTraining     time.Time `json:"last_training"`
	IsTraining       bool      `json:"is_training"`
}
