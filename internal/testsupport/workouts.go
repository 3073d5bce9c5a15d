// Package testsupport provides workout fixtures shared by package tests.
package testsupport

import (
	"fmt"
	"time"

	"example.com/fitanalytics/internal/domain"
)

// Reference is the fixed clock used by fixtures: 2025-10-27 20:00 UTC.
var Reference = time.Date(2025, time.October, 27, 20, 0, 0, 0, time.UTC)

// Option mutates a fixture record.
type Option func(*domain.WorkoutRecord)

// Workout returns a valid record stamped at ts with moderate defaults.
func Workout(id string, ts time.Time, opts ...Option) domain.WorkoutRecord {
	rec := domain.WorkoutRecord{
		ID:              id,
		Timestamp:       ts,
		ActivityType:    domain.ActivityStrength,
		DurationMinutes: 45,
		Intensity:       6,
		Calories:        350,
		HeartRate:       domain.HeartRate{Average: 135, Max: 165, Min: 90},
		Exercises: []domain.Exercise{
			{Name: "Back Squat", Sets: 4, Reps: 6, Weight: 100, RestSeconds: 120, PerceivedExertion: 7},
		},
		Mood:       7,
		Energy:     7,
		SleepHours: 7,
		Nutrition: domain.Nutrition{
			Calories:        2200,
			Protein:         140,
			Carbs:           250,
			Fats:            70,
			HydrationLiters: 2.5,
		},
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// Series builds n records spaced one day apart ending at end, with ids prefix-0..prefix-(n-1).
func Series(prefix string, n int, end time.Time, opts ...Option) []domain.WorkoutRecord {
	out := make([]domain.WorkoutRecord, 0, n)
	for i := 0; i < n; i++ {
		ts := end.Add(-time.Duration(n-1-i) * 24 * time.Hour)
		out = append(out, Workout(fmt.Sprintf("%s-%d", prefix, i), ts, opts...))
	}
	return out
}

func WithType(t domain.ActivityType) Option {
	return func(r *domain.WorkoutRecord) { r.ActivityType = t }
}

func WithIntensity(v int) Option {
	return func(r *domain.WorkoutRecord) { r.Intensity = v }
}

func WithDuration(minutes int) Option {
	return func(r *domain.WorkoutRecord) { r.DurationMinutes = minutes }
}

func WithSleep(hours float64) Option {
	return func(r *domain.WorkoutRecord) { r.SleepHours = hours }
}

func WithMood(v int) Option {
	return func(r *domain.WorkoutRecord) { r.Mood = v }
}

func WithNutritionCalories(kcal float64) Option {
	return func(r *domain.WorkoutRecord) { r.Nutrition.Calories = kcal }
}

// WithMacros sets protein, carbs and fats in grams.
func WithMacros(protein, carbs, fats float64) Option {
	return func(r *domain.WorkoutRecord) {
		r.Nutrition.Protein = protein
		r.Nutrition.Carbs = carbs
		r.Nutrition.Fats = fats
	}
}

// AtHour moves the record to the given hour of its day, in UTC.
func AtHour(hour int) Option {
	return func(r *domain.WorkoutRecord) {
		y, m, d := r.Timestamp.UTC().Date()
		r.Timestamp = time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
	}
}
