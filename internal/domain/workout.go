// Package domain defines the records, predictions and patterns shared by the analytics core.
package domain

import "time"

// ActivityType classifies a workout session.
type ActivityType string

const (
	ActivityStrength    ActivityType = "strength"
	ActivityCardio      ActivityType = "cardio"
	ActivityFlexibility ActivityType = "flexibility"
	ActivitySports      ActivityType = "sports"
)

// ParseActivityType reports whether value names a known activity type.
func ParseActivityType(value string) (ActivityType, bool) {
	switch t := ActivityType(value); t {
	case ActivityStrength, ActivityCardio, ActivityFlexibility, ActivitySports:
		return t, true
	}
	return "", false
}

// WorkoutRecord is one logged training session with the lifestyle signals captured around it.
// Records are immutable once stored.
type WorkoutRecord struct {
	ID              string       `json:"id"`
	Timestamp       time.Time    `json:"timestamp"`
	ActivityType    ActivityType `json:"activity_type" validate:"oneof=strength cardio flexibility sports"`
	DurationMinutes int          `json:"duration_minutes" validate:"gt=0"`
	Intensity       int          `json:"intensity" validate:"min=1,max=10"`
	Calories        float64      `json:"calories" validate:"gte=0"`
	HeartRate       HeartRate    `json:"heart_rate"`
	Exercises       []Exercise   `json:"exercises" validate:"dive"`
	Mood            int          `json:"mood" validate:"min=1,max=10"`
	Energy          int          `json:"energy" validate:"min=1,max=10"`
	SleepHours      float64      `json:"sleep_hours" validate:"gte=0"`
	Nutrition       Nutrition    `json:"nutrition"`
	Weather         *Weather     `json:"weather,omitempty"`
}

// HeartRate summarises the session heart rate in beats per minute.
type HeartRate struct {
	Average int `json:"average" validate:"gte=0"`
	Max     int `json:"max" validate:"gte=0"`
	Min     int `json:"min" validate:"gte=0"`
}

// Exercise is a single movement performed during a session.
type Exercise struct {
	Name              string  `json:"name"`
	Sets              int     `json:"sets" validate:"gte=0"`
	Reps              int     `json:"reps" validate:"gte=0"`
	Weight            float64 `json:"weight" validate:"gte=0"`
	RestSeconds       int     `json:"rest_seconds" validate:"gte=0"`
	PerceivedExertion int     `json:"perceived_exertion" validate:"gte=0,lte=10"`
}

// Nutrition captures the day's intake logged alongside the session.
type Nutrition struct {
	Calories        float64  `json:"calories" validate:"gte=0"`
	Protein         float64  `json:"protein" validate:"gte=0"`
	Carbs           float64  `json:"carbs" validate:"gte=0"`
	Fats            float64  `json:"fats" validate:"gte=0"`
	HydrationLiters float64  `json:"hydration_liters" validate:"gte=0"`
	Supplements     []string `json:"supplements,omitempty"`
}

// Weather describes outdoor conditions during the session.
type Weather struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity" validate:"gte=0,lte=100"`
	Conditions  string  `json:"conditions"`
}

// Clone returns a deep copy so callers cannot mutate stored slices.
func (r WorkoutRecord) Clone() WorkoutRecord {
	out := r
	if r.Exercises != nil {
		out.Exercises = append([]Exercise(nil), r.Exercises...)
	}
	if r.Nutrition.Supplements != nil {
		out.Nutrition.Supplements = append([]string(nil), r.Nutrition.Supplements...)
	}
	if r.Weather != nil {
		w := *r.Weather
		out.Weather = &w
	}
	return out
}
