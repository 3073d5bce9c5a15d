// Package patterns finds lifestyle factors that move with training intensity.
package patterns

import (
	"fmt"
	"math"
	"time"

	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/features"
)

// WindowDays is the history span analysed for patterns.
const WindowDays = 60

const (
	TimePatternID      = "time_pattern"
	SleepPatternID     = "sleep_pattern"
	NutritionPatternID = "nutrition_pattern"

	timeShareThreshold    = 0.4
	sleepCorrelation      = 0.3
	nutritionCorrelation  = 0.2
	sleepFrequency        = 0.8
	nutritionFrequency    = 0.7
	minCorrelationSamples = 3
)

// Detector emits UserPatterns over a record window.
type Detector struct {
	loc *time.Location
}

// NewDetector builds a Detector that buckets times of day in loc (UTC when nil).
func NewDetector(loc *time.Location) *Detector {
	if loc == nil {
		loc = time.UTC
	}
	return &Detector{loc: loc}
}

// Analyze returns every qualifying pattern in time, sleep, nutrition order.
// The result is never nil.
func (d *Detector) Analyze(records []domain.WorkoutRecord) []domain.UserPattern {
	out := make([]domain.UserPattern, 0, 3)
	if p, ok := d.timePattern(records); ok {
		out = append(out, p)
	}
	if p, ok := sleepPattern(records); ok {
		out = append(out, p)
	}
	if p, ok := nutritionPattern(records); ok {
		out = append(out, p)
	}
	return out
}

func (d *Detector) timePattern(records []domain.WorkoutRecord) (domain.UserPattern, bool) {
	best, ok := features.TimeSlotFrequency(records, d.loc)
	if !ok || best.Share < timeShareThreshold {
		return domain.UserPattern{}, false
	}
	return domain.UserPattern{
		ID:          TimePatternID,
		Description: fmt.Sprintf("Prefers working out at %s", best.Slot.Label),
		Confidence:  domain.ClampUnit(best.Share),
		Frequency:   domain.ClampUnit(best.Share),
		Impact:      domain.ImpactPositive,
		Recommendations: []string{
			fmt.Sprintf("Schedule workouts during %s for optimal performance", best.Slot.Label),
		},
	}, true
}

func sleepPattern(records []domain.WorkoutRecord) (domain.UserPattern, bool) {
	if len(records) < minCorrelationSamples {
		return domain.UserPattern{}, false
	}
	sleep := make([]float64, len(records))
	intensity := make([]float64, len(records))
	for i, r := range records {
		sleep[i] = r.SleepHours
		intensity[i] = float64(r.Intensity)
	}

	r := Pearson(sleep, intensity)
	if math.Abs(r) < sleepCorrelation {
		return domain.UserPattern{}, false
	}

	p := domain.UserPattern{
		ID:         SleepPatternID,
		Confidence: domain.ClampUnit(math.Abs(r)),
		Frequency:  sleepFrequency,
	}
	if r > 0 {
		p.Description = "Better sleep leads to better performance"
		p.Impact = domain.ImpactPositive
		p.Recommendations = []string{"Prioritize 7-9 hours of sleep", "Maintain consistent sleep schedule"}
	} else {
		p.Description = "Poor sleep affects performance"
		p.Impact = domain.ImpactNegative
		p.Recommendations = []string{"Improve sleep quality", "Consider sleep tracking"}
	}
	return p, true
}

func nutritionPattern(records []domain.WorkoutRecord) (domain.UserPattern, bool) {
	var calories, intensity []float64
	for _, r := range records {
		if r.Nutrition.Calories <= 0 {
			continue
		}
		calories = append(calories, r.Nutrition.Calories)
		intensity = append(intensity, float64(r.Intensity))
	}
	if len(calories) < minCorrelationSamples {
		return domain.UserPattern{}, false
	}

	r := Pearson(calories, intensity)
	if math.Abs(r) < nutritionCorrelation {
		return domain.UserPattern{}, false
	}

	p := domain.UserPattern{
		ID:              NutritionPatternID,
		Confidence:      domain.ClampUnit(math.Abs(r)),
		Frequency:       nutritionFrequency,
		Recommendations: []string{"Maintain balanced nutrition", "Time meals around workouts", "Stay hydrated"},
	}
	if r > 0 {
		p.Description = "Better nutrition supports performance"
		p.Impact = domain.ImpactPositive
	} else {
		p.Description = "Nutrition affects workout quality"
		p.Impact = domain.ImpactNegative
	}
	return p, true
}
