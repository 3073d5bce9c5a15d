// Package features derives scalar features from a window of workout records.
// Every function is pure; an empty window yields zero values and callers apply
// their own minimum-data guards before trusting the result.
package features

import (
	"sort"

	"example.com/fitanalytics/internal/domain"
)

// AverageIntensity is the mean session intensity.
func AverageIntensity(records []domain.WorkoutRecord) float64 {
	return mean(records, func(r domain.WorkoutRecord) float64 { return float64(r.Intensity) })
}

// AverageSleep is the mean sleep hours logged before each session.
func AverageSleep(records []domain.WorkoutRecord) float64 {
	return mean(records, func(r domain.WorkoutRecord) float64 { return r.SleepHours })
}

// AverageMood is the mean self-reported mood.
func AverageMood(records []domain.WorkoutRecord) float64 {
	return mean(records, func(r domain.WorkoutRecord) float64 { return float64(r.Mood) })
}

// NutritionScore is the mean of (protein+carbs+fats)/calories over records with
// logged calories. It is a macro balance proxy, not a calorie accuracy measure.
func NutritionScore(records []domain.WorkoutRecord) float64 {
	var sum float64
	n := 0
	for _, r := range records {
		if r.Nutrition.Calories <= 0 {
			continue
		}
		sum += (r.Nutrition.Protein + r.Nutrition.Carbs + r.Nutrition.Fats) / r.Nutrition.Calories
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MoodTrend is mood(latest) - mood(earliest). It needs at least two records.
func MoodTrend(records []domain.WorkoutRecord) float64 {
	if len(records) < 2 {
		return 0
	}
	sorted := make([]domain.WorkoutRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return float64(sorted[len(sorted)-1].Mood - sorted[0].Mood)
}

// WorkoutLoad is the mean of intensity x duration in minutes.
func WorkoutLoad(records []domain.WorkoutRecord) float64 {
	return mean(records, func(r domain.WorkoutRecord) float64 {
		return float64(r.Intensity * r.DurationMinutes)
	})
}

// SessionShare is the fraction of records matching pred.
func SessionShare(records []domain.WorkoutRecord, pred func(domain.WorkoutRecord) bool) float64 {
	if len(records) == 0 {
		return 0
	}
	n := 0
	for _, r := range records {
		if pred(r) {
			n++
		}
	}
	return float64(n) / float64(len(records))
}

// CountByType tallies sessions per activity type.
func CountByType(records []domain.WorkoutRecord) map[domain.ActivityType]int {
	counts := make(map[domain.ActivityType]int)
	for _, r := range records {
		counts[r.ActivityType]++
	}
	return counts
}

func mean(records []domain.WorkoutRecord, value func(domain.WorkoutRecord) float64) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += value(r)
	}
	return sum / float64(len(records))
}
