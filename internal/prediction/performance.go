package prediction

import (
	"math"

	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/features"
)

// Performance estimates next-session intensity. The bool is false when the
// minimum-data guard produced the result.
func Performance(window []domain.WorkoutRecord) (domain.Prediction, bool) {
	if len(window) < PerformanceMinRecords {
		return domain.Prediction{
			Kind:            domain.KindPerformance,
			Confidence:      performanceGuardConf,
			Value:           domain.PerformanceEstimate{Note: "Insufficient data for accurate prediction"},
			Factors:         []string{"Limited workout history"},
			Recommendations: []string{"Complete at least 3 workouts to enable predictions"},
		}, false
	}

	sleep := features.AverageSleep(window)
	nutrition := features.NutritionScore(window)
	moodTrend := features.MoodTrend(window)

	predicted := features.AverageIntensity(window)
	factors := make([]string, 0, 3)
	switch {
	case sleep >= goodSleepHours:
		predicted *= goodSleepMultiplier
		factors = append(factors, "Good sleep quality")
	case sleep < poorSleepHours:
		predicted *= poorSleepMultiplier
		factors = append(factors, "Poor sleep quality")
	}
	if nutrition >= goodNutritionScore {
		predicted *= goodNutritionMultiplier
		factors = append(factors, "Good nutrition")
	}
	if moodTrend > 0 {
		predicted *= moodTrendMultiplier
		factors = append(factors, "Improving mood trend")
	}

	var recs []string
	if sleep < goodSleepHours {
		recs = append(recs, "Aim for 7-9 hours of sleep tonight")
	}
	if nutrition < goodNutritionScore {
		recs = append(recs, "Focus on balanced nutrition with adequate protein")
	}
	if moodTrend < 0 {
		recs = append(recs, "Consider light stretching or meditation before workout")
	}
	if predicted < performanceTarget {
		recs = append(recs, "Consider reducing intensity or focusing on technique")
	}
	if len(recs) == 0 {
		recs = []string{"You're well-prepared for this workout!"}
	}

	return domain.Prediction{
		Kind:            domain.KindPerformance,
		Confidence:      performanceConfidence,
		Value:           domain.PerformanceEstimate{Score: round2(predicted)},
		Factors:         factors,
		Recommendations: recs,
	}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
