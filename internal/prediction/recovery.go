package prediction

import (
	"math"

	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/features"
)

// RecoveryFactors are the normalised inputs to the recovery score.
type RecoveryFactors struct {
	WorkoutLoad  float64
	SleepQuality float64
	StressLevels float64
	Age          float64
}

// AnalyzeRecoveryFactors computes recovery inputs over a window.
func AnalyzeRecoveryFactors(window []domain.WorkoutRecord) RecoveryFactors {
	return RecoveryFactors{
		WorkoutLoad:  math.Min(features.WorkoutLoad(window)/maxWorkoutLoad, 1),
		SleepQuality: features.AverageSleep(window) / referenceSleepHours,
		StressLevels: (10 - features.AverageMood(window)) / 10,
		Age:          ageFactor,
	}
}

// Score averages sleep quality, calm and freshness.
func (f RecoveryFactors) Score() float64 {
	return (f.SleepQuality + (1 - f.StressLevels) + (1 - f.WorkoutLoad)) / 3
}

// Elevated names the inputs above the listing threshold.
func (f RecoveryFactors) Elevated() []string {
	out := make([]string, 0, 4)
	for _, sig := range []struct {
		name  string
		value float64
	}{
		{"workout_load", f.WorkoutLoad},
		{"sleep_quality", f.SleepQuality},
		{"stress_levels", f.StressLevels},
		{"age", f.Age},
	} {
		if sig.value > recoveryFactorListed {
			out = append(out, sig.name)
		}
	}
	return out
}

// RecoveryWindow buckets a recovery score into a time-to-recover label.
func RecoveryWindow(score float64) string {
	switch {
	case score > fastRecoveryScore:
		return "12-24 hours"
	case score > moderateRecoveryScore:
		return "24-48 hours"
	default:
		return "48-72 hours"
	}
}

// Recovery estimates time to recover from the 7-day window.
func Recovery(window []domain.WorkoutRecord) (domain.Prediction, bool) {
	if len(window) < RecoveryMinRecords {
		return domain.Prediction{
			Kind:            domain.KindRecovery,
			Confidence:      recoveryGuardConf,
			Value:           domain.RecoveryEstimate{Window: "24-48 hours"},
			Factors:         []string{"General recommendation"},
			Recommendations: []string{"Listen to your body", "Stay hydrated", "Get adequate sleep"},
		}, false
	}

	factors := AnalyzeRecoveryFactors(window)
	score := factors.Score()

	var recs []string
	if factors.SleepQuality < recPoorSleepQuality {
		recs = append(recs, "Improve sleep quality with better sleep hygiene")
	}
	if factors.StressLevels > recHighStress {
		recs = append(recs, "Include stress management techniques")
	}
	if factors.WorkoutLoad > recHighLoad {
		recs = append(recs, "Consider active recovery or rest days")
	}
	if len(recs) == 0 {
		recs = []string{"Your recovery routine looks good"}
	}

	return domain.Prediction{
		Kind:            domain.KindRecovery,
		Confidence:      recoveryConfidence,
		Value:           domain.RecoveryEstimate{Window: RecoveryWindow(score), Score: round2(score)},
		Factors:         factors.Elevated(),
		Recommendations: recs,
	}, true
}
