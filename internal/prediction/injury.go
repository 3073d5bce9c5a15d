package prediction

import (
	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/features"
)

// InjuryFactors are the four risk signals, each in [0,1].
type InjuryFactors struct {
	HighIntensity float64
	PoorSleep     float64
	HighFrequency float64
	PoorNutrition float64
}

// AnalyzeInjuryFactors computes the risk signals over a window.
func AnalyzeInjuryFactors(window []domain.WorkoutRecord) InjuryFactors {
	frequency := normalFrequencyRisk
	if len(window) > highFrequencySessions {
		frequency = highFrequencyRisk
	}
	return InjuryFactors{
		HighIntensity: features.SessionShare(window, func(r domain.WorkoutRecord) bool {
			return r.Intensity > highIntensityThreshold
		}),
		PoorSleep: features.SessionShare(window, func(r domain.WorkoutRecord) bool {
			return r.SleepHours < poorSleepThreshold
		}),
		HighFrequency: frequency,
		PoorNutrition: features.SessionShare(window, func(r domain.WorkoutRecord) bool {
			return r.Nutrition.Calories < lowCalorieThreshold
		}),
	}
}

// Score is the mean of the four signals.
func (f InjuryFactors) Score() float64 {
	return (f.HighIntensity + f.PoorSleep + f.HighFrequency + f.PoorNutrition) / 4
}

// Elevated names the signals above the listing threshold.
func (f InjuryFactors) Elevated() []string {
	out := make([]string, 0, 4)
	for _, sig := range []struct {
		name  string
		value float64
	}{
		{"high_intensity", f.HighIntensity},
		{"poor_sleep", f.PoorSleep},
		{"high_frequency", f.HighFrequency},
		{"poor_nutrition", f.PoorNutrition},
	} {
		if sig.value > injuryFactorListed {
			out = append(out, sig.name)
		}
	}
	return out
}

// InjuryRiskLevel buckets a risk score into its label and confidence.
func InjuryRiskLevel(score float64) (string, float64) {
	switch {
	case score < lowRiskCeiling:
		return "Low", lowRiskConfidence
	case score < moderateRiskCeiling:
		return "Moderate", moderateRiskConfidence
	default:
		return "High", highRiskConfidence
	}
}

// InjuryRisk scores the 14-day window.
func InjuryRisk(window []domain.WorkoutRecord) (domain.Prediction, bool) {
	if len(window) < InjuryMinRecords {
		return domain.Prediction{
			Kind:            domain.KindInjuryRisk,
			Confidence:      injuryGuardConf,
			Value:           domain.InjuryRisk{Level: "Low (insufficient data)"},
			Factors:         []string{"Limited workout history"},
			Recommendations: []string{"Continue regular workouts for better risk assessment"},
		}, false
	}

	factors := AnalyzeInjuryFactors(window)
	score := factors.Score()
	level, confidence := InjuryRiskLevel(score)

	return domain.Prediction{
		Kind:            domain.KindInjuryRisk,
		Confidence:      confidence,
		Value:           domain.InjuryRisk{Level: level, Score: round2(score)},
		Factors:         factors.Elevated(),
		Recommendations: injuryRecommendations(factors),
	}, true
}

func injuryRecommendations(f InjuryFactors) []string {
	var recs []string
	if f.HighIntensity > recHighIntensityShare {
		recs = append(recs, "Include more recovery days between high-intensity sessions")
	}
	if f.PoorSleep > recPoorSleepShare {
		recs = append(recs, "Prioritize sleep quality and quantity")
	}
	if f.HighFrequency > recHighFrequencyRisk {
		recs = append(recs, "Consider reducing workout frequency")
	}
	if f.PoorNutrition > recPoorNutritionShare {
		recs = append(recs, "Improve nutrition to support recovery")
	}
	if len(recs) == 0 {
		return []string{"Your current routine looks safe"}
	}
	return recs
}
