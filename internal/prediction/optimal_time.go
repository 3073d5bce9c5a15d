package prediction

import (
	"fmt"
	"time"

	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/features"
)

// OptimalTime picks the slot with the highest mean intensity over the window.
func OptimalTime(window []domain.WorkoutRecord, loc *time.Location) (domain.Prediction, bool) {
	if len(window) < OptimalTimeMinRecords {
		return domain.Prediction{
			Kind:            domain.KindOptimalTime,
			Confidence:      optimalTimeGuardConf,
			Value:           domain.TrainingWindow{Slot: defaultTimeLabel},
			Factors:         []string{"General recommendation"},
			Recommendations: []string{"Complete more workouts for personalized timing"},
		}, false
	}

	stats := features.TimeSlotPerformance(window, loc)
	best, confidence := bestSlot(stats)

	return domain.Prediction{
		Kind:       domain.KindOptimalTime,
		Confidence: confidence,
		Value:      domain.TrainingWindow{Slot: best},
		Factors:    []string{"Historical performance analysis", "Energy pattern analysis"},
		Recommendations: []string{
			fmt.Sprintf("Schedule workouts during %s for optimal performance", best),
			"Consider your energy levels and schedule when planning workouts",
			"Be consistent with workout timing to build routine",
		},
	}, true
}

// bestSlot returns the argmax label (earliest slot on ties) and the spread
// (max-min)/max across observed slots.
func bestSlot(stats []features.SlotStat) (string, float64) {
	if len(stats) == 0 {
		return defaultSlotLabel, 0
	}
	best := stats[0]
	lowest := stats[0].MeanIntensity
	for _, s := range stats[1:] {
		if s.MeanIntensity > best.MeanIntensity {
			best = s
		}
		if s.MeanIntensity < lowest {
			lowest = s.MeanIntensity
		}
	}
	if best.MeanIntensity <= 0 {
		return best.Slot.Label, 0
	}
	return best.Slot.Label, (best.MeanIntensity - lowest) / best.MeanIntensity
}
