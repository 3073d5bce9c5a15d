package prediction

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/testsupport"
)

type stubSource struct {
	records []domain.WorkoutRecord
	days    []int
}

func (s *stubSource) Windowed(days int, _ time.Time) []domain.WorkoutRecord {
	s.days = append(s.days, days)
	return s.records
}

type stubCounter map[domain.PredictionKind]int

func (c stubCounter) Increment(kind domain.PredictionKind) { c[kind]++ }

func TestPerformanceGuardWithTwoRecords(t *testing.T) {
	p, computed := Performance(testsupport.Series("w", 2, testsupport.Reference))

	require.False(t, computed)
	require.Equal(t, 0.3, p.Confidence)
	require.Equal(t, "Insufficient data for accurate prediction", p.Value.(domain.PerformanceEstimate).Note)
}

func TestPerformanceAppliesSleepBonus(t *testing.T) {
	p, computed := Performance(testsupport.Series("w", 3, testsupport.Reference))

	require.True(t, computed)
	require.Equal(t, 0.7, p.Confidence)
	require.Equal(t, 6.6, p.Value.(domain.PerformanceEstimate).Score)
	require.Equal(t, []string{"Good sleep quality"}, p.Factors)
	require.Equal(t, []string{
		"Focus on balanced nutrition with adequate protein",
		"Consider reducing intensity or focusing on technique",
	}, p.Recommendations)
}

func TestPerformanceWellPrepared(t *testing.T) {
	recs := testsupport.Series("w", 3, testsupport.Reference,
		testsupport.WithIntensity(8),
		testsupport.WithNutritionCalories(500),
		testsupport.WithMacros(150, 200, 50),
	)
	recs[2].Mood = 9

	p, _ := Performance(recs)
	require.Equal(t, []string{"Good sleep quality", "Good nutrition", "Improving mood trend"}, p.Factors)
	require.Equal(t, round2(8*1.10*1.05*1.02), p.Value.(domain.PerformanceEstimate).Score)
	require.Equal(t, []string{"You're well-prepared for this workout!"}, p.Recommendations)
}

func TestPerformancePoorSleepPenalty(t *testing.T) {
	p, _ := Performance(testsupport.Series("w", 3, testsupport.Reference, testsupport.WithSleep(5)))
	require.Equal(t, 5.4, p.Value.(domain.PerformanceEstimate).Score)
	require.Contains(t, p.Factors, "Poor sleep quality")
	require.Contains(t, p.Recommendations, "Aim for 7-9 hours of sleep tonight")
}

func TestInjuryRiskGuardWithFourRecords(t *testing.T) {
	p, computed := InjuryRisk(testsupport.Series("w", 4, testsupport.Reference))

	require.False(t, computed)
	require.Equal(t, "Low (insufficient data)", p.Value.(domain.InjuryRisk).Level)
	require.Equal(t, 0.4, p.Confidence)
}

func TestInjuryRiskLevelBucketing(t *testing.T) {
	cases := []struct {
		score      float64
		level      string
		confidence float64
	}{
		{0, "Low", 0.85},
		{0.29, "Low", 0.85},
		{0.45, "Moderate", 0.82},
		{0.6, "High", 0.88},
		{0.75, "High", 0.88},
	}
	for _, tc := range cases {
		level, conf := InjuryRiskLevel(tc.score)
		require.Equal(t, tc.level, level, "score %v", tc.score)
		require.Equal(t, tc.confidence, conf, "score %v", tc.score)
	}
}

func TestInjuryRiskLowForModerateTraining(t *testing.T) {
	p, computed := InjuryRisk(testsupport.Series("w", 5, testsupport.Reference))

	require.True(t, computed)
	risk := p.Value.(domain.InjuryRisk)
	require.Equal(t, "Low", risk.Level)
	require.InDelta(t, 0.075, risk.Score, 0.01)
	require.Empty(t, p.Factors)
	require.Equal(t, []string{"Your current routine looks safe"}, p.Recommendations)
}

func TestInjuryRiskHighForOverreaching(t *testing.T) {
	p, _ := InjuryRisk(testsupport.Series("w", 11, testsupport.Reference,
		testsupport.WithIntensity(9),
		testsupport.WithSleep(5),
		testsupport.WithNutritionCalories(1200),
	))

	require.Equal(t, "High", p.Value.(domain.InjuryRisk).Level)
	require.Equal(t, 0.88, p.Confidence)
	require.Equal(t, []string{"high_intensity", "poor_sleep", "high_frequency", "poor_nutrition"}, p.Factors)
	require.Len(t, p.Recommendations, 4)
}

func TestOptimalTimeGuard(t *testing.T) {
	p, computed := OptimalTime(testsupport.Series("w", 9, testsupport.Reference), time.UTC)

	require.False(t, computed)
	require.Equal(t, "Morning (6-8 AM)", p.Value.(domain.TrainingWindow).Slot)
	require.Equal(t, 0.5, p.Confidence)
}

func TestOptimalTimePicksHighestMeanSlot(t *testing.T) {
	recs := append(
		testsupport.Series("am", 5, testsupport.Reference, testsupport.AtHour(7), testsupport.WithIntensity(4)),
		testsupport.Series("pm", 5, testsupport.Reference, testsupport.AtHour(18), testsupport.WithIntensity(8))...,
	)

	p, computed := OptimalTime(recs, time.UTC)
	require.True(t, computed)
	require.Equal(t, "6-8 PM", p.Value.(domain.TrainingWindow).Slot)
	require.InDelta(t, 0.5, p.Confidence, 1e-9)
	require.Equal(t, "Schedule workouts during 6-8 PM for optimal performance", p.Recommendations[0])
}

func TestOptimalTimeTiePrefersEarliestSlot(t *testing.T) {
	recs := append(
		testsupport.Series("pm", 5, testsupport.Reference, testsupport.AtHour(18)),
		testsupport.Series("am", 5, testsupport.Reference, testsupport.AtHour(9))...,
	)

	p, _ := OptimalTime(recs, time.UTC)
	require.Equal(t, "8-10 AM", p.Value.(domain.TrainingWindow).Slot)
	require.Zero(t, p.Confidence)
}

func TestOptimalTimeWithNoSlottedRecords(t *testing.T) {
	p, computed := OptimalTime(testsupport.Series("night", 10, testsupport.Reference, testsupport.AtHour(23)), time.UTC)
	require.True(t, computed)
	require.Equal(t, "6-8 AM", p.Value.(domain.TrainingWindow).Slot)
	require.Zero(t, p.Confidence)
}

func TestNutritionPlanWithoutHistory(t *testing.T) {
	p := Nutrition(nil, domain.NutritionRequest{WorkoutType: domain.ActivityCardio, Intensity: 6})

	plan := p.Value.(domain.NutritionPlan)
	require.Equal(t, 0.89, p.Confidence)
	require.Equal(t, []string{GoalGeneralFitness}, plan.Goals)
	require.Equal(t, "moderate", plan.BodyComposition.Metabolism)
	require.Equal(t, domain.MacroTarget{Calories: 225, Protein: 17, Carbs: 34, Fats: 3}, plan.PreWorkout)
	require.Equal(t, domain.MacroTarget{Calories: 240, Protein: 24, Carbs: 30, Fats: 3}, plan.PostWorkout)
	require.Equal(t, domain.MacroTarget{Calories: 1425, Protein: 107, Carbs: 178, Fats: 32}, plan.Daily)
	require.Len(t, p.Recommendations, 3)
}

func TestNutritionInfersGoals(t *testing.T) {
	recs := testsupport.Series("w", 3, testsupport.Reference, testsupport.WithIntensity(8))
	p := Nutrition(recs, domain.NutritionRequest{WorkoutType: domain.ActivityStrength, Intensity: 8})

	plan := p.Value.(domain.NutritionPlan)
	require.Equal(t, []string{GoalMuscleGain, GoalStrength}, plan.Goals)
	require.Equal(t, "high", plan.BodyComposition.Metabolism)
	require.Contains(t, p.Recommendations, "Increase protein intake to 1.6-2.2g per kg body weight")

	cardio := testsupport.Series("c", 2, testsupport.Reference, testsupport.WithType(domain.ActivityCardio), testsupport.WithIntensity(3))
	require.Equal(t, []string{GoalEndurance}, InferGoals(cardio))
	require.Equal(t, "low", EstimateBodyComposition(cardio).Metabolism)
}

func TestRecoveryGuard(t *testing.T) {
	p, computed := Recovery(testsupport.Series("w", 2, testsupport.Reference))

	require.False(t, computed)
	require.Equal(t, "24-48 hours", p.Value.(domain.RecoveryEstimate).Window)
	require.Equal(t, 0.6, p.Confidence)
}

func TestRecoveryWindowBucketing(t *testing.T) {
	require.Equal(t, "12-24 hours", RecoveryWindow(0.85))
	require.Equal(t, "24-48 hours", RecoveryWindow(0.65))
	require.Equal(t, "48-72 hours", RecoveryWindow(0.4))
	require.Equal(t, "48-72 hours", RecoveryWindow(0.6))
}

func TestRecoveryComputed(t *testing.T) {
	p, computed := Recovery(testsupport.Series("w", 3, testsupport.Reference))

	require.True(t, computed)
	est := p.Value.(domain.RecoveryEstimate)
	require.Equal(t, "24-48 hours", est.Window)
	require.InDelta(t, 0.78, est.Score, 0.01)
	require.Equal(t, 0.91, p.Confidence)
	require.Equal(t, []string{"sleep_quality", "age"}, p.Factors)
	require.Equal(t, []string{"Your recovery routine looks good"}, p.Recommendations)
}

func TestRecoveryLoadIsCapped(t *testing.T) {
	f := AnalyzeRecoveryFactors(testsupport.Series("w", 3, testsupport.Reference,
		testsupport.WithIntensity(10), testsupport.WithDuration(240)))
	require.Equal(t, 1.0, f.WorkoutLoad)
}

func TestEngineCountsOnlyComputedPredictions(t *testing.T) {
	source := &stubSource{records: testsupport.Series("w", 3, testsupport.Reference)}
	counter := stubCounter{}
	engine := NewEngine(source, counter, WithClock(func() time.Time { return testsupport.Reference }))

	all := []domain.Prediction{
		engine.PredictPerformance(),
		engine.PredictInjuryRisk(),
		engine.PredictOptimalTime(),
		engine.PredictRecovery(),
	}
	nutrition, err := engine.PredictNutrition(domain.ActivityStrength, 5)
	require.NoError(t, err)
	all = append(all, nutrition)

	for _, p := range all {
		require.GreaterOrEqual(t, p.Confidence, 0.0)
		require.LessOrEqual(t, p.Confidence, 1.0)
	}
	require.Equal(t, stubCounter{
		domain.KindPerformance: 1,
		domain.KindRecovery:    1,
		domain.KindNutrition:   1,
	}, counter)
	require.Equal(t, []int{7, 14, 30, 7, 7}, source.days)
}

func TestEngineRejectsInvalidNutritionRequest(t *testing.T) {
	engine := NewEngine(&stubSource{}, nil)

	_, err := engine.PredictNutrition("yoga", 5)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "workout_type", verr.Field)

	_, err = engine.PredictNutrition(domain.ActivityCardio, 11)
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "intensity", verr.Field)
}
