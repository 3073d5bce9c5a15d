package prediction

import (
	"math"

	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/features"
)

// Goal tags inferred from recent training.
const (
	GoalMuscleGain     = "muscle_gain"
	GoalEndurance      = "endurance"
	GoalStrength       = "strength"
	GoalGeneralFitness = "general_fitness"
)

// EstimateBodyComposition returns the reference profile; metabolism follows
// the average intensity of the window.
func EstimateBodyComposition(window []domain.WorkoutRecord) domain.BodyComposition {
	metabolism := "moderate"
	if len(window) > 0 {
		avg := features.AverageIntensity(window)
		switch {
		case avg > highMetabolismIntensity:
			metabolism = "high"
		case avg < lowMetabolismIntensity:
			metabolism = "low"
		}
	}
	return domain.BodyComposition{
		WeightKg:     referenceWeightKg,
		BodyFatPct:   referenceBodyFatPct,
		MuscleMassKg: referenceMuscleMassKg,
		Metabolism:   metabolism,
	}
}

// InferGoals tags the window with training goals; general_fitness when nothing stands out.
func InferGoals(window []domain.WorkoutRecord) []string {
	var goals []string
	if len(window) > 0 && features.AverageIntensity(window) > muscleGainIntensity {
		goals = append(goals, GoalMuscleGain)
	}
	counts := features.CountByType(window)
	strength, cardio := counts[domain.ActivityStrength], counts[domain.ActivityCardio]
	if cardio > strength {
		goals = append(goals, GoalEndurance)
	}
	if strength > cardio {
		goals = append(goals, GoalStrength)
	}
	if len(goals) == 0 {
		return []string{GoalGeneralFitness}
	}
	return goals
}

// Nutrition builds the pre-workout, post-workout and daily plan for req.
// It has no minimum-data guard and always counts as computed.
func Nutrition(window []domain.WorkoutRecord, req domain.NutritionRequest) domain.Prediction {
	body := EstimateBodyComposition(window)
	goals := InferGoals(window)

	base := body.WeightKg * baseCaloriesPerKg
	workout := float64(req.Intensity) * workoutCaloriesPerLevel

	plan := domain.NutritionPlan{
		WorkoutType:     req.WorkoutType,
		Intensity:       req.Intensity,
		PreWorkout:      macroSplit(base*preWorkoutShare, 0.3, 0.6, 0.1),
		PostWorkout:     macroSplit(workout*postWorkoutShare, 0.4, 0.5, 0.1),
		Daily:           macroSplit(base+workout, 0.3, 0.5, 0.2),
		Goals:           goals,
		BodyComposition: body,
	}

	recs := []string{
		"Eat a balanced meal 2-3 hours before workout",
		"Stay hydrated throughout the day",
		"Consume protein within 30 minutes post-workout",
	}
	for _, g := range goals {
		if g == GoalMuscleGain {
			recs = append(recs, "Increase protein intake to 1.6-2.2g per kg body weight")
		}
	}

	return domain.Prediction{
		Kind:            domain.KindNutrition,
		Confidence:      nutritionConfidence,
		Value:           plan,
		Factors:         []string{"Workout type", "Intensity level", "Body composition", "User goals"},
		Recommendations: recs,
	}
}

// macroSplit divides kcal into protein, carbs and fats grams by calorie share.
func macroSplit(kcal, protein, carbs, fats float64) domain.MacroTarget {
	return domain.MacroTarget{
		Calories: int(math.Round(kcal)),
		Protein:  int(math.Round(kcal * protein / kcalPerGramProtein)),
		Carbs:    int(math.Round(kcal * carbs / kcalPerGramCarbs)),
		Fats:     int(math.Round(kcal * fats / kcalPerGramFat)),
	}
}
