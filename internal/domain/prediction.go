package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// PredictionKind identifies which predictor produced a Prediction.
type PredictionKind string

const (
	KindPerformance PredictionKind = "performance"
	KindInjuryRisk  PredictionKind = "injury_risk"
	KindOptimalTime PredictionKind = "optimal_time"
	KindNutrition   PredictionKind = "nutrition"
	KindRecovery    PredictionKind = "recovery"
)

// PredictionKinds lists every predictor in registry order.
var PredictionKinds = []PredictionKind{KindPerformance, KindInjuryRisk, KindOptimalTime, KindNutrition, KindRecovery}

// PredictionValue is the kind-specific payload of a Prediction.
// Implementations are PerformanceEstimate, InjuryRisk, TrainingWindow, NutritionPlan and RecoveryEstimate.
type PredictionValue interface {
	PredictionKind() PredictionKind
}

// Prediction is a transient predictor result.
type Prediction struct {
	Kind            PredictionKind
	Confidence      float64
	Value           PredictionValue
	Factors         []string
	Recommendations []string
}

// PerformanceEstimate is the expected session intensity on the 1-10 scale.
type PerformanceEstimate struct {
	Score float64 `json:"score"`
	Note  string  `json:"note,omitempty"`
}

// InjuryRisk carries the bucketed risk label and the mean risk factor behind it.
type InjuryRisk struct {
	Level string  `json:"level"`
	Score float64 `json:"score"`
}

// TrainingWindow names the recommended time-of-day slot.
type TrainingWindow struct {
	Slot string `json:"slot"`
}

// MacroTarget is a calorie and macronutrient target in kcal and grams.
type MacroTarget struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}

// BodyComposition is the reference profile the nutrition plan is sized against.
type BodyComposition struct {
	WeightKg     float64 `json:"weight_kg"`
	BodyFatPct   float64 `json:"body_fat_pct"`
	MuscleMassKg float64 `json:"muscle_mass_kg"`
	Metabolism   string  `json:"metabolism"`
}

// NutritionPlan is the three-part fuelling plan for a planned session.
type NutritionPlan struct {
	WorkoutType     ActivityType    `json:"workout_type"`
	Intensity       int             `json:"intensity"`
	PreWorkout      MacroTarget     `json:"pre_workout"`
	PostWorkout     MacroTarget     `json:"post_workout"`
	Daily           MacroTarget     `json:"daily"`
	Goals           []string        `json:"goals"`
	BodyComposition BodyComposition `json:"body_composition"`
}

// RecoveryEstimate carries the recovery window label and its score.
type RecoveryEstimate struct {
	Window string  `json:"window"`
	Score  float64 `json:"score"`
}

func (PerformanceEstimate) PredictionKind() PredictionKind { return KindPerformance }
func (InjuryRisk) PredictionKind() PredictionKind          { return KindInjuryRisk }
func (TrainingWindow) PredictionKind() PredictionKind      { return KindOptimalTime }
func (NutritionPlan) PredictionKind() PredictionKind       { return KindNutrition }
func (RecoveryEstimate) PredictionKind() PredictionKind    { return KindRecovery }

// ClampUnit bounds v to [0,1]; NaN maps to 0.
func ClampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type predictionJSON struct {
	Kind            PredictionKind  `json:"kind"`
	Confidence      float64         `json:"confidence"`
	Value           json.RawMessage `json:"value"`
	Factors         []string        `json:"factors"`
	Recommendations []string        `json:"recommendations"`
}

// MarshalJSON writes the payload under "value" next to its kind tag.
func (p Prediction) MarshalJSON() ([]byte, error) {
	value, err := json.Marshal(p.Value)
	if err != nil {
		return nil, err
	}
	factors, recs := p.Factors, p.Recommendations
	if factors == nil {
		factors = []string{}
	}
	if recs == nil {
		recs = []string{}
	}
	return json.Marshal(predictionJSON{
		Kind:            p.Kind,
		Confidence:      p.Confidence,
		Value:           value,
		Factors:         factors,
		Recommendations: recs,
	})
}

// UnmarshalJSON decodes "value" into the payload type selected by "kind".
func (p *Prediction) UnmarshalJSON(data []byte) error {
	var raw predictionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var value PredictionValue
	switch raw.Kind {
	case KindPerformance:
		var v PerformanceEstimate
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return err
		}
		value = v
	case KindInjuryRisk:
		var v InjuryRisk
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return err
		}
		value = v
	case KindOptimalTime:
		var v TrainingWindow
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return err
		}
		value = v
	case KindNutrition:
		var v NutritionPlan
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return err
		}
		value = v
	case KindRecovery:
		var v RecoveryEstimate
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return err
		}
		value = v
	default:
		return fmt.Errorf("unknown prediction kind %q", raw.Kind)
	}

	*p = Prediction{
		Kind:            raw.Kind,
		Confidence:      raw.Confidence,
		Value:           value,
		Factors:         raw.Factors,
		Recommendations: raw.Recommendations,
	}
	return nil
}
