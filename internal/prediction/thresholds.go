package prediction

// Windows and minimum-data guards per predictor.
const (
	PerformanceWindowDays = 7
	PerformanceMinRecords = 3
	InjuryWindowDays      = 14
	InjuryMinRecords      = 5
	OptimalTimeWindowDays = 30
	OptimalTimeMinRecords = 10
	NutritionWindowDays   = 7
	RecoveryWindowDays    = 7
	RecoveryMinRecords    = 3
)

// Performance scoring.
const (
	performanceConfidence   = 0.7
	performanceGuardConf    = 0.3
	goodSleepHours          = 7.0
	poorSleepHours          = 6.0
	goodSleepMultiplier     = 1.10
	poorSleepMultiplier     = 0.90
	goodNutritionScore      = 0.8
	goodNutritionMultiplier = 1.05
	moodTrendMultiplier     = 1.02
	performanceTarget       = 7.0
)

// Injury risk scoring.
const (
	injuryGuardConf        = 0.4
	highIntensityThreshold = 8
	poorSleepThreshold     = 6.0
	highFrequencySessions  = 10
	highFrequencyRisk      = 0.7
	normalFrequencyRisk    = 0.3
	lowCalorieThreshold    = 1500.0
	injuryFactorListed     = 0.3
	lowRiskCeiling         = 0.3
	moderateRiskCeiling    = 0.6
	lowRiskConfidence      = 0.85
	moderateRiskConfidence = 0.82
	highRiskConfidence     = 0.88
	recHighIntensityShare  = 0.5
	recPoorSleepShare      = 0.3
	recHighFrequencyRisk   = 0.5
	recPoorNutritionShare  = 0.4
)

// Optimal time.
const (
	optimalTimeGuardConf = 0.5
	defaultSlotLabel     = "6-8 AM"
	defaultTimeLabel     = "Morning (6-8 AM)"
)

// Nutrition plan sizing.
const (
	nutritionConfidence     = 0.89
	referenceWeightKg       = 75.0
	referenceBodyFatPct     = 15.0
	referenceMuscleMassKg   = 65.0
	baseCaloriesPerKg       = 15.0
	workoutCaloriesPerLevel = 50.0
	preWorkoutShare         = 0.2
	postWorkoutShare        = 0.8
	muscleGainIntensity     = 7.0
	highMetabolismIntensity = 7.0
	lowMetabolismIntensity  = 4.0
	kcalPerGramProtein      = 4.0
	kcalPerGramCarbs        = 4.0
	kcalPerGramFat          = 9.0
)

// Recovery scoring.
const (
	recoveryConfidence    = 0.91
	recoveryGuardConf     = 0.6
	maxWorkoutLoad        = 1200.0 // intensity 10 for 120 minutes
	referenceSleepHours   = 8.0
	ageFactor             = 0.7
	fastRecoveryScore     = 0.8
	moderateRecoveryScore = 0.6
	recoveryFactorListed  = 0.5
	recPoorSleepQuality   = 0.8
	recHighStress         = 0.5
	recHighLoad           = 0.7
)
