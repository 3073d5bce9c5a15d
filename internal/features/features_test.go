package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/testsupport"
)

func TestAveragesOnEmptyWindow(t *testing.T) {
	require.Zero(t, AverageIntensity(nil))
	require.Zero(t, AverageSleep(nil))
	require.Zero(t, AverageMood(nil))
	require.Zero(t, NutritionScore(nil))
	require.Zero(t, WorkoutLoad(nil))
	require.Zero(t, SessionShare(nil, func(domain.WorkoutRecord) bool { return true }))
}

func TestAverages(t *testing.T) {
	now := testsupport.Reference
	recs := []domain.WorkoutRecord{
		testsupport.Workout("a", now, testsupport.WithIntensity(4), testsupport.WithSleep(6), testsupport.WithDuration(30)),
		testsupport.Workout("b", now, testsupport.WithIntensity(8), testsupport.WithSleep(8), testsupport.WithDuration(60)),
	}

	require.InDelta(t, 6.0, AverageIntensity(recs), 1e-9)
	require.InDelta(t, 7.0, AverageSleep(recs), 1e-9)
	require.InDelta(t, 7.0, AverageMood(recs), 1e-9)
	require.InDelta(t, (4*30+8*60)/2.0, WorkoutLoad(recs), 1e-9)
	require.InDelta(t, 0.5, SessionShare(recs, func(r domain.WorkoutRecord) bool { return r.Intensity > 5 }), 1e-9)
}

func TestNutritionScoreSkipsUnloggedCalories(t *testing.T) {
	now := testsupport.Reference
	recs := []domain.WorkoutRecord{
		testsupport.Workout("a", now, testsupport.WithNutritionCalories(1000), testsupport.WithMacros(100, 100, 50)),
		testsupport.Workout("b", now, testsupport.WithNutritionCalories(0)),
	}

	require.InDelta(t, 0.25, NutritionScore(recs), 1e-9)
}

func TestMoodTrendUsesChronologicalOrder(t *testing.T) {
	now := testsupport.Reference
	recs := []domain.WorkoutRecord{
		testsupport.Workout("late", now, testsupport.WithMood(9)),
		testsupport.Workout("early", now.Add(-72*time.Hour), testsupport.WithMood(5)),
		testsupport.Workout("mid", now.Add(-24*time.Hour), testsupport.WithMood(2)),
	}

	require.InDelta(t, 4.0, MoodTrend(recs), 1e-9)
	require.Equal(t, "late", recs[0].ID, "input order untouched")
	require.Zero(t, MoodTrend(recs[:1]))
}

func TestTimeSlotPerformanceOmitsEmptyBuckets(t *testing.T) {
	day := testsupport.Reference
	recs := []domain.WorkoutRecord{
		testsupport.Workout("a", day, testsupport.AtHour(7), testsupport.WithIntensity(4)),
		testsupport.Workout("b", day, testsupport.AtHour(6), testsupport.WithIntensity(6)),
		testsupport.Workout("c", day, testsupport.AtHour(19), testsupport.WithIntensity(9)),
		testsupport.Workout("night", day, testsupport.AtHour(23), testsupport.WithIntensity(10)),
	}

	stats := TimeSlotPerformance(recs, time.UTC)
	require.Len(t, stats, 2)
	require.Equal(t, "6-8 AM", stats[0].Slot.Label)
	require.InDelta(t, 5.0, stats[0].MeanIntensity, 1e-9)
	require.Equal(t, 2, stats[0].Count)
	require.InDelta(t, 0.5, stats[0].Share, 1e-9)
	require.Equal(t, "6-8 PM", stats[1].Slot.Label)
	require.InDelta(t, 9.0, stats[1].MeanIntensity, 1e-9)
}

func TestTimeSlotPerformanceHonoursLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	rec := testsupport.Workout("a", testsupport.Reference, testsupport.AtHour(5))

	require.Empty(t, TimeSlotPerformance([]domain.WorkoutRecord{rec}, time.UTC))
	stats := TimeSlotPerformance([]domain.WorkoutRecord{rec}, loc)
	require.Len(t, stats, 1)
	require.Equal(t, "6-8 AM", stats[0].Slot.Label)
}

func TestTimeSlotFrequencyPrefersEarliestOnTie(t *testing.T) {
	day := testsupport.Reference
	recs := []domain.WorkoutRecord{
		testsupport.Workout("a", day, testsupport.AtHour(18)),
		testsupport.Workout("b", day, testsupport.AtHour(9)),
	}

	best, ok := TimeSlotFrequency(recs, time.UTC)
	require.True(t, ok)
	require.Equal(t, "8-10 AM", best.Slot.Label)

	_, ok = TimeSlotFrequency(nil, time.UTC)
	require.False(t, ok)
}

func TestSlotForHour(t *testing.T) {
	slot, ok := SlotForHour(21)
	require.True(t, ok)
	require.Equal(t, "8-10 PM", slot.Label)

	_, ok = SlotForHour(22)
	require.False(t, ok)
	_, ok = SlotForHour(5)
	require.False(t, ok)
}

func TestHeartRateZones(t *testing.T) {
	zones := HeartRateZones([]int{171, 170, 94, 95, 114, 133, 152, 190}, 190)

	// bounds for 190: 95, 114, 133, 152, 171
	require.Equal(t, [5]int{1, 1, 1, 2, 2}, zones)
	require.Equal(t, [5]int{}, HeartRateZones([]int{120}, 0))
}

func TestHeartRateZoneFiveStartsAtNinetyPercent(t *testing.T) {
	zones := HeartRateZones([]int{171}, 190)
	require.Equal(t, 1, zones[4])
}

func TestHeartRateZonesUseExactBoundaries(t *testing.T) {
	// bounds for 191: 95.5, 114.6, 133.7, 152.8, 171.9
	require.Equal(t, [5]int{0, 0, 0, 1, 0}, HeartRateZones([]int{171}, 191))
	require.Equal(t, [5]int{0, 0, 0, 0, 1}, HeartRateZones([]int{172}, 191))
	require.Equal(t, [5]int{}, HeartRateZones([]int{95}, 191))
	require.Equal(t, [5]int{1, 0, 0, 0, 0}, HeartRateZones([]int{96}, 191))
	require.Equal(t, [5]int{0, 1, 0, 0, 0}, HeartRateZones([]int{115}, 191))
}

func TestMaxHeartRateForAge(t *testing.T) {
	require.Equal(t, 190, MaxHeartRateForAge(30))
}

func TestCountByType(t *testing.T) {
	now := testsupport.Reference
	counts := CountByType([]domain.WorkoutRecord{
		testsupport.Workout("a", now),
		testsupport.Workout("b", now, testsupport.WithType(domain.ActivityCardio)),
		testsupport.Workout("c", now, testsupport.WithType(domain.ActivityCardio)),
	})
	require.Equal(t, 1, counts[domain.ActivityStrength])
	require.Equal(t, 2, counts[domain.ActivityCardio])
}
