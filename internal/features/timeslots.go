package features

import (
	"time"

	"example.com/fitanalytics/internal/domain"
)

// Slot is a fixed two-hour local-time training window.
type Slot struct {
	Index     int
	Label     string
	StartHour int
}

// Slots covers 06:00-22:00 in eight two-hour buckets.
var Slots = []Slot{
	{Index: 0, Label: "6-8 AM", StartHour: 6},
	{Index: 1, Label: "8-10 AM", StartHour: 8},
	{Index: 2, Label: "10-12 PM", StartHour: 10},
	{Index: 3, Label: "12-2 PM", StartHour: 12},
	{Index: 4, Label: "2-4 PM", StartHour: 14},
	{Index: 5, Label: "4-6 PM", StartHour: 16},
	{Index: 6, Label: "6-8 PM", StartHour: 18},
	{Index: 7, Label: "8-10 PM", StartHour: 20},
}

// SlotForHour returns the slot holding the given local hour.
func SlotForHour(hour int) (Slot, bool) {
	if hour < 6 || hour >= 22 {
		return Slot{}, false
	}
	return Slots[(hour-6)/2], true
}

// SlotStat summarises the records that fell into one slot.
type SlotStat struct {
	Slot          Slot
	Count         int
	MeanIntensity float64
	// Share is Count over the size of the whole input window, slotted or not.
	Share float64
}

// TimeSlotPerformance bins records by local start hour and reports the mean
// intensity per slot. Slots without records are omitted; the result is ordered
// by slot.
func TimeSlotPerformance(records []domain.WorkoutRecord, loc *time.Location) []SlotStat {
	if loc == nil {
		loc = time.UTC
	}

	var (
		counts [8]int
		sums   [8]float64
	)
	for _, r := range records {
		slot, ok := SlotForHour(r.Timestamp.In(loc).Hour())
		if !ok {
			continue
		}
		counts[slot.Index]++
		sums[slot.Index] += float64(r.Intensity)
	}

	out := make([]SlotStat, 0, len(Slots))
	for i, slot := range Slots {
		if counts[i] == 0 {
			continue
		}
		out = append(out, SlotStat{
			Slot:          slot,
			Count:         counts[i],
			MeanIntensity: sums[i] / float64(counts[i]),
			Share:         float64(counts[i]) / float64(len(records)),
		})
	}
	return out
}

// TimeSlotFrequency returns the most populated slot. Ties go to the earliest slot.
func TimeSlotFrequency(records []domain.WorkoutRecord, loc *time.Location) (SlotStat, bool) {
	stats := TimeSlotPerformance(records, loc)
	if len(stats) == 0 {
		return SlotStat{}, false
	}
	best := stats[0]
	for _, s := range stats[1:] {
		if s.Count > best.Count {
			best = s
		}
	}
	return best, true
}
