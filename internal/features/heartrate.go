package features

// zonePercents are the lower bounds of zones 1-5 as a percentage of max heart rate.
var zonePercents = [5]int{50, 60, 70, 80, 90}

// HeartRateZones counts samples per training zone. Zone n spans
// [boundary(n), boundary(n+1)); zone 5 is open-ended and samples below 50% are
// not counted. Boundaries are exact: for maxHR=191 zone 5 starts at 171.9 bpm.
func HeartRateZones(samples []int, maxHR int) [5]int {
	var zones [5]int
	if maxHR <= 0 {
		return zones
	}

	for _, bpm := range samples {
		for z := len(zonePercents) - 1; z >= 0; z-- {
			if bpm*100 >= maxHR*zonePercents[z] {
				zones[z]++
				break
			}
		}
	}
	return zones
}

// MaxHeartRateForAge estimates max heart rate as 220 - age.
func MaxHeartRateForAge(age int) int {
	return 220 - age
}
