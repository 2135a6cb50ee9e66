package domain

// Stats summarises a user's check-in history.
type Stats struct {
	TotalCheckIns    int     `json:"totalCheckIns"`
	AverageIntensity float64 `json:"averageIntensity"`
	MostCommonMood   *Mood   `json:"mostCommonMood"`
}

// ComputeStats aggregates an ordered list of check-ins. The most common mood
// is the one with the highest count; ties go to the mood seen first in list.
func ComputeStats(list []CheckIn) Stats {
	if len(list) == 0 {
		return Stats{}
	}

	counts := make(map[Mood]int, len(moods))
	order := make([]Mood, 0, len(moods))
	sum := 0
	for _, c := range list {
		if _, seen := counts[c.Mood]; !seen {
			order = append(order, c.Mood)
		}
		counts[c.Mood]++
		sum += c.Intensity
	}

	best := order[0]
	for _, m := range order[1:] {
		if counts[m] > counts[best] {
			best = m
		}
	}

	return Stats{
		TotalCheckIns:    len(list),
		AverageIntensity: float64(sum) / float64(len(list)),
		MostCommonMood:   &best,
	}
}
