package stats

import (
	"slices"
	"time"
)

type Summary struct {
	Total         int        `json:"total"`
	DaysSinceLast *int       `json:"daysSinceLast"`
	LongestStreak int        `json:"longestStreak"`
	CurrentStreak int        `json:"currentStreak"`
	LongestGap    int        `json:"longestGap"`
	FirstEvent    *time.Time `json:"firstEvent"`
	LastEvent     *time.Time `json:"lastEvent"`
}

// Summarize computes totals, streaks and gaps in calendar days of loc.
// An empty slice yields the zero Summary.
func Summarize(events []Event, now time.Time, loc *time.Location) Summary {
	if len(events) == 0 {
		return Summary{}
	}

	sorted := sortedByTime(events)
	first := sorted[0].Timestamp
	last := sorted[len(sorted)-1].Timestamp

	days := make([]int, len(sorted))
	for i, e := range sorted {
		days[i] = dayNumber(e.Timestamp, loc)
	}

	today := dayNumber(now, loc)
	// future-dated entries count as today
	since := maxInt(today-days[len(days)-1], 0)

	distinct := slices.Compact(slices.Clone(days))

	return Summary{
		Total:         len(sorted),
		DaysSinceLast: &since,
		LongestStreak: longestStreak(distinct),
		CurrentStreak: currentStreak(distinct, today),
		LongestGap:    maxInt(longestHistoricalGap(days), since),
		FirstEvent:    &first,
		LastEvent:     &last,
	}
}

// longestStreak expects ascending distinct day numbers.
func longestStreak(days []int) int {
	if len(days) == 0 {
		return 0
	}

	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] == 1 {
			run++
		} else {
			run = 1
		}
		best = maxInt(best, run)
	}
	return best
}

// currentStreak is the run ending today or yesterday; a run that ended earlier is over.
func currentStreak(days []int, today int) int {
	if len(days) == 0 {
		return 0
	}

	i := len(days) - 1
	for i >= 0 && days[i] > today {
		i--
	}
	if i < 0 || today-days[i] > 1 {
		return 0
	}

	run := 1
	for ; i > 0 && days[i]-days[i-1] == 1; i-- {
		run++
	}
	return run
}

// longestHistoricalGap expects ascending day numbers; fewer than two yields 0.
func longestHistoricalGap(days []int) int {
	gap := 0
	for i := 1; i < len(days); i++ {
		gap = maxInt(gap, days[i]-days[i-1])
	}
	return gap
}
