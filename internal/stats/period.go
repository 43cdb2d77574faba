package stats

import "time"

type Granularity string

const (
	GranularityYear  Granularity = "year"
	GranularityMonth Granularity = "month"
	GranularityWeek  Granularity = "week"
)

func ParseGranularity(s string) (Granularity, bool) {
	switch g := Granularity(s); g {
	case GranularityYear, GranularityMonth, GranularityWeek:
		return g, true
	}
	return "", false
}

type PeriodComparison struct {
	Granularity         Granularity `json:"granularity"`
	CurrentPeriodStart  time.Time   `json:"currentPeriodStart"`
	CurrentTotal        int         `json:"currentTotal"`
	PreviousPeriodTotal *int        `json:"previousPeriodTotal"`
	AveragePerPeriod    *float64    `json:"averagePerPeriod"`
	CurrentVsAverage    *float64    `json:"currentVsAverage"`
	FullPeriods         int         `json:"fullPeriods"`
}

// ComparePeriods compares the current period with the previous one and with the
// average over fully elapsed periods since the effective join date, which is the
// earlier of joinedAt and the first event. A partial first period never counts,
// neither in the average nor as the previous period.
func ComparePeriods(
	events []Event,
	joinedAt, now time.Time,
	loc *time.Location,
	g Granularity,
	firstDayOfWeek time.Weekday,
) PeriodComparison {
	currentStart := periodStart(now, loc, g, firstDayOfWeek)
	nextStart := shiftPeriod(currentStart, g, 1)
	previousStart := shiftPeriod(currentStart, g, -1)

	effectiveJoin := effectiveJoinDate(events, joinedAt, now)

	firstFull := periodStart(effectiveJoin, loc, g, firstDayOfWeek)
	if !firstFull.Equal(effectiveJoin) {
		firstFull = shiftPeriod(firstFull, g, 1)
	}

	fullPeriods := 0
	for p := firstFull; p.Before(currentStart); p = shiftPeriod(p, g, 1) {
		fullPeriods++
	}

	var current, previous, inFullPeriods int
	for _, e := range events {
		ts := e.Timestamp
		if !ts.Before(currentStart) && ts.Before(nextStart) {
			current++
		}
		if !ts.Before(previousStart) && ts.Before(currentStart) {
			previous++
		}
		if !ts.Before(firstFull) && ts.Before(currentStart) {
			inFullPeriods++
		}
	}

	res := PeriodComparison{
		Granularity:        g,
		CurrentPeriodStart: currentStart,
		CurrentTotal:       current,
		FullPeriods:        fullPeriods,
	}

	// the previous period is reported only once it was a full one
	if !previousStart.Before(firstFull) {
		res.PreviousPeriodTotal = &previous
	}

	if fullPeriods > 0 {
		avg := float64(inFullPeriods) / float64(fullPeriods)
		diff := float64(current) - avg
		res.AveragePerPeriod = &avg
		res.CurrentVsAverage = &diff
	}

	return res
}

func effectiveJoinDate(events []Event, joinedAt, now time.Time) time.Time {
	join := joinedAt
	for _, e := range events {
		if join.IsZero() || e.Timestamp.Before(join) {
			join = e.Timestamp
		}
	}
	if join.IsZero() {
		return now
	}
	return join
}

// periodStart is the local midnight opening the period that contains t.
func periodStart(t time.Time, loc *time.Location, g Granularity, firstDayOfWeek time.Weekday) time.Time {
	lt := t.In(loc)
	y, m, d := lt.Date()

	switch g {
	case GranularityYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	case GranularityMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	default:
		offset := (int(lt.Weekday()) - int(firstDayOfWeek) + 7) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	}
}

func shiftPeriod(start time.Time, g Granularity, n int) time.Time {
	y, m, d := start.Date()
	loc := start.Location()

	switch g {
	case GranularityYear:
		return time.Date(y+n, m, d, 0, 0, 0, 0, loc)
	case GranularityMonth:
		return time.Date(y, m+time.Month(n), d, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d+7*n, 0, 0, 0, 0, loc)
	}
}
