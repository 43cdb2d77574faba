package stats

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/paularynty/climaxlog/internal/enum"
)

type YearReview struct {
	Year       int               `json:"year"`
	TotalCount int               `json:"totalCount"`
	Breakdown  Breakdown         `json:"breakdown"`
	PerDay     DayHistogram      `json:"perDay"`
	Delays     DelayDistribution `json:"delays"`
	WeekHour   WeekHourDensity   `json:"weekHour"`
	Commit     CommitHeatmap     `json:"commit"`
	Timeline   []TimelineGroup   `json:"timeline"`
}

// BuildYearReview filters events to the local calendar year, sorts them once
// and derives every summary from that same slice.
func BuildYearReview(events []Event, year int, loc *time.Location, firstDayOfWeek time.Weekday) YearReview {
	inYear := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Timestamp.In(loc).Year() == year {
			inYear = append(inYear, e)
		}
	}
	sorted := sortedByTime(inYear)

	return YearReview{
		Year:       year,
		TotalCount: len(sorted),
		Breakdown:  buildBreakdown(sorted),
		PerDay:     buildDayHistogram(sorted, year, loc),
		Delays:     buildDelayDistribution(sorted),
		WeekHour:   buildWeekHourDensity(sorted, loc),
		Commit:     buildCommitHeatmap(sorted, year, loc, firstDayOfWeek),
		Timeline:   buildTimeline(sorted),
	}
}

type Breakdown struct {
	Total     int                                      `json:"total"`
	ByType    map[enum.OrgasmType]int                  `json:"byType"`
	ByPartner map[enum.Partner]int                     `json:"byPartner"`
	Matrix    map[enum.OrgasmType]map[enum.Partner]int `json:"matrix"`
}

func buildBreakdown(sorted []Event) Breakdown {
	b := Breakdown{
		Total:     len(sorted),
		ByType:    make(map[enum.OrgasmType]int, len(enum.OrgasmTypes)),
		ByPartner: make(map[enum.Partner]int, len(enum.Partners)),
		Matrix:    make(map[enum.OrgasmType]map[enum.Partner]int, len(enum.OrgasmTypes)),
	}

	for _, t := range enum.OrgasmTypes {
		b.ByType[t] = 0
		b.Matrix[t] = make(map[enum.Partner]int, len(enum.Partners))
		for _, p := range enum.Partners {
			b.Matrix[t][p] = 0
		}
	}
	for _, p := range enum.Partners {
		b.ByPartner[p] = 0
	}

	for _, e := range sorted {
		b.ByType[e.Type]++
		b.ByPartner[e.Partner]++
		if b.Matrix[e.Type] == nil {
			b.Matrix[e.Type] = make(map[enum.Partner]int)
		}
		b.Matrix[e.Type][e.Partner]++
	}

	return b
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DayHistogram lists active days and how many days had exactly k events.
type DayHistogram struct {
	Total      int        `json:"total"`
	ActiveDays int        `json:"activeDays"`
	MaxPerDay  int        `json:"maxPerDay"`
	Days       []DayCount `json:"days"`
	Frequency  []int      `json:"frequency"`
}

func buildDayHistogram(sorted []Event, year int, loc *time.Location) DayHistogram {
	h := DayHistogram{Total: len(sorted), Days: []DayCount{}}

	counts := countByDay(sorted, loc)
	keys := make([]int, 0, len(counts))
	for day, c := range counts {
		keys = append(keys, day)
		h.MaxPerDay = maxInt(h.MaxPerDay, c)
	}
	slices.Sort(keys)

	h.ActiveDays = len(keys)
	h.Frequency = make([]int, h.MaxPerDay+1)
	h.Frequency[0] = daysInYear(year) - h.ActiveDays

	for _, day := range keys {
		c := counts[day]
		h.Days = append(h.Days, DayCount{Date: dayKey(day), Count: c})
		h.Frequency[c]++
	}

	return h
}

// DelayBreakpoints split the inter-event delays into bins.
var DelayBreakpoints = []time.Duration{
	5 * time.Minute,
	time.Hour,
	3 * time.Hour,
	8 * time.Hour,
	24 * time.Hour,
	3 * 24 * time.Hour,
	10 * 24 * time.Hour,
}

var delayLabels = []string{"<5m", "5m-1h", "1h-3h", "3h-8h", "8h-1d", "1d-3d", "3d-10d", ">=10d"}

type DelayBin struct {
	Label string `json:"label"`
	// LogUpper is ln(upper / 1 day); nil for the unbounded last bin.
	LogUpper *float64 `json:"logUpper"`
	Count    int      `json:"count"`
}

type DelayDistribution struct {
	Total         int        `json:"total"`
	LogDelays     []float64  `json:"logDelays"`
	Bins          []DelayBin `json:"bins"`
	MedianSeconds float64    `json:"medianSeconds"`
}

// logDays is ln(seconds / 86400) with seconds clamped to at least one.
func logDays(seconds float64) float64 {
	return math.Log(math.Max(seconds, 1) / secondsPerDay)
}

func buildDelayDistribution(sorted []Event) DelayDistribution {
	d := DelayDistribution{
		LogDelays: []float64{},
		Bins:      make([]DelayBin, len(delayLabels)),
	}
	for i := range d.Bins {
		d.Bins[i].Label = delayLabels[i]
		if i < len(DelayBreakpoints) {
			upper := logDays(DelayBreakpoints[i].Seconds())
			d.Bins[i].LogUpper = &upper
		}
	}

	if len(sorted) < 2 {
		return d
	}

	seconds := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		delay := sorted[i].Timestamp.Sub(sorted[i-1].Timestamp)
		seconds = append(seconds, delay.Seconds())
		d.LogDelays = append(d.LogDelays, logDays(delay.Seconds()))
		d.Bins[delayBin(delay)].Count++
	}

	d.Total = len(seconds)
	d.MedianSeconds = median(seconds)
	return d
}

func delayBin(delay time.Duration) int {
	for i, bp := range DelayBreakpoints {
		if delay < bp {
			return i
		}
	}
	return len(DelayBreakpoints)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := slices.Clone(values)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

type HourSlot struct {
	Weekday string `json:"weekday"`
	Hour    int    `json:"hour"`
	Count   int    `json:"count"`
}

type WeekHourDensity struct {
	Total        int       `json:"total"`
	Cells        [7][]int  `json:"cells"`
	MostCommon   *HourSlot `json:"mostCommon"`
	Peak         *HourSlot `json:"peak"`
	PeakBinHours int       `json:"peakBinHours"`
}

const peakBinHours = 3

// buildWeekHourDensity reports the most common hour cell and the peak over
// 3-hour bins, matching the grid the dashboard draws. Ties go to the earliest
// Monday-first cell.
func buildWeekHourDensity(sorted []Event, loc *time.Location) WeekHourDensity {
	hourly := DayHourGrid(sorted, loc, 1)
	binned := DayHourGrid(sorted, loc, peakBinHours)

	return WeekHourDensity{
		Total:        hourly.Total,
		Cells:        hourly.Cells,
		MostCommon:   topCell(hourly),
		Peak:         topCell(binned),
		PeakBinHours: peakBinHours,
	}
}

func topCell(g HourGrid) *HourSlot {
	if g.Total == 0 {
		return nil
	}

	var best *HourSlot
	for row, cols := range g.Cells {
		for col, c := range cols {
			if best == nil || c > best.Count {
				best = &HourSlot{Weekday: g.Weekdays[row], Hour: col * g.BinHours, Count: c}
			}
		}
	}
	return best
}

type CommitDay struct {
	Date   string `json:"date"`
	Count  int    `json:"count"`
	InYear bool   `json:"inYear"`
}

type CommitWeek struct {
	Start string       `json:"start"`
	Days  [7]CommitDay `json:"days"`
}

// CommitHeatmap is a week x weekday grid covering the whole year; the first and
// last weeks are padded with days flagged outside the year.
type CommitHeatmap struct {
	FirstDayOfWeek time.Weekday `json:"firstDayOfWeek"`
	Weeks          []CommitWeek `json:"weeks"`
	Max            int          `json:"max"`
	Total          int          `json:"total"`
}

func buildCommitHeatmap(sorted []Event, year int, loc *time.Location, firstDayOfWeek time.Weekday) CommitHeatmap {
	counts := countByDay(sorted, loc)

	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(jan1.Weekday()) - int(firstDayOfWeek) + 7) % 7
	firstDay := civilDay(year, time.January, 1)
	lastDay := civilDay(year, time.December, 31)

	h := CommitHeatmap{FirstDayOfWeek: firstDayOfWeek, Weeks: []CommitWeek{}}
	for start := firstDay - offset; start <= lastDay; start += 7 {
		week := CommitWeek{Start: dayKey(start)}
		for i := 0; i < 7; i++ {
			day := start + i
			inYear := day >= firstDay && day <= lastDay
			c := 0
			if inYear {
				c = counts[day]
			}
			week.Days[i] = CommitDay{Date: dayKey(day), Count: c, InYear: inYear}
			h.Max = maxInt(h.Max, c)
			h.Total += c
		}
		h.Weeks = append(h.Weeks, week)
	}

	return h
}

type TimelineGroup struct {
	Partner enum.Partner `json:"partner"`
	Count   int          `json:"count"`
	Events  []Event      `json:"events"`
}

// buildTimeline groups the chronological events by partner, known partners in
// their display order first.
func buildTimeline(sorted []Event) []TimelineGroup {
	grouped := GroupBy(sorted, func(e Event) enum.Partner { return e.Partner })

	order := slices.Clone(enum.Partners)
	var extra []enum.Partner
	for p := range grouped {
		if !enum.IsPartner(string(p)) {
			extra = append(extra, p)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	order = append(order, extra...)

	groups := make([]TimelineGroup, 0, len(order))
	for _, p := range order {
		evs := grouped[p]
		if evs == nil {
			evs = []Event{}
		}
		groups = append(groups, TimelineGroup{Partner: p, Count: len(evs), Events: evs})
	}
	return groups
}
