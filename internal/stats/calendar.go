package stats

import (
	"fmt"
	"time"
)

type HeatmapCell struct {
	Date      string  `json:"date"`
	Count     int     `json:"count"`
	Intensity float64 `json:"intensity"`
}

type Heatmap struct {
	Year     int           `json:"year"`
	Days     []HeatmapCell `json:"days"`
	MaxCount int           `json:"maxCount"`
	Total    int           `json:"total"`
}

// DailyHeatmap has one cell per day of year, in date order.
func DailyHeatmap(events []Event, year int, loc *time.Location) Heatmap {
	firstDay := civilDay(year, time.January, 1)
	n := daysInYear(year)

	counts := make([]int, n)
	total := 0
	for _, e := range events {
		idx := dayNumber(e.Timestamp, loc) - firstDay
		if idx < 0 || idx >= n {
			continue
		}
		counts[idx]++
		total++
	}

	maxCount := 0
	for _, c := range counts {
		maxCount = maxInt(maxCount, c)
	}

	denom := float64(maxInt(maxCount, 1))
	days := make([]HeatmapCell, n)
	for i, c := range counts {
		days[i] = HeatmapCell{
			Date:      dayKey(firstDay + i),
			Count:     c,
			Intensity: float64(c) / denom,
		}
	}

	return Heatmap{Year: year, Days: days, MaxCount: maxCount, Total: total}
}

type MonthCell struct {
	Date    string `json:"date"`
	Day     int    `json:"day"`
	InMonth bool   `json:"inMonth"`
	Count   int    `json:"count"`
	Locked  bool   `json:"locked"`
}

// MonthCalendar is a 6x7 grid whose rows start on FirstDayOfWeek.
type MonthCalendar struct {
	Year           int             `json:"year"`
	Month          time.Month      `json:"month"`
	FirstDayOfWeek time.Weekday    `json:"firstDayOfWeek"`
	Weeks          [6][7]MonthCell `json:"weeks"`
	Total          int             `json:"total"`
	LockedDays     int             `json:"lockedDays"`
}

// MonthGrid buckets events by local day and marks days overlapped by any
// interval. An open interval extends to now.
func MonthGrid(
	events []Event,
	intervals []Interval,
	year int,
	month time.Month,
	now time.Time,
	loc *time.Location,
	firstDayOfWeek time.Weekday,
) MonthCalendar {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	offset := (int(first.Weekday()) - int(firstDayOfWeek) + 7) % 7
	counts := countByDay(events, loc)

	cal := MonthCalendar{Year: year, Month: month, FirstDayOfWeek: firstDayOfWeek}

	for i := 0; i < 42; i++ {
		dayStart := time.Date(year, month, 1-offset+i, 0, 0, 0, 0, loc)
		dayEnd := time.Date(year, month, 1-offset+i+1, 0, 0, 0, 0, loc)
		y, m, d := dayStart.Date()

		cell := MonthCell{
			Date:    dayStart.Format(dateLayout),
			Day:     d,
			InMonth: y == year && m == month,
			Count:   counts[civilDay(y, m, d)],
			Locked:  overlapsAny(intervals, dayStart, dayEnd, now),
		}

		if cell.InMonth {
			cal.Total += cell.Count
			if cell.Locked {
				cal.LockedDays++
			}
		}

		cal.Weeks[i/7][i%7] = cell
	}

	return cal
}

func overlapsAny(intervals []Interval, dayStart, dayEnd, now time.Time) bool {
	for _, iv := range intervals {
		end := now
		if iv.End != nil {
			end = *iv.End
		}
		if iv.Start.Before(dayEnd) && end.After(dayStart) {
			return true
		}
	}
	return false
}

type WeekBlock struct {
	Week   int     `json:"week"`
	Start  string  `json:"start"`
	Count  int     `json:"count"`
	Events []Event `json:"events"`
}

// WeeklyBlocks has one block per ISO week of the ISO year. Events inside a
// block stay individual and ascend by timestamp.
func WeeklyBlocks(events []Event, year int, loc *time.Location) []WeekBlock {
	_, weeks := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -isoRow(jan4.Weekday()))

	blocks := make([]WeekBlock, weeks)
	for i := range blocks {
		blocks[i] = WeekBlock{
			Week:   i + 1,
			Start:  monday.AddDate(0, 0, 7*i).Format(dateLayout),
			Events: []Event{},
		}
	}

	for _, e := range sortedByTime(events) {
		y, w := e.Timestamp.In(loc).ISOWeek()
		if y != year {
			continue
		}
		b := &blocks[w-1]
		b.Events = append(b.Events, e)
		b.Count++
	}

	return blocks
}

var isoWeekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// HourGrid rows are ISO weekdays, Monday first; columns are hour bins.
type HourGrid struct {
	BinHours int      `json:"binHours"`
	Weekdays []string `json:"weekdays"`
	Cells    [7][]int `json:"cells"`
	Max      int      `json:"max"`
	Total    int      `json:"total"`
}

// DayHourGrid buckets events by weekday and hour. binHours is 1 or 3; anything
// else falls back to 1.
func DayHourGrid(events []Event, loc *time.Location, binHours int) HourGrid {
	if binHours != 3 {
		binHours = 1
	}
	cols := 24 / binHours

	grid := HourGrid{BinHours: binHours, Weekdays: isoWeekdayNames}
	for i := range grid.Cells {
		grid.Cells[i] = make([]int, cols)
	}

	for _, e := range events {
		lt := e.Timestamp.In(loc)
		row := isoRow(lt.Weekday())
		col := lt.Hour() / binHours
		grid.Cells[row][col]++
		grid.Total++
		grid.Max = maxInt(grid.Max, grid.Cells[row][col])
	}

	return grid
}

const radialSlots = 24 * 4

type RadialSlot struct {
	Slot   int     `json:"slot"`
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	Events []Event `json:"events"`
}

// Radial collapses all days onto 96 quarter-hour slots. Events sharing a slot
// are kept individually for stacked rendering.
func Radial(events []Event, loc *time.Location) []RadialSlot {
	grouped := GroupBy(sortedByTime(events), func(e Event) int {
		lt := e.Timestamp.In(loc)
		return (lt.Hour()*60 + lt.Minute()) / 15
	})

	slots := make([]RadialSlot, radialSlots)
	for i := range slots {
		evs := grouped[i]
		if evs == nil {
			evs = []Event{}
		}
		slots[i] = RadialSlot{
			Slot:   i,
			Label:  fmt.Sprintf("%02d:%02d", i/4, (i%4)*15),
			Count:  len(evs),
			Events: evs,
		}
	}

	return slots
}
