// Package stats derives statistics, calendar buckets and yearly reviews from a
// user's point events. Every function is pure: the caller passes the full event
// slice, the reference instant and the location used for calendar days.
//
// Callers must drop events without a timestamp and events of other users before
// calling into this package.
package stats

import (
	"slices"
	"time"

	"github.com/paularynty/climaxlog/internal/enum"
)

const (
	secondsPerDay = 24 * 60 * 60
	dateLayout    = "2006-01-02"
)

// Event is a point event with a known timestamp.
type Event struct {
	ID        uint            `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      enum.OrgasmType `json:"type"`
	Partner   enum.Partner    `json:"partner"`
}

// Interval is a chastity session. A nil End means the session is still open.
type Interval struct {
	ID    uint       `json:"id"`
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end"`
}

// GroupBy buckets items by key, keeping the input order inside each bucket.
func GroupBy[T any, K comparable](items []T, keyFn func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, item := range items {
		k := keyFn(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}

// FilterRange keeps events in [from, to). A nil bound is open.
func FilterRange(events []Event, from, to *time.Time) []Event {
	res := make([]Event, 0, len(events))
	for _, e := range events {
		if from != nil && e.Timestamp.Before(*from) {
			continue
		}
		if to != nil && !e.Timestamp.Before(*to) {
			continue
		}
		res = append(res, e)
	}
	return res
}

func sortedByTime(events []Event) []Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

// civilDay numbers the date y-m-d as days since 1970-01-01.
func civilDay(y int, m time.Month, d int) int {
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// dayNumber is the civil day of t as seen in loc. Projecting the local date onto
// UTC keeps day differences exact across DST changes.
func dayNumber(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	return civilDay(y, m, d)
}

func dayKey(day int) string {
	return time.Unix(int64(day)*secondsPerDay, 0).UTC().Format(dateLayout)
}

func daysInYear(year int) int {
	return civilDay(year+1, time.January, 1) - civilDay(year, time.January, 1)
}

// isoRow maps a weekday to a Monday-first row index.
func isoRow(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func countByDay(events []Event, loc *time.Location) map[int]int {
	counts := make(map[int]int, len(events))
	for _, e := range events {
		counts[dayNumber(e.Timestamp, loc)]++
	}
	return counts
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
