package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paularynty/climaxlog/internal/enum"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func eventsAt(t *testing.T, values ...string) []Event {
	t.Helper()
	events := make([]Event, 0, len(values))
	for i, v := range values {
		events = append(events, Event{
			ID:        uint(i + 1),
			Timestamp: at(t, v),
			Type:      enum.TypeFull,
			Partner:   enum.PartnerSolo,
		})
	}
	return events
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestSummarize_ConcreteScenario(t *testing.T) {
	t.Parallel()

	events := eventsAt(t,
		"2024-01-05T10:00:00Z",
		"2024-01-01T10:00:00Z",
		"2024-01-02T10:00:00Z",
	)

	got := Summarize(events, at(t, "2024-01-05T10:00:00Z"), time.UTC)

	assert.Equal(t, 3, got.Total)
	require.NotNil(t, got.DaysSinceLast)
	assert.Equal(t, 0, *got.DaysSinceLast)
	assert.Equal(t, 2, got.LongestStreak)
	assert.Equal(t, 3, got.LongestGap)
	assert.Equal(t, 1, got.CurrentStreak)
	require.NotNil(t, got.FirstEvent)
	assert.True(t, got.FirstEvent.Equal(at(t, "2024-01-01T10:00:00Z")))
	assert.True(t, got.LastEvent.Equal(at(t, "2024-01-05T10:00:00Z")))
}

func TestSummarize_StreakCountsDaysNotEvents(t *testing.T) {
	t.Parallel()

	events := eventsAt(t,
		"2024-03-10T01:00:00Z",
		"2024-03-10T13:00:00Z",
		"2024-03-10T23:59:00Z",
		"2024-03-11T08:00:00Z",
		"2024-03-12T08:00:00Z",
		"2024-03-12T09:00:00Z",
	)

	got := Summarize(events, at(t, "2024-03-12T12:00:00Z"), time.UTC)

	assert.Equal(t, 6, got.Total)
	assert.Equal(t, 3, got.LongestStreak)
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestGap)
}

func TestSummarize_SingleEvent(t *testing.T) {
	t.Parallel()

	got := Summarize(eventsAt(t, "2024-03-10T01:00:00Z"), at(t, "2024-03-10T05:00:00Z"), time.UTC)

	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, 0, got.LongestGap)
}

func TestSummarize_OngoingGapBeatsHistory(t *testing.T) {
	t.Parallel()

	events := eventsAt(t, "2024-01-01T12:00:00Z", "2024-01-11T12:00:00Z")

	t.Run("evaluated on the last day", func(t *testing.T) {
		got := Summarize(events, at(t, "2024-01-11T18:00:00Z"), time.UTC)
		require.NotNil(t, got.DaysSinceLast)
		assert.Equal(t, 0, *got.DaysSinceLast)
		assert.Equal(t, 10, got.LongestGap)
	})

	t.Run("dry spell longer than any gap", func(t *testing.T) {
		got := Summarize(events, at(t, "2024-01-26T18:00:00Z"), time.UTC)
		require.NotNil(t, got.DaysSinceLast)
		assert.Equal(t, 15, *got.DaysSinceLast)
		assert.Equal(t, 15, got.LongestGap)
		assert.Equal(t, 0, got.CurrentStreak)
	})
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	for _, now := range []string{"1999-01-01T00:00:00Z", "2024-06-01T12:00:00Z"} {
		got := Summarize(nil, at(t, now), time.UTC)

		assert.Equal(t, 0, got.Total)
		assert.Nil(t, got.DaysSinceLast)
		assert.Nil(t, got.FirstEvent)
		assert.Nil(t, got.LastEvent)
		assert.Zero(t, got.LongestStreak)
		assert.Zero(t, got.LongestGap)
		assert.Zero(t, got.CurrentStreak)
	}
}

func TestSummarize_UsesGivenLocationForDays(t *testing.T) {
	t.Parallel()

	// 23:30 UTC and 00:30 UTC the next day: two days in UTC, one in New York.
	events := eventsAt(t, "2024-01-01T23:30:00Z", "2024-01-02T00:30:00Z")
	now := at(t, "2024-01-02T03:00:00Z")

	utc := Summarize(events, now, time.UTC)
	assert.Equal(t, 2, utc.LongestStreak)
	assert.Equal(t, 1, utc.LongestGap)

	ny := Summarize(events, now, mustLoad(t, "America/New_York"))
	assert.Equal(t, 1, ny.LongestStreak)
	assert.Equal(t, 0, ny.LongestGap)
	require.NotNil(t, ny.DaysSinceLast)
	assert.Equal(t, 0, *ny.DaysSinceLast)
}

func TestSummarize_FutureEventClampsDaysSinceLast(t *testing.T) {
	t.Parallel()

	got := Summarize(eventsAt(t, "2024-05-10T10:00:00Z"), at(t, "2024-05-01T10:00:00Z"), time.UTC)

	require.NotNil(t, got.DaysSinceLast)
	assert.Equal(t, 0, *got.DaysSinceLast)
	assert.Equal(t, 0, got.CurrentStreak)
}

func TestGroupBy(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5, 6, 7}
	got := GroupBy(items, func(n int) bool { return n%2 == 0 })

	assert.Equal(t, []int{2, 4, 6}, got[true])
	assert.Equal(t, []int{1, 3, 5, 7}, got[false])
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, items)
}

func TestFilterRange(t *testing.T) {
	t.Parallel()

	events := eventsAt(t,
		"2024-01-01T00:00:00Z",
		"2024-02-01T00:00:00Z",
		"2024-03-01T00:00:00Z",
	)
	from := at(t, "2024-02-01T00:00:00Z")
	to := at(t, "2024-03-01T00:00:00Z")

	assert.Len(t, FilterRange(events, &from, &to), 1)
	assert.Len(t, FilterRange(events, &from, nil), 2)
	assert.Len(t, FilterRange(events, nil, &to), 2)
	assert.Len(t, FilterRange(events, nil, nil), 3)
}
