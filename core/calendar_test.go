package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-scheduler/core"
)

func TestCalendar_DayBounds(t *testing.T) {
	// GIVEN: a UTC calendar and a day in January
	cal := core.NewCalendar(time.UTC)
	d := core.NewDay(time.UTC, 2024, time.January, 15)

	// WHEN: computing its bounds
	start, end := cal.DayBounds(d)

	// THEN: start/end are exactly 24h apart, exclusive on the right
	assert.Equal(t, int64(24*3600), end-start)
	assert.Equal(t, d, cal.EpochToDate(start))
	assert.Equal(t, d, cal.EpochToDate(end-1))
	assert.Equal(t, d.AddDays(1), cal.EpochToDate(end))
}

func TestTask_ActiveOn_BoundaryExcludesStartAtEndOfDay(t *testing.T) {
	// GIVEN: a task whose active interval begins exactly at end_of_day(D)
	cal := core.NewCalendar(time.UTC)
	d := core.NewDay(time.UTC, 2024, time.January, 1)
	_, endOfDay := cal.DayBounds(d)

	task := core.Task{
		ID:      "t1",
		StartTS: endOfDay,
		EndTS:   endOfDay + 3600,
	}

	// THEN: it is not active on D (half-open interval)
	start, end := cal.DayBounds(d)
	assert.False(t, task.ActiveOn(start, end))
	// but it is active the next day
	nextStart, nextEnd := cal.DayBounds(d.AddDays(1))
	assert.True(t, task.ActiveOn(nextStart, nextEnd))
}

func TestCalendar_IterDays(t *testing.T) {
	cal := core.NewCalendar(time.UTC)
	start := core.NewDay(time.UTC, 2024, time.January, 29)
	end := core.NewDay(time.UTC, 2024, time.February, 2)

	days := cal.IterDays(start, end)

	require.Len(t, days, 5)
	assert.Equal(t, "2024-01-29", days[0].ISO())
	assert.Equal(t, "2024-02-02", days[4].ISO())
}

func TestCalendar_IterDays_EmptyWhenEndBeforeStart(t *testing.T) {
	cal := core.NewCalendar(time.UTC)
	start := core.NewDay(time.UTC, 2024, time.January, 2)
	end := core.NewDay(time.UTC, 2024, time.January, 1)

	assert.Nil(t, cal.IterDays(start, end))
}

func TestCalendar_MondayOnOrBefore(t *testing.T) {
	cal := core.NewCalendar(time.UTC)

	cases := []struct {
		day      core.Day
		expected string
	}{
		{core.NewDay(time.UTC, 2024, time.January, 1), "2024-01-01"},  // Monday itself
		{core.NewDay(time.UTC, 2024, time.January, 3), "2024-01-01"},  // Wednesday
		{core.NewDay(time.UTC, 2024, time.January, 7), "2024-01-01"},  // Sunday (end of week)
		{core.NewDay(time.UTC, 2024, time.January, 8), "2024-01-08"},  // next Monday
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, cal.MondayOnOrBefore(c.day).ISO())
	}
}

func TestCalendar_StartEndOfMonth(t *testing.T) {
	cal := core.NewCalendar(time.UTC)

	assert.Equal(t, "2024-02-01", cal.StartOfMonth(2024, time.February).ISO())
	assert.Equal(t, "2024-02-29", cal.EndOfMonth(2024, time.February).ISO()) // leap year
	assert.Equal(t, "2023-02-28", cal.EndOfMonth(2023, time.February).ISO())
}

func TestParseDay_RejectsMalformed(t *testing.T) {
	_, err := core.ParseDay(time.UTC, "not-a-date")
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}
