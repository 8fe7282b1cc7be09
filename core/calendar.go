/*
Package core provides the domain-agnostic building blocks of the scheduling
engine: calendar arithmetic, the Person/Task/Assignment/PlanStore value
types, and the error taxonomy shared by every higher layer.

PURPOSE:
  Everything in this package is pure and side-effect free. It never talks to
  a repository, never does I/O, and never depends on wall-clock time except
  through values the caller supplies, apart from Calendar.Today, which
  reads the current time.

KEY CONCEPTS:
  - A Day is a calendar date normalized to a fixed time zone; all scheduling
    decisions are made in terms of Days, never raw timestamps.
  - A Calendar converts between absolute instants (epoch seconds) and Days,
    and knows how to walk sequences of Days and find week boundaries.

SEE ALSO:
  - core/types.go: Person, Task, Assignment, DaySchedule, HorizonSchedule
  - core/planstore.go: the per-person committed-day ledger
  - solver/daysolver.go: the component that actually schedules a day
*/
package core

import "time"

// Day is a calendar date, always normalized to midnight in a Calendar's
// fixed time zone. Days compare and sort using Before/After/Equal rather
// than raw time.Time comparison so callers never have to think about
// sub-day components leaking in.
type Day struct {
	t time.Time
}

// NewDay constructs a Day from a calendar year/month/day in the given
// location, truncating any time-of-day component.
func NewDay(loc *time.Location, year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, loc)}
}

func (d Day) Before(other Day) bool { return d.t.Before(other.t) }
func (d Day) After(other Day) bool  { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool  { return d.t.Equal(other.t) }

func (d Day) BeforeOrEqual(other Day) bool { return d.Before(other) || d.Equal(other) }
func (d Day) AfterOrEqual(other Day) bool  { return d.After(other) || d.Equal(other) }

// AddDays returns the Day n calendar days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// ISO renders the day as YYYY-MM-DD, the wire format used at every
// repository and service boundary.
func (d Day) ISO() string { return d.t.Format("2006-01-02") }

func (d Day) String() string { return d.ISO() }

// ParseDay parses an ISO-8601 (YYYY-MM-DD) date string in the given
// location. Returns InvalidInput-flavored error on malformed input.
func ParseDay(loc *time.Location, s string) (Day, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return Day{}, &InvalidInputError{Field: "date", Message: "not a valid YYYY-MM-DD date: " + s}
	}
	return Day{t: t}, nil
}

// Calendar is a fixed-time-zone policy object used for all conversions
// between absolute instants and calendar Days. The time zone is a
// configuration field, never a process-wide singleton.
type Calendar struct {
	Location *time.Location
}

// NewCalendar builds a Calendar for the given location. A nil location
// yields the UTC calendar.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc}
}

// DayBounds returns the local-midnight instants bounding D, exclusive on
// the right: [start_ts, end_ts).
func (c Calendar) DayBounds(d Day) (start, end int64) {
	local := time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 0, 0, 0, 0, c.Location)
	return local.Unix(), local.AddDate(0, 0, 1).Unix()
}

// EpochToDate returns the local calendar day containing the given epoch
// second.
func (c Calendar) EpochToDate(ts int64) Day {
	local := time.Unix(ts, 0).In(c.Location)
	return Day{t: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.Location)}
}

// IterDays returns the inclusive, finite sequence of Days from start to end.
//
func (c Calendar) IterDays(start, end Day) []Day {
	if end.Before(start) {
		return nil
	}
	days := make([]Day, 0, end.t.Sub(start.t)/(24*time.Hour)+1)
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// MondayOnOrBefore normalizes D to the Monday starting its week.
func (c Calendar) MondayOnOrBefore(d Day) Day {
	wd := int(d.Weekday())
	// time.Weekday: Sunday=0 ... Saturday=6. Distance back to Monday.
	offset := (wd + 6) % 7
	return d.AddDays(-offset)
}

// Today returns the current calendar day under this Calendar's time zone.
func (c Calendar) Today() Day {
	now := time.Now().In(c.Location)
	return Day{t: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.Location)}
}

// DaysBetween returns the number of calendar days from start to end
// (negative if end precedes start).
func (c Calendar) DaysBetween(start, end Day) int {
	// Compare the calendar dates in UTC so a DST change inside the range
	// (a 23h or 25h local day) does not shift the count.
	a := time.Date(start.t.Year(), start.t.Month(), start.t.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(end.t.Year(), end.t.Month(), end.t.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

// StartOfMonth returns the first day of the given year/month in this
// calendar's location. Month overflow (e.g. month 13) normalizes forward
// a year, matching time.Date's standard behavior.
func (c Calendar) StartOfMonth(year int, month time.Month) Day {
	return NewDay(c.Location, year, month, 1)
}

// EndOfMonth returns the last day of the given year/month.
func (c Calendar) EndOfMonth(year int, month time.Month) Day {
	return c.StartOfMonth(year, month+1).AddDays(-1)
}

// IsZero reports whether d is the unset zero value of Day.
func (d Day) IsZero() bool { return d.t.IsZero() }
