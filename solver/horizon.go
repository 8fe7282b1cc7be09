/*
horizon.go - Driver: sequences DaySolver across a horizon, carrying
rolling PlanStore history forward.

PURPOSE:
  A single Driver type parameterized by span, with NewWeekDriver and
  NewMonthDriver constructors computing the right start day and span.
  Run seeds each person's PreworkedInLast6 into the PlanStore via
  core.PlanStore.SeedPrework before solving its first day, mirroring the
  original scheduler's constructor building pre-horizon history.

SEE ALSO:
  - solver/daysolver.go: invoked once per active day
  - solver/departments.go, solver/month.go: convenience wrappers built on
    this driver
*/
package solver

import (
	"context"
	"time"

	"github.com/warp/shift-scheduler/core"
)

// TaskLister supplies the tasks active on any given day within a horizon.
type TaskLister interface {
	TasksActiveOn(day core.Day) []core.Task
}

// TaskSet is a slice-backed TaskLister: the common case where the caller
// has already fetched every task overlapping the horizon and wants it
// filtered per day via Task.ActiveOn.
type TaskSet struct {
	Calendar core.Calendar
	Tasks    []core.Task
}

// TasksActiveOn implements TaskLister.
func (s TaskSet) TasksActiveOn(day core.Day) []core.Task {
	start, end := s.Calendar.DayBounds(day)
	var out []core.Task
	for _, t := range s.Tasks {
		if t.ActiveOn(start, end) {
			out = append(out, t)
		}
	}
	return out
}

// Driver sequences DaySolver across a span of days, committing successful
// days into a PlanStore.
type Driver struct {
	Calendar  core.Calendar
	DaySolver *DaySolver
	StartDay  core.Day
	SpanDays  int
	// AllowFuture: when false, any day strictly after CurrentDay is
	// skipped with an empty DaySchedule.
	AllowFuture bool
	CurrentDay  core.Day
}

// NewWeekDriver builds a Driver for the Monday-anchored week containing
// anyDayInWeek.
//
// AllowFuture defaults to true: spec.md §6.2 defines no current_ts/
// allow_future field on the /calendar or /pto/approve wire formats, so
// this service never skips days as "in the future" on its own. Driver's
// AllowFuture and CurrentDay fields remain exported and settable by
// callers (e.g. a cron job computing only elapsed days) that want
// §4.5 step 2's skip-future-days behavior; this service just doesn't
// default to it.
func NewWeekDriver(cal core.Calendar, anyDayInWeek core.Day) *Driver {
	start := cal.MondayOnOrBefore(anyDayInWeek)
	return &Driver{Calendar: cal, DaySolver: NewDaySolver(cal), StartDay: start, SpanDays: 7, AllowFuture: true}
}

// NewMonthDriver builds a Driver spanning the Monday on/before the first
// of the month through the last Monday-anchored week touching the
// month's last day. See NewWeekDriver's doc comment for the AllowFuture
// default.
func NewMonthDriver(cal core.Calendar, year int, month time.Month) *Driver {
	first := cal.StartOfMonth(year, month)
	last := cal.EndOfMonth(year, month)

	start := cal.MondayOnOrBefore(first)
	lastWeekStart := cal.MondayOnOrBefore(last)
	spanEnd := lastWeekStart.AddDays(6)

	span := cal.DaysBetween(start, spanEnd) + 1
	return &Driver{Calendar: cal, DaySolver: NewDaySolver(cal), StartDay: start, SpanDays: span, AllowFuture: true}
}

// Run executes the driver. It commits successful days into store and
// returns the HorizonSchedule. ctx is checked for cancellation between
// day iterations.
func (d *Driver) Run(ctx context.Context, people []core.Person, tasks TaskLister, pto core.PTOMap, store *core.PlanStore) (core.HorizonSchedule, error) {
	store.SeedPrework(people, d.StartDay)

	endDay := d.StartDay.AddDays(d.SpanDays - 1)
	hs := core.HorizonSchedule{
		StartDay: d.StartDay,
		EndDay:   endDay,
		Feasible: true,
		Deficits: map[string]core.Deficit{},
	}

	for i := 0; i < d.SpanDays; i++ {
		select {
		case <-ctx.Done():
			return core.HorizonSchedule{}, core.ErrCancelled
		default:
		}

		day := d.StartDay.AddDays(i)

		if !d.AllowFuture && !d.CurrentDay.IsZero() && day.After(d.CurrentDay) {
			hs.Days = append(hs.Days, core.DaySchedule{Day: day})
			continue
		}

		activeToday := tasks.TasksActiveOn(day)
		if len(activeToday) == 0 {
			hs.Days = append(hs.Days, core.DaySchedule{Day: day})
			continue
		}

		ptoToday := map[string]struct{}{}
		if set, ok := pto[day]; ok {
			ptoToday = set
		}

		result := d.DaySolver.Solve(day, people, activeToday, store, ptoToday)
		if len(result.Deficit) > 0 {
			hs.Feasible = false
			hs.Violations = append(hs.Violations, day.ISO()+": could not satisfy all active tasks within constraints")
			hs.Deficits[day.ISO()] = result.Deficit
			hs.Days = append(hs.Days, core.DaySchedule{Day: day})
			continue
		}

		for _, a := range result.Schedule.Assignments {
			store.Commit(a.PersonID, day)
		}
		hs.Days = append(hs.Days, result.Schedule)
	}

	if !hs.Feasible {
		// Blank all committed DaySchedules per §4.5 / §9(b): the
		// authoritative signal is Feasible plus Violations, not partial
		// per-day output.
		for i := range hs.Days {
			hs.Days[i] = core.DaySchedule{Day: hs.Days[i].Day}
		}
	}

	return hs, nil
}
