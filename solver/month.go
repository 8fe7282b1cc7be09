/*
month.go - ScheduleMonth: convenience wrapper deriving the correct Monday-
anchored span for a calendar month and running a single Driver across it.

SEE ALSO:
  - original_source/server/src/search/pto_tools.py: generate_month_view,
    get_current_month_schedule
*/
package solver

import (
	"context"
	"time"

	"github.com/warp/shift-scheduler/core"
)

// ScheduleMonth runs NewMonthDriver for (year, month) against people,
// tasks, and pto, using store as the starting PlanStore (cloned
// internally, so the caller's store is never mutated by this call —
// callers wanting commits to persist should run the driver directly
// instead).
func ScheduleMonth(ctx context.Context, cal core.Calendar, year int, month time.Month, people []core.Person, tasks []core.Task, pto core.PTOMap, store *core.PlanStore) (core.HorizonSchedule, error) {
	driver := NewMonthDriver(cal, year, month)
	working := core.NewPlanStore()
	if store != nil {
		working = store.Clone()
	}
	return driver.Run(ctx, people, TaskSet{Calendar: cal, Tasks: tasks}, pto, working)
}
