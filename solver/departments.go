/*
departments.go - ScheduleDepartments: runs one independent horizon per
department.

PURPOSE:
  Departments are scheduled in isolation. This is a thin convenience for callers
  computing a whole org's schedule so they don't loop by hand; it carries
  no state across department boundaries.

SEE ALSO:
  - original_source/server/src/search/pto_tools.py:
    schedule_all_departments_week
*/
package solver

import (
	"context"

	"github.com/warp/shift-scheduler/core"
)

// DepartmentInput bundles one department's independent scheduling inputs.
type DepartmentInput struct {
	Name    string
	People  []core.Person
	Tasks   []core.Task
	PTO     core.PTOMap
	History *core.PlanStore // committed days prior to the horizon; nil for none
}

// DepartmentResult pairs a department name with its HorizonSchedule.
type DepartmentResult struct {
	Department string
	Schedule   core.HorizonSchedule
	Err        error
}

// ScheduleDepartments runs driverFor(dept) independently against each
// department's own PlanStore, returning one result per department in
// input order. No state crosses a department boundary.
func ScheduleDepartments(ctx context.Context, cal core.Calendar, inputs []DepartmentInput, driverFor func(core.Calendar) *Driver) []DepartmentResult {
	results := make([]DepartmentResult, len(inputs))
	for i, in := range inputs {
		store := in.History
		if store == nil {
			store = core.NewPlanStore()
		} else {
			store = store.Clone()
		}
		driver := driverFor(cal)
		schedule, err := driver.Run(ctx, in.People, TaskSet{Calendar: cal, Tasks: in.Tasks}, in.PTO, store)
		results[i] = DepartmentResult{Department: in.Name, Schedule: schedule, Err: err}
	}
	return results
}
