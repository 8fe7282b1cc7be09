/*
Package admission implements PTO admission control: given a candidate
absence request, decide whether the days surrounding it remain feasible
once that person is removed.

PURPOSE:
  Builds on solver.Driver without mutating the caller's live PlanStore.

KEY CONCEPTS:
  - Merge: baseline (already-approved) PTO, the candidate's own days, and
    any cohort (other pending, not-yet-approved) days combine by union
    per day.
  - Affected span: every Monday-anchored week from the earliest to the
    latest candidate day, inclusive.
  - Fresh vs strict: a property of which PlanStore the caller passes in,
    not a separate code path — an empty store answers "ignoring history,
    can others cover?"; a prepopulated one answers "given everyone's
    actual recent workload, can others cover?".

SEE ALSO:
  - original_source/server/src/search/pto_tools.py: get_effective_pto_map,
    _merge_pto_maps, can_approve_pto, can_approve_pto_strict
*/
package admission

import (
	"context"

	"github.com/warp/shift-scheduler/core"
	"github.com/warp/shift-scheduler/solver"
)

// Request is one candidate PTO approval to evaluate.
type Request struct {
	PersonID     string
	Days         []core.Day
	People       []core.Person
	Tasks        []core.Task
	BaselinePTO  core.PTOMap
	CohortPTO    core.PTOMap // other pending requests, merged in but not attributed to PersonID
	StartStore   *core.PlanStore
}

// Result is the outcome of an admission check. CombinedPTO is the merged
// map actually used for the reschedule, returned for callers that want to
// display or persist it.
type Result struct {
	Feasible     bool
	Violations   []string
	Deficits     map[string]core.Deficit
	Assignments  []core.Assignment
	CombinedPTO  core.PTOMap
}

// CanApprove merges req's PTO inputs, clones req.StartStore, and reruns
// the week driver over every Monday-anchored week touching req.Days,
// aggregating violations across weeks. It never mutates req.StartStore.
//
func CanApprove(ctx context.Context, cal core.Calendar, req Request) (Result, error) {
	if len(req.Days) == 0 {
		return Result{}, &core.InvalidInputError{Field: "pto_days", Message: "at least one candidate day is required"}
	}

	candidate := core.NewPTOMap(map[core.Day][]string{})
	for _, d := range req.Days {
		candidate[d] = map[string]struct{}{req.PersonID: {}}
	}
	combined := core.MergePTO(req.BaselinePTO, candidate, req.CohortPTO)

	minDay, maxDay := req.Days[0], req.Days[0]
	for _, d := range req.Days[1:] {
		if d.Before(minDay) {
			minDay = d
		}
		if d.After(maxDay) {
			maxDay = d
		}
	}

	startWeek := cal.MondayOnOrBefore(minDay)
	endWeek := cal.MondayOnOrBefore(maxDay)

	store := core.NewPlanStore()
	if req.StartStore != nil {
		store = req.StartStore.Clone()
	}

	result := Result{Feasible: true, Deficits: map[string]core.Deficit{}, CombinedPTO: combined}
	taskSet := solver.TaskSet{Calendar: cal, Tasks: req.Tasks}

	for week := startWeek; !week.After(endWeek); week = week.AddDays(7) {
		select {
		case <-ctx.Done():
			return Result{}, core.ErrCancelled
		default:
		}

		driver := solver.NewWeekDriver(cal, week)
		schedule, err := driver.Run(ctx, req.People, taskSet, combined, store)
		if err != nil {
			return Result{}, err
		}

		if !schedule.Feasible {
			result.Feasible = false
			result.Violations = append(result.Violations, schedule.Violations...)
			for day, deficit := range schedule.Deficits {
				result.Deficits[day] = deficit
			}
			continue
		}
		for _, ds := range schedule.Days {
			result.Assignments = append(result.Assignments, ds.Assignments...)
		}
	}

	return result, nil
}
