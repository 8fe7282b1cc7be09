/*
Package solver implements the deterministic backtracking day solver and the
horizon driver that sequences it across a planning window.

PURPOSE:
  DaySolver answers, for one calendar day, "can every active task's skill
  requirements be met by some subset of people, with each person working
  at most one task, respecting PTO and the rolling-cap PlanStore check?"
  If yes, it returns the assignments; if no, it returns a deficit report.
  It never raises an error for infeasibility — that is a normal outcome
  (core.Deficit), not an exception.

KEY CONCEPTS:
  - Subgoal selection: at each step, the (task, skill) pair with the
    largest outstanding deficit is tackled first.
  - Candidate ranking: eligible persons for a subgoal are ordered by
    multi-cover (most useful first), then recent-usage (least-used
    first), then name (stable tie-break).
  - Backtracking: an assignment is tentative until the recursive call
    beneath it succeeds; failure unwinds exactly the decrements and
    bookkeeping that attempt made.
  - Pre-ordering: DaySolver.PreorderTasks (preorder.go) optionally
    reorders a day's active tasks before the search runs; advisory only.

SEE ALSO:
  - original_source/src/sss.py: WeeklyScheduler._try_order and
    _attempt_day_with_backtracking, the direct algorithmic ancestor
  - core/planstore.go: CanAssign/CountInRange, consulted at every step
  - solver/preorder.go: the PreorderStrategy implementations
*/
package solver

import (
	"sort"

	"github.com/warp/shift-scheduler/core"
)

// DaySolver schedules a single day against a fixed Calendar. Stateless
// and safe for concurrent use; all mutable state lives in the per-call
// searchState.
type DaySolver struct {
	Calendar core.Calendar
	// PreorderTasks, if set, reorders a day's active tasks before the
	// backtracking search runs (see preorder.go). Purely a scheduling
	// hint: nextSubgoal's deficit-maximizing selection decides actual
	// assignment order regardless of the task slice's input order, so
	// this only changes which candidate ordering a deployment wanting
	// historical-parity exploration sees exercised, never feasibility
	// or the assignments produced. Nil means no reordering.
	PreorderTasks PreorderStrategy
}

// NewDaySolver returns a DaySolver using the given calendar for day-bounds
// computations.
func NewDaySolver(cal core.Calendar) *DaySolver {
	return &DaySolver{Calendar: cal}
}

// DayResult is the outcome of a single day's solve: either Schedule is
// populated and Deficit is empty, or vice versa. Never both.
type DayResult struct {
	Schedule core.DaySchedule
	Deficit  core.Deficit
}

// activeTask pairs a Task with the day-scoped mutable deficit counters
// derived from its DailyRequirements.
type activeTask struct {
	task    core.Task
	deficit map[string]int // skill -> remaining required count
}

// searchState is the mutable backtracking state for one call to Solve.
// Never reused across days or across calls.
type searchState struct {
	day         core.Day
	people      []core.Person
	peopleByID  map[string]core.Person
	tasks       []*activeTask
	tasksByID   map[string]*activeTask
	pto         map[string]struct{}
	store       *core.PlanStore
	assignedToday map[string]string // person id -> task id
	contributions map[string]map[string][]string // taskID -> personID -> skills
	order       []personTaskPick // history of tentative picks, for final assembly
}

type personTaskPick struct {
	personID string
	taskID   string
	skills   []string
}

// Solve schedules day D against the given people, the tasks active on D
// (callers filter with Task.ActiveOn before calling), a PlanStore view,
// and the set of person ids on PTO for D. It does not mutate store; the
// caller commits on success.
func (s *DaySolver) Solve(day core.Day, people []core.Person, tasksActive []core.Task, store *core.PlanStore, ptoToday map[string]struct{}) DayResult {
	if s.PreorderTasks != nil {
		tasksActive = s.PreorderTasks(tasksActive, people)
	}

	st := &searchState{
		day:           day,
		people:        people,
		peopleByID:    make(map[string]core.Person, len(people)),
		tasksByID:     make(map[string]*activeTask, len(tasksActive)),
		pto:           ptoToday,
		store:         store,
		assignedToday: make(map[string]string),
		contributions: make(map[string]map[string][]string, len(tasksActive)),
	}
	for _, p := range people {
		st.peopleByID[p.ID] = p
	}
	for _, t := range tasksActive {
		at := &activeTask{task: t, deficit: make(map[string]int, len(t.DailyRequirements))}
		for skill, n := range t.DailyRequirements {
			if n > 0 {
				at.deficit[skill] = n
			}
		}
		st.tasks = append(st.tasks, at)
		st.tasksByID[t.ID] = at
		st.contributions[t.ID] = make(map[string][]string)
	}

	if st.search() {
		return DayResult{Schedule: st.assemble()}
	}
	return DayResult{Deficit: st.residualDeficit()}
}

// search is the recursive backtracking step. Returns true once every
// subgoal is satisfied.
func (st *searchState) search() bool {
	task, skill, ok := st.nextSubgoal()
	if !ok {
		return true // all deficits <= 0
	}

	candidates := st.eligibleCandidates(task, skill)
	for _, personID := range candidates {
		skills := st.tentativeAssign(personID, task)

		if !st.store.CanAssign(personID, st.day, true) {
			st.undoAssign(personID, task, skills)
			continue
		}

		if st.search() {
			return true
		}

		st.undoAssign(personID, task, skills)
	}
	return false
}

// nextSubgoal selects the (task, skill) pair with the largest positive
// deficit, tie-broken by task name ascending then skill name ascending.
//
func (st *searchState) nextSubgoal() (*activeTask, string, bool) {
	type subgoal struct {
		task    *activeTask
		skill   string
		deficit int
	}
	var all []subgoal
	for _, t := range st.tasks {
		for skill, d := range t.deficit {
			if d > 0 {
				all = append(all, subgoal{task: t, skill: skill, deficit: d})
			}
		}
	}
	if len(all) == 0 {
		return nil, "", false
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.deficit != b.deficit {
			return a.deficit > b.deficit
		}
		if a.task.task.Name != b.task.task.Name {
			return a.task.task.Name < b.task.task.Name
		}
		return a.skill < b.skill
	})
	return all[0].task, all[0].skill, true
}

// eligibleCandidates returns person ids eligible for (task, skill), sorted
// by multi-cover descending, recent-usage ascending, name ascending.
//
func (st *searchState) eligibleCandidates(task *activeTask, skill string) []string {
	type ranked struct {
		id         string
		multiCover int
		recentUse  int
		name       string
	}
	var out []ranked
	for _, p := range st.people {
		if _, onPTO := st.pto[p.ID]; onPTO {
			continue
		}
		if _, assigned := st.assignedToday[p.ID]; assigned {
			continue
		}
		if !p.HasSkill(skill) {
			continue
		}
		if !personCoversAnyRequirement(p, task) {
			continue
		}
		if !st.store.CanAssign(p.ID, st.day, false) {
			continue
		}
		out = append(out, ranked{
			id:         p.ID,
			multiCover: multiCoverCount(p, task),
			recentUse:  st.store.CountInRange(p.ID, st.day.AddDays(-6), st.day.AddDays(-1)),
			name:       p.Name,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.multiCover != b.multiCover {
			return a.multiCover > b.multiCover
		}
		if a.recentUse != b.recentUse {
			return a.recentUse < b.recentUse
		}
		if a.name != b.name {
			return a.name < b.name
		}
		return a.id < b.id
	})
	ids := make([]string, len(out))
	for i, r := range out {
		ids[i] = r.id
	}
	return ids
}

// personCoversAnyRequirement reports whether p possesses at least one
// skill in task's requirement keys. Defensive filter kept even though
// callers already filtered on the chosen skill.
func personCoversAnyRequirement(p core.Person, task *activeTask) bool {
	for skill := range task.task.DailyRequirements {
		if p.HasSkill(skill) {
			return true
		}
	}
	return false
}

// multiCoverCount counts how many of task's still-positive-deficit
// skills p possesses.
func multiCoverCount(p core.Person, task *activeTask) int {
	n := 0
	for skill, d := range task.deficit {
		if d > 0 && p.HasSkill(skill) {
			n++
		}
	}
	return n
}

// tentativeAssign records personID against task: for every requirement
// skill the person possesses whose deficit is still positive, decrement
// the deficit and record the contribution. Returns the skills actually
// contributed, for undo.
func (st *searchState) tentativeAssign(personID string, task *activeTask) []string {
	p := st.peopleByID[personID]
	var skills []string
	for _, skill := range p.SortedSkills() {
		if d, ok := task.deficit[skill]; ok && d > 0 {
			task.deficit[skill]--
			skills = append(skills, skill)
		}
	}
	st.assignedToday[personID] = task.task.ID
	st.contributions[task.task.ID][personID] = skills
	st.order = append(st.order, personTaskPick{personID: personID, taskID: task.task.ID, skills: skills})
	return skills
}

// undoAssign reverses tentativeAssign exactly.
func (st *searchState) undoAssign(personID string, task *activeTask, skills []string) {
	for _, skill := range skills {
		task.deficit[skill]++
	}
	delete(st.assignedToday, personID)
	delete(st.contributions[task.task.ID], personID)
	if n := len(st.order); n > 0 && st.order[n-1].personID == personID && st.order[n-1].taskID == task.task.ID {
		st.order = st.order[:n-1]
	}
}

// residualDeficit returns the positive-only deficit map, keyed by task
// display name.
func (st *searchState) residualDeficit() core.Deficit {
	out := core.Deficit{}
	for _, t := range st.tasks {
		for skill, d := range t.deficit {
			if d > 0 {
				if out[t.task.Name] == nil {
					out[t.task.Name] = map[string]int{}
				}
				out[t.task.Name][skill] = d
			}
		}
	}
	return out
}

// assemble builds the final DaySchedule from committed tentative picks:
// Tasks in task-name order with each task's persons in person-name order,
// and Assignments in person-name order; person id breaks name ties so the
// order is deterministic.
func (st *searchState) assemble() core.DaySchedule {
	sortedTasks := make([]*activeTask, len(st.tasks))
	copy(sortedTasks, st.tasks)
	sort.Slice(sortedTasks, func(i, j int) bool { return sortedTasks[i].task.Name < sortedTasks[j].task.Name })

	ds := core.DaySchedule{Day: st.day}
	for _, t := range sortedTasks {
		contribs := st.contributions[t.task.ID]
		personIDs := make([]string, 0, len(contribs))
		for id := range contribs {
			personIDs = append(personIDs, id)
		}
		sort.Slice(personIDs, func(i, j int) bool {
			ni, nj := st.peopleByID[personIDs[i]].Name, st.peopleByID[personIDs[j]].Name
			if ni != nj {
				return ni < nj
			}
			return personIDs[i] < personIDs[j]
		})

		coverage := core.TaskCoverage{
			TaskID:        t.task.ID,
			TaskName:      t.task.Name,
			SkillCoverage: map[string][]string{},
			Contributions: map[string][]string{},
		}
		for skill := range t.task.DailyRequirements {
			coverage.SkillCoverage[skill] = nil
		}
		for _, personID := range personIDs {
			skills := contribs[personID]
			coverage.Contributions[personID] = skills
			for _, skill := range skills {
				coverage.SkillCoverage[skill] = append(coverage.SkillCoverage[skill], personID)
			}
			ds.Assignments = append(ds.Assignments, core.Assignment{
				Day:               st.day,
				PersonID:          personID,
				TaskID:            t.task.ID,
				SkillsContributed: skills,
			})
		}
		ds.Tasks = append(ds.Tasks, coverage)
	}
	sort.Slice(ds.Assignments, func(i, j int) bool {
		ai, aj := ds.Assignments[i].PersonID, ds.Assignments[j].PersonID
		ni, nj := st.peopleByID[ai].Name, st.peopleByID[aj].Name
		if ni != nj {
			return ni < nj
		}
		return ai < aj
	})
	return ds
}
