package admission_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-scheduler/admission"
	"github.com/warp/shift-scheduler/core"
)

func mondayDay(n int) core.Day {
	// January 1 2024 is a Monday.
	return core.NewDay(time.UTC, 2024, time.January, n)
}

// Scenario E — admission check: the sole MD requests PTO on
// two days the ER task is active; no substitute MD exists, so admission
// must be refused for exactly those two days.
func TestScenarioE_AdmissionCheck(t *testing.T) {
	cal := core.NewCalendar(time.UTC)

	rn := core.Person{ID: "p1", Name: "p1", Skills: core.NewSkillSet([]string{"RN"})}
	md := core.Person{ID: "p2", Name: "p2", Skills: core.NewSkillSet([]string{"MD", "ER"})}

	start, _ := cal.DayBounds(mondayDay(1))
	_, end := cal.DayBounds(mondayDay(7))
	task := core.Task{ID: "ER", Name: "ER", StartTS: start, EndTS: end, DailyRequirements: map[string]int{"RN": 1, "MD": 1}}

	startStore := core.NewPlanStore()

	result, err := admission.CanApprove(context.Background(), cal, admission.Request{
		PersonID:   "p2",
		Days:       []core.Day{mondayDay(2), mondayDay(3)},
		People:     []core.Person{rn, md},
		Tasks:      []core.Task{task},
		StartStore: startStore,
	})
	require.NoError(t, err)

	assert.False(t, result.Feasible)
	require.Contains(t, result.Deficits, mondayDay(2).ISO())
	require.Contains(t, result.Deficits, mondayDay(3).ISO())
	assert.Equal(t, 1, result.Deficits[mondayDay(2).ISO()]["ER"]["MD"])
	assert.Equal(t, 1, result.Deficits[mondayDay(3).ISO()]["ER"]["MD"])

	// The caller's starting store must be untouched.
	assert.False(t, startStore.AssignedOn("p1", mondayDay(1)))
	assert.False(t, startStore.AssignedOn("p2", mondayDay(1)))
}

func TestCanApprove_FeasibleWhenSubstituteExists(t *testing.T) {
	cal := core.NewCalendar(time.UTC)

	md1 := core.Person{ID: "md1", Name: "md1", Skills: core.NewSkillSet([]string{"MD"})}
	md2 := core.Person{ID: "md2", Name: "md2", Skills: core.NewSkillSet([]string{"MD"})}

	start, _ := cal.DayBounds(mondayDay(1))
	_, end := cal.DayBounds(mondayDay(7))
	task := core.Task{ID: "ER", Name: "ER", StartTS: start, EndTS: end, DailyRequirements: map[string]int{"MD": 1}}

	result, err := admission.CanApprove(context.Background(), cal, admission.Request{
		PersonID:   "md1",
		Days:       []core.Day{mondayDay(2)},
		People:     []core.Person{md1, md2},
		Tasks:      []core.Task{task},
		StartStore: core.NewPlanStore(),
	})
	require.NoError(t, err)
	assert.True(t, result.Feasible)
}

func TestCanApprove_MergesBaselineAndCohortPTO(t *testing.T) {
	cal := core.NewCalendar(time.UTC)
	md1 := core.Person{ID: "md1", Name: "md1", Skills: core.NewSkillSet([]string{"MD"})}
	md2 := core.Person{ID: "md2", Name: "md2", Skills: core.NewSkillSet([]string{"MD"})}
	md3 := core.Person{ID: "md3", Name: "md3", Skills: core.NewSkillSet([]string{"MD"})}

	start, _ := cal.DayBounds(mondayDay(1))
	_, end := cal.DayBounds(mondayDay(7))
	task := core.Task{ID: "ER", Name: "ER", StartTS: start, EndTS: end, DailyRequirements: map[string]int{"MD": 1}}

	// md3 already has an approved absence the same day via the baseline
	// map and md2 a pending one via the cohort map, so approving md1's
	// request leaves nobody to cover.
	baseline := core.NewPTOMap(map[core.Day][]string{mondayDay(2): {"md3"}})
	cohort := core.NewPTOMap(map[core.Day][]string{mondayDay(2): {"md2"}})

	result, err := admission.CanApprove(context.Background(), cal, admission.Request{
		PersonID:    "md1",
		Days:        []core.Day{mondayDay(2)},
		People:      []core.Person{md1, md2, md3},
		Tasks:       []core.Task{task},
		BaselinePTO: baseline,
		CohortPTO:   cohort,
		StartStore:  core.NewPlanStore(),
	})
	require.NoError(t, err)
	assert.False(t, result.Feasible)
	assert.True(t, result.CombinedPTO.IsAbsent(mondayDay(2), "md1"))
	assert.True(t, result.CombinedPTO.IsAbsent(mondayDay(2), "md2"))
	assert.True(t, result.CombinedPTO.IsAbsent(mondayDay(2), "md3"))
}

func TestCanApprove_RequiresAtLeastOneCandidateDay(t *testing.T) {
	cal := core.NewCalendar(time.UTC)
	_, err := admission.CanApprove(context.Background(), cal, admission.Request{
		PersonID:   "p1",
		StartStore: core.NewPlanStore(),
	})
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}
