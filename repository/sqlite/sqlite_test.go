package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-scheduler/core"
	"github.com/warp/shift-scheduler/repository"
	"github.com/warp/shift-scheduler/repository/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	cal := core.NewCalendar(time.UTC)
	store, err := sqlite.New(":memory:", cal)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_UpsertAndListPeople(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := core.Person{ID: "p1", Name: "Priya", Skills: core.NewSkillSet([]string{"RN", "Triage"}), PreworkedInLast6: 2}
	require.NoError(t, store.UpsertPerson(ctx, "er-ward", p))

	people, err := store.ListPeopleIn(ctx, "er-ward")
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "p1", people[0].ID)
	assert.True(t, people[0].HasSkill("RN"))
	assert.True(t, people[0].HasSkill("Triage"))
	assert.Equal(t, 2, people[0].PreworkedInLast6)
}

func TestStore_UpsertPerson_IsIdempotentUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertPerson(ctx, "dept", core.Person{ID: "p1", Name: "v1", Skills: core.NewSkillSet([]string{"RN"})}))
	require.NoError(t, store.UpsertPerson(ctx, "dept", core.Person{ID: "p1", Name: "v2", Skills: core.NewSkillSet([]string{"MD"})}))

	people, err := store.ListPeopleIn(ctx, "dept")
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "v2", people[0].Name)
	assert.True(t, people[0].HasSkill("MD"))
	assert.False(t, people[0].HasSkill("RN"))
}

func TestStore_ListTasksOverlapping(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	cal := core.NewCalendar(time.UTC)

	jan1 := core.NewDay(time.UTC, 2024, time.January, 1)
	jan3 := core.NewDay(time.UTC, 2024, time.January, 3)
	start, _ := cal.DayBounds(jan1)
	_, end := cal.DayBounds(jan3)

	task := core.Task{ID: "t1", Name: "ER", StartTS: start, EndTS: end, DailyRequirements: map[string]int{"RN": 1}}
	require.NoError(t, store.UpsertTask(ctx, "er-ward", task))

	tasks, err := store.ListTasksOverlapping(ctx, "er-ward", jan1, jan3)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, 1, tasks[0].DailyRequirements["RN"])

	// A range entirely after the task's active interval returns nothing.
	feb := core.NewDay(time.UTC, 2024, time.February, 1)
	none, err := store.ListTasksOverlapping(ctx, "er-ward", feb, feb)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_PTORoundTrip_OnlyApprovedReturned(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	jan1 := core.NewDay(time.UTC, 2024, time.January, 1)
	jan2 := core.NewDay(time.UTC, 2024, time.January, 2)

	require.NoError(t, store.WritePTO(ctx, "alice", []core.Day{jan1}, repository.PTOApproved))
	require.NoError(t, store.WritePTO(ctx, "bob", []core.Day{jan1}, repository.PTOPending))

	pto, err := store.ReadPTO(ctx, jan1, jan2)
	require.NoError(t, err)
	assert.True(t, pto.IsAbsent(jan1, "alice"))
	assert.False(t, pto.IsAbsent(jan1, "bob"), "pending records are not returned")
}

func TestStore_WritePTO_UpsertIsIdempotentByPersonAndDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	jan1 := core.NewDay(time.UTC, 2024, time.January, 1)

	require.NoError(t, store.WritePTO(ctx, "alice", []core.Day{jan1}, repository.PTOPending))
	require.NoError(t, store.WritePTO(ctx, "alice", []core.Day{jan1}, repository.PTOApproved))

	pto, err := store.ReadPTO(ctx, jan1, jan1)
	require.NoError(t, err)
	assert.True(t, pto.IsAbsent(jan1, "alice"))
}

func TestStore_DeletePTO(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	jan1 := core.NewDay(time.UTC, 2024, time.January, 1)

	require.NoError(t, store.WritePTO(ctx, "alice", []core.Day{jan1}, repository.PTOApproved))
	require.NoError(t, store.DeletePTO(ctx, "alice", []core.Day{jan1}))

	pto, err := store.ReadPTO(ctx, jan1, jan1)
	require.NoError(t, err)
	assert.False(t, pto.IsAbsent(jan1, "alice"))

	// Idempotent: deleting again is not an error.
	assert.NoError(t, store.DeletePTO(ctx, "alice", []core.Day{jan1}))
}

func TestStore_ListDepartments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertPerson(ctx, "er-ward", core.Person{ID: "p1", Name: "p1"}))
	require.NoError(t, store.UpsertPerson(ctx, "icu", core.Person{ID: "p2", Name: "p2"}))

	depts, err := store.ListDepartments(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"er-ward", "icu"}, depts)
}

var _ repository.Repository = (*sqlite.Store)(nil)
