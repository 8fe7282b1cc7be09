/*
seed.go - Demo scenario seeding for a fresh database.

Loads a small baseline-feasibility scenario so a freshly started server
has something to compute a calendar for without requiring a client to
POST people/tasks first.
*/
package main

import (
	"context"

	"github.com/warp/shift-scheduler/core"
	"github.com/warp/shift-scheduler/repository/sqlite"
)

func seedDemoScenario(ctx context.Context, store *sqlite.Store, cal core.Calendar) error {
	const department = "er-ward"

	people := []core.Person{
		{ID: "p1", Name: "Priya", Skills: core.NewSkillSet([]string{"RN", "Triage"})},
		{ID: "p2", Name: "Marcus", Skills: core.NewSkillSet([]string{"MD", "ER"})},
		{ID: "p3", Name: "Dana", Skills: core.NewSkillSet([]string{"RN", "ICU"})},
	}
	for _, p := range people {
		if err := store.UpsertPerson(ctx, department, p); err != nil {
			return err
		}
	}

	horizonStart := cal.MondayOnOrBefore(cal.Today())
	startTS, _ := cal.DayBounds(horizonStart)
	_, endTS := cal.DayBounds(horizonStart.AddDays(2))

	task := core.Task{
		ID:                "t1",
		Name:              "ER",
		StartTS:           startTS,
		EndTS:             endTS,
		DailyRequirements: map[string]int{"RN": 1, "MD": 1},
	}
	return store.UpsertTask(ctx, department, task)
}
