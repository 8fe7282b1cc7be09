/*
Package wire converts JSON payloads at the service boundary into the
core's canonical Person/Task/PTOMap/PlanStore values, normalizing the
several variant key names a caller may use for the same field.

PURPOSE:
  Callers may send payloads using variant key names (`id` vs
  `person_id`, `start_epoch` vs `start`, `daily_requirements` vs
  `requirements`). Rather than sprinkle
  isinstance-style checks through the solver, every boundary does exactly
  one explicit parse-from-wire call here, which normalizes alternatives
  and raises InvalidInput on a missing required field.

USAGE:
  person, err := wire.ParsePerson(rawJSON)
  task, err := wire.ParseTask(rawJSON)
  store, err := wire.ParsePlanStore(rawJSON, cal)

SEE ALSO:
  - original_source/server/src/search/pto_tools.py:
    custom_person_constructor, custom_task_constructor,
    custom_planstore_constructor
*/
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/warp/shift-scheduler/core"
)

// PersonJSON is the wire representation of a Person, accepting both
// `person_id` and `id` for the identifier.
type PersonJSON struct {
	ID               string   `json:"person_id,omitempty"`
	AltID            string   `json:"id,omitempty"`
	Name             string   `json:"name,omitempty"`
	Skills           []string `json:"skills,omitempty"`
	PreworkedInLast6 int      `json:"preworked_in_last_6,omitempty"`
}

// ParsePerson parses a single JSON-encoded PersonJSON into a core.Person.
func ParsePerson(raw json.RawMessage) (core.Person, error) {
	var pj PersonJSON
	if err := json.Unmarshal(raw, &pj); err != nil {
		return core.Person{}, &core.InvalidInputError{Field: "person", Message: err.Error()}
	}
	return FromPersonJSON(pj)
}

// FromPersonJSON normalizes an already-decoded PersonJSON.
func FromPersonJSON(pj PersonJSON) (core.Person, error) {
	id := pj.ID
	if id == "" {
		id = pj.AltID
	}
	if id == "" {
		return core.Person{}, &core.InvalidInputError{Field: "person_id", Message: "person requires person_id or id"}
	}
	if pj.PreworkedInLast6 < 0 || pj.PreworkedInLast6 > 5 {
		return core.Person{}, &core.InvalidInputError{Field: "preworked_in_last_6", Message: "must be in [0, 5]"}
	}
	return core.Person{
		ID:               id,
		Name:             pj.Name,
		Skills:           core.NewSkillSet(pj.Skills),
		PreworkedInLast6: pj.PreworkedInLast6,
	}, nil
}

// TaskJSON is the wire representation of a Task, accepting `start_epoch`
// or `start`, `end_epoch` or `end`, and `daily_requirements` or
// `requirements` for the respective fields.
type TaskJSON struct {
	ID                string         `json:"task_id,omitempty"`
	AltID             string         `json:"id,omitempty"`
	Name              string         `json:"name,omitempty"`
	StartTS           *int64         `json:"start_epoch,omitempty"`
	AltStartTS        *int64         `json:"start,omitempty"`
	EndTS             *int64         `json:"end_epoch,omitempty"`
	AltEndTS          *int64         `json:"end,omitempty"`
	DailyRequirements map[string]int `json:"daily_requirements,omitempty"`
	AltRequirements   map[string]int `json:"requirements,omitempty"`
}

// ParseTask parses a single JSON-encoded TaskJSON into a core.Task.
func ParseTask(raw json.RawMessage) (core.Task, error) {
	var tj TaskJSON
	if err := json.Unmarshal(raw, &tj); err != nil {
		return core.Task{}, &core.InvalidInputError{Field: "task", Message: err.Error()}
	}
	return FromTaskJSON(tj)
}

// FromTaskJSON normalizes an already-decoded TaskJSON.
func FromTaskJSON(tj TaskJSON) (core.Task, error) {
	id := tj.ID
	if id == "" {
		id = tj.AltID
	}
	if id == "" {
		return core.Task{}, &core.InvalidInputError{Field: "task_id", Message: "task requires task_id or id"}
	}

	start := firstNonNil(tj.StartTS, tj.AltStartTS)
	end := firstNonNil(tj.EndTS, tj.AltEndTS)
	if start == nil || end == nil {
		return core.Task{}, &core.InvalidInputError{Field: "start/end", Message: "task requires start and end epoch seconds"}
	}
	if *end <= *start {
		return core.Task{}, &core.InvalidInputError{Field: "start/end", Message: "end must be after start"}
	}

	reqs := tj.DailyRequirements
	if reqs == nil {
		reqs = tj.AltRequirements
	}
	for skill, n := range reqs {
		if n <= 0 {
			return core.Task{}, &core.InvalidInputError{Field: "daily_requirements", Message: fmt.Sprintf("requirement for %q must be positive", skill)}
		}
	}

	return core.Task{
		ID:                id,
		Name:              tj.Name,
		StartTS:           *start,
		EndTS:             *end,
		DailyRequirements: reqs,
	}, nil
}

func firstNonNil(a, b *int64) *int64 {
	if a != nil {
		return a
	}
	return b
}

// ParsePeople parses a JSON array of PersonJSON.
func ParsePeople(raw json.RawMessage) ([]core.Person, error) {
	var list []PersonJSON
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &core.InvalidInputError{Field: "people", Message: err.Error()}
	}
	out := make([]core.Person, 0, len(list))
	for _, pj := range list {
		p, err := FromPersonJSON(pj)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ParseTasks parses a JSON array of TaskJSON.
func ParseTasks(raw json.RawMessage) ([]core.Task, error) {
	var list []TaskJSON
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &core.InvalidInputError{Field: "tasks", Message: err.Error()}
	}
	out := make([]core.Task, 0, len(list))
	for _, tj := range list {
		t, err := FromTaskJSON(tj)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
