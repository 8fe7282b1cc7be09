/*
planstore.go - Portable PlanStore wire parsing, accepting 3 equivalent
wire shapes.

SEE ALSO:
  - core/planstore.go: ToPortable/FromPortable, the canonical shape
  - original_source/server/src/search/pto_tools.py:
    custom_planstore_constructor
*/
package wire

import (
	"encoding/json"

	"github.com/warp/shift-scheduler/core"
)

// wrappedPlanStore matches the `{"days_by_person": {...}}` accepted shape.
type wrappedPlanStore struct {
	DaysByPerson core.PortablePlanStore `json:"days_by_person"`
}

// jsonStringPlanStore matches the `{"json": "<same JSON as string>"}`
// accepted shape.
type jsonStringPlanStore struct {
	JSON string `json:"json"`
}

// ParsePlanStore accepts any of 3 equivalent wire shapes: a bare
// person-id -> dates mapping, `{"days_by_person": {...}}`, or
// `{"json": "<same JSON as a string>"}`. Returns an empty PlanStore for a
// nil/empty payload.
func ParsePlanStore(raw json.RawMessage, cal core.Calendar) (*core.PlanStore, error) {
	if len(raw) == 0 {
		return core.NewPlanStore(), nil
	}

	var wrapped wrappedPlanStore
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.DaysByPerson != nil {
		return core.FromPortable(cal, wrapped.DaysByPerson)
	}

	var asString jsonStringPlanStore
	if err := json.Unmarshal(raw, &asString); err == nil && asString.JSON != "" {
		return ParsePlanStore(json.RawMessage(asString.JSON), cal)
	}

	var bare core.PortablePlanStore
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, &core.InvalidInputError{Field: "plan_store", Message: err.Error()}
	}
	return core.FromPortable(cal, bare)
}

// ParsePTOMap parses a `ISO-date -> [person_id]` JSON object into a
// core.PTOMap.
func ParsePTOMap(raw json.RawMessage, cal core.Calendar) (core.PTOMap, error) {
	if len(raw) == 0 {
		return core.PTOMap{}, nil
	}
	var byDate map[string][]string
	if err := json.Unmarshal(raw, &byDate); err != nil {
		return nil, &core.InvalidInputError{Field: "pto_map", Message: err.Error()}
	}
	out := make(map[core.Day][]string, len(byDate))
	for iso, ids := range byDate {
		day, err := core.ParseDay(cal.Location, iso)
		if err != nil {
			return nil, err
		}
		out[day] = ids
	}
	return core.NewPTOMap(out), nil
}
