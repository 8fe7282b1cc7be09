/*
planstore.go - PlanStore: the mutable per-person committed-day ledger.

PURPOSE:
  A PlanStore tracks, for each person, which days within a rolling 7-day
  window they are already committed to work. The solver consults it before
  making an assignment (can_assign) and updates it after (commit). Cloning
  a PlanStore is how the admission layer explores a hypothetical future
  without mutating the live store.

KEY CONCEPTS:
  - assigned_on(person, day): already committed?
  - count_in_window(person, day): how many days in [day-6, day] are
    already committed, counting day as well if pending_same_day.
  - can_assign applies the rolling-cap threshold (see below).
  - seed_prework(people, startDay): translates Person.PreworkedInLast6
    into committed pre-horizon days, so a fresh store reflects recent
    workload before day 0 is ever solved.

USAGE:
  ps := core.NewPlanStore()
  if ps.CanAssign(personID, day, false) {
      ps.Commit(personID, day)
  }
  clone := ps.Clone() // independent copy for a hypothetical reschedule

SEE ALSO:
  - solver/daysolver.go: the only caller of CanAssign during a solve
  - solver/horizon.go: Driver.Run calls SeedPrework once per store before
    solving its first day, and Commits each successful day
  - admission/admission.go, solver/month.go, solver/departments.go: take
    a Clone so the caller's store is not mutated
*/
package core

import "sort"

// PlanStore is the rolling-window ledger of committed person-days. Not
// safe for concurrent use by multiple goroutines; callers needing
// parallelism should Clone and solve each clone independently.
type PlanStore struct {
	// days maps person id -> sorted slice of committed Days (ascending,
	// deduplicated).
	days map[string][]Day
	// preworkSeeded tracks which person ids have already had
	// Person.PreworkedInLast6 translated into committed pre-horizon days
	// via SeedPrework, so a store driven through several consecutive
	// Driver.Run calls (e.g. admission's per-week loop) only seeds once.
	preworkSeeded map[string]struct{}
}

// NewPlanStore returns an empty PlanStore.
func NewPlanStore() *PlanStore {
	return &PlanStore{days: make(map[string][]Day)}
}

// AssignedOn reports whether person is already committed on day.
func (s *PlanStore) AssignedOn(personID string, day Day) bool {
	idx := s.search(personID, day)
	list := s.days[personID]
	return idx < len(list) && list[idx].Equal(day)
}

// search returns the insertion index for day within personID's sorted
// slice via binary search.
func (s *PlanStore) search(personID string, day Day) int {
	list := s.days[personID]
	return sort.Search(len(list), func(i int) bool {
		return !list[i].Before(day)
	})
}

// CountInRange returns the number of committed days for person within the
// inclusive range [lo, hi].
func (s *PlanStore) CountInRange(personID string, lo, hi Day) int {
	count := 0
	for _, d := range s.days[personID] {
		if d.AfterOrEqual(lo) && d.BeforeOrEqual(hi) {
			count++
		}
	}
	return count
}

// CountInWindow returns how many days in the inclusive window
// [day-6, day] are committed for person. When pendingSameDay is true and
// day itself is not yet committed, day is counted as a pending addition
// (plus 1); a committed day is counted once either way.
func (s *PlanStore) CountInWindow(personID string, day Day, pendingSameDay bool) int {
	count := s.CountInRange(personID, day.AddDays(-6), day)
	if pendingSameDay && !s.AssignedOn(personID, day) {
		count++
	}
	return count
}

// CanAssign reports whether person may be assigned on day without
// breaching the rolling cap of 5 committed days in any 7.
//
// When pendingSameDay is false, the caller is asking "if I add day to the
// window, would the 7-day window ending on day contain more than 5
// committed days?" — a person already committed on day is rejected, and
// otherwise the window count (excluding day) is compared against <= 4.
// When pendingSameDay is true, day is already counted as part of the
// hypothetical (whether or not it has been committed), so the check
// compares the inclusive count against <= 5.
func (s *PlanStore) CanAssign(personID string, day Day, pendingSameDay bool) bool {
	if pendingSameDay {
		return s.CountInWindow(personID, day, true) <= 5
	}
	if s.AssignedOn(personID, day) {
		return false
	}
	return s.CountInWindow(personID, day, false) <= 4
}

// Commit records person as working on day. Idempotent.
func (s *PlanStore) Commit(personID string, day Day) {
	list := s.days[personID]
	idx := sort.Search(len(list), func(i int) bool { return !list[i].Before(day) })
	if idx < len(list) && list[idx].Equal(day) {
		return
	}
	list = append(list, Day{})
	copy(list[idx+1:], list[idx:])
	list[idx] = day
	s.days[personID] = list
}

// Uncommit removes person's commitment on day, if present. The admission
// layer does not use it: it reschedules against a Clone instead.
func (s *PlanStore) Uncommit(personID string, day Day) {
	list := s.days[personID]
	idx := sort.Search(len(list), func(i int) bool { return !list[i].Before(day) })
	if idx >= len(list) || !list[idx].Equal(day) {
		return
	}
	s.days[personID] = append(list[:idx], list[idx+1:]...)
}

// Preload seeds the store with already-committed days, e.g. loaded from a
// repository before a solve.
func (s *PlanStore) Preload(personID string, days []Day) {
	for _, d := range days {
		s.Commit(personID, d)
	}
}

// SeedPrework translates each person's PreworkedInLast6 into committed
// days immediately preceding startDay, so the rolling cap sees a
// person's recent workload before the very first day of a horizon is
// solved. A person is seeded at most once per store: callers that run
// several consecutive Driver.Run calls against the same store (the
// admission layer's per-week loop) only seed relative to the first call,
// so real commits from an earlier week are never papered over by
// synthetic history computed against a later week's start day.
//
// The fill order commits the OLDEST of the 6 pre-horizon days first, so
// the day immediately before startDay is always left open (at most 5 of
// the 6 days are seeded), and more open days follow when
// PreworkedInLast6 < 5. This reproduces the spec's documented
// decline-then-recap behavior (a committed pre-horizon day falls out of
// the window, one day at a time, as the horizon advances, so a person at
// the cap on day 0 becomes available again on day 1). The original
// scheduler's constructor fills newest-first instead; that order does
// not reproduce the decline, so this is a deliberate departure from the
// letter of the source in favor of the scenario it is meant to produce.
func (s *PlanStore) SeedPrework(people []Person, startDay Day) {
	if s.preworkSeeded == nil {
		s.preworkSeeded = make(map[string]struct{})
	}
	for _, p := range people {
		if _, done := s.preworkSeeded[p.ID]; done {
			continue
		}
		s.preworkSeeded[p.ID] = struct{}{}

		n := p.PreworkedInLast6
		if n > 5 {
			n = 5
		}
		if n <= 0 {
			continue
		}
		for offset := 7 - n; offset <= 6; offset++ {
			s.Commit(p.ID, startDay.AddDays(-offset))
		}
	}
}

// Clone returns an independent deep copy of the store: the admission
// layer takes a Clone and reschedules the affected weeks against it;
// the clone is never written back to the original.
func (s *PlanStore) Clone() *PlanStore {
	clone := &PlanStore{
		days:          make(map[string][]Day, len(s.days)),
		preworkSeeded: make(map[string]struct{}, len(s.preworkSeeded)),
	}
	for person, list := range s.days {
		cp := make([]Day, len(list))
		copy(cp, list)
		clone.days[person] = cp
	}
	for person := range s.preworkSeeded {
		clone.preworkSeeded[person] = struct{}{}
	}
	return clone
}

// PortablePlanStore is the wire representation of a PlanStore: person id
// to list of ISO-8601 committed dates.
type PortablePlanStore map[string][]string

// ToPortable serializes the store to its canonical wire shape.
func (s *PlanStore) ToPortable() PortablePlanStore {
	out := make(PortablePlanStore, len(s.days))
	for person, list := range s.days {
		iso := make([]string, len(list))
		for i, d := range list {
			iso[i] = d.ISO()
		}
		out[person] = iso
	}
	return out
}

// FromPortable rebuilds a PlanStore from its canonical wire shape, parsing
// each date under the given Calendar's time zone.
func FromPortable(cal Calendar, p PortablePlanStore) (*PlanStore, error) {
	s := NewPlanStore()
	for person, dates := range p {
		for _, iso := range dates {
			d, err := ParseDay(cal.Location, iso)
			if err != nil {
				return nil, err
			}
			s.Commit(person, d)
		}
	}
	return s, nil
}
