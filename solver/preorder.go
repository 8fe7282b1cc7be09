/*
preorder.go - Optional task pre-ordering strategies, preserved from an
earlier scheduler revision for deployments that depend on its exploration
order.

PURPOSE:
  The deficit-maximizing subgoal selection in daysolver.go already makes
  the backtracking search's outcome independent of task iteration order:
  whichever (task, skill) pair has the largest deficit is tackled first,
  regardless of the order tasks were supplied in. These strategies are
  therefore strictly advisory — set as DaySolver.PreorderTasks, they
  reorder the task list a DaySolver is handed before Solve runs the
  search, for callers that want parity with the earlier ordering
  heuristics, but change nothing about feasibility or the assignments
  produced.

USAGE:
  ds := solver.NewDaySolver(cal)
  ds.PreorderTasks = solver.RarityFirstOrder
  driver.DaySolver = ds

SEE ALSO:
  - solver/daysolver.go: DaySolver.PreorderTasks, applied in Solve
  - original_source/src/sss.py: WeeklyScheduler._try_order and
    _rarity_score, the direct ancestors of these four strategies
*/
package solver

import (
	"sort"

	"github.com/warp/shift-scheduler/core"
)

// PreorderStrategy reorders a day's active tasks before a solve. Purely
// advisory: DaySolver's own subgoal selection determines which task gets
// attempted first regardless of this ordering.
type PreorderStrategy func(tasks []core.Task, people []core.Person) []core.Task

// DefaultOrder sorts by total daily requirement descending, then by
// earliest EndTS, then by id — the original scheduler's default ordering.
func DefaultOrder(tasks []core.Task, _ []core.Person) []core.Task {
	out := append([]core.Task(nil), tasks...)
	sort.Slice(out, func(i, j int) bool {
		ti, tj := totalRequirement(out[i]), totalRequirement(out[j])
		if ti != tj {
			return ti > tj
		}
		if out[i].EndTS != out[j].EndTS {
			return out[i].EndTS < out[j].EndTS
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// RarityFirstOrder sorts tasks so that those whose requirements include
// the scarcest skill (by rarityScore) come first.
func RarityFirstOrder(tasks []core.Task, people []core.Person) []core.Task {
	out := append([]core.Task(nil), tasks...)
	sort.Slice(out, func(i, j int) bool {
		si, sj := maxRarity(out[i], tasks, people), maxRarity(out[j], tasks, people)
		if si != sj {
			return si > sj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func totalRequirement(t core.Task) int {
	total := 0
	for _, n := range t.DailyRequirements {
		total += n
	}
	return total
}

// rarityScore scores a skill by how oversubscribed it is: required count
// across tasks divided by the number of people who possess it. Higher
// means scarcer. (original_source/src/sss.py's _rarity_score.)
func rarityScore(skill string, tasks []core.Task, people []core.Person) float64 {
	demand := 0
	for _, t := range tasks {
		demand += t.DailyRequirements[skill]
	}
	supply := 0
	for _, p := range people {
		if p.HasSkill(skill) {
			supply++
		}
	}
	if supply == 0 {
		return float64(demand) * 1000
	}
	return float64(demand) / float64(supply)
}

// maxRarity is the highest rarityScore among t's required skills.
func maxRarity(t core.Task, tasks []core.Task, people []core.Person) float64 {
	max := 0.0
	for skill := range t.DailyRequirements {
		if s := rarityScore(skill, tasks, people); s > max {
			max = s
		}
	}
	return max
}

// EarliestEndFirstOrder sorts tasks by EndTS ascending, then id.
func EarliestEndFirstOrder(tasks []core.Task, _ []core.Person) []core.Task {
	out := append([]core.Task(nil), tasks...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].EndTS != out[j].EndTS {
			return out[i].EndTS < out[j].EndTS
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// BoundedPermutations returns every permutation of tasks when there are
// at most 6 of them (the original scheduler's cutoff for exhaustive
// ordering search), else just DefaultOrder's single ordering.
func BoundedPermutations(tasks []core.Task, people []core.Person) [][]core.Task {
	if len(tasks) > 6 {
		return [][]core.Task{DefaultOrder(tasks, people)}
	}
	var perms [][]core.Task
	var permute func(remaining, acc []core.Task)
	permute = func(remaining, acc []core.Task) {
		if len(remaining) == 0 {
			perms = append(perms, append([]core.Task(nil), acc...))
			return
		}
		for i := range remaining {
			next := append([]core.Task(nil), remaining[:i]...)
			next = append(next, remaining[i+1:]...)
			permute(next, append(acc, remaining[i]))
		}
	}
	permute(tasks, nil)
	return perms
}

// BoundedPermutationsOrder adapts BoundedPermutations into a single
// PreorderStrategy, so it can be plugged into DaySolver.PreorderTasks
// like the other three strategies: it enumerates every permutation (or
// falls back to DefaultOrder's single ordering above the 6-task cutoff,
// exactly as BoundedPermutations itself does) and returns whichever one
// scores lowest under permutationRarityScore — the ordering that tackles
// rare-skill tasks earliest, chosen by exhaustive comparison rather than
// a single sort.
func BoundedPermutationsOrder(tasks []core.Task, people []core.Person) []core.Task {
	perms := BoundedPermutations(tasks, people)
	best := perms[0]
	bestScore := permutationRarityScore(best, people)
	for _, perm := range perms[1:] {
		if score := permutationRarityScore(perm, people); score < bestScore {
			best, bestScore = perm, score
		}
	}
	return best
}

// permutationRarityScore weights each task's rarity score by its position
// in perm: tasks with scarce-skill requirements placed earlier contribute
// less, so a perm that front-loads rare-skill tasks scores lower.
func permutationRarityScore(perm []core.Task, people []core.Person) float64 {
	score := 0.0
	for i, t := range perm {
		for skill := range t.DailyRequirements {
			score += rarityScore(skill, perm, people) * float64(i)
		}
	}
	return score
}
