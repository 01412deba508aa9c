package subsetcover

import (
	"math/rand"
	"sort"

	"github.com/monolearn/conmodel/pool"
)

// SelectGreedy is the reinstated-as-non-default greedy set-cover
// heuristic (SPEC_FULL.md §4 item 5): repeatedly pick the constraint
// that removes the most still-uncovered points, breaking near-ties
// randomly within eps of the best, run for the given number of
// restarts, and keep the smallest result. Never called by the
// Auto*-family selectors; ported from constraint_pool.py's
// commented-out choose_subset_greedy/choose_subset_greedy_once.
func SelectGreedy(cs []pool.Constraint, n int, iterations, eps int, rng *rand.Rand) Result {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	log.WithField("constraints", len(cs)).WithField("points", n).
		WithField("iterations", iterations).Info("subsetcover: greedy (non-default)")

	var best []pool.Constraint
	for itr := 0; itr < iterations; itr++ {
		cur := greedyOnce(cs, n, eps, rng)
		log.WithField("iteration", itr).WithField("size", len(cur)).Debug("subsetcover: greedy iteration done")
		if best == nil || len(cur) < len(best) {
			best = cur
		}
	}
	sort.Slice(best, func(i, j int) bool { return best[i].FSet.Less(best[j].FSet) })
	return Result{Selected: best, Optimal: false}
}

func greedyOnce(cs []pool.Constraint, n, eps int, rng *rand.Rand) []pool.Constraint {
	remaining := make([]map[int]bool, len(cs))
	for i, c := range cs {
		remaining[i] = make(map[int]bool, c.FSet.Len())
		for _, p := range c.FSet.Items() {
			if p < n {
				remaining[i][p] = true
			}
		}
	}
	byPoint := make([][]int, n)
	for i, c := range cs {
		for _, p := range c.FSet.Items() {
			if p < n {
				byPoint[p] = append(byPoint[p], i)
			}
		}
	}

	active := make(map[int]bool, len(cs))
	for i := range cs {
		active[i] = true
	}
	var chosen []int

	for len(active) > 0 {
		maxRemove := 0
		for i := range active {
			if len(remaining[i]) > maxRemove {
				maxRemove = len(remaining[i])
			}
		}
		if maxRemove == 0 {
			break
		}
		var cands []int
		for i := range active {
			if len(remaining[i]) >= maxRemove-eps {
				cands = append(cands, i)
			}
		}
		j := cands[rng.Intn(len(cands))]
		chosen = append(chosen, j)
		delete(active, j)

		for p := range remaining[j] {
			for _, i2 := range byPoint[p] {
				if rem, ok := remaining[i2]; ok {
					delete(rem, p)
					if len(rem) == 0 {
						delete(active, i2)
					}
				}
			}
		}
	}

	out := make([]pool.Constraint, len(chosen))
	for k, i := range chosen {
		out[k] = cs[i]
	}
	return out
}
