// Package subsetcover implements the subset selector of spec.md §4.G:
// given a pool.Pool's finalized constraints, pick a minimum (or
// near-minimum) subset that still covers (refutes) every EXCLUDE
// point, via an exact from-scratch MILP branch-and-bound, a greedy
// heuristic (reinstated non-default per SPEC_FULL.md §4 item 5), or an
// external set-covering solver process.
package subsetcover

import (
	"context"
	"math"
	"sort"

	"github.com/monolearn/conmodel/internal/logging"
	"github.com/monolearn/conmodel/internal/simplex"
	"github.com/monolearn/conmodel/pool"
)

var log = logging.For("subsetcover")

// maxNodes bounds the branch-and-bound search: past this many explored
// nodes the best incumbent found so far is returned with Optimal=false
// rather than running unboundedly, since conmodel's simplex has no
// warm-start and re-solves every node's LP relaxation from scratch.
const maxNodes = 20000

// Result is the outcome of a subset-selection run (spec.md §4.G).
type Result struct {
	Selected []pool.Constraint
	Optimal  bool
}

// SelectMILP finds a minimum-cardinality subset of cs whose FSets
// cover [0,n) via branch-and-bound over the LP relaxation, using
// internal/simplex for each node (SPEC_FULL.md §3: "from-scratch
// primal-simplex-plus-branch-and-bound", ported from
// constraint_pool.py's create_subset_milp/subset_by_milp).
func SelectMILP(ctx context.Context, cs []pool.Constraint, n int) Result {
	log.WithField("constraints", len(cs)).WithField("points", n).Info("subsetcover: MILP branch-and-bound")

	byPoint := make([][]int, n)
	for i, c := range cs {
		for _, p := range c.FSet.Items() {
			if p < n {
				byPoint[p] = append(byPoint[p], i)
			}
		}
	}
	for p, lst := range byPoint {
		if len(lst) == 0 {
			log.WithField("point", p).Warn("subsetcover: no constraint covers this point; instance is infeasible")
		}
	}

	s := &searcher{cs: cs, n: n, byPoint: byPoint, best: nil, bestSize: math.MaxInt}

	root := make(map[int]int)
	optimal := s.branch(ctx, root, 0)

	if s.best == nil {
		return Result{Optimal: false}
	}
	out := make([]pool.Constraint, 0, len(s.best))
	for i := range s.best {
		out = append(out, cs[i])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FSet.Less(out[j].FSet) })
	return Result{Selected: out, Optimal: optimal}
}

type searcher struct {
	cs      []pool.Constraint
	n       int
	byPoint [][]int

	best     map[int]bool
	bestSize int
	nodes    int
}

// branch explores the node with variables fixed per `fixed` (index ->
// 0/1), returning whether the search completed exhaustively (false if
// cut short by the node budget or a cancelled context).
func (s *searcher) branch(ctx context.Context, fixed map[int]int, depth int) bool {
	s.nodes++
	if s.nodes > maxNodes {
		log.WithField("nodes", s.nodes).Warn("subsetcover: MILP node budget exceeded, returning best incumbent found")
		return false
	}
	select {
	case <-ctx.Done():
		return false
	default:
	}

	relax := s.solveRelaxation(fixed)
	if !relax.Feasible {
		return true // pruned: infeasible subtree
	}
	bound := int(math.Ceil(relax.Obj - 1e-6))
	if bound >= s.bestSize {
		return true // pruned: relaxation bound no better than incumbent
	}

	frac := mostFractional(relax.X, len(s.cs), fixed)
	if frac < 0 {
		// integral relaxation solution: it's a valid incumbent
		size := 0
		taken := make(map[int]bool)
		for i, v := range relax.X {
			if i >= len(s.cs) {
				break
			}
			if v > 0.5 {
				taken[i] = true
				size++
			}
		}
		if size < s.bestSize {
			s.bestSize = size
			s.best = taken
			log.WithField("size", size).Debug("subsetcover: new incumbent")
		}
		return true
	}

	// branch on the most fractional variable: try fixing to 1 first
	// (covers more, tends to find good incumbents sooner), then 0.
	complete := true
	for _, val := range []int{1, 0} {
		child := make(map[int]int, len(fixed)+1)
		for k, v := range fixed {
			child[k] = v
		}
		child[frac] = val
		if !s.branch(ctx, child, depth+1) {
			complete = false
		}
	}
	return complete
}

// solveRelaxation solves the LP relaxation with 0<=x<=1 bounds and the
// fixed-variable constraints folded in as extra rows.
func (s *searcher) solveRelaxation(fixed map[int]int) simplex.Solution {
	m := len(s.cs)
	obj := make([]float64, m)
	for i := range obj {
		obj[i] = 1
	}

	rows := make([]simplex.Row, 0, s.n+2*len(fixed)+m)
	for _, lst := range s.byPoint {
		if len(lst) == 0 {
			continue
		}
		coef := make([]float64, m)
		for _, i := range lst {
			coef[i] = 1
		}
		rows = append(rows, simplex.Row{Coef: coef, Sense: simplex.GE, RHS: 1})
	}
	for i := 0; i < m; i++ {
		coef := make([]float64, m)
		coef[i] = 1
		if v, ok := fixed[i]; ok {
			rows = append(rows, simplex.Row{Coef: coef, Sense: simplex.EQ, RHS: float64(v)})
		} else {
			rows = append(rows, simplex.Row{Coef: coef, Sense: simplex.LE, RHS: 1})
		}
	}

	return simplex.Solve(simplex.Problem{NumVars: m, Obj: obj, Rows: rows})
}

// mostFractional returns the index of the free variable closest to
// 0.5 (the classical branching rule), or -1 if every free variable is
// already integral.
func mostFractional(x []float64, m int, fixed map[int]int) int {
	best := -1
	bestDist := math.Inf(1)
	for i := 0; i < m; i++ {
		if _, ok := fixed[i]; ok {
			continue
		}
		v := x[i]
		if math.Abs(v-math.Round(v)) < 1e-6 {
			continue
		}
		dist := math.Abs(v - 0.5)
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}
