package strategy

import (
	"github.com/crillab/gophersat/solver"

	"github.com/monolearn/conmodel/constraint"
	"github.com/monolearn/conmodel/internal/logging"
	"github.com/monolearn/conmodel/learner"
	"github.com/monolearn/conmodel/oracle"
	"github.com/monolearn/conmodel/sparseset"
)

var gainanovLog = logging.For("strategy.gainanov")

// GainanovSAT maintains a propositional encoding over n Boolean
// variables (one per EXCLUDE index) whose models are sparse index
// sets not yet classified; every feasible/infeasible model found is
// walked to a maximal/minimal frontier element and blocked, so the
// next SAT call only ever proposes genuinely unclassified candidates
// (spec.md §4.E).
//
// gophersat (github.com/crillab/gophersat/solver) has no persistent
// incremental handle in its public surface the way pysat/cadical's
// IncrementalSolver does in the Python original, so each iteration
// re-parses the accumulated blocking clauses via solver.ParseSlice
// and builds a fresh solver.Solver — functionally equivalent, since
// every blocking clause from prior iterations is still included.
type GainanovSAT struct {
	Sense    Sense
	SaveRate int
	// Persist, if non-nil, is called every SaveRate insertions so the
	// caller can checkpoint sys to disk (spec.md §3 "periodically
	// serialized to a single file so learning can resume").
	Persist func(sys *learner.System)
}

func (g GainanovSAT) Run(sys *learner.System, o oracle.Oracle) error {
	n := sys.N
	// base tautologies ensure the solver sees all n variables even
	// before the first blocking clause is learned.
	base := make([][]int, n)
	for i := 0; i < n; i++ {
		base[i] = []int{i + 1, -(i + 1)}
	}
	var blocking [][]int
	insertions := 0

	for {
		clauses := append(append([][]int(nil), base...), blocking...)
		pb, err := solver.ParseSlice(clauses)
		if err != nil {
			return err
		}
		s := solver.New(pb)
		status := s.Solve()
		if status != solver.Sat {
			gainanovLog.Debug("no more models: learning complete")
			sys.MarkCompleteLower()
			sys.MarkCompleteUpper()
			return nil
		}

		model := s.Model()
		M := modelToSet(model, n)

		verdict, w := sys.Verdict(M)
		var feasible bool
		if verdict == learner.Unknown {
			var qw constraint.Constraint
			var err error
			feasible, qw, err = o.Query(M)
			if err != nil {
				return err
			}
			w = qw
		} else {
			feasible = verdict == learner.Feasible
		}

		order := candidateOrder(n, g.Sense)

		if feasible {
			cur := M
			for _, i := range order {
				if cur.Contains(i) {
					continue
				}
				cand := cur.Union(sparseset.New(i))
				ok, w2, err := o.Query(cand)
				if err != nil {
					return err
				}
				if ok {
					cur = cand
					w = w2
				}
			}
			sys.AddLower(cur, w, false)
			blocking = append(blocking, blockLower(cur, n))
		} else {
			cur := M
			for _, i := range order {
				if !cur.Contains(i) {
					continue
				}
				cand := removeIndex(cur, i)
				ok, _, err := o.Query(cand)
				if err != nil {
					return err
				}
				if !ok {
					cur = cand
				}
			}
			sys.AddUpper(cur)
			blocking = append(blocking, blockUpper(cur, n))
		}

		insertions++
		if g.SaveRate > 0 && g.Persist != nil && insertions%g.SaveRate == 0 {
			g.Persist(sys)
		}
	}
}

// modelToSet converts a gophersat boolean model (0-indexed, var i+1)
// into the sparse index set of variables assigned true.
func modelToSet(model []bool, n int) sparseset.Set {
	var idx []int
	for i := 0; i < n && i < len(model); i++ {
		if model[i] {
			idx = append(idx, i)
		}
	}
	return sparseset.New(idx...)
}

// blockLower forbids the SAT solver from proposing S or any superset
// of S again: ¬(∧_{i∈S} x_i), i.e. ∨_{i∈S} ¬x_i (spec.md §4.E).
func blockLower(s sparseset.Set, n int) []int {
	items := s.Items()
	clause := make([]int, len(items))
	for k, i := range items {
		clause[k] = -(i + 1)
	}
	return clause
}

// blockUpper forbids the SAT solver from proposing any subset of S
// again: ∨_{i∉S} x_i (spec.md §4.E).
func blockUpper(s sparseset.Set, n int) []int {
	var clause []int
	for i := 0; i < n; i++ {
		if !s.Contains(i) {
			clause = append(clause, i+1)
		}
	}
	return clause
}

// candidateOrder returns the order in which the greedy walk tries the
// indices [0,n): SenseMax tries them in descending order; SenseMin and
// SenseNone both keep ascending order.
func candidateOrder(n int, sense Sense) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	if sense == SenseMax {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func removeIndex(s sparseset.Set, v int) sparseset.Set {
	items := s.Items()
	out := make([]int, 0, len(items)-1)
	for _, i := range items {
		if i != v {
			out = append(out, i)
		}
	}
	return sparseset.New(out...)
}
