package extraprec

import (
	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/sparseset"
)

// LowerSet is the extra-precision closure for monotone pools
// (spec.md §4.B): a sparse index set S stands for the full downward
// closure of its points (intersected with the EXCLUDE universe), and
// is canonicalized to the indices of its maximal points.
type LowerSet struct {
	U *Universe
}

func NewLowerSet(u *Universe) LowerSet { return LowerSet{U: u} }

// Expand returns the downward closure of S's points, intersected with
// the EXCLUDE universe. Always fully representable (skipped == 0)
// because the intersection is taken explicitly.
func (lp LowerSet) Expand(s sparseset.Set) (sparseset.Set, int) {
	if s.Len() == 0 {
		return s, 0
	}
	d := bitpoint.FromPoints(lp.U.N, lp.U.points(s)).LowerSet()
	idx, _ := lp.U.indices(d)
	return idx, 0
}

// Reduce returns the indices of the maximal points of S, i.e. the
// minimal representative whose downward closure equals expand(S).
func (lp LowerSet) Reduce(s sparseset.Set) (sparseset.Set, int) {
	if s.Len() == 0 {
		return s, 0
	}
	d := bitpoint.FromPoints(lp.U.N, lp.U.points(s)).MaxSet()
	idx, _ := lp.U.indices(d)
	return idx, 0
}
