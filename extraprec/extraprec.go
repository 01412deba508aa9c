// Package extraprec implements the pluggable reduce/expand closure
// operators of spec.md §4.B: Identity, LowerSet (monotone problems)
// and Subspace (affine-span problems). Both operations work over
// sparseset.Set values naming subsets of a fixed EXCLUDE universe.
package extraprec

import (
	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/sparseset"
)

// ExtraPrec is the closure operator contract of spec.md §4.B.
// Reduce returns the canonical (smallest) representative of S's
// equivalence class; Expand returns the full closure. Both report how
// many closure members fell outside the universe: informational for
// Reduce, a feasibility signal (query is infeasible) for Expand.
type ExtraPrec interface {
	Reduce(s sparseset.Set) (reduced sparseset.Set, skipped int)
	Expand(s sparseset.Set) (expanded sparseset.Set, skipped int)
}

// Universe maps EXCLUDE indices to/from their points, the shared
// lookup table LowerSet and Subspace both need to interpret a
// sparseset.Set of indices as a set of points.
type Universe struct {
	N         int
	Int2Point []bitpoint.Point
	Point2Int map[bitpoint.Point]int
}

// NewUniverse builds a Universe from the stably-sorted EXCLUDE points.
func NewUniverse(n int, points []bitpoint.Point) *Universe {
	u := &Universe{N: n, Int2Point: points, Point2Int: make(map[bitpoint.Point]int, len(points))}
	for i, p := range points {
		u.Point2Int[p] = i
	}
	return u
}

func (u *Universe) points(s sparseset.Set) []bitpoint.Point { return u.Points(s) }

// Points maps a sparseset.Set of EXCLUDE indices back to their
// points, in the set's ascending index order. Exported for oracle's
// SubspaceOracle, which needs the offset/basis points behind a
// reduced sparse index set to build a constraint.Subspace.
func (u *Universe) Points(s sparseset.Set) []bitpoint.Point {
	out := make([]bitpoint.Point, 0, s.Len())
	for _, i := range s.Items() {
		out = append(out, u.Int2Point[i])
	}
	return out
}

// indices maps a DenseSet's members back into the universe; any
// member without an index is counted as skipped.
func (u *Universe) indices(d *bitpoint.DenseSet) (sparseset.Set, int) {
	var idx []int
	skipped := 0
	for _, p := range d.ToPoints() {
		if i, ok := u.Point2Int[p]; ok {
			idx = append(idx, i)
		} else {
			skipped++
		}
	}
	return sparseset.New(idx...), skipped
}

// Identity is the no-extra-precision closure: reduce = expand = id.
type Identity struct{}

func (Identity) Reduce(s sparseset.Set) (sparseset.Set, int) { return s, 0 }
func (Identity) Expand(s sparseset.Set) (sparseset.Set, int) { return s, 0 }
