package extraprec

import (
	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/sparseset"
)

// Subspace is the extra-precision closure for affine-span problems
// (spec.md §4.B): a sparse index set S stands for the affine span of
// its points (offset = first point of S, basis = a GF(2) basis of the
// translated vectors), intersected with the EXCLUDE universe.
type Subspace struct {
	U *Universe
}

func NewSubspace(u *Universe) Subspace { return Subspace{U: u} }

type translatedRow struct {
	orig bitpoint.Point
	vec  bitpoint.Point
}

// Reduce returns the indices of a basis (Gaussian elimination over
// GF(2) on the translated vectors) together with the offset v0.
func (sp Subspace) Reduce(s sparseset.Set) (sparseset.Set, int) {
	if s.Len() == 0 {
		return s, 0
	}
	pts := sp.U.points(s)
	offset := pts[0]

	var rows []translatedRow
	for _, q := range pts {
		t := q.Xor(offset)
		if t.Bits != 0 {
			rows = append(rows, translatedRow{orig: q, vec: t})
		}
	}

	var basisOrig []bitpoint.Point
	top := 0
	for bit := 0; bit < sp.U.N; bit++ {
		mask := uint64(1) << uint(bit)
		pivot := -1
		for j := top; j < len(rows); j++ {
			if rows[j].vec.Bits&mask != 0 {
				pivot = j
				break
			}
		}
		if pivot < 0 {
			continue
		}
		rows[top], rows[pivot] = rows[pivot], rows[top]
		basisOrig = append(basisOrig, rows[top].orig)
		for k := top + 1; k < len(rows); k++ {
			if rows[k].vec.Bits&mask != 0 {
				rows[k].vec = rows[k].vec.Xor(rows[top].vec)
			}
		}
		top++
	}

	idx, skipped := sp.toIndices(append([]bitpoint.Point{offset}, basisOrig...))
	return idx, skipped
}

// Expand returns the affine span v0 ⊕ span(v0 ⊕ v : v ∈ S),
// intersected with the EXCLUDE universe. A positive skipped count
// means the span leaves the universe: the query is infeasible
// (spec.md §4.B, §4.C SubspaceOracle).
func (sp Subspace) Expand(s sparseset.Set) (sparseset.Set, int) {
	if s.Len() == 0 {
		return s, 0
	}
	pts := sp.U.points(s)
	offset := pts[0]

	span := map[uint64]bool{0: true}
	for _, q := range pts {
		t := q.Xor(offset)
		if t.Bits == 0 || span[t.Bits] {
			continue
		}
		cur := make([]uint64, 0, len(span))
		for p := range span {
			cur = append(cur, p)
		}
		for _, p := range cur {
			span[p^t.Bits] = true
		}
	}

	members := make([]bitpoint.Point, 0, len(span))
	for v := range span {
		members = append(members, bitpoint.FromBits(sp.U.N, v).Xor(offset))
	}
	return sp.toIndices(members)
}

func (sp Subspace) toIndices(pts []bitpoint.Point) (sparseset.Set, int) {
	var idx []int
	skipped := 0
	for _, p := range pts {
		if i, ok := sp.U.Point2Int[p]; ok {
			idx = append(idx, i)
		} else {
			skipped++
		}
	}
	return sparseset.New(idx...), skipped
}
