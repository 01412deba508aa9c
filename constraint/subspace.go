package constraint

import (
	"fmt"
	"strings"

	"github.com/monolearn/conmodel/bitpoint"
)

// Subspace is an affine subspace of {0,1}^n given by an offset point
// plus a GF(2) linear basis (spec.md §3): {Offset ⊕ v : v ∈ span(Basis)}.
type Subspace struct {
	Offset bitpoint.Point
	Basis  []bitpoint.Point
}

func (s Subspace) Satisfy(p bitpoint.Point) bool {
	return gf2Reduce(p.Xor(s.Offset), s.Basis).Bits == 0
}

// Reorient flips Offset by direction; Basis is invariant because the
// coordinate-flip map commutes with translation by a fixed mask
// (spec.md §3, §8: reorientation is an involution).
func (s Subspace) Reorient(direction []int) Constraint {
	return Subspace{Offset: s.Offset.FlipWhere(direction), Basis: s.Basis}
}

func (s Subspace) String() string {
	parts := make([]string, len(s.Basis))
	for i, v := range s.Basis {
		parts[i] = v.String()
	}
	return fmt.Sprintf("offset=%s span=[%s]", s.Offset, strings.Join(parts, ","))
}

// gf2Reduce reduces v against basis (treated as an independent set of
// GF(2) vectors, not necessarily pre-echelonized) and returns the
// remainder; the remainder is zero iff v ∈ span(basis).
func gf2Reduce(v bitpoint.Point, basis []bitpoint.Point) bitpoint.Point {
	rows := append([]bitpoint.Point(nil), basis...)
	used := make([]bool, len(rows))
	for bit := 0; bit < v.N; bit++ {
		mask := uint64(1) << uint(bit)
		pivot := -1
		for i, r := range rows {
			if !used[i] && r.Bits&mask != 0 {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			continue
		}
		used[pivot] = true
		if v.Bits&mask != 0 {
			v = v.Xor(rows[pivot])
		}
		for i := range rows {
			if i != pivot && rows[i].Bits&mask != 0 {
				rows[i] = rows[i].Xor(rows[pivot])
			}
		}
	}
	return v
}
