package oracle

import (
	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/constraint"
	"github.com/monolearn/conmodel/extraprec"
	"github.com/monolearn/conmodel/internal/logging"
	"github.com/monolearn/conmodel/sparseset"
)

var subspaceLog = logging.For("oracle.subspace")

// SubspaceOracle answers affine-span queries by delegating straight
// to extraprec.Subspace: the witness is exactly what Reduce already
// computes, so there is nothing left to search for (spec.md §4.C
// "Subspace oracle").
type SubspaceOracle struct {
	U   *extraprec.Universe
	sub extraprec.Subspace
}

func NewSubspaceOracle(u *extraprec.Universe) *SubspaceOracle {
	return &SubspaceOracle{U: u, sub: extraprec.NewSubspace(u)}
}

func (o *SubspaceOracle) Query(s sparseset.Set) (bool, constraint.Constraint, error) {
	if s.Len() == 0 {
		return true, trivialSubspace(o.U.N), nil
	}

	_, skipped := o.sub.Expand(s)
	if skipped > 0 {
		subspaceLog.WithField("skipped", skipped).Debug("span leaves the universe: infeasible")
		return false, nil, nil
	}

	reduced, _ := o.sub.Reduce(s)
	pts := o.U.Points(reduced)
	offset := pts[0]
	basis := make([]bitpoint.Point, 0, len(pts)-1)
	for _, p := range pts[1:] {
		basis = append(basis, p.Xor(offset))
	}
	return true, constraint.Subspace{Offset: offset, Basis: basis}, nil
}

// trivialSubspace is the whole of {0,1}^n: offset 0 spanned by the n
// standard basis vectors, the Subspace analogue of the all-zero
// "trivial inequality" for an empty query.
func trivialSubspace(n int) constraint.Subspace {
	basis := make([]bitpoint.Point, n)
	for i := 0; i < n; i++ {
		coords := make([]int, n)
		coords[i] = 1
		basis[i] = bitpoint.New(coords...)
	}
	return constraint.Subspace{Offset: bitpoint.FromBits(n, 0), Basis: basis}
}
