// Package constraint implements the typed constraint kinds of
// spec.md §3/§4.I: Inequality, OrClause, AndClause and Subspace. Every
// kind satisfies the Constraint interface (Satisfy, Reorient) so the
// learner, pool and subset selector can treat them uniformly while
// still dispatching to kind-specific behavior (Shift, Solutions,
// Invert) where spec.md calls for it.
package constraint

import "github.com/monolearn/conmodel/bitpoint"

// Constraint is the common capability every constraint kind provides:
// evaluate against a point, and reorient under a coordinate-flip
// direction. Reorientation must be an involution (spec.md §8).
type Constraint interface {
	// Satisfy reports whether p is accepted by this constraint.
	Satisfy(p bitpoint.Point) bool

	// Reorient returns the constraint obtained by substituting
	// x_i ↦ 1-x_i wherever direction[i] == -1.
	Reorient(direction []int) Constraint

	String() string
}
