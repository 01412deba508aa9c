// Package oracle implements the feasibility oracles of spec.md §4.C:
// given a candidate EXCLUDE-subset, decide whether some constraint
// refutes exactly those EXCLUDE points while still satisfying every
// INCLUDE point, and if so produce that constraint as a witness.
package oracle

import (
	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/constraint"
	"github.com/monolearn/conmodel/sparseset"
)

// Oracle is the capability every oracle instance provides. For
// LPOracle, a feasible answer's witness satisfies every INCLUDE point
// and fails for every EXCLUDE point named by S (checked by
// AssertWitness). SubspaceOracle's witness is instead the affine span
// of the points named by S, so Satisfy holds on them; it does not
// consult INCLUDE.
type Oracle interface {
	Query(s sparseset.Set) (feasible bool, witness constraint.Constraint, err error)
}

// AssertWitness is the oracle post-condition check spec.md §4.C and
// §7 require before a witness is accepted: a violation is fatal
// ("indicates a solver bug"), never a soft failure.
func AssertWitness(c constraint.Constraint, include []bitpoint.Point, exclude []bitpoint.Point, s sparseset.Set) bool {
	for _, p := range include {
		if !c.Satisfy(p) {
			return false
		}
	}
	i2exc := exclude
	for _, idx := range s.Items() {
		if idx < 0 || idx >= len(i2exc) {
			return false
		}
		if c.Satisfy(i2exc[idx]) {
			return false
		}
	}
	return true
}
