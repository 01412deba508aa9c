package constraint

import (
	"strconv"
	"strings"

	"github.com/monolearn/conmodel/bitpoint"
)

// OrClause is a disjunction of signed 1-based literals: (4, -7, 11)
// means x[3] ∨ ¬x[6] ∨ x[10] (spec.md §3).
type OrClause []int

// AndClause is a conjunction of signed 1-based literals (a cube).
type AndClause []int

func (c OrClause) Satisfy(p bitpoint.Point) bool {
	for _, lit := range c {
		if litHolds(lit, p) {
			return true
		}
	}
	return false
}

func (c AndClause) Satisfy(p bitpoint.Point) bool {
	for _, lit := range c {
		if !litHolds(lit, p) {
			return false
		}
	}
	return true
}

func litHolds(lit int, p bitpoint.Point) bool {
	i := abs(lit) - 1
	if lit > 0 {
		return p.At(i) == 1
	}
	return p.At(i) == 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// reorientLits flips the sign of every literal whose variable is
// flipped by direction (direction[i] == -1 ⇒ variable i flips), the
// clause analogue of Inequality.Shift/Reorient (spec.md §3).
func reorientLits(lits []int, direction []int) []int {
	out := make([]int, len(lits))
	for k, lit := range lits {
		i := abs(lit) - 1
		if i < len(direction) && direction[i] == -1 {
			out[k] = -lit
		} else {
			out[k] = lit
		}
	}
	return out
}

func (c OrClause) Reorient(direction []int) Constraint {
	return OrClause(reorientLits(c, direction))
}

func (c AndClause) Reorient(direction []int) Constraint {
	return AndClause(reorientLits(c, direction))
}

// Invert implements De Morgan's law: ¬(a∨b∨...) = ¬a∧¬b∧..., and the
// reverse, by negating every literal and flipping the clause kind
// (spec.md §4.I, §8: ~~c == c).
func (c OrClause) Invert() AndClause {
	out := make(AndClause, len(c))
	for i, lit := range c {
		out[i] = -lit
	}
	return out
}

func (c AndClause) Invert() OrClause {
	out := make(OrClause, len(c))
	for i, lit := range c {
		out[i] = -lit
	}
	return out
}

// Solutions returns, as a dense subset of {0,1}^n, exactly the points
// that satisfy the clause (spec.md §4.I/§8).
func (c AndClause) Solutions(n int) *bitpoint.DenseSet {
	var mask, shift uint64
	for _, lit := range c {
		i := uint(abs(lit) - 1)
		mask |= 1 << i
		if lit < 0 {
			shift |= 1 << i
		}
	}
	d := bitpoint.NewDenseSet(n)
	d.Add(bitpoint.FromBits(n, mask))
	return d.UpperSet().Not(bitpoint.FromBits(n, shift))
}

func (c OrClause) Solutions(n int) *bitpoint.DenseSet {
	return c.Invert().Solutions(n).Complement()
}

func (c OrClause) String() string  { return clauseString(c, "v") }
func (c AndClause) String() string { return clauseString(c, "&") }

func clauseString(lits []int, op string) string {
	parts := make([]string, len(lits))
	for i, lit := range lits {
		if lit < 0 {
			parts[i] = "~x" + strconv.Itoa(-lit)
		} else {
			parts[i] = "x" + strconv.Itoa(lit)
		}
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")"
}
