package constraint

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/monolearn/conmodel/bitpoint"
)

// satisfyEps absorbs floating point noise from LP solutions whose
// coefficients were biased by -0.5 to place a real-valued separator
// midway between INCLUDE and EXCLUDE (spec.md §4.C).
const satisfyEps = 1e-9

// Inequality is a0*x0 + a1*x1 + ... + a_{n-1}*x_{n-1} + c >= 0
// (spec.md §3). Coef holds (a0,...,a_{n-1}); Const holds c.
type Inequality struct {
	Coef  []float64
	Const float64
}

// NewInequality builds an Inequality from the full tuple
// (a0,...,a_{n-1},c), matching the Python Inequality tuple format.
func NewInequality(tuple []float64) Inequality {
	n := len(tuple) - 1
	return Inequality{Coef: append([]float64(nil), tuple[:n]...), Const: tuple[n]}
}

func (ineq Inequality) Satisfy(p bitpoint.Point) bool {
	return inner(ineq.Coef, p)+ineq.Const >= -satisfyEps
}

// Shift substitutes x_i ↦ 1-x_i for every i where b is 1 (spec.md
// §4.I), i.e. translates the separating hyperplane by the point b.
func (ineq Inequality) Shift(b bitpoint.Point) Inequality {
	coef2 := make([]float64, len(ineq.Coef))
	val := ineq.Const
	for i, a := range ineq.Coef {
		if b.At(i) == 1 {
			coef2[i] = -a
			val += a
		} else {
			coef2[i] = a
		}
	}
	return Inequality{Coef: coef2, Const: val}
}

// Reorient implements Constraint.Reorient via Shift: direction[i] ==
// -1 plays the role of b_i == 1 in Shift.
func (ineq Inequality) Reorient(direction []int) Constraint {
	b := make([]int, len(direction))
	for i, d := range direction {
		if d == -1 {
			b[i] = 1
		}
	}
	return ineq.Shift(bitpoint.New(b...))
}

// Tuple returns (a0,...,a_{n-1},c).
func (ineq Inequality) Tuple() []float64 {
	return append(append([]float64(nil), ineq.Coef...), ineq.Const)
}

func (ineq Inequality) String() string {
	parts := make([]string, len(ineq.Coef)+1)
	for i, a := range ineq.Coef {
		parts[i] = formatCoef(a)
	}
	parts[len(ineq.Coef)] = formatCoef(ineq.Const)
	return strings.Join(parts, " ")
}

func formatCoef(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return fmt.Sprintf("%g", v)
}

func inner(a []float64, p bitpoint.Point) float64 {
	var s float64
	for i, ai := range a {
		if p.At(i) == 1 {
			s += ai
		}
	}
	return s
}
