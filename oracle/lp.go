package oracle

import (
	"math"

	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/constraint"
	"github.com/monolearn/conmodel/internal/logging"
	"github.com/monolearn/conmodel/internal/simplex"
	"github.com/monolearn/conmodel/sparseset"
)

var lpLog = logging.For("oracle.lp")

// LPOracle is the inequality oracle of spec.md §4.C: maintains the
// permanent INCLUDE-side constraints implicitly (they are rebuilt
// into every query's LP, since conmodel's from-scratch simplex has no
// notion of a persistent warm-startable model the way pyomo/glpk do
// in the Python original's LPbasedOracle/LPXbasedOracle — unified
// here per SPEC_FULL.md §4 item 6).
type LPOracle struct {
	N       int
	IsUpper bool
	Include []bitpoint.Point
	I2Exc   []bitpoint.Point
}

func NewLPOracle(n int, isUpper bool, include, i2exc []bitpoint.Point) *LPOracle {
	return &LPOracle{N: n, IsUpper: isUpper, Include: include, I2Exc: i2exc}
}

func (o *LPOracle) Query(s sparseset.Set) (bool, constraint.Constraint, error) {
	if s.Len() == 0 {
		return true, constraint.NewInequality(make([]float64, o.N+1)), nil
	}

	numVars := o.N + 1
	split := !o.IsUpper
	total := numVars
	if split {
		total = 2 * numVars
	}

	rows := make([]simplex.Row, 0, len(o.Include)+s.Len())
	for _, p := range o.Include {
		rows = append(rows, simplex.Row{Coef: row(p, total, numVars, split), Sense: simplex.GE, RHS: 0})
	}
	for _, idx := range s.Items() {
		q := o.I2Exc[idx]
		rows = append(rows, simplex.Row{Coef: row(q, total, numVars, split), Sense: simplex.LE, RHS: -1})
	}

	sol := simplex.Solve(simplex.Problem{NumVars: total, Obj: make([]float64, total), Rows: rows})
	if !sol.Feasible {
		return false, nil, nil
	}

	a := make([]float64, o.N)
	var c float64
	if split {
		for i := 0; i < o.N; i++ {
			a[i] = sol.X[i] - sol.X[numVars+i]
		}
		c = sol.X[o.N] - sol.X[numVars+o.N]
	} else {
		copy(a, sol.X[:o.N])
		c = sol.X[o.N]
	}

	if !allIntegral(a, c) {
		lpLog.Debug("non-integral LP solution: biasing separator by -0.5")
		c -= 0.5
	}

	tuple := append(append([]float64(nil), a...), -c)
	ineq := constraint.NewInequality(tuple)

	if !AssertWitness(ineq, o.Include, o.I2Exc, s) {
		panic("oracle: LP witness violates its post-condition")
	}
	return true, ineq, nil
}

// row builds the coefficient vector for "sum a_i*p_i + coefC*c" over
// the (possibly split-into-nonnegative-parts) variable layout:
// coefC is -1, matching spec.md's "sum a_i*p_i - c" formulation.
func row(p bitpoint.Point, total, numVars int, split bool) []float64 {
	coef := make([]float64, total)
	n := numVars - 1
	for i := 0; i < n; i++ {
		v := float64(p.At(i))
		coef[i] = v
		if split {
			coef[numVars+i] = -v
		}
	}
	coef[n] = -1
	if split {
		coef[numVars+n] = 1
	}
	return coef
}

func allIntegral(a []float64, c float64) bool {
	for _, v := range a {
		if math.Abs(v-math.Round(v)) > 1e-6 {
			return false
		}
	}
	return math.Abs(c-math.Round(c)) <= 1e-6
}
