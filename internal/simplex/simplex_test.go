package simplex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/monolearn/conmodel/internal/simplex"
)

func TestSolveFeasibleLE(t *testing.T) {
	// x0 + x1 <= 4, x0 >= 1, x1 >= 1, minimize x0+x1
	p := simplex.Problem{
		NumVars: 2,
		Obj:     []float64{1, 1},
		Rows: []simplex.Row{
			{Coef: []float64{1, 1}, Sense: simplex.LE, RHS: 4},
			{Coef: []float64{1, 0}, Sense: simplex.GE, RHS: 1},
			{Coef: []float64{0, 1}, Sense: simplex.GE, RHS: 1},
		},
	}
	sol := simplex.Solve(p)
	assert.True(t, sol.Feasible)
	assert.False(t, sol.Unbounded)
	assert.InDelta(t, 2, sol.Obj, 1e-6)
	assert.InDelta(t, 1, sol.X[0], 1e-6)
	assert.InDelta(t, 1, sol.X[1], 1e-6)
}

func TestSolveInfeasible(t *testing.T) {
	// x0 <= 1 and x0 >= 2 can't both hold
	p := simplex.Problem{
		NumVars: 1,
		Obj:     []float64{1},
		Rows: []simplex.Row{
			{Coef: []float64{1}, Sense: simplex.LE, RHS: 1},
			{Coef: []float64{1}, Sense: simplex.GE, RHS: 2},
		},
	}
	sol := simplex.Solve(p)
	assert.False(t, sol.Feasible)
}

func TestSolveEquality(t *testing.T) {
	// x0 + x1 = 3, x0 - x1 = 1 => x0=2, x1=1
	p := simplex.Problem{
		NumVars: 2,
		Obj:     []float64{0, 0},
		Rows: []simplex.Row{
			{Coef: []float64{1, 1}, Sense: simplex.EQ, RHS: 3},
			{Coef: []float64{1, -1}, Sense: simplex.EQ, RHS: 1},
		},
	}
	sol := simplex.Solve(p)
	assert.True(t, sol.Feasible)
	assert.InDelta(t, 2, sol.X[0], 1e-6)
	assert.InDelta(t, 1, sol.X[1], 1e-6)
}

func TestSolveSetCoverLikeMinimization(t *testing.T) {
	// cover {0,1,2}: set A covers {0,1}, set B covers {1,2}, set C covers {0,2}
	// minimize xA+xB+xC s.t. each element covered (relaxed LP, not integral)
	p := simplex.Problem{
		NumVars: 3,
		Obj:     []float64{1, 1, 1},
		Rows: []simplex.Row{
			{Coef: []float64{1, 0, 1}, Sense: simplex.GE, RHS: 1}, // element 0: A or C
			{Coef: []float64{1, 1, 0}, Sense: simplex.GE, RHS: 1}, // element 1: A or B
			{Coef: []float64{0, 1, 1}, Sense: simplex.GE, RHS: 1}, // element 2: B or C
		},
	}
	sol := simplex.Solve(p)
	assert.True(t, sol.Feasible)
	assert.InDelta(t, 1.5, sol.Obj, 1e-6)
}
