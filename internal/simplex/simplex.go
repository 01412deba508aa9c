// Package simplex is a from-scratch two-phase primal simplex solver
// over gonum's dense matrices, grounded on the numerical style of
// other_examples/manifests/snow-abstraction-cover (a gonum-based
// set-covering solver). No Go MILP/LP library was found anywhere in
// the retrieved example pack, so oracle.LPOracle and subsetcover's
// MILP back-end both drive this package instead of a third-party
// solver (see DESIGN.md for the justification).
package simplex

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sense is a constraint row's relational operator.
type Sense int

const (
	LE Sense = iota
	GE
	EQ
)

// Row is one linear constraint Coef·x {<=,>=,=} RHS, x>=0.
type Row struct {
	Coef []float64
	Sense
	RHS float64
}

// Problem is a linear program in nonnegative variables: minimize
// Obj·x subject to Rows. Obj may be nil for a pure feasibility query.
type Problem struct {
	NumVars int
	Obj     []float64
	Rows    []Row
}

// Solution is the outcome of Solve.
type Solution struct {
	Feasible  bool
	Unbounded bool
	X         []float64
	Obj       float64
}

const eps = 1e-9

// Solve runs two-phase simplex: phase 1 minimizes the sum of
// artificial variables to find a feasible basis (or prove
// infeasibility); phase 2 minimizes Problem.Obj from that basis.
func Solve(p Problem) Solution {
	tab := build(p)
	if !tab.phase1() {
		return Solution{Feasible: false}
	}
	tab.dropArtificials()
	unbounded := !tab.phase2(p.Obj)
	if unbounded {
		return Solution{Feasible: true, Unbounded: true}
	}
	x := tab.extract(p.NumVars)
	obj := 0.0
	for i, c := range p.Obj {
		obj += c * x[i]
	}
	return Solution{Feasible: true, X: x, Obj: obj}
}

// tableau is a dense simplex tableau: m rows, n structural+slack+
// artificial columns plus an RHS column, with a basis index per row.
type tableau struct {
	m, n     int
	a        *mat.Dense // m x n
	b        []float64  // m
	basis    []int
	artStart int
	artCount int
}

func build(p Problem) *tableau {
	m := len(p.Rows)
	slackCols := 0
	artCols := 0
	for _, r := range p.Rows {
		switch r.Sense {
		case LE:
			slackCols++
		case GE:
			slackCols++
			artCols++
		case EQ:
			artCols++
		}
	}
	n := p.NumVars + slackCols + artCols
	a := mat.NewDense(m, n, nil)
	b := make([]float64, m)
	basis := make([]int, m)

	slackIdx := p.NumVars
	artIdx := p.NumVars + slackCols
	artStart := artIdx

	for i, r := range p.Rows {
		rhs := r.RHS
		coef := append([]float64(nil), r.Coef...)
		sense := r.Sense
		if rhs < 0 {
			for k := range coef {
				coef[k] = -coef[k]
			}
			rhs = -rhs
			switch sense {
			case LE:
				sense = GE
			case GE:
				sense = LE
			}
		}
		for j := 0; j < p.NumVars; j++ {
			a.Set(i, j, coef[j])
		}
		b[i] = rhs

		switch sense {
		case LE:
			a.Set(i, slackIdx, 1)
			basis[i] = slackIdx
			slackIdx++
		case GE:
			a.Set(i, slackIdx, -1)
			slackIdx++
			a.Set(i, artIdx, 1)
			basis[i] = artIdx
			artIdx++
		case EQ:
			a.Set(i, artIdx, 1)
			basis[i] = artIdx
			artIdx++
		}
	}

	return &tableau{m: m, n: n, a: a, b: b, basis: basis, artStart: artStart, artCount: artCols}
}

// pivot performs a Gauss-Jordan elimination around (row, col), making
// column col a unit vector with a 1 in row.
func (t *tableau) pivot(row, col int) {
	piv := t.a.At(row, col)
	for j := 0; j < t.n; j++ {
		t.a.Set(row, j, t.a.At(row, j)/piv)
	}
	t.b[row] /= piv
	for i := 0; i < t.m; i++ {
		if i == row {
			continue
		}
		factor := t.a.At(i, col)
		if factor == 0 {
			continue
		}
		for j := 0; j < t.n; j++ {
			t.a.Set(i, j, t.a.At(i, j)-factor*t.a.At(row, j))
		}
		t.b[i] -= factor * t.b[row]
	}
	t.basis[row] = col
}

// runSimplex minimizes cost (length n) via Bland's rule to guarantee
// termination without cycling, pivoting on this tableau's rows.
func (t *tableau) runSimplex(cost []float64) (unbounded bool) {
	for {
		// reduced costs: cost[j] - sum_i cost[basis[i]] * a[i][j]
		reduced := make([]float64, t.n)
		copy(reduced, cost)
		for i := 0; i < t.m; i++ {
			cb := cost[t.basis[i]]
			if cb == 0 {
				continue
			}
			for j := 0; j < t.n; j++ {
				reduced[j] -= cb * t.a.At(i, j)
			}
		}

		enter := -1
		for j := 0; j < t.n; j++ {
			if reduced[j] < -eps {
				enter = j
				break // Bland's rule: smallest index
			}
		}
		if enter < 0 {
			return false
		}

		leave := -1
		bestRatio := math.Inf(1)
		for i := 0; i < t.m; i++ {
			aij := t.a.At(i, enter)
			if aij <= eps {
				continue
			}
			ratio := t.b[i] / aij
			if ratio < bestRatio-eps || (ratio < bestRatio+eps && (leave < 0 || t.basis[i] < t.basis[leave])) {
				bestRatio = ratio
				leave = i
			}
		}
		if leave < 0 {
			return true
		}
		t.pivot(leave, enter)
	}
}

func (t *tableau) phase1() bool {
	if t.artCount == 0 {
		return true
	}
	cost := make([]float64, t.n)
	for j := t.artStart; j < t.n; j++ {
		cost[j] = 1
	}
	t.runSimplex(cost)

	obj := 0.0
	for i := 0; i < t.m; i++ {
		if t.basis[i] >= t.artStart {
			obj += t.b[i]
		}
	}
	if obj > 1e-6 {
		return false
	}
	// drive any remaining artificial basic variables (at value 0) out
	// of the basis where a non-artificial pivot is available
	for i := 0; i < t.m; i++ {
		if t.basis[i] < t.artStart {
			continue
		}
		for j := 0; j < t.artStart; j++ {
			if math.Abs(t.a.At(i, j)) > eps {
				t.pivot(i, j)
				break
			}
		}
	}
	return true
}

func (t *tableau) dropArtificials() {
	if t.artCount == 0 {
		return
	}
	keep := t.artStart
	a2 := mat.NewDense(t.m, keep, nil)
	for i := 0; i < t.m; i++ {
		for j := 0; j < keep; j++ {
			a2.Set(i, j, t.a.At(i, j))
		}
	}
	t.a = a2
	t.n = keep
}

func (t *tableau) phase2(objCoef []float64) bool {
	cost := make([]float64, t.n)
	copy(cost, objCoef)
	return !t.runSimplex(cost)
}

func (t *tableau) extract(numVars int) []float64 {
	x := make([]float64, numVars)
	for i, bi := range t.basis {
		if bi < numVars {
			x[bi] = t.b[i]
		}
	}
	return x
}
