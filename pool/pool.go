// Package pool implements the constraint pool of spec.md §4.F: it
// canonicalizes an INCLUDE/EXCLUDE point-pair into a learner.System
// over a stable EXCLUDE index universe, drives the learning
// strategies that populate it, and finalizes the frontier into the
// typed constraints that subsetcover and shiftlearn consume.
package pool

import (
	"errors"
	"fmt"
	"sort"

	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/constraint"
	"github.com/monolearn/conmodel/extraprec"
	"github.com/monolearn/conmodel/internal/logging"
	"github.com/monolearn/conmodel/learner"
	"github.com/monolearn/conmodel/sparseset"
)

var log = logging.For("pool")

// Type selects how a pool's INCLUDE/EXCLUDE pair relates to
// monotonicity, mirroring optimodel/pool.py's TypeGood enum.
// TypeLower/TypeUpper both mean "monotone pool"; internally both are
// reoriented to a canonical upper-set view so extraprec.LowerSet and
// the witness-reorientation on Finalize only need to handle one case.
type Type int

const (
	// TypeGeneric is a non-monotone pool: INCLUDE/EXCLUDE are disjoint
	// but otherwise unrelated point sets.
	TypeGeneric Type = iota
	// TypeLower means INCLUDE is (a subset of) a downward-closed set:
	// the pool reorients by complementing every coordinate (direction
	// all -1), turning the lower set into an upper set.
	TypeLower
	// TypeUpper means INCLUDE is (a subset of) an upward-closed set
	// already; no reorientation is needed.
	TypeUpper
)

var (
	// ErrNoExcludePoints is returned when exclude is empty: there is
	// nothing to separate.
	ErrNoExcludePoints = errors.New("pool: no exclude points given")
	// ErrAlreadyFinalized is returned by Finalize when called twice.
	ErrAlreadyFinalized = errors.New("pool: already finalized")
	// ErrNotFinalized is returned by Constraints before Finalize.
	ErrNotFinalized = errors.New("pool: not finalized")
	// ErrWitnessViolation is returned by Finalize's self-check when a
	// recorded witness fails to separate INCLUDE from its EXCLUDE set.
	ErrWitnessViolation = errors.New("pool: witness fails separation self-check")
)

// Constraint pairs a learner frontier element with its constraint in
// both the pool's internal (possibly reoriented) orientation and the
// caller-facing orientation (spec.md §4.F "finalize").
type Constraint struct {
	FSet  sparseset.Set
	Pool  constraint.Constraint
	Final constraint.Constraint
}

// Pool holds the canonicalized INCLUDE/EXCLUDE pair and the learner
// system tracking which EXCLUDE subsets are separable (spec.md §4.F).
type Pool struct {
	N         int
	Include   []bitpoint.Point // reoriented
	Exclude   []bitpoint.Point // reoriented
	Direction []int            // nil means no reorientation
	IsUpper   bool

	I2Exc []bitpoint.Point
	Exc2I map[bitpoint.Point]int

	Universe *extraprec.Universe
	System   *learner.System

	OutputPrefix string

	// dnf marks a clause pool constructed by NewClausePool with
	// dnf=true: INCLUDE/EXCLUDE were swapped before learning (so
	// strategy.QuineMcCluskey/GainanovSAT always see a "local exclude"
	// universe), and Finalize must invert each witness clause back via
	// De Morgan before handing it to the caller (SPEC_FULL.md §4 item
	// 7, mirroring tool/boolean.py's coverspace/cubespace swap and
	// _output_one's DNF inversion step).
	dnf bool

	finalized   bool
	constraints []Constraint
}

type options struct {
	typ          Type
	direction    []int
	usePointPrec bool
	outputPrefix string
}

// Option customizes Pool construction.
type Option func(*options)

// WithType selects monotonicity handling (spec.md §4.F / SPEC_FULL.md
// §4 item 1): TypeLower implicitly reorients by full complement,
// TypeUpper leaves orientation alone, TypeGeneric disables extra
// precision entirely.
func WithType(t Type) Option { return func(o *options) { o.typ = t } }

// WithDirection supplies an explicit per-coordinate reorientation
// (direction[i] == -1 flips coordinate i). Only meaningful together
// with WithType(TypeUpper); New panics if combined with TypeGeneric or
// TypeLower, mirroring the Python original's "why redirect if not
// monotone?" assertion.
func WithDirection(direction []int) Option {
	return func(o *options) { o.direction = append([]int(nil), direction...) }
}

// WithUsePointPrec enables extraprec.LowerSet canonicalization
// (requires a monotone pool: WithType(TypeLower) or WithType(TypeUpper)).
func WithUsePointPrec(use bool) Option {
	return func(o *options) { o.usePointPrec = use }
}

// WithOutputPrefix sets the prefix subsetcover.Selector.Report writes
// solution/.source files under.
func WithOutputPrefix(prefix string) Option {
	return func(o *options) { o.outputPrefix = prefix }
}

// New builds a Pool from raw INCLUDE/EXCLUDE point sets.
func New(exclude, include []bitpoint.Point, opts ...Option) (*Pool, error) {
	if len(exclude) == 0 {
		return nil, ErrNoExcludePoints
	}
	n := exclude[0].N

	var cfg options
	for _, o := range opts {
		o(&cfg)
	}

	isUpper := cfg.typ != TypeGeneric
	direction := cfg.direction
	switch {
	case cfg.typ == TypeLower:
		if direction != nil {
			panic("pool: WithDirection conflicts with WithType(TypeLower)'s implicit complement")
		}
		direction = fullComplementDirection(n)
	case direction != nil && !isUpper:
		panic("pool: WithDirection requires a monotone pool (WithType(TypeLower) or WithType(TypeUpper))")
	}
	if cfg.usePointPrec && !isUpper {
		panic("pool: WithUsePointPrec requires a monotone pool")
	}

	rExclude := reorientAll(exclude, direction)
	rInclude := reorientAll(include, direction)

	i2exc := dedupeSorted(rExclude)
	exc2i := make(map[bitpoint.Point]int, len(i2exc))
	for i, p := range i2exc {
		exc2i[p] = i
	}

	he := hashSortedPoints(i2exc)
	hi := "(not given)"
	if rInclude != nil {
		hi = hashSortedPoints(dedupeSorted(rInclude))
	}
	log.WithField("exclude_n", len(i2exc)).WithField("exclude_hash", he).
		WithField("include_hash", hi).Info("pool: constructed")

	universe := extraprec.NewUniverse(n, i2exc)

	var ep extraprec.ExtraPrec = extraprec.Identity{}
	if cfg.usePointPrec {
		ep = extraprec.NewLowerSet(universe)
	}

	p := &Pool{
		N:            n,
		Include:      rInclude,
		Exclude:      rExclude,
		Direction:    direction,
		IsUpper:      isUpper,
		I2Exc:        i2exc,
		Exc2I:        exc2i,
		Universe:     universe,
		System:       learner.New(len(i2exc), ep),
		OutputPrefix: cfg.outputPrefix,
	}
	return p, nil
}

// NewClausePool builds a pool dedicated to CNF/DNF clause generation
// (spec.md §4.C Quine-McCluskey, §4.F). For cnf=false (DNF mode) it
// swaps exclude/include before delegating to New, so that every
// strategy installed into the resulting pool's System (in particular
// strategy.QuineMcCluskey) always operates over a "local exclude"
// universe; Finalize then inverts each witness clause (OrClause <->
// AndClause via De Morgan) back into the caller's original orientation
// (SPEC_FULL.md §4 item 7).
func NewClausePool(exclude, include []bitpoint.Point, cnf bool, opts ...Option) (*Pool, error) {
	localExclude, localInclude := exclude, include
	if !cnf {
		localExclude, localInclude = include, exclude
	}
	p, err := New(localExclude, localInclude, opts...)
	if err != nil {
		return nil, err
	}
	p.dnf = !cnf
	return p, nil
}

// Finalize freezes the learner's lower frontier into the pool's
// Constraints, self-checking every witness against INCLUDE/EXCLUDE
// (spec.md §4.F; panics-as-assertions in the Python original become
// ErrWitnessViolation here).
func (p *Pool) Finalize() error {
	if p.finalized {
		return ErrAlreadyFinalized
	}
	log.Warn("pool: finalizing system for use in subset covers")

	lower := p.System.IterLower()
	out := make([]Constraint, 0, len(lower))
	for _, fset := range lower {
		witness, ok := p.System.Witness(fset)
		if !ok {
			return fmt.Errorf("pool: lower element %v has no recorded witness", fset)
		}
		final := witness
		if p.Direction != nil {
			final = witness.Reorient(p.Direction)
		}
		if p.dnf {
			final = invertClause(final)
		}
		out = append(out, Constraint{FSet: fset, Pool: witness, Final: final})
	}

	for _, c := range out {
		for _, q := range p.Include {
			if !c.Pool.Satisfy(q) {
				return fmt.Errorf("%w: include point %v rejected by constraint for %v", ErrWitnessViolation, q, c.FSet)
			}
		}
	}
	for i, q := range p.I2Exc {
		refuted := false
		for _, c := range out {
			if c.FSet.Contains(i) && !c.Pool.Satisfy(q) {
				refuted = true
				break
			}
		}
		if !refuted {
			return fmt.Errorf("%w: exclude point %v (index %d) not refuted by any constraint", ErrWitnessViolation, q, i)
		}
	}

	p.constraints = out
	p.finalized = true
	log.WithField("constraints", len(out)).Info("pool: finalized")
	return nil
}

// Constraints returns the finalized constraint list; ErrNotFinalized
// if Finalize has not been called.
func (p *Pool) Constraints() ([]Constraint, error) {
	if !p.finalized {
		return nil, ErrNotFinalized
	}
	return p.constraints, nil
}

// CheckSubset asserts that the given constraints (by FSet) together
// satisfy every INCLUDE point and refute every EXCLUDE point
// (spec.md §4.F "check_subset").
func (p *Pool) CheckSubset(cs []Constraint) error {
	for _, c := range cs {
		for _, q := range p.Include {
			if !c.Pool.Satisfy(q) {
				return fmt.Errorf("%w: include point %v rejected", ErrWitnessViolation, q)
			}
		}
	}
	for _, q := range p.Exclude {
		refuted := false
		for _, c := range cs {
			if !c.Pool.Satisfy(q) {
				refuted = true
				break
			}
		}
		if !refuted {
			return fmt.Errorf("%w: exclude point %v not refuted by the given subset", ErrWitnessViolation, q)
		}
	}
	return nil
}

// invertClause applies De Morgan's law to a clause witness, the
// DNF-mode finalization step (SPEC_FULL.md §4 item 7). Any other
// constraint kind is returned unchanged: direction-based reorientation
// already handles Inequality/Subspace, and NewClausePool is only ever
// used with clause-producing strategies.
func invertClause(c constraint.Constraint) constraint.Constraint {
	switch v := c.(type) {
	case constraint.OrClause:
		return v.Invert()
	case constraint.AndClause:
		return v.Invert()
	default:
		return c
	}
}

func fullComplementDirection(n int) []int {
	d := make([]int, n)
	for i := range d {
		d[i] = -1
	}
	return d
}

func reorientAll(pts []bitpoint.Point, direction []int) []bitpoint.Point {
	if pts == nil {
		return nil
	}
	out := make([]bitpoint.Point, len(pts))
	for i, p := range pts {
		if direction == nil {
			out[i] = p
		} else {
			out[i] = p.FlipWhere(direction)
		}
	}
	return out
}

func dedupeSorted(pts []bitpoint.Point) []bitpoint.Point {
	out := append([]bitpoint.Point(nil), pts...)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	dedup := out[:0]
	for i, p := range out {
		if i == 0 || dedup[len(dedup)-1] != p {
			dedup = append(dedup, p)
		}
	}
	return dedup
}
