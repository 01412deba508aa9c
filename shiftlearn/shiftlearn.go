// Package shiftlearn implements the shift-learn driver of spec.md
// §4.H: decompose one large generic (non-monotone) pool into one
// smaller monotone sub-pool per EXCLUDE point ("origin"), learn each
// sub-pool independently (in parallel), and fold the per-origin
// results back into the parent pool's learner.System, installing a
// solution only once every origin that could have produced it agrees
// (count == 2^weight(core)), mirroring optimodel/shift_learn.py.
package shiftlearn

import (
	"errors"
	"fmt"
	"sync"

	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/constraint"
	"github.com/monolearn/conmodel/internal/logging"
	"github.com/monolearn/conmodel/learner"
	"github.com/monolearn/conmodel/oracle"
	"github.com/monolearn/conmodel/pool"
	"github.com/monolearn/conmodel/sparseset"
	"github.com/monolearn/conmodel/strategy"
)

var log = logging.For("shiftlearn")

// ErrNotGeneric is returned by New when the given pool is monotone or
// already reoriented: shift-learn only applies to a generic pool
// (spec.md §4.H; ported from shift_learn.py's constructor assertion).
var ErrNotGeneric = errors.New("shiftlearn: pool must be generic (not upper, no direction)")

// ShiftLearn decomposes Pool into per-origin sub-pools and runs Chain
// against each of their oracle.LPOracle-backed learner.System.
type ShiftLearn struct {
	Pool  *pool.Pool
	Chain []strategy.Strategy

	// Persist, if non-nil, is called once after Compose installs its
	// solutions, so the caller can checkpoint Pool.System to disk
	// (mirrors shift_learn.py's compose() calling self.pool.system.save()).
	Persist func(sys *learner.System)
}

// New validates that pool is eligible for shift-learning.
func New(p *pool.Pool, chain []strategy.Strategy) (*ShiftLearn, error) {
	if p.IsUpper || p.Direction != nil {
		return nil, ErrNotGeneric
	}
	return &ShiftLearn{Pool: p, Chain: chain}, nil
}

// coreEntry is one origin's contribution for a given (global) sparse
// index set: the inequality witness and the AND-reduction of its
// prime cube's maximal points ("core"), whose Hamming weight decides
// how many of the 2^weight origins must agree before Compose installs
// it.
type coreEntry struct {
	Vec   sparseset.Set
	Core  bitpoint.Point
	Final constraint.Constraint
}

// Accumulator merges process-origin results across all EXCLUDE-point
// origins, keyed by the global sparse index set's Key().
type Accumulator struct {
	core      map[string]bitpoint.Point
	vec       map[string]sparseset.Set
	solutions map[string]constraint.Constraint
	counts    map[string]int
}

func newAccumulator() *Accumulator {
	return &Accumulator{
		core:      make(map[string]bitpoint.Point),
		vec:       make(map[string]sparseset.Set),
		solutions: make(map[string]constraint.Constraint),
		counts:    make(map[string]int),
	}
}

// ProcessAllShifts runs workers goroutines that take the origins (every
// point of Pool's EXCLUDE set) from a shared channel, and merges their
// results in the calling goroutine through a single results channel,
// so no mutex is needed (spec.md §4.H "goroutine-based parallel worker pool").
func (sl *ShiftLearn) ProcessAllShifts(workers int) (*Accumulator, error) {
	if workers < 1 {
		workers = 1
	}
	if sl.Pool.System.IsCompleteLower() {
		log.Warn("shiftlearn: system is complete, nothing to learn")
		return newAccumulator(), nil
	}

	origins := sl.Pool.Exclude

	type result struct {
		out map[string]coreEntry
		err error
	}

	jobs := make(chan bitpoint.Point)
	results := make(chan result)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for origin := range jobs {
				out, err := sl.processOrigin(origin)
				results <- result{out: out, err: err}
			}
		}()
	}
	go func() {
		for _, o := range origins {
			jobs <- o
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	acc := newAccumulator()
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		for key, e := range r.out {
			if existing, ok := acc.core[key]; ok {
				if existing.Bits != e.Core.Bits && firstErr == nil {
					firstErr = fmt.Errorf("shiftlearn: inconsistent core for %v across origins", e.Vec)
				}
			} else {
				acc.core[key] = e.Core
				acc.vec[key] = e.Vec
			}
			acc.counts[key]++
			acc.solutions[key] = e.Final
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	log.WithField("distinct_vecs", len(acc.vec)).Info("shiftlearn: merged all origins")
	return acc, nil
}

// Compose installs every accumulated solution whose origin-agreement
// count equals 2^weight(core) into Pool.System as a prime lower-set
// element (spec.md §4.H), then calls Persist if set. Returns the
// number of solutions installed.
func (sl *ShiftLearn) Compose(acc *Accumulator) int {
	installed := 0
	for key, vec := range acc.vec {
		need := 1 << uint(acc.core[key].Weight())
		if acc.counts[key] != need {
			continue
		}
		if sl.Pool.System.AddLower(vec, acc.solutions[key], true) {
			installed++
		}
	}
	log.WithField("installed", installed).Info("shiftlearn: composed")
	if sl.Persist != nil {
		sl.Persist(sl.Pool.System)
	}
	return installed
}

// processOrigin builds and learns the sub-pool for one reorientation
// origin, then extracts its solutions back into the parent pool's
// global EXCLUDE index space (shift_learn.py's process_origin /
// extract_subpool_solutions).
func (sl *ShiftLearn) processOrigin(origin bitpoint.Point) (map[string]coreEntry, error) {
	n := sl.Pool.N
	direction := directionFor(origin)

	includeSet := bitpoint.FromPoints(n, sl.Pool.Include)
	s := includeSet.Not(origin).UpperSet()
	good := s.MinSet()
	removable := s.Complement()
	goodBack := good.Not(origin)

	excludeSet := bitpoint.FromPoints(n, sl.Pool.Exclude)
	bad := excludeSet.Not(origin).Intersect(removable).Not(origin)

	goodPts := goodBack.ToPoints()
	badPts := bad.ToPoints()
	if len(badPts) == 0 {
		return nil, nil
	}

	sub, err := pool.New(badPts, goodPts,
		pool.WithType(pool.TypeUpper),
		pool.WithDirection(direction),
		pool.WithUsePointPrec(true),
	)
	if err != nil {
		return nil, fmt.Errorf("shiftlearn: building sub-pool for origin %v: %w", origin, err)
	}

	o := oracle.NewLPOracle(sub.N, sub.IsUpper, sub.Include, sub.I2Exc)
	for _, strat := range sl.Chain {
		if err := strat.Run(sub.System, o); err != nil {
			return nil, fmt.Errorf("shiftlearn: learning origin %v: %w", origin, err)
		}
	}

	if err := sub.Finalize(); err != nil {
		return nil, fmt.Errorf("shiftlearn: finalizing origin %v: %w", origin, err)
	}
	cs, _ := sub.Constraints()

	out := make(map[string]coreEntry, len(cs))
	for _, c := range cs {
		items := c.FSet.Items()
		pts := make([]bitpoint.Point, 0, len(items))
		for _, i := range items {
			pts = append(pts, sub.I2Exc[i])
		}
		dmax := bitpoint.FromPoints(n, pts).MaxSet().ToPoints()
		if len(dmax) == 0 {
			continue
		}
		core := dmax[0]
		for _, p := range dmax[1:] {
			core = bitpoint.FromBits(n, core.Bits&p.Bits)
		}

		idxs := make([]int, 0, len(pts))
		for _, p := range pts {
			undone := p.FlipWhere(direction)
			if gi, ok := sl.Pool.Exc2I[undone]; ok {
				idxs = append(idxs, gi)
			}
		}
		mainvec := sparseset.New(idxs...)
		out[mainvec.Key()] = coreEntry{Vec: mainvec, Core: core, Final: c.Final}
	}
	return out, nil
}

// directionFor builds the reorientation direction that turns origin
// into the coordinate-flip mask FlipWhere already expects: flip every
// coordinate where origin is 1 ((1,0) -> (-1,1) per shift_learn.py).
func directionFor(origin bitpoint.Point) []int {
	d := make([]int, origin.N)
	for i := range d {
		if origin.At(i) == 1 {
			d[i] = -1
		} else {
			d[i] = 1
		}
	}
	return d
}
