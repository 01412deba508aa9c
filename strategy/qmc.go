package strategy

import (
	"math/bits"

	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/constraint"
	"github.com/monolearn/conmodel/extraprec"
	"github.com/monolearn/conmodel/internal/logging"
	"github.com/monolearn/conmodel/learner"
	"github.com/monolearn/conmodel/sparseset"
)

var qmcLog = logging.For("strategy.qmc")

// cube is a Boolean cube over n variables: fixed bits equal the
// corresponding bit of value; bits set in mask are "don't care".
type cube struct {
	value, mask uint64
}

// QuineMcCluskey is the offline bulk cube-enumeration step of
// spec.md §4.C: it is not a per-query oracle but a direct pass that
// computes every maximal cube inside the EXCLUDE universe (optionally
// grown through a don't-care completion) and installs each directly
// as a known-maximal lower-set element, then marks the learner
// complete (ported from `tool/boolean.py`'s Quine-McCluskey-driven
// `MaxCubes` command; ground-truth merge algorithm is the classical
// one, not MaxCubes_Dense2/3's packed-array variant, since those rely
// on the `subsets` C extension that has no Go equivalent in the pack).
//
// QuineMcCluskey always treats its universe argument as the "local
// exclude" universe: for CNF generation pass the real EXCLUDE points;
// for DNF generation, pool.NewClausePool swaps INCLUDE/EXCLUDE before
// calling this (and inverts the resulting OrClause witnesses back to
// AndClause on Finalize), mirroring `ToolBoolean`'s `_output_one`
// DNF-inversion step.
func QuineMcCluskey(sys *learner.System, u *extraprec.Universe, dontCareExtra []bitpoint.Point) {
	n := u.N
	target := make([]uint64, len(u.Int2Point))
	for i, p := range u.Int2Point {
		target[i] = p.Bits
	}

	merged := mergeCubes(n, target, pointBits(dontCareExtra))

	for _, c := range merged {
		covered := coveredUniversePoints(c, u)
		if covered.Len() == 0 {
			continue
		}
		witness := cubeToRefutingClause(c, n)
		sys.AddLower(covered, witness, true)
	}
	sys.MarkCompleteLower()
	qmcLog.WithField("cubes", len(merged)).Info("QuineMcCluskey: installed maximal cubes")
}

func pointBits(pts []bitpoint.Point) []uint64 {
	out := make([]uint64, len(pts))
	for i, p := range pts {
		out[i] = p.Bits
	}
	return out
}

// mergeCubes is the classical Quine-McCluskey pairwise merge: start
// from single-point cubes of target (plus dontcare, which only grows
// the merge-eligible region but is never itself required to be
// covered), and repeatedly merge same-mask cubes differing in exactly
// one bit until no merge applies. Unmerged cubes at each level are
// prime implicants, i.e. maximal cubes.
func mergeCubes(n int, target, dontcare []uint64) []cube {
	allowed := make(map[uint64]bool, len(target)+len(dontcare))
	for _, v := range target {
		allowed[v] = true
	}
	for _, v := range dontcare {
		allowed[v] = true
	}

	cubes := make([]cube, 0, len(allowed))
	for v := range allowed {
		cubes = append(cubes, cube{value: v, mask: 0})
	}

	var primes []cube
	for len(cubes) > 0 {
		mergedIdx := make(map[int]bool)
		seen := make(map[cube]bool)
		var next []cube

		byMask := make(map[uint64][]int)
		for i, c := range cubes {
			byMask[c.mask] = append(byMask[c.mask], i)
		}

		for _, group := range byMask {
			for gi := 0; gi < len(group); gi++ {
				for gj := gi + 1; gj < len(group); gj++ {
					i, j := group[gi], group[gj]
					diff := cubes[i].value ^ cubes[j].value
					if bits.OnesCount64(diff) != 1 {
						continue
					}
					nc := cube{value: cubes[i].value &^ diff, mask: cubes[i].mask | diff}
					mergedIdx[i] = true
					mergedIdx[j] = true
					if !seen[nc] {
						seen[nc] = true
						next = append(next, nc)
					}
				}
			}
		}

		for i, c := range cubes {
			if !mergedIdx[i] {
				primes = append(primes, c)
			}
		}
		cubes = next
	}

	return dedupeCubes(primes)
}

func dedupeCubes(in []cube) []cube {
	seen := make(map[cube]bool, len(in))
	out := in[:0]
	for _, c := range in {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func coveredUniversePoints(c cube, u *extraprec.Universe) sparseset.Set {
	var idx []int
	free := c.mask
	n := u.N
	// enumerate every assignment of the don't-care bits
	var bitsPos []int
	for i := 0; i < n; i++ {
		if free&(1<<uint(i)) != 0 {
			bitsPos = append(bitsPos, i)
		}
	}
	total := 1 << uint(len(bitsPos))
	for combo := 0; combo < total; combo++ {
		v := c.value
		for k, bpos := range bitsPos {
			if combo&(1<<uint(k)) != 0 {
				v |= 1 << uint(bpos)
			}
		}
		if i, ok := u.Point2Int[bitpoint.FromBits(n, v)]; ok {
			idx = append(idx, i)
		}
	}
	return sparseset.New(idx...)
}

// cubeToRefutingClause builds the OrClause that is false exactly on
// the cube and true everywhere else: the negation of the AndClause
// matching the cube's fixed bits (spec.md §4.C).
func cubeToRefutingClause(c cube, n int) constraint.Constraint {
	var lits []int
	for i := 0; i < n; i++ {
		bit := uint64(1) << uint(i)
		if c.mask&bit != 0 {
			continue
		}
		if c.value&bit != 0 {
			lits = append(lits, i+1)
		} else {
			lits = append(lits, -(i + 1))
		}
	}
	return constraint.AndClause(lits).Invert()
}
