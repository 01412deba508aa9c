package extraprec_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/extraprec"
	"github.com/monolearn/conmodel/sparseset"
)

// universe3 is all 8 points of {0,1}^3, in ascending Bits order — the
// shape every extraprec.Universe expects (spec.md §4.B).
func universe3() []bitpoint.Point {
	pts := make([]bitpoint.Point, 8)
	for v := 0; v < 8; v++ {
		pts[v] = bitpoint.FromBits(3, uint64(v))
	}
	return pts
}

func TestIdentityIsNoOp(t *testing.T) {
	id := extraprec.Identity{}
	s := sparseset.New(1, 3, 5)

	r, skippedR := id.Reduce(s)
	e, skippedE := id.Expand(s)

	assert.Equal(t, s, r)
	assert.Equal(t, s, e)
	assert.Zero(t, skippedR)
	assert.Zero(t, skippedE)
}

func TestLowerSetExpandIsDownwardClosure(t *testing.T) {
	u := extraprec.NewUniverse(3, universe3())
	lp := extraprec.NewLowerSet(u)

	// index of (1,1,0) i.e. Bits=3
	s := sparseset.New(3)
	expanded, skipped := lp.Expand(s)

	assert.Zero(t, skipped)
	want := []int{0, 1, 2, 3} // Bits 0,1,2,3 all below or equal to 3
	got := expanded.Items()
	sort.Ints(got)
	assert.Equal(t, want, got)
}

func TestLowerSetReduceKeepsOnlyMaximal(t *testing.T) {
	u := extraprec.NewUniverse(3, universe3())
	lp := extraprec.NewLowerSet(u)

	// {1,2,3} = {(1,0,0),(0,1,0),(1,1,0)}; maximal is just (1,1,0)=3
	s := sparseset.New(1, 2, 3)
	reduced, skipped := lp.Reduce(s)

	assert.Zero(t, skipped)
	assert.Equal(t, []int{3}, reduced.Items())
}

// TestLowerSetReduceMultiBitDomination is the multi-bit-gap case
// TestLowerSetReduceKeepsOnlyMaximal doesn't cover: 1=(1,0,0) is
// dominated by 7=(1,1,1), but no single-bit superset of 1 (3 or 5) is
// in s, so Reduce must still drop it rather than keep both.
func TestLowerSetReduceMultiBitDomination(t *testing.T) {
	u := extraprec.NewUniverse(3, universe3())
	lp := extraprec.NewLowerSet(u)

	s := sparseset.New(1, 7)
	reduced, skipped := lp.Reduce(s)

	assert.Zero(t, skipped)
	assert.Equal(t, []int{7}, reduced.Items())
}

func TestLowerSetReduceExpandRoundTrip(t *testing.T) {
	u := extraprec.NewUniverse(3, universe3())
	lp := extraprec.NewLowerSet(u)

	s := sparseset.New(3, 5) // (1,1,0) and (1,0,1)
	reduced, _ := lp.Reduce(s)
	expandedOfReduced, _ := lp.Expand(reduced)
	expandedOfOriginal, _ := lp.Expand(s)

	assert.Equal(t, expandedOfOriginal.Items(), expandedOfReduced.Items())

	reducedAgain, _ := lp.Reduce(expandedOfOriginal)
	assert.Equal(t, reduced.Items(), reducedAgain.Items())
}

func TestSubspaceReduceFindsOffsetAndBasis(t *testing.T) {
	u := extraprec.NewUniverse(3, universe3())
	sp := extraprec.NewSubspace(u)

	// points (0,0,0)=0 and (1,1,0)=3: an affine line through the origin
	s := sparseset.New(0, 3)
	reduced, skipped := sp.Reduce(s)

	assert.Zero(t, skipped)
	assert.Equal(t, 2, reduced.Len())
}

func TestSubspaceExpandIsAffineSpan(t *testing.T) {
	u := extraprec.NewUniverse(3, universe3())
	sp := extraprec.NewSubspace(u)

	// offset (0,0,0)=0, spanned by (1,1,0)=3: span is {0,3}
	s := sparseset.New(0, 3)
	expanded, skipped := sp.Expand(s)

	assert.Zero(t, skipped)
	got := expanded.Items()
	sort.Ints(got)
	assert.Equal(t, []int{0, 3}, got)
}

func TestSubspaceExpandDetectsInfeasibility(t *testing.T) {
	// universe missing point Bits=5: a span that would need it reports skipped>0
	pts := universe3()
	pts = append(pts[:5:5], pts[6:]...) // drop Bits=5 from the universe
	u := extraprec.NewUniverse(3, pts)
	sp := extraprec.NewSubspace(u)

	// indices 0,1,4 are still Bits=0,1,4 (nothing below index 5 was removed).
	// offset=0, basis vectors 1 and 4 span {0,1,4,5}; Bits=5 is missing.
	s := sparseset.New(0, 1, 4)
	_, skipped := sp.Expand(s)
	assert.Greater(t, skipped, 0)
}

func TestSubspaceReduceExpandRoundTrip(t *testing.T) {
	u := extraprec.NewUniverse(3, universe3())
	sp := extraprec.NewSubspace(u)

	s := sparseset.New(1, 2, 3) // offset 1, plus 2 and 3 (3 = 1^2)
	reduced, _ := sp.Reduce(s)
	expandedOfReduced, _ := sp.Expand(reduced)
	expandedOfOriginal, _ := sp.Expand(s)

	gotReduced := expandedOfReduced.Items()
	gotOriginal := expandedOfOriginal.Items()
	sort.Ints(gotReduced)
	sort.Ints(gotOriginal)
	assert.Equal(t, gotOriginal, gotReduced)
}
