package strategy

import (
	"testing"

	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/extraprec"
	"github.com/monolearn/conmodel/learner"
)

// universeAll3 builds the full {0,1}^3 universe, sorted as
// bitpoint.SortPoints would order it (ascending packed value).
func universeAll3() *extraprec.Universe {
	var pts []bitpoint.Point
	for v := uint64(0); v < 8; v++ {
		pts = append(pts, bitpoint.FromBits(3, v))
	}
	return extraprec.NewUniverse(3, pts)
}

func TestQuineMcCluskeyCoversEveryTargetPoint(t *testing.T) {
	u := universeAll3()
	sys := learner.New(len(u.Int2Point), extraprec.Identity{})

	QuineMcCluskey(sys, u, nil)

	if !sys.IsCompleteLower() {
		t.Fatal("expected learner to be marked complete after QuineMcCluskey")
	}

	for i, p := range u.Int2Point {
		covered := false
		for _, low := range sys.IterLower() {
			if low.Contains(i) {
				covered = true
				break
			}
		}
		if !covered {
			t.Errorf("point %v (index %d) not covered by any installed cube", p, i)
		}
	}
}

func TestQuineMcCluskeyWitnessRefutesExactlyItsCube(t *testing.T) {
	u := universeAll3()
	sys := learner.New(len(u.Int2Point), extraprec.Identity{})

	QuineMcCluskey(sys, u, nil)

	for _, low := range sys.IterLower() {
		witness, ok := sys.Witness(low)
		if !ok {
			t.Fatalf("lower element %v has no recorded witness", low)
		}
		for _, i := range low.Items() {
			p := u.Int2Point[i]
			if witness.Satisfy(p) {
				t.Errorf("witness for %v should refute covered point %v, but satisfied it", low, p)
			}
		}
	}
}

func TestMergeCubesFindsSingleFullCubeOverFullHypercube(t *testing.T) {
	var target []uint64
	for v := uint64(0); v < 8; v++ {
		target = append(target, v)
	}
	cubes := mergeCubes(3, target, nil)
	if len(cubes) != 1 {
		t.Fatalf("expected a single maximal don't-care cube, got %d: %v", len(cubes), cubes)
	}
	if cubes[0].mask != 0b111 {
		t.Errorf("expected full don't-care mask 0b111, got %03b", cubes[0].mask)
	}
}

func TestMergeCubesRespectsMissingCorner(t *testing.T) {
	// every point of {0,1}^3 except 0b111: no cube can legally free all
	// three bits, since that cube would also (wrongly) cover 0b111.
	var target []uint64
	for v := uint64(0); v < 7; v++ {
		target = append(target, v)
	}
	cubes := mergeCubes(3, target, nil)
	for _, c := range cubes {
		if c.mask == 0b111 {
			t.Fatalf("merge produced a cube covering the missing corner: %v", c)
		}
	}
}
