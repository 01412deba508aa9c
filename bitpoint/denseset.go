package bitpoint

import "github.com/bits-and-blooms/bitset"

// DenseSet is a dense subset of {0,1}^n, stored as one bit per value
// in [0, 2^n) via github.com/bits-and-blooms/bitset. It implements the
// monotone closures (LowerSet, UpperSet, MaxSet, MinSet) that
// extraprec.LowerSet and shiftlearn use to reason about INCLUDE/EXCLUDE
// as subsets of {0,1}^n, independent of any particular point ordering.
//
// n must be small enough that 2^n bits fit in memory; this matches
// the sizes conmodel targets (S-box-scale combinatorial functions),
// not arbitrary n.
type DenseSet struct {
	n    int
	bits *bitset.BitSet
}

// NewDenseSet returns the empty subset of {0,1}^n.
func NewDenseSet(n int) *DenseSet {
	return &DenseSet{n: n, bits: bitset.New(uint(1) << uint(n))}
}

// FromPoints returns the DenseSet containing exactly pts.
func FromPoints(n int, pts []Point) *DenseSet {
	d := NewDenseSet(n)
	for _, p := range pts {
		d.Add(p)
	}
	return d
}

func (d *DenseSet) N() int { return d.n }

// Add inserts p.
func (d *DenseSet) Add(p Point) { d.bits.Set(uint(p.Bits)) }

// Has reports membership.
func (d *DenseSet) Has(p Point) bool { return d.bits.Test(uint(p.Bits)) }

// Len returns the population count.
func (d *DenseSet) Len() uint { return d.bits.Count() }

// Clone returns an independent copy.
func (d *DenseSet) Clone() *DenseSet {
	return &DenseSet{n: d.n, bits: d.bits.Clone()}
}

// ToPoints returns the members in ascending packed-value order.
func (d *DenseSet) ToPoints() []Point {
	out := make([]Point, 0, d.bits.Count())
	for i, ok := d.bits.NextSet(0); ok; i, ok = d.bits.NextSet(i + 1) {
		out = append(out, FromBits(d.n, uint64(i)))
	}
	return out
}

// Union returns d ∪ other (new set).
func (d *DenseSet) Union(other *DenseSet) *DenseSet {
	return &DenseSet{n: d.n, bits: d.bits.Union(other.bits)}
}

// Intersect returns d ∩ other (new set).
func (d *DenseSet) Intersect(other *DenseSet) *DenseSet {
	return &DenseSet{n: d.n, bits: d.bits.Intersection(other.bits)}
}

// Complement returns the complement within {0,1}^n.
func (d *DenseSet) Complement() *DenseSet {
	full := uint(1) << uint(d.n)
	out := NewDenseSet(d.n)
	for v := uint(0); v < full; v++ {
		if !d.bits.Test(v) {
			out.bits.Set(v)
		}
	}
	return out
}

// Not XORs every member with shift, i.e. reorients the whole set by a
// direction/shift point (the "do_Not" primitive that shiftlearn and
// AndClause.Solutions build on).
func (d *DenseSet) Not(shift Point) *DenseSet {
	out := NewDenseSet(d.n)
	for i, ok := d.bits.NextSet(0); ok; i, ok = d.bits.NextSet(i + 1) {
		out.bits.Set(uint(uint64(i) ^ shift.Bits))
	}
	return out
}

// LowerSet returns the downward closure under coordinate-wise ≤: the
// set of all points q such that q ≤ p for some p in d.
//
// Implemented as a subset-sum ("zeta transform") sweep: for each
// coordinate, propagate membership from v down to v with that
// coordinate cleared. O(n·2^n).
func (d *DenseSet) LowerSet() *DenseSet {
	out := d.Clone()
	full := uint(1) << uint(d.n)
	for bit := 0; bit < d.n; bit++ {
		mask := uint(1) << uint(bit)
		for v := uint(0); v < full; v++ {
			if v&mask != 0 && out.bits.Test(v) {
				out.bits.Set(v &^ mask)
			}
		}
	}
	return out
}

// UpperSet returns the upward closure under coordinate-wise ≤.
func (d *DenseSet) UpperSet() *DenseSet {
	out := d.Clone()
	full := uint(1) << uint(d.n)
	for bit := 0; bit < d.n; bit++ {
		mask := uint(1) << uint(bit)
		for v := uint(0); v < full; v++ {
			if v&mask == 0 && out.bits.Test(v) {
				out.bits.Set(v | mask)
			}
		}
	}
	return out
}

// MaxSet returns the maximal elements of d under coordinate-wise ≤:
// the points of d with no other point of d (at any Hamming distance,
// not just distance 1) coordinate-wise ≥ them.
//
// Computed with a "sum over supersets" transform: counts[v] ends up
// holding the number of members of d that are supersets of v,
// including v itself, so a member with counts==1 has no dominating
// point anywhere in d. Single-bit-neighbor checks are not sufficient
// here since d need not already be closed under UpperSet.
func (d *DenseSet) MaxSet() *DenseSet {
	full := uint(1) << uint(d.n)
	counts := make([]int, full)
	for v := uint(0); v < full; v++ {
		if d.bits.Test(v) {
			counts[v] = 1
		}
	}
	for bit := 0; bit < d.n; bit++ {
		mask := uint(1) << uint(bit)
		for v := uint(0); v < full; v++ {
			if v&mask == 0 {
				counts[v] += counts[v|mask]
			}
		}
	}
	out := NewDenseSet(d.n)
	for i, ok := d.bits.NextSet(0); ok; i, ok = d.bits.NextSet(i + 1) {
		if counts[i] == 1 {
			out.bits.Set(i)
		}
	}
	return out
}

// MinSet returns the minimal elements of d under coordinate-wise ≤:
// the points of d with no other point of d (at any Hamming distance)
// coordinate-wise ≤ them. Mirrors MaxSet with a "sum over subsets"
// transform.
func (d *DenseSet) MinSet() *DenseSet {
	full := uint(1) << uint(d.n)
	counts := make([]int, full)
	for v := uint(0); v < full; v++ {
		if d.bits.Test(v) {
			counts[v] = 1
		}
	}
	for bit := 0; bit < d.n; bit++ {
		mask := uint(1) << uint(bit)
		for v := uint(0); v < full; v++ {
			if v&mask != 0 {
				counts[v] += counts[v&^mask]
			}
		}
	}
	out := NewDenseSet(d.n)
	for i, ok := d.bits.NextSet(0); ok; i, ok = d.bits.NextSet(i + 1) {
		if counts[i] == 1 {
			out.bits.Set(i)
		}
	}
	return out
}

// IsEmpty reports whether d has no members.
func (d *DenseSet) IsEmpty() bool { return d.bits.Count() == 0 }
