package pool

import (
	"fmt"

	"github.com/monolearn/conmodel/bitpoint"
)

// hashSortedPoints computes a content hash of a sorted point list for
// log correlation across resumed runs (spec.md SPEC_FULL.md §4 item
// 3), ported from constraint_pool.py's hash_sorted_points. The
// original mixes in 128 bits of state per coordinate; this keeps the
// same mixing step over a 64-bit accumulator, since conmodel only
// needs a stable fingerprint for log messages, not a cryptographic
// digest.
func hashSortedPoints(pts []bitpoint.Point) string {
	const seed = 0xc1b8110707ac03c7
	const mul = 0x3dca7017
	h := uint64(seed)
	for _, p := range pts {
		for i := 0; i < p.N; i++ {
			h = (h + uint64(p.At(i))) * mul
			h ^= h >> 17
		}
		h ^= h >> 27
	}
	return fmt.Sprintf("%016x", h)
}
