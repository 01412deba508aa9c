package strategy

import (
	"math/rand"

	"github.com/monolearn/conmodel/internal/logging"
	"github.com/monolearn/conmodel/learner"
	"github.com/monolearn/conmodel/oracle"
	"github.com/monolearn/conmodel/sparseset"
)

var randomLog = logging.For("strategy.random")

// windowSize is how many recent queries RandomLower looks back over
// to compute its redundant-query ratio (spec.md §4.E).
const windowSize = 50

// RandomLower randomly samples sparse index sets and classifies the
// unclassified ones, stopping once the recent ratio of queries that
// were already cached (redundant) exceeds MaxRepeatRate. Used for
// seeding the frontier before a targeted strategy runs.
type RandomLower struct {
	MaxRepeatRate float64
	Rand          *rand.Rand // optional; defaults to a new source seeded with 1
}

func (r RandomLower) Run(sys *learner.System, o oracle.Oracle) error {
	n := sys.N
	if n == 0 {
		return nil
	}
	rng := r.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	window := make([]bool, 0, windowSize)
	pos := 0

	for {
		k := rng.Intn(n + 1)
		perm := rng.Perm(n)[:k]
		S := sparseset.New(perm...)

		redundant := false
		if verdict, _ := sys.Verdict(S); verdict != learner.Unknown {
			redundant = true
		} else {
			feasible, witness, err := o.Query(S)
			if err != nil {
				return err
			}
			if feasible {
				sys.AddLower(S, witness, false)
			} else {
				sys.AddUpper(S)
			}
		}

		if len(window) < windowSize {
			window = append(window, redundant)
		} else {
			window[pos%windowSize] = redundant
			pos++
		}

		if len(window) == windowSize {
			hits := 0
			for _, v := range window {
				if v {
					hits++
				}
			}
			ratio := float64(hits) / float64(windowSize)
			if ratio > r.MaxRepeatRate {
				randomLog.WithField("ratio", ratio).Debug("RandomLower: redundant-query ratio exceeded, stopping")
				return nil
			}
		}
	}
}
