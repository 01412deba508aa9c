package strategy

import (
	"github.com/monolearn/conmodel/internal/logging"
	"github.com/monolearn/conmodel/learner"
	"github.com/monolearn/conmodel/oracle"
	"github.com/monolearn/conmodel/sparseset"
)

var levelLog = logging.For("strategy.level")

// LevelLearn enumerates every sparse index set of cardinality up to
// LevelsLower and classifies each with the oracle, seeding the
// frontier before a more targeted strategy (e.g. GainanovSAT) takes
// over (spec.md §4.E).
type LevelLearn struct {
	LevelsLower int
}

func (l LevelLearn) Run(sys *learner.System, o oracle.Oracle) error {
	n := sys.N
	for k := 0; k <= l.LevelsLower && k <= n; k++ {
		count := 0
		err := forEachCombination(n, k, func(idx []int) error {
			S := sparseset.New(idx...)
			if v, _ := sys.Verdict(S); v != learner.Unknown {
				return nil
			}
			feasible, witness, err := o.Query(S)
			if err != nil {
				return err
			}
			if feasible {
				sys.AddLower(S, witness, false)
			} else {
				sys.AddUpper(S)
			}
			count++
			return nil
		})
		if err != nil {
			return err
		}
		levelLog.WithField("level", k).WithField("classified", count).Debug("LevelLearn: level done")
	}
	return nil
}

// forEachCombination calls fn with every strictly increasing k-length
// index slice drawn from [0,n), in lexicographic order.
func forEachCombination(n, k int, fn func([]int) error) error {
	if k == 0 {
		return fn(nil)
	}
	if k > n {
		return nil
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		if err := fn(append([]int(nil), idx...)); err != nil {
			return err
		}
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return nil
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
