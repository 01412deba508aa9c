package subsetcover

import (
	"fmt"
	"math"
	"os"

	"github.com/monolearn/conmodel/pool"
)

// Selector tracks the best-known subset-cover bound across repeated
// selection runs against a single pool.Pool, refusing to regress and
// always recording the producing strategy in a ".source" sidecar
// (SPEC_FULL.md §4 item 4, ported from constraint_pool.py's
// best_subset_size_ub/best_subset bookkeeping in Pool.report).
type Selector struct {
	OutputPrefix string

	bestSizeUB int
	bestSubset []pool.Constraint
}

// NewSelector builds a Selector writing under prefix (empty disables
// file output, matching the Python original's "output prefix not set,
// not writing" behavior).
func NewSelector(outputPrefix string) *Selector {
	return &Selector{OutputPrefix: outputPrefix, bestSizeUB: math.MaxInt}
}

// Best returns the best subset recorded so far and whether one exists.
func (s *Selector) Best() ([]pool.Constraint, bool) {
	return s.bestSubset, s.bestSubset != nil
}

// Report records a candidate result from source, keeping it only if it
// improves (or matches, when optimal and not yet on disk) the current
// best-known bound; writes the constraint list and a ".source"
// sidecar at OutputPrefix<n>[.opt] (n is the subset size, appended
// directly to the prefix).
func (s *Selector) Report(constraints []pool.Constraint, source string, optimal bool) error {
	log.WithField("count", len(constraints)).WithField("source", source).
		WithField("optimal", optimal).Info("subsetcover: reporting candidate subset")

	if s.OutputPrefix == "" {
		log.Warn("subsetcover: output prefix not set, not writing")
		if len(constraints) < s.bestSizeUB {
			s.bestSizeUB = len(constraints)
			s.bestSubset = constraints
		}
		return nil
	}

	filename := fmt.Sprintf("%s%d", s.OutputPrefix, len(constraints))
	if optimal {
		filename += ".opt"
	}

	_, statErr := os.Stat(filename)
	fileExists := statErr == nil
	improves := len(constraints) < s.bestSizeUB
	matchesAndNewlyOptimal := len(constraints) == s.bestSizeUB && optimal && !fileExists
	if !improves && !matchesAndNewlyOptimal {
		log.WithField("size", len(constraints)).WithField("best", s.bestSizeUB).
			Info("subsetcover: skipping solution at or above the best-known bound")
		return nil
	}

	s.bestSizeUB = len(constraints)
	s.bestSubset = constraints

	if err := os.WriteFile(filename+".source", []byte(source+"\n"), 0o644); err != nil {
		return fmt.Errorf("subsetcover: writing .source sidecar: %w", err)
	}

	if _, err := os.Stat(filename); err == nil {
		log.WithField("filename", filename).Warn("subsetcover: file exists, skipping overwrite")
		return nil
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("subsetcover: writing subset file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, len(constraints))
	for _, c := range constraints {
		fmt.Fprintln(f, c.Final.String())
	}
	log.WithField("filename", filename).WithField("count", len(constraints)).Info("subsetcover: saved subset")
	return nil
}
