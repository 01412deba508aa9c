// Package learner implements the lower-set learner of spec.md §4.D:
// a frontier of maximal feasible ("lower") and minimal infeasible
// ("upper") sparse index sets, each feasible element tagged with the
// witnessing constraint that separates it. Every mutation routes
// through a pluggable extraprec.ExtraPrec closure, keeping
// invariant-preserving state behind a small set of exported methods.
package learner

import (
	"github.com/monolearn/conmodel/constraint"
	"github.com/monolearn/conmodel/extraprec"
	"github.com/monolearn/conmodel/internal/logging"
	"github.com/monolearn/conmodel/sparseset"
)

var log = logging.For("learner")

// Verdict is the outcome of querying the cached frontier for a
// candidate sparse index set (spec.md §4.D "query helpers").
type Verdict int

const (
	// Unknown means the candidate is neither covered by a lower
	// element nor dominated by an upper element: the oracle must be
	// consulted.
	Unknown Verdict = iota
	Feasible
	Infeasible
)

func (v Verdict) String() string {
	switch v {
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// System holds the frontier state for a pool of N EXCLUDE indices
// (spec.md "Learner state").
type System struct {
	N  int
	EP extraprec.ExtraPrec

	lower []sparseset.Set
	upper []sparseset.Set
	meta  map[string]constraint.Constraint

	isCompleteLower bool
	isCompleteUpper bool
}

// New builds an empty learner system. ep may be nil, meaning
// extraprec.Identity.
func New(n int, ep extraprec.ExtraPrec) *System {
	if ep == nil {
		ep = extraprec.Identity{}
	}
	return &System{
		N:    n,
		EP:   ep,
		meta: make(map[string]constraint.Constraint),
	}
}

func (s *System) IsCompleteLower() bool { return s.isCompleteLower }
func (s *System) IsCompleteUpper() bool { return s.isCompleteUpper }

// MarkCompleteLower records that lower is the full border of the
// feasible family (spec.md §4.E step 2 of GainanovSAT).
func (s *System) MarkCompleteLower() { s.isCompleteLower = true }
func (s *System) MarkCompleteUpper() { s.isCompleteUpper = true }

// NLower, NUpper report the current frontier sizes.
func (s *System) NLower() int { return len(s.lower) }
func (s *System) NUpper() int { return len(s.upper) }

// AddLower inserts raw (after reduction) into lower, removing any
// existing subset, and records witness in meta. If isPrime is false,
// an existing lower element that is a superset of the reduced S makes
// S redundant and it is not inserted. Returns whether S was inserted.
func (s *System) AddLower(raw sparseset.Set, witness constraint.Constraint, isPrime bool) bool {
	S, skipped := s.EP.Reduce(raw)
	if skipped > 0 {
		log.WithField("skipped", skipped).Debug("AddLower: reduce left the universe")
	}
	if !isPrime {
		for _, existing := range s.lower {
			if S.Subset(existing) {
				return false
			}
		}
	}
	kept := s.lower[:0]
	for _, existing := range s.lower {
		if !existing.Subset(S) {
			kept = append(kept, existing)
		} else {
			delete(s.meta, existing.Key())
		}
	}
	s.lower = append(kept, S)
	s.meta[S.Key()] = witness
	return true
}

// AddUpper inserts raw (after reduction) into upper, removing any
// existing superset. Returns whether S was inserted (false if an
// existing upper element already subsumes it).
func (s *System) AddUpper(raw sparseset.Set) bool {
	S, skipped := s.EP.Reduce(raw)
	if skipped > 0 {
		log.WithField("skipped", skipped).Debug("AddUpper: reduce left the universe")
	}
	for _, existing := range s.upper {
		if existing.Subset(S) {
			return false
		}
	}
	kept := s.upper[:0]
	for _, existing := range s.upper {
		if !S.Subset(existing) {
			kept = append(kept, existing)
		}
	}
	s.upper = append(kept, S)
	return true
}

// IterLower, IterUpper return the current frontiers in deterministic
// (lexicographic sparse-set) order.
func (s *System) IterLower() []sparseset.Set {
	out := append([]sparseset.Set(nil), s.lower...)
	sparseset.SortByLess(out)
	return out
}

func (s *System) IterUpper() []sparseset.Set {
	out := append([]sparseset.Set(nil), s.upper...)
	sparseset.SortByLess(out)
	return out
}

// Witness returns the constraint recorded for a lower-set element.
func (s *System) Witness(lowerElement sparseset.Set) (constraint.Constraint, bool) {
	c, ok := s.meta[lowerElement.Key()]
	return c, ok
}

// Verdict reports the cached classification of candidate without
// consulting the oracle: Feasible if it is a subset of some lower
// element, Infeasible if some upper element is a subset of it,
// Unknown otherwise.
func (s *System) Verdict(candidate sparseset.Set) (Verdict, constraint.Constraint) {
	for _, low := range s.lower {
		if candidate.Subset(low) {
			c, _ := s.Witness(low)
			return Feasible, c
		}
	}
	for _, up := range s.upper {
		if up.Subset(candidate) {
			return Infeasible, nil
		}
	}
	return Unknown, nil
}
