// Package strategy implements the learning strategies of spec.md
// §4.E that drive a learner.System to completeness by repeatedly
// querying an oracle.Oracle: LevelLearn, GainanovSAT, RandomLower, and
// the offline Quine-McCluskey cube enumeration (spec.md §4.C).
package strategy

import (
	"github.com/monolearn/conmodel/learner"
	"github.com/monolearn/conmodel/oracle"
)

// Strategy is the common capability of every learning strategy: drive
// sys toward completeness using o, mutating sys in place.
type Strategy interface {
	Run(sys *learner.System, o oracle.Oracle) error
}

// Sense controls GainanovSAT's tie-breaking (spec.md §4.E): which
// direction the greedy frontier walk prefers to extend first.
type Sense int

const (
	SenseNone Sense = iota
	SenseMin
	SenseMax
)
