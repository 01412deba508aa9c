package learner_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monolearn/conmodel/constraint"
	"github.com/monolearn/conmodel/learner"
	"github.com/monolearn/conmodel/sparseset"
)

func TestAddLowerKeepsOnlyMaximal(t *testing.T) {
	sys := learner.New(5, nil)

	ineq1 := constraint.NewInequality([]float64{1, 0, 0, 0, 0, 0})
	assert.True(t, sys.AddLower(sparseset.New(1), ineq1, true))
	assert.Equal(t, 1, sys.NLower())

	ineq2 := constraint.NewInequality([]float64{1, 1, 0, 0, 0, 0})
	assert.True(t, sys.AddLower(sparseset.New(1, 2), ineq2, true))
	// {1} is now dominated by {1,2} and must have been dropped
	assert.Equal(t, 1, sys.NLower())
	assert.Equal(t, []sparseset.Set{sparseset.New(1, 2)}, sys.IterLower())

	w, ok := sys.Witness(sparseset.New(1, 2))
	require.True(t, ok)
	assert.Equal(t, ineq2, w)
}

func TestAddLowerRejectsRedundantNonPrime(t *testing.T) {
	sys := learner.New(5, nil)
	big := constraint.NewInequality([]float64{1, 1, 0, 0, 0, 0})
	sys.AddLower(sparseset.New(1, 2), big, true)

	small := constraint.NewInequality([]float64{1, 0, 0, 0, 0, 0})
	inserted := sys.AddLower(sparseset.New(1), small, false)
	assert.False(t, inserted)
	assert.Equal(t, 1, sys.NLower())
}

func TestAddUpperKeepsOnlyMinimal(t *testing.T) {
	sys := learner.New(5, nil)
	assert.True(t, sys.AddUpper(sparseset.New(1, 2, 3)))
	assert.True(t, sys.AddUpper(sparseset.New(1, 2)))
	// {1,2,3} is dominated (superset) by the new minimal {1,2}
	assert.Equal(t, []sparseset.Set{sparseset.New(1, 2)}, sys.IterUpper())

	assert.False(t, sys.AddUpper(sparseset.New(1, 2, 3, 4)))
	assert.Equal(t, 1, sys.NUpper())
}

func TestVerdict(t *testing.T) {
	sys := learner.New(5, nil)
	ineq := constraint.NewInequality([]float64{1, 1, 0, 0, 0, 0})
	sys.AddLower(sparseset.New(1, 2), ineq, true)
	sys.AddUpper(sparseset.New(3, 4))

	v, w := sys.Verdict(sparseset.New(1))
	assert.Equal(t, learner.Feasible, v)
	assert.Equal(t, ineq, w)

	v, _ = sys.Verdict(sparseset.New(3, 4, 0))
	assert.Equal(t, learner.Infeasible, v)

	v, _ = sys.Verdict(sparseset.New(1, 3))
	assert.Equal(t, learner.Unknown, v)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	sys := learner.New(5, nil)
	ineq := constraint.NewInequality([]float64{1, 1, 0, 0, 0, 0})
	sys.AddLower(sparseset.New(1, 2), ineq, true)
	sys.AddUpper(sparseset.New(3, 4))
	sys.MarkCompleteLower()

	var buf bytes.Buffer
	require.NoError(t, sys.Save(&buf))

	restored := learner.New(0, nil)
	require.NoError(t, restored.Load(&buf))

	assert.Equal(t, sys.N, restored.N)
	assert.True(t, restored.IsCompleteLower())
	assert.Equal(t, sys.IterLower(), restored.IterLower())
	assert.Equal(t, sys.IterUpper(), restored.IterUpper())

	w, ok := restored.Witness(sparseset.New(1, 2))
	require.True(t, ok)
	assert.Equal(t, ineq, w)
}
