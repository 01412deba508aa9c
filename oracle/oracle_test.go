package oracle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/extraprec"
	"github.com/monolearn/conmodel/oracle"
	"github.com/monolearn/conmodel/sparseset"
)

func TestLPOracleEmptyQueryIsTrivial(t *testing.T) {
	o := oracle.NewLPOracle(2, true, []bitpoint.Point{bitpoint.New(1, 1)}, nil)
	ok, w, err := o.Query(sparseset.Set{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, w)
}

func TestLPOracleSeparatesMonotoneOr(t *testing.T) {
	// monotone upper: INCLUDE={(1,0),(0,1),(1,1)}, EXCLUDE={(0,0)}
	include := []bitpoint.Point{bitpoint.New(1, 0), bitpoint.New(0, 1), bitpoint.New(1, 1)}
	i2exc := []bitpoint.Point{bitpoint.New(0, 0)}
	o := oracle.NewLPOracle(2, true, include, i2exc)

	ok, w, err := o.Query(sparseset.New(0))
	require.NoError(t, err)
	require.True(t, ok)
	for _, p := range include {
		assert.True(t, w.Satisfy(p))
	}
	assert.False(t, w.Satisfy(i2exc[0]))
}

func TestLPOracleReportsInfeasible(t *testing.T) {
	// INCLUDE={(0,0)}, EXCLUDE={(0,0)}: same point can't be both
	include := []bitpoint.Point{bitpoint.New(0, 0)}
	i2exc := []bitpoint.Point{bitpoint.New(0, 0)}
	o := oracle.NewLPOracle(2, true, include, i2exc)

	ok, _, err := o.Query(sparseset.New(0))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubspaceOracleEmptyQueryIsTrivial(t *testing.T) {
	u := extraprec.NewUniverse(2, []bitpoint.Point{
		bitpoint.FromBits(2, 0), bitpoint.FromBits(2, 1), bitpoint.FromBits(2, 2), bitpoint.FromBits(2, 3),
	})
	o := oracle.NewSubspaceOracle(u)
	ok, w, err := o.Query(sparseset.Set{})
	require.NoError(t, err)
	assert.True(t, ok)
	for v := 0; v < 4; v++ {
		assert.True(t, w.Satisfy(bitpoint.FromBits(2, uint64(v))))
	}
}

func TestSubspaceOracleFindsBasis(t *testing.T) {
	pts := []bitpoint.Point{
		bitpoint.FromBits(3, 0), bitpoint.FromBits(3, 1), bitpoint.FromBits(3, 2), bitpoint.FromBits(3, 3),
		bitpoint.FromBits(3, 4), bitpoint.FromBits(3, 5), bitpoint.FromBits(3, 6), bitpoint.FromBits(3, 7),
	}
	u := extraprec.NewUniverse(3, pts)
	o := oracle.NewSubspaceOracle(u)

	// {0,3}: the line through the origin spanned by (1,1,0)
	ok, w, err := o.Query(sparseset.New(0, 3))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, w.Satisfy(bitpoint.FromBits(3, 0)))
	assert.True(t, w.Satisfy(bitpoint.FromBits(3, 3)))
	assert.False(t, w.Satisfy(bitpoint.FromBits(3, 1)))
}
