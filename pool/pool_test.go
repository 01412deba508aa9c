package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/oracle"
	"github.com/monolearn/conmodel/pool"
	"github.com/monolearn/conmodel/strategy"
)

// monotoneFixture: INCLUDE={110,101,011,111}, EXCLUDE={000,001,010,100}
// (the upper set "weight >= 2").
func monotoneFixture() (include, exclude []bitpoint.Point) {
	include = []bitpoint.Point{
		bitpoint.New(1, 1, 0), bitpoint.New(1, 0, 1), bitpoint.New(0, 1, 1), bitpoint.New(1, 1, 1),
	}
	exclude = []bitpoint.Point{
		bitpoint.New(0, 0, 0), bitpoint.New(1, 0, 0), bitpoint.New(0, 1, 0), bitpoint.New(0, 0, 1),
	}
	return
}

func TestNewRejectsEmptyExclude(t *testing.T) {
	_, err := pool.New(nil, nil)
	require.ErrorIs(t, err, pool.ErrNoExcludePoints)
}

func TestConstraintsBeforeFinalizeErrors(t *testing.T) {
	include, exclude := monotoneFixture()
	p, err := pool.New(exclude, include, pool.WithType(pool.TypeUpper))
	require.NoError(t, err)
	_, err = p.Constraints()
	require.ErrorIs(t, err, pool.ErrNotFinalized)
}

func TestFinalizeTwiceErrors(t *testing.T) {
	include, exclude := monotoneFixture()
	p, err := pool.New(exclude, include, pool.WithType(pool.TypeUpper))
	require.NoError(t, err)
	populate(t, p)
	require.NoError(t, p.Finalize())
	require.ErrorIs(t, p.Finalize(), pool.ErrAlreadyFinalized)
}

func TestFinalizeProducesSeparatingConstraints(t *testing.T) {
	include, exclude := monotoneFixture()
	p, err := pool.New(exclude, include, pool.WithType(pool.TypeUpper))
	require.NoError(t, err)
	populate(t, p)
	require.NoError(t, p.Finalize())

	cs, err := p.Constraints()
	require.NoError(t, err)
	require.NotEmpty(t, cs)
	require.NoError(t, p.CheckSubset(cs))
}

func TestTypeLowerComplementsAndStillSeparates(t *testing.T) {
	// present as a LOWER pool: swap roles so that include is now the
	// downward-closed family ("weight <= 1" points).
	exclude, include := monotoneFixture()
	p, err := pool.New(exclude, include, pool.WithType(pool.TypeLower))
	require.NoError(t, err)
	assert.True(t, p.IsUpper)
	assert.NotNil(t, p.Direction)

	populate(t, p)
	require.NoError(t, p.Finalize())
	cs, err := p.Constraints()
	require.NoError(t, err)
	require.NotEmpty(t, cs)
}

// populate drives LevelLearn over an LPOracle to fill the learner's
// lower frontier before Finalize.
func populate(t *testing.T, p *pool.Pool) {
	t.Helper()
	o := oracle.NewLPOracle(p.N, p.IsUpper, p.Include, p.I2Exc)
	strat := strategy.LevelLearn{LevelsLower: p.N}
	require.NoError(t, strat.Run(p.System, o))
}
