package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/command"
	"github.com/monolearn/conmodel/pool"
)

func TestParseMethodSplitsArgsAndKWArgs(t *testing.T) {
	pc := command.ParseMethod("Chain:LevelLearn,levels_lower=3")
	assert.Equal(t, "Chain", pc.Method)
	assert.Equal(t, []string{"LevelLearn"}, pc.Args)
	assert.Equal(t, "3", pc.KWArgs["levels_lower"])
}

func TestParseMethodWithNoArgs(t *testing.T) {
	pc := command.ParseMethod("AutoSelect")
	assert.Equal(t, "AutoSelect", pc.Method)
	assert.Empty(t, pc.Args)
	assert.Empty(t, pc.KWArgs)
}

func TestParseValueCoercesTypes(t *testing.T) {
	assert.Equal(t, 123, command.ParseValue("123"))
	assert.Equal(t, 123.0, command.ParseValue("123.0"))
	assert.Equal(t, "123a", command.ParseValue("123a"))
	assert.Nil(t, command.ParseValue("None"))
	assert.Equal(t, false, command.ParseValue("False"))
	assert.Equal(t, true, command.ParseValue("True"))
	assert.Equal(t, "true", command.ParseValue("true"))
}

func monotoneFixture() (include, exclude []bitpoint.Point) {
	include = []bitpoint.Point{
		bitpoint.New(1, 1, 0), bitpoint.New(1, 0, 1), bitpoint.New(0, 1, 1), bitpoint.New(1, 1, 1),
	}
	exclude = []bitpoint.Point{
		bitpoint.New(0, 0, 0), bitpoint.New(1, 0, 0), bitpoint.New(0, 1, 0), bitpoint.New(0, 0, 1),
	}
	return
}

func TestRunCommandStringLearnThenSubsetMILP(t *testing.T) {
	include, exclude := monotoneFixture()
	p, err := pool.New(exclude, include, pool.WithType(pool.TypeUpper))
	require.NoError(t, err)

	tool := command.NewTool(p, t.TempDir()+"/")
	ctx := context.Background()

	require.NoError(t, tool.RunCommandString(ctx, "Learn:LevelLearn,levels_lower=3"))
	require.NoError(t, p.Finalize())

	require.NoError(t, tool.RunCommandString(ctx, "SubsetMILP:"))
	best, ok := tool.Selector.Best()
	require.True(t, ok)
	assert.NotEmpty(t, best)
}

func TestRunCommandStringUnknownMethodErrors(t *testing.T) {
	include, exclude := monotoneFixture()
	p, err := pool.New(exclude, include, pool.WithType(pool.TypeUpper))
	require.NoError(t, err)
	tool := command.NewTool(p, t.TempDir()+"/")
	err = tool.RunCommandString(context.Background(), "NotAMethod:")
	require.Error(t, err)
}

func TestChainRecordsStepsForShiftLearn(t *testing.T) {
	include, exclude := monotoneFixture()
	p, err := pool.New(exclude, include, pool.WithType(pool.TypeUpper))
	require.NoError(t, err)
	tool := command.NewTool(p, t.TempDir()+"/")

	require.NoError(t, tool.RunCommandString(context.Background(), "Chain:LevelLearn,levels_lower=3"))
	require.Len(t, tool.Chain, 1)
	assert.Equal(t, "LevelLearn", tool.Chain[0].Module)
	assert.Equal(t, "3", tool.Chain[0].KWArgs["levels_lower"])
}
