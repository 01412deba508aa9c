package sparseset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/monolearn/conmodel/sparseset"
)

func TestNewCanonicalizes(t *testing.T) {
	s := sparseset.New(5, 1, 3, 1, 5)
	assert.Equal(t, []int{1, 3, 5}, s.Items())
	assert.Equal(t, 3, s.Len())
}

func TestUnionIntersect(t *testing.T) {
	a := sparseset.New(1, 2, 3)
	b := sparseset.New(2, 3, 4)

	assert.Equal(t, []int{1, 2, 3, 4}, a.Union(b).Items())
	assert.Equal(t, []int{2, 3}, a.Intersect(b).Items())
}

func TestSubsetSuperset(t *testing.T) {
	small := sparseset.New(1, 3)
	big := sparseset.New(1, 2, 3, 4)

	assert.True(t, small.Subset(big))
	assert.False(t, big.Subset(small))
	assert.True(t, big.Superset(small))
}

func TestEqualAndKey(t *testing.T) {
	a := sparseset.New(3, 1, 2)
	b := sparseset.New(1, 2, 3)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "{1,2,3}", a.String())
}

func TestLessTotalOrder(t *testing.T) {
	cases := []sparseset.Set{
		sparseset.New(2),
		sparseset.New(1, 2),
		sparseset.New(1),
		sparseset.New(),
	}
	sparseset.SortByLess(cases)

	var got []string
	for _, s := range cases {
		got = append(got, s.String())
	}
	assert.Equal(t, []string{"{}", "{1}", "{1,2}", "{2}"}, got)
}

func TestContains(t *testing.T) {
	s := sparseset.New(4, 7, 11)
	assert.True(t, s.Contains(7))
	assert.False(t, s.Contains(8))
}
