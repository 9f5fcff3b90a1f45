package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartSet_AddAndTest(t *testing.T) {
	s := newStartSet()
	s.add('a')
	s.add(255)
	require.True(t, s.Test('a'))
	require.True(t, s.Test(255))
	require.False(t, s.Test('b'))
}

func TestStartSet_Merge(t *testing.T) {
	a := newStartSet()
	a.add('x')
	b := newStartSet()
	b.add('y')
	a.merge(b)
	require.True(t, a.Test('x'))
	require.True(t, a.Test('y'))
}

func TestComputeStartSet_AnyCharGivesUp(t *testing.T) {
	tree, err := Parse(`.`, Optimize)
	require.NoError(t, err)
	require.Nil(t, computeStartSet(tree))
}

func TestComputeStartSet_OptionalLeadingCharWidensSet(t *testing.T) {
	tree, err := Parse(`a?b`, Optimize)
	require.NoError(t, err)
	set := computeStartSet(tree)
	require.NotNil(t, set)
	require.True(t, set.Test('a'))
	require.True(t, set.Test('b'))
}

func TestComputeStartSet_IgnoreCaseCoversBothCases(t *testing.T) {
	tree, err := Parse(`a`, IgnoreCase|Optimize)
	require.NoError(t, err)
	set := computeStartSet(tree)
	require.NotNil(t, set)
	require.True(t, set.Test('a'))
	require.True(t, set.Test('A'))
}

func TestLeadingLiteralPrefix_StopsAtClass(t *testing.T) {
	tree, err := Parse(`ab[cd]e`, 0)
	require.NoError(t, err)
	require.Equal(t, []rune{'a', 'b'}, leadingLiteralPrefix(tree))
}

func TestLeadingLiteralPrefix_StopsAtQuantifiedLiteral(t *testing.T) {
	tree, err := Parse(`ab?c`, 0)
	require.NoError(t, err)
	require.Equal(t, []rune{'a'}, leadingLiteralPrefix(tree))
}
