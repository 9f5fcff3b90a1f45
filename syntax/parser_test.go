package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_Literal(t *testing.T) {
	tree, err := Parse("abc", 0)
	require.NoError(t, err)
	require.Equal(t, NtAlternation, tree.Nodes[0].Op)
	roots := tree.Children(0)
	require.Len(t, roots, 1)
	require.Equal(t, NtSequence, tree.Nodes[roots[0]].Op)
}

func TestParse_UnbalancedGroupErrors(t *testing.T) {
	_, err := Parse("a(b", 0)
	require.Error(t, err)
}

func TestParse_QuantifierShapes(t *testing.T) {
	tree, err := Parse(`a{3,5}?`, 0)
	require.NoError(t, err)
	seq := tree.Children(0)[0]
	lit := tree.Children(seq)[0]
	q := tree.Nodes[lit].Quant
	require.Equal(t, QMinMax, q.Type)
	require.False(t, q.Greedy)
	require.Equal(t, 3, q.Min)
	require.Equal(t, 5, q.Max)
}

func TestParse_CaptureGroupsAssignIncreasingSlots(t *testing.T) {
	tree, err := Parse(`(a)(b(c))`, 0)
	require.NoError(t, err)
	require.Equal(t, 4, tree.CaptureTop)
}

func TestParse_Lookaround(t *testing.T) {
	_, err := Parse(`(?<=a)b(?=c)`, 0)
	require.NoError(t, err)
	_, err = Parse(`(?<!a)b(?!c)`, 0)
	require.NoError(t, err)
}

func TestParse_ResetStart(t *testing.T) {
	tree, err := Parse(`foo\Kbar`, 0)
	require.NoError(t, err)
	seq := tree.Children(0)[0]
	var sawReset bool
	for _, ch := range tree.Children(seq) {
		if tree.Nodes[ch].Op == NtResetStart {
			sawReset = true
		}
	}
	require.True(t, sawReset)
}

func TestParse_CharClassNegation(t *testing.T) {
	tree, err := Parse(`[^abc]`, 0)
	require.NoError(t, err)
	seq := tree.Children(0)[0]
	leaf := tree.Children(seq)[0]
	require.Equal(t, NtMatcher, tree.Nodes[leaf].Op)
	cls := tree.Matchers[tree.Nodes[leaf].Value]
	require.True(t, cls.negate)
	require.False(t, cls.Matches('a'))
	require.True(t, cls.Matches('z'))
}

func TestParse_RootAlternationIsNotOptional(t *testing.T) {
	// Regression: the root Alternation node must carry oneQuant, not a
	// zero-value Quantifier, or the whole pattern would be optional.
	tree, err := Parse(`ab`, 0)
	require.NoError(t, err)
	q := tree.Nodes[0].Quant
	require.False(t, q.allowsNone())
}
