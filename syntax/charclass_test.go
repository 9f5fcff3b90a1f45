package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCharClass_RangeMerge(t *testing.T) {
	c := newCharClass()
	c.addRange('d', 'f')
	c.addRange('a', 'c')
	c.addRange('c', 'd')
	c.normalize(false)
	require.Equal(t, []runeRange{{'a', 'f'}}, c.ranges)
}

func TestCharClass_NormalizeFoldsBothBoundsIndependently(t *testing.T) {
	// A range spanning 'A'-'Z' folds to 'a'-'z', not a single endpoint's
	// fold applied to both bounds - the bug the original source had. The
	// folded class lower-cases its input too, so both cases match.
	c := newCharClass()
	c.addRange('A', 'Z')
	c.normalize(true)
	require.Equal(t, []runeRange{{'a', 'z'}}, c.ranges)
	require.True(t, c.Matches('m'))
	require.True(t, c.Matches('M'))
}

func TestCharClass_Exclude(t *testing.T) {
	c := newCharClass()
	c.addRange('a', 'z')
	c.setExclude([]rune{'q'})
	require.True(t, c.Matches('a'))
	require.False(t, c.Matches('q'))
}

func TestCharClass_Negate(t *testing.T) {
	c := newCharClass()
	c.addRange('a', 'z')
	c.negate = true
	require.False(t, c.Matches('m'))
	require.True(t, c.Matches('9'))
}

func TestCharClass_Single(t *testing.T) {
	c := newCharClass()
	c.addRange('x', 'x')
	c.normalize(false)
	r, ok := c.single()
	require.True(t, ok)
	require.Equal(t, 'x', r)

	c.addRange('y', 'y')
	c.normalize(false)
	_, ok = c.single()
	require.False(t, ok)
}

func TestClassEscapeClasses(t *testing.T) {
	d := classEscapeClass('d')
	require.True(t, d.Matches('5'))
	require.False(t, d.Matches('a'))

	w := classEscapeClass('W')
	require.False(t, w.Matches('_'))
	require.True(t, w.Matches('!'))

	s := classEscapeClass('s')
	require.True(t, s.Matches(' '))
	require.False(t, s.Matches('x'))
}
