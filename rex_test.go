package rex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	cases := []struct {
		name    string
		pattern string
		opts    RegexOptions
		subject string
		match   bool
		whole   string
		groups  []string // group i's text, index 0 unused unless asserted
	}{
		{
			name:    "star-then-required",
			pattern: `a*b`,
			subject: "aaab",
			match:   true,
			whole:   "aaab",
		},
		{
			name:    "alternation-plus-optional-anchored",
			pattern: `^(foo|qux|baz)+(bar)?baz$`,
			subject: "fooquxbarbaz",
			match:   true,
			whole:   "fooquxbarbaz",
			groups:  []string{"", "qux", "bar"},
		},
		{
			name:    "word-boundary-alternation",
			pattern: `.*\b(foo|bar)\b.*`,
			subject: "qux foo baz",
			match:   true,
			whole:   "qux foo baz",
			groups:  []string{"", "foo"},
		},
		{
			name:    "greedy-bounded-repeat",
			pattern: `(a{3,5})a+`,
			subject: "aaaaaa",
			match:   true,
			whole:   "aaaaaa",
			groups:  []string{"", "aaaaa"},
		},
		{
			name:    "lazy-bounded-repeat",
			pattern: `(a{3,5}?)a+`,
			subject: "aaaaaa",
			match:   true,
			whole:   "aaaaaa",
			groups:  []string{"", "aaa"},
		},
		{
			name:    "reset-start",
			pattern: `foo\Kbar`,
			subject: "foobar",
			match:   true,
			whole:   "bar",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			re, err := Compile(tc.pattern, tc.opts)
			require.NoError(t, err)

			m, err := re.FindStringMatch(tc.subject)
			require.NoError(t, err)

			if !tc.match {
				require.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			require.Equal(t, tc.whole, m.String())
			for i, want := range tc.groups {
				if i == 0 {
					continue
				}
				require.Equal(t, want, m.GroupByNumber(i).String())
			}
		})
	}
}

func TestNoMatch_EmptySubject(t *testing.T) {
	re := MustCompile(`a*b`, 0)
	m, err := re.FindStringMatch("")
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestNoMatch_WordBoundaryFailsWithoutSeparators(t *testing.T) {
	re := MustCompile(`.*\b(foo|bar)\b.*`, 0)
	m, err := re.FindStringMatch("quxfoobaz")
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestBackwardSearchWithLookaround(t *testing.T) {
	re := MustCompile(`(?<=f)oo(b[ae]r)?(?=baz)`, RightToLeft)
	m, err := re.FindStringMatch("foobarbazfoobazfooberbaz")
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Equal(t, "oober", m.String())
	require.Equal(t, "ber", m.GroupByNumber(1).String())
}

func TestFindNextMatch(t *testing.T) {
	re := MustCompile(`a+`, Optimize)
	m, err := re.FindStringMatch("aa bb aaa cc a")
	require.NoError(t, err)
	var got []string
	for m != nil {
		got = append(got, m.String())
		m, err = re.FindNextMatch(m)
		require.NoError(t, err)
	}
	require.Equal(t, []string{"aa", "aaa", "a"}, got)
}

func TestMatchString(t *testing.T) {
	re := MustCompile(`^\d+$`, 0)
	ok, err := re.MatchString("12345")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = re.MatchString("12a45")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIgnoreCase(t *testing.T) {
	re := MustCompile(`HELLO`, IgnoreCase)
	ok, err := re.MatchString("say hello world")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNegativeLookahead(t *testing.T) {
	re := MustCompile(`foo(?!bar)`, 0)
	m, err := re.FindStringMatch("foobaz foobar")
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Equal(t, 0, m.Index)
}

func TestEscape(t *testing.T) {
	require.Equal(t, `a\.b\*c`, Escape("a.b*c"))
}

func TestCompileError(t *testing.T) {
	_, err := Compile(`a(b`, 0)
	require.Error(t, err)
}

func TestMustCompilePanics(t *testing.T) {
	require.Panics(t, func() {
		MustCompile(`a(b`, 0)
	})
}
