package syntax

import (
	"slices"
	"unicode"

	"github.com/gorexlib/rex/helpers"
)

// runeRange is an inclusive [Lo, Hi] range of code points.
type runeRange struct {
	Lo, Hi rune
}

// ctypePredicate is a named character-type test, with a negation flag so
// both \d/\D, \w/\W, \s/\S can share one shape.
type ctypePredicate struct {
	Name    string
	Negated bool
	Test    func(rune) bool
}

// CharClass is the matcher predicate a character class or class-escape
// compiles to: a binary-searchable range table, zero or more ctype
// predicates, an optional exclusion list, and an overall negation flag.
type CharClass struct {
	ranges  []runeRange
	cats    []ctypePredicate
	exclude []rune
	negate  bool
	fold    bool // set by normalize(true): input is lower-cased before the test
}

func newCharClass() *CharClass { return &CharClass{} }

func (c *CharClass) addRange(lo, hi rune) {
	if lo > hi {
		lo, hi = hi, lo
	}
	c.ranges = append(c.ranges, runeRange{lo, hi})
}

func (c *CharClass) addCategory(name string, negated bool, test func(rune) bool) {
	c.cats = append(c.cats, ctypePredicate{Name: name, Negated: negated, Test: test})
}

func (c *CharClass) setExclude(runes []rune) {
	c.exclude = runes
}

// normalize sorts ranges by Lo and merges ranges whose intervals are
// adjacent or overlapping (a.Hi+1 >= b.Lo). When ignoreCase is set, both
// bounds of every range are folded independently with unicode.ToLower,
// and Matches folds its input the same way; folding only one bound would
// silently drop characters from the range.
func (c *CharClass) normalize(ignoreCase bool) {
	if ignoreCase {
		c.fold = true
		for i := range c.ranges {
			c.ranges[i].Lo = unicode.ToLower(c.ranges[i].Lo)
			c.ranges[i].Hi = unicode.ToLower(c.ranges[i].Hi)
			if c.ranges[i].Lo > c.ranges[i].Hi {
				c.ranges[i].Lo, c.ranges[i].Hi = c.ranges[i].Hi, c.ranges[i].Lo
			}
		}
	}
	if len(c.ranges) == 0 {
		return
	}
	slices.SortFunc(c.ranges, func(a, b runeRange) int {
		switch {
		case a.Lo < b.Lo:
			return -1
		case a.Lo > b.Lo:
			return 1
		default:
			return 0
		}
	})
	merged := c.ranges[:1]
	for _, r := range c.ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		merged = append(merged, r)
	}
	c.ranges = merged
}

// single returns (codepoint, true) if this class, after normalization, is
// exactly one code point with no ctype predicates, exclusions, or
// negation - such a class can be emitted as a Literal node instead of a
// Matcher, for efficiency.
func (c *CharClass) single() (rune, bool) {
	if c.negate || len(c.cats) != 0 || len(c.exclude) != 0 || len(c.ranges) != 1 {
		return 0, false
	}
	r := c.ranges[0]
	if r.Lo != r.Hi {
		return 0, false
	}
	return r.Lo, true
}

// Matches reports whether r is a member of this class.
func (c *CharClass) Matches(r rune) bool {
	if c.fold {
		r = unicode.ToLower(r)
	}
	hit := c.inRanges(r)
	if !hit {
		for _, cat := range c.cats {
			v := cat.Test(r)
			if cat.Negated {
				v = !v
			}
			if v {
				hit = true
				break
			}
		}
	}
	if hit && len(c.exclude) > 0 {
		if idx := helpers.IndexOfAny1(c.exclude, r); idx >= 0 {
			hit = false
		}
	}
	if c.negate {
		return !hit
	}
	return hit
}

func (c *CharClass) inRanges(r rune) bool {
	_, found := slices.BinarySearchFunc(c.ranges, r, func(a runeRange, target rune) int {
		switch {
		case a.Hi < target:
			return -1
		case a.Lo > target:
			return 1
		default:
			return 0
		}
	})
	return found
}

// Predefined ctype predicates for the class-escapes: \d \D digit,
// \w \W alnum-plus-underscore, \s \S space, \h \H space-or-tab (no ctype
// lookup).
func isDigitChar(r rune) bool { return unicode.IsDigit(r) }
func isSpaceChar(r rune) bool { return unicode.IsSpace(r) }
func isWordChar(r rune) bool  { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }
func isHSpaceChar(r rune) bool { return r == ' ' || r == '\t' }

// classEscapeClass builds the CharClass for one of \d \D \w \W \s \S \h \H.
func classEscapeClass(letter byte) *CharClass {
	c := newCharClass()
	negated := letter >= 'A' && letter <= 'Z'
	var test func(rune) bool
	var name string
	switch letter | 0x20 {
	case 'd':
		test, name = isDigitChar, "d"
	case 'w':
		test, name = isWordChar, "w"
	case 's':
		test, name = isSpaceChar, "s"
	case 'h':
		test, name = isHSpaceChar, "h"
	}
	c.addCategory(name, negated, test)
	return c
}
