/*
Package rex is a regular expression engine with an interface similar to
Go's standard regexp package, but compiled to a Thompson-style NFA with
priority-ordered splits instead of a DFA - giving it backreference-free
lookaround (lookahead and lookbehind, forward or reverse) with linear-time
matching, no catastrophic backtracking.
*/
package rex

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gorexlib/rex/syntax"
)

// DefaultMatchTimeout is the value Compile stores in Regexp.MatchTimeout -
// "forever", since this engine has no backtracking blowup to guard
// against. Matching does not consult MatchTimeout.
var DefaultMatchTimeout = time.Duration(math.MaxInt64)

// RegexOptions is a bitset of compile-time flags, mirroring syntax.Options
// bit-for-bit so it can be cast directly when calling syntax.Parse.
type RegexOptions int32

// None compiles with every option at its default.
const None RegexOptions = 0

const (
	IgnoreCase  RegexOptions = 1 << iota // "i"
	NoSubs                               // disable capture tracking except group 0
	Optimize                             // build the start-character bitmap
	RightToLeft                          // compile to run backward
	Debug                                // print Code.Dump() to stdout after Compile
)

// Regexp is the representation of a compiled regular expression. A
// Regexp is safe for concurrent use by multiple goroutines: its *syntax.Code
// is immutable after Compile, and each call borrows its own Runner from a pool.
type Regexp struct {
	MatchTimeout time.Duration

	pattern  string
	options  RegexOptions
	code     *syntax.Code
	capCount int // number of groups including group 0

	runners sync.Pool
}

// Compile parses a regular expression and returns, if successful, a
// Regexp that can be used to match against text.
func Compile(pattern string, opts RegexOptions) (*Regexp, error) {
	tree, err := syntax.Parse(pattern, syntax.Options(opts))
	if err != nil {
		return nil, err
	}
	code, err := syntax.Compile(tree)
	if err != nil {
		return nil, err
	}
	if opts&Debug != 0 {
		fmt.Print(code.Dump())
	}

	re := &Regexp{
		MatchTimeout: DefaultMatchTimeout,
		pattern:      pattern,
		options:      opts,
		code:         code,
		capCount:     tree.CaptureTop,
	}
	return re, nil
}

// MustCompile is like Compile but panics if the expression cannot be
// parsed. It simplifies safe initialization of global variables holding
// compiled regular expressions.
func MustCompile(pattern string, opts RegexOptions) *Regexp {
	re, err := Compile(pattern, opts)
	if err != nil {
		panic(`rex: Compile(` + quote(pattern) + `): ` + err.Error())
	}
	return re
}

func quote(s string) string {
	if strconv.CanBackquote(s) {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

// Escape returns a copy of pattern with every character that has special
// meaning in this engine's syntax preceded by a backslash.
func Escape(pattern string) string {
	return syntax.Escape(pattern)
}

// String returns the source pattern text used to compile re.
func (re *Regexp) String() string { return re.pattern }

// RightToLeft reports whether re was compiled to match backward.
func (re *Regexp) RightToLeft() bool { return re.options&RightToLeft != 0 }

func (re *Regexp) getRunner() *Runner {
	if v := re.runners.Get(); v != nil {
		r := v.(*Runner)
		return r
	}
	return NewRunner(re.code, nil)
}

func (re *Regexp) putRunner(r *Runner) {
	re.runners.Put(r)
}

// FindStringMatch searches s for the leftmost match and returns it, or a
// nil Match if the pattern doesn't match anywhere in s.
func (re *Regexp) FindStringMatch(s string) (*Match, error) {
	subject, offsets := decodeSubject(s)
	return re.findFrom(subject, offsets, re.initialStart(len(subject)), Search)
}

// FindNextMatch returns the next non-overlapping match after m, or nil
// if there are no more matches. It reuses m's already-decoded subject.
func (re *Regexp) FindNextMatch(m *Match) (*Match, error) {
	if m == nil {
		return nil, nil
	}
	start := m.textpos
	opts := Search | NotInitialNull
	if re.RightToLeft() {
		if start <= 0 {
			return nil, nil
		}
	} else if start >= len(m.subject) {
		return nil, nil
	}
	return re.findFrom(m.subject, m.offsets, start, opts)
}

// MatchString reports whether s contains any match for re.
func (re *Regexp) MatchString(s string) (bool, error) {
	m, err := re.FindStringMatch(s)
	return m != nil, err
}

func (re *Regexp) initialStart(subjectLen int) int {
	if re.RightToLeft() {
		return subjectLen
	}
	return 0
}

func (re *Regexp) findFrom(subject []rune, offsets []int, start int, opts RunOptions) (*Match, error) {
	r := re.getRunner()
	defer re.putRunner(r)
	r.Reset(re.code, subject)

	ok, err := r.Exec(start, opts)
	if err != nil || !ok {
		return nil, err
	}
	return newMatch(re, subject, offsets, r.Caps()), nil
}

func decodeSubject(s string) ([]rune, []int) {
	runes := make([]rune, 0, len(s))
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		runes = append(runes, r)
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return runes, offsets
}

// GetGroupNumbers returns the group numbers 0..N-1, in slot order. This
// engine has no named-capture syntax, so every group's "name" is its
// decimal number.
func (re *Regexp) GetGroupNumbers() []int {
	nums := make([]int, re.capCount)
	for i := range nums {
		nums[i] = i
	}
	return nums
}

// GetGroupNames returns the decimal string name of every group 0..N-1.
func (re *Regexp) GetGroupNames() []string {
	names := make([]string, re.capCount)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}

// GroupNameFromNumber returns the decimal string name for group i, or ""
// if i is out of range.
func (re *Regexp) GroupNameFromNumber(i int) string {
	if i < 0 || i >= re.capCount {
		return ""
	}
	return strconv.Itoa(i)
}

// GroupNumberFromName returns the group number a decimal-string name
// refers to, or -1 if name isn't a valid in-range group number.
func (re *Regexp) GroupNumberFromName(name string) int {
	n, err := strconv.Atoi(name)
	if err != nil || n < 0 || n >= re.capCount {
		return -1
	}
	return n
}
