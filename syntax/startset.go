package syntax

import (
	"unicode"
	"unicode/utf8"
)

// StartSet is a 256-bit bitmap of the first bytes a match can begin with,
// used by the runtime's FindNextStart to skip subject bytes that can
// never start a match instead of spawning a thread at every position.
// It extends the 128-bit ASCII bit-packing idiom in helpers.AsciiSearchValues
// (idx = c/64, shift = c%64) to the full byte range, since UTF-8 leading
// bytes run 0-255, not just 0-127.
type StartSet struct {
	bits [4]uint64
}

func newStartSet() *StartSet { return &StartSet{} }

func (s *StartSet) add(b byte) {
	s.bits[b/64] |= 1 << (b % 64)
}

func (s *StartSet) addAll() {
	s.bits = [4]uint64{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
}

func (s *StartSet) merge(o *StartSet) {
	for i := range s.bits {
		s.bits[i] |= o.bits[i]
	}
}

// Test reports whether b may be the first byte of a match.
func (s *StartSet) Test(b byte) bool {
	return s.bits[b/64]&(1<<(b%64)) != 0
}

// firstSetBudget caps how many AST nodes computeStartSet will inspect
// before giving up, so a pathological pattern can't make compilation slow.
const firstSetBudget = 4096

// computeStartSet walks tree's root node computing the set of bytes that
// can lead a match, or nil if the pattern's leading possibilities are too
// broad or too expensive to characterize (e.g. it can start with "any
// char", or the budget ran out) - callers treat a nil StartSet as "no
// fast path available", never as "nothing matches".
func computeStartSet(tree *Tree) *StartSet {
	w := &startSetWalker{tree: tree, budget: firstSetBudget}
	set, empty, ok := w.firstSet(0)
	// A pattern that can match the empty string can match anywhere, and a
	// set with every bit on filters nothing.
	if !ok || empty || set.bits == [4]uint64{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)} {
		return nil
	}
	return set
}

type startSetWalker struct {
	tree   *Tree
	budget int
}

// firstSet returns the set of leading bytes for node idx, whether it can
// match the empty string, and whether the computation stayed within
// budget and precise enough to trust.
func (w *startSetWalker) firstSet(idx int) (*StartSet, bool, bool) {
	w.budget--
	if w.budget <= 0 {
		return nil, true, false
	}

	n := w.tree.Nodes[idx]
	set, empty, ok := w.firstSetBody(idx, n)
	if !ok {
		return nil, true, false
	}
	if n.Quant.allowsNone() {
		empty = true
	}
	return set, empty, true
}

func (w *startSetWalker) firstSetBody(idx int, n Node) (*StartSet, bool, bool) {
	switch n.Op {
	case NtLiteral:
		s := newStartSet()
		addRuneLeadBytes(s, rune(n.Value), n.IgnoreCase)
		return s, false, true

	case NtAnyChar:
		return nil, false, false

	case NtMatcher:
		cls := w.tree.Matchers[n.Value]
		return firstSetForClass(cls)

	case NtSequence:
		return w.firstSetSequence(idx)

	case NtAlternation:
		return w.firstSetAlternation(idx)

	case NtLineStart, NtLineEnd, NtWordBoundary, NtNotWordBoundary,
		NtSubjectBegin, NtSubjectEnd, NtResetStart,
		NtLookAhead, NtNegativeLookAhead, NtLookBehind, NtNegativeLookBehind:
		return newStartSet(), true, true
	}
	return nil, true, false
}

func (w *startSetWalker) firstSetSequence(idx int) (*StartSet, bool, bool) {
	children := w.tree.Children(idx)
	if w.tree.Options&RightToLeft != 0 {
		for i, j := 0, len(children)-1; i < j; i, j = i+1, j-1 {
			children[i], children[j] = children[j], children[i]
		}
	}
	set := newStartSet()
	for _, ch := range children {
		cs, empty, ok := w.firstSet(ch)
		if !ok {
			return nil, true, false
		}
		set.merge(cs)
		if !empty {
			return set, false, true
		}
	}
	return set, true, true
}

func (w *startSetWalker) firstSetAlternation(idx int) (*StartSet, bool, bool) {
	children := w.tree.Children(idx)
	set := newStartSet()
	empty := false
	for _, ch := range children {
		cs, e, ok := w.firstSet(ch)
		if !ok {
			return nil, true, false
		}
		set.merge(cs)
		empty = empty || e
	}
	return set, empty, true
}

// addRuneLeadBytes adds r's UTF-8 leading byte (and, under case folding,
// its opposite-case counterpart's leading byte) to s.
func addRuneLeadBytes(s *StartSet, r rune, ignoreCase bool) {
	addRuneLeadByte(s, r)
	if !ignoreCase {
		return
	}
	if lo := unicode.ToLower(r); lo != r {
		addRuneLeadByte(s, lo)
	}
	if up := unicode.ToUpper(r); up != r {
		addRuneLeadByte(s, up)
	}
}

func addRuneLeadByte(s *StartSet, r rune) {
	var buf [utf8.UTFMax]byte
	utf8.EncodeRune(buf[:], r)
	s.add(buf[0])
}

// leadingLiteralPrefix returns the run of exactly-one-copy, non-folding
// literal runes that every match of tree must begin with, or nil if the
// pattern doesn't open with one (an alternation, a quantified or
// case-folded leaf, a class, or an anchor ends the run immediately).
// Used only for forward-compiled programs: a reversed program's subject
// position order no longer lines up with "prefix" in the intuitive sense.
func leadingLiteralPrefix(tree *Tree) []rune {
	// Root is always the whole-pattern Alternation; a single-branch
	// pattern has exactly one Sequence child to descend into. Two or
	// more branches means the leading possibilities diverge immediately.
	roots := tree.Children(0)
	if len(roots) != 1 {
		return nil
	}
	seq := roots[0]
	if tree.Nodes[seq].Op != NtSequence {
		return nil
	}

	var prefix []rune
	for _, ch := range tree.Children(seq) {
		cn := tree.Nodes[ch]
		if cn.Op != NtLiteral || cn.IgnoreCase || !isExactlyOne(cn.Quant) {
			break
		}
		prefix = append(prefix, rune(cn.Value))
	}
	return prefix
}

func isExactlyOne(q Quantifier) bool {
	return !q.allowsNone() && q.minCopies() == 1 && !q.hasInfiniteTail() && q.boundedExtra() == 0
}

// firstSetForClass derives the leading-byte set from a normalized
// CharClass. A negated class, or one whose ranges span enough code points
// that enumerating leading bytes isn't worthwhile, gives up (ok=false).
func firstSetForClass(cls *CharClass) (*StartSet, bool, bool) {
	if cls.negate || len(cls.cats) > 0 {
		return nil, false, false
	}
	const maxSpan = 4096
	set := newStartSet()
	for _, rg := range cls.ranges {
		if int(rg.Hi-rg.Lo) > maxSpan {
			return nil, false, false
		}
		for r := rg.Lo; r <= rg.Hi; r++ {
			addRuneLeadBytes(set, r, cls.fold)
		}
	}
	return set, false, true
}
