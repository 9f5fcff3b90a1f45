package rex

import (
	"unicode"
	"unicode/utf8"

	"github.com/gorexlib/rex/helpers"
	"github.com/gorexlib/rex/syntax"
)

// Runner is a Thompson-style NFA simulation: a single-threaded driver
// that keeps two thread lists (current and next generation) and
// advances them one code point at a time, in the program's compiled
// direction.
//
// A Runner is reused across searches via sync.Pool (see Regexp.getRunner)
// but is not itself safe for concurrent use.
type Runner struct {
	code    *syntax.Code
	subject []rune
	opts    RunOptions

	// visited is a dedup stamp per instruction index; round increases
	// every time a new thread list starts being built so that re-using
	// the array across positions never requires clearing it.
	visited []int32
	round   int32

	caps []int32
}

// RunOptions are the exec-time flags threaded into Runner.Exec, distinct
// from RegexOptions which only affect compilation.
type RunOptions int32

const (
	// AnyMatch stops at the first thread to reach Match instead of
	// letting already-queued higher-priority threads run on in case a
	// later position yields a higher-priority result.
	AnyMatch RunOptions = 1 << iota

	// Search activates the program's search prefix so the match may
	// begin anywhere at or after the exec start position, not just at it.
	Search

	// NotBeginningOfLine treats the exec start position as not a line
	// start for LineStart, even when it's rune index 0.
	NotBeginningOfLine

	// NotEndOfLine treats the subject's end as not a line end for
	// LineEnd, even when it's the last rune index.
	NotEndOfLine

	// NotInitialNull rejects a zero-width match exactly at the exec
	// start position, forcing the search to look further.
	NotInitialNull

	// PrevAvailable signals that the subject slice is a window into a
	// larger stream with unseen content before index 0, so SubjectBegin
	// and LineStart must not fire there.
	PrevAvailable
)

type thread struct {
	pc   int32
	caps []int32
}

type threadList struct {
	threads []thread
}

// NewRunner prepares a Runner over subject for repeated use against code.
func NewRunner(code *syntax.Code, subject []rune) *Runner {
	return &Runner{
		code:    code,
		subject: subject,
		visited: make([]int32, len(code.Insts)),
	}
}

// Reset rebinds the Runner to a new program/subject pair, for reuse from
// a pool without reallocating the visited stamp array when it's already
// large enough.
func (r *Runner) Reset(code *syntax.Code, subject []rune) {
	r.code = code
	r.subject = subject
	if cap(r.visited) < len(code.Insts) {
		r.visited = make([]int32, len(code.Insts))
	} else {
		r.visited = r.visited[:len(code.Insts)]
	}
}

// Exec runs the compiled program starting at rune index startAt under
// opts, playing the role the RuntimeEngine interface's Execute(r *Runner)
// hook plays for the backtracking engine. It returns whether a match was
// found; the winning capture array (rune indices, -1 = unset) is then
// available from Caps.
func (r *Runner) Exec(startAt int, opts RunOptions) (bool, error) {
	r.opts = opts
	entry := r.code.PatternStart
	if opts&Search != 0 {
		entry = 0
		// A mandatory multi-rune literal prefix lets the first attempt
		// jump straight to its next occurrence instead of stepping
		// FindNextStart one code point at a time; if that attempt fails,
		// FindNextStart's per-byte bitmap still drives every later retry.
		if r.code.LeadingPrefix != nil && startAt <= len(r.subject) {
			jump := r.code.LeadingPrefix.IndexOfAny(r.subject[startAt:])
			if jump < 0 {
				return false, nil
			}
			startAt += jump
		}
	}

	r.round++
	clist := &threadList{}
	r.addThread(clist, entry, startAt, r.freshCaps())

	var matched []int32
	pos := startAt
	for {
		ch, hasChar := r.charAt(pos)
		nlist := &threadList{}
		r.round++
		matchedThisRound := false

		for _, t := range clist.threads {
			inst := r.code.Insts[t.pc]
			switch inst.Op {
			case syntax.Match:
				if opts&NotInitialNull != 0 && t.caps[0] == int32(startAt) && t.caps[1] == int32(startAt) {
					continue
				}
				matched = t.caps
				matchedThisRound = true
			case syntax.FindNextStart:
				if hasChar {
					r.addThread(nlist, t.pc, r.nextPos(pos), t.caps)
				}
			default:
				if hasChar && r.consumes(inst, ch) {
					r.addThread(nlist, t.pc+1, r.nextPos(pos), t.caps)
				}
			}
			if matchedThisRound {
				break
			}
		}

		if matchedThisRound && opts&AnyMatch != 0 {
			break
		}
		if !hasChar || len(nlist.threads) == 0 {
			break
		}
		clist = nlist
		pos = r.nextPos(pos)
	}
	r.caps = matched
	return matched != nil, nil
}

// Caps returns the capture array from the most recent Exec call.
func (r *Runner) Caps() []int32 { return r.caps }

func (r *Runner) consumes(inst syntax.Inst, ch rune) bool {
	switch inst.Op {
	case syntax.Literal:
		return ch == rune(inst.Arg)
	case syntax.LiteralFold:
		return unicode.ToLower(ch) == unicode.ToLower(rune(inst.Arg))
	case syntax.AnyChar:
		return true
	case syntax.Matcher:
		return r.code.Classes[inst.Arg].Matches(ch)
	}
	return false
}

// addThread performs the epsilon closure from pc: control opcodes
// (Jump, Split, Save, anchors, lookarounds) are followed immediately;
// the closure only appends to list once it reaches an input-consuming
// opcode or Match.
func (r *Runner) addThread(list *threadList, pc int32, pos int, caps []int32) {
	if r.visited[pc] == r.round {
		return
	}
	r.visited[pc] = r.round

	inst := r.code.Insts[pc]
	switch inst.Op {
	case syntax.Jump:
		r.addThread(list, inst.Arg, pos, caps)

	case syntax.SplitChild:
		r.addThread(list, inst.Arg, pos, caps)
		r.addThread(list, pc+1, pos, caps)

	case syntax.SplitParent:
		r.addThread(list, pc+1, pos, caps)
		r.addThread(list, inst.Arg, pos, caps)

	case syntax.Save:
		nc := caps
		if int(inst.Arg) < len(caps) {
			nc = cloneCaps(caps)
			nc[inst.Arg] = int32(pos)
		}
		r.addThread(list, pc+1, pos, nc)

	case syntax.LineStart, syntax.LineEnd, syntax.SubjectBegin, syntax.SubjectEnd,
		syntax.WordBoundary, syntax.NotWordBoundary:
		if r.testAssertion(inst.Op, pos) {
			r.addThread(list, pc+1, pos, caps)
		}

	case syntax.LookAhead, syntax.LookAheadFold, syntax.NegativeLookAhead, syntax.NegativeLookAheadFold,
		syntax.LookBehind, syntax.LookBehindFold, syntax.NegativeLookBehind, syntax.NegativeLookBehindFold:
		if r.code.MatchLookaround(inst.Op, inst.Arg, r.subject, pos) {
			r.addThread(list, pc+1, pos, caps)
		}

	case syntax.FindNextStart:
		if r.startPermits(pos) {
			r.addThread(list, pc+1, pos, caps)
		}
		// Parked last, at the lowest priority, to advance one code point
		// and retry from the next position.
		list.threads = append(list.threads, thread{pc: pc, caps: caps})

	default: // Literal, LiteralFold, AnyChar, Matcher, Match
		list.threads = append(list.threads, thread{pc: pc, caps: caps})
	}
}

func cloneCaps(caps []int32) []int32 {
	nc := make([]int32, len(caps))
	copy(nc, caps)
	return nc
}

func (r *Runner) freshCaps() []int32 {
	caps := make([]int32, r.code.SaveCount)
	for i := range caps {
		caps[i] = -1
	}
	return caps
}

// charAt returns the rune that would be consumed next from cursor pos in
// the program's compiled direction, and whether one exists.
func (r *Runner) charAt(pos int) (rune, bool) {
	if r.code.Direction == syntax.Forward {
		if pos >= len(r.subject) {
			return 0, false
		}
		return r.subject[pos], true
	}
	if pos <= 0 {
		return 0, false
	}
	return r.subject[pos-1], true
}

func (r *Runner) nextPos(pos int) int {
	if r.code.Direction == syntax.Forward {
		return pos + 1
	}
	return pos - 1
}

// startPermits reports whether FindNextStart also lets the thread fall
// through to the pattern body at pos, besides consuming a code point
// and retrying: true when there's no start-char bitmap, the subject is
// exhausted (nothing left to skip past), or the next code point's
// leading byte is in the bitmap.
func (r *Runner) startPermits(pos int) bool {
	sc := r.code.StartChars
	if sc == nil {
		return true
	}
	ch, ok := r.charAt(pos)
	if !ok {
		return true
	}
	var buf [utf8.UTFMax]byte
	utf8.EncodeRune(buf[:], ch)
	return sc.Test(buf[0])
}

func (r *Runner) testAssertion(op syntax.InstOp, pos int) bool {
	switch op {
	case syntax.SubjectBegin:
		return pos == 0 && r.opts&PrevAvailable == 0
	case syntax.SubjectEnd:
		return pos == len(r.subject)
	case syntax.LineStart:
		atBegin := pos == 0 && r.opts&(NotBeginningOfLine|PrevAvailable) == 0
		return atBegin || (pos > 0 && r.subject[pos-1] == '\n')
	case syntax.LineEnd:
		atEnd := pos == len(r.subject) && r.opts&NotEndOfLine == 0
		return atEnd || (pos < len(r.subject) && r.subject[pos] == '\n')
	case syntax.WordBoundary, syntax.NotWordBoundary:
		before := pos > 0 && helpers.IsWordChar(r.subject[pos-1])
		after := pos < len(r.subject) && helpers.IsWordChar(r.subject[pos])
		boundary := before != after
		if op == syntax.NotWordBoundary {
			return !boundary
		}
		return boundary
	}
	return false
}
