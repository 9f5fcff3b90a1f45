package syntax

import "unicode"

// scanForward reports which way a lookaround op reads the subject: ahead
// opcodes read forward and behind opcodes read backward from the current
// position, whichever direction the whole program runs in.
func scanForward(op InstOp) bool {
	return op == LookAhead || op == LookAheadFold || op == NegativeLookAhead || op == NegativeLookAheadFold
}

func lookaroundNegated(op InstOp) bool {
	return op == NegativeLookAhead || op == NegativeLookAheadFold ||
		op == NegativeLookBehind || op == NegativeLookBehindFold
}

func lookaroundFold(op InstOp) bool {
	return op == LookAheadFold || op == NegativeLookAheadFold ||
		op == LookBehindFold || op == NegativeLookBehindFold
}

// MatchLookaround runs the op's encoded sequence (c.Lookarounds[table])
// against subject starting at pos: a pure sequence match without
// captures, scanning the direction scanForward derives, with IgnoreCase
// variants folding both sides.
func (c *Code) MatchLookaround(op InstOp, table int32, subject []rune, pos int) bool {
	seq := c.Lookarounds[table]
	forward := scanForward(op)
	fold := lookaroundFold(op)

	ok := matchLookaroundSeq(c, seq, subject, pos, forward, fold)
	if lookaroundNegated(op) {
		return !ok
	}
	return ok
}

func matchLookaroundSeq(c *Code, seq []int32, subject []rune, pos int, forward, fold bool) bool {
	p := pos
	for _, tok := range seq {
		if tok == -1 {
			break
		}
		var r rune
		if forward {
			if p >= len(subject) {
				return false
			}
			r = subject[p]
			p++
		} else {
			if p <= 0 {
				return false
			}
			p--
			r = subject[p]
		}
		if !lookTokenMatches(c, tok, r, fold) {
			return false
		}
	}
	return true
}

func lookTokenMatches(c *Code, tok int32, r rune, fold bool) bool {
	switch {
	case tok == lookAny:
		return true
	case tok >= lookMatcherBase:
		return c.Classes[tok-lookMatcherBase].Matches(r)
	default:
		want := rune(tok)
		if fold {
			return unicode.ToLower(r) == unicode.ToLower(want)
		}
		return r == want
	}
}
