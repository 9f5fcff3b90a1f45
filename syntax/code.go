package syntax

import (
	"bytes"
	"fmt"

	"github.com/gorexlib/rex/helpers"
)

// Code is the compiler's output: an immutable, freely shareable compiled
// program holding this engine's Thompson-VM instruction set.
type Code struct {
	Insts       []Inst
	Classes     []*CharClass
	Lookarounds [][]int32
	SaveCount   int
	Direction   Direction
	StartChars  *StartSet

	// LeadingPrefix lets a Search exec jump straight to candidate start
	// positions with one rune-slice scan instead of stepping FindNextStart
	// one code point at a time, when the pattern opens with a multi-rune
	// literal run that every match must begin with.
	LeadingPrefix *helpers.StringSearchValues

	// PatternStart is the instruction index of the user pattern body,
	// right after the 3-instruction search prefix. A Search-flagged exec
	// enters at 0; an anchored exec enters here directly, skipping the
	// prefix's auto-advance.
	PatternStart int32
}

// Dump renders a textual listing of the program, used by Compile as a
// debug aid when RegexOptions.Debug is set.
func (c *Code) Dump() string {
	var buf bytes.Buffer
	for i, inst := range c.Insts {
		fmt.Fprintf(&buf, "%4d: %s", i, inst.Op)
		switch inst.Op {
		case Literal, LiteralFold:
			fmt.Fprintf(&buf, " %q", rune(inst.Arg))
		case Jump, SplitParent, SplitChild:
			fmt.Fprintf(&buf, " -> %d", inst.Arg)
		case Save:
			fmt.Fprintf(&buf, " slot=%d", inst.Arg)
		case Matcher:
			fmt.Fprintf(&buf, " #%d", inst.Arg)
		case LookAhead, LookAheadFold, NegativeLookAhead, NegativeLookAheadFold,
			LookBehind, LookBehindFold, NegativeLookBehind, NegativeLookBehindFold:
			fmt.Fprintf(&buf, " @%d", inst.Arg)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}
