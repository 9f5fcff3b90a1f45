package syntax

import "github.com/gorexlib/rex/helpers"

// compiler lowers a flat AST into a linear instruction program. It uses
// a backpatching idiom: emit a placeholder Split/Jump, remember its
// index, fix up the Arg once the target address is known.
type compiler struct {
	tree        *Tree
	insts       []Inst
	lookarounds [][]int32
	direction   Direction
	noSubs      bool
}

// Compile lowers tree into an immutable program.
func Compile(tree *Tree) (*Code, error) {
	c := &compiler{
		tree:      tree,
		direction: tree.Options.Direction(),
		noSubs:    tree.Options&NoSubs != 0,
	}

	// Search prefix: an outer loop that either enters the pattern
	// immediately or advances the start position one code point at a
	// time. A Search-flagged exec enters at pc 0; an anchored exec enters
	// straight at PatternStart, skipping it.
	c.insts = append(c.insts, Inst{Op: SplitChild, Arg: 3})
	c.insts = append(c.insts, Inst{Op: FindNextStart})
	c.insts = append(c.insts, Inst{Op: SplitParent, Arg: 1})
	patternStart := int32(len(c.insts))

	// Slot 0 (the whole match) is always tracked, NoSubs notwithstanding.
	c.insts = append(c.insts, Inst{Op: Save, Arg: c.saveArg(0, true)})
	if err := c.emitQuantified(0); err != nil {
		return nil, err
	}
	c.insts = append(c.insts, Inst{Op: Save, Arg: c.saveArg(0, false)})
	c.insts = append(c.insts, Inst{Op: Match})

	if len(c.insts) > maxIndex {
		return nil, &CompileLimitError{Kind: "instruction", Limit: maxIndex}
	}

	code := &Code{
		Insts:        c.insts,
		Classes:      tree.Matchers,
		Lookarounds:  c.lookarounds,
		SaveCount:    2 * tree.CaptureTop,
		Direction:    c.direction,
		PatternStart: patternStart,
	}
	if tree.Options&Optimize != 0 {
		code.StartChars = computeStartSet(tree)
		if c.direction == Forward {
			if prefix := leadingLiteralPrefix(tree); len(prefix) >= 2 {
				sv := helpers.NewStringSearchValues([][]rune{prefix}, false)
				code.LeadingPrefix = &sv
			}
		}
	}
	return code, nil
}

// emitQuantified emits node idx's unit (prologue Save + body + epilogue
// Save) wrapped in whatever splits its quantifier requires, based on its
// allowsNone / minCopies / hasInfiniteTail / boundedExtra shape.
func (c *compiler) emitQuantified(idx int) error {
	n := c.tree.Nodes[idx]
	q := n.Quant

	var endPatches []int
	if q.allowsNone() {
		sIdx := len(c.insts)
		op := SplitParent
		if !q.Greedy {
			op = SplitChild
		}
		c.insts = append(c.insts, Inst{Op: op})
		endPatches = append(endPatches, sIdx)
	}

	bodyStart := -1
	for i := 0; i < q.minCopies(); i++ {
		bodyStart = len(c.insts)
		if err := c.emitUnit(idx); err != nil {
			return err
		}
	}

	if q.hasInfiniteTail() {
		if bodyStart == -1 {
			bodyStart = len(c.insts)
			if err := c.emitUnit(idx); err != nil {
				return err
			}
		}
		op := SplitChild
		if !q.Greedy {
			op = SplitParent
		}
		c.insts = append(c.insts, Inst{Op: op, Arg: int32(bodyStart)})
	} else {
		for i := 0; i < q.boundedExtra(); i++ {
			sIdx := len(c.insts)
			op := SplitParent
			if !q.Greedy {
				op = SplitChild
			}
			c.insts = append(c.insts, Inst{Op: op})
			endPatches = append(endPatches, sIdx)
			if err := c.emitUnit(idx); err != nil {
				return err
			}
		}
	}

	end := int32(len(c.insts))
	for _, p := range endPatches {
		c.insts[p].Arg = end
	}
	return nil
}

// emitUnit emits one copy of node idx's prologue/body/epilogue.
func (c *compiler) emitUnit(idx int) error {
	n := c.tree.Nodes[idx]
	slot := int(n.Value)
	// Only group nodes carry a capture slot in Value; a leaf's Value is its
	// code point or matcher id.
	isGroup := n.Op == NtSequence || n.Op == NtAlternation
	hasCapture := isGroup && slot >= 0 && !(c.noSubs && slot != 0)

	if hasCapture {
		c.insts = append(c.insts, Inst{Op: Save, Arg: c.saveArg(slot, true)})
	}
	if err := c.emitBody(idx, n); err != nil {
		return err
	}
	if hasCapture {
		c.insts = append(c.insts, Inst{Op: Save, Arg: c.saveArg(slot, false)})
	}
	return nil
}

// saveArg computes the capture-slot operand for a capture group's
// opening (isOpen) or closing Save, swapping the two under backward
// direction so a capture's slot pair always holds (smaller, larger).
func (c *compiler) saveArg(slot int, isOpen bool) int32 {
	open := isOpen
	if c.direction == Backward {
		open = !open
	}
	if open {
		return int32(2 * slot)
	}
	return int32(2*slot + 1)
}

func (c *compiler) emitBody(idx int, n Node) error {
	switch n.Op {
	case NtLiteral:
		return c.emitLiteral(n)
	case NtAnyChar:
		c.insts = append(c.insts, Inst{Op: AnyChar})
		return nil
	case NtMatcher:
		c.insts = append(c.insts, Inst{Op: Matcher, Arg: n.Value})
		return nil
	case NtSequence:
		return c.emitSequence(idx)
	case NtAlternation:
		return c.emitAlternation(idx)
	// Anchors are not swapped under backward compilation: the VM tests
	// them at subject positions, which mean the same in either direction.
	case NtLineStart:
		c.insts = append(c.insts, Inst{Op: LineStart})
		return nil
	case NtLineEnd:
		c.insts = append(c.insts, Inst{Op: LineEnd})
		return nil
	case NtSubjectBegin:
		c.insts = append(c.insts, Inst{Op: SubjectBegin})
		return nil
	case NtSubjectEnd:
		c.insts = append(c.insts, Inst{Op: SubjectEnd})
		return nil
	case NtWordBoundary:
		c.insts = append(c.insts, Inst{Op: WordBoundary})
		return nil
	case NtNotWordBoundary:
		c.insts = append(c.insts, Inst{Op: NotWordBoundary})
		return nil
	case NtResetStart:
		c.insts = append(c.insts, Inst{Op: Save, Arg: c.saveArg(0, true)})
		return nil
	case NtLookAhead, NtNegativeLookAhead, NtLookBehind, NtNegativeLookBehind:
		return c.emitLookaround(idx, n)
	}
	return nil
}

func (c *compiler) emitLiteral(n Node) error {
	op := Literal
	r := rune(n.Value)
	if n.IgnoreCase {
		op = LiteralFold
	}
	c.insts = append(c.insts, Inst{Op: op, Arg: int32(r)})
	return nil
}

// emitSequence lowers a Sequence's children in direction order: reversed
// under backward compilation so the VM still consumes the subject in
// the direction it walks it.
func (c *compiler) emitSequence(idx int) error {
	children := c.tree.Children(idx)
	if c.direction == Backward {
		for i, j := 0, len(children)-1; i < j; i, j = i+1, j-1 {
			children[i], children[j] = children[j], children[i]
		}
	}
	for _, ch := range children {
		if err := c.emitQuantified(ch); err != nil {
			return err
		}
	}
	return nil
}

// emitAlternation lowers a k-branch Alternation. Each non-last branch is
// preceded by its own SplitParent, whose fallthrough (PC+1, the
// higher-priority path) enters that branch and whose Arg chains to the
// next split (or, for the second-to-last split, straight to the last
// branch, which needs no split of its own). This mirrors the way
// emitQuantified's bounded-extra loop emits a split immediately before
// each copy of its body, instead of a run of splits up front.
func (c *compiler) emitAlternation(idx int) error {
	children := c.tree.Children(idx)
	if len(children) == 0 {
		return nil
	}
	if len(children) == 1 {
		return c.emitQuantified(children[0])
	}

	var jumpIdxs []int
	for i, ch := range children {
		last := i == len(children)-1
		var splitIdx int
		if !last {
			splitIdx = len(c.insts)
			c.insts = append(c.insts, Inst{Op: SplitParent})
		}
		if err := c.emitQuantified(ch); err != nil {
			return err
		}
		if !last {
			jumpIdxs = append(jumpIdxs, len(c.insts))
			c.insts = append(c.insts, Inst{Op: Jump})
			c.insts[splitIdx].Arg = int32(len(c.insts))
		}
	}
	end := int32(len(c.insts))
	for _, j := range jumpIdxs {
		c.insts[j].Arg = end
	}
	return nil
}

// emitLookaround walks the lookaround node's children (reversed when
// behind) to build its zero-terminated code-point sequence in the
// lookaround table, then emits the single lookaround instruction whose
// Arg is that sequence's offset.
func (c *compiler) emitLookaround(idx int, n Node) error {
	behind := n.Op == NtLookBehind || n.Op == NtNegativeLookBehind
	leaves := c.collectLookaroundLeaves(idx)
	// The VM scans a lookbehind backward from the current position, in
	// either outer direction; reverse the stored order here so that
	// walking the table forward from offset 0 matches that scan.
	if behind {
		for i, j := 0, len(leaves)-1; i < j; i, j = i+1, j-1 {
			leaves[i], leaves[j] = leaves[j], leaves[i]
		}
	}
	seq := make([]int32, 0, len(leaves)+1)
	for _, leaf := range leaves {
		switch leaf.Op {
		case NtAnyChar:
			seq = append(seq, lookAny)
		case NtMatcher:
			seq = append(seq, lookMatcherBase+leaf.Value)
		default: // NtLiteral
			seq = append(seq, leaf.Value)
		}
	}
	seq = append(seq, -1)

	offset := int32(len(c.lookarounds))
	c.lookarounds = append(c.lookarounds, seq)

	op := lookaroundOp(n.Op, n.IgnoreCase)
	c.insts = append(c.insts, Inst{Op: op, Arg: offset})
	return nil
}

func lookaroundOp(op NodeType, ignoreCase bool) InstOp {
	switch op {
	case NtLookAhead:
		if ignoreCase {
			return LookAheadFold
		}
		return LookAhead
	case NtNegativeLookAhead:
		if ignoreCase {
			return NegativeLookAheadFold
		}
		return NegativeLookAhead
	case NtLookBehind:
		if ignoreCase {
			return LookBehindFold
		}
		return LookBehind
	default: // NtNegativeLookBehind
		if ignoreCase {
			return NegativeLookBehindFold
		}
		return NegativeLookBehind
	}
}

// collectLookaroundLeaves flattens a lookaround body into its leaf nodes
// in source order. The parser only admits a single Sequence of
// Literal/AnyChar/Matcher leaves here, so this reduces to one flat list.
func (c *compiler) collectLookaroundLeaves(idx int) []Node {
	var out []Node
	var walk func(i int)
	walk = func(i int) {
		n := c.tree.Nodes[i]
		switch n.Op {
		case NtSequence, NtAlternation:
			for _, ch := range c.tree.Children(i) {
				walk(ch)
			}
		default:
			out = append(out, n)
		}
	}
	for _, ch := range c.tree.Children(idx) {
		walk(ch)
	}
	return out
}
