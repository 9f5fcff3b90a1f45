package syntax

// NodeType enumerates the AST opcodes: a handful of leaves plus the
// control nodes Sequence/Alternation.
type NodeType int8

const (
	NtLiteral NodeType = iota
	NtAnyChar
	NtMatcher
	NtSequence
	NtAlternation
	NtLineStart
	NtLineEnd
	NtWordBoundary
	NtNotWordBoundary
	NtSubjectBegin
	NtSubjectEnd
	NtResetStart
	NtLookAhead
	NtNegativeLookAhead
	NtLookBehind
	NtNegativeLookBehind
)

// QuantType enumerates the repetition shapes a node can carry.
type QuantType int8

const (
	QOne QuantType = iota
	QOptional
	QZeroOrMore
	QOneOrMore
	QMinMax
)

// Quantifier describes how many times a node's body may repeat.
// Min/Max of -1 mean "no bound was given" (Min treated as 0, Max as
// unbounded).
type Quantifier struct {
	Type   QuantType
	Greedy bool
	Min    int
	Max    int
}

// effMin treats a tolerantly-parsed missing minimum ("{,n}", stored as
// Min == -1) as zero.
func (q Quantifier) effMin() int {
	if q.Min < 0 {
		return 0
	}
	return q.Min
}

func (q Quantifier) allowsNone() bool { return q.effMin() == 0 }

func (q Quantifier) minCopies() int { return q.effMin() }

// hasInfiniteTail reports whether the quantifier repeats without an upper
// bound ("{m,}" is stored as Max == -1).
func (q Quantifier) hasInfiniteTail() bool { return q.Max < 0 }

// boundedExtra is how many optional extra copies a {m,n} quantifier needs
// beyond its min, when it has a finite max.
func (q Quantifier) boundedExtra() int {
	if q.Max < 0 {
		return 0
	}
	extra := q.Max - q.effMin()
	if extra < 0 {
		return 0
	}
	return extra
}

var oneQuant = Quantifier{Type: QOne, Greedy: true, Min: 1, Max: 1}

// Node is one entry in a Tree's flat node vector. A node's subtree is the
// contiguous range [index+1, ChildrenEnd); siblings are reached by jumping
// through each child's own ChildrenEnd.
type Node struct {
	Op         NodeType
	IgnoreCase bool
	ChildrenEnd int32 // exclusive upper bound of this node's subtree
	Value      int32 // literal code point / matcher id / capture slot index, -1 = none
	Quant      Quantifier
}

// Tree is the parser's output: a flat, index-addressable node vector plus
// the side tables the compiler needs.
type Tree struct {
	Nodes      []Node
	Matchers   []*CharClass
	Options    Options
	CaptureTop int // next capture slot to assign; starts at 1 (slot 0 is implicit)
}

// NewTree creates an empty tree with its root Alternation node already in place.
func NewTree(opts Options) *Tree {
	t := &Tree{Options: opts, CaptureTop: 1}
	t.Nodes = append(t.Nodes, Node{Op: NtAlternation, Value: -1, Quant: oneQuant})
	return t
}

// addNode appends a leaf or pre-sized node and returns its index.
func (t *Tree) addNode(n Node) (int, error) {
	if len(t.Nodes) >= maxIndex {
		return 0, &CompileLimitError{Kind: "node", Limit: maxIndex}
	}
	t.Nodes = append(t.Nodes, n)
	return len(t.Nodes) - 1, nil
}

// addMatcher registers a character-class matcher and returns its id.
func (t *Tree) addMatcher(c *CharClass) int {
	t.Matchers = append(t.Matchers, c)
	return len(t.Matchers) - 1
}

// closeSubtree sets node[idx].ChildrenEnd to the tree's current length,
// i.e. "everything appended since idx+1 belongs to this node's subtree".
func (t *Tree) closeSubtree(idx int) {
	t.Nodes[idx].ChildrenEnd = int32(len(t.Nodes))
}

// Children returns the indices of idx's direct children, by walking
// ChildrenEnd jumps starting at idx+1.
func (t *Tree) Children(idx int) []int {
	end := int(t.Nodes[idx].ChildrenEnd)
	var out []int
	c := idx + 1
	for c < end {
		out = append(out, c)
		c = int(t.Nodes[c].ChildrenEnd)
	}
	return out
}
