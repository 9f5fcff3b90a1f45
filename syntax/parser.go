package syntax

import (
	"strconv"
	"unicode/utf8"
)

// parser is a recursive-descent parser over a UTF-8 code-point cursor,
// grounded on the byte-cursor idiom used by the auvred/regonaut
// ECMAScript engine's stringSource (nextCodeUnit/move), adapted here to
// operate on byte offsets directly (this engine reports captures as byte
// offsets into the subject, not rune indices).
type parser struct {
	pattern    string
	pos        int
	ignoreCase bool
	tree       *Tree
}

// Parse compiles pattern text into a flat AST under the given options.
func Parse(pattern string, opts Options) (*Tree, error) {
	p := &parser{
		pattern:    pattern,
		ignoreCase: opts&IgnoreCase != 0,
		tree:       NewTree(opts),
	}

	// Root (index 0) is the Alternation wrapping the whole pattern.
	p.tree.Nodes[0].IgnoreCase = p.ignoreCase
	if err := p.parseDisjunctionInto(0); err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.pattern[p.pos])
	}
	return p.tree, nil
}

func (p *parser) eof() bool { return p.pos >= len(p.pattern) }

func (p *parser) errorf(format string, args ...interface{}) *ParseError {
	return newParseError(p.pattern, p.pos, format, args...)
}

func (p *parser) peekByte() byte {
	if p.eof() {
		return 0
	}
	return p.pattern[p.pos]
}

func (p *parser) peekRune() (rune, int) {
	if p.eof() {
		return 0, 0
	}
	r, w := utf8.DecodeRuneInString(p.pattern[p.pos:])
	return r, w
}

func (p *parser) nextRune() (rune, error) {
	r, w := p.peekRune()
	if w == 0 {
		return 0, p.errorf("unexpected end of pattern")
	}
	if r == utf8.RuneError && w <= 1 {
		return 0, p.errorf("invalid UTF-8 in pattern")
	}
	p.pos += w
	return r, nil
}

func (p *parser) consumeByte(b byte) bool {
	if p.peekByte() == b {
		p.pos++
		return true
	}
	return false
}

func (p *parser) consumeString(s string) bool {
	if len(p.pattern)-p.pos >= len(s) && p.pattern[p.pos:p.pos+len(s)] == s {
		p.pos += len(s)
		return true
	}
	return false
}

// --- disjunction / alternative --------------------------------------------

// parseDisjunctionInto parses "alternative ('|' alternative)*" and fills
// it in as the children of the already-allocated Alternation node at idx.
func (p *parser) parseDisjunctionInto(idx int) error {
	for {
		if err := p.parseAlternative(); err != nil {
			return err
		}
		if !p.consumeByte('|') {
			break
		}
	}
	p.tree.closeSubtree(idx)
	return nil
}

// parseDisjunction allocates a fresh Alternation node and parses into it,
// for use inside groups and lookarounds.
func (p *parser) parseDisjunction() (int, error) {
	idx, err := p.tree.addNode(Node{Op: NtAlternation, IgnoreCase: p.ignoreCase, Value: -1, Quant: oneQuant})
	if err != nil {
		return 0, err
	}
	if err := p.parseDisjunctionInto(idx); err != nil {
		return 0, err
	}
	return idx, nil
}

// parseAlternative parses "term*" as one Sequence node appended to the
// tree (a child of whatever Alternation is currently being filled).
func (p *parser) parseAlternative() error {
	idx, err := p.tree.addNode(Node{Op: NtSequence, IgnoreCase: p.ignoreCase, Value: -1, Quant: oneQuant})
	if err != nil {
		return err
	}
	for {
		if p.eof() || p.peekByte() == '|' || p.peekByte() == ')' {
			break
		}
		if err := p.parseTerm(); err != nil {
			return err
		}
	}
	p.tree.closeSubtree(idx)
	return nil
}

// parseTerm consumes any number of inline modifiers, then one
// assertion or one atom-with-quantifier, appending at most one node.
func (p *parser) parseTerm() error {
	for {
		if p.consumeString("(?i)") {
			p.ignoreCase = true
			continue
		}
		if p.consumeString("(?I)") {
			p.ignoreCase = false
			continue
		}
		break
	}
	if p.eof() || p.peekByte() == '|' || p.peekByte() == ')' {
		return nil
	}
	if ok, err := p.tryParseAssertion(); ok || err != nil {
		return err
	}
	return p.parseAtomWithQuantifier()
}

// --- assertions -------------------------------------------------------------

func (p *parser) tryParseAssertion() (bool, error) {
	switch {
	case p.consumeByte('^'):
		p.appendLeaf(NtLineStart)
		return true, nil
	case p.consumeByte('$'):
		p.appendLeaf(NtLineEnd)
		return true, nil
	case p.consumeString(`\b`):
		p.appendLeaf(NtWordBoundary)
		return true, nil
	case p.consumeString(`\B`):
		p.appendLeaf(NtNotWordBoundary)
		return true, nil
	case p.consumeString(`\A`):
		p.appendLeaf(NtSubjectBegin)
		return true, nil
	case p.consumeString(`\z`):
		p.appendLeaf(NtSubjectEnd)
		return true, nil
	case p.consumeString(`\K`):
		p.appendLeaf(NtResetStart)
		return true, nil
	}
	if p.consumeString("(?=") {
		return true, p.parseLookaroundBody(NtLookAhead)
	}
	if p.consumeString("(?!") {
		return true, p.parseLookaroundBody(NtNegativeLookAhead)
	}
	if p.consumeString("(?<=") {
		return true, p.parseLookaroundBody(NtLookBehind)
	}
	if p.consumeString("(?<!") {
		return true, p.parseLookaroundBody(NtNegativeLookBehind)
	}
	return false, nil
}

func (p *parser) appendLeaf(op NodeType) {
	idx, _ := p.tree.addNode(Node{Op: op, IgnoreCase: p.ignoreCase, Value: -1, Quant: oneQuant})
	p.tree.closeSubtree(idx)
}

// parseLookaroundBody parses "(?=...)"-style bodies. Lookaround bodies
// may contain only Literal, AnyChar and Matcher nodes, each with
// quantifier One - enforced here by walking the freshly parsed subtree.
func (p *parser) parseLookaroundBody(op NodeType) error {
	idx, err := p.tree.addNode(Node{Op: op, IgnoreCase: p.ignoreCase, Value: -1, Quant: oneQuant})
	if err != nil {
		return err
	}
	if err := p.parseDisjunctionInto(idx); err != nil {
		return err
	}
	if !p.consumeByte(')') {
		return p.errorf("unclosed lookaround")
	}
	if len(p.tree.Children(idx)) > 1 {
		return p.errorf("lookaround may not contain alternation")
	}
	for i := idx + 1; i < len(p.tree.Nodes); i++ {
		n := p.tree.Nodes[i]
		switch n.Op {
		case NtLiteral, NtAnyChar, NtMatcher, NtSequence:
			// A Sequence is the body's single alternative (or a \Q...\E
			// run); a group brings an Alternation node and is rejected.
		default:
			return p.errorf("lookaround may only contain literals and character classes")
		}
		if n.Quant.Type != QOne {
			return p.errorf("lookaround contents must not be quantified")
		}
	}
	return nil
}

// --- atoms ------------------------------------------------------------------

func (p *parser) parseAtomWithQuantifier() error {
	idx, err := p.parseAtom()
	if err != nil {
		return err
	}
	q, err := p.parseQuantifier()
	if err != nil {
		return err
	}
	p.tree.Nodes[idx].Quant = q
	p.tree.closeSubtree(idx)
	return nil
}

const maxQuantifierBound = 1000

// parseQuantifier parses an optional trailing quantifier: *, +, ?, or
// {m,n} (with its tolerant variants {m,} and {,n}), optionally followed
// by a lazy '?'.
func (p *parser) parseQuantifier() (Quantifier, error) {
	switch p.peekByte() {
	case '*':
		p.pos++
		return Quantifier{Type: QZeroOrMore, Greedy: !p.consumeByte('?'), Min: 0, Max: -1}, nil
	case '+':
		p.pos++
		return Quantifier{Type: QOneOrMore, Greedy: !p.consumeByte('?'), Min: 1, Max: -1}, nil
	case '?':
		p.pos++
		return Quantifier{Type: QOptional, Greedy: !p.consumeByte('?'), Min: 0, Max: 1}, nil
	case '{':
		return p.parseBracedQuantifier()
	}
	return oneQuant, nil
}

// parseBracedQuantifier parses "{m,n}" and its variants. If the braced
// text doesn't parse as a quantifier (e.g. a "{" with no closing bound),
// the cursor is left on the '{' and quantifier One is returned; the next
// atom parse then rejects the unescaped '{'.
func (p *parser) parseBracedQuantifier() (Quantifier, error) {
	start := p.pos
	p.pos++ // '{'
	min, hasMin := p.parseDecimalDigits()
	hasComma := p.consumeByte(',')
	max, hasMax := p.parseDecimalDigits()
	if !p.consumeByte('}') || (!hasMin && !hasComma) {
		p.pos = start
		return oneQuant, nil
	}
	q := Quantifier{Type: QMinMax, Greedy: true}
	if hasMin {
		if min > maxQuantifierBound {
			return Quantifier{}, p.errorf("quantifier bound exceeds %d", maxQuantifierBound)
		}
		q.Min = min
	} else {
		q.Min = -1 // "{,n}": min is tolerated as absent, treated as 0 by the compiler
	}
	if hasComma {
		if hasMax {
			if max > maxQuantifierBound {
				return Quantifier{}, p.errorf("quantifier bound exceeds %d", maxQuantifierBound)
			}
			q.Max = max
		} else {
			q.Max = -1 // "{m,}": unbounded
		}
	} else {
		q.Max = q.Min // "{m}": exact count
	}
	q.Greedy = !p.consumeByte('?')
	return q, nil
}

func (p *parser) parseDecimalDigits() (int, bool) {
	start := p.pos
	v := 0
	for !p.eof() && p.peekByte() >= '0' && p.peekByte() <= '9' {
		v = v*10 + int(p.peekByte()-'0')
		p.pos++
	}
	return v, p.pos > start
}

func (p *parser) parseAtom() (int, error) {
	switch p.peekByte() {
	case '.':
		p.pos++
		return p.tree.addNode(Node{Op: NtAnyChar, IgnoreCase: p.ignoreCase, Value: -1, Quant: oneQuant})
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseClass()
	case '\\':
		return p.parseEscapeAtom()
	case '^', '$', '|', ')', '*', '+', '?', '{', '}', ']':
		return 0, p.errorf("unescaped syntax character %q", p.peekByte())
	}
	r, err := p.nextRune()
	if err != nil {
		return 0, err
	}
	return p.tree.addNode(Node{Op: NtLiteral, IgnoreCase: p.ignoreCase, Value: int32(r), Quant: oneQuant})
}

// parseGroup parses "(" ("?:")? disjunction ")".
func (p *parser) parseGroup() (int, error) {
	p.pos++ // '('
	capture := int32(-1)
	if p.consumeString("?:") {
		// non-capturing
	} else {
		capture = int32(p.tree.CaptureTop)
		p.tree.CaptureTop++
	}
	idx, err := p.tree.addNode(Node{Op: NtSequence, IgnoreCase: p.ignoreCase, Value: capture, Quant: oneQuant})
	if err != nil {
		return 0, err
	}
	body, err := p.parseDisjunction()
	if err != nil {
		return 0, err
	}
	_ = body
	if !p.consumeByte(')') {
		return 0, p.errorf("unclosed group")
	}
	p.tree.closeSubtree(idx)
	return idx, nil
}

// --- escapes -----------------------------------------------------------------

func (p *parser) parseEscapeAtom() (int, error) {
	start := p.pos
	p.pos++ // '\\'
	if p.eof() {
		return 0, p.errorf("trailing backslash")
	}
	c := p.peekByte()
	switch c {
	case 'd', 'D', 'w', 'W', 's', 'S', 'h', 'H':
		p.pos++
		cls := classEscapeClass(c)
		return p.addMatcherNode(cls)
	case 'Q':
		p.pos++
		return p.parseQuotedLiteral()
	}
	_ = start
	r, err := p.parseCharacterEscape()
	if err != nil {
		return 0, err
	}
	return p.tree.addNode(Node{Op: NtLiteral, IgnoreCase: p.ignoreCase, Value: int32(r), Quant: oneQuant})
}

// parseQuotedLiteral consumes a \Q...\E run as a Sequence of Literal
// nodes. An unclosed \Q consumes to end of pattern.
func (p *parser) parseQuotedLiteral() (int, error) {
	idx, err := p.tree.addNode(Node{Op: NtSequence, IgnoreCase: p.ignoreCase, Value: -1, Quant: oneQuant})
	if err != nil {
		return 0, err
	}
	for !p.eof() {
		if p.consumeString(`\E`) {
			break
		}
		r, err := p.nextRune()
		if err != nil {
			return 0, err
		}
		if _, err := p.tree.addNode(Node{Op: NtLiteral, IgnoreCase: p.ignoreCase, Value: int32(r), Quant: oneQuant}); err != nil {
			return 0, err
		}
	}
	p.tree.closeSubtree(idx)
	return idx, nil
}

// parseCharacterEscape parses the single-character escapes: \f \n \r \t \v,
// \0, \cX, \xHH, \uHHHH, or an escaped syntax/other character taken literally.
func (p *parser) parseCharacterEscape() (rune, error) {
	c := p.peekByte()
	switch c {
	case 'f':
		p.pos++
		return '\f', nil
	case 'n':
		p.pos++
		return '\n', nil
	case 'r':
		p.pos++
		return '\r', nil
	case 't':
		p.pos++
		return '\t', nil
	case 'v':
		p.pos++
		return '\v', nil
	case '0':
		p.pos++
		return 0, nil
	case 'c':
		p.pos++
		return p.parseControlEscape()
	case 'x':
		p.pos++
		return p.parseHexEscape(2)
	case 'u':
		p.pos++
		return p.parseHexEscape(4)
	}
	if isSyntaxChar(c) {
		p.pos++
		return rune(c), nil
	}
	if isASCIILetter(c) {
		return 0, p.errorf("unknown escape \\%c", c)
	}
	return p.nextRune()
}

func isSyntaxChar(c byte) bool {
	switch c {
	case '^', '$', '\\', '.', '*', '+', '?', '(', ')', '[', ']', '{', '}', '|':
		return true
	}
	return false
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (p *parser) parseControlEscape() (rune, error) {
	c := p.peekByte()
	if !isASCIILetter(c) {
		return 0, p.errorf("invalid \\c control escape")
	}
	p.pos++
	return rune(c % 32), nil
}

func (p *parser) parseHexEscape(n int) (rune, error) {
	if len(p.pattern)-p.pos < n {
		return 0, p.errorf("truncated hex escape")
	}
	digits := p.pattern[p.pos : p.pos+n]
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, p.errorf("invalid hex digits %q", digits)
	}
	p.pos += n
	return rune(v), nil
}

func (p *parser) addMatcherNode(cls *CharClass) (int, error) {
	cls.normalize(false)
	if r, ok := cls.single(); ok {
		return p.tree.addNode(Node{Op: NtLiteral, IgnoreCase: p.ignoreCase, Value: int32(r), Quant: oneQuant})
	}
	id := p.tree.addMatcher(cls)
	return p.tree.addNode(Node{Op: NtMatcher, IgnoreCase: p.ignoreCase, Value: int32(id), Quant: oneQuant})
}

// --- character class ---------------------------------------------------------

// parseClass parses "[" class "]" into a Matcher node (or a Literal node
// when the class normalizes down to exactly one code point).
func (p *parser) parseClass() (int, error) {
	p.pos++ // '['
	cls := newCharClass()
	if p.consumeByte('^') {
		cls.negate = true
	}
	for {
		if p.eof() {
			return 0, p.errorf("unclosed character class")
		}
		if p.peekByte() == ']' {
			p.pos++
			break
		}
		if p.peekByte() == '-' && p.pos+1 < len(p.pattern) && p.pattern[p.pos+1] == ']' {
			// trailing literal '-' just before ']'
			cls.addRange('-', '-')
			p.pos++
			continue
		}
		lo, isEscapeClass, escapeClass, err := p.parseClassItemStart()
		if err != nil {
			return 0, err
		}
		if isEscapeClass {
			mergeEscapeClass(cls, escapeClass)
			continue
		}
		if p.peekByte() == '-' && p.pos+1 < len(p.pattern) && p.pattern[p.pos+1] != ']' {
			p.pos++ // '-'
			hi, isEscapeClass2, _, err := p.parseClassItemStart()
			if err != nil {
				return 0, err
			}
			if isEscapeClass2 {
				return 0, p.errorf("invalid class range")
			}
			cls.addRange(lo, hi)
		} else {
			cls.addRange(lo, lo)
		}
	}
	cls.normalize(p.ignoreCase)
	return p.addMatcherNode(cls)
}

// parseClassItemStart parses one range endpoint: a literal rune, or a
// class-escape (\d \w \s \h and their negations). A class-escape can't be
// used as a range endpoint but can appear standalone inside the class;
// parseClass's isEscapeClass branch merges it and continues before ever
// checking for a following '-', so a hyphen right after a class-escape
// is always picked up fresh as its own literal on the next iteration.
func (p *parser) parseClassItemStart() (r rune, isEscapeClass bool, escapeClass *CharClass, err error) {
	if p.peekByte() != '\\' {
		r, err = p.nextRune()
		return r, false, nil, err
	}
	p.pos++ // consume '\\'
	if p.eof() {
		err = p.errorf("trailing backslash in class")
		return
	}
	c := p.peekByte()
	switch c {
	case 'd', 'D', 'w', 'W', 's', 'S', 'h', 'H':
		p.pos++
		return 0, true, classEscapeClass(c), nil
	}
	rr, cerr := p.parseCharacterEscape()
	if cerr != nil {
		return 0, false, nil, cerr
	}
	return rr, false, nil, nil
}

func mergeEscapeClass(dst *CharClass, src *CharClass) {
	dst.ranges = append(dst.ranges, src.ranges...)
	dst.cats = append(dst.cats, src.cats...)
}
