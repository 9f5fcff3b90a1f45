package rex

// Group is one capture group's result.
type Group struct {
	Number  int
	Success bool
	Index   int // byte offset into the subject
	Length  int // byte length
	text    string
}

// String returns the captured text, or "" if the group didn't participate.
func (g *Group) String() string { return g.text }

// Match is the result of one FindStringMatch/FindNextMatch call: group 0
// is the whole match, groups 1..N-1 are the pattern's capture groups in
// slot order.
type Match struct {
	Group

	groups []Group

	regex   *Regexp
	subject []rune
	offsets []int // rune index i -> byte offset of subject[i]; len = len(subject)+1
	textpos int   // rune index to resume scanning from for FindNextMatch
}

// GroupCount returns the number of groups, including group 0.
func (m *Match) GroupCount() int { return len(m.groups) + 1 }

// GroupByNumber returns group i (0 is the whole match), or nil if i is
// out of range.
func (m *Match) GroupByNumber(i int) *Group {
	if i == 0 {
		return &m.Group
	}
	if i < 1 || i > len(m.groups) {
		return nil
	}
	return &m.groups[i-1]
}

// Groups returns every group, including group 0, in slot order.
func (m *Match) Groups() []Group {
	out := make([]Group, 0, len(m.groups)+1)
	out = append(out, m.Group)
	out = append(out, m.groups...)
	return out
}

func newMatch(re *Regexp, subject []rune, offsets []int, caps []int32) *Match {
	m := &Match{
		regex:   re,
		subject: subject,
		offsets: offsets,
		groups:  make([]Group, re.capCount-1),
	}
	m.Group = buildGroup(0, subject, offsets, caps)
	for i := 1; i < re.capCount; i++ {
		m.groups[i-1] = buildGroup(i, subject, offsets, caps)
	}
	if re.RightToLeft() {
		m.textpos = int(caps[0])
	} else if caps[1] >= 0 {
		m.textpos = int(caps[1])
	} else {
		m.textpos = int(caps[0])
	}
	return m
}

func buildGroup(slot int, subject []rune, offsets []int, caps []int32) Group {
	start, end := caps[2*slot], caps[2*slot+1]
	if start < 0 || end < 0 {
		return Group{Number: slot}
	}
	if start > end {
		start, end = end, start
	}
	return Group{
		Number:  slot,
		Success: true,
		Index:   offsets[start],
		Length:  offsets[end] - offsets[start],
		text:    string(subject[start:end]),
	}
}
