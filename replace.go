package rex

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Replace replaces successive non-overlapping matches of re in input with
// repl, starting the search at byte offset startAt and stopping after
// count replacements (-1 for unlimited). A right-to-left re always starts
// its search at the end of input; startAt is then only range-checked. repl may reference capture
// groups with $1, $name, or ${name}, and the whole match with $0 or $&.
func (re *Regexp) Replace(input, repl string, startAt, count int) (string, error) {
	if count < -1 {
		return "", errors.New("rex: Replace count too small")
	}
	if startAt < 0 || startAt > len(input) {
		return "", errors.New("rex: Replace startAt out of range")
	}
	if count == 0 {
		return input, nil
	}
	if err := re.validateReplacement(repl); err != nil {
		return "", err
	}

	subject, offsets := decodeSubject(input)
	startRune := 0
	for startRune < len(offsets) && offsets[startRune] < startAt {
		startRune++
	}

	opts := Search
	m, err := re.findFrom(subject, offsets, re.searchStart(startRune, len(subject)), opts)
	if err != nil {
		return "", err
	}
	if m == nil {
		return input, nil
	}

	var buf strings.Builder
	if !re.RightToLeft() {
		prevEnd := 0
		for m != nil {
			if m.Index > prevEnd {
				buf.WriteString(input[prevEnd:m.Index])
			}
			prevEnd = m.Index + m.Length
			writeReplacement(&buf, m, repl)
			count--
			if count == 0 {
				break
			}
			m, err = re.FindNextMatch(m)
			if err != nil {
				return "", err
			}
		}
		if prevEnd < len(input) {
			buf.WriteString(input[prevEnd:])
		}
	} else {
		prevStart := len(input)
		var pieces []string
		for m != nil {
			end := m.Index + m.Length
			if end < prevStart {
				pieces = append(pieces, input[end:prevStart])
			}
			prevStart = m.Index
			var b strings.Builder
			writeReplacement(&b, m, repl)
			pieces = append(pieces, b.String())
			count--
			if count == 0 {
				break
			}
			m, err = re.FindNextMatch(m)
			if err != nil {
				return "", err
			}
		}
		if prevStart > 0 {
			pieces = append(pieces, input[:prevStart])
		}
		for i := len(pieces) - 1; i >= 0; i-- {
			buf.WriteString(pieces[i])
		}
	}

	return buf.String(), nil
}

// validateReplacement rejects any $-group reference repl makes that re
// has no matching capture slot for, so a typo'd or out-of-range group
// number fails fast instead of silently substituting the empty string.
func (re *Regexp) validateReplacement(repl string) error {
	for i := 0; i < len(repl); i++ {
		if repl[i] != '$' || i+1 >= len(repl) {
			continue
		}
		i++
		d := repl[i]
		var name string
		switch {
		case d == '$', d == '&':
			continue
		case d == '{':
			end := strings.IndexByte(repl[i:], '}')
			if end < 0 {
				continue
			}
			name = repl[i+1 : i+end]
			i += end
		case d >= '0' && d <= '9':
			j := i
			for j < len(repl) && repl[j] >= '0' && repl[j] <= '9' {
				j++
			}
			name = repl[i:j]
			i = j - 1
		default:
			continue
		}
		n, err := strconv.Atoi(name)
		if err != nil || n < 0 || n >= re.capCount {
			return fmt.Errorf("rex: Replace references unknown group %q", name)
		}
	}
	return nil
}

func (re *Regexp) searchStart(startRune, subjectLen int) int {
	if re.RightToLeft() {
		return subjectLen
	}
	return startRune
}

// writeReplacement expands repl's $-substitutions against m's groups.
func writeReplacement(buf *strings.Builder, m *Match, repl string) {
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c != '$' || i+1 >= len(repl) {
			buf.WriteByte(c)
			continue
		}
		i++
		d := repl[i]
		switch {
		case d == '$':
			buf.WriteByte('$')
		case d == '&':
			buf.WriteString(m.Group.String())
		case d == '{':
			end := strings.IndexByte(repl[i:], '}')
			if end < 0 {
				buf.WriteByte('$')
				buf.WriteByte('{')
				continue
			}
			name := repl[i+1 : i+end]
			buf.WriteString(groupText(m, name))
			i += end
		case d >= '0' && d <= '9':
			j := i
			for j < len(repl) && repl[j] >= '0' && repl[j] <= '9' {
				j++
			}
			buf.WriteString(groupText(m, repl[i:j]))
			i = j - 1
		default:
			buf.WriteByte('$')
			buf.WriteByte(d)
		}
	}
}

func groupText(m *Match, name string) string {
	n, err := strconv.Atoi(name)
	if err != nil {
		return ""
	}
	g := m.GroupByNumber(n)
	if g == nil {
		return ""
	}
	return g.String()
}
