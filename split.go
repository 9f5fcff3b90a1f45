package rex

import "errors"

// Split splits input using re as the separator and returns the pieces
// between matches. Count limits the number of matches processed (-1 for
// unlimited; 0 returns nil; 1 returns the input unchanged). If re has
// capture groups, each group's text is interleaved into the result
// between the pieces it separates.
func (re *Regexp) Split(input string, count int) ([]string, error) {
	if count < -1 {
		return nil, errors.New("rex: Split count too small")
	}
	if count == 0 {
		return nil, nil
	}
	if count == 1 {
		return []string{input}, nil
	}

	m, err := re.FindStringMatch(input)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return []string{input}, nil
	}

	priorEnd := 0
	var out []string
	for m != nil && count != 0 {
		out = append(out, input[priorEnd:m.Index])
		gs := m.Groups()
		for i := 1; i < len(gs); i++ {
			out = append(out, gs[i].String())
		}
		priorEnd = m.Index + m.Length
		count--
		if count == 0 {
			break
		}
		m, err = re.FindNextMatch(m)
		if err != nil {
			return nil, err
		}
	}

	out = append(out, input[priorEnd:])
	return out, nil
}
