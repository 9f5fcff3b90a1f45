package syntax

import "strings"

// Escape returns a copy of pattern with every syntax character (the same
// set isSyntaxChar rejects as a literal after a backslash) preceded by a
// backslash, so the result matches pattern's text literally.
func Escape(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if isSyntaxChar(c) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
