package textproc

import "strings"

// Normalize returns text as a single line of printable ASCII: any run of
// whitespace or non-ASCII bytes becomes one space, and the ends are trimmed.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 0x80 || isSpace(c) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteByte(c)
	}
	return b.String()
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x1f:
		return true
	}
	return false
}
