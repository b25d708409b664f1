package comments

// IsInsideString reports whether byte offset col of line falls inside a
// string literal opened earlier on the same line.
//
// Double quotes, single quotes and backticks toggle independently, and a
// quote only counts while no other kind is open. A backslash skips the
// following byte. This is a single-line approximation: it does not see
// multi-line strings, raw strings or character literals spanning lines.
func IsInsideString(line string, col int) bool {
	var open byte
	if col > len(line) {
		col = len(line)
	}
	for i := 0; i < col; i++ {
		c := line[i]
		switch {
		case c == '\\':
			i++
		case open == 0 && (c == '"' || c == '\'' || c == '`'):
			open = c
		case open != 0 && c == open:
			open = 0
		}
	}
	return open != 0
}
