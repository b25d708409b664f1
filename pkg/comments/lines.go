package comments

import (
	"sort"
	"strings"
)

// splitLines splits src after every '\n'. Each element keeps its
// terminator so that joining the elements reproduces src exactly.
func splitLines(src string) []string {
	lines := strings.SplitAfter(src, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitTerminator separates a line's content from its terminator, which is
// "\r\n", "\n" or empty on an unterminated last line.
func splitTerminator(line string) (content, term string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// joinAround rejoins the code on either side of a removed span, collapsing
// the whitespace that bordered it to at most one space. Two identifier
// characters are never glued together.
func joinAround(before, after string) string {
	b := strings.TrimRight(before, " \t")
	a := strings.TrimLeft(after, " \t")
	switch {
	case isBlank(a):
		return b
	case isBlank(b):
		return before + a
	case len(b) != len(before) || len(a) != len(after):
		return b + " " + a
	case isWordByte(b[len(b)-1]) && isWordByte(a[0]):
		return b + " " + a
	default:
		return b + a
	}
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// lineIndex maps byte offsets to 0-indexed line numbers.
type lineIndex []int

func newLineIndex(lines []string) lineIndex {
	starts := make(lineIndex, len(lines))
	off := 0
	for i, l := range lines {
		starts[i] = off
		off += len(l)
	}
	return starts
}

// locate returns the line containing offset and the byte column within it.
func (idx lineIndex) locate(offset int) (line, col int) {
	line = sort.Search(len(idx), func(i int) bool { return idx[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return line, offset - idx[line]
}
