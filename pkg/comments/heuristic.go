package comments

import "strings"

// blockState is the heuristic scanner's state between lines. The zero value
// means no block comment is open.
type blockState struct {
	open      bool
	preserved bool
}

// accumulator collects the rewritten text and what was found along the way.
type accumulator struct {
	out      strings.Builder
	stripped int
	comments []Comment
}

func (a *accumulator) emit(s string) {
	a.out.WriteString(s)
}

func (a *accumulator) record(c Comment) {
	if c.Decision == Strip {
		a.stripped++
	}
	a.comments = append(a.comments, c)
}

// extend appends a continuation line to the open block comment.
func (a *accumulator) extend(line int, text string) {
	if len(a.comments) == 0 {
		return
	}
	c := &a.comments[len(a.comments)-1]
	c.EndLine = line
	c.Text += "\n" + text
}

// scanHeuristic folds over the lines of src with the block state machine.
func scanHeuristic(p *Profile, src string) Result {
	lines := splitLines(src)

	var acc accumulator
	var st blockState
	for i := range lines {
		st = step(p, lines, i, st, &acc)
	}

	return finish(src, &acc)
}

func step(p *Profile, lines []string, i int, st blockState, acc *accumulator) blockState {
	if st.open {
		return continueBlock(p, lines, i, st, acc)
	}
	return scanLine(p, lines, i, lines[i], acc)
}

// continueBlock handles a line inside an open block comment.
func continueBlock(p *Profile, lines []string, i int, st blockState, acc *accumulator) blockState {
	content, term := splitTerminator(lines[i])
	end := strings.Index(content, p.BlockClose)
	if end < 0 {
		acc.extend(i, content)
		if st.preserved {
			acc.emit(lines[i])
		}
		return st
	}

	closeEnd := end + len(p.BlockClose)
	acc.extend(i, content[:closeEnd])
	if st.preserved {
		acc.emit(lines[i])
		return blockState{}
	}

	rest := content[closeEnd:]
	if isBlank(rest) {
		return blockState{}
	}
	// Code after the closer survives at the line's original indentation.
	return scanLine(p, lines, i, leadingSpace(content)+strings.TrimLeft(rest, " \t")+term, acc)
}

// scanLine handles a line (or the remainder of one) outside any block.
func scanLine(p *Profile, lines []string, i int, line string, acc *accumulator) blockState {
	content, term := splitTerminator(line)
	indent := leadingSpace(content)
	trimmed := content[len(indent):]

	if strings.HasPrefix(trimmed, p.LineComment) {
		c := Comment{
			StartLine:   i,
			EndLine:     i,
			StartColumn: len(indent),
			Text:        trimmed,
			Kind:        KindWholeLine,
		}
		ctx := Context{Line: i, Kind: KindWholeLine}
		if p.DeclAdjacency {
			ctx.NextLine = nextLine(lines, i)
		}
		c.Decision, c.Rule = Classify(p, trimmed, ctx)
		acc.record(c)
		if c.Decision == Preserve {
			acc.emit(line)
		}
		return blockState{}
	}

	lineAt := lineCommentStart(p, content)
	if openAt := blockCommentStart(p, content); openAt >= 0 && (lineAt < 0 || openAt < lineAt) {
		return openBlock(p, lines, i, line, openAt, acc)
	}

	if lineAt > 0 {
		c := Comment{
			StartLine:   i,
			EndLine:     i,
			StartColumn: lineAt,
			Text:        content[lineAt:],
			Kind:        KindInline,
		}
		c.Decision, c.Rule = Classify(p, c.Text, Context{Line: i, Kind: KindInline})
		acc.record(c)
		if c.Decision == Preserve {
			acc.emit(line)
		} else {
			acc.emit(strings.TrimRight(content[:lineAt], " \t") + term)
		}
		return blockState{}
	}

	acc.emit(line)
	return blockState{}
}

// openBlock handles a block comment starting at byte openAt of line.
func openBlock(p *Profile, lines []string, i int, line string, openAt int, acc *accumulator) blockState {
	content, term := splitTerminator(line)
	before := content[:openAt]
	body := content[openAt+len(p.BlockOpen):]

	if end := strings.Index(body, p.BlockClose); end >= 0 {
		closeEnd := openAt + len(p.BlockOpen) + end + len(p.BlockClose)
		c := Comment{
			StartLine:   i,
			EndLine:     i,
			StartColumn: openAt,
			Text:        content[openAt:closeEnd],
			Kind:        KindBlockSingleLine,
		}
		c.Decision, c.Rule = Classify(p, c.Text, Context{Line: i, Kind: KindBlockSingleLine})
		acc.record(c)
		if c.Decision == Preserve {
			acc.emit(line)
			return blockState{}
		}
		rebuilt := joinAround(before, content[closeEnd:])
		if isBlank(rebuilt) {
			return blockState{}
		}
		// The remainder may hold further comments.
		return scanLine(p, lines, i, rebuilt+term, acc)
	}

	c := Comment{
		StartLine:   i,
		EndLine:     i,
		StartColumn: openAt,
		Text:        content[openAt:],
		Kind:        KindBlockMultiLine,
	}
	c.Decision, c.Rule = Classify(p, c.Text, Context{Line: i, Kind: KindBlockMultiLine})
	acc.record(c)
	if c.Decision == Preserve {
		acc.emit(line)
		return blockState{open: true, preserved: true}
	}
	if !isBlank(before) {
		acc.emit(strings.TrimRight(before, " \t") + term)
	}
	return blockState{open: true}
}

// lineCommentStart returns the offset of the first line-comment opener in
// content, or -1 when there is none or it sits inside a string. Only the
// first occurrence is considered, so a URL in a string hides any later
// trailing comment on the same line.
func lineCommentStart(p *Profile, content string) int {
	at := strings.Index(content, p.LineComment)
	if at < 0 || IsInsideString(content, at) {
		return -1
	}
	return at
}

// blockCommentStart returns the offset of the first block opener in content
// that is not inside a string, or -1.
func blockCommentStart(p *Profile, content string) int {
	if p.BlockOpen == "" {
		return -1
	}
	off := 0
	for {
		k := strings.Index(content[off:], p.BlockOpen)
		if k < 0 {
			return -1
		}
		k += off
		if !IsInsideString(content, k) {
			return k
		}
		off = k + len(p.BlockOpen)
	}
}

// nextLine returns the physical line after i without its terminator, or ""
// at end of file.
func nextLine(lines []string, i int) string {
	if i+1 >= len(lines) {
		return ""
	}
	content, _ := splitTerminator(lines[i+1])
	return content
}

func finish(src string, acc *accumulator) Result {
	r := Result{
		Stripped: acc.stripped,
		Comments: acc.comments,
		Content:  src,
	}
	if acc.stripped > 0 {
		r.Content = acc.out.String()
		r.Modified = r.Content != src
	}
	return r
}
