package comments

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/albertocavalcante/tidyhook/pkg/treesitter"
)

// scanExact tokenizes src with the profile's tree-sitter grammar and strips
// comment tokens. Any parse failure, including a tree with error nodes,
// returns ErrTokenize so the caller leaves the file alone.
func scanExact(ctx context.Context, backend treesitter.Backend, p *Profile, src string) (Result, error) {
	if backend == nil {
		return Result{}, fmt.Errorf("%w: no tree-sitter backend", ErrTokenize)
	}

	parser, err := backend.NewParser(p.Grammar)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrTokenize, err)
	}
	defer parser.Close()

	tree, err := parser.ParseString(ctx, src)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrTokenize, err)
	}
	defer tree.Close()

	if tree.HasError() {
		return Result{}, fmt.Errorf("%w: %s source has syntax errors", ErrTokenize, p.Dialect)
	}

	lines := splitLines(src)
	index := newLineIndex(lines)
	source := tree.Source()
	root := tree.RootNode()

	var acc accumulator
	removed := make(map[int]bool)
	truncated := make(map[int]string)

	for _, n := range treesitter.FindByType(root, "comment") {
		line, col := index.locate(int(n.StartByte()))
		content, term := splitTerminator(lines[line])

		c := Comment{
			StartLine:   line,
			EndLine:     line,
			StartColumn: col,
			Text:        strings.TrimRight(n.Content(source), "\r"),
			Kind:        KindInline,
		}
		if isBlank(content[:col]) {
			c.Kind = KindWholeLine
		}
		c.Decision, c.Rule = Classify(p, c.Text, Context{Line: line, Kind: c.Kind})
		acc.record(c)

		if c.Decision == Preserve {
			continue
		}
		if c.Kind == KindWholeLine {
			removed[line] = true
		} else {
			truncated[line] = strings.TrimRight(content[:col], " \t") + term
		}
	}

	for _, n := range docStrings(root) {
		start, col := index.locate(int(n.StartByte()))
		end, _ := index.locate(int(n.EndByte()) - 1)
		c := Comment{
			StartLine:   start,
			EndLine:     end,
			StartColumn: col,
			Text:        n.Content(source),
			Kind:        KindBlockSingleLine,
		}
		if end > start {
			c.Kind = KindBlockMultiLine
		}
		c.Decision, c.Rule = Classify(p, c.Text, Context{Line: start, Kind: c.Kind, DocString: true})
		acc.record(c)
	}

	slices.SortStableFunc(acc.comments, func(a, b Comment) int {
		if a.StartLine != b.StartLine {
			return a.StartLine - b.StartLine
		}
		return a.StartColumn - b.StartColumn
	})

	for i, l := range lines {
		switch {
		case removed[i]:
		case truncated[i] != "":
			acc.emit(truncated[i])
		default:
			acc.emit(l)
		}
	}

	return finish(src, &acc), nil
}

// docStrings returns string literals that stand alone as a statement, which
// is how Python spells module, class and function documentation.
func docStrings(root treesitter.Node) []treesitter.Node {
	var out []treesitter.Node
	for _, stmt := range treesitter.FindByType(root, "expression_statement") {
		kids := treesitter.NamedChildren(stmt)
		if len(kids) == 1 && kids[0].Type() == "string" {
			out = append(out, kids[0])
		}
	}
	return out
}
