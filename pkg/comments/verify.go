package comments

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/tidyhook/internal/log"
	"github.com/albertocavalcante/tidyhook/pkg/treesitter"
)

// grammarFor picks the grammar for path where one dialect spans several.
func grammarFor(p *Profile, path string) treesitter.Language {
	if p.Dialect != TypeScript {
		return p.Grammar
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".jsx":
		return treesitter.TSX
	case ".js", ".mjs", ".cjs":
		return treesitter.JavaScript
	}
	return p.Grammar
}

// checkSyntax parses before and after with grammar and returns
// ErrSyntaxRegression only when before is clean and after is not. Without
// a backend for grammar, or when before already has errors, there is
// nothing to compare against and the rewrite is allowed.
func (s *Stripper) checkSyntax(ctx context.Context, grammar treesitter.Language, before, after string) error {
	logger := log.Component("comments")

	if s.backend == nil || grammar == "" || !s.backend.SupportsLanguage(grammar) {
		logger.Debug("syntax check unavailable", "grammar", grammar)
		return nil
	}
	parser, err := s.backend.NewParser(grammar)
	if err != nil {
		logger.Debug("syntax check unavailable", "grammar", grammar, "error", err)
		return nil
	}
	defer parser.Close()

	if clean, err := parsesCleanly(ctx, parser, before); err != nil || !clean {
		return nil
	}
	clean, err := parsesCleanly(ctx, parser, after)
	if err != nil {
		return nil
	}
	if !clean {
		return fmt.Errorf("%w (%s grammar)", ErrSyntaxRegression, grammar)
	}
	return nil
}

func parsesCleanly(ctx context.Context, parser treesitter.Parser, src string) (bool, error) {
	tree, err := parser.ParseString(ctx, src)
	if err != nil {
		return false, err
	}
	defer tree.Close()
	return !tree.HasError(), nil
}
