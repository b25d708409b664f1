package comments

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/albertocavalcante/tidyhook/internal/log"
	"github.com/albertocavalcante/tidyhook/pkg/treesitter"
)

var (
	ErrUnsupportedDialect = errors.New("unsupported dialect")
	ErrRead               = errors.New("read failed")
	ErrDecode             = errors.New("content is not valid UTF-8")
	ErrTokenize           = errors.New("tokenize failed")
	ErrWrite              = errors.New("write failed")

	// ErrSyntaxRegression rejects a strip that would turn source which
	// parses cleanly into source which does not.
	ErrSyntaxRegression = errors.New("stripping would introduce a syntax error")
)

// Skippable reports whether err left the file untouched on purpose: it
// could not be decoded, tokenized or safely rewritten.
func Skippable(err error) bool {
	return errors.Is(err, ErrDecode) || errors.Is(err, ErrTokenize) || errors.Is(err, ErrSyntaxRegression)
}

// Comment is one comment found by a scanner together with its verdict.
type Comment struct {
	StartLine   int
	EndLine     int
	StartColumn int
	Text        string
	Kind        Kind
	Decision    Decision
	Rule        Rule
}

// Result is the outcome of stripping an in-memory source.
type Result struct {
	// Stripped counts removed comments; a multi-line block counts once.
	Stripped int
	// Modified reports whether Content differs from the input.
	Modified bool
	// Content is the rewritten source, or the input unchanged.
	Content  string
	Comments []Comment
}

// Outcome is what StripFile reports to callers.
type Outcome struct {
	Stripped int
	Modified bool
}

// Stripper removes noise comments from source files. The tree-sitter backend
// is consulted for tokenized dialects and for the syntax check, and may be
// nil when neither is needed.
type Stripper struct {
	backend     treesitter.Backend
	syntaxCheck bool
}

// Option configures a Stripper.
type Option func(*Stripper)

// WithSyntaxCheck re-parses every heuristic rewrite and rejects it with
// ErrSyntaxRegression when it breaks a file that parsed cleanly.
func WithSyntaxCheck(on bool) Option {
	return func(s *Stripper) { s.syntaxCheck = on }
}

// New returns a Stripper using backend for exact tokenization.
func New(backend treesitter.Backend, opts ...Option) *Stripper {
	s := &Stripper{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strip rewrites src for dialect d. On error the returned Result carries src
// unchanged.
func (s *Stripper) Strip(ctx context.Context, d Dialect, src string) (Result, error) {
	p, ok := ProfileFor(d)
	if !ok {
		return Result{Content: src}, fmt.Errorf("%w: %q", ErrUnsupportedDialect, d)
	}
	return s.strip(ctx, p, p.Grammar, src)
}

func (s *Stripper) strip(ctx context.Context, p *Profile, grammar treesitter.Language, src string) (Result, error) {
	if !utf8.ValidString(src) {
		return Result{Content: src}, ErrDecode
	}
	if p.Tokenized {
		r, err := scanExact(ctx, s.backend, p, src)
		if err != nil {
			return Result{Content: src}, err
		}
		return r, nil
	}

	r := scanHeuristic(p, src)
	if s.syntaxCheck && r.Modified {
		if err := s.checkSyntax(ctx, grammar, src, r.Content); err != nil {
			return Result{Content: src}, err
		}
	}
	return r, nil
}

// Preview reads path and returns what stripping it would produce without
// touching the file.
func (s *Stripper) Preview(ctx context.Context, path string, d Dialect) (Result, error) {
	if _, ok := ProfileFor(d); !ok {
		return Result{}, fmt.Errorf("%s: %w: %q", path, ErrUnsupportedDialect, d)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return s.PreviewSource(ctx, path, d, string(data))
}

// PreviewSource is Preview for content the caller already read from path.
// The path picks the grammar variant used by the syntax check and labels
// the trace output.
func (s *Stripper) PreviewSource(ctx context.Context, path string, d Dialect, src string) (Result, error) {
	p, ok := ProfileFor(d)
	if !ok {
		return Result{Content: src}, fmt.Errorf("%s: %w: %q", path, ErrUnsupportedDialect, d)
	}
	r, err := s.strip(ctx, p, grammarFor(p, path), src)
	if err != nil {
		return r, fmt.Errorf("%s: %w", path, err)
	}
	traceComments(ctx, path, r.Comments)
	return r, nil
}

// traceComments logs every verdict at trace level (-v=4).
func traceComments(ctx context.Context, path string, cs []Comment) {
	logger := log.Component("comments")
	if !logger.Enabled(ctx, log.LevelTrace) {
		return
	}
	for _, c := range cs {
		logger.Log(ctx, log.LevelTrace, "classified",
			"path", path, "line", c.StartLine+1, "kind", c.Kind, "decision", c.Decision, "rule", c.Rule)
	}
}

// StripFileE strips path in place. The file is written only when the
// content changed, keeping its permission bits.
func (s *Stripper) StripFileE(ctx context.Context, path string, d Dialect) (Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}

	r, err := s.Preview(ctx, path, d)
	if err != nil {
		return Outcome{}, err
	}
	if !r.Modified {
		return Outcome{}, nil
	}

	if err := os.WriteFile(path, []byte(r.Content), info.Mode().Perm()); err != nil {
		return Outcome{}, fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return Outcome{Stripped: r.Stripped, Modified: true}, nil
}

// StripFile is StripFileE for callers that must never fail: any error is
// logged and reported as an unmodified file.
func (s *Stripper) StripFile(ctx context.Context, path string, d Dialect) Outcome {
	out, err := s.StripFileE(ctx, path, d)
	if err != nil {
		log.Component("comments").Debug("skipping file", "path", path, "dialect", d, "error", err)
		return Outcome{}
	}
	return out
}
