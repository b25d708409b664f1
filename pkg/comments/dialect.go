// Package comments classifies source comments as signal or noise and
// rewrites files with the noise removed.
//
// Two scanners share one classifier:
//
//   - the exact scanner tokenizes the whole file with tree-sitter and is used
//     for Python, where '#' inside strings and docstrings defeat line matching;
//   - the heuristic scanner folds over lines with a two-state block machine
//     and a quote-tracking heuristic, for the C-style dialects.
//
// Neither scanner ever edits code. Whole-line comments delete their line,
// trailing comments truncate it, preserved comments pass through untouched,
// and a file that yields no strip is returned byte-for-byte.
package comments

import (
	"fmt"
	"strings"

	"github.com/albertocavalcante/tidyhook/pkg/treesitter"
)

// Dialect identifies one supported comment grammar family.
type Dialect string

const (
	Python     Dialect = "python"
	TypeScript Dialect = "typescript"
	Swift      Dialect = "swift"
	Rust       Dialect = "rust"
	Go         Dialect = "go"
)

// Dialects returns every supported dialect in a stable order.
func Dialects() []Dialect {
	return []Dialect{Python, TypeScript, Swift, Rust, Go}
}

// ParseDialect resolves a dialect name. "javascript" is accepted as an
// alias for TypeScript since both share one comment grammar.
func ParseDialect(name string) (Dialect, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "javascript" || n == "js" || n == "ts" {
		return TypeScript, nil
	}
	d := Dialect(n)
	if _, ok := profiles[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, name)
	}
	return d, nil
}

// Profile is the static description of one dialect's comment syntax and
// preservation vocabulary.
type Profile struct {
	Dialect Dialect

	// LineComment starts a comment that runs to end of line.
	LineComment string

	// BlockOpen and BlockClose delimit block comments; empty when the
	// dialect has none.
	BlockOpen  string
	BlockClose string

	// DocPrefixes mark documentation comments (always preserved).
	DocPrefixes []string

	// TypeDirectives are substrings of type hints and type-checker
	// directives.
	TypeDirectives []string

	// Suppressions are substrings of linter and tool directives.
	Suppressions []string

	// DeclAdjacency keeps a comment group sitting directly above a line
	// that starts with one of DeclKeywords.
	DeclAdjacency bool
	DeclKeywords  []string

	// Tokenized selects the exact tree-sitter scanner for Grammar instead
	// of the line heuristic. Heuristic dialects use Grammar only for the
	// optional syntax check.
	Tokenized bool
	Grammar   treesitter.Language
}

// cStyleSuppressions are shared by every C-style dialect.
var cStyleSuppressions = []string{
	"eslint-disable", "eslint-enable", "@ts-",
	"swiftlint:", "nolint", "nosec",
	"SAFETY:", "INVARIANT:",
}

// cStyleDocPrefixes are the doc markers recognised across C-style dialects.
var cStyleDocPrefixes = []string{"///", "//!", "/**", "/*!"}

var profiles = map[Dialect]*Profile{
	Python: {
		Dialect:        Python,
		LineComment:    "#",
		TypeDirectives: []string{"type:", "pyright:", "mypy:"},
		Suppressions:   []string{"noqa", "pylint:", "pragma:", "nosec", "fmt: off", "fmt: on", "fmt: skip", "isort:"},
		Tokenized:      true,
		Grammar:        treesitter.Python,
	},
	TypeScript: {
		Dialect:        TypeScript,
		LineComment:    "//",
		BlockOpen:      "/*",
		BlockClose:     "*/",
		DocPrefixes:    cStyleDocPrefixes,
		TypeDirectives: []string{"@ts-", "<reference", "@jsx", "@flow"},
		Suppressions:   append([]string{"prettier-ignore", "istanbul ignore", "c8 ignore"}, cStyleSuppressions...),
		Grammar:        treesitter.TypeScript,
	},
	Swift: {
		Dialect:      Swift,
		LineComment:  "//",
		BlockOpen:    "/*",
		BlockClose:   "*/",
		DocPrefixes:  cStyleDocPrefixes,
		Suppressions: append([]string{"swiftformat:", "sourcery:"}, cStyleSuppressions...),
		Grammar:      treesitter.Swift,
	},
	Rust: {
		Dialect:      Rust,
		LineComment:  "//",
		BlockOpen:    "/*",
		BlockClose:   "*/",
		DocPrefixes:  cStyleDocPrefixes,
		Suppressions: cStyleSuppressions,
		Grammar:      treesitter.Rust,
	},
	Go: {
		Dialect:     Go,
		LineComment: "//",
		BlockOpen:   "/*",
		BlockClose:  "*/",
		DocPrefixes: cStyleDocPrefixes,
		Suppressions: append([]string{
			"go:build", "go:generate", "go:embed", "go:linkname",
			"go:noinline", "go:nosplit", "+build", "lint:ignore",
		}, cStyleSuppressions...),
		DeclAdjacency: true,
		DeclKeywords:  []string{"func ", "type ", "var ", "const ", "package "},
		Grammar:       treesitter.Go,
	},
}

// ProfileFor returns the profile of d.
func ProfileFor(d Dialect) (*Profile, bool) {
	p, ok := profiles[d]
	return p, ok
}
