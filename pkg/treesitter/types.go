package treesitter

import "context"

// Language represents a grammar that can be parsed.
type Language string

const (
	Python     Language = "python"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	JavaScript Language = "javascript"
	Rust       Language = "rust"
	Go         Language = "go"
	Swift      Language = "swift"

	// C and Cpp are the only grammars shipped by the wazero backend.
	C   Language = "c"
	Cpp Language = "cpp"
)

// AllLanguages returns every Language constant.
func AllLanguages() []Language {
	return []Language{Python, TypeScript, TSX, JavaScript, Rust, Go, Swift, C, Cpp}
}

// Backend abstracts the tree-sitter implementation.
type Backend interface {
	// Name returns the backend identifier ("cgo" or "wazero").
	Name() string

	// IsExperimental returns true for backends not yet production-ready.
	IsExperimental() bool

	// SupportedLanguages returns the list of languages this backend can parse.
	SupportedLanguages() []Language

	// SupportsLanguage checks if the backend can parse the given language.
	SupportsLanguage(lang Language) bool

	// NewParser creates a parser configured for the given language.
	NewParser(lang Language) (Parser, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Parser parses source code into a concrete syntax tree.
type Parser interface {
	Language() Language
	Parse(ctx context.Context, source []byte) (Tree, error)
	ParseString(ctx context.Context, source string) (Tree, error)
	Close() error
}

// Tree represents a parsed syntax tree.
type Tree interface {
	RootNode() Node

	// Source returns the original source code that was parsed.
	Source() []byte

	// HasError returns true if the tree contains any syntax errors.
	HasError() bool

	Close() error
}

// Node represents a node in the syntax tree.
type Node interface {
	// Type returns the grammar type of this node (e.g. "comment", "string").
	Type() string

	StartByte() uint32
	EndByte() uint32

	// StartPoint returns the (row, column) position where this node starts.
	// Backends that cannot report positions return the zero Point; use
	// StartByte when exact offsets matter.
	StartPoint() Point

	// Content extracts the source text for this node.
	Content(source []byte) string

	ChildCount() uint32
	Child(index uint32) Node
	NamedChildCount() uint32
	NamedChild(index uint32) Node

	IsError() bool
	IsMissing() bool
	IsNull() bool
}

// Point represents a 0-indexed (row, column) position; column is in bytes.
type Point struct {
	Row    uint32
	Column uint32
}
