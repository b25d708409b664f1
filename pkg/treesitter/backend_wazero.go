package treesitter

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/malivvan/tree-sitter"
)

// wazeroBackend implements Backend using malivvan/tree-sitter running in
// wazero. It needs no CGO but only carries the C and C++ grammars: none of
// the comment dialects can be tokenized or syntax checked with it, so a
// CGO_ENABLED=0 build still runs with those features reporting unsupported.
type wazeroBackend struct {
	mu        sync.RWMutex
	ctx       context.Context
	ts        sitter.TreeSitter
	closed    bool
	languages map[Language]sitter.Language
}

// NewWazeroBackend creates a new WASM/wazero-based tree-sitter backend.
func NewWazeroBackend() (Backend, error) {
	ctx := context.Background()
	ts, err := sitter.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init wazero tree-sitter runtime: %w", err)
	}

	b := &wazeroBackend{ctx: ctx, ts: ts, languages: make(map[Language]sitter.Language)}
	if lang, err := ts.LanguageC(ctx); err == nil {
		b.languages[C] = lang
	}
	if lang, err := ts.LanguageCpp(ctx); err == nil {
		b.languages[Cpp] = lang
	}
	return b, nil
}

func (b *wazeroBackend) Name() string {
	return "wazero"
}

func (b *wazeroBackend) IsExperimental() bool {
	return true
}

func (b *wazeroBackend) SupportedLanguages() []Language {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var langs []Language
	for _, lang := range AllLanguages() {
		if _, ok := b.languages[lang]; ok {
			langs = append(langs, lang)
		}
	}
	return langs
}

func (b *wazeroBackend) SupportsLanguage(lang Language) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.languages[lang]
	return ok
}

func (b *wazeroBackend) NewParser(lang Language) (Parser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, ErrBackendClosed{Backend: b.Name()}
	}
	grammar, ok := b.languages[lang]
	if !ok {
		return nil, ErrLanguageNotSupported{Language: lang, Backend: b.Name()}
	}

	parser, err := b.ts.NewParser(b.ctx)
	if err != nil {
		return nil, fmt.Errorf("create parser: %w", err)
	}
	if err := parser.SetLanguage(b.ctx, grammar); err != nil {
		_ = parser.Close(b.ctx)
		return nil, fmt.Errorf("set language %s: %w", lang, err)
	}
	return &wazeroParser{ctx: b.ctx, parser: parser, lang: lang}, nil
}

func (b *wazeroBackend) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

type wazeroParser struct {
	mu     sync.Mutex
	ctx    context.Context
	parser sitter.Parser
	lang   Language
	closed bool
}

func (p *wazeroParser) Language() Language {
	return p.lang
}

func (p *wazeroParser) Parse(ctx context.Context, source []byte) (Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrParserClosed{}
	}
	tree, err := p.parser.ParseString(ctx, string(source))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.lang, err)
	}
	return &wazeroTree{ctx: ctx, tree: tree, source: source}, nil
}

func (p *wazeroParser) ParseString(ctx context.Context, source string) (Tree, error) {
	return p.Parse(ctx, []byte(source))
}

func (p *wazeroParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.parser.Close(p.ctx)
}

type wazeroTree struct {
	ctx    context.Context
	tree   sitter.Tree
	source []byte
}

func (t *wazeroTree) RootNode() Node {
	node, err := t.tree.RootNode(t.ctx)
	if err != nil {
		return &wazeroNode{ctx: t.ctx, null: true}
	}
	return &wazeroNode{ctx: t.ctx, node: node}
}

func (t *wazeroTree) Source() []byte {
	return t.source
}

func (t *wazeroTree) HasError() bool {
	return HasErrors(t.RootNode())
}

func (t *wazeroTree) Close() error {
	return nil
}

// orZero drops the error of a wasm call; a failed call reads as the zero
// value, the same as a null node.
func orZero[T any](v T, err error) T {
	if err != nil {
		var zero T
		return zero
	}
	return v
}

type wazeroNode struct {
	ctx  context.Context
	node sitter.Node
	null bool
}

func (n *wazeroNode) child(c sitter.Node, err error) Node {
	if err != nil {
		return nil
	}
	return &wazeroNode{ctx: n.ctx, node: c}
}

func (n *wazeroNode) Type() string {
	if n.null {
		return ""
	}
	return orZero(n.node.Kind(n.ctx))
}

func (n *wazeroNode) StartByte() uint32 {
	if n.null {
		return 0
	}
	return uint32(orZero(n.node.StartByte(n.ctx)))
}

func (n *wazeroNode) EndByte() uint32 {
	if n.null {
		return 0
	}
	return uint32(orZero(n.node.EndByte(n.ctx)))
}

// StartPoint is not exposed by the wazero bindings.
func (n *wazeroNode) StartPoint() Point {
	return Point{}
}

func (n *wazeroNode) Content(source []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if n.null || start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

func (n *wazeroNode) ChildCount() uint32 {
	if n.null {
		return 0
	}
	return uint32(orZero(n.node.ChildCount(n.ctx)))
}

func (n *wazeroNode) Child(index uint32) Node {
	if n.null || index >= n.ChildCount() {
		return nil
	}
	return n.child(n.node.Child(n.ctx, uint64(index)))
}

func (n *wazeroNode) NamedChildCount() uint32 {
	if n.null {
		return 0
	}
	return uint32(orZero(n.node.NamedChildCount(n.ctx)))
}

func (n *wazeroNode) NamedChild(index uint32) Node {
	if n.null || index >= n.NamedChildCount() {
		return nil
	}
	return n.child(n.node.NamedChild(n.ctx, uint64(index)))
}

func (n *wazeroNode) IsError() bool {
	if n.null {
		return false
	}
	return orZero(n.node.IsError(n.ctx))
}

func (n *wazeroNode) IsMissing() bool {
	return false
}

func (n *wazeroNode) IsNull() bool {
	return n.null
}
