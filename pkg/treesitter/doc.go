// Package treesitter provides a pluggable abstraction over tree-sitter
// parsing backends: CGO-based (smacker/go-tree-sitter) and WASM/wazero-based
// (malivvan/tree-sitter).
//
// tidyhook uses it twice. Python comments are found exactly from the syntax
// tree, since '#' inside strings and docstrings defeat a line scanner. The
// C-style dialects are stripped heuristically, and their grammars are used
// to re-parse the result when syntax checking is enabled. Only the CGO
// backend carries those grammars; the wazero backend has C and C++ and
// reports ErrLanguageNotSupported for everything else.
//
// # Quick Start
//
//	backend, err := treesitter.NewBackendFromEnv(treesitter.BackendAuto)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	parser, err := backend.NewParser(treesitter.Python)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer parser.Close()
//
//	tree, err := parser.ParseString(context.Background(), "x = 1  # one\n")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tree.Close()
//
//	for _, c := range treesitter.FindByType(tree.RootNode(), "comment") {
//	    fmt.Println(c.Content(tree.Source())) // Output: # one
//	}
//
// # Backend Selection
//
//	export TIDYHOOK_TREESITTER_BACKEND=cgo    # CGO backend (default when available)
//	export TIDYHOOK_TREESITTER_BACKEND=wazero # WASM/wazero backend
//	export TIDYHOOK_TREESITTER_BACKEND=auto   # CGO first, then wazero
//
// # Thread Safety
//
// Backends are safe for concurrent use. Parsers are not; create one parser
// per goroutine.
package treesitter
