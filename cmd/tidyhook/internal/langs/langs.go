// Package langs provides shared language configuration for tidyhook.
//
// # Single Source of Truth
//
// This package defines the mapping between dialect names and file
// extensions, and the skip rules that keep the hook away from generated,
// vendored, test and configuration files. Components that need to identify
// source files should use this package rather than defining their own
// lists.
//
// # Usage
//
//	exts := langs.ExtensionSet([]string{"go", "rust"})
//	if exts[filepath.Ext(file)] {
//	    // file is a Go or Rust source file
//	}
package langs

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/albertocavalcante/tidyhook/pkg/util"
)

// Extensions maps dialect names to their file extensions.
//
// JavaScript files share the TypeScript comment grammar and are listed
// under "typescript".
var Extensions = map[string][]string{
	"python":     {".py", ".pyi"},
	"typescript": {".ts", ".tsx", ".js", ".jsx", ".mts", ".cts", ".mjs", ".cjs"},
	"swift":      {".swift"},
	"rust":       {".rs"},
	"go":         {".go"},
}

// SkipExtensions are never processed even if a dialect claims them.
var SkipExtensions = map[string]bool{
	".md": true, ".json": true, ".yaml": true, ".yml": true, ".toml": true,
	".ini": true, ".cfg": true, ".lock": true, ".txt": true, ".csv": true,
	".svg": true, ".png": true, ".jpg": true, ".gif": true, ".ico": true,
	".woff": true, ".woff2": true, ".eot": true, ".ttf": true, ".map": true,
	".html": true, ".css": true, ".scss": true, ".less": true,
}

// SkipSegments are path components that mark generated, vendored or
// fixture trees.
var SkipSegments = map[string]bool{
	"migrations":   true,
	"fixtures":     true,
	"__mocks__":    true,
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	".next":        true,
	"__pycache__":  true,
	"vendor":       true,
	".venv":        true,
	"venv":         true,
	".tidyhook":    true,
}

// ConfigFiles are project configuration files left alone by name.
var ConfigFiles = map[string]bool{
	"package.json":     true,
	"tsconfig.json":    true,
	"Cargo.toml":       true,
	"pyproject.toml":   true,
	"go.mod":           true,
	"go.sum":           true,
	".eslintrc.json":   true,
	".prettierrc":      true,
	"jest.config.ts":   true,
	"vitest.config.ts": true,
	"ruff.toml":        true,
	"setup.py":         true,
	"setup.cfg":        true,
}

// IgnoredDirs contains directory prefixes to skip while walking a tree.
//
// Prefix matching means "." matches every hidden directory.
var IgnoredDirs = []string{
	".",
	"node_modules",
	"__pycache__",
	"vendor",
	"target",
	"build",
	"dist",
	"venv",
}

// ForExtension returns the dialect name owning ext, matched case-insensitively.
func ForExtension(ext string) (string, bool) {
	ext = strings.ToLower(ext)
	if SkipExtensions[ext] {
		return "", false
	}
	for lang, exts := range Extensions {
		for _, e := range exts {
			if e == ext {
				return lang, true
			}
		}
	}
	return "", false
}

// IsTestFile reports whether name follows a test file convention:
// test_x.py, x_test.go, x.test.ts or x.spec.ts.
func IsTestFile(name string) bool {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasPrefix(stem, "test_") ||
		strings.HasSuffix(stem, "_test") ||
		strings.Contains(name, ".test.") ||
		strings.Contains(name, ".spec.")
}

// HasSkipSegment reports whether any component of path is a skip segment.
func HasSkipSegment(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if SkipSegments[part] {
			return true
		}
	}
	return false
}

// ExtensionSet returns a set of all extensions for the given languages.
//
// If languages is nil or empty, returns all known extensions.
func ExtensionSet(languages []string) map[string]bool {
	if len(languages) == 0 {
		return util.SetOf(slices.Collect(maps.Values(Extensions))...)
	}
	lists := make([][]string, 0, len(languages))
	for _, lang := range languages {
		lists = append(lists, Extensions[lang])
	}
	return util.SetOf(lists...)
}

// IgnoreDirSet returns a set of ignored directory prefixes,
// combining defaults with any additional patterns.
func IgnoreDirSet(additional []string) map[string]bool {
	return util.SetOf(IgnoredDirs, additional)
}

// IsIgnoredDir reports whether a directory name matches an ignored prefix.
func IsIgnoredDir(name string) bool {
	for _, prefix := range IgnoredDirs {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
