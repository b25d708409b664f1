// Package detect decides which files tidyhook processes and in which dialect.
//
// # Detection Algorithm
//
// Detection is based purely on paths, never file contents:
//
//  1. Skip files by extension, path segment, test naming or config file name
//  2. Skip files matching a configured strip.exclude glob
//  3. Map the extension to a dialect and skip disabled dialects
//
// The extension and skip tables live in the langs package.
package detect

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/langs"
	"github.com/albertocavalcante/tidyhook/pkg/comments"
	"github.com/albertocavalcante/tidyhook/pkg/config"
	"github.com/albertocavalcante/tidyhook/pkg/util"
)

// Reason explains why a file was skipped. The empty Reason means the file
// is processed.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonExcluded    Reason = "excluded file type/pattern"
	ReasonUnsupported Reason = "unsupported language"
	ReasonDisabled    Reason = "language disabled"
	ReasonGlob        Reason = "matched strip.exclude"
)

// Dialect returns the comment dialect for path from its extension.
func Dialect(path string) (comments.Dialect, bool) {
	lang, ok := langs.ForExtension(filepath.Ext(path))
	if !ok {
		return "", false
	}
	d, err := comments.ParseDialect(lang)
	if err != nil {
		return "", false
	}
	return d, true
}

// ShouldSkip applies the built-in skip rules: non-source extensions,
// generated or vendored path segments, test files and config files.
func ShouldSkip(path string) bool {
	name := filepath.Base(path)
	switch {
	case langs.SkipExtensions[filepath.Ext(name)]:
		return true
	case langs.HasSkipSegment(path):
		return true
	case langs.IsTestFile(name):
		return true
	case langs.ConfigFiles[name]:
		return true
	}
	return false
}

// Filter combines the built-in rules with configuration.
type Filter struct {
	root    string
	exclude []string
	enabled map[string]bool
}

// NewFilter returns a Filter for files under root. Exclude globs are
// matched against paths relative to root.
func NewFilter(root string, cfg *config.Config) *Filter {
	enabled := make(map[string]bool)
	for _, lang := range cfg.GetEnabledLanguages() {
		enabled[lang] = true
	}
	return &Filter{
		root:    root,
		exclude: cfg.Strip.Exclude,
		enabled: enabled,
	}
}

// Check returns the dialect of path, or the reason it is skipped. Skip
// segments are matched below root only, so a checkout living under a
// directory named "build" is still processed.
func (f *Filter) Check(path string) (comments.Dialect, Reason) {
	rel := f.relative(path)
	if ShouldSkip(rel) {
		return "", ReasonExcluded
	}
	if f.excluded(rel) {
		return "", ReasonGlob
	}
	d, ok := Dialect(path)
	if !ok {
		return "", ReasonUnsupported
	}
	if !f.enabled[string(d)] {
		return "", ReasonDisabled
	}
	return d, ReasonNone
}

func (f *Filter) relative(path string) string {
	if f.root == "" || !filepath.IsAbs(path) {
		return path
	}
	if r, err := filepath.Rel(f.root, path); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return path
}

func (f *Filter) excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range f.exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Files walks root and returns every file the filter accepts, with its
// dialect, in lexical order.
func (f *Filter) Files(root string) ([]File, error) {
	var files []File

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && langs.IsIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if dialect, reason := f.Check(path); reason == ReasonNone {
			files = append(files, File{Path: path, Dialect: dialect})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// File is a path accepted for processing.
type File struct {
	Path    string
	Dialect comments.Dialect
}

// Languages detects the dialects used in the given directory.
//
// The detection is based purely on file extensions, not file contents.
// Returns a sorted slice of dialect names (e.g., ["go", "python"]).
func Languages(root string) ([]string, error) {
	found := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && langs.IsIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if lang, ok := langs.ForExtension(filepath.Ext(path)); ok {
			found[lang] = true
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return util.SortedKeys(found), nil
}

// HasLanguage checks if a specific dialect is detected in the directory.
func HasLanguage(root, lang string) (bool, error) {
	langs, err := Languages(root)
	if err != nil {
		return false, err
	}
	return slices.Contains(langs, lang), nil
}
