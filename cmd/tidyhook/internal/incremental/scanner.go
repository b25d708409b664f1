package incremental

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/langs"
)

// ScanConfig configures the scanner.
type ScanConfig struct {
	Root      string
	Languages []string // nil = all languages
	// Accept, when set, replaces the extension filter. It receives the
	// absolute path of each regular file.
	Accept func(path string) bool
}

// Scanner builds an Index by walking the filesystem.
type Scanner struct {
	root   string
	accept func(path string) bool
}

// NewScanner creates a scanner with the given config.
func NewScanner(cfg ScanConfig) *Scanner {
	accept := cfg.Accept
	if accept == nil {
		extensions := langs.ExtensionSet(cfg.Languages)
		accept = func(path string) bool {
			return extensions[filepath.Ext(path)]
		}
	}
	return &Scanner{root: cfg.Root, accept: accept}
}

// Scan walks the filesystem and builds an Index with content hashes.
func (s *Scanner) Scan(ctx context.Context) (*Index, error) {
	return s.walk(ctx, true)
}

// ScanFast performs a fast scan that only records mtime/size without hashing.
func (s *Scanner) ScanFast(ctx context.Context) (*Index, error) {
	return s.walk(ctx, false)
}

func (s *Scanner) walk(ctx context.Context, hash bool) (*Index, error) {
	idx := NewIndex()

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.root && langs.IsIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !s.accept(path) {
			return nil
		}

		entry, err := s.entry(path, d, hash)
		if err != nil {
			return err
		}
		idx.Add(entry)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return idx, nil
}

func (s *Scanner) entry(path string, d fs.DirEntry, hash bool) (*Entry, error) {
	info, err := d.Info()
	if err != nil {
		return nil, err
	}

	relPath, err := filepath.Rel(s.root, path)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		Path:    filepath.ToSlash(relPath),
		ModTime: info.ModTime().UnixNano(),
		Size:    info.Size(),
	}
	if hash {
		if entry.Hash, err = HashFile(path); err != nil {
			return nil, err
		}
	}
	return entry, nil
}
