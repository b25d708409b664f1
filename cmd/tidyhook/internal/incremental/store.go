package incremental

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// State lives in <workspace>/.tidyhook/state.json, next to the optional
// project config.
const (
	stateDir  = ".tidyhook"
	stateFile = "state.json"
)

// JSONStore persists an Index as indented JSON.
type JSONStore struct {
	dir  string
	path string
}

// NewJSONStore returns the store of a workspace.
func NewJSONStore(workspaceRoot string) *JSONStore {
	dir := filepath.Join(workspaceRoot, stateDir)
	return &JSONStore{dir: dir, path: filepath.Join(dir, stateFile)}
}

// Load reads the stored index. A missing state file yields an empty index.
func (s *JSONStore) Load() (*Index, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewIndex(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	idx := NewIndex()
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", s.path, err)
	}
	if idx.Version > IndexVersion {
		return nil, fmt.Errorf("state %s has version %d, this tidyhook reads up to %d", s.path, idx.Version, IndexVersion)
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]*Entry)
	}
	return idx, nil
}

// Save replaces the stored index through a temporary file and rename, so a
// crash never leaves a truncated state behind.
func (s *JSONStore) Save(idx *Index) error {
	if idx == nil {
		return errors.New("save state: nil index")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	idx.Version = IndexVersion
	idx.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// Path returns the state file location.
func (s *JSONStore) Path() string {
	return s.path
}

// Exists reports whether a state file has been written.
func (s *JSONStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Clear removes the state directory.
func (s *JSONStore) Clear() error {
	return os.RemoveAll(s.dir)
}
