package incremental

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Tracker compares a workspace against its stored state.
type Tracker struct {
	store   *JSONStore
	scanner *Scanner
	root    string
	rules   string
}

// NewTracker creates a tracker for root. accept selects the tracked files
// (nil tracks every supported source extension). rules fingerprints the
// strip configuration; state recorded under other rules is stale.
func NewTracker(root string, accept func(path string) bool, rules string) *Tracker {
	return &Tracker{
		store:   NewJSONStore(root),
		scanner: NewScanner(ScanConfig{Root: root, Accept: accept}),
		root:    root,
		rules:   rules,
	}
}

// Status reports what changed since the state was recorded, without
// updating it. Only files whose mtime or size moved are hashed.
func (t *Tracker) Status(ctx context.Context) (*ChangeSet, error) {
	stored, err := t.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	current, err := t.scanner.ScanFast(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan workspace: %w", err)
	}
	return t.diff(stored, current), nil
}

func (t *Tracker) diff(stored, current *Index) *ChangeSet {
	cs := NewChangeSet()
	cs.RulesChanged = stored.Len() > 0 && stored.Rules != t.rules

	for path, now := range current.Entries {
		before, ok := stored.Entries[path]
		switch {
		case !ok:
			cs.Added = append(cs.Added, path)
		case cs.RulesChanged:
			cs.Modified = append(cs.Modified, path)
		case before.ModTime == now.ModTime && before.Size == now.Size:
		default:
			// An unreadable file counts as modified.
			if hash, err := HashFile(t.abs(path)); err != nil || hash != before.Hash {
				cs.Modified = append(cs.Modified, path)
			}
		}
	}
	for path := range stored.Entries {
		if _, ok := current.Entries[path]; !ok {
			cs.Deleted = append(cs.Deleted, path)
		}
	}

	cs.sort()
	return cs
}

// Refresh replaces the state with a full hashed scan under the current
// rules.
func (t *Tracker) Refresh(ctx context.Context) error {
	idx, err := t.scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan workspace: %w", err)
	}
	idx.Rules = t.rules
	if err := t.store.Save(idx); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Record updates the entries of the given files to their current content
// and leaves the rest of the state alone, including its rules. Paths may
// be absolute or relative to the root; missing files are dropped.
func (t *Tracker) Record(paths ...string) error {
	idx, err := t.store.Load()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if !t.store.Exists() {
		idx.Rules = t.rules
	}

	for _, p := range paths {
		rel, err := t.rel(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(t.abs(rel))
		if err != nil {
			idx.Remove(rel)
			continue
		}
		hash, err := HashFile(t.abs(rel))
		if err != nil {
			return err
		}
		idx.Add(&Entry{Path: rel, Hash: hash, ModTime: info.ModTime().UnixNano(), Size: info.Size()})
	}

	if err := t.store.Save(idx); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (t *Tracker) rel(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return filepath.ToSlash(p), nil
	}
	rel, err := filepath.Rel(t.root, p)
	if err != nil {
		return "", fmt.Errorf("%s is outside %s: %w", p, t.root, err)
	}
	return filepath.ToSlash(rel), nil
}

// Abs returns the absolute path of a tracked relative path.
func (t *Tracker) Abs(rel string) string {
	return t.abs(rel)
}

func (t *Tracker) abs(rel string) string {
	return filepath.Join(t.root, filepath.FromSlash(rel))
}

// HasState reports whether a state file exists.
func (t *Tracker) HasState() bool {
	return t.store.Exists()
}

// StatePath returns the location of the state file.
func (t *Tracker) StatePath() string {
	return t.store.Path()
}

// TrackedFileCount returns the number of files in the stored state, or 0
// when it cannot be read.
func (t *Tracker) TrackedFileCount() int {
	idx, err := t.store.Load()
	if err != nil {
		return 0
	}
	return idx.Len()
}
