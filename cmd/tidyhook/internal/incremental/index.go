package incremental

import "time"

// IndexVersion is the current version of the state format.
const IndexVersion = 2

// Index is a snapshot of tracked files, keyed by slash-separated path
// relative to the workspace root.
type Index struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	// Rules fingerprints the configuration the files were stripped under.
	Rules   string            `json:"rules,omitempty"`
	Entries map[string]*Entry `json:"entries"`
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		Version:   IndexVersion,
		UpdatedAt: time.Now(),
		Entries:   make(map[string]*Entry),
	}
}

// Add adds or replaces the entry for e.Path.
func (idx *Index) Add(e *Entry) {
	if idx == nil || e == nil {
		return
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]*Entry)
	}
	idx.Entries[e.Path] = e
}

// Get returns the entry for path.
func (idx *Index) Get(path string) (*Entry, bool) {
	if idx == nil {
		return nil, false
	}
	e, ok := idx.Entries[path]
	return e, ok
}

// Remove deletes the entry for path, if any.
func (idx *Index) Remove(path string) {
	if idx != nil {
		delete(idx.Entries, path)
	}
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Entries)
}
