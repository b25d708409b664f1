package incremental

import "slices"

// ChangeSet lists the tracked files that differ from the stored state.
type ChangeSet struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Deleted  []string `json:"deleted"`

	// RulesChanged is set when the state was recorded under different
	// strip rules. Every existing file is then listed as added or modified.
	RulesChanged bool `json:"rules_changed,omitempty"`
}

// NewChangeSet creates an empty ChangeSet.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{Added: []string{}, Modified: []string{}, Deleted: []string{}}
}

// IsEmpty reports whether nothing changed.
func (cs *ChangeSet) IsEmpty() bool {
	return cs == nil || len(cs.Added)+len(cs.Modified)+len(cs.Deleted) == 0
}

// Changed returns the sorted paths that exist and differ from the stored
// state: added plus modified files.
func (cs *ChangeSet) Changed() []string {
	if cs == nil {
		return nil
	}
	out := slices.Concat(cs.Added, cs.Modified)
	slices.Sort(out)
	return out
}

func (cs *ChangeSet) sort() {
	slices.Sort(cs.Added)
	slices.Sort(cs.Modified)
	slices.Sort(cs.Deleted)
}
