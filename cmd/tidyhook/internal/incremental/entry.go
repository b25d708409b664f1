// Package incremental remembers file content hashes between runs so that
// `tidyhook strip --changed` only touches files edited since the last run,
// and so the watcher can recognise its own writes.
package incremental

// Entry represents a single file's metadata and content hash.
type Entry struct {
	Path    string `json:"path"`
	Hash    string `json:"hash"`     // xxHash64 hex
	ModTime int64  `json:"mtime_ns"` // UnixNano
	Size    int64  `json:"size"`
}
