package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/detect"
	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/incremental"
	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/langs"
	"github.com/albertocavalcante/tidyhook/internal/log"
	"github.com/albertocavalcante/tidyhook/pkg/comments"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// Config configures the watcher.
type Config struct {
	Root     string
	Filter   *detect.Filter
	Stripper *comments.Stripper
	Dialects []string // shown in the ready message
	Rules    string   // strip rules fingerprint, see incremental.NewTracker
	Debounce int      // debounce window in milliseconds
	Verbose  bool
	NoColor  bool
	JSON     bool
	Writer   io.Writer // defaults to stdout
}

// Watcher strips comments from files as they are saved.
type Watcher struct {
	config     Config
	fsWatcher  *fsnotify.Watcher
	tracker    *incremental.Tracker
	debouncer  *Debouncer
	report     *Reporter
	ignoreDirs map[string]bool

	// stripMu serializes flushes; written holds the content hash of each
	// file this watcher rewrote, so the resulting write event is ignored.
	stripMu sync.Mutex
	written map[string]string
}

// New creates a new watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Filter == nil || cfg.Stripper == nil {
		return nil, errors.New("watch: filter and stripper are required")
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cfg.Root, err)
	}
	cfg.Root = root

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	filter := cfg.Filter
	accept := func(path string) bool {
		_, reason := filter.Check(path)
		return reason == detect.ReasonNone
	}

	return &Watcher{
		config:    cfg,
		fsWatcher: fsWatcher,
		tracker:   incremental.NewTracker(root, accept, cfg.Rules),
		report: NewReporter(cfg.Writer, ReporterOptions{
			Verbose: cfg.Verbose,
			NoColor: cfg.NoColor,
			JSON:    cfg.JSON,
		}),
		ignoreDirs: langs.IgnoreDirSet(nil),
		written:    make(map[string]string),
	}, nil
}

// Run starts the watch loop. It blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	window := time.Duration(w.config.Debounce) * time.Millisecond
	if window <= 0 {
		window = DefaultDebounce
	}
	w.debouncer = NewDebouncer(window, w.handleChangedFiles)
	defer w.debouncer.Stop()

	if err := w.addRecursive(w.config.Root); err != nil {
		return fmt.Errorf("failed to watch workspace: %w", err)
	}

	// Only files stripped here are recorded, so a later `strip --changed`
	// still visits everything the watcher never saw.
	files, err := w.config.Filter.Files(w.config.Root)
	if err != nil {
		w.report.Error(fmt.Errorf("failed to list files: %w", err))
	}
	w.report.Ready(len(files), w.config.Dialects, w.config.Root)

	for {
		select {
		case <-ctx.Done():
			w.report.Shutdown()
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.report.Error(err)
		}
	}
}

// Session returns the counters of the current session.
func (w *Watcher) Session() Session {
	return w.report.Session()
}

// addRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				if w.config.Verbose {
					w.report.Error(fmt.Errorf("permission denied: %s", path))
				}
				return nil
			}
			w.report.Error(fmt.Errorf("walk error at %s: %w", path, err))
			return nil
		}

		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(d.Name()) {
			return filepath.SkipDir
		}

		if err := w.fsWatcher.Add(path); err != nil {
			if isWatchLimitError(err) {
				return fmt.Errorf("%w at %s: %w\n"+
					"Increase limit with: sudo sysctl fs.inotify.max_user_watches=524288",
					ErrWatchLimitReached, path, err)
			}
			if w.config.Verbose {
				w.report.Error(fmt.Errorf("failed to watch %s: %w", path, err))
			}
		}
		return nil
	})
}

func (w *Watcher) ignored(name string) bool {
	for prefix := range w.ignoreDirs {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// isWatchLimitError checks if an error is due to inotify watch limits.
func isWatchLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "no space left on device") ||
		strings.Contains(errStr, "too many open files")
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.ignored(filepath.Base(path)) {
				return
			}
			if err := w.addRecursive(path); err != nil {
				w.report.Error(fmt.Errorf("failed to watch new directory %s: %w", path, err))
			}
			return
		}
	}

	var change ChangeType
	switch {
	case event.Has(fsnotify.Create):
		change = ChangeAdded
	case event.Has(fsnotify.Write):
		change = ChangeModified
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		change = ChangeDeleted
	default:
		return
	}

	if _, reason := w.config.Filter.Check(path); reason != detect.ReasonNone {
		if reason != detect.ReasonUnsupported {
			w.report.Ignored(w.rel(path), string(reason))
		}
		return
	}

	w.report.FileChanged(w.rel(path), change)
	w.debouncer.Add(path)
}

// handleChangedFiles strips every file of a flushed batch and records the
// results in the tracker state.
func (w *Watcher) handleChangedFiles(files []string) {
	if len(files) == 0 {
		return
	}

	w.stripMu.Lock()
	defer w.stripMu.Unlock()

	ctx := context.Background()
	for _, path := range files {
		w.stripOne(ctx, path)
	}

	if err := w.tracker.Record(files...); err != nil {
		w.report.Error(fmt.Errorf("failed to update state: %w", err))
	}
}

func (w *Watcher) stripOne(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		delete(w.written, path)
		return
	}
	if err != nil {
		w.report.Error(err)
		return
	}
	if w.written[path] == incremental.HashBytes(data) {
		log.Component("watch").Debug("ignoring own write", "path", path)
		return
	}

	d, reason := w.config.Filter.Check(path)
	if reason != detect.ReasonNone {
		return
	}

	out, err := w.config.Stripper.StripFileE(ctx, path, d)
	switch {
	case comments.Skippable(err):
		w.report.Skipped(w.rel(path), err.Error())
		return
	case err != nil:
		w.report.Error(err)
		return
	case !out.Modified:
		return
	}

	if hash, err := incremental.HashFile(path); err == nil {
		w.written[path] = hash
	}
	w.report.Stripped(w.rel(path), out.Stripped)
}

// rel returns path relative to the watched root for display.
func (w *Watcher) rel(path string) string {
	if r, err := filepath.Rel(w.config.Root, path); err == nil && !strings.HasPrefix(r, "..") {
		return filepath.ToSlash(r)
	}
	return path
}

// Close closes the watcher and releases resources.
func (w *Watcher) Close() error {
	if w.fsWatcher != nil {
		return w.fsWatcher.Close()
	}
	return nil
}

// ErrWatchLimitReached is returned when the OS watch limit is exceeded.
var ErrWatchLimitReached = errors.New("filesystem watch limit reached")
