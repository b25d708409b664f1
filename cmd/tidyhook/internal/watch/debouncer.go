// Package watch strips comments from source files as they are saved.
package watch

import (
	"sync"
	"time"

	"github.com/albertocavalcante/tidyhook/pkg/util"
)

// MaxPendingFiles is the maximum number of files that can be pending.
// Reaching it triggers an immediate flush.
const MaxPendingFiles = 1000

// Debouncer coalesces rapid file change events into batches. Editors and
// formatters often write the same file several times within a few
// milliseconds; only the last write of a burst matters.
type Debouncer struct {
	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	window  time.Duration
	onFlush func(files []string)
	stopped bool
}

// NewDebouncer creates a debouncer with the given window duration.
// onFlush receives the sorted batch once the window expires with no new events.
func NewDebouncer(window time.Duration, onFlush func(files []string)) *Debouncer {
	return &Debouncer{
		pending: make(map[string]struct{}),
		window:  window,
		onFlush: onFlush,
	}
}

// Add records a change to path. Repeated paths within a window are coalesced.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[path] = struct{}{}

	if len(d.pending) >= MaxPendingFiles {
		if d.timer != nil {
			d.timer.Stop()
			d.timer = nil
		}
		d.flushLocked()
		return
	}

	// A fired timer may already have flush queued; flush exits early when
	// nothing is pending.
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushLocked()
}

// flushLocked runs the handler without holding d.mu. Caller must hold d.mu.
func (d *Debouncer) flushLocked() {
	if d.stopped || len(d.pending) == 0 {
		return
	}

	files := d.takeLocked()

	d.mu.Unlock()
	if d.onFlush != nil {
		d.onFlush(files)
	}
	d.mu.Lock()
}

// takeLocked drains the pending set. Caller must hold d.mu.
func (d *Debouncer) takeLocked() []string {
	files := util.SortedKeys(d.pending)
	d.pending = make(map[string]struct{})
	return files
}

// FlushNow flushes pending files without waiting for the timer.
func (d *Debouncer) FlushNow() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	files := d.takeLocked()
	d.mu.Unlock()

	if d.onFlush != nil {
		d.onFlush(files)
	}
}

// Stop stops the debouncer. Pending files are flushed once; later Adds are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	files := d.takeLocked()
	d.mu.Unlock()

	if len(files) > 0 && d.onFlush != nil {
		d.onFlush(files)
	}
}

// PendingCount returns the number of files waiting to be flushed.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
