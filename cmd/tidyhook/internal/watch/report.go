package watch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// ChangeType is the kind of file system change behind an event.
type ChangeType string

const (
	ChangeAdded    ChangeType = "+"
	ChangeModified ChangeType = "~"
	ChangeDeleted  ChangeType = "-"
)

// EventKind names a watch event in JSON output.
type EventKind string

const (
	EventReady       EventKind = "ready"
	EventFileChanged EventKind = "file_changed"
	EventStripped    EventKind = "stripped"
	EventSkipped     EventKind = "skipped"
	EventIgnored     EventKind = "ignored"
	EventError       EventKind = "error"
	EventShutdown    EventKind = "shutdown"
)

// Event is one line of --json output.
type Event struct {
	Kind     EventKind  `json:"event"`
	Time     string     `json:"time,omitempty"`
	Path     string     `json:"path,omitempty"`
	Change   ChangeType `json:"change,omitempty"`
	Reason   string     `json:"reason,omitempty"`
	Error    string     `json:"error,omitempty"`
	Dialects []string   `json:"dialects,omitempty"`
	Files    *int       `json:"files,omitempty"`
	Comments *int       `json:"comments,omitempty"`
	Skipped  *int       `json:"skipped,omitempty"`
	Errors   *int       `json:"errors,omitempty"`
	Duration string     `json:"duration,omitempty"`
}

// Session counts what a watch session did.
type Session struct {
	Started  time.Time
	Files    int // files rewritten
	Comments int // comments removed
	Skipped  int // files left alone on purpose
	Errors   int
}

// Reporter prints watch events for a terminal or, with JSON set, as one
// JSON object per line.
type Reporter struct {
	w       io.Writer
	color   bool
	verbose bool
	json    bool

	mu      sync.Mutex
	session Session
}

// ReporterOptions configures a Reporter.
type ReporterOptions struct {
	Verbose bool // also print changes and skipped files
	NoColor bool
	JSON    bool
}

// NewReporter writes to w, stdout when nil. Color is used only when w is a
// terminal.
func NewReporter(w io.Writer, opts ReporterOptions) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &Reporter{
		w:       w,
		color:   tty && !opts.NoColor,
		verbose: opts.Verbose,
		json:    opts.JSON,
		session: Session{Started: time.Now()},
	}
}

// Ready announces the watched tree.
func (r *Reporter) Ready(files int, dialects []string, root string) {
	if r.json {
		r.emit(Event{Kind: EventReady, Path: root, Dialects: dialects, Files: &files})
		return
	}
	r.printf("tidyhook: watching %d files in %s\n", files, root)
	if len(dialects) > 0 {
		r.printf("tidyhook: dialects: %s\n", strings.Join(dialects, ", "))
	}
	r.printf("tidyhook: ready\n\n")
}

// FileChanged reports a file event; text output shows it only when verbose.
func (r *Reporter) FileChanged(path string, change ChangeType) {
	if r.json {
		r.emit(Event{Kind: EventFileChanged, Time: now(), Path: path, Change: change})
		return
	}
	if r.verbose {
		r.line(r.paint(string(change), change), path)
	}
}

// Stripped reports a rewritten file.
func (r *Reporter) Stripped(path string, comments int) {
	r.count(func(s *Session) {
		s.Files++
		s.Comments += comments
	})
	if r.json {
		r.emit(Event{Kind: EventStripped, Time: now(), Path: path, Comments: &comments})
		return
	}
	r.line(r.paint("✓", ChangeAdded), fmt.Sprintf("%s: stripped %d comment(s)", path, comments))
}

// Skipped reports a file the stripper declined to rewrite; text output
// shows it only when verbose.
func (r *Reporter) Skipped(path, reason string) {
	r.count(func(s *Session) { s.Skipped++ })
	r.passOver(EventSkipped, path, reason)
}

// Ignored reports an event for a file the skip rules exclude. It is not
// counted.
func (r *Reporter) Ignored(path, reason string) {
	r.passOver(EventIgnored, path, reason)
}

func (r *Reporter) passOver(kind EventKind, path, reason string) {
	if r.json {
		r.emit(Event{Kind: kind, Path: path, Reason: reason})
		return
	}
	if r.verbose {
		r.line(" ", fmt.Sprintf("%s %s (%s)", path, kind, reason))
	}
}

// Error reports a failure that did not stop the session.
func (r *Reporter) Error(err error) {
	r.count(func(s *Session) { s.Errors++ })
	if r.json {
		r.emit(Event{Kind: EventError, Time: now(), Error: err.Error()})
		return
	}
	r.line(r.paint("✗", ChangeDeleted), "error: "+err.Error())
}

// Shutdown prints the session totals.
func (r *Reporter) Shutdown() {
	s := r.Session()
	if r.json {
		r.emit(Event{
			Kind:     EventShutdown,
			Files:    &s.Files,
			Comments: &s.Comments,
			Skipped:  &s.Skipped,
			Errors:   &s.Errors,
			Duration: time.Since(s.Started).Round(time.Millisecond).String(),
		})
		return
	}
	r.printf("\ntidyhook: shutting down (%d files, %d comments stripped, %d skipped, %d errors)\n",
		s.Files, s.Comments, s.Skipped, s.Errors)
}

// Session returns a snapshot of the counters.
func (r *Reporter) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

func (r *Reporter) count(f func(*Session)) {
	r.mu.Lock()
	f(&r.session)
	r.mu.Unlock()
}

func (r *Reporter) emit(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		data = []byte(`{"event":"error","error":"encode event"}`)
	}
	r.printf("%s\n", data)
}

func (r *Reporter) line(mark, msg string) {
	r.printf("[%s] %s %s\n", time.Now().Format("15:04:05"), mark, msg)
}

func (r *Reporter) paint(s string, change ChangeType) string {
	if !r.color {
		return s
	}
	code := map[ChangeType]string{ChangeAdded: "32", ChangeModified: "33", ChangeDeleted: "31"}[change]
	if code == "" {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// printf drops write errors; watch output is informational.
func (r *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func now() string {
	return time.Now().Format(time.RFC3339)
}
