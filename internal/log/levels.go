// Package log provides structured logging with verbosity levels for tidyhook.
// It wraps log/slog and follows kubectl/klog style -v=N verbosity.
//
// Output goes to stderr, or to the file named by TIDYHOOK_LOG_FILE. Never
// stdout: in hook mode it carries the JSON reply read by the editor.
package log

import "log/slog"

// LevelTrace is a custom trace level (more verbose than debug).
const LevelTrace = slog.Level(-8)

const (
	VerbosityError = 0 // errors only
	VerbosityWarn  = 1 // skipped files, fallbacks
	VerbosityInfo  = 2 // config loaded, files stripped, summaries
	VerbosityDebug = 3 // per-file decisions, tool runs
	VerbosityTrace = 4 // per-comment classification
)

// VerbosityToLevel maps -v=N to a slog level.
func VerbosityToLevel(v int) slog.Level {
	switch {
	case v <= VerbosityError:
		return slog.LevelError
	case v == VerbosityWarn:
		return slog.LevelWarn
	case v == VerbosityInfo:
		return slog.LevelInfo
	case v == VerbosityDebug:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// LevelName returns the name for a level, including custom levels.
func LevelName(l slog.Level) string {
	if l == LevelTrace {
		return "TRACE"
	}
	return l.String()
}
