package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// EnvLogFile names a file that receives log output instead of stderr.
const EnvLogFile = "TIDYHOOK_LOG_FILE"

var (
	logger    atomic.Pointer[slog.Logger]
	level     = new(slog.LevelVar)
	verbosity atomic.Int32
)

func init() {
	// Warnings only until Init runs.
	SetVerbosity(VerbosityWarn)
	logger.Store(slog.New(newHandler(os.Stderr, level, FormatText)))
}

// Init points the global logger at stderr. An unknown format falls back to
// text.
func Init(v int, format string) {
	InitWithOutput(v, format, os.Stderr)
}

// InitWithOutput is Init with an explicit destination.
func InitWithOutput(v int, format string, w io.Writer) {
	f, _ := ParseFormat(format)
	install(v, slog.New(newHandler(w, level, f)))
}

// InitFile is Init appending to the file at path, created if needed. Every
// record carries the process id, since concurrent hook runs share the
// file. The caller closes the returned file once logging is done.
func InitFile(v int, format, path string) (io.Closer, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	f, _ := ParseFormat(format)
	install(v, slog.New(newHandler(file, level, f)).With("pid", os.Getpid()))
	return file, nil
}

func install(v int, l *slog.Logger) {
	SetVerbosity(v)
	logger.Store(l)
	slog.SetDefault(l)
}

// SetVerbosity changes verbosity at runtime.
func SetVerbosity(v int) {
	verbosity.Store(int32(v))
	level.Set(VerbosityToLevel(v))
}

// Verbosity returns the current verbosity level.
func Verbosity() int {
	return int(verbosity.Load())
}

// Error logs at error level (v=0).
func Error(msg string, args ...any) {
	logger.Load().Error(msg, args...)
}

// Warn logs at warn level (v=1).
func Warn(msg string, args ...any) {
	logger.Load().Warn(msg, args...)
}

// Info logs at info level (v=2).
func Info(msg string, args ...any) {
	logger.Load().Info(msg, args...)
}

// Debug logs at debug level (v=3).
func Debug(msg string, args ...any) {
	logger.Load().Debug(msg, args...)
}

// Trace logs at trace level (v=4).
func Trace(msg string, args ...any) {
	logger.Load().Log(context.Background(), LevelTrace, msg, args...)
}

// Component returns a logger tagged with a component name.
func Component(name string) *slog.Logger {
	return logger.Load().With("component", name)
}
