// Package runner finds and executes the external formatters and linters
// tidyhook applies to an edited file.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/albertocavalcante/tidyhook/pkg/registry"
)

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 15 * time.Second

var (
	// ErrToolNotFound is returned when a tool binary cannot be located.
	ErrToolNotFound = errors.New("tool binary not found")
	// ErrTimeout is returned when a tool exceeds the runner's timeout.
	ErrTimeout = errors.New("tool timed out")
)

// Runner handles finding and executing tool binaries.
type Runner struct {
	executablePath string // Path to tidyhook executable (for finding siblings)
	workDir        string
	timeout        time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutablePath sets the path to the tidyhook executable.
// Used primarily for testing.
func WithExecutablePath(path string) Option {
	return func(r *Runner) {
		r.executablePath = path
	}
}

// WithWorkDir sets the project directory searched for local tool installs
// and used as the working directory of every invocation.
func WithWorkDir(dir string) Option {
	return func(r *Runner) {
		r.workDir = dir
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// New creates a new Runner with the given options.
func New(opts ...Option) *Runner {
	r := &Runner{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Find locates a tool binary using the following search order:
// 1. Project-local installs (node_modules/.bin, .venv/bin) in the work dir
// 2. Sibling binary next to tidyhook
// 3. PATH lookup
func (r *Runner) Find(name string) (string, error) {
	if path := r.findLocal(name); path != "" {
		return path, nil
	}

	if path := r.findSibling(name); path != "" {
		return path, nil
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
}

// Available reports whether Find would succeed.
func (r *Runner) Available(name string) bool {
	_, err := r.Find(name)
	return err == nil
}

// findLocal looks for the tool in project-local tool directories.
func (r *Runner) findLocal(name string) string {
	if r.workDir == "" {
		return ""
	}
	candidates := []string{
		filepath.Join(r.workDir, "node_modules", ".bin", name),
		filepath.Join(r.workDir, ".venv", "bin", name),
	}
	for _, candidate := range candidates {
		if isExecutable(candidate) {
			return candidate
		}
	}
	return ""
}

// findSibling looks for the tool next to the tidyhook binary.
func (r *Runner) findSibling(name string) string {
	exe := r.executablePath
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return ""
		}
	}
	sibling := filepath.Join(filepath.Dir(exe), name)
	if isExecutable(sibling) {
		return sibling
	}
	return ""
}

// Result is the outcome of one tool invocation.
type Result struct {
	Path string
	// Dir is the working directory the tool ran in.
	Dir      string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Success reports a zero exit status.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Call is a single tool invocation.
type Call struct {
	Tool registry.Tool
	// File is appended to the tool's arguments when set.
	File string
	// Dir overrides the runner's work dir.
	Dir string
	// Timeout overrides the runner's timeout.
	Timeout time.Duration
}

// Run executes tool on file and waits for it to finish. A non-zero exit is
// reported in Result, not as an error; errors mean the tool could not be
// found, started or finished in time.
func (r *Runner) Run(ctx context.Context, tool registry.Tool, file string) (Result, error) {
	return r.Exec(ctx, Call{Tool: tool, File: file})
}

// Exec is Run with per-call overrides.
func (r *Runner) Exec(ctx context.Context, c Call) (Result, error) {
	name, args := c.Tool.Command(c.File)
	path, err := r.Find(name)
	if err != nil {
		return Result{}, err
	}

	dir := r.workDir
	if c.Dir != "" {
		dir = c.Dir
	}
	timeout := r.timeout
	if c.Timeout > 0 {
		timeout = c.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	err = cmd.Run()
	res := Result{
		Path:     path,
		Dir:      dir,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if ctx.Err() == context.DeadlineExceeded {
		return res, fmt.Errorf("%w: %s after %s", ErrTimeout, name, timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return res, nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
