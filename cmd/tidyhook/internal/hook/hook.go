// Package hook implements the editor's post-edit hook protocol.
//
// The editor writes one JSON object to stdin describing the tool call that
// just finished. For file-editing tools the hook runs the checker on the
// edited file and, when something changed or deserves attention, prints
// {"result": "<message>"} to stdout and exits with ExitFeedback. The
// editor shows the message without blocking. Anything unexpected exits
// with ExitOK and no output.
package hook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/checker"
	"github.com/albertocavalcante/tidyhook/internal/log"
)

// Exit codes understood by the editor.
const (
	ExitOK       = 0
	ExitFeedback = 2
)

// maxInput bounds how much of stdin is read.
const maxInput = 8 << 20

// editTools are the tool names whose calls modify a file.
var editTools = map[string]bool{
	"Edit":      true,
	"Write":     true,
	"MultiEdit": true,
}

var errNotJSON = errors.New("hook input is not valid JSON")

// Input is the part of the hook payload tidyhook reads.
type Input struct {
	ToolName string
	FilePath string
}

// ParseInput extracts the tool name and edited file from a hook payload.
func ParseInput(data []byte) (Input, error) {
	if !gjson.ValidBytes(data) {
		return Input{}, errNotJSON
	}
	res := gjson.GetManyBytes(data, "tool_name", "tool_input.file_path")
	return Input{
		ToolName: res[0].String(),
		FilePath: res[1].String(),
	}, nil
}

// IsEdit reports whether the payload describes a file edit.
func (in Input) IsEdit() bool {
	return editTools[in.ToolName] && in.FilePath != ""
}

// Checker is the subset of checker.Checker the hook drives.
type Checker interface {
	Check(ctx context.Context, path string) checker.Report
}

// Hook answers one hook invocation.
type Hook struct {
	checker   Checker
	workspace string
	stdout    io.Writer
	logger    *slog.Logger
}

// New creates a Hook that only acts on files inside workspace.
func New(c Checker, workspace string, stdout io.Writer) *Hook {
	return &Hook{
		checker:   c,
		workspace: workspace,
		stdout:    stdout,
		logger:    log.Component("hook"),
	}
}

// Run reads a payload from in and returns the process exit code.
func (h *Hook) Run(ctx context.Context, in io.Reader) int {
	data, err := io.ReadAll(io.LimitReader(in, maxInput))
	if err != nil {
		h.logger.Debug("reading hook input", "error", err)
		return ExitOK
	}

	input, err := ParseInput(data)
	if err != nil {
		h.logger.Debug("ignoring hook input", "error", err)
		return ExitOK
	}
	if !input.IsEdit() {
		h.logger.Debug("ignoring tool", "tool", input.ToolName)
		return ExitOK
	}

	path, ok := ResolveInWorkspace(input.FilePath, h.workspace)
	if !ok {
		h.logger.Debug("ignoring file", "path", input.FilePath, "workspace", h.workspace)
		return ExitOK
	}

	report := h.checker.Check(ctx, path)
	if !report.HasFeedback() {
		return ExitOK
	}

	if err := writeResult(h.stdout, report.Message()); err != nil {
		h.logger.Warn("writing hook result", "error", err)
		return ExitOK
	}
	return ExitFeedback
}

// ResolveInWorkspace resolves symlinks in path and reports whether the
// result is an existing regular file inside workspace (also resolved).
// Relative paths are taken relative to workspace.
func ResolveInWorkspace(path, workspace string) (string, bool) {
	ws, err := filepath.EvalSymlinks(workspace)
	if err != nil {
		return "", false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workspace, path)
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}

	rel, err := filepath.Rel(ws, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return resolved, true
}

func writeResult(w io.Writer, msg string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(struct {
		Result string `json:"result"`
	}{msg}); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}
