// Package checker runs the post-edit pipeline on one file: format, lint,
// strip noise comments, then warn when the file has grown too long.
//
// Every step degrades gracefully. A missing tool, a failed tool or a file
// the stripper cannot handle simply contributes nothing to the report.
package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/detect"
	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/runner"
	"github.com/albertocavalcante/tidyhook/internal/log"
	"github.com/albertocavalcante/tidyhook/pkg/comments"
	"github.com/albertocavalcante/tidyhook/pkg/config"
	"github.com/albertocavalcante/tidyhook/pkg/registry"
)

// maxListedFindings caps the findings spelled out in a feedback message.
const maxListedFindings = 10

// Finding is one linter diagnostic.
type Finding struct {
	// File is the path the linter reported, as printed. Empty for tools
	// that only ever see the edited file.
	File     string
	Line     int
	Column   int
	Message  string
	Rule     string
	Severity string
}

// Report is the outcome of checking one file.
type Report struct {
	Path    string
	Dialect comments.Dialect

	Skipped bool
	Reason  detect.Reason

	Formatted     bool
	Stripped      int
	Findings      []Finding
	LineCount     int
	LengthWarning string
}

// HasFeedback reports whether anything worth telling the editor happened.
func (r Report) HasFeedback() bool {
	return !r.Skipped && (r.Formatted || r.Stripped > 0 || len(r.Findings) > 0 || r.LengthWarning != "")
}

// Message renders the feedback line shown to the editor. Up to two parts
// are joined with " | ", more are placed on separate lines.
func (r Report) Message() string {
	var parts []string

	if r.Formatted {
		parts = append(parts, "Formatted "+filepath.Base(r.Path))
	}
	if r.Stripped > 0 {
		parts = append(parts, fmt.Sprintf("Stripped %d unnecessary comment(s)", r.Stripped))
	}
	if len(r.Findings) > 0 {
		parts = append(parts, fmt.Sprintf("%d issue(s) found:", len(r.Findings)))
		for i, f := range r.Findings {
			if i == maxListedFindings {
				parts = append(parts, fmt.Sprintf("  ... and %d more", len(r.Findings)-maxListedFindings))
				break
			}
			parts = append(parts, fmt.Sprintf("  [%s] line %d: %s", f.Severity, f.Line, f.Message))
		}
	}
	if r.LengthWarning != "" {
		parts = append(parts, r.LengthWarning)
	}

	if len(parts) <= 2 {
		return strings.Join(parts, " | ")
	}
	return strings.Join(parts, "\n")
}

// Checker runs the pipeline with shared configuration and tools.
type Checker struct {
	cfg      *config.Config
	filter   *detect.Filter
	runner   *runner.Runner
	stripper *comments.Stripper
	logger   *slog.Logger
}

// New creates a Checker.
func New(cfg *config.Config, filter *detect.Filter, r *runner.Runner, s *comments.Stripper) *Checker {
	return &Checker{
		cfg:      cfg,
		filter:   filter,
		runner:   r,
		stripper: s,
		logger:   log.Component("checker"),
	}
}

// Check runs every enabled step on path.
func (c *Checker) Check(ctx context.Context, path string) Report {
	report := Report{Path: path}

	dialect, reason := c.filter.Check(path)
	if reason != detect.ReasonNone {
		report.Skipped = true
		report.Reason = reason
		c.logger.Debug("skipping file", "path", path, "reason", reason)
		return report
	}
	report.Dialect = dialect
	lang := string(dialect)

	if c.cfg.FormattingEnabled() {
		if tool, ok := registry.FormatterFor(c.cfg, lang); ok {
			report.Formatted = c.format(ctx, tool, path)
		}
	}

	for _, l := range registry.LintersFor(lang) {
		report.Findings = append(report.Findings, c.lint(ctx, l, path)...)
	}

	if c.cfg.CommentStrippingEnabled() {
		out := c.stripper.StripFile(ctx, path, dialect)
		report.Stripped = out.Stripped
	}

	if data, err := os.ReadFile(path); err == nil {
		report.LineCount = CountLines(data)
		report.LengthWarning = LengthWarning(report.LineCount, c.cfg.Limits.WarnLines, c.cfg.Limits.MaxLines)
	}

	return report
}

func (c *Checker) format(ctx context.Context, tool registry.Tool, path string) bool {
	res, err := c.runner.Run(ctx, tool, path)
	switch {
	case errors.Is(err, runner.ErrToolNotFound):
		c.logger.Debug("formatter not installed", "tool", tool.Name)
		return false
	case err != nil:
		c.logger.Warn("formatter failed", "tool", tool.Name, "path", path, "error", err)
		return false
	case !res.Success():
		c.logger.Debug("formatter exited non-zero", "tool", tool.Name, "code", res.ExitCode,
			"stderr", strings.TrimSpace(string(res.Stderr)))
		return false
	}
	c.logger.Debug("formatted", "tool", tool.Name, "path", path, "duration", res.Duration)
	return true
}

// CountLines counts lines the way an editor does: a final line without a
// terminator still counts.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// LengthWarning returns the warning for a file of n lines, or "".
func LengthWarning(n, warn, max int) string {
	switch {
	case max > 0 && n > max:
		return fmt.Sprintf("File is %d lines (>%d) - consider splitting", n, max)
	case warn > 0 && n > warn:
		return fmt.Sprintf("File is %d lines (>%d) - getting long", n, warn)
	}
	return ""
}
