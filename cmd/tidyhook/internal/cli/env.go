package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/checker"
	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/detect"
	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/incremental"
	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/runner"
	"github.com/albertocavalcante/tidyhook/internal/log"
	"github.com/albertocavalcante/tidyhook/pkg/comments"
	"github.com/albertocavalcante/tidyhook/pkg/config"
	"github.com/albertocavalcante/tidyhook/pkg/treesitter"
)

// env bundles what every command that touches files needs.
type env struct {
	workspace string
	cfg       *config.Config
	filter    *detect.Filter
	stripper  *comments.Stripper
	backend   treesitter.Backend
}

// workspaceDir returns the directory commands act on: the working
// directory, resolved to an absolute path with symlinks evaluated.
func workspaceDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(wd); err == nil {
		wd = resolved
	}
	return wd, nil
}

// newEnv loads configuration for workspace and creates the stripper. A
// tree-sitter backend that cannot be created leaves tokenized dialects
// untouched rather than failing the command.
func newEnv(workspace string) *env {
	cfg := config.LoadFrom(workspace)
	e := &env{
		workspace: workspace,
		cfg:       cfg,
		filter:    detect.NewFilter(workspace, cfg),
	}

	typ, err := treesitter.ParseBackendType(cfg.TreeSitter.Backend)
	if err != nil {
		log.Warn("invalid tree-sitter backend, using auto", "error", err)
		typ = treesitter.BackendAuto
	}
	backend, err := treesitter.NewBackend(typ)
	if err != nil {
		log.Debug("tree-sitter backend unavailable", "backend", typ, "error", err)
	} else {
		e.backend = backend
	}
	e.stripper = comments.New(e.backend, comments.WithSyntaxCheck(cfg.SyntaxCheckEnabled()))
	return e
}

// rules fingerprints the settings that change what stripping produces, so
// state recorded under other settings is treated as stale.
func (e *env) rules() string {
	return incremental.Fingerprint(
		Version,
		strings.Join(e.cfg.GetEnabledLanguages(), ","),
		strings.Join(e.cfg.Strip.Exclude, ","),
		strconv.FormatBool(e.cfg.SyntaxCheckEnabled()),
	)
}

// tracker returns the incremental state tracker of the workspace.
func (e *env) tracker() *incremental.Tracker {
	return incremental.NewTracker(e.workspace, func(path string) bool {
		_, reason := e.filter.Check(path)
		return reason == detect.ReasonNone
	}, e.rules())
}

// checker builds a checker running tools from the workspace.
func (e *env) checker() *checker.Checker {
	r := runner.New(runner.WithWorkDir(e.workspace))
	return checker.New(e.cfg, e.filter, r, e.stripper)
}

// Close releases the tree-sitter backend.
func (e *env) Close() {
	if e.backend != nil {
		_ = e.backend.Close()
	}
}
