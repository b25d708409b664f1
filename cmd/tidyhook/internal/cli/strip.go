package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/detect"
	"github.com/albertocavalcante/tidyhook/internal/log"
	"github.com/albertocavalcante/tidyhook/pkg/comments"
)

var stripFlags struct {
	dialect string
	dryRun  bool
	diff    bool
	explain bool
	changed bool
}

var stripCmd = &cobra.Command{
	Use:   "strip [path...]",
	Short: "Strip noise comments from files",
	Long: `Strips noise comments from the given files and directory trees.
With no arguments the current directory is processed.

Directories are walked with the same skip rules the hook applies: tests,
fixtures, generated and vendored trees, config files and strip.exclude
globs are left alone. Files named explicitly are still checked against
those rules unless --dialect forces a dialect.

The --changed flag only processes files added or modified since the last
'tidyhook strip --changed' run, using the state in .tidyhook/state.json.

Use --dry-run to report what would change, --diff to print a unified diff
and --explain to list every comment with the rule that decided it.`,
	RunE: runStrip,
}

func init() {
	stripCmd.Flags().StringVar(&stripFlags.dialect, "dialect", "",
		"Force the dialect of explicitly named files (python, typescript, swift, rust, go)")
	stripCmd.Flags().BoolVar(&stripFlags.dryRun, "dry-run", false,
		"Report changes without writing files")
	stripCmd.Flags().BoolVar(&stripFlags.diff, "diff", false,
		"Print a unified diff instead of writing files")
	stripCmd.Flags().BoolVar(&stripFlags.explain, "explain", false,
		"List every comment with its decision and rule (implies --dry-run)")
	stripCmd.Flags().BoolVar(&stripFlags.changed, "changed", false,
		"Only process files changed since the last --changed run")

	rootCmd.AddCommand(stripCmd)
}

func runStrip(cmd *cobra.Command, args []string) error {
	ws, err := workspaceDir()
	if err != nil {
		return err
	}
	e := newEnv(ws)
	defer e.Close()

	var override comments.Dialect
	if stripFlags.dialect != "" {
		if override, err = comments.ParseDialect(stripFlags.dialect); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	s := &stripRun{
		env:     e,
		out:     cmd.OutOrStdout(),
		preview: stripFlags.dryRun || stripFlags.diff || stripFlags.explain,
		diff:    stripFlags.diff,
		explain: stripFlags.explain,
	}

	if !stripFlags.changed {
		files, err := collectTargets(e, args, override)
		if err != nil {
			return err
		}
		return s.run(ctx, files)
	}

	if len(args) > 0 {
		return errors.New("--changed works on the whole workspace and takes no paths")
	}
	return s.runChanged(ctx)
}

// collectTargets expands args into the files to process.
func collectTargets(e *env, args []string, override comments.Dialect) ([]detect.File, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []detect.File
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", arg, err)
		}

		if info.IsDir() {
			found, err := e.filter.Files(abs)
			if err != nil {
				return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
			}
			files = append(files, found...)
			continue
		}

		if override != "" {
			files = append(files, detect.File{Path: abs, Dialect: override})
			continue
		}
		d, reason := e.filter.Check(abs)
		if reason != detect.ReasonNone {
			log.Info("skipping file", "path", arg, "reason", reason)
			continue
		}
		files = append(files, detect.File{Path: abs, Dialect: d})
	}
	return files, nil
}

// stripRun accumulates the results of one strip invocation.
type stripRun struct {
	env     *env
	out     io.Writer
	preview bool
	diff    bool
	explain bool

	files    int
	comments int
	skipped  int
	failed   int
}

func (s *stripRun) run(ctx context.Context, files []detect.File) error {
	for _, f := range files {
		s.process(ctx, f)
	}
	return s.finish()
}

// runChanged processes the files changed since the recorded state and
// updates the state afterwards. Without state every file is processed.
func (s *stripRun) runChanged(ctx context.Context) error {
	e := s.env
	tracker := e.tracker()

	if !tracker.HasState() {
		files, err := e.filter.Files(e.workspace)
		if err != nil {
			return fmt.Errorf("failed to walk workspace: %w", err)
		}
		if err := s.run(ctx, files); err != nil {
			return err
		}
		if s.preview {
			return nil
		}
		return tracker.Refresh(ctx)
	}

	cs, err := tracker.Status(ctx)
	if err != nil {
		return err
	}
	if cs.RulesChanged {
		log.Info("strip rules changed since the last run, processing every file")
	}

	var (
		files    []detect.File
		recorded []string
	)
	for _, rel := range cs.Changed() {
		path := tracker.Abs(rel)
		if d, reason := e.filter.Check(path); reason == detect.ReasonNone {
			files = append(files, detect.File{Path: path, Dialect: d})
		}
		recorded = append(recorded, rel)
	}
	recorded = append(recorded, cs.Deleted...)

	if err := s.run(ctx, files); err != nil {
		return err
	}
	switch {
	case s.preview:
		return nil
	case cs.RulesChanged:
		return tracker.Refresh(ctx)
	case len(recorded) == 0:
		return nil
	}
	return tracker.Record(recorded...)
}

func (s *stripRun) process(ctx context.Context, f detect.File) {
	rel := s.display(f.Path)

	if !s.preview {
		out, err := s.env.stripper.StripFileE(ctx, f.Path, f.Dialect)
		if err != nil {
			s.fail(rel, err)
			return
		}
		if out.Modified {
			s.files++
			s.comments += out.Stripped
			fmt.Fprintf(s.out, "%s: stripped %d comment(s)\n", rel, out.Stripped)
		}
		return
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		s.fail(rel, fmt.Errorf("%w: %w", comments.ErrRead, err))
		return
	}
	src := string(data)
	r, err := s.env.stripper.PreviewSource(ctx, f.Path, f.Dialect, src)
	if err != nil {
		s.fail(rel, err)
		return
	}

	if s.explain {
		writeExplain(s.out, rel, r.Comments)
	}
	if !r.Modified {
		return
	}
	s.files++
	s.comments += r.Stripped

	if s.diff {
		text, err := unifiedDiff(rel, src, r.Content)
		if err != nil {
			s.fail(rel, err)
			return
		}
		fmt.Fprint(s.out, text)
		return
	}
	if !s.explain {
		fmt.Fprintf(s.out, "%s: would strip %d comment(s)\n", rel, r.Stripped)
	}
}

// fail records a per-file error. Files the stripper declined are skipped
// rather than counted as failures.
func (s *stripRun) fail(rel string, err error) {
	if comments.Skippable(err) {
		s.skipped++
		log.Warn("skipping file", "path", rel, "error", err)
		return
	}
	s.failed++
	log.Error("failed to strip file", "path", rel, "error", err)
}

func (s *stripRun) finish() error {
	verb := "Stripped"
	if s.preview {
		verb = "Would strip"
	}
	fmt.Fprintf(s.out, "%s %d comment(s) in %d file(s)\n", verb, s.comments, s.files)
	if s.skipped > 0 {
		fmt.Fprintf(s.out, "Skipped %d file(s) that could not be stripped safely\n", s.skipped)
	}
	if s.failed > 0 {
		return fmt.Errorf("%d file(s) could not be processed", s.failed)
	}
	return nil
}

func (s *stripRun) display(path string) string {
	if r, err := filepath.Rel(s.env.workspace, path); err == nil && !strings.HasPrefix(r, "..") {
		return filepath.ToSlash(r)
	}
	return path
}

// unifiedDiff renders the change from before to after as a git-style diff.
func unifiedDiff(rel, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + rel,
		ToFile:   "b/" + rel,
		Context:  3,
	})
}

// writeExplain prints one line per comment: position, decision, rule and
// the first line of its text.
func writeExplain(w io.Writer, rel string, cs []comments.Comment) {
	for _, c := range cs {
		text, _, _ := strings.Cut(c.Text, "\n")
		fmt.Fprintf(w, "%s:%d:%d: %-8s %-14s %s\n",
			rel, c.StartLine+1, c.StartColumn+1, c.Decision, c.Rule, strings.TrimSpace(text))
	}
}
