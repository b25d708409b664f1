package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/detect"
	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/runner"
	"github.com/albertocavalcante/tidyhook/pkg/registry"
	"github.com/albertocavalcante/tidyhook/pkg/treesitter"
	"github.com/albertocavalcante/tidyhook/pkg/util"
)

var statusFlags struct {
	json bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, tools and pending changes",
	Long: `Shows how tidyhook is set up for the current workspace: the config
files that were loaded, enabled dialects, the tree-sitter backend used for
Python, which formatters were found, the dialects present in the tree and
how many files changed since the last 'tidyhook strip --changed'.

The --json flag outputs the result as JSON for scripting.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusFlags.json, "json", false,
		"Output as JSON")

	rootCmd.AddCommand(statusCmd)
}

// StatusOutput is the JSON output format for tidyhook status.
type StatusOutput struct {
	Workspace     string            `json:"workspace"`
	ConfigSources []string          `json:"config_sources"`
	Dialects      []string          `json:"dialects"`
	Detected      []string          `json:"detected"`
	Backend       BackendStatus     `json:"backend"`
	Formatters    []FormatterStatus `json:"formatters"`
	TrackedFiles  int               `json:"tracked_files"`
	PendingFiles  []string          `json:"pending_files,omitempty"`
	RulesChanged  bool              `json:"rules_changed,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// BackendStatus describes the tree-sitter backend selection.
type BackendStatus struct {
	Configured  string   `json:"configured"`
	Active      string   `json:"active"`
	Description string   `json:"description,omitempty"`
	Grammars    []string `json:"grammars,omitempty"`
	Available   []string `json:"available"`
	SyntaxCheck bool     `json:"syntax_check"`
}

// FormatterStatus describes the formatter of one dialect.
type FormatterStatus struct {
	Dialect   string `json:"dialect"`
	Tool      string `json:"tool"`
	Available bool   `json:"available"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ws, err := workspaceDir()
	if err != nil {
		return err
	}
	e := newEnv(ws)
	defer e.Close()

	st := collectStatus(cmd, e)
	if statusFlags.json {
		return outputJSON(cmd.OutOrStdout(), st)
	}
	writeStatus(cmd.OutOrStdout(), st)
	return nil
}

func collectStatus(cmd *cobra.Command, e *env) StatusOutput {
	st := StatusOutput{
		Workspace:     e.workspace,
		ConfigSources: e.cfg.Sources,
		Dialects:      e.cfg.GetEnabledLanguages(),
		Backend: BackendStatus{
			Configured:  e.cfg.TreeSitter.Backend,
			Active:      "none",
			SyntaxCheck: e.cfg.SyntaxCheckEnabled(),
		},
	}

	if e.backend != nil {
		st.Backend.Active = e.backend.Name()
		st.Backend.Description = treesitter.GetBackendInfo(treesitter.BackendType(e.backend.Name())).Description
		for _, lang := range e.backend.SupportedLanguages() {
			st.Backend.Grammars = append(st.Backend.Grammars, string(lang))
		}
	}
	for _, b := range treesitter.AvailableBackends() {
		st.Backend.Available = append(st.Backend.Available, string(b))
	}

	r := runner.New(runner.WithWorkDir(e.workspace))
	formatters := registry.LoadFormatters(e.cfg)
	for _, lang := range util.SortedKeys(formatters) {
		tool := formatters[lang]
		st.Formatters = append(st.Formatters, FormatterStatus{
			Dialect:   lang,
			Tool:      tool.Name,
			Available: r.Available(tool.Name),
		})
	}

	detected, err := detect.Languages(e.workspace)
	if err != nil {
		st.Error = err.Error()
	}
	st.Detected = detected

	tracker := e.tracker()
	if tracker.HasState() {
		st.TrackedFiles = tracker.TrackedFileCount()
		if cs, err := tracker.Status(cmd.Context()); err == nil {
			st.PendingFiles = cs.Changed()
			st.RulesChanged = cs.RulesChanged
		} else {
			st.Error = err.Error()
		}
	}
	return st
}

func writeStatus(w io.Writer, st StatusOutput) {
	fmt.Fprintf(w, "Workspace: %s\n", st.Workspace)

	if len(st.ConfigSources) == 0 {
		fmt.Fprintln(w, "Config:    built-in defaults")
	} else {
		fmt.Fprintf(w, "Config:    %s\n", strings.Join(st.ConfigSources, ", "))
	}
	fmt.Fprintf(w, "Dialects:  %s\n", strings.Join(st.Dialects, ", "))
	if len(st.Detected) > 0 {
		fmt.Fprintf(w, "Detected:  %s\n", strings.Join(st.Detected, ", "))
	}

	fmt.Fprintf(w, "\nTree-sitter backend: %s (configured: %s)\n", st.Backend.Active, st.Backend.Configured)
	if st.Backend.Description != "" {
		fmt.Fprintf(w, "  %s\n", st.Backend.Description)
	}
	if len(st.Backend.Grammars) > 0 {
		fmt.Fprintf(w, "  grammars: %s\n", strings.Join(st.Backend.Grammars, ", "))
	}
	check := "off"
	if st.Backend.SyntaxCheck {
		check = "on"
	}
	fmt.Fprintf(w, "  syntax check: %s\n", check)

	fmt.Fprintln(w, "\nFormatters:")
	for _, f := range st.Formatters {
		mark := "missing"
		if f.Available {
			mark = "found"
		}
		fmt.Fprintf(w, "  %-10s %-12s %s\n", f.Dialect, f.Tool, mark)
	}

	fmt.Fprintln(w)
	if st.TrackedFiles == 0 {
		fmt.Fprintln(w, "No state found. Run 'tidyhook strip --changed' to create initial state.")
	} else if st.RulesChanged {
		fmt.Fprintf(w, "%d tracked file(s); strip rules changed, all %d file(s) pending\n", st.TrackedFiles, len(st.PendingFiles))
	} else if len(st.PendingFiles) == 0 {
		fmt.Fprintf(w, "%d tracked file(s), none changed\n", st.TrackedFiles)
	} else {
		fmt.Fprintf(w, "%d tracked file(s), %d changed:\n", st.TrackedFiles, len(st.PendingFiles))
		for _, f := range st.PendingFiles {
			fmt.Fprintf(w, "  ~ %s\n", f)
		}
	}

	if st.Error != "" {
		fmt.Fprintf(w, "\nerror: %s\n", st.Error)
	}
}

func outputJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
