package config

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/albertocavalcante/tidyhook/internal/log"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	for _, lang := range AllLanguages {
		if !cfg.IsLanguageEnabled(lang) {
			t.Errorf("%s should be enabled by default", lang)
		}
	}
	if cfg.IsLanguageEnabled("kotlin") {
		t.Error("unknown languages should not be enabled")
	}

	if !cfg.CommentStrippingEnabled() {
		t.Error("comment stripping should be enabled by default")
	}
	if !cfg.FormattingEnabled() {
		t.Error("formatting should be enabled by default")
	}
	if cfg.Limits.WarnLines != 300 || cfg.Limits.MaxLines != 500 {
		t.Errorf("limits = %+v, want 300/500", cfg.Limits)
	}
	if cfg.TreeSitter.Backend != "auto" {
		t.Errorf("treesitter backend should be 'auto', got %q", cfg.TreeSitter.Backend)
	}
	if cfg.SyntaxCheckEnabled() {
		t.Error("syntax check should be off by default")
	}
}

func TestIsLanguageEnabled(t *testing.T) {
	cfg := NewConfig()

	cfg.Languages.Enabled = []string{"go", "rust"}
	if !cfg.IsLanguageEnabled("rust") {
		t.Error("rust should be enabled")
	}
	if cfg.IsLanguageEnabled("python") {
		t.Error("python should not be enabled when absent from the enabled list")
	}

	// Test disabled takes precedence
	cfg.Languages.Disabled = []string{"rust"}
	if cfg.IsLanguageEnabled("rust") {
		t.Error("rust should be disabled when in disabled list")
	}
}

func TestGetEnabledLanguages(t *testing.T) {
	cfg := NewConfig()
	cfg.Languages.Disabled = []string{"swift"}

	got := cfg.GetEnabledLanguages()
	want := []string{"python", "typescript", "rust", "go"}
	if !slices.Equal(got, want) {
		t.Errorf("GetEnabledLanguages() = %v, want %v", got, want)
	}
}

func TestMerge(t *testing.T) {
	base := NewConfig()
	base.Strip.Exclude = []string{"**/generated/**"}

	falseVal := false
	other := &Config{
		Features: FeaturesConfig{Formatting: &falseVal},
		Languages: LanguagesConfig{
			Enabled: []string{"go", "python"},
		},
		Strip:      StripConfig{Exclude: []string{"**/fixtures/**"}},
		TreeSitter: TreeSitterConfig{Backend: "cgo"},
		Limits:     LimitsConfig{MaxLines: 800},
		Formatters: map[string]string{"python": "black"},
		Sources:    []string{"/tmp/tidyhook.toml"},
	}

	base.Merge(other)

	if base.FormattingEnabled() {
		t.Error("formatting should be disabled after merge")
	}
	if !base.CommentStrippingEnabled() {
		t.Error("comment stripping should keep its default")
	}
	if base.IsLanguageEnabled("rust") {
		t.Error("rust should not be enabled after merge")
	}
	if !slices.Equal(base.Strip.Exclude, []string{"**/generated/**", "**/fixtures/**"}) {
		t.Errorf("exclude globs should accumulate, got %v", base.Strip.Exclude)
	}
	if base.TreeSitter.Backend != "cgo" {
		t.Errorf("treesitter backend should be 'cgo', got %q", base.TreeSitter.Backend)
	}
	if base.Limits.WarnLines != 300 || base.Limits.MaxLines != 800 {
		t.Errorf("limits = %+v, want 300/800", base.Limits)
	}
	if name, ok := base.Formatter("python"); !ok || name != "black" {
		t.Errorf("Formatter(python) = %q, %v", name, ok)
	}
	if !slices.Equal(base.Sources, []string{"/tmp/tidyhook.toml"}) {
		t.Errorf("sources = %v", base.Sources)
	}

	base.Merge(nil)
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[features]
comment_stripping = false

[languages]
enabled = ["go", "python", "rust"]
disabled = ["swift"]

[strip]
exclude = ["**/migrations/**"]
verify_syntax = true

[treesitter]
backend = "wazero"

[limits]
warn_lines = 200

[formatters]
python = "none"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := loadConfigFile(configPath)
	if cfg == nil {
		t.Fatal("loadConfigFile returned nil")
	}

	if cfg.Features.CommentStripping == nil || *cfg.Features.CommentStripping {
		t.Error("comment stripping should be disabled")
	}
	if cfg.Features.Formatting != nil {
		t.Error("formatting should be unset")
	}
	if len(cfg.Languages.Enabled) != 3 {
		t.Errorf("expected 3 enabled languages, got %d", len(cfg.Languages.Enabled))
	}
	if len(cfg.Languages.Disabled) != 1 {
		t.Errorf("expected 1 disabled language, got %d", len(cfg.Languages.Disabled))
	}
	if len(cfg.Strip.Exclude) != 1 {
		t.Errorf("expected 1 exclude glob, got %d", len(cfg.Strip.Exclude))
	}
	if !cfg.SyntaxCheckEnabled() {
		t.Error("verify_syntax should be enabled")
	}
	if cfg.TreeSitter.Backend != "wazero" {
		t.Errorf("treesitter backend should be 'wazero', got %q", cfg.TreeSitter.Backend)
	}
	if cfg.Limits.WarnLines != 200 {
		t.Errorf("warn_lines should be 200, got %d", cfg.Limits.WarnLines)
	}
	if cfg.Formatters["python"] != FormatterNone {
		t.Errorf("python formatter should be %q, got %q", FormatterNone, cfg.Formatters["python"])
	}
	if !slices.Equal(cfg.Sources, []string{configPath}) {
		t.Errorf("sources = %v, want [%s]", cfg.Sources, configPath)
	}
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[limits\nwarn_lines = "), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if cfg := loadConfigFile(path); cfg != nil {
		t.Error("invalid TOML should yield nil")
	}
	if cfg := loadConfigFile(filepath.Join(t.TempDir(), "missing.toml")); cfg != nil {
		t.Error("missing file should yield nil")
	}
}

func TestApplyEnvironmentVariables(t *testing.T) {
	cfg := NewConfig()

	t.Setenv("TIDYHOOK_LANGUAGES_ENABLED", "go,python")
	t.Setenv("TIDYHOOK_FORMATTING", "no")
	t.Setenv("TIDYHOOK_STRIP_EXCLUDE", "**/gen/**, **/third_party/**")
	t.Setenv("TIDYHOOK_TREESITTER_BACKEND", "cgo")
	t.Setenv("TIDYHOOK_VERIFY_SYNTAX", "1")
	t.Setenv("TIDYHOOK_WARN_LINES", "150")
	t.Setenv("TIDYHOOK_MAX_LINES", "not-a-number")

	applyEnvironmentVariables(cfg)

	if len(cfg.Languages.Enabled) != 2 {
		t.Errorf("expected 2 enabled languages, got %d", len(cfg.Languages.Enabled))
	}
	if cfg.FormattingEnabled() {
		t.Error("formatting should be disabled via env var")
	}
	if len(cfg.Strip.Exclude) != 2 {
		t.Errorf("expected 2 exclude globs, got %v", cfg.Strip.Exclude)
	}
	if cfg.TreeSitter.Backend != "cgo" {
		t.Errorf("treesitter backend should be 'cgo', got %q", cfg.TreeSitter.Backend)
	}
	if !cfg.SyntaxCheckEnabled() {
		t.Error("syntax check should be enabled via env var")
	}
	if cfg.Limits.WarnLines != 150 {
		t.Errorf("warn_lines should be 150, got %d", cfg.Limits.WarnLines)
	}
	if cfg.Limits.MaxLines != DefaultMaxLines {
		t.Errorf("invalid max_lines should be ignored, got %d", cfg.Limits.MaxLines)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"go,rust,python", []string{"go", "rust", "python"}},
		{" go , rust , python ", []string{"go", "rust", "python"}},
		{"go", []string{"go"}},
		{"", []string{}},
		{" , , ", []string{}},
	}

	for _, tt := range tests {
		result := splitAndTrim(tt.input)
		if !slices.Equal(result, tt.expected) {
			t.Errorf("splitAndTrim(%q) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}

func TestProjectConfigSearch(t *testing.T) {
	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, "project", "subdir")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("failed to create project dir: %v", err)
	}

	// Create .git marker at project root
	gitDir := filepath.Join(tmpDir, "project", ".git")
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatalf("failed to create .git dir: %v", err)
	}

	configPath := filepath.Join(tmpDir, "project", "tidyhook.toml")
	configContent := `
[languages]
enabled = ["go", "rust"]
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := loadProjectConfigFrom(projectDir)
	if cfg == nil {
		t.Fatal("loadProjectConfigFrom returned nil")
	}
	if len(cfg.Languages.Enabled) != 2 {
		t.Errorf("expected 2 enabled languages, got %d", len(cfg.Languages.Enabled))
	}
}

func TestProjectConfigSearch_StopsAtWorkspaceRoot(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("[limits]\nmax_lines = 10\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	repo := filepath.Join(tmpDir, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("failed to create .git dir: %v", err)
	}

	if cfg := loadProjectConfigFrom(repo); cfg != nil {
		t.Error("search should not climb past the workspace root")
	}
}

func TestLoadFrom_Layers(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	repo := t.TempDir()
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("failed to create .git dir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(repo, ConfigDirName), 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	project := filepath.Join(repo, ConfigDirName, "config.toml")
	if err := os.WriteFile(project, []byte("[limits]\nwarn_lines = 100\nmax_lines = 200\n"), 0o644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}

	explicit := filepath.Join(t.TempDir(), "override.toml")
	if err := os.WriteFile(explicit, []byte("[limits]\nmax_lines = 400\n"), 0o644); err != nil {
		t.Fatalf("failed to write explicit config: %v", err)
	}
	t.Setenv(EnvConfigFile, explicit)
	t.Setenv("TIDYHOOK_WARN_LINES", "50")

	cfg := LoadFrom(repo)

	if cfg.Limits.WarnLines != 50 {
		t.Errorf("env should win for warn_lines, got %d", cfg.Limits.WarnLines)
	}
	if cfg.Limits.MaxLines != 400 {
		t.Errorf("explicit file should win over project for max_lines, got %d", cfg.Limits.MaxLines)
	}
	if !slices.Equal(cfg.Sources, []string{project, explicit}) {
		t.Errorf("sources = %v", cfg.Sources)
	}
}

func TestWorkspaceRootDetection(t *testing.T) {
	for _, marker := range []string{".git", ".hg", ".jj"} {
		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, marker), 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", marker, err)
		}
		if !IsWorkspaceRoot(dir) {
			t.Errorf("directory with %s should be workspace root", marker)
		}
	}

	if IsWorkspaceRoot(t.TempDir()) {
		t.Error("empty directory should not be workspace root")
	}
}

func TestLoadConfigFile_UnknownKeys(t *testing.T) {
	var buf bytes.Buffer
	log.InitWithOutput(log.VerbosityWarn, "text", &buf)
	t.Cleanup(func() { log.Init(log.VerbosityWarn, "text") })

	path := filepath.Join(t.TempDir(), "tidyhook.toml")
	content := "[strip]\nverify_syntx = true\n\n[limits]\nwarn_lines = 80\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := loadConfigFile(path)
	if cfg == nil {
		t.Fatal("unknown keys should not reject the file")
	}
	if cfg.Limits.WarnLines != 80 {
		t.Errorf("warn_lines should be 80, got %d", cfg.Limits.WarnLines)
	}
	if out := buf.String(); !strings.Contains(out, "unknown config keys") || !strings.Contains(out, "strip.verify_syntx") {
		t.Errorf("expected unknown key warning, got: %s", out)
	}
}

func TestSetBool(t *testing.T) {
	tests := []struct {
		in   string
		want *bool
	}{
		{"yes", ptr(true)},
		{" TRUE ", ptr(true)},
		{"0", ptr(false)},
		{"No", ptr(false)},
		{"maybe", nil},
	}

	for _, tt := range tests {
		var got *bool
		setBool(&got, tt.in)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("setBool(%q) = %v, want %v", tt.in, deref(got), deref(tt.want))
		}
	}
}

func ptr(b bool) *bool { return &b }

func deref(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
