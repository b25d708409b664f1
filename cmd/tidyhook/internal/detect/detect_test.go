package detect_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/detect"
	"github.com/albertocavalcante/tidyhook/pkg/comments"
	"github.com/albertocavalcante/tidyhook/pkg/config"
)

func TestDetectLanguages_Empty(t *testing.T) {
	tmpDir := t.TempDir()

	langs, err := detect.Languages(tmpDir)
	if err != nil {
		t.Fatalf("Languages() error = %v", err)
	}
	if len(langs) != 0 {
		t.Errorf("Languages() = %v, want empty", langs)
	}
}

func TestDetectLanguages_Multiple(t *testing.T) {
	tmpDir := t.TempDir()
	createFile(t, tmpDir, "main.go")
	createFile(t, tmpDir, "app.py")
	createFile(t, tmpDir, "web/index.jsx")
	createFile(t, tmpDir, "core/src/lib.rs")

	langs, err := detect.Languages(tmpDir)
	if err != nil {
		t.Fatalf("Languages() error = %v", err)
	}

	want := []string{"go", "python", "rust", "typescript"}
	if !slices.Equal(langs, want) {
		t.Errorf("Languages() = %v, want %v", langs, want)
	}
}

func TestDetectLanguages_IgnoresDependencyDirs(t *testing.T) {
	tmpDir := t.TempDir()
	createFile(t, tmpDir, "node_modules/react/index.js")
	createFile(t, tmpDir, "target/debug/build.rs")
	createFile(t, tmpDir, ".git/hooks/pre-commit.py")

	langs, err := detect.Languages(tmpDir)
	if err != nil {
		t.Fatalf("Languages() error = %v", err)
	}
	if len(langs) != 0 {
		t.Errorf("Languages() = %v, want empty (ignored dirs)", langs)
	}
}

func TestHasLanguage(t *testing.T) {
	tmpDir := t.TempDir()
	createFile(t, tmpDir, "App.swift")

	ok, err := detect.HasLanguage(tmpDir, "swift")
	if err != nil || !ok {
		t.Errorf("HasLanguage(swift) = %v, %v", ok, err)
	}
	ok, err = detect.HasLanguage(tmpDir, "go")
	if err != nil || ok {
		t.Errorf("HasLanguage(go) = %v, %v", ok, err)
	}
}

func TestDialect(t *testing.T) {
	tests := []struct {
		path   string
		want   comments.Dialect
		wantOK bool
	}{
		{"src/app.ts", comments.TypeScript, true},
		{"src/app.js", comments.TypeScript, true},
		{"pkg/main.go", comments.Go, true},
		{"lib.rs", comments.Rust, true},
		{"View.swift", comments.Swift, true},
		{"stubs/os.pyi", comments.Python, true},
		{"README.md", "", false},
		{"Main.kt", "", false},
	}

	for _, tt := range tests {
		got, ok := detect.Dialect(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Dialect(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/app.ts", false},
		{"docs/guide.md", true},
		{"app/migrations/0002_auto.py", true},
		{"tests/test_api.py", true},
		{"pkg/api_test.go", true},
		{"src/Button.test.tsx", true},
		{"setup.py", true},
		{"go.mod", true},
		{"vendor/github.com/x/y.go", true},
	}

	for _, tt := range tests {
		if got := detect.ShouldSkip(tt.path); got != tt.want {
			t.Errorf("ShouldSkip(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFilter_Check(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build", "repo")
	cfg := config.NewConfig()
	cfg.Strip.Exclude = []string{"**/generated/**", "scripts/*.py"}
	cfg.Languages.Disabled = []string{"swift"}
	f := detect.NewFilter(root, cfg)

	tests := []struct {
		path   string
		want   comments.Dialect
		reason detect.Reason
	}{
		{filepath.Join(root, "src", "main.go"), comments.Go, detect.ReasonNone},
		{filepath.Join(root, "api", "generated", "client.ts"), "", detect.ReasonGlob},
		{filepath.Join(root, "scripts", "deploy.py"), "", detect.ReasonGlob},
		{filepath.Join(root, "scripts", "nested", "deploy.py"), comments.Python, detect.ReasonNone},
		{filepath.Join(root, "App.swift"), "", detect.ReasonDisabled},
		{filepath.Join(root, "Main.kt"), "", detect.ReasonUnsupported},
		{filepath.Join(root, "README.md"), "", detect.ReasonExcluded},
	}

	for _, tt := range tests {
		d, reason := f.Check(tt.path)
		if d != tt.want || reason != tt.reason {
			t.Errorf("Check(%q) = %q, %q; want %q, %q", tt.path, d, reason, tt.want, tt.reason)
		}
	}
}

func TestFilter_Files(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, "b.go")
	createFile(t, root, "a/a.rs")
	createFile(t, root, "a/a_test.go")
	createFile(t, root, "node_modules/x/index.js")
	createFile(t, root, "notes.txt")

	files, err := detect.NewFilter(root, config.NewConfig()).Files(root)
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}

	var got []string
	for _, f := range files {
		rel, _ := filepath.Rel(root, f.Path)
		got = append(got, filepath.ToSlash(rel)+":"+string(f.Dialect))
	}
	want := []string{"a/a.rs:rust", "b.go:go"}
	if !slices.Equal(got, want) {
		t.Errorf("Files() = %v, want %v", got, want)
	}
}

func createFile(t *testing.T, base, path string) {
	t.Helper()
	fullPath := filepath.Join(base, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fullPath, []byte("// content"), 0o644); err != nil {
		t.Fatal(err)
	}
}
