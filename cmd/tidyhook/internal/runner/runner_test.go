package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/runner"
	"github.com/albertocavalcante/tidyhook/pkg/registry"
)

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestFind_SiblingBinary(t *testing.T) {
	tmpDir := t.TempDir()

	tidyhookPath := filepath.Join(tmpDir, "tidyhook")
	toolPath := filepath.Join(tmpDir, "tidyhook-fake-fmt")
	writeScript(t, tidyhookPath, "exit 0")
	writeScript(t, toolPath, "exit 0")

	r := runner.New(runner.WithExecutablePath(tidyhookPath))
	got, err := r.Find("tidyhook-fake-fmt")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != toolPath {
		t.Errorf("Find() = %q, want %q", got, toolPath)
	}
}

func TestFind_ProjectLocal(t *testing.T) {
	project := t.TempDir()
	local := filepath.Join(project, "node_modules", ".bin", "tidyhook-fake-prettier")
	writeScript(t, local, "exit 0")

	r := runner.New(
		runner.WithWorkDir(project),
		runner.WithExecutablePath(filepath.Join(t.TempDir(), "tidyhook")),
	)
	got, err := r.Find("tidyhook-fake-prettier")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != local {
		t.Errorf("Find() = %q, want %q", got, local)
	}
}

func TestFind_NonExecutableIgnored(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "tidyhook-not-exec"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := runner.New(runner.WithExecutablePath(filepath.Join(tmpDir, "tidyhook")))
	if r.Available("tidyhook-not-exec") {
		t.Error("non-executable file should not be found")
	}
}

func TestFind_NotFound(t *testing.T) {
	r := runner.New(runner.WithExecutablePath(filepath.Join(t.TempDir(), "tidyhook")))
	_, err := r.Find("tidyhook-no-such-tool")
	if !errors.Is(err, runner.ErrToolNotFound) {
		t.Errorf("Find() error = %v, want ErrToolNotFound", err)
	}
}

func TestRun(t *testing.T) {
	tmpDir := t.TempDir()
	writeScript(t, filepath.Join(tmpDir, "tidyhook-fake-fmt"), `echo "formatted $@"`)
	writeScript(t, filepath.Join(tmpDir, "tidyhook-fake-lint"), `echo "bad" >&2; exit 3`)

	r := runner.New(runner.WithExecutablePath(filepath.Join(tmpDir, "tidyhook")))

	res, err := r.Run(context.Background(), registry.Tool{Name: "tidyhook-fake-fmt", Args: []string{"--write"}}, "a.ts")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Success() {
		t.Errorf("exit code = %d, want 0", res.ExitCode)
	}
	if got := strings.TrimSpace(string(res.Stdout)); got != "formatted --write a.ts" {
		t.Errorf("stdout = %q", got)
	}

	res, err = r.Run(context.Background(), registry.Tool{Name: "tidyhook-fake-lint"}, "a.ts")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 3 || res.Success() {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
	if got := strings.TrimSpace(string(res.Stderr)); got != "bad" {
		t.Errorf("stderr = %q", got)
	}
}

func TestRun_Timeout(t *testing.T) {
	tmpDir := t.TempDir()
	writeScript(t, filepath.Join(tmpDir, "tidyhook-slow"), "exec sleep 5")

	r := runner.New(
		runner.WithExecutablePath(filepath.Join(tmpDir, "tidyhook")),
		runner.WithTimeout(100*time.Millisecond),
	)

	start := time.Now()
	_, err := r.Run(context.Background(), registry.Tool{Name: "tidyhook-slow"}, "x")
	if !errors.Is(err, runner.ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout took %s", elapsed)
	}
}

func TestRun_NotFound(t *testing.T) {
	r := runner.New(runner.WithExecutablePath(filepath.Join(t.TempDir(), "tidyhook")))
	_, err := r.Run(context.Background(), registry.Tool{Name: "tidyhook-no-such-tool"}, "x")
	if !errors.Is(err, runner.ErrToolNotFound) {
		t.Errorf("Run() error = %v, want ErrToolNotFound", err)
	}
}

func TestExec_Overrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeScript(t, filepath.Join(tmpDir, "tidyhook-fake-vet"), `echo "$@"; pwd`)
	writeScript(t, filepath.Join(tmpDir, "tidyhook-slow"), "exec sleep 5")

	crate := filepath.Join(tmpDir, "crate")
	if err := os.Mkdir(crate, 0o755); err != nil {
		t.Fatal(err)
	}
	crate, err := filepath.EvalSymlinks(crate)
	if err != nil {
		t.Fatal(err)
	}

	r := runner.New(
		runner.WithExecutablePath(filepath.Join(tmpDir, "tidyhook")),
		runner.WithWorkDir(tmpDir),
		runner.WithTimeout(50*time.Millisecond),
	)

	res, err := r.Exec(context.Background(), runner.Call{
		Tool:    registry.Tool{Name: "tidyhook-fake-vet", Args: []string{"vet", "./..."}},
		Dir:     crate,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if res.Dir != crate {
		t.Errorf("Dir = %q, want %q", res.Dir, crate)
	}
	if got := strings.TrimSpace(string(res.Stdout)); got != "vet ./...\n"+crate {
		t.Errorf("stdout = %q", got)
	}

	_, err = r.Exec(context.Background(), runner.Call{Tool: registry.Tool{Name: "tidyhook-slow"}})
	if !errors.Is(err, runner.ErrTimeout) {
		t.Errorf("Exec() error = %v, want ErrTimeout from the runner default", err)
	}
}
