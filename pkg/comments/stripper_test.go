package comments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/albertocavalcante/tidyhook/internal/log"
)

func writeFile(t *testing.T, name, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

func TestStripFileE_RewritesInPlace(t *testing.T) {
	path := writeFile(t, "main.rs", "// set up\nfn main() {} // entry\n", 0o640)

	out, err := New(nil).StripFileE(context.Background(), path, Rust)
	require.NoError(t, err)
	require.Equal(t, Outcome{Stripped: 2, Modified: true}, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "fn main() {}\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestStripFileE_NoOpLeavesFileUntouched(t *testing.T) {
	src := "/// Documented.\nfn main() {}\n"
	path := writeFile(t, "lib.rs", src, 0o644)

	before, err := os.Stat(path)
	require.NoError(t, err)

	out, err := New(nil).StripFileE(context.Background(), path, Rust)
	require.NoError(t, err)
	require.Equal(t, Outcome{}, out)

	after, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, before.ModTime(), after.ModTime())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, src, string(data))
}

func TestStripFileE_Errors(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	_, err := s.StripFileE(ctx, filepath.Join(t.TempDir(), "missing.ts"), TypeScript)
	require.ErrorIs(t, err, ErrRead)

	bad := writeFile(t, "bad.ts", "const a = 1; // \xff\xfe\n", 0o644)
	_, err = s.StripFileE(ctx, bad, TypeScript)
	require.ErrorIs(t, err, ErrDecode)

	data, readErr := os.ReadFile(bad)
	require.NoError(t, readErr)
	require.Equal(t, "const a = 1; // \xff\xfe\n", string(data))

	ok := writeFile(t, "ok.ts", "const a = 1;\n", 0o644)
	_, err = s.StripFileE(ctx, ok, Dialect("cobol"))
	require.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestStripFile_SwallowsErrors(t *testing.T) {
	out := New(nil).StripFile(context.Background(), filepath.Join(t.TempDir(), "missing.go"), Go)
	require.Equal(t, Outcome{}, out)
}

func TestPreview_DoesNotWrite(t *testing.T) {
	src := "let a = 1 // noise\n"
	path := writeFile(t, "a.swift", src, 0o644)

	r, err := New(nil).Preview(context.Background(), path, Swift)
	require.NoError(t, err)
	require.True(t, r.Modified)
	require.Equal(t, "let a = 1\n", r.Content)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, src, string(data))
}

func TestStrip_UnsupportedDialect(t *testing.T) {
	r, err := New(nil).Strip(context.Background(), Dialect("cobol"), "x")
	if !errors.Is(err, ErrUnsupportedDialect) {
		t.Fatalf("error = %v, want ErrUnsupportedDialect", err)
	}
	if r.Content != "x" {
		t.Errorf("Content = %q, want input", r.Content)
	}
}

func TestSkippable(t *testing.T) {
	require.True(t, Skippable(ErrDecode))
	require.True(t, Skippable(fmt.Errorf("a.py: %w: no backend", ErrTokenize)))
	require.True(t, Skippable(fmt.Errorf("a.ts: %w", ErrSyntaxRegression)))
	require.False(t, Skippable(ErrWrite))
	require.False(t, Skippable(nil))
}

func TestPreview_TracesVerdicts(t *testing.T) {
	var buf bytes.Buffer
	log.InitWithOutput(log.VerbosityTrace, "text", &buf)
	t.Cleanup(func() { log.Init(log.VerbosityWarn, "text") })

	path := writeFile(t, "a.ts", "const x = 1; // one\n// TODO: keep\n", 0o644)
	_, err := New(nil).Preview(context.Background(), path, TypeScript)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "level=TRACE msg=classified")
	require.Contains(t, out, "line=1 kind=inline decision=strip rule=noise")
	require.Contains(t, out, "line=2 kind=whole-line decision=preserve rule=marker")
}
