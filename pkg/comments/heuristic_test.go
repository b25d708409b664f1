package comments

import (
	"context"
	"strings"
	"testing"
)

func strip(t *testing.T, d Dialect, src string) Result {
	t.Helper()
	r, err := New(nil).Strip(context.Background(), d, src)
	if err != nil {
		t.Fatalf("Strip(%s) failed: %v", d, err)
	}
	return r
}

func TestStrip_Heuristic(t *testing.T) {
	tests := []struct {
		name         string
		dialect      Dialect
		src          string
		want         string
		wantStripped int
	}{
		{
			name:         "inline after code",
			dialect:      Rust,
			src:          "let x = 1; // redundant\n",
			want:         "let x = 1;\n",
			wantStripped: 1,
		},
		{
			name:    "doc comment above go func",
			dialect: Go,
			src:     "/// Returns the sum.\nfunc add() {}\n",
			want:    "/// Returns the sum.\nfunc add() {}\n",
		},
		{
			name:    "url in string",
			dialect: TypeScript,
			src:     "let s = \"http://example.com\";\n",
			want:    "let s = \"http://example.com\";\n",
		},
		{
			name:         "whole line noise",
			dialect:      Rust,
			src:          "// set up\nfn main() {}\n",
			want:         "fn main() {}\n",
			wantStripped: 1,
		},
		{
			name:    "marker preserved",
			dialect: Swift,
			src:     "// TODO: handle nil\nlet x = 1\n",
			want:    "// TODO: handle nil\nlet x = 1\n",
		},
		{
			name:         "unterminated block",
			dialect:      TypeScript,
			src:          "const a = 1;\n/* oops\nmore code here\n",
			want:         "const a = 1;\n",
			wantStripped: 1,
		},
		{
			name:    "unterminated marker block",
			dialect: TypeScript,
			src:     "const a = 1;\n/* FIXME oops\nmore code here\n",
			want:    "const a = 1;\n/* FIXME oops\nmore code here\n",
		},
		{
			name:         "multi-line block counts once",
			dialect:      Rust,
			src:          "fn a() {}\n/*\n * noise\n */\nfn b() {}\n",
			want:         "fn a() {}\nfn b() {}\n",
			wantStripped: 1,
		},
		{
			name:    "doc block preserved",
			dialect: TypeScript,
			src:     "/**\n * Adds.\n */\nfunction add() {}\n",
			want:    "/**\n * Adds.\n */\nfunction add() {}\n",
		},
		{
			name:         "single-line block keeps surrounding code",
			dialect:      TypeScript,
			src:          "const x = /* why */ 1;\n",
			want:         "const x = 1;\n",
			wantStripped: 1,
		},
		{
			name:         "single-line block then inline comment",
			dialect:      TypeScript,
			src:          "f(a, /* first */ b); // second\n",
			want:         "f(a, b);\n",
			wantStripped: 2,
		},
		{
			name:         "code before unterminated opener survives",
			dialect:      Rust,
			src:          "let a = 1; /* start\nend */\nlet b = 2;\n",
			want:         "let a = 1;\nlet b = 2;\n",
			wantStripped: 1,
		},
		{
			name:         "code after closer survives",
			dialect:      Rust,
			src:          "/* start\n  end */ let b = 2;\n",
			want:         "  let b = 2;\n",
			wantStripped: 1,
		},
		{
			name:    "block opener inside string",
			dialect: TypeScript,
			src:     "const glob = \"src/*.ts\";\nconst y = 2;\n",
			want:    "const glob = \"src/*.ts\";\nconst y = 2;\n",
		},
		{
			name:         "line comment hides block opener",
			dialect:      Go,
			src:          "x := 1 // see /* below\ny := 2\n",
			want:         "x := 1\ny := 2\n",
			wantStripped: 1,
		},
		{
			name:         "go group keeps only the line touching the declaration",
			dialect:      Go,
			src:          "// Add returns a+b.\n//\n// It never overflows.\nfunc Add(a, b int) int { return a + b }\n",
			want:         "// It never overflows.\nfunc Add(a, b int) int { return a + b }\n",
			wantStripped: 2,
		},
		{
			name:         "go comment above another comment",
			dialect:      Go,
			src:          "x := 1\n// helper noise\n// Add adds.\nfunc Add() {}\n",
			want:         "x := 1\n// Add adds.\nfunc Add() {}\n",
			wantStripped: 1,
		},
		{
			name:         "go comment separated by blank line",
			dialect:      Go,
			src:          "// Add adds.\n\nfunc Add() {}\n",
			want:         "\nfunc Add() {}\n",
			wantStripped: 1,
		},
		{
			name:    "late license block",
			dialect: TypeScript,
			src:     strings.Repeat("const a = 1;\n", 12) + "/* Licensed under the MIT license */\nconst b = 2;\n",
			want:    strings.Repeat("const a = 1;\n", 12) + "/* Licensed under the MIT license */\nconst b = 2;\n",
		},
		{
			name:    "late multi-line license block",
			dialect: Rust,
			src:     strings.Repeat("let a = 1;\n", 12) + "/* SPDX-License-Identifier: MIT\n * Copyright Acme\n */\nlet b = 2;\n",
			want:    strings.Repeat("let a = 1;\n", 12) + "/* SPDX-License-Identifier: MIT\n * Copyright Acme\n */\nlet b = 2;\n",
		},
		{
			name:         "late line comment license still stripped",
			dialect:      Rust,
			src:          strings.Repeat("let a = 1;\n", 12) + "// Licensed under MIT\nlet b = 2;\n",
			want:         strings.Repeat("let a = 1;\n", 12) + "let b = 2;\n",
			wantStripped: 1,
		},
		{
			name:         "go comment inside body",
			dialect:      Go,
			src:          "func f() {\n\t// bump\n\ti++\n}\n",
			want:         "func f() {\n\ti++\n}\n",
			wantStripped: 1,
		},
		{
			name:    "go build constraint",
			dialect: Go,
			src:     "//go:build linux\n\npackage main\n",
			want:    "//go:build linux\n\npackage main\n",
		},
		{
			name:    "license header",
			dialect: Rust,
			src:     "// Copyright 2024 Acme Corp\n// Licensed under the Apache License\n\nfn main() {}\n",
			want:    "// Copyright 2024 Acme Corp\n// Licensed under the Apache License\n\nfn main() {}\n",
		},
		{
			name:         "crlf terminators kept",
			dialect:      TypeScript,
			src:          "// noise\r\nconst a = 1; // more\r\nconst b = 2;\r\n",
			want:         "const a = 1;\r\nconst b = 2;\r\n",
			wantStripped: 2,
		},
		{
			name:         "no trailing newline",
			dialect:      Swift,
			src:          "let a = 1 // noise",
			want:         "let a = 1",
			wantStripped: 1,
		},
		{
			name:    "eslint directive inline",
			dialect: TypeScript,
			src:     "const a: any = 1; // eslint-disable-line\n",
			want:    "const a: any = 1; // eslint-disable-line\n",
		},
		{
			name:    "url hides later trailing comment",
			dialect: TypeScript,
			src:     "fetch(\"https://x.dev\"); // call it\n",
			want:    "fetch(\"https://x.dev\"); // call it\n",
		},
		{
			name:         "block between identifiers",
			dialect:      TypeScript,
			src:          "return/* why */x;\n",
			want:         "return x;\n",
			wantStripped: 1,
		},
		{
			name:    "empty input",
			dialect: Rust,
			src:     "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := strip(t, tt.dialect, tt.src)
			if r.Content != tt.want {
				t.Errorf("Content =\n%q\nwant\n%q", r.Content, tt.want)
			}
			if r.Stripped != tt.wantStripped {
				t.Errorf("Stripped = %d, want %d", r.Stripped, tt.wantStripped)
			}
			if r.Modified != (tt.want != tt.src) {
				t.Errorf("Modified = %v, want %v", r.Modified, tt.want != tt.src)
			}
		})
	}
}

func TestStrip_Idempotent(t *testing.T) {
	sources := map[Dialect]string{
		Rust:       "// a\nlet a = 1; /* b */ // c\n/* d\n e */ let f = 2;\n/// doc\nfn g() {}\n",
		TypeScript: "/* x */ /* y */ const a = 1; // z\nconst s = \"//\"; // w\n/**\n * keep\n */\n",
		Go:         "// Package p.\npackage p\n\n// helper\n\n// F does.\nfunc F() {\n\tx := 1 /* y */ // z\n}\n",
		Swift:      "let a = 1 /* open\nstill\n*/ let b = 2 // tail\n",
	}

	for d, src := range sources {
		first := strip(t, d, src)
		second := strip(t, d, first.Content)
		if second.Content != first.Content {
			t.Errorf("%s: second pass changed output:\n%q\n->\n%q", d, first.Content, second.Content)
		}
		if second.Stripped != 0 {
			t.Errorf("%s: second pass stripped %d comments", d, second.Stripped)
		}
	}
}

// Every non-comment line of the input survives in order.
func TestStrip_CodeLinesSurvive(t *testing.T) {
	src := "fn a() {}\n// noise\nlet b = 2;\n/* block\n noise */\nlet c = 3;\n"
	r := strip(t, Rust, src)

	var code []string
	for _, l := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasSuffix(trimmed, "*/") {
			continue
		}
		code = append(code, l)
	}

	rest := r.Content
	for _, l := range code {
		at := strings.Index(rest, l)
		if at < 0 {
			t.Fatalf("code line %q missing or out of order in %q", l, r.Content)
		}
		rest = rest[at+len(l):]
	}
}

func TestStrip_Comments(t *testing.T) {
	r := strip(t, Go, "// F does.\nfunc F() {\n\tx := 1 // one\n\t/*\n\t * gone\n\t */\n}\n")

	if len(r.Comments) != 3 {
		t.Fatalf("found %d comments, want 3: %+v", len(r.Comments), r.Comments)
	}

	want := []struct {
		kind     Kind
		decision Decision
		start    int
		end      int
		col      int
	}{
		{KindWholeLine, Preserve, 0, 0, 0},
		{KindInline, Strip, 2, 2, 8},
		{KindBlockMultiLine, Strip, 3, 5, 1},
	}
	for i, w := range want {
		c := r.Comments[i]
		if c.Kind != w.kind || c.Decision != w.decision || c.StartLine != w.start || c.EndLine != w.end || c.StartColumn != w.col {
			t.Errorf("comment %d = %+v, want kind=%s decision=%s lines=%d-%d col=%d",
				i, c, w.kind, w.decision, w.start, w.end, w.col)
		}
	}
}
