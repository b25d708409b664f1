package checker

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/runner"
	"github.com/albertocavalcante/tidyhook/pkg/registry"
)

// parsers maps a linter output format to the function reading it.
var parsers = map[string]func(runner.Result) []Finding{
	registry.FormatRuff:         func(r runner.Result) []Finding { return ParseRuffFindings(r.Stdout) },
	registry.FormatBasedpyright: func(r runner.Result) []Finding { return ParseBasedpyrightFindings(r.Stdout) },
	registry.FormatESLint:       func(r runner.Result) []Finding { return ParseESLintFindings(r.Stdout) },
	registry.FormatSwiftLint:    func(r runner.Result) []Finding { return ParseSwiftLintFindings(r.Stdout) },
	registry.FormatClippy:       func(r runner.Result) []Finding { return ParseClippyFindings(r.Stdout) },
	registry.FormatGolangci:     func(r runner.Result) []Finding { return ParseGolangciFindings(r.Stdout) },
	registry.FormatGoVet:        func(r runner.Result) []Finding { return ParseGoVetFindings(r.Stderr) },
}

// lint runs one linter for path. Root-scoped linters run from their project
// root and only the findings for path are kept.
func (c *Checker) lint(ctx context.Context, l registry.Linter, path string) []Finding {
	parse, ok := parsers[l.Format]
	if !ok {
		c.logger.Warn("no parser for linter output", "tool", l.Name, "format", l.Format)
		return nil
	}

	call := runner.Call{Tool: l.Tool, File: path, Timeout: l.Timeout}
	if l.Root != "" {
		root, ok := findRoot(path, l.Root)
		if !ok {
			c.logger.Debug("linter needs a project root", "tool", l.Name, "marker", l.Root, "path", path)
			return nil
		}
		call.Dir = root
		if l.Project {
			call.File = ""
		}
	}

	res, err := c.runner.Exec(ctx, call)
	if err != nil {
		c.logger.Debug("linter unavailable", "tool", l.Name, "error", err)
		return nil
	}

	findings := parse(res)
	if l.Root != "" {
		findings = forFile(findings, res.Dir, path)
	}
	c.logger.Debug("linted", "tool", l.Name, "path", path, "findings", len(findings), "duration", res.Duration)
	return findings
}

// findRoot returns the nearest directory at or above path's directory that
// holds marker.
func findRoot(path, marker string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	current := filepath.Dir(abs)
	for {
		if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// forFile keeps the findings reported against path. Relative file names are
// resolved against dir, the directory the linter ran in.
func forFile(findings []Finding, dir, path string) []Finding {
	want := canonical(path)
	return slices.DeleteFunc(findings, func(f Finding) bool {
		if f.File == "" {
			return true
		}
		file := f.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		return canonical(file) != want
	})
}

func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}

// elements returns the items of an array. gjson treats a scalar or null as
// a one-element array; here anything but an array has none.
func elements(r gjson.Result) []gjson.Result {
	if !r.IsArray() {
		return nil
	}
	return r.Array()
}

// parseJSON returns the document in data, or false when there is none.
func parseJSON(data []byte) (gjson.Result, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || !gjson.ValidBytes(data) {
		return gjson.Result{}, false
	}
	return gjson.ParseBytes(data), true
}

// ParseRuffFindings reads `ruff check --output-format json` output. Codes
// in the E and F families are errors, the rest warnings. Malformed output
// yields no findings.
func ParseRuffFindings(data []byte) []Finding {
	doc, ok := parseJSON(data)
	if !ok {
		return nil
	}

	var findings []Finding
	for _, diag := range elements(doc) {
		code := diag.Get("code").String()
		severity := "warning"
		if strings.HasPrefix(code, "E") || strings.HasPrefix(code, "F") {
			severity = "error"
		}
		findings = append(findings, Finding{
			File:     diag.Get("filename").String(),
			Line:     int(diag.Get("location.row").Int()),
			Column:   int(diag.Get("location.column").Int()),
			Message:  diag.Get("message").String(),
			Rule:     code,
			Severity: severity,
		})
	}
	return findings
}

// ParseBasedpyrightFindings reads `basedpyright --outputjson`. Only errors
// and warnings are kept; positions are 0-based in the output.
func ParseBasedpyrightFindings(data []byte) []Finding {
	doc, ok := parseJSON(data)
	if !ok {
		return nil
	}

	var findings []Finding
	for _, diag := range elements(doc.Get("generalDiagnostics")) {
		severity := diag.Get("severity").String()
		if severity != "error" && severity != "warning" {
			continue
		}
		findings = append(findings, Finding{
			File:     diag.Get("file").String(),
			Line:     int(diag.Get("range.start.line").Int()) + 1,
			Column:   int(diag.Get("range.start.character").Int()) + 1,
			Message:  diag.Get("message").String(),
			Rule:     diag.Get("rule").String(),
			Severity: severity,
		})
	}
	return findings
}

// ParseESLintFindings reads `eslint --format json`. Severity 2 is an error.
func ParseESLintFindings(data []byte) []Finding {
	doc, ok := parseJSON(data)
	if !ok {
		return nil
	}

	var findings []Finding
	for _, file := range elements(doc) {
		name := file.Get("filePath").String()
		for _, msg := range elements(file.Get("messages")) {
			severity := "warning"
			if msg.Get("severity").Int() == 2 {
				severity = "error"
			}
			findings = append(findings, Finding{
				File:     name,
				Line:     int(msg.Get("line").Int()),
				Column:   int(msg.Get("column").Int()),
				Message:  msg.Get("message").String(),
				Rule:     msg.Get("ruleId").String(),
				Severity: severity,
			})
		}
	}
	return findings
}

// ParseSwiftLintFindings reads `swiftlint lint --reporter json`.
func ParseSwiftLintFindings(data []byte) []Finding {
	doc, ok := parseJSON(data)
	if !ok {
		return nil
	}

	var findings []Finding
	for _, issue := range elements(doc) {
		severity := strings.ToLower(issue.Get("severity").String())
		if severity == "" {
			severity = "warning"
		}
		findings = append(findings, Finding{
			File:     issue.Get("file").String(),
			Line:     int(issue.Get("line").Int()),
			Column:   int(issue.Get("character").Int()),
			Message:  issue.Get("reason").String(),
			Rule:     issue.Get("rule_id").String(),
			Severity: severity,
		})
	}
	return findings
}

// ParseClippyFindings reads the JSON lines of `cargo clippy
// --message-format=json`. Each compiler warning or error yields one finding
// per primary span; build artifacts and notes are ignored.
func ParseClippyFindings(data []byte) []Finding {
	var findings []Finding
	gjson.ForEachLine(string(data), func(line gjson.Result) bool {
		if line.Get("reason").String() != "compiler-message" {
			return true
		}
		msg := line.Get("message")
		level := msg.Get("level").String()
		if level != "error" && level != "warning" {
			return true
		}
		for _, span := range elements(msg.Get("spans.#(is_primary==true)#")) {
			findings = append(findings, Finding{
				File:     span.Get("file_name").String(),
				Line:     int(span.Get("line_start").Int()),
				Column:   int(span.Get("column_start").Int()),
				Message:  msg.Get("message").String(),
				Rule:     msg.Get("code.code").String(),
				Severity: level,
			})
		}
		return true
	})
	return findings
}

// ParseGolangciFindings reads golangci-lint's JSON report.
func ParseGolangciFindings(data []byte) []Finding {
	doc, ok := parseJSON(data)
	if !ok {
		return nil
	}

	var findings []Finding
	for _, issue := range elements(doc.Get("Issues")) {
		severity := strings.ToLower(issue.Get("Severity").String())
		if severity == "" {
			severity = "warning"
		}
		findings = append(findings, Finding{
			File:     issue.Get("Pos.Filename").String(),
			Line:     int(issue.Get("Pos.Line").Int()),
			Column:   int(issue.Get("Pos.Column").Int()),
			Message:  issue.Get("Text").String(),
			Rule:     issue.Get("FromLinter").String(),
			Severity: severity,
		})
	}
	return findings
}

// ParseGoVetFindings reads `go vet -json` output from stderr: one JSON
// object per package, each preceded by a "# importpath" line, mapping
// analyzer names to their diagnostics.
func ParseGoVetFindings(data []byte) []Finding {
	var body bytes.Buffer
	for line := range bytes.Lines(data) {
		if !bytes.HasPrefix(line, []byte("#")) {
			body.Write(line)
		}
	}

	var findings []Finding
	dec := json.NewDecoder(&body)
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			break
		}
		doc := gjson.ParseBytes(raw)
		if !doc.IsObject() {
			continue
		}
		doc.ForEach(func(_, pkg gjson.Result) bool {
			if !pkg.IsObject() {
				return true
			}
			pkg.ForEach(func(analyzer, diags gjson.Result) bool {
				for _, d := range elements(diags) {
					file, line, col := splitPosn(d.Get("posn").String())
					findings = append(findings, Finding{
						File:     file,
						Line:     line,
						Column:   col,
						Message:  d.Get("message").String(),
						Rule:     analyzer.String(),
						Severity: "warning",
					})
				}
				return true
			})
			return true
		})
	}
	return findings
}

// splitPosn splits a "file:line:col" position. Missing numbers are zero.
func splitPosn(posn string) (string, int, int) {
	var nums []int
	for range 2 {
		i := strings.LastIndexByte(posn, ':')
		if i < 0 {
			break
		}
		n, err := strconv.Atoi(posn[i+1:])
		if err != nil {
			break
		}
		nums = append(nums, n)
		posn = posn[:i]
	}
	switch len(nums) {
	case 2:
		return posn, nums[1], nums[0]
	case 1:
		return posn, nums[0], 0
	}
	return posn, 0, 0
}
