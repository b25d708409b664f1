// Package registry maps dialects to the external tools tidyhook runs after
// an edit. It lets configuration swap or disable a formatter per dialect
// without the checker knowing any tool by name.
package registry

import (
	"slices"
	"time"

	"github.com/albertocavalcante/tidyhook/pkg/config"
)

// Tool is an external command applied to a single file.
type Tool struct {
	// Name is the executable looked up on PATH.
	Name string
	// Args precede the file path on the command line.
	Args []string
}

// Command returns the executable and full argument list for path. An empty
// path adds nothing.
func (t Tool) Command(path string) (string, []string) {
	args := slices.Clone(t.Args)
	if path != "" {
		args = append(args, path)
	}
	return t.Name, args
}

// Output formats understood by the checker.
const (
	FormatRuff         = "ruff"
	FormatBasedpyright = "basedpyright"
	FormatESLint       = "eslint"
	FormatSwiftLint    = "swiftlint"
	FormatClippy       = "clippy"
	FormatGolangci     = "golangci-lint"
	FormatGoVet        = "go-vet"
)

// Linter is a Tool whose diagnostics the checker parses.
type Linter struct {
	Tool
	// Format selects the output parser.
	Format string
	// Root names a marker file. When set the linter runs from the nearest
	// ancestor directory holding it, and is skipped when there is none.
	Root string
	// Project linters check the whole Root tree and are not given the file.
	Project bool
	// Timeout overrides the runner's default when non-zero.
	Timeout time.Duration
}

// formatters maps dialect names to their default formatter.
var formatters = map[string]Tool{
	"python":     {Name: "ruff", Args: []string{"format"}},
	"typescript": {Name: "prettier", Args: []string{"--write"}},
	"swift":      {Name: "swiftformat"},
	"rust":       {Name: "rustfmt"},
	"go":         {Name: "gofmt", Args: []string{"-w"}},
}

// linters maps dialect names to the linters run on each edit, in order.
var linters = map[string][]Linter{
	"python": {
		{Tool: Tool{Name: "ruff", Args: []string{"check", "--output-format", "json"}}, Format: FormatRuff},
		{Tool: Tool{Name: "basedpyright", Args: []string{"--outputjson"}}, Format: FormatBasedpyright, Timeout: 30 * time.Second},
	},
	"typescript": {
		{Tool: Tool{Name: "eslint", Args: []string{"--format", "json"}}, Format: FormatESLint, Timeout: 30 * time.Second},
	},
	"swift": {
		{Tool: Tool{Name: "swiftlint", Args: []string{"lint", "--reporter", "json", "--path"}}, Format: FormatSwiftLint, Timeout: 30 * time.Second},
	},
	"rust": {
		{
			Tool:    Tool{Name: "cargo", Args: []string{"clippy", "--message-format=json", "--", "-W", "clippy::all"}},
			Format:  FormatClippy,
			Root:    "Cargo.toml",
			Project: true,
			Timeout: 60 * time.Second,
		},
	},
	"go": {
		{
			Tool:    Tool{Name: "go", Args: []string{"vet", "-json", "./..."}},
			Format:  FormatGoVet,
			Root:    "go.mod",
			Project: true,
			Timeout: 30 * time.Second,
		},
		{
			Tool:    Tool{Name: "golangci-lint", Args: []string{"run", "--output.json.path=stdout", "--show-stats=false", "--fast-only"}},
			Format:  FormatGolangci,
			Root:    "go.mod",
			Timeout: 30 * time.Second,
		},
	},
}

// known holds formatters selectable by name from [formatters] config.
var known = map[string]Tool{
	"ruff":         {Name: "ruff", Args: []string{"format"}},
	"black":        {Name: "black", Args: []string{"-q"}},
	"prettier":     {Name: "prettier", Args: []string{"--write"}},
	"biome":        {Name: "biome", Args: []string{"format", "--write"}},
	"deno":         {Name: "deno", Args: []string{"fmt"}},
	"swiftformat":  {Name: "swiftformat"},
	"swift-format": {Name: "swift-format", Args: []string{"-i"}},
	"rustfmt":      {Name: "rustfmt"},
	"gofmt":        {Name: "gofmt", Args: []string{"-w"}},
	"goimports":    {Name: "goimports", Args: []string{"-w"}},
	"gofumpt":      {Name: "gofumpt", Args: []string{"-w"}},
}

// LoadFormatters returns the formatter for every enabled dialect after
// applying configuration overrides. A dialect overridden with "none" has
// no entry.
func LoadFormatters(cfg *config.Config) map[string]Tool {
	out := make(map[string]Tool)
	for _, lang := range cfg.GetEnabledLanguages() {
		if tool, ok := FormatterFor(cfg, lang); ok {
			out[lang] = tool
		}
	}
	return out
}

// FormatterFor resolves the formatter for one dialect.
func FormatterFor(cfg *config.Config, lang string) (Tool, bool) {
	if name, ok := cfg.Formatter(lang); ok {
		if name == config.FormatterNone {
			return Tool{}, false
		}
		if tool, ok := known[name]; ok {
			return tool, true
		}
		// An unknown name is run as a bare command taking the file path.
		return Tool{Name: name}, true
	}
	tool, ok := formatters[lang]
	return tool, ok
}

// LintersFor returns the linters of a dialect. The slice is a copy.
func LintersFor(lang string) []Linter {
	return slices.Clone(linters[lang])
}

// AvailableLanguages returns the dialect names with a default formatter.
func AvailableLanguages() []string {
	var names []string
	for name := range formatters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsLanguageAvailable checks if a default formatter is registered.
func IsLanguageAvailable(name string) bool {
	_, ok := formatters[name]
	return ok
}

// RegisterFormatter registers or replaces the default formatter of a dialect.
func RegisterFormatter(lang string, tool Tool) {
	formatters[lang] = tool
}
