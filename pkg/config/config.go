// Package config provides configuration management for tidyhook.
// It supports multi-layer configuration with precedence:
//  1. Built-in defaults (lowest priority)
//  2. Global user config (~/.config/tidyhook/config.toml)
//  3. Project config (.tidyhook/config.toml or tidyhook.toml)
//  4. Explicit file named by TIDYHOOK_CONFIG
//  5. Environment variables (TIDYHOOK_*)
//  6. CLI flags (highest priority)
package config

import (
	"maps"
	"slices"
)

// Default file length thresholds.
const (
	DefaultWarnLines = 300
	DefaultMaxLines  = 500
)

// FormatterNone disables formatting for a dialect in [formatters].
const FormatterNone = "none"

// AllLanguages lists the dialect names tidyhook understands, in display order.
var AllLanguages = []string{"python", "typescript", "swift", "rust", "go"}

// Config is the main configuration struct for tidyhook.
type Config struct {
	// Features toggles the two post-edit actions.
	Features FeaturesConfig `toml:"features"`

	// Languages configures which dialects are processed.
	Languages LanguagesConfig `toml:"languages"`

	// Strip configures comment stripping.
	Strip StripConfig `toml:"strip"`

	// TreeSitter selects the parser backend for tokenized dialects.
	TreeSitter TreeSitterConfig `toml:"treesitter"`

	// Limits configures the file length warnings.
	Limits LimitsConfig `toml:"limits"`

	// Formatters overrides the formatter per dialect, keyed by dialect name.
	Formatters map[string]string `toml:"formatters"`

	// Sources lists the config files that were merged, in load order.
	Sources []string `toml:"-"`
}

// FeaturesConfig holds feature flags.
type FeaturesConfig struct {
	CommentStripping *bool `toml:"comment_stripping"`
	Formatting       *bool `toml:"formatting"`
}

// LanguagesConfig specifies which languages to enable/disable.
type LanguagesConfig struct {
	// Enabled is the list of dialects to process.
	Enabled []string `toml:"enabled"`

	// Disabled is the list of dialects to skip.
	// Takes precedence over Enabled.
	Disabled []string `toml:"disabled"`
}

// StripConfig holds comment stripping settings.
type StripConfig struct {
	// Exclude holds doublestar globs, relative to the workspace root, of
	// files never stripped.
	Exclude []string `toml:"exclude"`

	// VerifySyntax re-parses heuristic results and refuses a strip that
	// breaks a file which parsed cleanly before. Needs the CGO backend.
	VerifySyntax *bool `toml:"verify_syntax"`
}

// TreeSitterConfig holds parser settings.
type TreeSitterConfig struct {
	// Backend is "auto", "cgo" or "wazero".
	Backend string `toml:"backend"`
}

// LimitsConfig holds the file length thresholds.
type LimitsConfig struct {
	WarnLines int `toml:"warn_lines"`
	MaxLines  int `toml:"max_lines"`
}

// NewConfig creates a new Config with built-in defaults.
func NewConfig() *Config {
	trueVal := true
	return &Config{
		Features: FeaturesConfig{
			CommentStripping: &trueVal,
			Formatting:       &trueVal,
		},
		Languages: LanguagesConfig{
			Enabled:  slices.Clone(AllLanguages),
			Disabled: []string{},
		},
		TreeSitter: TreeSitterConfig{
			Backend: "auto",
		},
		Limits: LimitsConfig{
			WarnLines: DefaultWarnLines,
			MaxLines:  DefaultMaxLines,
		},
		Formatters: map[string]string{},
	}
}

// IsLanguageEnabled checks if a language is enabled in the configuration.
func (c *Config) IsLanguageEnabled(lang string) bool {
	if slices.Contains(c.Languages.Disabled, lang) {
		return false
	}
	return slices.Contains(c.Languages.Enabled, lang)
}

// GetEnabledLanguages returns the list of enabled language names.
func (c *Config) GetEnabledLanguages() []string {
	var enabled []string
	for _, lang := range AllLanguages {
		if c.IsLanguageEnabled(lang) {
			enabled = append(enabled, lang)
		}
	}
	return enabled
}

// CommentStrippingEnabled reports whether the strip step runs.
func (c *Config) CommentStrippingEnabled() bool {
	return c.Features.CommentStripping == nil || *c.Features.CommentStripping
}

// FormattingEnabled reports whether the format step runs.
func (c *Config) FormattingEnabled() bool {
	return c.Features.Formatting == nil || *c.Features.Formatting
}

// SyntaxCheckEnabled reports whether stripped output is re-parsed.
func (c *Config) SyntaxCheckEnabled() bool {
	return c.Strip.VerifySyntax != nil && *c.Strip.VerifySyntax
}

// Formatter returns the formatter override for lang, if any.
func (c *Config) Formatter(lang string) (string, bool) {
	name, ok := c.Formatters[lang]
	return name, ok && name != ""
}

// Merge merges another config into this one (other takes precedence).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Features.CommentStripping != nil {
		c.Features.CommentStripping = other.Features.CommentStripping
	}
	if other.Features.Formatting != nil {
		c.Features.Formatting = other.Features.Formatting
	}

	if len(other.Languages.Enabled) > 0 {
		c.Languages.Enabled = other.Languages.Enabled
	}
	if len(other.Languages.Disabled) > 0 {
		c.Languages.Disabled = append(c.Languages.Disabled, other.Languages.Disabled...)
	}

	// Exclusions accumulate across layers.
	c.Strip.Exclude = append(c.Strip.Exclude, other.Strip.Exclude...)

	if other.Strip.VerifySyntax != nil {
		c.Strip.VerifySyntax = other.Strip.VerifySyntax
	}

	if other.TreeSitter.Backend != "" {
		c.TreeSitter.Backend = other.TreeSitter.Backend
	}

	if other.Limits.WarnLines > 0 {
		c.Limits.WarnLines = other.Limits.WarnLines
	}
	if other.Limits.MaxLines > 0 {
		c.Limits.MaxLines = other.Limits.MaxLines
	}

	if c.Formatters == nil {
		c.Formatters = map[string]string{}
	}
	maps.Copy(c.Formatters, other.Formatters)

	c.Sources = append(c.Sources, other.Sources...)
}
