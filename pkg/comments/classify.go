package comments

import (
	"regexp"
	"strings"
)

// Decision is the classifier's verdict on one comment.
type Decision int

const (
	Preserve Decision = iota
	Strip
)

func (d Decision) String() string {
	if d == Strip {
		return "strip"
	}
	return "preserve"
}

// Kind is the positional shape of a comment.
type Kind int

const (
	// KindWholeLine is a line comment with only whitespace before it.
	KindWholeLine Kind = iota
	// KindInline is a line comment trailing code on the same line.
	KindInline
	// KindBlockSingleLine opens and closes on one line.
	KindBlockSingleLine
	// KindBlockMultiLine spans several lines.
	KindBlockMultiLine
)

func (k Kind) String() string {
	switch k {
	case KindWholeLine:
		return "whole-line"
	case KindInline:
		return "inline"
	case KindBlockSingleLine:
		return "block"
	case KindBlockMultiLine:
		return "block-multiline"
	default:
		return "unknown"
	}
}

// Rule names the classifier rule that produced a decision.
type Rule string

const (
	RuleShebang     Rule = "shebang"
	RuleDirective   Rule = "type-directive"
	RuleSuppression Rule = "suppression"
	RuleMarker      Rule = "marker"
	RuleLicense     Rule = "license"
	RuleDoc         Rule = "doc"
	RuleDeclaration Rule = "declaration"
	RuleNoise       Rule = "noise"
)

// LicenseLineLimit is the number of leading lines in which license
// vocabulary preserves a comment.
const LicenseLineLimit = 10

var (
	markerPattern  = regexp.MustCompile(`(?i)(TODO|FIXME|NOTE|HACK|WARNING|XXX|SAFETY|INVARIANT|IMPORTANT)`)
	licensePattern = regexp.MustCompile(`(?i)(license|copyright|MIT|Apache|BSD|GPL|Mozilla|ISC|SPDX)`)
)

// Context is the positional information the classifier needs besides the
// comment text.
type Context struct {
	// Line is the 0-indexed line of the comment's first character.
	Line int
	Kind Kind
	// NextLine is the physical line right after the comment; empty at end
	// of file. Only the last line of a comment group touches a declaration.
	NextLine string
	// DocString marks Python docstrings reported by the exact scanner.
	DocString bool
}

// Classify decides whether a comment is signal or noise. Rules are tried in
// order and the first match preserves; a comment matching none is stripped.
//
// Trailing comments found by the line heuristic are only checked against
// directives, suppressions and markers. Their position after code makes
// doc, license and shebang readings implausible, and the heuristic's
// cut may be wrong.
func Classify(p *Profile, text string, c Context) (Decision, Rule) {
	limited := c.Kind == KindInline && !p.Tokenized

	if !limited && c.Line == 0 && strings.HasPrefix(text, "#!") {
		return Preserve, RuleShebang
	}
	if containsAny(text, p.TypeDirectives) {
		return Preserve, RuleDirective
	}
	if containsAny(text, p.Suppressions) {
		return Preserve, RuleSuppression
	}
	if markerPattern.MatchString(text) {
		return Preserve, RuleMarker
	}
	if limited {
		return Strip, RuleNoise
	}
	if (c.Line < LicenseLineLimit || blockOpener(p, c.Kind)) && licensePattern.MatchString(text) {
		return Preserve, RuleLicense
	}
	if c.DocString || isDoc(p, text) {
		return Preserve, RuleDoc
	}
	if p.DeclAdjacency && c.Kind == KindWholeLine && startsDeclaration(p, c.NextLine) {
		return Preserve, RuleDeclaration
	}
	return Strip, RuleNoise
}

// blockOpener reports whether a heuristic profile is classifying the
// opening line of a block comment, where license text counts at any depth.
func blockOpener(p *Profile, k Kind) bool {
	return !p.Tokenized && (k == KindBlockSingleLine || k == KindBlockMultiLine)
}

func isDoc(p *Profile, text string) bool {
	t := strings.TrimLeft(text, " \t")
	if p.BlockOpen != "" && strings.HasPrefix(t, p.BlockOpen+p.BlockClose) {
		// "/**/" is an empty block, not a doc opener.
		return false
	}
	for _, prefix := range p.DocPrefixes {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

func startsDeclaration(p *Profile, line string) bool {
	t := strings.TrimLeft(line, " \t")
	for _, kw := range p.DeclKeywords {
		if strings.HasPrefix(t, kw) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
