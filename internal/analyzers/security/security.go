// Package security implements the built-in security analyzer unit:
// pattern-based detection of injection sinks, hardcoded credentials, and
// insecure transport.
package security

import (
	"regexp"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers"
)

// rule is one pattern-based security check.
type rule struct {
	pattern     *regexp.Regexp
	kind        analysis.IssueKind
	severity    analysis.Severity
	title       string
	description string
	suggestion  string
}

// rules are evaluated per line, in order. Order is part of the unit's
// deterministic output contract.
var rules = []rule{
	{
		pattern:     regexp.MustCompile(`\beval\s*\(`),
		kind:        analysis.KindError,
		severity:    analysis.SeverityHigh,
		title:       "Use of eval",
		description: "eval executes arbitrary strings as code and is a classic injection vector.",
		suggestion:  "Replace eval with explicit parsing or a lookup of allowed operations.",
	},
	{
		pattern:     regexp.MustCompile(`\.innerHTML\s*=`),
		kind:        analysis.KindError,
		severity:    analysis.SeverityHigh,
		title:       "Potential XSS via innerHTML",
		description: "Assigning to innerHTML inserts markup into the DOM; untrusted input leads to cross-site scripting.",
		suggestion:  "Use textContent, or sanitize and escape the input before insertion.",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(password|passwd|secret|api_?key|auth_?token)\b\s*[:=]\s*["'][^"']{4,}["']`),
		kind:        analysis.KindError,
		severity:    analysis.SeverityHigh,
		title:       "Hardcoded credential",
		description: "A credential-like value is embedded in source and will leak with the repository.",
		suggestion:  "Move the secret to the environment or a secret manager and rotate it.",
	},
	{
		pattern:     regexp.MustCompile(`\b(system|exec|popen)\s*\(\s*[^)"']*\+`),
		kind:        analysis.KindWarning,
		severity:    analysis.SeverityMedium,
		title:       "Command built by concatenation",
		description: "A shell command assembled from concatenated values invites command injection.",
		suggestion:  "Pass arguments as a list and avoid the shell, or validate against an allow-list.",
	},
	{
		pattern:     regexp.MustCompile(`\bdocument\.write\s*\(`),
		kind:        analysis.KindWarning,
		severity:    analysis.SeverityMedium,
		title:       "Use of document.write",
		description: "document.write with dynamic content is an injection sink and blocks parsing.",
		suggestion:  "Build DOM nodes explicitly and append them instead.",
	},
	{
		pattern:     regexp.MustCompile(`["']http://[^"'\s]+["']`),
		kind:        analysis.KindInfo,
		severity:    analysis.SeverityLow,
		title:       "Insecure transport URL",
		description: "A plain HTTP URL transmits data unencrypted.",
		suggestion:  "Use https:// unless the endpoint is loopback-only.",
	},
}

// Unit is the built-in security analyzer.
type Unit struct{}

// New creates the built-in security unit.
func New() *Unit { return &Unit{} }

// Name implements analyzers.Unit.
func (u *Unit) Name() string { return "builtin/security" }

// Category implements analyzers.Unit.
func (u *Unit) Category() analysis.Category { return analysis.CategorySecurity }

// Analyze implements analyzers.Unit. Each rule is applied to each line;
// findings are emitted in line order, then rule order.
func (u *Unit) Analyze(file analysis.UploadedFile, _ analysis.Config) ([]analysis.Issue, error) {
	lines := analyzers.SplitLines(file.Content)

	var issues []analysis.Issue

	for i, line := range lines {
		for _, r := range rules {
			loc := r.pattern.FindStringIndex(line)
			if loc == nil {
				continue
			}

			issues = append(issues, analysis.Issue{
				Kind:        r.kind,
				Category:    string(analysis.CategorySecurity),
				Title:       r.title,
				Description: r.description,
				File:        file.Name,
				Line:        i + 1,
				Column:      loc[0] + 1,
				Severity:    r.severity,
				Suggestion:  r.suggestion,
				CodeSnippet: analyzers.Snippet(line),
			})
		}
	}

	return issues, nil
}
