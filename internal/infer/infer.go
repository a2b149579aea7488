// Package infer derives commit metadata (type, scope, ticket) from file paths
// and branch names.
package infer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sprite-ai/commitwiz/internal/model"
)

// Rule assigns Type to any path matching one of Patterns. Patterns are
// doublestar globs evaluated against the lowercased, slash-separated path.
type Rule struct {
	Type     model.CommitType
	Patterns []string
}

// Ordered classification rules. The first matching rule wins, so a path that
// is both a test and a document (tests/README.md) classifies as a test.
var rules = []Rule{
	{
		Type: model.TypeTest,
		Patterns: mustPatterns(
			"**/*test*", "**/*test*/**",
			"**/*spec*", "**/*spec*/**",
		),
	},
	{
		Type: model.TypeDocs,
		Patterns: mustPatterns(
			"**/*.md", "**/*.rst", "**/*.adoc",
			"**/docs/**",
			"**/readme", "**/changelog", "**/contributing", "**/license",
		),
	},
	{
		Type: model.TypeCi,
		Patterns: mustPatterns(
			"**/.github/**", "**/.gitlab/**", "**/.circleci/**",
			"**/*pipeline*", "**/*pipeline*/**",
			"**/.gitlab-ci.yml", "**/.travis.yml", "**/jenkinsfile",
		),
	},
	{
		Type: model.TypeBuild,
		Patterns: mustPatterns(
			"**/dockerfile", "**/dockerfile.*", "**/*.dockerfile",
			"**/makefile", "**/cmakelists.txt",
			"**/package.json", "**/package-lock.json", "**/yarn.lock", "**/pnpm-lock.yaml",
			"**/go.mod", "**/go.sum",
			"**/cargo.toml", "**/cargo.lock",
			"**/pyproject.toml", "**/poetry.lock", "**/requirements.txt", "**/pipfile", "**/pipfile.lock",
			"**/gemfile", "**/gemfile.lock",
			"**/pom.xml", "**/build.gradle", "**/build.gradle.kts",
			"**/composer.json", "**/composer.lock",
			"**/mix.exs", "**/mix.lock",
		),
	},
	{
		Type: model.TypeStyle,
		Patterns: mustPatterns(
			"**/*.css", "**/*.scss", "**/*.sass", "**/*.less",
			"**/styles/**",
		),
	},
}

// Rules returns a copy of the classification rules in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Type: r.Type, Patterns: append([]string(nil), r.Patterns...)}
	}
	return out
}

// Classify returns the commit type of the first rule matching path, or
// TypeFeat when no rule matches.
func Classify(path string) model.CommitType {
	norm := normalize(path)
	for _, r := range rules {
		if r.matches(norm) {
			return r.Type
		}
	}
	return model.TypeFeat
}

func (r Rule) matches(path string) bool {
	for _, p := range r.Patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

// Scope returns the first directory component of path, or "" for files at
// the repository root.
func Scope(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	idx := strings.IndexByte(path, '/')
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}

var ticketPattern = regexp.MustCompile(`[A-Z]+-[0-9]+`)

// Ticket returns the first issue key (e.g. JIRA-42) found in branch, or "".
func Ticket(branch string) string {
	return ticketPattern.FindString(branch)
}

func normalize(path string) string {
	return strings.ToLower(strings.ReplaceAll(path, `\`, "/"))
}

func mustPatterns(patterns ...string) []string {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			panic(fmt.Sprintf("infer: invalid pattern %q", p))
		}
	}
	return patterns
}
