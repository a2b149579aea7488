package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sprite-ai/commitwiz/internal/model"
)

const (
	maxDiffLen   = 1000
	maxDiffFiles = 5
)

// MessagePrompt asks for a description and optional body for g.
func MessagePrompt(g *model.ChangeGroup, diff string) string {
	var b strings.Builder
	b.WriteString("Generate a conventional commit message for these changes.\n\n")
	if g.Ticket != "" {
		fmt.Fprintf(&b, "Ticket number: %s\n\n", g.Ticket)
	}

	b.WriteString("REQUIREMENTS:\n")
	b.WriteString("- Use imperative mood: 'add feature' NOT 'added feature'\n")
	b.WriteString("- Keep description concise and factual\n")
	b.WriteString("- Do NOT include type/scope prefix (feat:, fix:, etc.)\n")
	b.WriteString("- Start with a lowercase verb\n")
	b.WriteString("- No period at the end of description\n")
	b.WriteString("- Keep subject line under 72 characters\n")
	b.WriteString("- If providing a body, provide plain text lines WITHOUT bullet point prefix\n")
	b.WriteString("- Mention breaking changes if applicable\n\n")

	fmt.Fprintf(&b, "Type: %s\n", g.Type)
	if g.Scope != "" {
		fmt.Fprintf(&b, "Scope: %s\n", g.Scope)
	}

	b.WriteString("\nCHANGED FILES:\n")
	for _, f := range g.Files {
		fmt.Fprintf(&b, "  - %s\n", f.Path)
	}

	if diff != "" {
		b.WriteString("\nDIFF:\n")
		b.WriteString(truncate(diff))
	}

	fmt.Fprintf(&b, "\n\nGenerate ONLY the commit message between these markers:\n%s\n", startMarker)
	b.WriteString("<description>\n\n<optional body lines>\n")
	fmt.Fprintf(&b, "%s\n", endMarker)
	return b.String()
}

// GroupingPrompt asks for a JSON grouping of files. At most five diffs are
// included, chosen by path order.
func GroupingPrompt(files []model.ChangedFile, ticket string, diffs map[string]string) string {
	var b strings.Builder
	b.WriteString("Analyze these changed files and group them into logical commits.\n\n")
	b.WriteString("REQUIREMENTS:\n")
	b.WriteString("- Group files that belong to the same logical change\n")
	b.WriteString("- Keep dependent changes in the same group\n")
	b.WriteString("- Be sure that a file is only in one group\n")
	b.WriteString("- Assign a conventional commit type (test, docs, ci, build, style, feat)\n")
	b.WriteString("- Determine scope from file paths (e.g., 'api', 'ui', 'auth')\n")
	b.WriteString("- Generate concise, imperative descriptions under 72 characters\n\n")

	if ticket != "" {
		fmt.Fprintf(&b, "Ticket/Issue: %s\n\n", ticket)
	}

	b.WriteString("CHANGED FILES:\n")
	for _, f := range files {
		fmt.Fprintf(&b, "  %s - %s\n", f.Status, f.Path)
	}

	if len(diffs) > 0 {
		paths := make([]string, 0, len(diffs))
		for p := range diffs {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		if len(paths) > maxDiffFiles {
			paths = paths[:maxDiffFiles]
		}

		b.WriteString("\nDIFF PREVIEW:\n")
		for _, p := range paths {
			fmt.Fprintf(&b, "\n%s:\n%s", p, truncate(diffs[p]))
		}
	}

	fmt.Fprintf(&b, "\n\nProvide the grouping in JSON format between these markers:\n%s\n", startMarker)
	b.WriteString(`[
  {
    "type": "feat",
    "scope": "api",
    "description": "add user endpoint",
    "files": ["src/api/users.rs"],
    "body_lines": ["implement GET /users", "add user model"]
  }
]
`)
	fmt.Fprintf(&b, "%s\n", endMarker)
	return b.String()
}

func truncate(diff string) string {
	if len(diff) <= maxDiffLen {
		return diff
	}
	return diff[:maxDiffLen] + "\n... (truncated)"
}
