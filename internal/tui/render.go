package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sprite-ai/commitwiz/internal/diff"
	"github.com/sprite-ai/commitwiz/internal/model"
)

// renderHighlightedContent renders line content with syntax tokens.
func renderHighlightedContent(l diff.Line, prefix string) string {
	if len(l.Tokens) == 0 {
		return prefix + l.Content
	}

	var b strings.Builder
	b.WriteString(prefix)
	for _, tok := range l.Tokens {
		if tok.Color != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
		} else {
			b.WriteString(tok.Text)
		}
	}
	return b.String()
}

func lineNumber(n int) string {
	if n > 0 {
		return fmt.Sprintf("%4d", n)
	}
	return "    "
}

// styleLine renders a diff line for the unified view.
func styleLine(l diff.Line, width int) string {
	switch l.Kind {
	case diff.KindHunk:
		return hunkHeaderStyle.Render(truncate(l.Content, width))
	case diff.KindSeparator:
		return ""
	}

	nums := lineNumberStyle.Render(lineNumber(l.OldNum)) + " " + lineNumberStyle.Render(lineNumber(l.NewNum))
	maxContent := width - 11
	prefix := l.Prefix()

	var content string
	switch l.Kind {
	case diff.KindAdded:
		content = addedLineStyle.Render(truncate(prefix+l.Content, maxContent))
	case diff.KindDeleted:
		content = deletedLineStyle.Render(truncate(prefix+l.Content, maxContent))
	default:
		// Context lines carry syntax colors; long ones fall back to plain text.
		content = renderHighlightedContent(l, prefix)
		if maxContent > 0 && lipgloss.Width(content) > maxContent {
			content = contextLineStyle.Render(truncate(prefix+l.Content, maxContent))
		}
	}
	return nums + " " + content
}

// styleLineSplit renders a line for the side-by-side view.
func styleLineSplit(l diff.Line, halfWidth int) (left, right string) {
	blank := strings.Repeat(" ", max(halfWidth, 0))
	switch l.Kind {
	case diff.KindHunk:
		return hunkHeaderStyle.Width(halfWidth).Render(truncate(l.Content, halfWidth)), ""
	case diff.KindSeparator:
		return blank, ""
	}

	maxContent := halfWidth - 6
	content := truncate(l.Content, maxContent)
	switch l.Kind {
	case diff.KindDeleted:
		left = lineNumberStyle.Render(lineNumber(l.OldNum)) + " " + deletedLineStyle.Render("-"+content)
		right = blank
	case diff.KindAdded:
		left = blank
		right = lineNumberStyle.Render(lineNumber(l.NewNum)) + " " + addedLineStyle.Render("+"+content)
	default:
		left = lineNumberStyle.Render(lineNumber(l.OldNum)) + " " + contextLineStyle.Render(" "+content)
		right = lineNumberStyle.Render(lineNumber(l.NewNum)) + " " + contextLineStyle.Render(" "+content)
	}
	return left, right
}

// renderDiffContent styles every line of a parsed diff for the viewport.
func renderDiffContent(h *diff.Highlighter, ds *diff.DiffSet, width int, split bool) string {
	if ds == nil || len(ds.Files) == 0 {
		return mutedStyle.Render("No changes")
	}

	var out []string
	for i, f := range ds.Files {
		if i > 0 {
			out = append(out, "")
		}
		if len(ds.Files) > 1 {
			out = append(out, panelTitleStyle.Render(f.Name()))
		}
		for _, l := range h.Render(f) {
			if split {
				halfWidth := (width - 3) / 2
				left, right := styleLineSplit(l, halfWidth)
				out = append(out, lipgloss.NewStyle().Width(halfWidth).Render(left)+" │ "+right)
				continue
			}
			out = append(out, styleLine(l, width))
		}
	}
	return strings.Join(out, "\n")
}

func fileStyle(f model.ChangedFile) lipgloss.Style {
	switch f.Status {
	case model.StatusAdded, model.StatusUntracked:
		return fileItemNewStyle
	case model.StatusDeleted:
		return fileItemDeletedStyle
	case model.StatusRenamed:
		return fileItemRenamedStyle
	default:
		return fileItemStyle
	}
}

func fileLabel(f model.ChangedFile) string {
	if f.Status == model.StatusRenamed && f.OldPath != "" {
		return fmt.Sprintf("%s %s → %s", f.Status.Code(), f.OldPath, f.Path)
	}
	return fmt.Sprintf("%s %s", f.Status.Code(), f.Path)
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}

// truncateLeft keeps the tail of s, which suits paths.
func truncateLeft(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > max {
		return "…" + string(r[len(r)-max+1:])
	}
	return s
}
