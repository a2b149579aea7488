package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// LineKind distinguishes rendered diff lines.
type LineKind int

const (
	KindContext LineKind = iota
	KindAdded
	KindDeleted
	KindHunk
	KindSeparator
)

// Line is one display line of a file's diff.
type Line struct {
	Kind    LineKind
	OldNum  int // 0 when the line does not exist on the old side
	NewNum  int // 0 when the line does not exist on the new side
	Content string
	Tokens  []Token
}

// Prefix returns the unified diff marker for the line.
func (l Line) Prefix() string {
	switch l.Kind {
	case KindAdded:
		return "+"
	case KindDeleted:
		return "-"
	case KindContext:
		return " "
	default:
		return ""
	}
}

// RenderLines renders f with DefaultStyle.
func RenderLines(f *File) []Line {
	return defaultHighlighter.Render(f)
}

// Render turns f's fragments into numbered, highlighted display lines.
// Hunks are introduced by a header line and separated by a blank line.
func (h *Highlighter) Render(f *File) []Line {
	if f.IsBinary {
		return []Line{{Kind: KindHunk, Content: "Binary file"}}
	}

	var content []string
	for _, frag := range f.Fragments {
		for _, line := range frag.Lines {
			content = append(content, strings.TrimRight(line.Line, "\r\n"))
		}
	}
	path := f.NewName
	if path == "" {
		path = f.OldName
	}
	highlighted := h.Lines(path, content)

	var lines []Line
	hl := 0
	for i, frag := range f.Fragments {
		if i > 0 {
			lines = append(lines, Line{Kind: KindSeparator})
		}
		lines = append(lines, Line{Kind: KindHunk, Content: HunkHeader(frag)})

		oldNum, newNum := int(frag.OldPosition), int(frag.NewPosition)
		for _, fl := range frag.Lines {
			l := Line{Content: strings.TrimRight(fl.Line, "\r\n")}
			if hl < len(highlighted) {
				l.Tokens = highlighted[hl].Tokens
				hl++
			}
			switch fl.Op {
			case gitdiff.OpAdd:
				l.Kind = KindAdded
				l.NewNum = newNum
				newNum++
			case gitdiff.OpDelete:
				l.Kind = KindDeleted
				l.OldNum = oldNum
				oldNum++
			default:
				l.Kind = KindContext
				l.OldNum, l.NewNum = oldNum, newNum
				oldNum++
				newNum++
			}
			lines = append(lines, l)
		}
	}
	return lines
}

// HunkHeader formats the "@@ -a,b +c,d @@" line of a fragment.
func HunkHeader(frag *gitdiff.TextFragment) string {
	oldRange := fmt.Sprintf("-%d", frag.OldPosition)
	if frag.OldLines != 1 {
		oldRange += fmt.Sprintf(",%d", frag.OldLines)
	}
	newRange := fmt.Sprintf("+%d", frag.NewPosition)
	if frag.NewLines != 1 {
		newRange += fmt.Sprintf(",%d", frag.NewLines)
	}

	header := fmt.Sprintf("@@ %s %s @@", oldRange, newRange)
	if frag.Comment != "" {
		header += " " + frag.Comment
	}
	return header
}
