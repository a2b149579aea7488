package tui

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/commitwiz/internal/message"
	"github.com/sprite-ai/commitwiz/internal/session"
)

// Panel sizes include the border; content gets width-4 by height-2.

func (m Model) renderGroupList(width, height int) string {
	inner := width - 4
	visible := max(height-3, 1)

	var b strings.Builder
	switch m.pick {
	case pickMove:
		path, _ := m.cursorPath()
		b.WriteString(panelTitleStyle.Render(truncate("Move "+path+" to:", inner)))
	case pickMerge:
		b.WriteString(panelTitleStyle.Render("Merge into:"))
	default:
		b.WriteString(panelTitleStyle.Render(fmt.Sprintf("Groups (%d)", m.sess.Len())))
	}
	b.WriteByte('\n')

	groups := m.sess.Groups()
	if len(groups) == 0 {
		b.WriteString(mutedStyle.Render("All changes committed"))
	}

	cursor := m.sess.SelectedIndex()
	if m.pick != pickNone {
		cursor = m.pickTarget
	}
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := min(start+visible, len(groups))

	for i := start; i < end; i++ {
		g := groups[i]
		line := truncate(fmt.Sprintf("%s [%d]", message.Header(&g), len(g.Files)), inner)

		style := groupItemStyle
		switch {
		case m.pick != pickNone && i == m.pickTarget:
			style = groupTargetStyle
		case i == m.sess.SelectedIndex():
			style = groupItemSelectedStyle
		}
		b.WriteString(style.Width(inner).Render(line))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	style := panelStyle
	if m.pick != pickNone || m.sess.Mode() == session.Browsing {
		style = activePanelStyle
	}
	return style.Width(width - 2).Height(height - 2).Render(b.String())
}

func (m Model) renderMessage(width, height int) string {
	inner := width - 4
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Message"))
	b.WriteByte('\n')

	g, ok := m.sess.Selected()
	if !ok {
		b.WriteString(mutedStyle.Render("Nothing to commit"))
		return panelStyle.Width(width - 2).Height(height - 2).Render(b.String())
	}

	meta := groupTypeStyle.Render(g.Type.String())
	if g.Scope != "" {
		meta += mutedStyle.Render(" scope " + g.Scope)
	}
	if g.Ticket != "" {
		meta += mutedStyle.Render(" ticket " + g.Ticket)
	}
	b.WriteString(meta)
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(truncate(message.Header(&g), inner)))

	if len(g.BodyLines) > 0 {
		b.WriteString("\n")
		room := max(height-7, 0)
		for i, line := range g.BodyLines {
			if i == room {
				b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("(%d more lines)", len(g.BodyLines)-i)))
				break
			}
			b.WriteString("\n" + bodyStyle.Render(truncate(line, inner)))
		}
	}
	return panelStyle.Width(width - 2).Height(height - 2).Render(b.String())
}

func (m Model) renderFiles(width, height int) string {
	inner := width - 4
	visible := max(height-3, 1)

	var b strings.Builder
	g, ok := m.sess.Selected()
	b.WriteString(panelTitleStyle.Render(fmt.Sprintf("Files (%d)", len(g.Files))))
	if ok && len(g.Files) > 0 {
		cursor := min(m.fileCursor, len(g.Files)-1)
		start := 0
		if cursor >= visible {
			start = cursor - visible + 1
		}
		end := min(start+visible, len(g.Files))
		for i := start; i < end; i++ {
			f := g.Files[i]
			style := fileStyle(f)
			if i == cursor {
				style = fileItemSelectedStyle
			}
			b.WriteString("\n" + style.Width(inner).Render(truncateLeft(fileLabel(f), inner)))
		}
	}
	return panelStyle.Width(width - 2).Height(height - 2).Render(b.String())
}

func (m Model) renderEditor(width, height int) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Edit message"))
	b.WriteByte('\n')
	b.WriteString(m.textarea.View())
	return activePanelStyle.Width(width - 2).Height(height - 2).Render(b.String())
}

func (m Model) renderDiffPanel(width, height int) string {
	path, i, total := m.sess.DiffFile()
	title := fmt.Sprintf("%s (%d/%d)", path, i+1, total)
	if m.splitView {
		title += "  split"
	}

	var b strings.Builder
	b.WriteString(fileHeaderStyle.Render(truncateLeft(title, width-4)))
	b.WriteByte('\n')
	b.WriteString(m.viewport.View())
	return activePanelStyle.Width(width - 2).Height(height - 2).Render(b.String())
}
