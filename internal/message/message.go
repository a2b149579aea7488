// Package message renders and parses commit message text for change groups.
package message

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sprite-ai/commitwiz/internal/model"
)

// MaxHeaderLength is the longest header Header will produce, in characters.
const MaxHeaderLength = 72

const truncationMarker = "..."

// Prefix renders the "type(scope): ticket: " part of the header.
func Prefix(g *model.ChangeGroup) string {
	var b strings.Builder
	b.WriteString(g.Type.String())
	if g.Scope != "" {
		b.WriteString("(" + g.Scope + ")")
	}
	b.WriteString(": ")
	if g.Ticket != "" {
		b.WriteString(g.Ticket + ": ")
	}
	return b.String()
}

// Header renders the single-line summary. Descriptions that would push the
// header past MaxHeaderLength are cut and suffixed with "..." so the result
// is exactly MaxHeaderLength characters.
func Header(g *model.ChangeGroup) string {
	prefix := Prefix(g)
	full := prefix + g.Description
	if utf8.RuneCountInString(full) <= MaxHeaderLength {
		return full
	}

	room := MaxHeaderLength - utf8.RuneCountInString(prefix) - len(truncationMarker)
	if room <= 0 {
		return cutRunes(full, MaxHeaderLength)
	}
	return prefix + cutRunes(g.Description, room) + truncationMarker
}

// FullMessage renders the header followed, when the group has body lines, by
// a blank line and one "- " bullet per body line.
func FullMessage(g *model.ChangeGroup) string {
	return Header(g) + renderBody(g.BodyLines)
}

// EditText is FullMessage with the description left untruncated. It seeds
// edit buffers so an unchanged save keeps the description intact.
func EditText(g *model.ChangeGroup) string {
	return Prefix(g) + g.Description + renderBody(g.BodyLines)
}

func renderBody(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\n")
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// ValidScope reports whether scope can sit between the parentheses of a
// header.
func ValidScope(scope string) bool {
	return !strings.ContainsAny(scope, "()\r\n")
}

// ParseEdited splits user-edited text into a description and body lines.
//
// The first line becomes the description. When it starts with prefix (the
// group's own Prefix) that text is dropped; nothing else is stripped, and the
// group's type, scope and ticket are never re-derived from the text. Every
// non-empty line after the first blank line becomes a body line, with a
// leading "- " bullet removed.
func ParseEdited(raw, prefix string) (description string, body []string) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")

	first := strings.TrimSpace(lines[0])
	switch {
	case prefix != "" && strings.HasPrefix(first, prefix):
		first = first[len(prefix):]
	case prefix != "" && first == strings.TrimSpace(prefix):
		first = ""
	}
	description = strings.TrimSpace(first)

	inBody := false
	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if !inBody {
			if trimmed == "" {
				inBody = true
			}
			continue
		}
		if trimmed == "" {
			continue
		}
		body = append(body, stripBullet(trimmed))
	}
	return description, body
}

// ErrEmptyResponse is returned when an assistant reply has no description.
var ErrEmptyResponse = errors.New("empty response")

// ParseAIResponse turns an assistant reply into a description and body lines.
// Code fences and surrounding quotes are removed.
func ParseAIResponse(raw string) (description string, body []string, err error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	lines := strings.Split(cleaned, "\n")
	description = strings.Trim(strings.TrimSpace(lines[0]), "\"`")
	description = stripTypePrefix(description)
	if description == "" {
		return "", nil, ErrEmptyResponse
	}

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		body = append(body, stripBullet(line))
	}
	return description, body, nil
}

// stripTypePrefix drops a leading "type(scope)!: " when type is a known
// commit type. Assistants often answer with a whole header.
func stripTypePrefix(line string) string {
	head, rest, ok := strings.Cut(line, ": ")
	if !ok {
		return line
	}
	name := strings.TrimSuffix(head, "!")
	if open := strings.IndexByte(name, '('); open >= 0 {
		if !strings.HasSuffix(name, ")") {
			return line
		}
		name = name[:open]
	}
	for _, t := range model.AllTypes() {
		if t.String() == name {
			return strings.TrimSpace(rest)
		}
	}
	return line
}

func stripBullet(line string) string {
	for _, bullet := range []string{"- ", "* "} {
		if strings.HasPrefix(line, bullet) {
			return strings.TrimSpace(line[len(bullet):])
		}
	}
	return line
}

func cutRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
