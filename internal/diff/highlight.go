package diff

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used by HighlightLines.
const DefaultStyle = "dracula"

// HighlightedLine is a line split into syntax-highlighted tokens.
type HighlightedLine struct {
	Tokens []Token
}

// Token is a syntax-highlighted chunk of text.
type Token struct {
	Text  string
	Color string // hex color, empty for default
}

// Plain returns the concatenated plain text of all tokens.
func (hl HighlightedLine) Plain() string {
	var b strings.Builder
	for _, t := range hl.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Highlighter tokenises source lines with a fixed chroma style.
type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter returns a Highlighter for the named style, falling back to
// chroma's default style for unknown names.
func NewHighlighter(styleName string) *Highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{style: style}
}

var defaultHighlighter = NewHighlighter(DefaultStyle)

// KnownStyle reports whether name is a registered chroma style.
func KnownStyle(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	return ok
}

// HighlightLines highlights lines of filename with DefaultStyle.
func HighlightLines(filename string, lines []string) []HighlightedLine {
	return defaultHighlighter.Lines(filename, lines)
}

// Lines returns one HighlightedLine per input line. Files without a known
// lexer come back as single plain tokens.
func (h *Highlighter) Lines(filename string, lines []string) []HighlightedLine {
	lexer := lexerFor(filename)
	if lexer == nil {
		return plainLines(lines)
	}
	iterator, err := lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return plainLines(lines)
	}

	out := make([]HighlightedLine, 0, len(lines))
	var cur HighlightedLine
	for _, tok := range iterator.Tokens() {
		for i, part := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				out = append(out, cur)
				cur = HighlightedLine{}
			}
			if part != "" {
				cur.Tokens = append(cur.Tokens, Token{Text: part, Color: h.color(tok.Type)})
			}
		}
	}
	out = append(out, cur)

	// Lexers may drop a trailing empty line; keep the count aligned.
	for len(out) < len(lines) {
		out = append(out, HighlightedLine{Tokens: []Token{{}}})
	}
	return out[:len(lines)]
}

func (h *Highlighter) color(tt chroma.TokenType) string {
	if entry := h.style.Get(tt); entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}

func plainLines(lines []string) []HighlightedLine {
	out := make([]HighlightedLine, len(lines))
	for i, line := range lines {
		out[i] = HighlightedLine{Tokens: []Token{{Text: line}}}
	}
	return out
}

func lexerFor(filename string) chroma.Lexer {
	lexer := lexers.Match(filepath.Base(filename))
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}
