package tui

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/commitwiz/internal/message"
	"github.com/sprite-ai/commitwiz/internal/model"
)

// Outcome is what an interactive run left behind.
type Outcome struct {
	Committed []string // headers, in commit order
	Remaining []model.ChangeGroup
}

// Summary formats the outcome for printing after the TUI exits.
func (o Outcome) Summary() string {
	var b strings.Builder
	switch len(o.Committed) {
	case 0:
		b.WriteString("No commits created.\n")
	case 1:
		b.WriteString("Created 1 commit:\n")
	default:
		fmt.Fprintf(&b, "Created %d commits:\n", len(o.Committed))
	}
	for _, h := range o.Committed {
		fmt.Fprintf(&b, "  %s\n", h)
	}

	if n := len(o.Remaining); n > 0 {
		noun := "groups"
		if n == 1 {
			noun = "group"
		}
		fmt.Fprintf(&b, "\n%d %s left uncommitted:\n", n, noun)
		for i := range o.Remaining {
			fmt.Fprintf(&b, "  %s (%d files)\n", message.Header(&o.Remaining[i]), len(o.Remaining[i].Files))
		}
	}
	return b.String()
}
