package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sprite-ai/commitwiz/internal/group"
	"github.com/sprite-ai/commitwiz/internal/infer"
	"github.com/sprite-ai/commitwiz/internal/message"
	"github.com/sprite-ai/commitwiz/internal/model"
)

type groupJSON struct {
	Type        string   `json:"type"`
	Scope       string   `json:"scope"`
	Description string   `json:"description"`
	Files       []string `json:"files"`
	BodyLines   []string `json:"body_lines"`
}

// ParseGroups decodes an assistant grouping. Unknown paths are ignored;
// files the assistant left out are grouped heuristically and appended.
// Manual-only types and unusable scopes are replaced with what the path rules
// infer for the group's first file. The combined result is sorted like a
// heuristic grouping and must pass group.Validate.
func ParseGroups(response string, files []model.ChangedFile, ticket string) ([]model.ChangeGroup, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var raw []groupJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &raw); err != nil {
		return nil, &Error{Kind: KindMalformed, Err: fmt.Errorf("decoding grouping: %w", err)}
	}

	byPath := make(map[string]model.ChangedFile, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	assigned := make(map[string]bool)
	var groups []model.ChangeGroup
	for _, rg := range raw {
		g := model.ChangeGroup{
			Type:        model.ParseCommitType(rg.Type),
			Scope:       strings.TrimSpace(rg.Scope),
			Ticket:      ticket,
			Description: strings.TrimSpace(rg.Description),
		}
		for _, p := range rg.Files {
			f, ok := byPath[p]
			if !ok {
				continue
			}
			if assigned[p] {
				return nil, &Error{Kind: KindMalformed, Err: fmt.Errorf("file %s assigned to more than one group", p)}
			}
			assigned[p] = true
			g.Files = append(g.Files, f)
		}
		if len(g.Files) == 0 {
			continue
		}
		if g.Type.ManualOnly() {
			g.Type = infer.Classify(g.Files[0].Path)
		}
		if !message.ValidScope(g.Scope) {
			g.Scope = infer.Scope(g.Files[0].Path)
		}
		if g.Description == "" {
			g.Description = group.Describe(&g)
		}
		for _, line := range rg.BodyLines {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
			if line != "" {
				g.BodyLines = append(g.BodyLines, line)
			}
		}
		groups = append(groups, g)
	}

	if len(groups) == 0 {
		return nil, &Error{Kind: KindMalformed, Err: fmt.Errorf("grouping matched none of the changed files")}
	}

	var leftover []model.ChangedFile
	for _, f := range files {
		if !assigned[f.Path] {
			leftover = append(leftover, f)
		}
	}
	if len(leftover) > 0 {
		res, err := group.Build(leftover, ticket)
		if err == nil {
			groups = append(groups, res.Groups...)
		}
	}

	group.Sort(groups)
	if err := group.Validate(groups); err != nil {
		return nil, &Error{Kind: KindMalformed, Err: err}
	}
	return groups, nil
}

// Group asks the assistant to group files. Any error means the caller should
// fall back to heuristic grouping.
func (c *Copilot) Group(ctx context.Context, files []model.ChangedFile, ticket string, diffs map[string]string) ([]model.ChangeGroup, error) {
	resp, err := c.Generate(ctx, GroupingPrompt(files, ticket, diffs))
	if err != nil {
		return nil, err
	}
	groups, err := ParseGroups(resp, files, ticket)
	if err != nil {
		return nil, err
	}
	c.Logger.Info().Int("files", len(files)).Int("groups", len(groups)).Msg("assistant grouping accepted")
	return groups, nil
}
