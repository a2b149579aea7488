package session

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/commitwiz/internal/message"
	"github.com/sprite-ai/commitwiz/internal/model"
)

// SetType changes the commit type of the selected group.
func (s *Session) SetType(t model.CommitType) error {
	if err := s.require("set type", Browsing, true); err != nil {
		return err
	}
	s.current().Type = t
	s.info("Type set to %s", t)
	return nil
}

// CycleType advances the selected group to the next commit type.
func (s *Session) CycleType() error {
	if err := s.require("cycle type", Browsing, true); err != nil {
		return err
	}
	g := s.current()
	g.Type = g.Type.Next()
	s.info("Type set to %s", g.Type)
	return nil
}

// SetScope replaces the scope of the selected group. An empty scope removes it.
func (s *Session) SetScope(scope string) error {
	if err := s.require("set scope", Browsing, true); err != nil {
		return err
	}
	scope = strings.TrimSpace(scope)
	if !message.ValidScope(scope) {
		return fmt.Errorf("invalid scope %q", scope)
	}
	s.current().Scope = scope
	if scope == "" {
		s.info("Scope removed")
	} else {
		s.info("Scope set to %s", scope)
	}
	return nil
}

// MoveFile moves path from the group that owns it to group target. A group
// left without files is removed; the selection follows the target then.
func (s *Session) MoveFile(path string, target int) error {
	if err := s.require("move file", Browsing, true); err != nil {
		return err
	}
	if target < 0 || target >= len(s.groups) {
		return fmt.Errorf("group index %d out of range", target)
	}

	source := -1
	for i := range s.groups {
		if s.groups[i].HasFile(path) {
			source = i
			break
		}
	}
	if source < 0 {
		return fmt.Errorf("file %s is not in any group", path)
	}
	if source == target {
		return nil
	}

	src := &s.groups[source]
	idx := src.FileIndex(path)
	f := src.Files[idx]
	src.Files = append(src.Files[:idx], src.Files[idx+1:]...)
	s.groups[target].Files = append(s.groups[target].Files, f)
	header := message.Header(&s.groups[target])

	if len(src.Files) == 0 {
		s.remove(source)
		if source < target {
			target--
		}
		s.selected = target
	}
	s.info("Moved %s to %s", path, header)
	return nil
}

// MergeInto moves every file of the selected group into group target and
// removes the selected group. The target keeps its message; the merged
// group's body lines are appended to it.
func (s *Session) MergeInto(target int) error {
	if err := s.require("merge", Browsing, true); err != nil {
		return err
	}
	if target < 0 || target >= len(s.groups) {
		return fmt.Errorf("group index %d out of range", target)
	}
	source := s.selected
	if source == target {
		return fmt.Errorf("cannot merge a group into itself")
	}

	src := s.groups[source]
	dst := &s.groups[target]
	dst.Files = append(dst.Files, src.Files...)
	dst.BodyLines = append(dst.BodyLines, src.BodyLines...)
	header := message.Header(dst)

	s.remove(source)
	if source < target {
		target--
	}
	s.selected = target
	s.info("Merged %d files into %s", len(src.Files), header)
	return nil
}
