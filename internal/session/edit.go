package session

import (
	"context"
	"errors"
	"strings"

	"github.com/sprite-ai/commitwiz/internal/editor"
	"github.com/sprite-ai/commitwiz/internal/message"
)

// ErrEmptyDescription is returned when an edit leaves no description.
var ErrEmptyDescription = errors.New("description cannot be empty")

// BeginEdit enters Editing with the selected group's full message as the
// buffer and returns that buffer. The description in the buffer is never
// truncated.
func (s *Session) BeginEdit() (string, error) {
	if err := s.require("edit", Browsing, true); err != nil {
		return "", err
	}
	s.editBuffer = message.EditText(s.current())
	s.mode = Editing
	return s.editBuffer, nil
}

// EditBuffer returns the text captured by BeginEdit.
func (s *Session) EditBuffer() string { return s.editBuffer }

// SaveEdit applies text to the selected group and returns to Browsing. Only
// the description and body change. An empty description keeps the session
// in Editing.
func (s *Session) SaveEdit(text string) error {
	if err := s.require("save edit", Editing, true); err != nil {
		return err
	}
	g := s.current()
	desc, body := message.ParseEdited(text, message.Prefix(g))
	if strings.TrimSpace(desc) == "" {
		s.fail(ErrEmptyDescription, "Edit not saved")
		return ErrEmptyDescription
	}

	g.Description = desc
	g.BodyLines = body
	s.editBuffer = ""
	s.mode = Browsing
	s.info("Message updated")
	s.log.Debug().Int("group", s.selected).Str("header", message.Header(g)).Msg("message edited")
	return nil
}

// CancelEdit discards the buffer and returns to Browsing.
func (s *Session) CancelEdit() error {
	if err := s.require("cancel edit", Editing, false); err != nil {
		return err
	}
	s.editBuffer = ""
	s.mode = Browsing
	s.info("Edit cancelled")
	return nil
}

// FinishEdit completes an editing sub-session that ran outside the session.
// editor.ErrCancelled cancels quietly; any other error cancels and is
// returned, leaving the group unchanged.
func (s *Session) FinishEdit(text string, err error) error {
	if s.mode != Editing {
		return s.require("finish edit", Editing, false)
	}
	switch {
	case errors.Is(err, editor.ErrCancelled):
		return s.CancelEdit()
	case err != nil:
		if cerr := s.CancelEdit(); cerr != nil {
			return cerr
		}
		s.fail(err, "Editor failed")
		s.log.Warn().Err(err).Msg("editor failed")
		return err
	}
	if serr := s.SaveEdit(text); serr != nil {
		// Empty result: treat like a cancel so the group keeps its message.
		s.editBuffer = ""
		s.mode = Browsing
		return serr
	}
	return nil
}

// EditWith runs ed on the selected group's message and applies the result.
func (s *Session) EditWith(ctx context.Context, ed Editor) error {
	if ed == nil {
		return ErrNoCollaborator
	}
	buf, err := s.BeginEdit()
	if err != nil {
		return err
	}
	text, err := ed.Edit(ctx, buf)
	return s.FinishEdit(text, err)
}
