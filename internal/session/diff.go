package session

import (
	"context"
	"fmt"
)

// OpenDiff enters ViewingDiff on the first file of the selected group.
func (s *Session) OpenDiff() error {
	if err := s.require("open diff", Browsing, true); err != nil {
		return err
	}
	s.diffFile = 0
	s.mode = ViewingDiff
	return nil
}

// CloseDiff returns to Browsing.
func (s *Session) CloseDiff() error {
	if err := s.require("close diff", ViewingDiff, false); err != nil {
		return err
	}
	s.mode = Browsing
	return nil
}

// NextDiffFile moves to the next file of the group, wrapping.
func (s *Session) NextDiffFile() error {
	if err := s.require("next diff file", ViewingDiff, true); err != nil {
		return err
	}
	if n := len(s.current().Files); n > 0 {
		s.diffFile = (s.diffFile + 1) % n
	}
	return nil
}

// PrevDiffFile moves to the previous file of the group, wrapping.
func (s *Session) PrevDiffFile() error {
	if err := s.require("previous diff file", ViewingDiff, true); err != nil {
		return err
	}
	if n := len(s.current().Files); n > 0 {
		s.diffFile = (s.diffFile - 1 + n) % n
	}
	return nil
}

// DiffFile returns the path shown in the diff viewer and its position.
func (s *Session) DiffFile() (path string, index, total int) {
	if len(s.groups) == 0 {
		return "", 0, 0
	}
	files := s.current().Files
	if len(files) == 0 {
		return "", 0, 0
	}
	i := min(s.diffFile, len(files)-1)
	return files[i].Path, i, len(files)
}

// Diff returns the diff of the current diff-viewer file. Results are cached
// for the lifetime of the session; errors are not.
func (s *Session) Diff(ctx context.Context) (string, error) {
	if s.mode != ViewingDiff {
		return "", fmt.Errorf("%w: diff while %s", ErrInvalidTransition, s.mode)
	}
	path, _, _ := s.DiffFile()
	if path == "" {
		return "", ErrEmpty
	}
	return s.diffOf(ctx, path)
}

func (s *Session) diffOf(ctx context.Context, path string) (string, error) {
	if d, ok := s.diffCache[path]; ok {
		return d, nil
	}
	if s.differ == nil {
		return "", ErrNoCollaborator
	}
	d, err := s.differ.Diff(ctx, path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("diff failed")
		return "", err
	}
	s.diffCache[path] = d
	return d, nil
}
