package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sprite-ai/commitwiz/internal/message"
	"github.com/sprite-ai/commitwiz/internal/model"
	"github.com/sprite-ai/commitwiz/internal/pathcheck"
)

// Commit commits the selected group and removes it from the session.
func (s *Session) Commit(ctx context.Context) error {
	if err := s.require("commit", Browsing, true); err != nil {
		return err
	}
	header := message.Header(s.current())
	if err := s.commitGroup(ctx, s.selected); err != nil {
		s.fail(err, "Commit failed")
		return err
	}
	s.remove(s.selected)
	s.info("Committed: %s", header)
	return nil
}

// CommitAll commits every group in order. It stops at the first failure:
// groups committed so far stay removed and the rest remain.
func (s *Session) CommitAll(ctx context.Context) error {
	if err := s.require("commit all", Browsing, true); err != nil {
		return err
	}

	total := len(s.groups)
	for i := 0; len(s.groups) > 0; i++ {
		header := message.Header(&s.groups[0])
		if err := s.commitGroup(ctx, 0); err != nil {
			s.selected = 0
			cae := &CommitAllError{Index: i, Header: header, Err: err}
			s.fail(err, "Commit %d of %d failed (%s)", i+1, total, header)
			return cae
		}
		s.remove(0)
	}
	s.selected = 0
	s.info("Committed %d groups", total)
	return nil
}

func (s *Session) commitGroup(ctx context.Context, i int) error {
	if s.committer == nil {
		return ErrNoCollaborator
	}
	g := s.groups[i]
	if err := validatePaths(g); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.commitTimeout)
	defer cancel()

	err := s.committer.Commit(ctx, g.Clone())
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", s.commitTimeout, err)
		}
		s.log.Error().Err(err).Str("header", message.Header(&g)).Msg("commit failed")
		return err
	}
	for _, f := range g.Files {
		delete(s.diffCache, f.Path)
	}
	s.log.Info().Str("header", message.Header(&g)).Int("files", len(g.Files)).Msg("group committed")
	return nil
}

func validatePaths(g model.ChangeGroup) error {
	for _, f := range g.Files {
		if err := pathcheck.Validate(f.Path); err != nil {
			return err
		}
		if f.OldPath != "" {
			if err := pathcheck.Validate(f.OldPath); err != nil {
				return err
			}
		}
	}
	return nil
}
