package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sprite-ai/commitwiz/internal/ai"
	"github.com/sprite-ai/commitwiz/internal/message"
)

// BeginAI enters AwaitingAI and returns the prompt for the selected group.
// The prompt carries the group's diffs when a Differ is configured.
func (s *Session) BeginAI(ctx context.Context) (string, error) {
	if err := s.require("generate message", Browsing, true); err != nil {
		return "", err
	}
	if s.assistant == nil || !s.aiAvailable {
		err := &ai.Error{Kind: ai.KindUnavailable}
		s.fail(err, "AI generation disabled")
		return "", err
	}

	g := s.current()
	var diffs []string
	if s.differ != nil {
		for _, f := range g.Files {
			if d, err := s.diffOf(ctx, f.Path); err == nil && d != "" {
				diffs = append(diffs, d)
			}
		}
	}

	s.mode = AwaitingAI
	s.info("Generating message...")
	return ai.MessagePrompt(g, strings.Join(diffs, "\n")), nil
}

// FinishAI returns to Browsing. On success the selected group's description
// and body are replaced; on failure they are left untouched and err is
// returned.
func (s *Session) FinishAI(description string, body []string, err error) error {
	if rerr := s.require("finish generation", AwaitingAI, false); rerr != nil {
		return rerr
	}
	s.mode = Browsing

	if err == nil && strings.TrimSpace(description) == "" {
		err = &ai.Error{Kind: ai.KindMalformed, Err: message.ErrEmptyResponse}
	}
	if err != nil {
		s.fail(err, "AI generation failed")
		s.log.Warn().Err(err).Str("kind", ai.KindOf(err).String()).Msg("assistant generation failed")
		return err
	}
	if len(s.groups) == 0 {
		return ErrEmpty
	}

	g := s.current()
	g.Description = strings.TrimSpace(description)
	g.BodyLines = body
	s.info("Message generated")
	return nil
}

// Assistant returns the configured assistant, or nil.
func (s *Session) Assistant() Assistant { return s.assistant }

// AITimeout returns the bound applied to each generation.
func (s *Session) AITimeout() time.Duration { return s.aiTimeout }

// Ask runs one generation against a with the given timeout and parses the
// reply. It does not touch any session, so it can run off the event loop.
func Ask(ctx context.Context, a Assistant, prompt string, timeout time.Duration) (string, []string, error) {
	if a == nil {
		return "", nil, &ai.Error{Kind: ai.KindUnavailable}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := a.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", nil, &ai.Error{Kind: ai.KindTimeout, Err: ctx.Err()}
		}
		return "", nil, err
	}
	desc, body, err := message.ParseAIResponse(resp)
	if err != nil {
		return "", nil, &ai.Error{Kind: ai.KindMalformed, Err: err}
	}
	return desc, body, nil
}

// GenerateAI runs BeginAI, the assistant call and FinishAI in one blocking
// step.
func (s *Session) GenerateAI(ctx context.Context) error {
	prompt, err := s.BeginAI(ctx)
	if err != nil {
		return err
	}
	desc, body, err := Ask(ctx, s.assistant, prompt, s.aiTimeout)
	return s.FinishAI(desc, body, err)
}
