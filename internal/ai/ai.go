// Package ai drives an external assistant CLI to propose commit messages
// and file groupings.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sprite-ai/commitwiz/internal/executil"
)

// ErrorKind classifies assistant failures.
type ErrorKind int

const (
	KindUnavailable ErrorKind = iota
	KindTimeout
	KindMalformed
	KindFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindTimeout:
		return "timeout"
	case KindMalformed:
		return "malformed response"
	default:
		return "failed"
	}
}

// Error is returned for every assistant failure. All kinds are recoverable:
// callers keep their previous message.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assistant %s: %v", e.Kind, e.Err)
	}
	return "assistant " + e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of an assistant error, mapping context deadlines
// to KindTimeout and anything else unknown to KindFailed.
func KindOf(err error) ErrorKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindFailed
}

const (
	startMarker = "**START COMMIT MESSAGE**"
	endMarker   = "**END COMMIT MESSAGE**"

	unauthenticatedBanner = "Error: No authentication information found."
)

// DefaultCommand is the assistant binary used when none is configured.
const DefaultCommand = "copilot"

// Copilot runs the GitHub Copilot CLI in prompt mode.
type Copilot struct {
	Command  string
	Executor executil.Executor
	Logger   zerolog.Logger
}

// NewCopilot returns a Copilot using command (or DefaultCommand) and the
// real executor.
func NewCopilot(command string, logger zerolog.Logger) *Copilot {
	if command == "" {
		command = DefaultCommand
	}
	return &Copilot{Command: command, Executor: &executil.RealExecutor{}, Logger: logger}
}

// Available reports whether the CLI is installed and authenticated.
func (c *Copilot) Available(ctx context.Context) bool {
	if _, err := c.Executor.Run(ctx, c.Command, "--version"); err != nil {
		c.Logger.Warn().Err(err).Str("command", c.Command).Msg("assistant CLI not found")
		return false
	}

	out, err := c.Executor.Run(ctx, c.Command, "-s", "-p", "Test")
	combined := string(out)
	if err != nil {
		combined += err.Error()
	}
	if strings.Contains(combined, unauthenticatedBanner) {
		c.Logger.Warn().Str("command", c.Command).Msg("assistant CLI is not authenticated")
		return false
	}
	if err != nil {
		c.Logger.Warn().Err(err).Msg("assistant probe failed")
		return false
	}
	return true
}

// Generate sends prompt to the CLI and returns the text between the commit
// message markers.
func (c *Copilot) Generate(ctx context.Context, prompt string) (string, error) {
	c.Logger.Debug().Int("prompt_len", len(prompt)).Msg("assistant request")

	out, err := c.Executor.Run(ctx, c.Command, "-s", "-p", prompt)
	if err != nil {
		if ctx.Err() != nil {
			return "", &Error{Kind: KindTimeout, Err: ctx.Err()}
		}
		return "", &Error{Kind: KindFailed, Err: err}
	}

	resp, err := ExtractMarked(string(out))
	if err != nil {
		c.Logger.Debug().Int("output_len", len(out)).Msg("assistant response without markers")
		return "", err
	}
	c.Logger.Debug().Int("response_len", len(resp)).Msg("assistant response")
	return resp, nil
}

// ExtractMarked returns the non-empty lines between the start and end
// markers. Missing markers or an empty block yield a KindMalformed error.
func ExtractMarked(output string) (string, error) {
	var lines []string
	inBlock := false
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == startMarker {
			inBlock = true
			continue
		}
		if trimmed == endMarker {
			break
		}
		if inBlock && trimmed != "" {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	if len(lines) == 0 {
		return "", &Error{Kind: KindMalformed, Err: fmt.Errorf("no text between %s and %s", startMarker, endMarker)}
	}
	return strings.Join(lines, "\n"), nil
}
