// Package session holds the interactive state for reviewing and committing
// change groups: the ordered groups, the selection, the current mode and a
// status line. A Session is owned by a single event loop and is not safe for
// concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sprite-ai/commitwiz/internal/message"
	"github.com/sprite-ai/commitwiz/internal/model"
)

// Mode is the current interaction mode. Modes are mutually exclusive.
type Mode int

const (
	Browsing Mode = iota
	Editing
	ViewingDiff
	AwaitingAI
	Terminated
)

func (m Mode) String() string {
	switch m {
	case Browsing:
		return "browsing"
	case Editing:
		return "editing"
	case ViewingDiff:
		return "viewing diff"
	case AwaitingAI:
		return "awaiting assistant"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

const (
	DefaultCommitTimeout = 30 * time.Second
	DefaultAITimeout     = 90 * time.Second
)

// Committer records one group as a commit.
type Committer interface {
	Commit(ctx context.Context, g model.ChangeGroup) error
}

// Differ returns the diff text for one path.
type Differ interface {
	Diff(ctx context.Context, path string) (string, error)
}

// Assistant generates commit message text from a prompt.
type Assistant interface {
	Available(ctx context.Context) bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// Editor runs an editing sub-session and returns the saved buffer.
type Editor interface {
	Edit(ctx context.Context, initial string) (string, error)
}

var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current mode.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrEmpty is returned by group operations on a session with no groups.
	ErrEmpty = errors.New("no groups left")
	// ErrNoCollaborator is returned when the operation needs a collaborator
	// the session was built without.
	ErrNoCollaborator = errors.New("collaborator not configured")
)

// CommitAllError reports the first failing group of a CommitAll run. Index
// is the zero-based position of the group in the sequence as it was when
// CommitAll started.
type CommitAllError struct {
	Index  int
	Header string
	Err    error
}

func (e *CommitAllError) Error() string {
	return fmt.Sprintf("commit %d (%s) failed: %v", e.Index, e.Header, e.Err)
}

func (e *CommitAllError) Unwrap() error {
	return e.Err
}

// Status is the one-line feedback shown to the user.
type Status struct {
	Text  string
	Error bool
}

// Session is the in-memory model behind the interactive UI.
type Session struct {
	groups   []model.ChangeGroup
	selected int
	mode     Mode
	status   Status

	editBuffer string

	diffFile  int
	diffCache map[string]string

	aiAvailable bool

	committer Committer
	differ    Differ
	assistant Assistant
	log       zerolog.Logger

	commitTimeout time.Duration
	aiTimeout     time.Duration
}

// Option configures a Session.
type Option func(*Session)

func WithCommitter(c Committer) Option { return func(s *Session) { s.committer = c } }

func WithDiffer(d Differ) Option { return func(s *Session) { s.differ = d } }

// WithAssistant enables AI generation. Availability is not probed here; see
// ProbeAI.
func WithAssistant(a Assistant) Option { return func(s *Session) { s.assistant = a } }

func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

func WithCommitTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.commitTimeout = d
		}
	}
}

func WithAITimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.aiTimeout = d
		}
	}
}

// New builds a session over groups, which are copied.
func New(groups []model.ChangeGroup, opts ...Option) *Session {
	s := &Session{
		groups:        make([]model.ChangeGroup, len(groups)),
		diffCache:     make(map[string]string),
		log:           zerolog.Nop(),
		commitTimeout: DefaultCommitTimeout,
		aiTimeout:     DefaultAITimeout,
	}
	for i, g := range groups {
		s.groups[i] = g.Clone()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Groups returns a copy of the remaining groups in order.
func (s *Session) Groups() []model.ChangeGroup {
	out := make([]model.ChangeGroup, len(s.groups))
	for i, g := range s.groups {
		out[i] = g.Clone()
	}
	return out
}

// Len returns the number of remaining groups.
func (s *Session) Len() int { return len(s.groups) }

// Selected returns a copy of the selected group. ok is false when the
// session is empty.
func (s *Session) Selected() (g model.ChangeGroup, ok bool) {
	if len(s.groups) == 0 {
		return model.ChangeGroup{}, false
	}
	return s.groups[s.selected].Clone(), true
}

func (s *Session) SelectedIndex() int { return s.selected }

func (s *Session) Mode() Mode { return s.mode }

func (s *Session) Status() Status { return s.status }

func (s *Session) Empty() bool { return len(s.groups) == 0 }

// AIAvailable reports whether the last ProbeAI succeeded.
func (s *Session) AIAvailable() bool { return s.aiAvailable }

// ProbeAI checks the assistant once and records the result.
func (s *Session) ProbeAI(ctx context.Context) bool {
	s.aiAvailable = s.assistant != nil && s.assistant.Available(ctx)
	s.log.Debug().Bool("available", s.aiAvailable).Msg("assistant probe")
	return s.aiAvailable
}

// ClearStatus removes the status line.
func (s *Session) ClearStatus() { s.status = Status{} }

// Quit ends the session from any mode. An open edit buffer is discarded.
func (s *Session) Quit() {
	s.editBuffer = ""
	s.status = Status{}
	s.mode = Terminated
}

func (s *Session) info(format string, args ...any) {
	s.status = Status{Text: fmt.Sprintf(format, args...)}
}

func (s *Session) fail(err error, format string, args ...any) {
	s.status = Status{Text: fmt.Sprintf(format, args...) + ": " + err.Error(), Error: true}
}

// require checks the mode and, when needGroup is set, that a group exists.
// The status line is cleared for every accepted transition.
func (s *Session) require(op string, mode Mode, needGroup bool) error {
	if s.mode != mode {
		return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, s.mode)
	}
	if needGroup && len(s.groups) == 0 {
		return ErrEmpty
	}
	s.status = Status{}
	return nil
}

// SelectNext moves the selection forward, wrapping to the first group.
func (s *Session) SelectNext() error {
	if err := s.require("select next", Browsing, false); err != nil {
		return err
	}
	if n := len(s.groups); n > 0 {
		s.selected = (s.selected + 1) % n
	}
	return nil
}

// SelectPrevious moves the selection back, wrapping to the last group.
func (s *Session) SelectPrevious() error {
	if err := s.require("select previous", Browsing, false); err != nil {
		return err
	}
	if n := len(s.groups); n > 0 {
		s.selected = (s.selected - 1 + n) % n
	}
	return nil
}

// Select jumps to index i.
func (s *Session) Select(i int) error {
	if err := s.require("select", Browsing, true); err != nil {
		return err
	}
	if i < 0 || i >= len(s.groups) {
		return fmt.Errorf("group index %d out of range", i)
	}
	s.selected = i
	return nil
}

// current returns the selected group for in-place mutation.
func (s *Session) current() *model.ChangeGroup {
	return &s.groups[s.selected]
}

// remove drops group i and keeps the selection in bounds.
func (s *Session) remove(i int) {
	s.groups = append(s.groups[:i], s.groups[i+1:]...)
	if i < s.selected {
		s.selected--
	}
	if s.selected >= len(s.groups) {
		s.selected = max(len(s.groups)-1, 0)
	}
}

// HeaderOf renders the header of group i.
func (s *Session) HeaderOf(i int) string {
	return message.Header(&s.groups[i])
}
