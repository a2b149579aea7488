// Package editor hands commit messages to an external text editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultEditor is used when neither config nor environment names one.
const DefaultEditor = "vi"

// ErrCancelled is returned when the user leaves the buffer unchanged or
// empties it.
var ErrCancelled = errors.New("edit cancelled")

// ErrUnsafeCommand is returned for editor commands containing shell
// metacharacters.
var ErrUnsafeCommand = errors.New("editor command contains shell metacharacters")

var knownEditors = []string{
	"nano", "vim", "vi", "emacs", "nvim", "code", "subl", "atom", "gedit", "kate", "hx", "micro",
}

// Resolve picks the editor command: configured, then $VISUAL, then $EDITOR,
// then DefaultEditor.
func Resolve(configured string) string {
	for _, c := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return DefaultEditor
}

// ValidateCommand rejects commands that could smuggle shell constructs.
// Arguments separated by spaces ("code --wait") are allowed.
func ValidateCommand(cmd string) error {
	if strings.TrimSpace(cmd) == "" {
		return fmt.Errorf("%w: empty command", ErrUnsafeCommand)
	}
	if i := strings.IndexAny(cmd, ";|&`$()<>\n"); i >= 0 {
		return fmt.Errorf("%w: %q", ErrUnsafeCommand, cmd[i:i+1])
	}
	return nil
}

// IsKnown reports whether the base name of the command is a common editor.
func IsKnown(cmd string) bool {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return false
	}
	base := filepath.Base(strings.ReplaceAll(fields[0], `\`, "/"))
	for _, e := range knownEditors {
		if base == e {
			return true
		}
	}
	return false
}

// External runs Command on a temp file holding the initial text.
type External struct {
	Command string
	Logger  zerolog.Logger
}

// Edit opens initial in the editor and returns the saved buffer.
func (e *External) Edit(ctx context.Context, initial string) (string, error) {
	p, err := Prepare(ctx, e.Command, initial, e.Logger)
	if err != nil {
		return "", err
	}
	p.Cmd.Stdin = os.Stdin
	p.Cmd.Stdout = os.Stdout
	p.Cmd.Stderr = os.Stderr
	return p.Finish(p.Cmd.Run())
}

// Prepared is an editor process ready to run. The TUI runs Cmd through
// tea.ExecProcess and calls Finish with the exit error.
type Prepared struct {
	Cmd     *exec.Cmd
	path    string
	initial string
}

// Prepare validates command, writes initial to a temp file and builds the
// editor process without starting it.
func Prepare(ctx context.Context, command, initial string, logger zerolog.Logger) (*Prepared, error) {
	if err := ValidateCommand(command); err != nil {
		return nil, err
	}
	if !IsKnown(command) {
		logger.Warn().Str("editor", command).Msg("editor is not in the known list")
	}

	f, err := os.CreateTemp("", "commitwiz-edit-*.txt")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("writing temp file: %w", err)
	}

	fields := strings.Fields(command)
	args := append(fields[1:], f.Name())
	return &Prepared{
		Cmd:     exec.CommandContext(ctx, fields[0], args...),
		path:    f.Name(),
		initial: initial,
	}, nil
}

// Finish reads the edited buffer back and removes the temp file. runErr is
// the error returned by running Cmd.
func (p *Prepared) Finish(runErr error) (string, error) {
	defer os.Remove(p.path)

	if runErr != nil {
		return "", fmt.Errorf("running editor %s: %w", p.Cmd.Path, runErr)
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return "", fmt.Errorf("reading edited text: %w", err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" || strings.TrimSpace(text) == strings.TrimSpace(p.initial) {
		return "", ErrCancelled
	}
	return text, nil
}
