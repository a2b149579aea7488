package executil

import (
	"context"
	"strings"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Dir  string
	Cmd  string
	Args []string
}

// Line renders the command and its arguments separated by spaces.
func (c RecordedCommand) Line() string {
	return strings.TrimSpace(c.Cmd + " " + strings.Join(c.Args, " "))
}

// RecordingExecutor captures commands for testing.
//
// Outputs and Errors are looked up by the full command line first
// ("git status --porcelain=v1 -z"), then by the command name ("git").
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	Outputs map[string][]byte
	Errors  map[string]error

	// Hook, when set, runs for every command after it is recorded.
	Hook func(RecordedCommand)
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.record("", cmd, args...)
}

// RunDir records the command with directory and returns configured output/error.
func (e *RecordingExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	return e.record(dir, cmd, args...)
}

func (e *RecordingExecutor) record(dir, cmd string, args ...string) ([]byte, error) {
	e.mu.Lock()
	rc := RecordedCommand{Dir: dir, Cmd: cmd, Args: append([]string(nil), args...)}
	e.Commands = append(e.Commands, rc)
	hook := e.Hook

	line := rc.Line()
	out, ok := e.Outputs[line]
	if !ok {
		out = e.Outputs[cmd]
	}
	err, ok := e.Errors[line]
	if !ok {
		err = e.Errors[cmd]
	}
	e.mu.Unlock()

	if hook != nil {
		hook(rc)
	}
	return out, err
}

// Lines returns the recorded command lines in order.
func (e *RecordingExecutor) Lines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	lines := make([]string, len(e.Commands))
	for i, c := range e.Commands {
		lines[i] = c.Line()
	}
	return lines
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
