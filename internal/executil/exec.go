// Package executil runs external commands for the git and assistant
// collaborators.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const maxStderrLen = 2000

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// Error is returned when a command fails to start or exits non-zero. Stderr
// holds the (capped) diagnostic output of the command.
type Error struct {
	Cmd    string
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("exec %s: %s: %v", e.Cmd, e.Stderr, e.Err)
	}
	return fmt.Sprintf("exec %s: %v", e.Cmd, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Executor runs commands and returns their standard output.
type Executor interface {
	// Run executes a command in the current directory.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
	// RunDir executes a command in dir.
	RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error)
}

// RealExecutor calls actual commands.
type RealExecutor struct{}

// Run executes a command in the current directory.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.RunDir(ctx, "", cmd, args...)
}

// RunDir executes a command in dir. Stdout is returned even on failure so
// callers can inspect partial output; stderr is carried in *Error.
func (e *RealExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd, args...)
	if dir != "" {
		c.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &limitedWriter{buf: &stderr, max: maxStderrLen}

	if err := c.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return stdout.Bytes(), &Error{
			Cmd:    cmd,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}
