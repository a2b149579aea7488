// Package git talks to the git CLI: it lists changed files, reads the branch
// and per-file diffs, and records commits for change groups.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sprite-ai/commitwiz/internal/executil"
	"github.com/sprite-ai/commitwiz/internal/message"
	"github.com/sprite-ai/commitwiz/internal/model"
	"github.com/sprite-ai/commitwiz/internal/pathcheck"
)

// Error reports a failed git invocation together with git's diagnostics.
type Error struct {
	Operation string
	Args      []string
	Output    string
	Err       error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("git %s failed", e.Operation)
	if e.Output != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Output)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CommitError is returned by Repo.Commit. Output carries git's diagnostic text.
type CommitError struct {
	Header string
	Output string
	Err    error
}

func (e *CommitError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("commit %q: %s", e.Header, e.Output)
	}
	return fmt.Sprintf("commit %q: %v", e.Header, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// Repo is a git working tree.
type Repo struct {
	root string
	git  string
	exec executil.Executor
	log  zerolog.Logger
}

// Option configures a Repo.
type Option func(*Repo)

// WithGitPath overrides the git binary.
func WithGitPath(path string) Option {
	return func(r *Repo) {
		if path != "" {
			r.git = path
		}
	}
}

// WithExecutor replaces the command executor.
func WithExecutor(e executil.Executor) Option {
	return func(r *Repo) { r.exec = e }
}

// WithLogger sets the logger used for command tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Repo) { r.log = l }
}

// Open resolves the top level of the working tree containing dir.
func Open(ctx context.Context, dir string, opts ...Option) (*Repo, error) {
	r := &Repo{git: "git", exec: &executil.RealExecutor{}, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}

	out, err := r.exec.RunDir(ctx, dir, r.git, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, wrap("rev-parse", []string{"--show-toplevel"}, err)
	}
	r.root = strings.TrimSpace(string(out))
	if r.root == "" {
		r.root = dir
	}
	return r, nil
}

// Root returns the absolute path of the working tree.
func (r *Repo) Root() string {
	return r.root
}

func (r *Repo) run(ctx context.Context, args ...string) ([]byte, error) {
	r.log.Debug().Strs("args", args).Msg("git")
	out, err := r.exec.RunDir(ctx, r.root, r.git, args...)
	if err != nil {
		op := ""
		if len(args) > 0 {
			op = args[0]
		}
		return out, wrap(op, args, err)
	}
	return out, nil
}

func wrap(op string, args []string, err error) error {
	ge := &Error{Operation: op, Args: args, Err: err}
	var execErr *executil.Error
	if errors.As(err, &execErr) {
		ge.Output = execErr.Stderr
		ge.Err = execErr.Err
	}
	return ge
}

// Branch returns the current branch name, or the short commit id when HEAD
// is detached.
func (r *Repo) Branch(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err == nil {
		return strings.TrimSpace(string(out)), nil
	}
	out, err = r.run(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("reading branch: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ChangedFiles lists staged and unstaged changes. Untracked files are
// included only when includeUntracked is set.
func (r *Repo) ChangedFiles(ctx context.Context, includeUntracked bool) ([]model.ChangedFile, error) {
	untracked := "-uno"
	if includeUntracked {
		untracked = "-uall"
	}
	out, err := r.run(ctx, "status", "--porcelain=v1", "-z", untracked)
	if err != nil {
		return nil, fmt.Errorf("listing changes: %w", err)
	}
	return ParseStatus(out)
}

// UntrackedFiles lists files git does not track and does not ignore.
func (r *Repo) UntrackedFiles(ctx context.Context) ([]model.ChangedFile, error) {
	out, err := r.run(ctx, "ls-files", "--others", "--exclude-standard", "-z")
	if err != nil {
		return nil, fmt.Errorf("listing untracked files: %w", err)
	}
	var files []model.ChangedFile
	for _, p := range bytes.Split(out, []byte{0}) {
		if len(p) == 0 {
			continue
		}
		files = append(files, model.ChangedFile{Path: string(p), Status: model.StatusUntracked})
	}
	return files, nil
}

// ParseStatus decodes `git status --porcelain=v1 -z` output. Renamed and
// copied entries are followed by their source path. Ignored entries are
// skipped.
func ParseStatus(out []byte) ([]model.ChangedFile, error) {
	fields := bytes.Split(out, []byte{0})
	var files []model.ChangedFile

	for i := 0; i < len(fields); i++ {
		entry := fields[i]
		if len(entry) == 0 {
			continue
		}
		if len(entry) < 4 || entry[2] != ' ' {
			return nil, fmt.Errorf("malformed status entry %q", entry)
		}
		x, y := entry[0], entry[1]
		f := model.ChangedFile{Path: string(entry[3:])}

		switch {
		case x == '!':
			continue
		case x == '?':
			f.Status = model.StatusUntracked
		case x == 'R' || y == 'R':
			f.Status = model.StatusRenamed
			if i+1 >= len(fields) {
				return nil, fmt.Errorf("rename entry %q has no source path", f.Path)
			}
			i++
			f.OldPath = string(fields[i])
		case x == 'C' || y == 'C':
			f.Status = model.StatusAdded
			i++
		default:
			f.Status = statusFromCode(x, y)
		}
		files = append(files, f)
	}
	return files, nil
}

func statusFromCode(x, y byte) model.FileStatus {
	code := x
	if code == ' ' {
		code = y
	}
	switch code {
	case 'A':
		return model.StatusAdded
	case 'D':
		return model.StatusDeleted
	case 'T':
		return model.StatusTypeChanged
	default:
		return model.StatusModified
	}
}

// Diff returns the diff of path against HEAD. It falls back to the staged
// diff in repositories without commits, and to a new-file diff for paths
// git does not track yet.
func (r *Repo) Diff(ctx context.Context, path string) (string, error) {
	if err := pathcheck.Validate(path); err != nil {
		return "", err
	}

	out, err := r.run(ctx, "diff", "HEAD", "--", path)
	if err == nil && len(out) > 0 {
		return string(out), nil
	}

	out, cachedErr := r.run(ctx, "diff", "--cached", "--", path)
	if cachedErr == nil && len(out) > 0 {
		return string(out), nil
	}

	// --no-index exits 1 when the files differ.
	out, _ = r.run(ctx, "diff", "--no-index", "--", os.DevNull, path)
	if len(out) > 0 {
		return string(out), nil
	}

	if err != nil && cachedErr != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return "", nil
}

// Commit stages the files of g and records them as one commit using the
// group's full message. Only the group's paths are committed; anything else
// in the index is left staged.
func (r *Repo) Commit(ctx context.Context, g model.ChangeGroup) error {
	header := message.Header(&g)
	if len(g.Files) == 0 {
		return &CommitError{Header: header, Err: errors.New("group has no files")}
	}

	var stage, pathspec []string
	for _, f := range g.Files {
		if err := pathcheck.Validate(f.Path); err != nil {
			return &CommitError{Header: header, Err: err}
		}
		pathspec = append(pathspec, f.Path)
		if f.Status != model.StatusDeleted {
			stage = append(stage, f.Path)
		}
		if f.Status == model.StatusRenamed && f.OldPath != "" {
			if err := pathcheck.Validate(f.OldPath); err != nil {
				return &CommitError{Header: header, Err: err}
			}
			pathspec = append(pathspec, f.OldPath)
		}
	}

	msgFile, err := os.CreateTemp("", "commitwiz-msg-*.txt")
	if err != nil {
		return &CommitError{Header: header, Err: fmt.Errorf("creating message file: %w", err)}
	}
	defer os.Remove(msgFile.Name())

	if _, err := msgFile.WriteString(message.FullMessage(&g)); err != nil {
		msgFile.Close()
		return &CommitError{Header: header, Err: fmt.Errorf("writing message file: %w", err)}
	}
	if err := msgFile.Close(); err != nil {
		return &CommitError{Header: header, Err: fmt.Errorf("writing message file: %w", err)}
	}

	if len(stage) > 0 {
		if _, err := r.run(ctx, append([]string{"add", "--"}, stage...)...); err != nil {
			return commitError(header, err)
		}
	}

	args := append([]string{"commit", "-F", msgFile.Name(), "--"}, pathspec...)
	if _, err := r.run(ctx, args...); err != nil {
		return commitError(header, err)
	}

	r.log.Info().Str("header", header).Int("files", len(g.Files)).Msg("committed group")
	return nil
}

func commitError(header string, err error) error {
	ce := &CommitError{Header: header, Err: err}
	var ge *Error
	if errors.As(err, &ge) {
		ce.Output = ge.Output
	}
	return ce
}
