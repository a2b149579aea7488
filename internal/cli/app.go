package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sprite-ai/commitwiz/internal/ai"
	"github.com/sprite-ai/commitwiz/internal/config"
	"github.com/sprite-ai/commitwiz/internal/git"
	"github.com/sprite-ai/commitwiz/internal/group"
	"github.com/sprite-ai/commitwiz/internal/infer"
	"github.com/sprite-ai/commitwiz/internal/logging"
	"github.com/sprite-ai/commitwiz/internal/model"
	"github.com/sprite-ai/commitwiz/internal/session"
)

// groupingDiffs is how many diffs are fetched for an assistant grouping.
const groupingDiffs = 5

// app holds everything a command needs once flags and config are resolved.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	close  func()
	repo   *git.Repo
	out    io.Writer
	errOut io.Writer

	assistant *probedAssistant // nil when AI is disabled
}

// probedAssistant caches the availability probe for the life of the process.
type probedAssistant struct {
	*ai.Copilot
	probed    bool
	available bool
}

func (p *probedAssistant) Available(ctx context.Context) bool {
	if !p.probed {
		p.available = p.Copilot.Available(ctx)
		p.probed = true
	}
	return p.available
}

// applyFlags layers command-line overrides on top of cfg.
func applyFlags(cfg *config.Config, f globalFlags) error {
	if f.untracked != "" {
		if !config.ValidUntracked(f.untracked) {
			return fmt.Errorf("--untracked must be one of ask, all, none; got %q", f.untracked)
		}
		cfg.Untracked = f.untracked
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFile != "" {
		cfg.Log.File = f.logFile
	}
	if f.noAI {
		cfg.AI.Enabled = false
	}
	return cfg.Validate()
}

func setup(cmd *cobra.Command) (*app, error) {
	cfgPath := flags.config
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, flags); err != nil {
		return nil, err
	}

	logOpts := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File}
	if flags.verbose && logOpts.File == "" {
		logOpts.Console = cmd.ErrOrStderr()
	}
	log, closeLog, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}

	repo, err := git.Open(cmd.Context(), flags.repo, git.WithGitPath(cfg.GitPath), git.WithLogger(log))
	if err != nil {
		closeLog()
		return nil, err
	}
	log.Debug().Str("root", repo.Root()).Str("config", cfgPath).Msg("repository opened")

	a := &app{
		cfg:    cfg,
		log:    log,
		close:  closeLog,
		repo:   repo,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
	if cfg.AI.Enabled {
		a.assistant = &probedAssistant{Copilot: ai.NewCopilot(cfg.AI.Command, log)}
	}
	return a, nil
}

func (a *app) sessionOptions() []session.Option {
	opts := []session.Option{
		session.WithCommitter(a.repo),
		session.WithDiffer(a.repo),
		session.WithLogger(a.log),
		session.WithCommitTimeout(a.cfg.CommitTimeout),
		session.WithAITimeout(a.cfg.AI.Timeout),
	}
	if a.assistant != nil {
		opts = append(opts, session.WithAssistant(a.assistant))
	}
	return opts
}

// planResult is the grouping a command works from.
type planResult struct {
	Branch   string
	Ticket   string
	Source   string // "heuristic" or "assistant"
	Groups   []model.ChangeGroup
	Rejected []error
}

// plan collects the changed files and groups them. interactive allows
// prompting for untracked files.
func (a *app) plan(ctx context.Context, interactive bool) (*planResult, error) {
	branch, err := a.repo.Branch(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("could not read branch; no ticket")
	}
	p := &planResult{Branch: branch, Ticket: infer.Ticket(branch), Source: "heuristic"}

	files, err := a.repo.ChangedFiles(ctx, false)
	if err != nil {
		return nil, err
	}
	untracked, err := a.untracked(ctx, interactive)
	if err != nil {
		return nil, err
	}
	files = append(files, untracked...)

	res, err := group.Build(files, p.Ticket)
	if err != nil {
		return nil, err
	}
	p.Groups = res.Groups
	p.Rejected = res.Rejected
	for _, rej := range res.Rejected {
		fmt.Fprintf(a.errOut, "Warning: skipping %v\n", rej)
	}

	if groups, ok := a.assistantGroups(ctx, res.Groups, p.Ticket); ok {
		p.Groups = groups
		p.Source = "assistant"
	}
	a.log.Info().
		Str("branch", branch).
		Str("source", p.Source).
		Int("files", len(files)).
		Int("groups", len(p.Groups)).
		Msg("changes grouped")
	return p, nil
}

// assistantGroups asks the assistant to regroup the valid files. ok is false
// whenever the heuristic grouping should be kept.
func (a *app) assistantGroups(ctx context.Context, heuristic []model.ChangeGroup, ticket string) ([]model.ChangeGroup, bool) {
	if a.assistant == nil || flags.heuristic || !a.assistant.Available(ctx) {
		return nil, false
	}

	var files []model.ChangedFile
	for _, g := range heuristic {
		files = append(files, g.Files...)
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	sort.Strings(paths)

	diffs := make(map[string]string)
	for _, path := range paths[:min(len(paths), groupingDiffs)] {
		if d, err := a.repo.Diff(ctx, path); err == nil {
			diffs[path] = d
		}
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.AI.Timeout)
	defer cancel()
	groups, err := a.assistant.Group(ctx, files, ticket, diffs)
	if err != nil {
		fmt.Fprintf(a.errOut, "AI grouping failed, using path rules: %v\n", err)
		a.log.Warn().Err(err).Str("kind", ai.KindOf(err).String()).Msg("assistant grouping rejected")
		return nil, false
	}
	return groups, true
}

// untracked returns the untracked files to include under the configured
// policy.
func (a *app) untracked(ctx context.Context, interactive bool) ([]model.ChangedFile, error) {
	if a.cfg.Untracked == config.UntrackedNone {
		return nil, nil
	}
	files, err := a.repo.UntrackedFiles(ctx)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	if a.cfg.Untracked == config.UntrackedAll {
		return files, nil
	}

	if !interactive || !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(a.errOut, "Skipping %d untracked file(s); use --untracked all to include them.\n", len(files))
		return nil, nil
	}
	return promptUntracked(files)
}

func promptUntracked(files []model.ChangedFile) ([]model.ChangedFile, error) {
	options := make([]huh.Option[string], len(files))
	for i, f := range files {
		options[i] = huh.NewOption(f.Path, f.Path)
	}

	var selected []string
	err := huh.NewMultiSelect[string]().
		Title("Include untracked files?").
		Description("space toggles, enter confirms").
		Options(options...).
		Value(&selected).
		Run()
	if err != nil {
		return nil, fmt.Errorf("untracked file prompt: %w", err)
	}
	return pickFiles(files, selected), nil
}

// pickFiles keeps the files whose paths were selected, in their original
// order.
func pickFiles(files []model.ChangedFile, selected []string) []model.ChangedFile {
	want := make(map[string]bool, len(selected))
	for _, p := range selected {
		want[p] = true
	}
	var out []model.ChangedFile
	for _, f := range files {
		if want[f.Path] {
			out = append(out, f)
		}
	}
	return out
}
