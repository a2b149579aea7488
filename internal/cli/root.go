// Package cli wires the commitwiz commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/sprite-ai/commitwiz/internal/editor"
	"github.com/sprite-ai/commitwiz/internal/group"
	"github.com/sprite-ai/commitwiz/internal/session"
	"github.com/sprite-ai/commitwiz/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "commitwiz",
	Short: "Split working tree changes into conventional commits",
	Long: `Group the changes in a git working tree into conventional commits and
review them in an interactive session before committing.

Files are grouped by type (test, docs, ci, build, style, feat) and scope.
When the Copilot CLI is installed and signed in, it can propose the grouping
and write commit messages.

Examples:
  commitwiz                        # interactive session
  commitwiz plan --format json     # print the grouping
  commitwiz commit --all           # commit every group as planned`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

type globalFlags struct {
	repo      string
	config    string
	noAI      bool
	heuristic bool
	untracked string
	logLevel  string
	logFile   string
	verbose   bool
}

var flags globalFlags

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.repo, "repo", "C", ".", "path inside the repository to work on")
	pf.StringVar(&flags.config, "config", "", "config file (default $XDG_CONFIG_HOME/commitwiz/config.yaml)")
	pf.BoolVar(&flags.noAI, "no-ai", false, "disable the AI assistant")
	pf.BoolVar(&flags.heuristic, "heuristic", false, "group by path rules even when the assistant is available")
	pf.StringVar(&flags.untracked, "untracked", "", "untracked files: ask, all, none")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&flags.logFile, "log-file", "", "write JSON logs to this file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(planCmd, commitCmd, versionCmd)
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.plan(ctx, true)
	if errors.Is(err, group.ErrNoChanges) {
		fmt.Fprintln(a.out, "No changes to commit.")
		return nil
	}
	if err != nil {
		return err
	}

	sess := session.New(p.Groups, a.sessionOptions()...)
	sess.ProbeAI(ctx)

	out, err := tui.Run(ctx, sess,
		tui.WithEditor(editor.Resolve(a.cfg.Editor)),
		tui.WithLogger(a.log),
		tui.WithDiffStyle(a.cfg.DiffStyle),
	)
	fmt.Fprint(a.out, out.Summary())
	return err
}
