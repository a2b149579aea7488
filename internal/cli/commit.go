package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sprite-ai/commitwiz/internal/group"
	"github.com/sprite-ai/commitwiz/internal/message"
	"github.com/sprite-ai/commitwiz/internal/session"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit the planned groups without the interactive session",
	Long: `Group the working tree changes and commit them without opening the
interactive session. By default only the first planned group is committed;
--all commits every group in order and stops at the first failure.`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().Bool("all", false, "commit every planned group")
	commitCmd.Flags().Bool("dry-run", false, "print the commit messages without committing")
	commitCmd.Flags().Bool("ai-messages", false, "let the assistant write each message before committing")
}

func runCommit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	all, _ := cmd.Flags().GetBool("all")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	aiMessages, _ := cmd.Flags().GetBool("ai-messages")

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.plan(ctx, false)
	if errors.Is(err, group.ErrNoChanges) {
		fmt.Fprintln(a.out, "No changes to commit.")
		return nil
	}
	if err != nil {
		return err
	}

	groups := p.Groups
	if !all {
		groups = groups[:1]
	}
	sess := session.New(groups, a.sessionOptions()...)

	if aiMessages {
		if !sess.ProbeAI(ctx) {
			fmt.Fprintln(a.errOut, "AI assistant unavailable; keeping generated messages.")
		} else {
			generateAll(ctx, sess, a.errOut)
		}
	}

	if dryRun {
		printMessages(a.out, sess)
		return nil
	}

	headers := make([]string, sess.Len())
	for i := range headers {
		headers[i] = sess.HeaderOf(i)
	}
	err = sess.CommitAll(ctx)

	committed := 0
	var cae *session.CommitAllError
	switch {
	case err == nil:
		committed = len(headers)
	case errors.As(err, &cae):
		committed = cae.Index
	}
	for _, h := range headers[:committed] {
		fmt.Fprintf(a.out, "Committed: %s\n", h)
	}
	if err != nil {
		return err
	}
	if left := len(p.Groups) - len(groups); left > 0 {
		fmt.Fprintf(a.out, "%d group(s) left; run again or use --all.\n", left)
	}
	return nil
}

// generateAll replaces every message with an assistant one. Failures keep
// the heuristic message.
func generateAll(ctx context.Context, sess *session.Session, errOut io.Writer) {
	for i := range sess.Len() {
		if err := sess.Select(i); err != nil {
			return
		}
		if err := sess.GenerateAI(ctx); err != nil {
			fmt.Fprintf(errOut, "AI message for %s failed: %v\n", sess.HeaderOf(i), err)
		}
	}
	_ = sess.Select(0)
}

func printMessages(w io.Writer, sess *session.Session) {
	for i, g := range sess.Groups() {
		if i > 0 {
			fmt.Fprintln(w, "---")
		}
		fmt.Fprintln(w, strings.TrimRight(message.FullMessage(&g), "\n"))
		fmt.Fprintln(w)
		for _, f := range g.Files {
			fmt.Fprintf(w, "  %s %s\n", f.Status.Code(), f.Path)
		}
	}
}
