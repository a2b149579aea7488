package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sprite-ai/commitwiz/internal/group"
	"github.com/sprite-ai/commitwiz/internal/message"
	"github.com/sprite-ai/commitwiz/internal/model"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the commit grouping without committing (non-interactive)",
	Long: `Group the working tree changes and print the planned commits.
Useful for scripts and for checking the grouping before a session.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
}

func runPlan(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "json", "markdown":
	default:
		return fmt.Errorf("unknown format %q (want text, json or markdown)", format)
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.plan(cmd.Context(), false)
	if errors.Is(err, group.ErrNoChanges) {
		if format == "json" {
			return outputJSON(a.out, &planResult{})
		}
		fmt.Fprintln(a.out, "No changes to commit.")
		return nil
	}
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return outputJSON(a.out, p)
	case "markdown":
		return outputMarkdown(a.out, p)
	default:
		return outputText(a.out, p)
	}
}

func fileCount(groups []model.ChangeGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Files)
	}
	return n
}

func outputText(w io.Writer, p *planResult) error {
	if p.Branch != "" {
		fmt.Fprintf(w, "Branch: %s", p.Branch)
		if p.Ticket != "" {
			fmt.Fprintf(w, " (ticket %s)", p.Ticket)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d commit(s) from %d file(s), grouped by %s\n\n", len(p.Groups), fileCount(p.Groups), p.Source)

	for i := range p.Groups {
		g := &p.Groups[i]
		fmt.Fprintf(w, "%d. %s\n", i+1, message.Header(g))
		for _, f := range g.Files {
			fmt.Fprintf(w, "     %s %s\n", f.Status.Code(), f.Path)
		}
		fmt.Fprintln(w)
	}

	if len(p.Rejected) > 0 {
		fmt.Fprintln(w, "Skipped:")
		for _, err := range p.Rejected {
			fmt.Fprintf(w, "  %v\n", err)
		}
	}
	return nil
}

func outputJSON(w io.Writer, p *planResult) error {
	type jsonFile struct {
		Path    string `json:"path"`
		Status  string `json:"status"`
		OldPath string `json:"old_path,omitempty"`
	}
	type jsonGroup struct {
		Header      string     `json:"header"`
		Type        string     `json:"type"`
		Scope       string     `json:"scope,omitempty"`
		Ticket      string     `json:"ticket,omitempty"`
		Description string     `json:"description"`
		BodyLines   []string   `json:"body_lines"`
		Files       []jsonFile `json:"files"`
	}
	type jsonOutput struct {
		Branch   string      `json:"branch,omitempty"`
		Ticket   string      `json:"ticket,omitempty"`
		Source   string      `json:"source,omitempty"`
		Groups   []jsonGroup `json:"groups"`
		Skipped  []string    `json:"skipped,omitempty"`
		Total    int         `json:"total_files"`
		Messages []string    `json:"messages"`
	}

	out := jsonOutput{
		Branch:   p.Branch,
		Ticket:   p.Ticket,
		Source:   p.Source,
		Groups:   []jsonGroup{},
		Total:    fileCount(p.Groups),
		Messages: []string{},
	}
	for i := range p.Groups {
		g := &p.Groups[i]
		jg := jsonGroup{
			Header:      message.Header(g),
			Type:        g.Type.String(),
			Scope:       g.Scope,
			Ticket:      g.Ticket,
			Description: g.Description,
			BodyLines:   append([]string{}, g.BodyLines...),
		}
		for _, f := range g.Files {
			jg.Files = append(jg.Files, jsonFile{Path: f.Path, Status: f.Status.String(), OldPath: f.OldPath})
		}
		out.Groups = append(out.Groups, jg)
		out.Messages = append(out.Messages, message.FullMessage(g))
	}
	for _, err := range p.Rejected {
		out.Skipped = append(out.Skipped, err.Error())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputMarkdown(w io.Writer, p *planResult) error {
	fmt.Fprintf(w, "## Commit Plan\n\n")
	if p.Branch != "" {
		fmt.Fprintf(w, "**Branch:** `%s`", p.Branch)
		if p.Ticket != "" {
			fmt.Fprintf(w, " | **Ticket:** %s", p.Ticket)
		}
		fmt.Fprintf(w, "\n\n")
	}
	fmt.Fprintf(w, "**%d commit(s)** from **%d file(s)**\n\n", len(p.Groups), fileCount(p.Groups))

	fmt.Fprintln(w, "| # | Header | Files |")
	fmt.Fprintln(w, "|---|--------|-------|")
	for i := range p.Groups {
		g := &p.Groups[i]
		paths := make([]string, len(g.Files))
		for j, f := range g.Files {
			paths[j] = "`" + f.Path + "`"
		}
		fmt.Fprintf(w, "| %d | %s | %s |\n", i+1, escapePipes(message.Header(g)), strings.Join(paths, ", "))
	}

	if len(p.Rejected) > 0 {
		fmt.Fprintf(w, "\n**Skipped:**\n\n")
		for _, err := range p.Rejected {
			fmt.Fprintf(w, "- %v\n", err)
		}
	}
	return nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
