// Package group buckets changed files into ordered commit groups.
package group

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/sprite-ai/commitwiz/internal/infer"
	"github.com/sprite-ai/commitwiz/internal/model"
	"github.com/sprite-ai/commitwiz/internal/pathcheck"
)

// MaxBodyLines caps the generated per-file body lines of a group.
const MaxBodyLines = 20

// ErrNoChanges is returned when no valid file is left to group.
var ErrNoChanges = errors.New("no changes to commit")

// Result holds the groups built from a file set plus the files that were
// dropped on the way.
type Result struct {
	Groups   []model.ChangeGroup
	Rejected []error
}

type bucketKey struct {
	typ   model.CommitType
	scope string
}

// Build classifies files and merges those sharing a (type, scope) pair into
// one group. Groups are ordered by type rank, then scope with the unscoped
// group first. Unsafe paths are dropped and reported in Result.Rejected.
func Build(files []model.ChangedFile, ticket string) (*Result, error) {
	res := &Result{}
	buckets := make(map[bucketKey]*model.ChangeGroup)
	seen := make(map[string]bool)

	for _, f := range files {
		if err := pathcheck.Validate(f.Path); err != nil {
			res.Rejected = append(res.Rejected, err)
			continue
		}
		if seen[f.Path] {
			continue
		}
		seen[f.Path] = true

		key := bucketKey{typ: infer.Classify(f.Path), scope: infer.Scope(f.Path)}
		g, ok := buckets[key]
		if !ok {
			g = &model.ChangeGroup{Type: key.typ, Scope: key.scope, Ticket: ticket}
			buckets[key] = g
		}
		g.Files = append(g.Files, f)
	}

	if len(buckets) == 0 {
		return res, ErrNoChanges
	}

	for _, g := range buckets {
		g.Description = Describe(g)
		g.BodyLines = BodyLines(g.Files)
		res.Groups = append(res.Groups, *g)
	}
	Sort(res.Groups)
	return res, nil
}

// Sort orders groups by type rank, then scope ascending with "" first.
func Sort(groups []model.ChangeGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Type != groups[j].Type {
			return groups[i].Type < groups[j].Type
		}
		return groups[i].Scope < groups[j].Scope
	})
}

// Verb returns the leading verb used in generated descriptions.
func Verb(t model.CommitType) string {
	switch t {
	case model.TypeFeat:
		return "add"
	case model.TypeFix:
		return "fix"
	default:
		return "update"
	}
}

// Describe generates the default description for g: the scope when it has
// one, otherwise the single file's base name or a file count.
func Describe(g *model.ChangeGroup) string {
	verb := Verb(g.Type)
	switch {
	case g.Scope != "":
		return verb + " " + g.Scope
	case len(g.Files) == 1:
		return verb + " " + path.Base(strings.ReplaceAll(g.Files[0].Path, `\`, "/"))
	default:
		return fmt.Sprintf("%s %d files", verb, len(g.Files))
	}
}

// BodyLines lists one "<action> <path>" line per file, capped at
// MaxBodyLines with a trailing summary of the remainder.
func BodyLines(files []model.ChangedFile) []string {
	if len(files) == 0 {
		return nil
	}
	n := min(len(files), MaxBodyLines)
	lines := make([]string, 0, n+1)
	for _, f := range files[:n] {
		lines = append(lines, action(f)+" "+f.Path)
	}
	if rest := len(files) - n; rest > 0 {
		lines = append(lines, fmt.Sprintf("... and %d more files", rest))
	}
	return lines
}

func action(f model.ChangedFile) string {
	switch f.Status {
	case model.StatusAdded, model.StatusUntracked:
		return "add"
	case model.StatusDeleted:
		return "remove"
	case model.StatusModified:
		return "modify"
	case model.StatusRenamed:
		return "rename"
	default:
		return "update"
	}
}

// Validate checks a grouping produced outside Build: every group owns at
// least one file, paths are safe, and no path appears twice.
func Validate(groups []model.ChangeGroup) error {
	if len(groups) == 0 {
		return ErrNoChanges
	}
	owner := make(map[string]int)
	for i, g := range groups {
		if len(g.Files) == 0 {
			return fmt.Errorf("group %d has no files", i)
		}
		for _, f := range g.Files {
			if err := pathcheck.Validate(f.Path); err != nil {
				return fmt.Errorf("group %d: %w", i, err)
			}
			if prev, dup := owner[f.Path]; dup {
				return fmt.Errorf("file %s appears in groups %d and %d", f.Path, prev, i)
			}
			owner[f.Path] = i
		}
	}
	return nil
}
