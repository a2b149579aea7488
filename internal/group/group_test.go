package group

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/commitwiz/internal/message"
	"github.com/sprite-ai/commitwiz/internal/model"
	"github.com/sprite-ai/commitwiz/internal/pathcheck"
)

func modified(p string) model.ChangedFile { return model.ChangedFile{Path: p, Status: model.StatusModified} }
func added(p string) model.ChangedFile    { return model.ChangedFile{Path: p, Status: model.StatusAdded} }

func TestBuildTicketScenario(t *testing.T) {
	res, err := Build([]model.ChangedFile{
		modified("src/main.x"),
		added("tests/main_test.x"),
	}, "JIRA-42")
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)

	assert.Equal(t, model.TypeTest, res.Groups[0].Type)
	assert.Equal(t, "tests", res.Groups[0].Scope)
	assert.Equal(t, model.TypeFeat, res.Groups[1].Type)
	assert.Equal(t, "src", res.Groups[1].Scope)
	for _, g := range res.Groups {
		assert.Equal(t, "JIRA-42", g.Ticket)
	}
	assert.Equal(t, "test(tests): JIRA-42: update tests", message.Header(&res.Groups[0]))
	assert.Equal(t, "feat(src): JIRA-42: add src", message.Header(&res.Groups[1]))
}

func TestBuildDeterministic(t *testing.T) {
	files := []model.ChangedFile{
		modified("src/a.go"),
		modified("README.md"),
		added("docs/guide.md"),
		modified("src/b.go"),
		modified("Dockerfile"),
		modified("web/app.css"),
		added("main.go"),
		modified(".github/workflows/ci.yml"),
		modified("pkg/x_test.go"),
		modified("cmd/tool/main.go"),
	}

	first, err := Build(files, "")
	require.NoError(t, err)

	// Reverse the input; groups and their order must not change.
	reversed := make([]model.ChangedFile, len(files))
	for i, f := range files {
		reversed[len(files)-1-i] = f
	}
	second, err := Build(reversed, "")
	require.NoError(t, err)

	require.Len(t, second.Groups, len(first.Groups))
	for i := range first.Groups {
		assert.Equal(t, first.Groups[i].Type, second.Groups[i].Type)
		assert.Equal(t, first.Groups[i].Scope, second.Groups[i].Scope)
		assert.ElementsMatch(t, first.Groups[i].Paths(), second.Groups[i].Paths())
	}

	again, err := Build(files, "")
	require.NoError(t, err)
	assert.Equal(t, first.Groups, again.Groups)
}

func TestBuildOrdering(t *testing.T) {
	res, err := Build([]model.ChangedFile{
		modified("src/a.go"),
		modified("main.go"),
		modified("api/b.go"),
		modified("README.md"),
		modified("docs/x.md"),
		modified("Dockerfile"),
	}, "")
	require.NoError(t, err)

	var got []string
	for _, g := range res.Groups {
		got = append(got, fmt.Sprintf("%s(%s)", g.Type, g.Scope))
	}
	assert.Equal(t, []string{
		"docs()",
		"docs(docs)",
		"build()",
		"feat()",
		"feat(api)",
		"feat(src)",
	}, got)
}

func TestBuildBucketsPreserveFirstSeenOrder(t *testing.T) {
	res, err := Build([]model.ChangedFile{
		modified("src/z.go"),
		modified("src/a.go"),
		modified("src/m.go"),
		modified("src/a.go"),
	}, "")
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, []string{"src/z.go", "src/a.go", "src/m.go"}, res.Groups[0].Paths())
}

func TestBuildRejectsUnsafePaths(t *testing.T) {
	res, err := Build([]model.ChangedFile{
		modified("../etc/passwd"),
		modified("src/ok.go"),
		modified("/abs/path"),
	}, "")
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, []string{"src/ok.go"}, res.Groups[0].Paths())

	require.Len(t, res.Rejected, 2)
	var pe *pathcheck.PathError
	assert.True(t, errors.As(res.Rejected[0], &pe))
	assert.Equal(t, "../etc/passwd", pe.Path)
}

func TestBuildNoChanges(t *testing.T) {
	_, err := Build(nil, "")
	assert.ErrorIs(t, err, ErrNoChanges)

	res, err := Build([]model.ChangedFile{modified("../x")}, "")
	assert.ErrorIs(t, err, ErrNoChanges)
	assert.Len(t, res.Rejected, 1)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name  string
		group model.ChangeGroup
		want  string
	}{
		{"scoped feat", model.ChangeGroup{Type: model.TypeFeat, Scope: "src", Files: []model.ChangedFile{modified("src/a")}}, "add src"},
		{"scoped fix", model.ChangeGroup{Type: model.TypeFix, Scope: "api", Files: []model.ChangedFile{modified("api/a")}}, "fix api"},
		{"single file", model.ChangeGroup{Type: model.TypeDocs, Files: []model.ChangedFile{modified("README.md")}}, "update README.md"},
		{"many files", model.ChangeGroup{Type: model.TypeBuild, Files: []model.ChangedFile{modified("go.mod"), modified("go.sum")}}, "update 2 files"},
		{"feat count", model.ChangeGroup{Type: model.TypeFeat, Files: []model.ChangedFile{modified("a.go"), modified("b.go"), modified("c.go")}}, "add 3 files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(&tt.group))
		})
	}
}

func TestBodyLines(t *testing.T) {
	lines := BodyLines([]model.ChangedFile{
		added("a.go"),
		modified("b.go"),
		{Path: "c.go", Status: model.StatusDeleted},
		{Path: "d.go", Status: model.StatusRenamed, OldPath: "old.go"},
		{Path: "e.sh", Status: model.StatusTypeChanged},
		{Path: "f.txt", Status: model.StatusUntracked},
	})
	assert.Equal(t, []string{
		"add a.go",
		"modify b.go",
		"remove c.go",
		"rename d.go",
		"update e.sh",
		"add f.txt",
	}, lines)
}

func TestBodyLinesCapped(t *testing.T) {
	var files []model.ChangedFile
	for i := range 25 {
		files = append(files, modified(fmt.Sprintf("src/f%02d.go", i)))
	}
	lines := BodyLines(files)
	require.Len(t, lines, MaxBodyLines+1)
	assert.Equal(t, "modify src/f19.go", lines[MaxBodyLines-1])
	assert.Equal(t, "... and 5 more files", lines[MaxBodyLines])
}

func TestValidate(t *testing.T) {
	ok := []model.ChangeGroup{
		{Files: []model.ChangedFile{modified("a.go")}},
		{Files: []model.ChangedFile{modified("b.go"), modified("c.go")}},
	}
	assert.NoError(t, Validate(ok))

	assert.ErrorIs(t, Validate(nil), ErrNoChanges)

	empty := []model.ChangeGroup{{Files: []model.ChangedFile{modified("a.go")}}, {}}
	assert.ErrorContains(t, Validate(empty), "group 1 has no files")

	dup := []model.ChangeGroup{
		{Files: []model.ChangedFile{modified("a.go")}},
		{Files: []model.ChangedFile{modified("a.go")}},
	}
	assert.ErrorContains(t, Validate(dup), "appears in groups 0 and 1")

	unsafe := []model.ChangeGroup{{Files: []model.ChangedFile{modified("../a.go")}}}
	var pe *pathcheck.PathError
	assert.True(t, errors.As(Validate(unsafe), &pe))
}
