package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/commitwiz/internal/executil"
	"github.com/sprite-ai/commitwiz/internal/model"
)

func newFake(rec *executil.RecordingExecutor) *Copilot {
	return &Copilot{Command: "copilot", Executor: rec, Logger: zerolog.Nop()}
}

func TestAvailable(t *testing.T) {
	t.Run("installed and authenticated", func(t *testing.T) {
		rec := &executil.RecordingExecutor{Outputs: map[string][]byte{"copilot": []byte("ok")}}
		assert.True(t, newFake(rec).Available(context.Background()))
		assert.Equal(t, []string{"copilot --version", "copilot -s -p Test"}, rec.Lines())
	})

	t.Run("not installed", func(t *testing.T) {
		rec := &executil.RecordingExecutor{Errors: map[string]error{"copilot --version": errors.New("not found")}}
		assert.False(t, newFake(rec).Available(context.Background()))
		assert.Len(t, rec.Commands, 1)
	})

	t.Run("not authenticated despite success", func(t *testing.T) {
		rec := &executil.RecordingExecutor{Outputs: map[string][]byte{
			"copilot -s -p Test": []byte("Error: No authentication information found.\n"),
		}}
		assert.False(t, newFake(rec).Available(context.Background()))
	})

	t.Run("banner on stderr", func(t *testing.T) {
		rec := &executil.RecordingExecutor{Errors: map[string]error{
			"copilot -s -p Test": &executil.Error{Cmd: "copilot", Stderr: "Error: No authentication information found.", Err: errors.New("exit status 1")},
		}}
		assert.False(t, newFake(rec).Available(context.Background()))
	})
}

func TestGenerate(t *testing.T) {
	rec := &executil.RecordingExecutor{Outputs: map[string][]byte{
		"copilot": []byte("thinking...\n**START COMMIT MESSAGE**\nadd rate limiter\n\nlimit per IP\n**END COMMIT MESSAGE**\nusage: 3 requests\n"),
	}}
	resp, err := newFake(rec).Generate(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "add rate limiter\nlimit per IP", resp)
	assert.Equal(t, []string{"-s", "-p", "prompt text"}, rec.Commands[0].Args)
}

func TestGenerateErrors(t *testing.T) {
	t.Run("process failure", func(t *testing.T) {
		rec := &executil.RecordingExecutor{Errors: map[string]error{"copilot": errors.New("exit status 2")}}
		_, err := newFake(rec).Generate(context.Background(), "p")
		assert.Equal(t, KindFailed, KindOf(err))
	})

	t.Run("timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 0)
		defer cancel()
		<-ctx.Done()

		rec := &executil.RecordingExecutor{Errors: map[string]error{"copilot": errors.New("signal: killed")}}
		_, err := newFake(rec).Generate(ctx, "p")
		assert.Equal(t, KindTimeout, KindOf(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("no markers", func(t *testing.T) {
		rec := &executil.RecordingExecutor{Outputs: map[string][]byte{"copilot": []byte("just chatter")}}
		_, err := newFake(rec).Generate(context.Background(), "p")
		assert.Equal(t, KindMalformed, KindOf(err))
	})
}

func TestExtractMarked(t *testing.T) {
	out, err := ExtractMarked("  **START COMMIT MESSAGE**  \n\n line one\n\nline two\n**END COMMIT MESSAGE**\nafter")
	require.NoError(t, err)
	assert.Equal(t, " line one\nline two", out)

	_, err = ExtractMarked("**START COMMIT MESSAGE**\n\n**END COMMIT MESSAGE**")
	assert.Error(t, err)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnavailable, KindOf(&Error{Kind: KindUnavailable}))
	assert.Equal(t, KindTimeout, KindOf(context.DeadlineExceeded))
	assert.Equal(t, KindFailed, KindOf(errors.New("boom")))
	assert.Equal(t, "assistant timeout", (&Error{Kind: KindTimeout}).Error())
}

func TestMessagePrompt(t *testing.T) {
	g := &model.ChangeGroup{
		Type:   model.TypeFeat,
		Scope:  "api",
		Ticket: "JIRA-42",
		Files:  []model.ChangedFile{{Path: "api/users.go"}},
	}
	p := MessagePrompt(g, strings.Repeat("x", 1500))

	assert.Contains(t, p, "Ticket number: JIRA-42")
	assert.Contains(t, p, "Type: feat\nScope: api\n")
	assert.Contains(t, p, "  - api/users.go\n")
	assert.Contains(t, p, strings.Repeat("x", 1000)+"\n... (truncated)")
	assert.NotContains(t, p, strings.Repeat("x", 1001))
	assert.Contains(t, p, startMarker)
	assert.Contains(t, p, endMarker)
}

func TestGroupingPromptLimitsDiffs(t *testing.T) {
	diffs := map[string]string{}
	var files []model.ChangedFile
	for _, p := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		diffs[p+".go"] = "diff of " + p
		files = append(files, model.ChangedFile{Path: p + ".go", Status: model.StatusAdded})
	}

	p := GroupingPrompt(files, "", diffs)
	assert.Contains(t, p, "  added - a.go\n")
	assert.Contains(t, p, "diff of e")
	assert.NotContains(t, p, "diff of f")
	assert.NotContains(t, p, "Ticket/Issue")
}

func TestParseGroups(t *testing.T) {
	files := []model.ChangedFile{
		{Path: "api/users.go", Status: model.StatusAdded},
		{Path: "api/users_test.go", Status: model.StatusAdded},
		{Path: "README.md", Status: model.StatusModified},
	}
	resp := "```json\n" + `[
  {"type": "feat", "scope": "api", "description": "add users endpoint",
   "files": ["api/users.go", "api/users_test.go", "ghost.go"],
   "body_lines": ["- implement GET /users", "", "add tests"]}
]` + "\n```"

	groups, err := ParseGroups(resp, files, "JIRA-1")
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// README.md was left out, grouped heuristically, and sorts first.
	assert.Equal(t, model.TypeDocs, groups[0].Type)
	assert.Equal(t, []string{"README.md"}, groups[0].Paths())
	assert.Equal(t, "JIRA-1", groups[0].Ticket)

	assert.Equal(t, model.TypeFeat, groups[1].Type)
	assert.Equal(t, "api", groups[1].Scope)
	assert.Equal(t, "JIRA-1", groups[1].Ticket)
	assert.Equal(t, []string{"api/users.go", "api/users_test.go"}, groups[1].Paths())
	assert.Equal(t, []string{"implement GET /users", "add tests"}, groups[1].BodyLines)
}

func TestParseGroupsNormalizesTypesAndOrder(t *testing.T) {
	files := []model.ChangedFile{
		{Path: "src/a.go", Status: model.StatusModified},
		{Path: "tests/a_test.go", Status: model.StatusModified},
		{Path: "docs/guide.md", Status: model.StatusModified},
	}
	resp := `[
  {"type":"chore","scope":"x)y","description":"tidy","files":["src/a.go"]},
  {"type":"test","scope":"tests","description":"cover a","files":["tests/a_test.go"]},
  {"type":"perf","scope":"docs","files":["docs/guide.md"]}
]`

	groups, err := ParseGroups(resp, files, "")
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, model.TypeTest, groups[0].Type)
	assert.Equal(t, "tests", groups[0].Scope)

	assert.Equal(t, model.TypeDocs, groups[1].Type, "perf is replaced by the inferred type")
	assert.Equal(t, "docs", groups[1].Scope)
	assert.Equal(t, "update docs", groups[1].Description)

	assert.Equal(t, model.TypeFeat, groups[2].Type, "chore is replaced by the inferred type")
	assert.Equal(t, "src", groups[2].Scope, "an unusable scope falls back to the path scope")
	assert.Equal(t, "tidy", groups[2].Description)

	for _, g := range groups {
		assert.False(t, g.Type.ManualOnly())
	}
}

func TestParseGroupsRejects(t *testing.T) {
	files := []model.ChangedFile{{Path: "a.go"}, {Path: "b.go"}}

	tests := []struct {
		name string
		resp string
	}{
		{"not json", "here you go: a.go and b.go"},
		{"duplicate file", `[{"type":"feat","files":["a.go"]},{"type":"fix","files":["a.go","b.go"]}]`},
		{"no known files", `[{"type":"feat","files":["x.go"]}]`},
		{"empty", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGroups(tt.resp, files, "")
			require.Error(t, err)
			assert.Equal(t, KindMalformed, KindOf(err))
		})
	}
}

func TestParseGroupsDefaultsDescription(t *testing.T) {
	files := []model.ChangedFile{{Path: "cli/run.go"}}
	groups, err := ParseGroups(`[{"type":"docs","scope":"cli","files":["cli/run.go"]}]`, files, "")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, model.TypeDocs, groups[0].Type)
	assert.Equal(t, "update cli", groups[0].Description)
}

func TestGroup(t *testing.T) {
	rec := &executil.RecordingExecutor{Outputs: map[string][]byte{
		"copilot": []byte("**START COMMIT MESSAGE**\n[{\"type\":\"fix\",\"files\":[\"a.go\"],\"description\":\"fix crash\"}]\n**END COMMIT MESSAGE**\n"),
	}}
	groups, err := newFake(rec).Group(context.Background(), []model.ChangedFile{{Path: "a.go"}}, "", nil)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, model.TypeFeat, groups[0].Type, "fix is only set by hand")
	assert.Equal(t, "fix crash", groups[0].Description)
}
