package message

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/commitwiz/internal/model"
)

func TestHeader(t *testing.T) {
	tests := []struct {
		name  string
		group model.ChangeGroup
		want  string
	}{
		{
			name:  "all parts",
			group: model.ChangeGroup{Type: model.TypeFeat, Scope: "src", Ticket: "JIRA-42", Description: "add src"},
			want:  "feat(src): JIRA-42: add src",
		},
		{
			name:  "no scope",
			group: model.ChangeGroup{Type: model.TypeDocs, Ticket: "ABC-1", Description: "update README.md"},
			want:  "docs: ABC-1: update README.md",
		},
		{
			name:  "no ticket",
			group: model.ChangeGroup{Type: model.TypeTest, Scope: "tests", Description: "update tests"},
			want:  "test(tests): update tests",
		},
		{
			name:  "bare",
			group: model.ChangeGroup{Type: model.TypeChore, Description: "tidy"},
			want:  "chore: tidy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Header(&tt.group))
		})
	}
}

func TestHeaderTruncation(t *testing.T) {
	g := model.ChangeGroup{
		Type:        model.TypeFeat,
		Scope:       "src",
		Ticket:      "JIRA-42",
		Description: strings.Repeat("x", 100),
	}

	h := Header(&g)
	assert.Equal(t, MaxHeaderLength, utf8.RuneCountInString(h))
	assert.True(t, strings.HasPrefix(h, "feat(src): JIRA-42: xxx"))
	assert.True(t, strings.HasSuffix(h, "..."))
}

func TestHeaderExactlyAtLimitIsUntouched(t *testing.T) {
	prefix := "fix: "
	g := model.ChangeGroup{Type: model.TypeFix, Description: strings.Repeat("y", MaxHeaderLength-len(prefix))}

	h := Header(&g)
	assert.Equal(t, MaxHeaderLength, len(h))
	assert.False(t, strings.HasSuffix(h, "..."))
}

func TestHeaderOversizedPrefix(t *testing.T) {
	g := model.ChangeGroup{
		Type:        model.TypeFeat,
		Scope:       strings.Repeat("s", 90),
		Description: "add things",
	}
	h := Header(&g)
	assert.Equal(t, MaxHeaderLength, utf8.RuneCountInString(h))
}

func TestHeaderNeverExceedsLimit(t *testing.T) {
	for _, scope := range []string{"", "a", strings.Repeat("b", 40), strings.Repeat("c", 80)} {
		for _, ticket := range []string{"", "JIRA-1", "PROJECTKEY-123456"} {
			for _, n := range []int{0, 10, 50, 71, 72, 73, 200} {
				g := model.ChangeGroup{
					Type:        model.TypeRefactor,
					Scope:       scope,
					Ticket:      ticket,
					Description: strings.Repeat("é", n),
				}
				h := Header(&g)
				assert.LessOrEqual(t, utf8.RuneCountInString(h), MaxHeaderLength, "scope=%d ticket=%q n=%d", len(scope), ticket, n)
				assert.True(t, utf8.ValidString(h))
			}
		}
	}
}

func TestFullMessage(t *testing.T) {
	g := model.ChangeGroup{Type: model.TypeFeat, Scope: "api", Description: "add users endpoint"}
	assert.Equal(t, "feat(api): add users endpoint", FullMessage(&g))

	g.BodyLines = []string{"add GET /users", "add user model"}
	assert.Equal(t,
		"feat(api): add users endpoint\n\n- add GET /users\n- add user model\n",
		FullMessage(&g))
}

func TestParseEdited(t *testing.T) {
	raw := "new summary\nstray line before blank\n\n- first\n\n\n  second  \n- third\n"
	desc, body := ParseEdited(raw, "feat: ")
	assert.Equal(t, "new summary", desc)
	assert.Equal(t, []string{"first", "second", "third"}, body)
}

func TestParseEditedStripsGroupPrefix(t *testing.T) {
	desc, body := ParseEdited("feat(src): JIRA-42: add login form", "feat(src): JIRA-42: ")
	assert.Equal(t, "add login form", desc)
	assert.Empty(t, body)

	desc, _ = ParseEdited("docs: describe: colons inside", "docs: ")
	assert.Equal(t, "describe: colons inside", desc)

	desc, _ = ParseEdited("Plain description: with colon", "docs: ")
	assert.Equal(t, "Plain description: with colon", desc)
}

func TestParseEditedKeepsOtherPrefixes(t *testing.T) {
	// a different type or ticket is part of the description
	desc, _ := ParseEdited("fix(api): handle nil", "feat(api): ")
	assert.Equal(t, "fix(api): handle nil", desc)

	desc, _ = ParseEdited("chore: OPS-7: rotate keys", "chore: ")
	assert.Equal(t, "OPS-7: rotate keys", desc)
}

func TestParseEditedBarePrefixIsEmpty(t *testing.T) {
	desc, _ := ParseEdited("feat(src):  \n\n- body", "feat(src): ")
	assert.Equal(t, "", desc)
}

func TestParseEditedWindowsNewlines(t *testing.T) {
	desc, body := ParseEdited("summary\r\n\r\n- one\r\n", "")
	assert.Equal(t, "summary", desc)
	assert.Equal(t, []string{"one"}, body)
}

func TestRoundTripWithoutBody(t *testing.T) {
	for _, g := range []model.ChangeGroup{
		{Type: model.TypeFeat, Scope: "src", Ticket: "JIRA-42", Description: "add src"},
		{Type: model.TypeDocs, Description: "update README.md"},
		{Type: model.TypeCi, Scope: ".github", Description: "update .github"},
		{Type: model.TypeBuild, Ticket: "AB-9", Description: "update 3 files"},
		{Type: model.TypeChore, Description: "OPS-7: rotate keys"},
		{Type: model.TypeFeat, Scope: "pkg(v2)", Description: "add pkg(v2)"},
		{Type: model.TypeFix, Scope: "api", Description: "feat: keep the literal prefix"},
	} {
		desc, body := ParseEdited(FullMessage(&g), Prefix(&g))
		assert.Equal(t, g.Description, desc)
		assert.Empty(t, body)
	}
}

func TestRoundTripWithBody(t *testing.T) {
	g := model.ChangeGroup{
		Type:        model.TypeTest,
		Scope:       "tests",
		Description: "update tests",
		BodyLines:   []string{"add tests/a_test.go", "modify tests/b_test.go"},
	}
	desc, body := ParseEdited(FullMessage(&g), Prefix(&g))
	assert.Equal(t, g.Description, desc)
	assert.Equal(t, g.BodyLines, body)
}

func TestEditTextKeepsLongDescription(t *testing.T) {
	g := model.ChangeGroup{
		Type:        model.TypeFeat,
		Scope:       "src",
		Description: strings.Repeat("long words ", 10),
		BodyLines:   []string{"one"},
	}
	g.Description = strings.TrimSpace(g.Description)

	assert.Len(t, []rune(Header(&g)), MaxHeaderLength)
	desc, body := ParseEdited(EditText(&g), Prefix(&g))
	assert.Equal(t, g.Description, desc)
	assert.Equal(t, []string{"one"}, body)

	short := model.ChangeGroup{Type: model.TypeDocs, Description: "update README.md", BodyLines: []string{"x"}}
	assert.Equal(t, FullMessage(&short), EditText(&short))
}

func TestValidScope(t *testing.T) {
	assert.True(t, ValidScope("api"))
	assert.True(t, ValidScope(".github"))
	assert.True(t, ValidScope(""))
	assert.False(t, ValidScope("x)y"))
	assert.False(t, ValidScope("pkg(v2)"))
	assert.False(t, ValidScope("a\nb"))
}

func TestParseAIResponse(t *testing.T) {
	desc, body, err := ParseAIResponse("```\n\"add rate limiter\"\n\n- limit per IP\n- add config knob\n```")
	require.NoError(t, err)
	assert.Equal(t, "add rate limiter", desc)
	assert.Equal(t, []string{"limit per IP", "add config knob"}, body)

	desc, body, err = ParseAIResponse("feat(api): add endpoint")
	require.NoError(t, err)
	assert.Equal(t, "add endpoint", desc)
	assert.Empty(t, body)

	desc, _, err = ParseAIResponse("OPS-7: rotate keys")
	require.NoError(t, err)
	assert.Equal(t, "OPS-7: rotate keys", desc, "only commit types are stripped")

	desc, _, err = ParseAIResponse("note: keep this")
	require.NoError(t, err)
	assert.Equal(t, "note: keep this", desc)

	_, _, err = ParseAIResponse("   \n\n")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
