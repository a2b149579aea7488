package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/commitwiz/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want model.CommitType
	}{
		{"src/main.rs", model.TypeFeat},
		{"tests/unit.rs", model.TypeTest},
		{"tests/main_test.x", model.TypeTest},
		{"pkg/server/server_test.go", model.TypeTest},
		{"web/app.spec.ts", model.TypeTest},
		{"README.md", model.TypeDocs},
		{"docs/guide/install.txt", model.TypeDocs},
		{"guide/intro.rst", model.TypeDocs},
		{"LICENSE", model.TypeDocs},
		{".github/workflows/ci.yml", model.TypeCi},
		{".gitlab/issue_templates/bug.yml", model.TypeCi},
		{"deploy/pipeline.yaml", model.TypeCi},
		{".gitlab-ci.yml", model.TypeCi},
		{"Dockerfile", model.TypeBuild},
		{"services/api/Dockerfile", model.TypeBuild},
		{"package.json", model.TypeBuild},
		{"go.mod", model.TypeBuild},
		{"Cargo.toml", model.TypeBuild},
		{"Makefile", model.TypeBuild},
		{"styles/main.css", model.TypeStyle},
		{"web/theme.scss", model.TypeStyle},
		{"web/styles/reset.js", model.TypeStyle},
		{"cmd/app/main.go", model.TypeFeat},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// Each path matches at least two rules; the earlier rule must win.
	tests := []struct {
		path string
		want model.CommitType
	}{
		{"tests/readme.md", model.TypeTest},        // test > docs
		{"tests/README.md", model.TypeTest},        // test > docs
		{"docs/.github/notes.md", model.TypeDocs},  // docs > ci
		{".github/README.md", model.TypeDocs},      // docs > ci
		{".github/Dockerfile", model.TypeCi},       // ci > build
		{"pipeline/package.json", model.TypeCi},    // ci > build
		{"styles/Dockerfile", model.TypeBuild},     // build > style
		{"test/styles/main.css", model.TypeTest},   // test > style
		{"docs/styles/theme.css", model.TypeDocs},  // docs > style
		{"spec/.gitlab-ci.yml", model.TypeTest},    // test > ci
		{"windows\\tests\\x.md", model.TypeTest},   // backslashes normalized
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestRulesOrder(t *testing.T) {
	got := Rules()
	require.Len(t, got, 5)

	want := []model.CommitType{
		model.TypeTest,
		model.TypeDocs,
		model.TypeCi,
		model.TypeBuild,
		model.TypeStyle,
	}
	for i, r := range got {
		assert.Equal(t, want[i], r.Type, "rule %d", i)
		assert.NotEmpty(t, r.Patterns)
	}

	// Mutating the copy must not affect classification.
	got[0].Patterns[0] = "nothing"
	assert.Equal(t, model.TypeTest, Classify("a_test.go"))
}

func TestScope(t *testing.T) {
	assert.Equal(t, "", Scope("README.md"))
	assert.Equal(t, "src", Scope("src/api/users.rs"))
	assert.Equal(t, "backend", Scope("backend/db/schema.sql"))
	assert.Equal(t, ".github", Scope(".github/workflows/ci.yml"))
	assert.Equal(t, "web", Scope(`web\index.ts`))
	assert.Equal(t, "", Scope(""))
}

func TestTicket(t *testing.T) {
	tests := []struct {
		branch string
		want   string
	}{
		{"feature/JIRA-42-add-x", "JIRA-42"},
		{"ABC-1234", "ABC-1234"},
		{"bugfix/LU-7-and-LU-8", "LU-7"},
		{"main", ""},
		{"feature/jira-42-lowercase", ""},
		{"release/2024-10", ""},
		{"hotfix/ABC-", ""},
	}

	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			assert.Equal(t, tt.want, Ticket(tt.branch))
		})
	}
}
