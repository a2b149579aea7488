package model

import (
	"testing"
)

func TestCommitTypeString(t *testing.T) {
	tests := []struct {
		typ  CommitType
		want string
	}{
		{TypeTest, "test"},
		{TypeDocs, "docs"},
		{TypeCi, "ci"},
		{TypeBuild, "build"},
		{TypeStyle, "style"},
		{TypeFeat, "feat"},
		{TypeFix, "fix"},
		{TypeRefactor, "refactor"},
		{TypePerf, "perf"},
		{TypeChore, "chore"},
		{CommitType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("CommitType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestCommitTypeRankOrder(t *testing.T) {
	all := AllTypes()
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Errorf("rank order broken at %s >= %s", all[i-1], all[i])
		}
	}
	if TypeTest >= TypeFeat {
		t.Error("expected test to rank before feat")
	}
}

func TestParseCommitType(t *testing.T) {
	for _, typ := range AllTypes() {
		if got := ParseCommitType(typ.String()); got != typ {
			t.Errorf("ParseCommitType(%q) = %s", typ.String(), got)
		}
	}
	if got := ParseCommitType(" FIX "); got != TypeFix {
		t.Errorf("expected case-insensitive parse, got %s", got)
	}
	if got := ParseCommitType("wip"); got != TypeFeat {
		t.Errorf("expected unknown to default to feat, got %s", got)
	}
}

func TestCommitTypeNextWraps(t *testing.T) {
	if TypeChore.Next() != TypeTest {
		t.Errorf("expected chore to wrap to test, got %s", TypeChore.Next())
	}
	if TypeFeat.Next() != TypeFix {
		t.Errorf("expected feat -> fix, got %s", TypeFeat.Next())
	}
}

func TestCommitTypeManualOnly(t *testing.T) {
	manual := map[CommitType]bool{TypeFix: true, TypeRefactor: true, TypePerf: true, TypeChore: true}
	for _, typ := range AllTypes() {
		if got := typ.ManualOnly(); got != manual[typ] {
			t.Errorf("%s.ManualOnly() = %v, want %v", typ, got, manual[typ])
		}
	}
}

func TestChangeGroupClone(t *testing.T) {
	g := ChangeGroup{
		Files:     []ChangedFile{{Path: "a.go"}},
		BodyLines: []string{"one"},
	}
	c := g.Clone()
	c.Files[0].Path = "b.go"
	c.BodyLines[0] = "two"

	if g.Files[0].Path != "a.go" || g.BodyLines[0] != "one" {
		t.Error("clone aliases the original slices")
	}
	if !c.HasFile("b.go") || c.FileIndex("a.go") != -1 {
		t.Error("unexpected clone contents")
	}
}
