// Package model defines the core data types shared across commitwiz.
package model

import "strings"

// CommitType is a conventional commit category. The declaration order is the
// rank used to sequence groups and must stay stable.
type CommitType int

const (
	TypeTest CommitType = iota
	TypeDocs
	TypeCi
	TypeBuild
	TypeStyle
	TypeFeat
	TypeFix
	TypeRefactor
	TypePerf
	TypeChore
)

// AllTypes returns every commit type in rank order.
func AllTypes() []CommitType {
	return []CommitType{
		TypeTest, TypeDocs, TypeCi, TypeBuild, TypeStyle,
		TypeFeat, TypeFix, TypeRefactor, TypePerf, TypeChore,
	}
}

func (t CommitType) String() string {
	switch t {
	case TypeTest:
		return "test"
	case TypeDocs:
		return "docs"
	case TypeCi:
		return "ci"
	case TypeBuild:
		return "build"
	case TypeStyle:
		return "style"
	case TypeFeat:
		return "feat"
	case TypeFix:
		return "fix"
	case TypeRefactor:
		return "refactor"
	case TypePerf:
		return "perf"
	case TypeChore:
		return "chore"
	default:
		return "unknown"
	}
}

// ParseCommitType maps a conventional prefix back to a CommitType.
// Unknown input yields TypeFeat.
func ParseCommitType(s string) CommitType {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllTypes() {
		if t.String() == s {
			return t
		}
	}
	return TypeFeat
}

// ManualOnly reports whether t is never inferred from paths and is set only
// by a manual type change.
func (t CommitType) ManualOnly() bool {
	switch t {
	case TypeFix, TypeRefactor, TypePerf, TypeChore:
		return true
	}
	return false
}

// Next returns the following type in rank order, wrapping after TypeChore.
func (t CommitType) Next() CommitType {
	all := AllTypes()
	for i, c := range all {
		if c == t {
			return all[(i+1)%len(all)]
		}
	}
	return TypeFeat
}

// FileStatus is the change kind git reports for a file.
type FileStatus int

const (
	StatusModified FileStatus = iota
	StatusAdded
	StatusDeleted
	StatusRenamed
	StatusTypeChanged
	StatusUntracked
)

func (s FileStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusTypeChanged:
		return "typechange"
	case StatusUntracked:
		return "untracked"
	default:
		return "unknown"
	}
}

// Code returns the single-letter porcelain code for the status.
func (s FileStatus) Code() string {
	switch s {
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	case StatusRenamed:
		return "R"
	case StatusTypeChanged:
		return "T"
	case StatusUntracked:
		return "?"
	default:
		return "M"
	}
}

// ChangedFile is a single changed path in the working tree or index.
type ChangedFile struct {
	Path    string
	Status  FileStatus
	OldPath string // set only for StatusRenamed
}

// ChangeGroup is one commit unit.
type ChangeGroup struct {
	Type        CommitType
	Scope       string // empty means no scope
	Ticket      string // empty means no ticket
	Files       []ChangedFile
	Description string
	BodyLines   []string
}

// Paths returns the file paths of the group in order.
func (g *ChangeGroup) Paths() []string {
	paths := make([]string, len(g.Files))
	for i, f := range g.Files {
		paths[i] = f.Path
	}
	return paths
}

// HasFile reports whether path belongs to the group.
func (g *ChangeGroup) HasFile(path string) bool {
	return g.FileIndex(path) >= 0
}

// FileIndex returns the position of path in the group, or -1.
func (g *ChangeGroup) FileIndex(path string) int {
	for i, f := range g.Files {
		if f.Path == path {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (g ChangeGroup) Clone() ChangeGroup {
	c := g
	c.Files = append([]ChangedFile(nil), g.Files...)
	c.BodyLines = append([]string(nil), g.BodyLines...)
	return c
}
