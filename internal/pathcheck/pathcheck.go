// Package pathcheck rejects repository paths that are unsafe to hand to git.
package pathcheck

import (
	"fmt"
	"strings"
)

// PathError describes why a path was rejected.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("unsafe path %q: %s", e.Path, e.Reason)
}

// Validate returns a *PathError if path is empty, absolute, escapes the
// repository through a ".." segment, contains a NUL byte, or starts with a
// drive letter.
func Validate(path string) error {
	switch {
	case path == "":
		return &PathError{Path: path, Reason: "empty path"}
	case strings.ContainsRune(path, 0):
		return &PathError{Path: path, Reason: "contains null byte"}
	case strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`):
		return &PathError{Path: path, Reason: "absolute path"}
	case hasDriveLetter(path):
		return &PathError{Path: path, Reason: "drive letter prefix"}
	}

	for _, seg := range strings.FieldsFunc(path, isSeparator) {
		if seg == ".." {
			return &PathError{Path: path, Reason: "parent directory reference"}
		}
	}
	return nil
}

// Filter splits paths into those that validate and the errors for those that
// don't, preserving order.
func Filter(paths []string) (ok []string, rejected []error) {
	for _, p := range paths {
		if err := Validate(p); err != nil {
			rejected = append(rejected, err)
			continue
		}
		ok = append(ok, p)
	}
	return ok, rejected
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

func hasDriveLetter(path string) bool {
	if len(path) < 2 || path[1] != ':' {
		return false
	}
	c := path[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
