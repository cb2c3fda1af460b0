// Package pathpolicy confines caller-supplied paths before they reach
// the tree engine.
package pathpolicy

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	ErrEmptyPath   = errors.New("path is empty")
	ErrTraversal   = errors.New("path contains parent traversal")
	ErrOutsideRoot = errors.New("path escapes root")
	ErrDenied      = errors.New("path is denied")
)

// Policy describes where paths may point. The zero value accepts any
// non-empty path without traversal and returns it untouched.
type Policy struct {
	// Root confines paths below it; relative paths are joined onto it.
	Root string
	// AllowTraversal permits ".." segments. Paths must still stay under Root.
	AllowTraversal bool
	// Deny lists doublestar patterns matched against the resolved path.
	Deny []string
}

// Validate checks the deny patterns.
func (p Policy) Validate() error {
	for _, pattern := range p.Deny {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid deny pattern %q", pattern)
		}
	}
	return nil
}

// Resolve applies the policy to path and returns the path to operate on.
func (p Policy) Resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	if !p.AllowTraversal && hasTraversal(path) {
		return "", fmt.Errorf("%w: %s", ErrTraversal, path)
	}

	resolved := path
	if p.Root != "" {
		root := filepath.Clean(p.Root)
		if filepath.IsAbs(path) {
			resolved = filepath.Clean(path)
		} else {
			resolved = filepath.Join(root, path)
		}
		if !within(root, resolved) {
			return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
		}
	}

	if p.denied(resolved) {
		return "", fmt.Errorf("%w: %s", ErrDenied, path)
	}
	return resolved, nil
}

// denied matches with and without the leading slash so "**/x" also
// catches absolute paths.
func (p Policy) denied(resolved string) bool {
	slashed := filepath.ToSlash(resolved)
	trimmed := strings.TrimLeft(slashed, "/")
	for _, pattern := range p.Deny {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, trimmed); ok {
			return true
		}
	}
	return false
}

// Relative maps a resolved path back to its form under Root, so
// responses do not leak the host layout.
func (p Policy) Relative(resolved string) string {
	if p.Root == "" {
		return resolved
	}
	rel, err := filepath.Rel(filepath.Clean(p.Root), resolved)
	if err != nil {
		return resolved
	}
	return filepath.ToSlash(rel)
}

func hasTraversal(path string) bool {
	for _, part := range strings.FieldsFunc(path, isSeparator) {
		if part == ".." {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
