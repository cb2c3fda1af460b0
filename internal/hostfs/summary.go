package hostfs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"github.com/hafly/toolkit/internal/treeops"
)

// Summary aggregates a directory tree.
type Summary struct {
	Files int64 `json:"files"`
	Dirs  int64 `json:"dirs"`
	Bytes int64 `json:"bytes"`
}

// Summarize walks root in parallel and counts files, directories and
// bytes. Unreadable entries are skipped.
func Summarize(ctx context.Context, root string) (*Summary, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &treeops.PathError{Op: "summarize", Path: root, Err: treeops.ErrNotADirectory}
	}

	var files, dirs, bytes atomic.Int64
	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil || path == root {
			return nil
		}
		if d.IsDir() {
			dirs.Add(1)
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files.Add(1)
		bytes.Add(info.Size())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Summary{Files: files.Load(), Dirs: dirs.Load(), Bytes: bytes.Load()}, nil
}

// ErrBadPattern is returned for malformed glob patterns.
var ErrBadPattern = doublestar.ErrBadPattern

// Find returns the files below root matching a doublestar pattern such
// as "**/*.log". Results are joined onto root.
func Find(ctx context.Context, root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, ErrBadPattern
	}
	if info, err := os.Stat(root); err != nil {
		return nil, err
	} else if !info.IsDir() {
		return nil, &treeops.PathError{Op: "find", Path: root, Err: treeops.ErrNotADirectory}
	}

	var matches []string
	err := doublestar.GlobWalk(os.DirFS(root), pattern, func(match string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() {
			matches = append(matches, filepath.Join(root, filepath.FromSlash(match)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}
