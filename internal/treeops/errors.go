package treeops

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotFound reports a missing source, directory or archive.
	ErrNotFound = errors.New("not found")
	// ErrNotADirectory reports a path that exists but is not a directory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrAlreadyExists reports a destination file kept because overwrite is off.
	ErrAlreadyExists = errors.New("already exists")
	// ErrArchiveOpen reports an archive that could not be created or opened.
	ErrArchiveOpen = errors.New("archive cannot be opened")
	// ErrArchiveWrite reports a failure while flushing or finishing an archive.
	ErrArchiveWrite = errors.New("archive write failed")
	// ErrArchiveExtract reports a failure while unpacking entries.
	ErrArchiveExtract = errors.New("archive extraction failed")
	// ErrAmbiguousTarget guards "" and "." deletes and copies of a tree into itself.
	ErrAmbiguousTarget = errors.New("ambiguous target")
	// ErrNameCollision reports two files sharing one entry name under strict naming.
	ErrNameCollision = errors.New("archive entry name collision")
)

// PathError records the operation and path that failed.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func pathError(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}

// classify tags host errors with the matching sentinel so callers can
// test with errors.Is without knowing the host.
func classify(err error) error {
	switch {
	case err == nil, errors.Is(err, ErrNotFound), errors.Is(err, ErrAlreadyExists):
		return err
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	}
	return err
}
