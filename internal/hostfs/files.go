package hostfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hafly/toolkit/internal/treeops"
)

// Copy copies a single file. An existing destination is replaced only
// when overwrite is set; missing parent directories are created.
func (o *OS) Copy(from, to string, overwrite bool) error {
	if err := o.prepareTarget("copy", from, to, overwrite); err != nil {
		return err
	}
	return o.CopyFile(from, to)
}

// Move renames a single file under the same rules as Copy.
func (o *OS) Move(from, to string, overwrite bool) error {
	if err := o.prepareTarget("move", from, to, overwrite); err != nil {
		return err
	}
	return os.Rename(from, to)
}

// Delete removes a single file.
func (o *OS) Delete(path string) error {
	if err := o.DeleteFile(path); err != nil {
		if isNotExist(err) {
			return &treeops.PathError{Op: "delete", Path: path, Err: treeops.ErrNotFound}
		}
		return err
	}
	return nil
}

// ReadFile returns the contents of path.
func (o *OS) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return nil, &treeops.PathError{Op: "read", Path: path, Err: treeops.ErrNotFound}
		}
		return nil, err
	}
	return data, nil
}

// WriteFile replaces path with data, creating parents as needed.
func (o *OS) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), o.dirPerm()); err != nil {
		return err
	}
	return os.WriteFile(path, data, o.filePerm())
}

// AppendFile appends text under an exclusive lock, followed by the
// platform line ending when newline is set.
func (o *OS) AppendFile(path, text string, newline bool) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, o.filePerm())
	if err != nil {
		return err
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	defer unlockFile(f)

	if newline {
		text += lineEnding
	}
	if _, err := f.WriteString(text); err != nil {
		return err
	}
	return f.Sync()
}

func (o *OS) prepareTarget(op, from, to string, overwrite bool) error {
	if !o.Exists(from) {
		return &treeops.PathError{Op: op, Path: from, Err: treeops.ErrNotFound}
	}
	if o.Exists(to) {
		if !overwrite {
			return &treeops.PathError{Op: op, Path: to, Err: treeops.ErrAlreadyExists}
		}
		return o.DeleteFile(to)
	}
	return o.CreateDir(filepath.Dir(to))
}
