package hostfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/hafly/toolkit/internal/treeops"
)

// OS implements treeops.FileSystem on the local disk.
type OS struct {
	DirPerm  os.FileMode
	FilePerm os.FileMode
}

var _ treeops.FileSystem = (*OS)(nil)

// NewOS returns an OS with 0755 directories and 0644 files.
func NewOS() *OS {
	return &OS{DirPerm: 0o755, FilePerm: 0o644}
}

func (o *OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (o *OS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ListChildren returns entries in directory order. Unlike os.ReadDir
// the result is not sorted.
func (o *OS) ListChildren(path string) ([]treeops.Entry, error) {
	dir, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	dirEntries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, err
	}
	entries := make([]treeops.Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		entries = append(entries, treeops.Entry{Name: d.Name(), IsDir: d.IsDir()})
	}
	return entries, nil
}

// CopyFile copies the bytes of from into to, truncating to.
func (o *OS) CopyFile(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "copy", Path: from, Err: syscall.EISDIR}
	}

	dst, err := os.OpenFile(to, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, o.filePerm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copy %s: %w", from, err)
	}
	return dst.Close()
}

// DeleteFile removes a non-directory entry.
func (o *OS) DeleteFile(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "unlink", Path: path, Err: syscall.EISDIR}
	}
	return os.Remove(path)
}

// CreateDir creates path and any missing parents. An existing directory
// is not an error.
func (o *OS) CreateDir(path string) error {
	return os.MkdirAll(path, o.dirPerm())
}

// RemoveDir removes an empty directory.
func (o *OS) RemoveDir(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "rmdir", Path: path, Err: syscall.ENOTDIR}
	}
	return os.Remove(path)
}

func (o *OS) dirPerm() os.FileMode {
	if o.DirPerm == 0 {
		return 0o755
	}
	return o.DirPerm
}

func (o *OS) filePerm() os.FileMode {
	if o.FilePerm == 0 {
		return 0o644
	}
	return o.FilePerm
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
