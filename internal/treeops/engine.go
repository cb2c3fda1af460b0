package treeops

import (
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Engine runs tree operations against a host filesystem.
type Engine struct {
	fs       FileSystem
	archiver Archiver
	naming   Naming
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithArchiver sets the archiver used by CreateArchive and ExtractArchive.
func WithArchiver(a Archiver) Option {
	return func(e *Engine) { e.archiver = a }
}

// WithNaming sets the archive entry naming mode.
func WithNaming(n Naming) Option {
	return func(e *Engine) { e.naming = n }
}

// WithLogger sets the logger for skipped children.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine over fs.
func New(fs FileSystem, opts ...Option) *Engine {
	e := &Engine{
		fs:     fs,
		naming: NamingFlat,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// With returns a copy of the engine with opts applied on top.
func (e *Engine) With(opts ...Option) *Engine {
	clone := *e
	for _, opt := range opts {
		opt(&clone)
	}
	return &clone
}

// Naming returns the configured archive naming mode.
func (e *Engine) Naming() Naming {
	return e.naming
}

// CopyTree replicates source into destination. Existing destination
// files are replaced only when overwrite is set. It fails only when
// source is not a directory or destination cannot be used as one.
func (e *Engine) CopyTree(source, destination string, overwrite bool) (*Report, error) {
	report := &Report{}
	if err := e.checkNesting("copy tree", source, destination); err != nil {
		return report, err
	}
	if err := e.transfer(source, destination, overwrite, report); err != nil {
		return report, err
	}
	return report, nil
}

// MoveTree copies source into destination and then deletes source. The
// delete runs even when some children failed to copy, so those files
// are lost; callers wanting safety should CopyTree and inspect the report.
func (e *Engine) MoveTree(source, destination string, overwrite bool) (*Report, error) {
	report := &Report{}
	if err := e.checkNesting("move tree", source, destination); err != nil {
		return report, err
	}
	if err := e.transfer(source, destination, overwrite, report); err != nil {
		return report, err
	}

	removed, err := e.DeleteTree(source, true)
	report.Failures = append(report.Failures, removed.Failures...)
	return report, err
}

// DeleteTree removes everything below directory, and directory itself
// when deleteRoot is set. Subdirectories are always removed.
func (e *Engine) DeleteTree(directory string, deleteRoot bool) (*Report, error) {
	report := &Report{}
	if directory == "" || directory == "." {
		return report, pathError("delete tree", directory, ErrAmbiguousTarget)
	}
	if err := e.requireDir("delete tree", directory); err != nil {
		return report, err
	}
	return report, e.remove(directory, deleteRoot, report)
}

// ClearTree empties directory and keeps it.
func (e *Engine) ClearTree(directory string) (*Report, error) {
	return e.DeleteTree(directory, false)
}

// ListTreeFiles returns every non-directory entry below directory in
// depth-first enumeration order.
func (e *Engine) ListTreeFiles(directory string) ([]string, error) {
	if err := e.requireDir("list tree", directory); err != nil {
		return nil, err
	}
	children, err := e.fs.ListChildren(directory)
	if err != nil {
		return nil, pathError("list tree", directory, classify(err))
	}

	files := make([]string, 0, len(children))
	for _, child := range children {
		if skipped(child.Name) {
			continue
		}
		full := join(directory, child.Name)
		if child.IsDir {
			nested, err := e.ListTreeFiles(full)
			if err != nil {
				e.logger.Warn("skipping unreadable directory", zap.String("path", full), zap.Error(err))
				continue
			}
			files = append(files, nested...)
			continue
		}
		files = append(files, full)
	}
	return files, nil
}

func (e *Engine) transfer(source, destination string, overwrite bool, report *Report) error {
	if err := e.requireDir("copy tree", source); err != nil {
		return err
	}
	if !e.fs.IsDir(destination) {
		if e.fs.Exists(destination) {
			return pathError("copy tree", destination, ErrNotADirectory)
		}
		if err := e.fs.CreateDir(destination); err != nil {
			return pathError("create dir", destination, classify(err))
		}
	}

	children, err := e.fs.ListChildren(source)
	if err != nil {
		return pathError("list", source, classify(err))
	}
	for _, child := range children {
		if skipped(child.Name) {
			continue
		}
		from := join(source, child.Name)
		to := join(destination, child.Name)
		if child.IsDir {
			if err := e.transfer(from, to, overwrite, report); err != nil {
				report.fail(err)
			}
			continue
		}
		if err := e.copyFile(from, to, overwrite); err != nil {
			report.fail(err)
			continue
		}
		report.Processed++
	}
	return nil
}

func (e *Engine) copyFile(from, to string, overwrite bool) error {
	if e.fs.Exists(to) {
		if !overwrite {
			return pathError("copy", to, ErrAlreadyExists)
		}
		if err := e.fs.DeleteFile(to); err != nil {
			return pathError("delete", to, classify(err))
		}
	}
	if err := e.fs.CopyFile(from, to); err != nil {
		return pathError("copy", from, classify(err))
	}
	return nil
}

func (e *Engine) remove(directory string, deleteRoot bool, report *Report) error {
	children, err := e.fs.ListChildren(directory)
	if err != nil {
		return pathError("list", directory, classify(err))
	}
	for _, child := range children {
		if skipped(child.Name) {
			continue
		}
		full := join(directory, child.Name)
		if child.IsDir {
			if err := e.remove(full, true, report); err != nil {
				report.fail(err)
			}
			continue
		}
		if err := e.fs.DeleteFile(full); err != nil {
			report.fail(pathError("delete", full, classify(err)))
			continue
		}
		report.Processed++
	}

	if !deleteRoot {
		return nil
	}
	if err := e.fs.RemoveDir(directory); err != nil {
		return pathError("remove dir", directory, classify(err))
	}
	return nil
}

func (e *Engine) requireDir(op, directory string) error {
	if e.fs.IsDir(directory) {
		return nil
	}
	if e.fs.Exists(directory) {
		return pathError(op, directory, ErrNotADirectory)
	}
	return pathError(op, directory, ErrNotFound)
}

// checkNesting refuses a destination inside the source, which would
// otherwise recurse into its own output. Both paths are made absolute
// so relative and absolute spellings of one tree compare equal.
func (e *Engine) checkNesting(op, source, destination string) error {
	src := absolute(source)
	dst := absolute(destination)
	if src == dst || strings.HasPrefix(dst, strings.TrimSuffix(src, "/")+"/") {
		return pathError(op, destination, ErrAmbiguousTarget)
	}
	return nil
}

func absolute(p string) string {
	abs, err := filepath.Abs(filepath.FromSlash(p))
	if err != nil {
		return path.Clean(p)
	}
	return filepath.ToSlash(abs)
}

func join(parent, name string) string {
	return parent + "/" + name
}

func skipped(name string) bool {
	return name == "" || name == "." || name == ".."
}
