package treeops

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"
)

var errNoArchiver = errors.New("no archiver configured")

type archiveItem struct {
	name string
	path string
}

// CreateArchive writes every file below directory into a new archive at
// archivePath, replacing any file already there. Entry names follow the
// engine's naming mode.
func (e *Engine) CreateArchive(directory, archivePath string) (*Report, error) {
	report := &Report{}
	if e.archiver == nil {
		return report, pathError("create archive", archivePath, errNoArchiver)
	}

	files, err := e.ListTreeFiles(directory)
	if err != nil {
		return report, err
	}
	items, err := e.plan(directory, files)
	if err != nil {
		return report, err
	}

	if e.fs.Exists(archivePath) {
		if err := e.fs.DeleteFile(archivePath); err != nil {
			return report, pathError("delete", archivePath, classify(err))
		}
	}

	w, err := e.archiver.OpenWriter(archivePath)
	if err != nil {
		return report, pathError("create archive", archivePath, fmt.Errorf("%w: %w", ErrArchiveOpen, err))
	}
	for _, item := range items {
		if err := w.Add(item.path, item.name); err != nil {
			report.fail(pathError("archive add", item.path, classify(err)))
			continue
		}
		report.Processed++
	}
	if err := w.Close(); err != nil {
		return report, pathError("write archive", archivePath, fmt.Errorf("%w: %w", ErrArchiveWrite, err))
	}

	if !e.fs.Exists(archivePath) {
		return report, pathError("create archive", archivePath, ErrNotFound)
	}
	return report, nil
}

// ExtractArchive unpacks archivePath into destination, creating it when
// missing. Nothing is created when the archive cannot be opened.
func (e *Engine) ExtractArchive(archivePath, destination string) (*Report, error) {
	report := &Report{}
	if e.archiver == nil {
		return report, pathError("extract archive", archivePath, errNoArchiver)
	}

	r, err := e.archiver.OpenReader(archivePath)
	if err != nil {
		return report, pathError("extract archive", archivePath, fmt.Errorf("%w: %w", ErrArchiveOpen, err))
	}
	defer r.Close()

	if err := e.fs.CreateDir(destination); err != nil {
		return report, pathError("create dir", destination, classify(err))
	}
	n, err := r.ExtractAll(destination)
	report.Processed = n
	if err != nil {
		return report, pathError("extract archive", archivePath, fmt.Errorf("%w: %w", ErrArchiveExtract, err))
	}
	return report, nil
}

// ListArchive returns the members of archivePath.
func (e *Engine) ListArchive(archivePath string) ([]ArchiveEntry, error) {
	if e.archiver == nil {
		return nil, pathError("list archive", archivePath, errNoArchiver)
	}
	r, err := e.archiver.OpenReader(archivePath)
	if err != nil {
		return nil, pathError("list archive", archivePath, fmt.Errorf("%w: %w", ErrArchiveOpen, err))
	}
	defer r.Close()

	entries, err := r.Entries()
	if err != nil {
		return nil, pathError("list archive", archivePath, fmt.Errorf("%w: %w", ErrArchiveOpen, err))
	}
	return entries, nil
}

// plan drops files that vanished since listing and resolves entry
// names. In flat mode a repeated name keeps its first position but
// points at the last file seen.
func (e *Engine) plan(root string, files []string) ([]archiveItem, error) {
	items := make([]archiveItem, 0, len(files))
	index := make(map[string]int, len(files))

	for _, file := range files {
		if !e.fs.Exists(file) {
			continue
		}
		name := e.entryName(root, file)
		if i, seen := index[name]; seen {
			if e.naming == NamingFlatStrict {
				return nil, pathError("create archive", file,
					fmt.Errorf("%w: %q also used by %s", ErrNameCollision, name, items[i].path))
			}
			e.logger.Debug("archive entry replaced",
				zap.String("entry", name),
				zap.String("previous", items[i].path),
				zap.String("path", file))
			items[i].path = file
			continue
		}
		index[name] = len(items)
		items = append(items, archiveItem{name: name, path: file})
	}
	return items, nil
}

func (e *Engine) entryName(root, file string) string {
	if e.naming == NamingRelative {
		return strings.TrimPrefix(file, root+"/")
	}
	return path.Base(file)
}
