package treeops

// Entry is one child of a directory as reported by the host.
type Entry struct {
	Name  string
	IsDir bool
}

// FileSystem is the set of single-entry primitives the engine needs.
// ListChildren must never return the "." and ".." pseudo-entries and
// must not follow symbolic links when reporting IsDir.
type FileSystem interface {
	Exists(path string) bool
	IsDir(path string) bool
	ListChildren(path string) ([]Entry, error)
	CopyFile(from, to string) error
	DeleteFile(path string) error
	CreateDir(path string) error
	RemoveDir(path string) error
}

// ArchiveEntry describes one member of an archive.
type ArchiveEntry struct {
	Name  string
	Size  int64
	IsDir bool
}

// ArchiveWriter receives files under their entry names.
type ArchiveWriter interface {
	Add(filePath, entryName string) error
	Close() error
}

// ArchiveReader lists and extracts an opened archive.
type ArchiveReader interface {
	Entries() ([]ArchiveEntry, error)
	ExtractAll(destination string) (int, error)
	Close() error
}

// Archiver creates and opens archives of one format.
type Archiver interface {
	OpenWriter(path string) (ArchiveWriter, error)
	OpenReader(path string) (ArchiveReader, error)
}
