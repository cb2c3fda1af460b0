package hostfs

import (
	"io"
	"os"

	"github.com/klauspost/compress/zip"

	"github.com/hafly/toolkit/internal/treeops"
)

// ZipArchiver reads and writes zip archives.
type ZipArchiver struct {
	// Store disables compression.
	Store bool
}

var _ treeops.Archiver = ZipArchiver{}

func (z ZipArchiver) OpenWriter(path string) (treeops.ArchiveWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	method := zip.Deflate
	if z.Store {
		method = zip.Store
	}
	return &zipWriter{file: f, zw: zip.NewWriter(f), method: method}, nil
}

func (z ZipArchiver) OpenReader(path string) (treeops.ArchiveReader, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	return &zipReader{rc: rc}, nil
}

type zipWriter struct {
	file   *os.File
	zw     *zip.Writer
	method uint16
}

func (w *zipWriter) Add(filePath, entryName string) error {
	src, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = entryName
	header.Method = w.method

	dst, err := w.zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

func (w *zipWriter) Close() error {
	err := w.zw.Close()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return err
}

type zipReader struct {
	rc *zip.ReadCloser
}

func (r *zipReader) Entries() ([]treeops.ArchiveEntry, error) {
	entries := make([]treeops.ArchiveEntry, 0, len(r.rc.File))
	for _, f := range r.rc.File {
		info := f.FileInfo()
		entries = append(entries, treeops.ArchiveEntry{
			Name:  f.Name,
			Size:  info.Size(),
			IsDir: info.IsDir(),
		})
	}
	return entries, nil
}

func (r *zipReader) ExtractAll(destination string) (int, error) {
	count := 0
	for _, f := range r.rc.File {
		target, err := extractTarget(destination, f.Name)
		if err != nil {
			return count, err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return count, err
			}
			continue
		}

		src, err := f.Open()
		if err != nil {
			return count, err
		}
		err = writeEntry(target, src, f.Mode())
		src.Close()
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (r *zipReader) Close() error {
	return r.rc.Close()
}
