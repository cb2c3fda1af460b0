package hostfs

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/hafly/toolkit/internal/treeops"
)

// Compression selects the stream wrapped around a tar archive.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// TarArchiver reads and writes tar archives, optionally compressed.
type TarArchiver struct {
	Compression Compression
}

var _ treeops.Archiver = TarArchiver{}

func (t TarArchiver) OpenWriter(path string) (treeops.ArchiveWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := &tarWriter{file: f}
	switch t.Compression {
	case CompressionGzip:
		w.stream = gzip.NewWriter(f)
	case CompressionZstd:
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		w.stream = enc
	case CompressionNone, "":
	default:
		f.Close()
		return nil, fmt.Errorf("%w: tar compression %q", ErrUnsupportedArchive, t.Compression)
	}

	if w.stream != nil {
		w.tw = tar.NewWriter(w.stream)
	} else {
		w.tw = tar.NewWriter(f)
	}
	return w, nil
}

// OpenReader validates the archive by reading its first header. The
// archive is re-read on every Entries or ExtractAll call.
func (t TarArchiver) OpenReader(path string) (treeops.ArchiveReader, error) {
	r := &tarReader{path: path, compression: t.Compression}
	err := r.scan(func(*tar.Header, io.Reader) error { return errStopScan })
	if err != nil && !errors.Is(err, errStopScan) {
		return nil, err
	}
	return r, nil
}

type tarWriter struct {
	file   *os.File
	stream io.WriteCloser
	tw     *tar.Writer
}

func (w *tarWriter) Add(filePath, entryName string) error {
	src, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = entryName

	if err := w.tw.WriteHeader(header); err != nil {
		return err
	}
	_, err = io.Copy(w.tw, src)
	return err
}

func (w *tarWriter) Close() error {
	err := w.tw.Close()
	if w.stream != nil {
		if cerr := w.stream.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return err
}

var errStopScan = errors.New("stop scan")

type tarReader struct {
	path        string
	compression Compression
}

func (r *tarReader) Entries() ([]treeops.ArchiveEntry, error) {
	var entries []treeops.ArchiveEntry
	err := r.scan(func(h *tar.Header, _ io.Reader) error {
		entries = append(entries, treeops.ArchiveEntry{
			Name:  h.Name,
			Size:  h.Size,
			IsDir: h.Typeflag == tar.TypeDir,
		})
		return nil
	})
	return entries, err
}

func (r *tarReader) ExtractAll(destination string) (int, error) {
	count := 0
	err := r.scan(func(h *tar.Header, body io.Reader) error {
		target, err := extractTarget(destination, h.Name)
		if err != nil {
			return err
		}
		switch h.Typeflag {
		case tar.TypeDir:
			return os.MkdirAll(target, 0o755)
		case tar.TypeReg:
			if err := writeEntry(target, body, os.FileMode(h.Mode)); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, err
}

func (r *tarReader) Close() error {
	return nil
}

func (r *tarReader) scan(fn func(*tar.Header, io.Reader) error) error {
	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	var src io.Reader = f
	switch r.compression {
	case CompressionGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		src = gz
	case CompressionZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			return err
		}
		defer dec.Close()
		src = dec
	}

	tr := tar.NewReader(src)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(header, tr); err != nil {
			return err
		}
	}
}
