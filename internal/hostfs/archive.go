package hostfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hafly/toolkit/internal/treeops"
)

var (
	ErrUnsupportedArchive = errors.New("unsupported archive format")
	errIllegalEntry       = errors.New("entry escapes destination")
)

// ArchiverFor picks an archiver from the archive file extension.
func ArchiverFor(path string) (treeops.Archiver, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return ZipArchiver{}, nil
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return TarArchiver{Compression: CompressionGzip}, nil
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tzst"):
		return TarArchiver{Compression: CompressionZstd}, nil
	case strings.HasSuffix(lower, ".tar"):
		return TarArchiver{Compression: CompressionNone}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedArchive, filepath.Base(path))
}

// extractTarget joins name under destination and rejects names that
// would land outside it.
func extractTarget(destination, name string) (string, error) {
	target := filepath.Join(destination, name)
	rel, err := filepath.Rel(destination, target)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", errIllegalEntry, name)
	}
	return target, nil
}

// writeEntry materializes one archive member at target.
func writeEntry(target string, src io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
