package hostfs

import (
	"path/filepath"
	"strings"
)

// Suffix returns the extension of the last path element without the dot.
func Suffix(path string) string {
	return strings.TrimPrefix(filepath.Ext(filepath.Base(path)), ".")
}

// BaseName returns the last path element without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	if suffix := Suffix(path); suffix != "" {
		return strings.TrimSuffix(base, "."+suffix)
	}
	return base
}

// DirPart returns path with its last element removed, keeping the
// trailing separator.
func DirPart(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(path, base)
}

// ClearURLQuery drops everything from the first "?".
func ClearURLQuery(url string) string {
	before, _, _ := strings.Cut(url, "?")
	return before
}
