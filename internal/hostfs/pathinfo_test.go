package hostfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathInfo(t *testing.T) {
	tests := []struct {
		path   string
		suffix string
		base   string
		dir    string
	}{
		{path: "/var/www/report.final.pdf", suffix: "pdf", base: "report.final", dir: "/var/www/"},
		{path: "notes.txt", suffix: "txt", base: "notes", dir: ""},
		{path: "/etc/hosts", suffix: "", base: "hosts", dir: "/etc/"},
		{path: "a/b/archive.tar.gz", suffix: "gz", base: "archive.tar", dir: "a/b/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.suffix, Suffix(tt.path))
			assert.Equal(t, tt.base, BaseName(tt.path))
			assert.Equal(t, tt.dir, DirPart(tt.path))
		})
	}
}

func TestClearURLQuery(t *testing.T) {
	assert.Equal(t, "https://example.com/a.png", ClearURLQuery("https://example.com/a.png?w=10&h=20"))
	assert.Equal(t, "https://example.com/a.png", ClearURLQuery("https://example.com/a.png"))
	assert.Equal(t, "", ClearURLQuery("?only=query"))
}
