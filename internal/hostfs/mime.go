package hostfs

import (
	"github.com/gabriel-vasile/mimetype"
)

// FileType is the detected content type of a file.
type FileType struct {
	MIME      string `json:"mime"`
	Extension string `json:"extension"`
}

// Detect sniffs the content type of path.
func Detect(path string) (*FileType, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, err
	}
	return &FileType{MIME: mt.String(), Extension: mt.Extension()}, nil
}
