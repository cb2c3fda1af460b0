package hostfs

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// Text is file content decoded to UTF-8.
type Text struct {
	Content    string `json:"content"`
	Charset    string `json:"charset"`
	Confidence int    `json:"confidence"`
}

// chardet reports a few names htmlindex does not know.
var charsetAliases = map[string]string{
	"GB-18030":    "gb18030",
	"ISO-2022-JP": "iso-2022-jp",
	"UTF-16BE":    "utf-16be",
	"UTF-16LE":    "utf-16le",
}

// ReadText reads path and decodes it to UTF-8.
func (o *OS) ReadText(path string) (*Text, error) {
	data, err := o.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeText(data)
}

// DecodeText returns valid UTF-8 input unchanged and otherwise converts
// from the detected charset. Content in a charset x/text cannot decode
// is returned as-is.
func DecodeText(data []byte) (*Text, error) {
	if utf8.Valid(data) {
		return &Text{Content: string(data), Charset: "UTF-8", Confidence: 100}, nil
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}

	name := result.Charset
	if alias, ok := charsetAliases[name]; ok {
		name = alias
	}
	enc, err := htmlindex.Get(strings.ToLower(name))
	if err != nil {
		return &Text{Content: string(data), Charset: result.Charset, Confidence: result.Confidence}, nil
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", result.Charset, err)
	}
	return &Text{Content: string(decoded), Charset: result.Charset, Confidence: result.Confidence}, nil
}
