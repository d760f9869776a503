package source

import (
	"bytes"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// sniffLen is the amount of data filetype needs to recognize known formats.
const sniffLen = 262

// IsBinary reports whether data starts with signature of a known binary
// format (images, archives, documents, fonts...). Some signatures are only two
// or three printable bytes long ("BM", "MZ", "ID3"), so data without NUL bytes
// in the sniffed window is always text.
func IsBinary(data []byte) bool {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	if bytes.IndexByte(data, 0) < 0 {
		return false
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return false
	}
	return kind != filetype.Unknown
}

// IsArchive reports whether data is a zip archive.
func IsArchive(data []byte) bool {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	return filetype.Is(data, "zip")
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts data to UTF-8. When forced is nil valid UTF-8 is passed
// through, otherwise encoding is detected from BOM or meta charset declaration.
// Detection only sees the first 1024 bytes, so validity is checked on the
// whole input first.
func Decode(data []byte, forced encoding.Encoding) ([]byte, error) {
	enc := forced
	if enc == nil {
		if utf8.Valid(data) {
			return bytes.TrimPrefix(data, utf8BOM), nil
		}
		var name string
		enc, name, _ = charset.DetermineEncoding(data, "text/html")
		if name == "utf-8" {
			return bytes.TrimPrefix(data, utf8BOM), nil
		}
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("unable to decode input: %w", err)
	}
	return bytes.TrimPrefix(out, utf8BOM), nil
}

// templateTags matches Twig and Blade output, statement and comment tags.
var templateTags = regexp.MustCompile(`(?s)\{\{.*?\}\}|\{%.*?%\}|\{#.*?#\}|\{!!.*?!!\}`)

// StripTemplateTags removes template engine constructs leaving plain markup.
// Class names built from expressions lose the expression part: "card--{{ m }}"
// becomes "card--".
func StripTemplateTags(data []byte) []byte {
	return templateTags.ReplaceAll(data, nil)
}
