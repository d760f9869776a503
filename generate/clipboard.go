package generate

import (
	"strings"

	"github.com/atotto/clipboard"
)

var writeClipboard = clipboard.WriteAll

// clipboardTarget collects results and copies them to the system clipboard
// on Close.
type clipboardTarget struct {
	write   func(string) error
	headers bool
	parts   []string
}

func (t *clipboardTarget) Emit(res *Result) error {
	text := res.Text
	if t.headers {
		text = header(res) + text
	}
	t.parts = append(t.parts, text)
	return nil
}

func (t *clipboardTarget) Close() error {
	if len(t.parts) == 0 {
		return nil
	}
	return t.write(strings.Join(t.parts, "\n"))
}

// ClipboardAvailable reports whether clipboard utilities are present.
func ClipboardAvailable() bool {
	return !clipboard.Unsupported
}
