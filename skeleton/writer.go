package skeleton

import (
	"regexp"
	"strings"
)

// blockWriter accumulates indented selector blocks, two spaces per level.
type blockWriter struct {
	w      strings.Builder
	blocks int
}

func (bw *blockWriter) indent(depth int) {
	for range depth {
		bw.w.WriteString("  ")
	}
}

// open starts selector block.
func (bw *blockWriter) open(depth int, selector string) {
	bw.indent(depth)
	bw.w.WriteString(selector)
	bw.w.WriteString(" {\n")
	bw.blocks++
}

// close ends block and leaves a blank line after it.
func (bw *blockWriter) close(depth int) {
	bw.indent(depth)
	bw.w.WriteString("}\n\n")
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// String returns accumulated text with runs of blank lines collapsed into one.
func (bw *blockWriter) String() string {
	return blankLines.ReplaceAllString(bw.w.String(), "\n\n")
}
