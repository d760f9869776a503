package markup

import (
	"strconv"
	"strings"
)

// Dump returns indented outline of the element tree, one element per line
// with its class attribute. Used for troubleshooting.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n Node, depth int) {
	if n == nil {
		return
	}
	for range depth {
		b.WriteString("  ")
	}
	tag := n.Tag()
	if tag == "" {
		tag = "#document"
	}
	b.WriteString(tag)
	if cls, ok := n.Attr("class"); ok {
		b.WriteString(" class=")
		b.WriteString(strconv.Quote(cls))
	}
	b.WriteByte('\n')
	for _, c := range n.Children() {
		dump(b, c, depth+1)
	}
}
