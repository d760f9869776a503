// Package markup provides read-only access to parsed markup documents. The
// skeleton renderer works against the interfaces defined here, so parsers
// could be swapped without touching it.
package markup

import (
	"fmt"
	"io"
	"strings"
)

// Node is an element of the parsed document.
type Node interface {
	// Tag returns element name.
	Tag() string
	// Attr returns value of attribute with given name.
	Attr(name string) (string, bool)
	// Children returns child elements in document order, text and comment
	// nodes are not included.
	Children() []Node
}

// Document is the result of parsing. Body and DocumentElement could be nil
// when the parser does not produce them, Root never is.
type Document interface {
	Body() Node
	DocumentElement() Node
	Root() Node
}

// Parser turns raw markup into a Document.
type Parser interface {
	Parse(r io.Reader) (Document, error)
}

// Parser kinds known to ParserFor.
const (
	KindHTML = "html"
	KindXML  = "xml"
)

// ParserFor returns parser of requested kind.
func ParserFor(kind string) (Parser, error) {
	switch kind {
	case KindHTML, "":
		return HTMLParser{}, nil
	case KindXML:
		return XMLParser{}, nil
	}
	return nil, fmt.Errorf("unknown markup parser %q", kind)
}

// StartNode selects the node which children are walked: body if present,
// otherwise the document element, otherwise the parse root.
func StartNode(doc Document) Node {
	if n := doc.Body(); n != nil {
		return n
	}
	if n := doc.DocumentElement(); n != nil {
		return n
	}
	return doc.Root()
}

// Classes returns raw class tokens of the node in authored order, duplicates
// are preserved.
func Classes(n Node) []string {
	v, ok := n.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}
