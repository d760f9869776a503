package markup

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// XMLParser parses input as XML (XHTML, Twig templates written as well formed
// markup). Unlike HTMLParser it reports malformed input as an error.
type XMLParser struct{}

func (XMLParser) Parse(r io.Reader) (Document, error) {
	doc := etree.NewDocument()
	// Templates are usually written with HTML entities in mind
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Entity:        xml.HTMLEntity,
		ValidateInput: false,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}
	return &xmlDocument{doc: doc}, nil
}

type xmlDocument struct {
	doc *etree.Document
}

func (d *xmlDocument) Root() Node {
	return xmlNode{&d.doc.Element}
}

func (d *xmlDocument) DocumentElement() Node {
	if e := d.doc.Root(); e != nil {
		return xmlNode{e}
	}
	return nil
}

func (d *xmlDocument) Body() Node {
	if e := findBody(&d.doc.Element); e != nil {
		return xmlNode{e}
	}
	return nil
}

// findBody ignores namespace prefixes and tag case, XHTML documents may use
// either.
func findBody(e *etree.Element) *etree.Element {
	for _, c := range e.ChildElements() {
		if strings.EqualFold(c.Tag, "body") {
			return c
		}
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}

type xmlNode struct {
	e *etree.Element
}

func (x xmlNode) Tag() string {
	return x.e.Tag
}

func (x xmlNode) Attr(name string) (string, bool) {
	for _, a := range x.e.Attr {
		if a.Space == "" && a.Key == name {
			return a.Value, true
		}
	}
	return "", false
}

func (x xmlNode) Children() []Node {
	elements := x.e.ChildElements()
	children := make([]Node, 0, len(elements))
	for _, c := range elements {
		children = append(children, xmlNode{c})
	}
	return children
}
