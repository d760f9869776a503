package markup

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLParser parses input as HTML5 the way browsers do: it never fails on
// malformed markup and always synthesizes html, head and body elements.
type HTMLParser struct{}

func (HTMLParser) Parse(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &htmlDocument{root: root}, nil
}

type htmlDocument struct {
	root *html.Node
}

func (d *htmlDocument) Root() Node {
	return htmlNode{d.root}
}

func (d *htmlDocument) DocumentElement() Node {
	if n := findElement(d.root, atom.Html); n != nil {
		return htmlNode{n}
	}
	return nil
}

func (d *htmlDocument) Body() Node {
	if n := findElement(d.root, atom.Body); n != nil {
		return htmlNode{n}
	}
	return nil
}

// findElement returns first element with given tag in document order.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

type htmlNode struct {
	n *html.Node
}

func (h htmlNode) Tag() string {
	return h.n.Data
}

func (h htmlNode) Attr(name string) (string, bool) {
	for _, a := range h.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (h htmlNode) Children() []Node {
	var children []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, htmlNode{c})
		}
	}
	return children
}
