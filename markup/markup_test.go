package markup_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skel/markup"
)

func tags(nodes []markup.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Tag())
	}
	return out
}

func TestParserFor(t *testing.T) {
	p, err := markup.ParserFor("html")
	require.NoError(t, err)
	assert.IsType(t, markup.HTMLParser{}, p)

	p, err = markup.ParserFor("")
	require.NoError(t, err)
	assert.IsType(t, markup.HTMLParser{}, p)

	p, err = markup.ParserFor("xml")
	require.NoError(t, err)
	assert.IsType(t, markup.XMLParser{}, p)

	_, err = markup.ParserFor("sgml")
	assert.Error(t, err)
}

func TestHTMLParser_Fragment(t *testing.T) {
	doc, err := markup.HTMLParser{}.Parse(strings.NewReader(`<div class="card"><p>text</p><!-- c --><span class="card__title">T</span></div>`))
	require.NoError(t, err)

	body := doc.Body()
	require.NotNil(t, body)
	assert.Equal(t, "body", body.Tag())
	require.NotNil(t, doc.DocumentElement())
	assert.Equal(t, "html", doc.DocumentElement().Tag())

	start := markup.StartNode(doc)
	assert.Equal(t, "body", start.Tag())

	children := start.Children()
	require.Len(t, children, 1)
	card := children[0]
	assert.Equal(t, []string{"card"}, markup.Classes(card))
	assert.Equal(t, []string{"p", "span"}, tags(card.Children()))
}

func TestHTMLParser_TwigConstructs(t *testing.T) {
	src := `{% extends "base.html.twig" %}
{% block content %}
<section class="hero {{ modifier }}">
  {# comment #}
  {% for item in items %}<div class="hero__item">{{ item }}</div>{% endfor %}
</section>
{% endblock %}`
	doc, err := markup.HTMLParser{}.Parse(strings.NewReader(src))
	require.NoError(t, err)

	children := markup.StartNode(doc).Children()
	require.Len(t, children, 1)
	assert.Equal(t, []string{"hero", "{{", "modifier", "}}"}, markup.Classes(children[0]))
	assert.Equal(t, []string{"div"}, tags(children[0].Children()))
}

func TestHTMLParser_Attr(t *testing.T) {
	doc, err := markup.HTMLParser{}.Parse(strings.NewReader(`<div id="x" class="  a   b  a "></div><div></div>`))
	require.NoError(t, err)

	children := markup.StartNode(doc).Children()
	require.Len(t, children, 2)

	v, ok := children[0].Attr("id")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	assert.Equal(t, []string{"a", "b", "a"}, markup.Classes(children[0]))

	_, ok = children[1].Attr("class")
	assert.False(t, ok)
	assert.Nil(t, markup.Classes(children[1]))
}

func TestXMLParser_Document(t *testing.T) {
	src := `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
  <head><title>t&nbsp;</title></head>
  <body>
    <div class="card"><h2 class="card__title">T</h2></div>
    <footer class="page-footer"/>
  </body>
</html>`
	doc, err := markup.XMLParser{}.Parse(strings.NewReader(src))
	require.NoError(t, err)

	require.NotNil(t, doc.DocumentElement())
	assert.Equal(t, "html", doc.DocumentElement().Tag())

	start := markup.StartNode(doc)
	assert.Equal(t, "body", start.Tag())
	children := start.Children()
	assert.Equal(t, []string{"div", "footer"}, tags(children))
	assert.Equal(t, []string{"card"}, markup.Classes(children[0]))
	assert.Equal(t, []string{"page-footer"}, markup.Classes(children[1]))
}

func TestXMLParser_NoBody(t *testing.T) {
	doc, err := markup.XMLParser{}.Parse(strings.NewReader(`<section class="hero"><div class="hero__item"/></section>`))
	require.NoError(t, err)

	assert.Nil(t, doc.Body())
	start := markup.StartNode(doc)
	assert.Equal(t, "section", start.Tag())
	assert.Equal(t, []string{"div"}, tags(start.Children()))
}

func TestXMLParser_Empty(t *testing.T) {
	doc, err := markup.XMLParser{}.Parse(strings.NewReader(``))
	require.NoError(t, err)

	assert.Nil(t, doc.Body())
	assert.Nil(t, doc.DocumentElement())
	start := markup.StartNode(doc)
	require.NotNil(t, start)
	assert.Empty(t, start.Children())
}

func TestXMLParser_Malformed(t *testing.T) {
	_, err := markup.XMLParser{}.Parse(strings.NewReader(`<div class="card"><span class="x"`))
	assert.Error(t, err)
}
