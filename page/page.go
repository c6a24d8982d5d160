// Package page holds authored document being decorated.
package page

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yudalvi/whirlp-da/dom"
)

// Document is parsed HTML page together with its site path.
type Document struct {
	Root *html.Node
	// Path is location of the page on the site, it is used to derive page
	// language.
	Path string
}

// Parse reads complete HTML document.
func Parse(r io.Reader, path string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse page %s: %w", path, err)
	}
	return &Document{Root: root, Path: path}, nil
}

// Render writes document back.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.Root)
}

func (d *Document) Head() *html.Node {
	return dom.Find(d.Root, dom.IsTag(atom.Head))
}

// Main returns element holding page content, body is used when page has no
// main element.
func (d *Document) Main() *html.Node {
	if n := dom.Find(d.Root, dom.IsTag(atom.Main)); n != nil {
		return n
	}
	return dom.Find(d.Root, dom.IsTag(atom.Body))
}

// Metadata returns content of meta elements with given name joined by ", ".
// Names containing ':' are looked up by property attribute (og:title and
// such). Empty string is returned when there is no such metadata.
func (d *Document) Metadata(name string) string {
	if len(name) == 0 {
		return ""
	}
	head := d.Head()
	if head == nil {
		return ""
	}
	attr := "name"
	if strings.Contains(name, ":") {
		attr = "property"
	}
	var values []string
	for _, m := range dom.FindAll(head, dom.IsTag(atom.Meta)) {
		if dom.Attr(m, attr) == name {
			values = append(values, dom.Attr(m, "content"))
		}
	}
	return strings.Join(values, ", ")
}

// SetLang sets document language.
func (d *Document) SetLang(lang string) {
	if n := dom.Find(d.Root, dom.IsTag(atom.Html)); n != nil {
		dom.SetAttr(n, "lang", lang)
	}
}
