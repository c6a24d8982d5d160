// Package blocks decorates authored page content: media references found in
// blocks are replaced with responsive pictures and playable embeds.
package blocks

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yudalvi/whirlp-da/dom"
)

// Context identifies block being decorated. It is discovered once from page
// structure and passed down, decorators never look at ancestors to find out
// where they are.
type Context struct {
	Name string
	// Attrs are authored data-* attributes of the block without "data-"
	// prefix.
	Attrs map[string]string
	Block *html.Node
}

// Row returns i-th row of the block or nil.
func (c *Context) Row(i int) *html.Node {
	rows := dom.Children(c.Block)
	if i < 0 || i >= len(rows) {
		return nil
	}
	return rows[i]
}

// RowText returns trimmed text of i-th row.
func (c *Context) RowText(i int) string {
	return strings.TrimSpace(dom.TextContent(c.Row(i)))
}

// Attr returns block level authored attribute.
func (c *Context) Attr(name string) string {
	if c == nil {
		return ""
	}
	return c.Attrs[name]
}

// discover marks sections and blocks the way page runtime does and returns
// block contexts in document order. Sections are div children of main,
// blocks are classed div children of sections.
func discover(main *html.Node) []*Context {
	var out []*Context
	for _, section := range dom.Children(main) {
		if section.DataAtom != atom.Div {
			continue
		}
		dom.AddClass(section, "section")
		for _, block := range dom.Children(section) {
			if block.DataAtom != atom.Div {
				continue
			}
			classes := dom.Classes(block)
			if len(classes) == 0 {
				continue
			}
			ctx := &Context{Name: classes[0], Attrs: make(map[string]string), Block: block}
			for _, a := range block.Attr {
				if name, ok := strings.CutPrefix(a.Key, "data-"); ok {
					ctx.Attrs[name] = a.Val
				}
			}
			dom.AddClass(block, "block")
			dom.SetAttr(block, "data-block-name", ctx.Name)
			out = append(out, ctx)
		}
	}
	return out
}

// enclosing returns context of the block n belongs to, nil when n is outside
// of any block.
func enclosing(n *html.Node, contexts []*Context) *Context {
	for p := n; p != nil; p = p.Parent {
		for _, c := range contexts {
			if c.Block == p {
				return c
			}
		}
	}
	return nil
}
