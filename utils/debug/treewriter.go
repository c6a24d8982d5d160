// Package debug helps to produce human readable dumps of decorated pages for
// the debug report.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Node writes element subtree, one element per line with its attributes.
// Whitespace only text is skipped, comments are ignored.
func (tw TreeWriter) Node(depth int, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			tw.TextBlock(depth, "#text", n.Data)
		}
		return
	case html.ElementNode:
		tw.indent(depth)
		tw.w.WriteString(n.Data)
		for _, a := range n.Attr {
			tw.w.WriteByte(' ')
			tw.w.WriteString(a.Key)
			tw.w.WriteByte('=')
			tw.w.WriteString(strconv.Quote(a.Val))
		}
		tw.w.WriteByte('\n')
		depth++
	case html.DocumentNode:
	default:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		tw.Node(depth, c)
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
