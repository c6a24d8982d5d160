package decorate

import (
	"sort"

	"github.com/gosimple/slug"

	"github.com/yudalvi/whirlp-da/blocks"
	"github.com/yudalvi/whirlp-da/page"
	"github.com/yudalvi/whirlp-da/utils/debug"
)

func reportName(path string) string {
	return slug.Make(path)
}

// dumpPage describes decoration results in a readable form for the debug
// report.
func dumpPage(doc *page.Document, res *blocks.Result) []byte {
	tw := debug.NewTreeWriter()
	tw.Line(0, "page %s", doc.Path)

	tw.Line(1, "blocks: %d", len(res.Blocks))
	for _, bc := range res.Blocks {
		tw.Line(2, "%s", bc.Name)
		keys := make([]string, 0, len(bc.Attrs))
		for k := range bc.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			tw.TextBlock(3, k, bc.Attrs[k])
		}
	}

	tw.Line(1, "media: %d", len(res.Embeds))
	for _, e := range res.Embeds {
		tw.Line(2, "%s [%s]", e.Kind, e.State())
		tw.TextBlock(3, "link", e.Link)
		tw.TextBlock(3, "url", e.URL)
		if err := e.Err(); err != nil {
			tw.TextBlock(3, "error", err.Error())
		}
		if c := e.Container(); c != nil {
			tw.Node(3, c)
		}
	}
	return []byte(tw.String())
}
