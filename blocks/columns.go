package blocks

import (
	"errors"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yudalvi/whirlp-da/dom"
	"github.com/yudalvi/whirlp-da/embed"
	"github.com/yudalvi/whirlp-da/video"
)

func (d *Decorator) decorateColumns(ps *pageState, bc *Context) {
	rows := dom.Children(bc.Block)
	if len(rows) == 0 {
		return
	}
	dom.AddClass(bc.Block, "columns-"+strconv.Itoa(len(dom.Children(rows[0])))+"-cols")

	for _, row := range rows {
		dom.AddClass(row, "columns-row")
		for _, col := range dom.Children(row) {
			if pic := dom.Find(col, dom.IsTag(atom.Picture)); pic != nil {
				// picture is the only content of the column
				if wrapper := dom.Closest(pic, dom.IsTag(atom.Div)); wrapper != nil && len(dom.Children(wrapper)) == 1 {
					dom.AddClass(wrapper, "columns-img-col")
					continue
				}
			}
			d.decorateVideoColumn(ps, bc, col)
		}
	}
}

func (d *Decorator) decorateVideoColumn(ps *pageState, bc *Context, col *html.Node) {
	link := dom.Find(col, dom.IsTag(atom.A))
	if link == nil {
		return
	}
	href := dom.Attr(link, "href")
	kind := video.Classify(href)
	if !kind.IsVideo() {
		return
	}

	cfg := embed.ConfigFromAttrs(columnAttr(bc, col, "autoplay"), columnAttr(bc, col, "background"))
	e, err := d.builder.Build(kind, href, cfg)
	if e == nil {
		ps.log.Warn("Video link left as is", zap.String("href", href), zap.Error(err))
		return
	}
	if errors.Is(err, video.ErrSourceUnresolvable) {
		ps.log.Warn("Embedding video by its path", zap.String("href", href), zap.Error(err))
	}

	if wrapper := dom.Closest(col, dom.IsTag(atom.Div)); wrapper != nil {
		dom.AddClass(wrapper, "columns-video-col")
	}
	container := dom.Element("div", "class", "columns-video-container")
	dom.Replace(buttonContainer(col, link), container)
	ps.attach(e, container)
}

// columnAttr returns authored column attribute, block attribute serves as a
// default for all columns.
func columnAttr(bc *Context, col *html.Node, name string) string {
	if dom.HasAttr(col, "data-"+name) {
		return dom.Attr(col, "data-"+name)
	}
	return bc.Attr(name)
}

// buttonContainer returns element wrapping link inside column: the nearest
// .button-container, otherwise link parent, otherwise link itself.
func buttonContainer(col, link *html.Node) *html.Node {
	for n := link.Parent; n != nil && n != col; n = n.Parent {
		if dom.HasClass(n, "button-container") {
			return n
		}
	}
	if link.Parent != nil && link.Parent != col {
		return link.Parent
	}
	return link
}
