package blocks

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yudalvi/whirlp-da/common"
	"github.com/yudalvi/whirlp-da/dom"
	"github.com/yudalvi/whirlp-da/embed"
)

const (
	templateImageClass  = "dm-template-image"
	templateFallbackAlt = "Fallback image - template image not correctly authored"
)

var errNoFragments = errors.New("content fragments are not available")

// decorateTemplate renders dynamic media template block. First row selects
// where template comes from: "inline" (template URL and variable mapping are
// next rows) or "cf" (content fragment referenced by block link). Blocks with
// broken authoring are emptied.
func (d *Decorator) decorateTemplate(ctx context.Context, ps *pageState, bc *Context) {
	var (
		tmpl    string
		mapping []string
	)
	switch mode := bc.RowText(0); mode {
	case "inline":
		tmpl = bc.RowText(1)
		if len(tmpl) == 0 {
			ps.log.Error("Template block has no template URL")
			dom.RemoveChildren(bc.Block)
			return
		}
		mapping = strings.Split(bc.RowText(2), ",")
	case "cf":
		path := contentPath(bc.Block)
		if d.fragments == nil {
			ps.log.Error("Unable to render content fragment", zap.String("path", path), zap.Error(errNoFragments))
			dom.RemoveChildren(bc.Block)
			return
		}
		t, err := d.fragments.Template(ctx, ps.doc.Metadata("authorurl"), path)
		if err != nil {
			ps.log.Error("Unable to render content fragment", zap.String("path", path), zap.Error(err))
			dom.RemoveChildren(bc.Block)
			return
		}
		tmpl, mapping = t.URL, t.VarMapping
	default:
		ps.log.Debug("Unknown template source, block left as is", zap.String("mode", mode))
		return
	}

	src := TemplateURL(tmpl, mapping)
	img := dom.Element("img", "class", templateImageClass, "src", src, "alt", templateImageClass)
	e := embed.New(common.MediaKindImage, tmpl, src, embed.Config{}, img)
	if len(d.dm.TemplateFallback) > 0 {
		e.Fallback = dom.Element("img", "class", templateImageClass, "src", d.dm.TemplateFallback, "alt", templateFallbackAlt)
	}
	dom.RemoveChildren(bc.Block)
	ps.attach(e, bc.Block)
}

// contentPath returns content fragment path authored as block link text.
func contentPath(block *html.Node) string {
	a := dom.Find(block, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.A &&
			n.Parent != nil && n.Parent.DataAtom == atom.P && dom.HasClass(n.Parent, "button-container")
	})
	if a == nil {
		a = dom.Find(block, dom.IsTag(atom.A))
	}
	return strings.TrimSpace(dom.TextContent(a))
}

// TemplateURL appends variable mapping to template URL. Mapping items are
// "key=value" pairs, items without '=' or with empty key are ignored, later
// values replace earlier ones keeping first position. Keys and values are
// used verbatim since template variables start with '$'.
func TemplateURL(tmpl string, mapping []string) string {
	var (
		keys   []string
		values = make(map[string]string)
	)
	for _, pair := range mapping {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || len(key) == 0 {
			continue
		}
		value = strings.TrimSuffix(strings.TrimSpace(value), ",")
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}
	if len(keys) == 0 {
		return tmpl
	}

	var sb strings.Builder
	sb.WriteString(tmpl)
	sep := "?"
	if strings.Contains(tmpl, "?") {
		sep = "&"
	}
	for _, k := range keys {
		sb.WriteString(sep)
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(values[k])
		sep = "&"
	}
	return sb.String()
}
