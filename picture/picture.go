// Package picture composes responsive <picture> structures.
package picture

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yudalvi/whirlp-da/breakpoint"
	"github.com/yudalvi/whirlp-da/common"
	"github.com/yudalvi/whirlp-da/dom"
	"github.com/yudalvi/whirlp-da/dynmedia"
)

// Compose builds picture for dynamic media asset: webp source per rule, then
// standard source per rule, then single img using the widest rule. Returns
// nil when there is nothing to compose.
func Compose(ref *dynmedia.Reference, rules []breakpoint.Rule, alt string) *html.Node {
	if ref == nil || len(rules) == 0 {
		return nil
	}

	pic := dom.Element("picture")
	for _, variant := range []common.ImageVariant{common.ImageVariantWebp, common.ImageVariantAuto} {
		for _, r := range rules {
			pic.AppendChild(newSource(dynmedia.Render(ref, r, variant), variant.MIMEType(), r.Media))
		}
	}
	widest := rules[breakpoint.Widest(rules)]
	pic.AppendChild(dom.Element("img",
		"src", dynmedia.Render(ref, widest, common.ImageVariantAuto),
		"alt", alt,
	))
	return pic
}

func newSource(srcset, mime, media string) *html.Node {
	src := dom.Element("source", "srcset", srcset)
	if len(mime) > 0 {
		dom.SetAttr(src, "type", mime)
	}
	if len(media) > 0 {
		dom.SetAttr(src, "media", media)
	}
	return src
}

// Optimized builds picture for regular image served by optimizing delivery:
// webp source per rule, then standard sources for all but the last rule which
// becomes img. Relative sources keep only their path.
func Optimized(src, alt string, eager bool, rules []breakpoint.Rule) *html.Node {
	if len(rules) == 0 {
		rules = breakpoint.Defaults()
	}

	base := src
	if u, err := url.Parse(src); err == nil {
		u.RawQuery, u.Fragment = "", ""
		base = u.String()
		if !u.IsAbs() {
			base = u.Path
		}
	}
	ext := ""
	if dot := strings.LastIndexByte(base, '.'); dot > strings.LastIndexByte(base, '/') {
		ext = base[dot+1:]
	}

	pic := dom.Element("picture")
	for _, r := range rules {
		pic.AppendChild(newSource(base+"?width="+strconv.Itoa(r.Width)+"&format=webply&optimize=medium",
			common.ImageVariantWebp.MIMEType(), r.Media))
	}
	for i, r := range rules {
		format := ext
		if len(r.Format) > 0 {
			format = r.Format
		}
		srcset := base + "?width=" + strconv.Itoa(r.Width) + "&format=" + format + "&optimize=medium"
		if i < len(rules)-1 {
			pic.AppendChild(newSource(srcset, "", r.Media))
			continue
		}
		loading := "lazy"
		if eager {
			loading = "eager"
		}
		pic.AppendChild(dom.Element("img", "loading", loading, "alt", alt, "src", srcset))
	}
	return pic
}

// OverrideQuery replaces query of every candidate in picture. Empty query
// leaves picture untouched.
func OverrideQuery(pic *html.Node, query string) {
	query = strings.TrimPrefix(strings.TrimSpace(query), "?")
	if len(query) == 0 || pic == nil {
		return
	}
	for _, c := range dom.Children(pic) {
		key := ""
		switch c.DataAtom {
		case atom.Source:
			key = "srcset"
		case atom.Img:
			key = "src"
		default:
			continue
		}
		val := dom.Attr(c, key)
		if len(val) == 0 {
			continue
		}
		base, _, _ := strings.Cut(val, "?")
		dom.SetAttr(c, key, base+"?"+query)
	}
}

// Candidates lists candidate URLs of picture in document order, img last.
func Candidates(pic *html.Node) []string {
	var out []string
	for _, c := range dom.Children(pic) {
		switch c.DataAtom {
		case atom.Source:
			out = append(out, dom.Attr(c, "srcset"))
		case atom.Img:
			out = append(out, dom.Attr(c, "src"))
		}
	}
	return out
}
