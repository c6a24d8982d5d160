package blocks

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yudalvi/whirlp-da/breakpoint"
	"github.com/yudalvi/whirlp-da/common"
	"github.com/yudalvi/whirlp-da/dom"
	"github.com/yudalvi/whirlp-da/dynmedia"
	"github.com/yudalvi/whirlp-da/embed"
	"github.com/yudalvi/whirlp-da/picture"
	"github.com/yudalvi/whirlp-da/video"
)

// imageAsset is carried by alt text of images picked from asset selector.
type imageAsset struct {
	AltText     string `json:"altText"`
	DeliveryURL string `json:"deliveryUrl"`
}

// breakpoints returns rules for block: page metadata named after the block,
// then configured default, then filename keyed fallback metadata.
func (d *Decorator) breakpoints(ps *pageState, bc *Context, defaultText, fileName string) []breakpoint.Rule {
	var text, fallback string
	if bc != nil {
		text = ps.doc.Metadata(bc.Name)
	}
	if len(text) == 0 {
		text = defaultText
	}
	if len(text) == 0 && len(fileName) > 0 {
		fallback = ps.doc.Metadata(breakpoint.MetadataKey(fileName))
	}
	rules := breakpoint.Resolve(text, fallback, ps.log)
	breakpoint.CheckOrder(rules, ps.log)
	return rules
}

// decorateImages replaces images whose alt text references delivery asset
// with optimized pictures. Images which cannot be resolved are marked for
// authors to notice.
func (d *Decorator) decorateImages(ps *pageState, main *html.Node) {
	for _, img := range dom.FindAll(main, dom.IsTag(atom.Img)) {
		alt := dom.Attr(img, "alt")
		if s, err := url.PathUnescape(alt); err == nil {
			alt = s
		}
		if !strings.Contains(alt, d.dm.DeliveryPrefix) {
			continue
		}

		asset, err := parseImageAsset(alt)
		if err != nil {
			ps.log.Warn("Unable to decorate image", zap.String("alt", alt), zap.Error(err))
			dom.SetAttr(img, "style", "border:5px solid red")
			dom.SetAttr(img, "data-asset-type", "video")
			dom.SetAttr(img, "title", "Update block to render video.")
			continue
		}

		u, _ := url.Parse(asset.DeliveryURL)
		name := u.Path[strings.LastIndexByte(u.Path, '/')+1:]
		rules := d.breakpoints(ps, enclosing(img, ps.contexts), "", name)

		pic := picture.Optimized(asset.DeliveryURL, asset.AltText, false, rules)
		target := img
		if img.Parent != nil && img.Parent.DataAtom == atom.Picture {
			target = img.Parent
		}
		dom.Replace(target, pic)
		ps.attach(embed.New(common.MediaKindImage, asset.DeliveryURL, fallbackSrc(pic), embed.Config{}, pic), pic)
	}
}

func parseImageAsset(alt string) (*imageAsset, error) {
	var asset imageAsset
	if err := json.Unmarshal([]byte(alt), &asset); err != nil {
		return nil, fmt.Errorf("unable to decode asset reference: %w", err)
	}
	u, err := url.Parse(asset.DeliveryURL)
	if err != nil {
		return nil, fmt.Errorf("bad delivery url: %w", err)
	}
	if !u.IsAbs() {
		return nil, errors.New("delivery url is not absolute")
	}
	return &asset, nil
}

// decorateDeliveryLinks replaces links to dynamic media assets with composed
// pictures. Links without recognizable asset id are left untouched.
func (d *Decorator) decorateDeliveryLinks(ps *pageState, main *html.Node) {
	for _, a := range dom.FindAll(main, dom.IsTag(atom.A)) {
		href := strings.TrimSpace(dom.Attr(a, "href"))
		if !dynmedia.IsDeliveryURL(href, d.dm.DeliveryPrefix, d.dm.HostSuffix) || video.IsVideo(href) {
			continue
		}
		ref, err := dynmedia.FromDeliveryURL(href)
		if err != nil {
			ps.log.Warn("Delivery link left as is", zap.String("href", href), zap.Error(err))
			continue
		}
		ref.Quality = d.dm.Quality

		bc := enclosing(a, ps.contexts)
		if bc != nil && bc.Name == "dynamicmedia-image" {
			ref.Transforms = dynmedia.Transforms{
				Rotate: bc.RowText(3),
				Flip:   bc.RowText(4),
				Crop:   bc.RowText(5),
			}
		}

		pic := picture.Compose(ref, d.breakpoints(ps, bc, d.dm.Breakpoints, ""), strings.TrimSpace(dom.TextContent(a)))
		if pic == nil {
			continue
		}
		dom.Replace(a, pic)
		ps.attach(embed.New(common.MediaKindImage, href, fallbackSrc(pic), embed.Config{}, pic), pic)
	}
}

// fallbackSrc returns URL of the terminal img of a picture.
func fallbackSrc(pic *html.Node) string {
	c := picture.Candidates(pic)
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1]
}
