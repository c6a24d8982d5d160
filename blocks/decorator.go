package blocks

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/yudalvi/whirlp-da/config"
	"github.com/yudalvi/whirlp-da/embed"
	"github.com/yudalvi/whirlp-da/fragment"
	"github.com/yudalvi/whirlp-da/page"
	"github.com/yudalvi/whirlp-da/video"
)

// Decorator turns authored media references of a page into final markup. It
// keeps no per-page state and may be shared by goroutines decorating
// different pages.
type Decorator struct {
	dm        *config.DynamicMediaConfig
	builder   video.Builder
	fragments *fragment.Client
	log       *zap.Logger
}

// New creates decorator. fragments may be nil, content fragment backed blocks
// are cleared then.
func New(cfg *config.DecorationConfig, fragments *fragment.Client, log *zap.Logger) *Decorator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Decorator{
		dm:        &cfg.DynamicMedia,
		builder:   video.Builder{YouTubeHost: cfg.Video.YouTubeHost},
		fragments: fragments,
		log:       log.Named("blocks"),
	}
}

// Result lists media produced for the page, all embeds are attached and in
// Loading state.
type Result struct {
	Blocks []*Context
	Embeds []*embed.Embed
}

type pageState struct {
	doc      *page.Document
	contexts []*Context
	log      *zap.Logger
	res      *Result
}

// attach starts embed lifecycle and registers it with the page result.
func (ps *pageState) attach(e *embed.Embed, container *html.Node) {
	if err := e.Attach(container); err != nil {
		ps.log.Error("Unable to attach media", zap.String("link", e.Link), zap.Error(err))
		return
	}
	ps.res.Embeds = append(ps.res.Embeds, e)
}

// DecorateMain decorates content of the page. Blocks are processed one after
// another in document order. Failures are scoped to a single reference and
// are logged, error is returned only when page has no content at all.
func (d *Decorator) DecorateMain(ctx context.Context, doc *page.Document) (*Result, error) {
	main := doc.Main()
	if main == nil {
		return nil, fmt.Errorf("page %s has no content", doc.Path)
	}

	ps := &pageState{
		doc: doc,
		log: d.log.With(zap.String("page", doc.Path)),
		res: &Result{},
	}
	ps.contexts = discover(main)
	ps.res.Blocks = ps.contexts

	d.decorateImages(ps, main)
	d.decorateDeliveryLinks(ps, main)
	for _, bc := range ps.contexts {
		switch bc.Name {
		case "columns":
			d.decorateColumns(ps, bc)
		case "dynamicmedia-template":
			d.decorateTemplate(ctx, ps, bc)
		}
	}
	return ps.res, nil
}
