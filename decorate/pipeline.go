package decorate

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yudalvi/whirlp-da/blocks"
	"github.com/yudalvi/whirlp-da/dom"
	"github.com/yudalvi/whirlp-da/fragment"
	"github.com/yudalvi/whirlp-da/manifest"
	"github.com/yudalvi/whirlp-da/page"
	"github.com/yudalvi/whirlp-da/probe"
	"github.com/yudalvi/whirlp-da/state"
)

// pipeline keeps everything shared between pages of a single run.
type pipeline struct {
	env       *state.LocalEnv
	cache     *fragment.Cache
	fragments *fragment.Client
	decorator *blocks.Decorator
	prober    *probe.Prober
	manifest  *manifest.Manifest
	log       *zap.Logger
}

// newPipeline prepares pipeline according to configuration and command
// line. When httpClient is nil http.DefaultClient is used.
func newPipeline(env *state.LocalEnv, httpClient *http.Client, log *zap.Logger) (*pipeline, error) {
	cfg := &env.Cfg.Decoration

	var store fragment.Store
	if len(cfg.Fragments.Cache.Path) > 0 {
		s, err := fragment.OpenSQLiteStore(cfg.Fragments.Cache.Path, cfg.Fragments.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("unable to open fragments cache: %w", err)
		}
		log.Debug("Using persistent fragments cache", zap.String("path", cfg.Fragments.Cache.Path))
		store = s
	} else {
		store = fragment.NewMemoryStore(cfg.Fragments.Cache.TTL)
	}
	cache := fragment.NewCache(store, log)

	client, err := fragment.NewClient(&cfg.Fragments, cache, httpClient, log)
	if err != nil {
		return nil, multierr.Append(err, cache.Close())
	}

	p := &pipeline{
		env:       env,
		cache:     cache,
		fragments: client,
		decorator: blocks.New(cfg, client, log),
		log:       log,
	}
	if env.Probe {
		placeholders := probe.NewPlaceholders(&cfg.Placeholder, env.DefaultPlaceholders)
		p.prober = probe.New(&cfg.Probe, httpClient, placeholders.Node, log)
	}
	if len(env.Manifest) > 0 {
		p.manifest = manifest.New()
	}
	return p, nil
}

func (p *pipeline) Close() error {
	return p.cache.Close()
}

// injectNavigation puts language navigation data into page head, so client
// side code does not have to request it. Nothing is done when content
// service is not configured.
func (p *pipeline) injectNavigation(ctx context.Context, doc *page.Document, lang string) {
	data, err := p.fragments.Navigation(ctx, lang)
	if errors.Is(err, fragment.ErrNotConfigured) {
		return
	}
	if err != nil {
		p.log.Warn("Unable to prefetch navigation", zap.String("lang", lang), zap.Error(err))
		return
	}

	head := doc.Head()
	if head == nil {
		return
	}
	for _, old := range dom.FindAll(head, func(n *html.Node) bool {
		return n.DataAtom == atom.Script && dom.HasAttr(n, "data-navigation")
	}) {
		old.Parent.RemoveChild(old)
	}
	script := dom.Element("script", "type", "application/json", "data-navigation", lang)
	dom.Append(head, dom.Append(script, dom.Text(string(data))))
}
