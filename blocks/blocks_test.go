package blocks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yudalvi/whirlp-da/common"
	"github.com/yudalvi/whirlp-da/config"
	"github.com/yudalvi/whirlp-da/dom"
	"github.com/yudalvi/whirlp-da/fragment"
	"github.com/yudalvi/whirlp-da/page"
)

const (
	heroHref = "https://delivery-p1-e2.adobeaemcloud.com/adobe/assets/urn:aaid:aem:11111111-2222-3333-4444-555555555555/original/as/hero.jpg"
	heroBase = "https://delivery-p1-e2.adobeaemcloud.com/adobe/assets/urn:aaid:aem:11111111-2222-3333-4444-555555555555/as/hero"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	return cfg
}

func decorate(t *testing.T, d *Decorator, src string) (*page.Document, *Result) {
	t.Helper()
	doc, err := page.Parse(strings.NewReader(src), "/en/test")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	res, err := d.DecorateMain(context.Background(), doc)
	if err != nil {
		t.Fatalf("DecorateMain() error = %v", err)
	}
	return doc, res
}

func blockByName(t *testing.T, res *Result, name string) *html.Node {
	t.Helper()
	for _, bc := range res.Blocks {
		if bc.Name == name {
			return bc.Block
		}
	}
	t.Fatalf("block %q not found", name)
	return nil
}

const columnsPage = `<html><head>
<meta name="columns" content="width:2000,media:(min-width: 600px)|width:750">
</head><body><main>
<div>
<div class="columns" data-autoplay="false">
	<div>
		<div><p class="button-container"><a href="https://www.youtube.com/watch?v=abc123">Watch</a></p></div>
		<div data-autoplay="true" data-background="true"><p class="button-container"><a href="https://cdn.example.com/clip.MP4">Clip</a></p></div>
		<div><p class="button-container"><a href="` + heroHref + `">Hero</a></p></div>
	</div>
	<div>
		<div><p>Just text</p></div>
		<div><p><a href="https://example.com/page">More</a></p></div>
		<div></div>
	</div>
</div>
</div>
</main></body></html>`

func TestDecorateColumns(t *testing.T) {
	cfg := loadConfig(t)
	d := New(&cfg.Decoration, nil, zaptest.NewLogger(t))
	_, res := decorate(t, d, columnsPage)

	block := blockByName(t, res, "columns")
	for _, class := range []string{"columns", "block", "columns-3-cols"} {
		if !dom.HasClass(block, class) {
			t.Errorf("block misses class %q: %q", class, dom.Attr(block, "class"))
		}
	}
	if got := dom.Attr(block, "data-block-name"); got != "columns" {
		t.Errorf("data-block-name = %q", got)
	}

	rows := dom.Children(block)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for i, row := range rows {
		if !dom.HasClass(row, "columns-row") {
			t.Errorf("row %d not marked", i)
		}
	}
	cols := dom.Children(rows[0])

	// youtube
	if !dom.HasClass(cols[0], "columns-video-col") {
		t.Errorf("youtube column not marked: %q", dom.Attr(cols[0], "class"))
	}
	container := dom.Find(cols[0], dom.HasClassPred("columns-video-container"))
	if container == nil {
		t.Fatalf("no video container: %s", dom.Render(cols[0]))
	}
	if dom.Find(cols[0], dom.HasClassPred("button-container")) != nil {
		t.Error("button container was not replaced")
	}
	iframe := dom.Find(container, dom.IsTag(atom.Iframe))
	if iframe == nil || dom.Attr(iframe, "src") != "https://www.youtube.com/embed/abc123?rel=0&v=abc123" {
		t.Errorf("unexpected iframe: %s", dom.Render(container))
	}

	// native background video
	v := dom.Find(cols[1], dom.IsTag(atom.Video))
	if v == nil {
		t.Fatalf("no video element: %s", dom.Render(cols[1]))
	}
	for _, attr := range []string{"autoplay", "loop", "playsinline", "muted"} {
		if !dom.HasAttr(v, attr) {
			t.Errorf("video misses %q", attr)
		}
	}
	if dom.HasAttr(v, "controls") {
		t.Error("background video has controls")
	}

	// dynamic media picture
	if !dom.HasClass(cols[2], "columns-img-col") {
		t.Errorf("image column not marked: %q", dom.Attr(cols[2], "class"))
	}
	pic := dom.Find(cols[2], dom.IsTag(atom.Picture))
	if pic == nil || len(dom.Children(pic)) != 5 {
		t.Fatalf("unexpected picture: %s", dom.Render(cols[2]))
	}
	img := dom.Find(pic, dom.IsTag(atom.Img))
	if got, want := dom.Attr(img, "src"), heroBase+".webp?width=2000&quality=85"; got != want {
		t.Errorf("img src = %q, want %q", got, want)
	}
	if dom.Attr(img, "alt") != "Hero" {
		t.Errorf("img alt = %q", dom.Attr(img, "alt"))
	}

	// untouched second row
	second := dom.Children(rows[1])
	if a := dom.Find(second[1], dom.IsTag(atom.A)); a == nil || dom.Attr(a, "href") != "https://example.com/page" {
		t.Errorf("regular link changed: %s", dom.Render(second[1]))
	}
	if dom.HasClass(second[1], "columns-video-col") {
		t.Error("regular link column marked as video")
	}

	// pictures are decorated before blocks
	wantKinds := []common.MediaKind{common.MediaKindImage, common.MediaKindYoutubeVideo, common.MediaKindNativeVideo}
	if len(res.Embeds) != len(wantKinds) {
		t.Fatalf("embeds = %d, want %d", len(res.Embeds), len(wantKinds))
	}
	for i, e := range res.Embeds {
		if e.Kind != wantKinds[i] {
			t.Errorf("embed %d kind = %s, want %s", i, e.Kind, wantKinds[i])
		}
		if e.State() != common.EmbedStateLoading {
			t.Errorf("embed %d state = %s, want loading", i, e.State())
		}
	}
	if res.Embeds[1].Container() != container {
		t.Error("youtube embed is not owned by video container")
	}
}

func TestDecorateDeliveryLinks(t *testing.T) {
	src := `<html><head></head><body><main><div>
<div class="dynamicmedia-image">
	<div><div><a href="` + heroHref + `?assetname=hero.jpg"> Hero alt </a></div></div>
	<div><div>ignored</div></div>
	<div><div>ignored</div></div>
	<div><div>90</div></div>
	<div><div>Horizontal</div></div>
	<div><div>Square</div></div>
</div>
<div class="teaser"><div><div><a href="https://delivery-p1-e2.adobeaemcloud.com/adobe/assets/no-id/as/x.jpg">Broken</a></div></div></div>
</div></main></body></html>`

	core, logs := observer.New(zapcore.WarnLevel)
	cfg := loadConfig(t)
	d := New(&cfg.Decoration, nil, zap.New(core))
	_, res := decorate(t, d, src)

	block := blockByName(t, res, "dynamicmedia-image")
	pic := dom.Find(block, dom.IsTag(atom.Picture))
	if pic == nil {
		t.Fatalf("no picture: %s", dom.Render(block))
	}
	// configured default breakpoints: 1400, 1320, 780
	children := dom.Children(pic)
	if len(children) != 7 {
		t.Fatalf("picture children = %d, want 7", len(children))
	}
	if got, want := dom.Attr(children[0], "srcset"), heroBase+".webp?width=1400&quality=85&preferwebp=true&rotate=90&flip=horizontal&crop=square"; got != want {
		t.Errorf("first source = %q, want %q", got, want)
	}
	if got, want := dom.Attr(children[0], "media"), "(min-width: 992px)"; got != want {
		t.Errorf("first media = %q, want %q", got, want)
	}
	if dom.HasAttr(children[3], "type") {
		t.Error("standard source has type")
	}
	if got := dom.Attr(children[6], "alt"); got != "Hero alt" {
		t.Errorf("alt = %q", got)
	}

	broken := blockByName(t, res, "teaser")
	if dom.Find(broken, dom.IsTag(atom.A)) == nil {
		t.Error("link without asset id was replaced")
	}
	if logs.FilterMessage("Delivery link left as is").Len() != 1 {
		t.Errorf("expected warning, got %v", logs.All())
	}
	if len(res.Embeds) != 1 {
		t.Errorf("embeds = %d, want 1", len(res.Embeds))
	}
}

func TestDecorateImages(t *testing.T) {
	src := `<html><head><meta name="lake-jpg" content="format=png"></head><body><main><div>
<div class="teaser"><div><div><picture><img alt='%7B%22altText%22%3A%22Lake%22%2C%22deliveryUrl%22%3A%22https%3A%2F%2Fdelivery-p1-e2.adobeaemcloud.com%2Fadobe%2Fassets%2Flake.JPG%22%7D' src="x.png"></picture></div></div></div>
<div class="hero"><div><div><img alt='{"altText":"broken","deliveryUrl":"https://delivery-p1' src="y.png"></div></div></div>
</div></main></body></html>`

	cfg := loadConfig(t)
	d := New(&cfg.Decoration, nil, zaptest.NewLogger(t))
	_, res := decorate(t, d, src)

	teaser := blockByName(t, res, "teaser")
	pic := dom.Find(teaser, dom.IsTag(atom.Picture))
	if pic == nil {
		t.Fatalf("no picture: %s", dom.Render(teaser))
	}
	children := dom.Children(pic)
	if len(children) != 4 {
		t.Fatalf("picture children = %d, want 4: %s", len(children), dom.Render(pic))
	}
	img := children[3]
	if got, want := dom.Attr(img, "src"), "https://delivery-p1-e2.adobeaemcloud.com/adobe/assets/lake.JPG?width=750&format=png&optimize=medium"; got != want {
		t.Errorf("img src = %q, want %q", got, want)
	}
	if dom.Attr(img, "alt") != "Lake" || dom.Attr(img, "loading") != "lazy" {
		t.Errorf("unexpected img: %s", dom.Render(img))
	}
	if len(dom.FindAll(teaser, dom.IsTag(atom.Picture))) != 1 {
		t.Error("authored picture was not replaced")
	}

	hero := blockByName(t, res, "hero")
	broken := dom.Find(hero, dom.IsTag(atom.Img))
	if dom.Attr(broken, "style") != "border:5px solid red" || dom.Attr(broken, "data-asset-type") != "video" ||
		dom.Attr(broken, "title") != "Update block to render video." {
		t.Errorf("broken image not marked: %s", dom.Render(broken))
	}
	if len(res.Embeds) != 1 {
		t.Errorf("embeds = %d, want 1", len(res.Embeds))
	}
}

func TestDecorateTemplateInline(t *testing.T) {
	src := `<html><head></head><body><main><div>
<div class="dynamicmedia-template">
	<div><div>inline</div></div>
	<div><div>https://s7.example.com/is/image/T</div></div>
	<div><div>$title=Sale,$price=10,</div></div>
</div>
<div class="dynamicmedia-template">
	<div><div>inline</div></div>
	<div><div> </div></div>
</div>
</div></main></body></html>`

	cfg := loadConfig(t)
	d := New(&cfg.Decoration, nil, zaptest.NewLogger(t))
	_, res := decorate(t, d, src)

	if len(res.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(res.Blocks))
	}
	good, bad := res.Blocks[0].Block, res.Blocks[1].Block

	children := dom.Children(good)
	if len(children) != 1 || children[0].DataAtom != atom.Img {
		t.Fatalf("unexpected block content: %s", dom.Render(good))
	}
	img := children[0]
	if got, want := dom.Attr(img, "src"), "https://s7.example.com/is/image/T?$title=Sale&$price=10"; got != want {
		t.Errorf("src = %q, want %q", got, want)
	}
	if dom.Attr(img, "class") != "dm-template-image" || dom.Attr(img, "alt") != "dm-template-image" {
		t.Errorf("unexpected img: %s", dom.Render(img))
	}

	if bad.FirstChild != nil {
		t.Errorf("block without template URL not emptied: %s", dom.Render(bad))
	}

	if len(res.Embeds) != 1 {
		t.Fatalf("embeds = %d, want 1", len(res.Embeds))
	}
	e := res.Embeds[0]
	if e.Fallback == nil || dom.Attr(e.Fallback, "alt") != "Fallback image - template image not correctly authored" {
		t.Errorf("template fallback not set")
	}
	if e.Container() != good {
		t.Error("template embed is not owned by block")
	}
}

func TestDecorateTemplateContentFragment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graphql/execute.json/wknd-universal/DynamicMediaTemplateByPath;path=/content/dam/offer" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"data":{"dynamicMediaTemplateByPath":{"item":{"dm_template":"https://s7.example.com/is/image/T?fmt=png","var_mapping":["$title=Sale,","$price=10"]}}}}`))
	}))
	defer srv.Close()

	cfg := loadConfig(t)
	cfg.Decoration.Fragments.BaseURL = srv.URL
	log := zaptest.NewLogger(t)
	client, err := fragment.NewClient(&cfg.Decoration.Fragments, nil, srv.Client(), log)
	if err != nil {
		t.Fatal(err)
	}
	d := New(&cfg.Decoration, client, log)

	src := `<html><head></head><body><main><div>
<div class="dynamicmedia-template">
	<div><div>cf</div></div>
	<div><div><p class="button-container"><a href="/content/dam/offer">/content/dam/offer</a></p></div></div>
</div>
<div class="dynamicmedia-template">
	<div><div>cf</div></div>
	<div><div><p class="button-container"><a href="/content/dam/missing">/content/dam/missing</a></p></div></div>
</div>
</div></main></body></html>`
	_, res := decorate(t, d, src)

	img := dom.Find(res.Blocks[0].Block, dom.IsTag(atom.Img))
	if img == nil {
		t.Fatalf("no template image: %s", dom.Render(res.Blocks[0].Block))
	}
	if got, want := dom.Attr(img, "src"), "https://s7.example.com/is/image/T?fmt=png&$title=Sale&$price=10"; got != want {
		t.Errorf("src = %q, want %q", got, want)
	}
	if res.Blocks[1].Block.FirstChild != nil {
		t.Errorf("failed fragment block not emptied: %s", dom.Render(res.Blocks[1].Block))
	}
}

func TestDecorateTemplateWithoutFragments(t *testing.T) {
	src := `<html><head></head><body><main><div>
<div class="dynamicmedia-template"><div><div>cf</div></div><div><div><a href="/x">/x</a></div></div></div>
<div class="dynamicmedia-template"><div><div>other</div></div></div>
</div></main></body></html>`

	cfg := loadConfig(t)
	d := New(&cfg.Decoration, nil, zaptest.NewLogger(t))
	_, res := decorate(t, d, src)

	if res.Blocks[0].Block.FirstChild != nil {
		t.Error("cf block not emptied")
	}
	if res.Blocks[1].Block.FirstChild == nil {
		t.Error("block with unknown source was changed")
	}
}

func TestTemplateURL(t *testing.T) {
	tests := []struct {
		tmpl    string
		mapping []string
		want    string
	}{
		{"https://t/x", []string{"$a=1", "$b=2"}, "https://t/x?$a=1&$b=2"},
		{"https://t/x?fmt=png", []string{"$a=1,"}, "https://t/x?fmt=png&$a=1"},
		{"https://t/x", []string{" $a = 1 ", "novalue", "=2", "$a=3"}, "https://t/x?$a=3"},
		{"https://t/x", []string{"$a=b=c"}, "https://t/x?$a=b=c"},
		{"https://t/x", nil, "https://t/x"},
		{"https://t/x", []string{""}, "https://t/x"},
	}
	for _, tt := range tests {
		if got := TemplateURL(tt.tmpl, tt.mapping); got != tt.want {
			t.Errorf("TemplateURL(%q, %q) = %q, want %q", tt.tmpl, tt.mapping, got, tt.want)
		}
	}
}

func TestDecorateMain_NoContent(t *testing.T) {
	cfg := loadConfig(t)
	d := New(&cfg.Decoration, nil, nil)
	doc := &page.Document{Root: &html.Node{Type: html.DocumentNode}, Path: "/empty"}
	if _, err := d.DecorateMain(context.Background(), doc); err == nil {
		t.Error("expected error for page without content")
	}
}

func TestDiscover(t *testing.T) {
	doc, err := page.Parse(strings.NewReader(`<html><body><main>
<div><div class="columns wide" data-autoplay="true"><div></div></div><p>text</p><div>unclassed</div></div>
<p>not a section</p>
<div><div class="hero"></div></div>
</main></body></html>`), "/")
	if err != nil {
		t.Fatal(err)
	}
	contexts := discover(doc.Main())
	if len(contexts) != 2 {
		t.Fatalf("blocks = %d, want 2", len(contexts))
	}
	if contexts[0].Name != "columns" || contexts[0].Attr("autoplay") != "true" || contexts[1].Name != "hero" {
		t.Errorf("unexpected contexts: %+v, %+v", contexts[0], contexts[1])
	}
	inner := dom.Children(contexts[0].Block)[0]
	if enclosing(inner, contexts) != contexts[0] {
		t.Error("enclosing block not found")
	}
	if enclosing(doc.Main(), contexts) != nil {
		t.Error("main is not inside block")
	}
	for _, s := range dom.Children(doc.Main()) {
		if s.DataAtom == atom.Div && !dom.HasClass(s, "section") {
			t.Error("section not marked")
		}
	}
}
