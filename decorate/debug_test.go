package decorate

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/yudalvi/whirlp-da/blocks"
	"github.com/yudalvi/whirlp-da/config"
	"github.com/yudalvi/whirlp-da/page"
)

func TestDumpPage(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	doc, err := page.Parse(strings.NewReader(samplePage), "/en/index.html")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := blocks.New(&cfg.Decoration, nil, zaptest.NewLogger(t)).DecorateMain(context.Background(), doc)
	if err != nil {
		t.Fatalf("DecorateMain() error = %v", err)
	}

	got := string(dumpPage(doc, res))
	for _, want := range []string{
		"page /en/index.html\n",
		"  blocks: 1\n    teaser\n",
		"  media: 1\n    image [loading]\n",
		"      link: \"" + deliveryHref + "\"\n",
		"      picture\n        source srcset=",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("dump misses %q:\n%s", want, got)
		}
	}

	if name := reportName("en/Index Page.html"); strings.ContainsAny(name, "/ ") {
		t.Errorf("reportName() = %q", name)
	}
}
