package probe

import (
	"strconv"
	"sync"

	"golang.org/x/net/html"

	"github.com/yudalvi/whirlp-da/common"
	"github.com/yudalvi/whirlp-da/config"
	"github.com/yudalvi/whirlp-da/dom"
	"github.com/yudalvi/whirlp-da/utils/images"
)

// Placeholders renders replacement images for media which failed to load.
// Generated images are rendered once per media kind.
type Placeholders struct {
	cfg *config.PlaceholderConfig
	svg map[common.MediaKind][]byte

	mu   sync.Mutex
	uris map[common.MediaKind]string
}

func NewPlaceholders(cfg *config.PlaceholderConfig, svg map[common.MediaKind][]byte) *Placeholders {
	return &Placeholders{cfg: cfg, svg: svg, uris: make(map[common.MediaKind]string)}
}

func (p *Placeholders) src(kind common.MediaKind) (string, error) {
	if len(p.cfg.URL) > 0 {
		return p.cfg.URL, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if uri, ok := p.uris[kind]; ok {
		return uri, nil
	}
	svg, ok := p.svg[kind]
	if !ok {
		svg = p.svg[common.MediaKindImage]
	}
	uri, err := images.PlaceholderDataURI(svg, p.cfg.Width, p.cfg.Height)
	if err != nil {
		return "", err
	}
	p.uris[kind] = uri
	return uri, nil
}

// Node returns detached placeholder img, nil if placeholder could not be
// produced.
func (p *Placeholders) Node(kind common.MediaKind) *html.Node {
	src, err := p.src(kind)
	if err != nil {
		return nil
	}
	return dom.Element("img",
		"src", src,
		"alt", "",
		"width", strconv.Itoa(p.cfg.Width),
		"height", strconv.Itoa(p.cfg.Height),
		"data-asset-type", kind.String(),
	)
}
