// Package manifest records media produced by decoration in an XML document.
package manifest

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/beevik/etree"
	"github.com/maruel/natural"
	"golang.org/x/net/html/atom"

	"github.com/yudalvi/whirlp-da/common"
	"github.com/yudalvi/whirlp-da/embed"
	"github.com/yudalvi/whirlp-da/misc"
	"github.com/yudalvi/whirlp-da/picture"
)

type media struct {
	kind       common.MediaKind
	link       string
	url        string
	state      common.EmbedState
	failure    string
	config     embed.Config
	candidates []string
}

type page struct {
	path  string
	lang  string
	media []media
}

// Manifest collects decorated pages. It is safe for concurrent use.
type Manifest struct {
	mu    sync.Mutex
	pages map[string]*page
}

func New() *Manifest {
	return &Manifest{pages: make(map[string]*page)}
}

// Add records page media. Embeds are captured in their current state, adding
// same page again replaces previous record.
func (m *Manifest) Add(path, lang string, embeds []*embed.Embed) {
	p := &page{path: path, lang: lang}
	for _, e := range embeds {
		md := media{
			kind:   e.Kind,
			link:   e.Link,
			url:    e.URL,
			state:  e.State(),
			config: e.Config,
		}
		if err := e.Err(); err != nil {
			md.failure = err.Error()
		}
		if e.Node != nil && e.Node.DataAtom == atom.Picture {
			md.candidates = picture.Candidates(e.Node)
		}
		p.media = append(p.media, md)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[path] = p
}

// Len returns number of recorded pages.
func (m *Manifest) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pages)
}

// Document builds manifest XML, pages are in natural order of their paths.
func (m *Manifest) Document() *etree.Document {
	m.mu.Lock()
	paths := make([]string, 0, len(m.pages))
	for path := range m.pages {
		paths = append(paths, path)
	}
	m.mu.Unlock()
	sort.Sort(natural.StringSlice(paths))

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("manifest")
	root.CreateAttr("generator", misc.GetAppName())
	root.CreateAttr("version", misc.GetVersion())

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, path := range paths {
		p := m.pages[path]
		pe := root.CreateElement("page")
		pe.CreateAttr("path", p.path)
		if len(p.lang) > 0 {
			pe.CreateAttr("lang", p.lang)
		}
		for _, md := range p.media {
			writeMedia(pe, &md)
		}
	}
	doc.Indent(2)
	return doc
}

func writeMedia(parent *etree.Element, md *media) {
	var el *etree.Element
	switch {
	case md.kind.IsVideo():
		el = parent.CreateElement("video")
		el.CreateAttr("kind", md.kind.String())
		el.CreateAttr("autoplay", strconv.FormatBool(md.config.Autoplay))
		el.CreateAttr("background", strconv.FormatBool(md.config.Background))
	case len(md.candidates) > 0:
		el = parent.CreateElement("picture")
	default:
		el = parent.CreateElement("image")
	}
	el.CreateAttr("state", md.state.String())
	el.CreateAttr("link", md.link)
	el.CreateAttr("src", md.url)
	if len(md.failure) > 0 {
		el.CreateAttr("error", md.failure)
	}
	for _, c := range md.candidates {
		el.CreateElement("candidate").SetText(c)
	}
}

// WriteTo writes manifest XML.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	return m.Document().WriteTo(w)
}

// Save writes manifest to file.
func (m *Manifest) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create manifest: %w", err)
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("unable to write manifest: %w", err)
	}
	return f.Close()
}
