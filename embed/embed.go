// Package embed tracks media subtrees produced by decoration through their
// load lifecycle.
package embed

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/net/html"

	"github.com/yudalvi/whirlp-da/common"
	"github.com/yudalvi/whirlp-da/dom"
)

// LoadedAttr is set to "true" on the owning container once media is playable.
const LoadedAttr = "data-embed-loaded"

// ErrTransition is returned for state changes the lifecycle does not allow.
var ErrTransition = errors.New("invalid embed state transition")

// Config is authored per column playback configuration.
type Config struct {
	Autoplay   bool
	Background bool
}

// ConfigFromAttrs decodes string-valued authoring attributes, only "true"
// enables option.
func ConfigFromAttrs(autoplay, background string) Config {
	return Config{Autoplay: autoplay == "true", Background: background == "true"}
}

// Embed is a resolved media subtree: built by decoration, attached to the
// page, later marked loaded or failed once media readiness is known.
type Embed struct {
	Kind common.MediaKind
	// Link is authored reference, URL is what the browser will request.
	Link   string
	URL    string
	Config Config
	Node   *html.Node
	// Fallback, when set, replaces Node on load failure instead of generic
	// placeholder.
	Fallback *html.Node

	mu        sync.Mutex
	state     common.EmbedState
	container *html.Node
	err       error
}

func New(kind common.MediaKind, link, url string, cfg Config, node *html.Node) *Embed {
	return &Embed{Kind: kind, Link: link, URL: url, Config: cfg, Node: node}
}

func (e *Embed) State() common.EmbedState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns load failure reason if any.
func (e *Embed) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Container returns node which receives loaded marker.
func (e *Embed) Container() *html.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.container
}

// Attach puts subtree into container and starts waiting for ready signal.
// When container is the embed node itself nothing is moved.
func (e *Embed) Attach(container *html.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != common.EmbedStateUnloaded {
		return fmt.Errorf("%w: attach in state %s", ErrTransition, e.state)
	}
	if container == nil {
		return fmt.Errorf("%w: no container", ErrTransition)
	}
	if container != e.Node {
		container.AppendChild(e.Node)
	}
	e.container = container
	e.state = common.EmbedStateLoading
	return nil
}

// MarkLoaded handles ready signal. Loaded is final.
func (e *Embed) MarkLoaded() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != common.EmbedStateLoading {
		return fmt.Errorf("%w: loaded in state %s", ErrTransition, e.state)
	}
	dom.SetAttr(e.container, LoadedAttr, "true")
	e.state = common.EmbedStateLoaded
	return nil
}

// Fail handles load failure: broken subtree is replaced with placeholder
// (when given) and embed becomes Failed. Loaded embeds cannot fail.
func (e *Embed) Fail(reason error, placeholder *html.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != common.EmbedStateLoading {
		return fmt.Errorf("%w: failed in state %s", ErrTransition, e.state)
	}
	if placeholder != nil {
		dom.Replace(e.Node, placeholder)
		if e.container == e.Node {
			e.container = placeholder
		}
		e.Node = placeholder
	}
	e.err = reason
	e.state = common.EmbedStateFailed
	return nil
}
