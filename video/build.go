package video

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/yudalvi/whirlp-da/common"
	"github.com/yudalvi/whirlp-da/dom"
	"github.com/yudalvi/whirlp-da/embed"
)

const (
	// DefaultYouTubeHost serves YouTube embeds.
	DefaultYouTubeHost = "https://www.youtube.com"

	wrapperStyle = "left: 0; width: 100%; height: 0; position: relative; padding-bottom: 56.25%;"
	iframeStyle  = "border: 0; top: 0; left: 0; width: 100%; height: 100%; position: absolute;"
	iframeAllow  = "autoplay; fullscreen; picture-in-picture; encrypted-media; accelerometer; gyroscope; picture-in-picture"
)

var (
	// ErrSourceUnresolvable is returned when no video id could be derived from
	// YouTube link. Embed returned with it is still usable, it points to the
	// authored path.
	ErrSourceUnresolvable = errors.New("unable to resolve embed source")
	ErrNotVideo           = errors.New("link is not a video")
)

// Builder creates embeds.
type Builder struct {
	YouTubeHost string
}

// Build creates detached embed subtree for classified link.
func (b Builder) Build(kind common.MediaKind, link string, cfg embed.Config) (*embed.Embed, error) {
	switch kind {
	case common.MediaKindNativeVideo:
		node := nativeVideo(link, cfg)
		return embed.New(kind, link, link, cfg, node), nil
	case common.MediaKindYoutubeVideo:
		return b.youtube(link, cfg)
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotVideo, link, kind)
	}
}

func nativeVideo(link string, cfg embed.Config) *html.Node {
	v := dom.Element("video")
	if !cfg.Background {
		dom.SetAttr(v, "controls", "")
	}
	if cfg.Autoplay {
		dom.SetAttr(v, "autoplay", "")
	}
	if cfg.Background {
		dom.SetAttr(v, "loop", "")
		dom.SetAttr(v, "playsinline", "")
		// autoplay policies require muted media
		dom.SetAttr(v, "muted", "")
	}
	return dom.Append(v, dom.Element("source", "src", link, "type", "video/mp4"))
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// suffix returns additional player parameters, empty when neither autoplay
// nor background is requested.
func suffix(cfg embed.Config) string {
	if !cfg.Autoplay && !cfg.Background {
		return ""
	}
	return "&autoplay=" + flag(cfg.Autoplay) +
		"&mute=" + flag(cfg.Background) +
		"&controls=" + flag(!cfg.Background) +
		"&disablekb=" + flag(cfg.Background) +
		"&loop=" + flag(cfg.Background) +
		"&playsinline=" + flag(cfg.Background)
}

func (b Builder) youtube(link string, cfg embed.Config) (*embed.Embed, error) {
	host := strings.TrimSuffix(b.YouTubeHost, "/")
	if len(host) == 0 {
		host = DefaultYouTubeHost
	}

	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || len(u.Host) == 0 {
		return nil, fmt.Errorf("%w: %s: not an absolute URL", ErrSourceUnresolvable, link)
	}

	vid := url.QueryEscape(u.Query().Get("v"))
	if strings.Contains(strings.ToLower(u.Host), "youtu.be") {
		vid, _, _ = strings.Cut(strings.TrimPrefix(u.EscapedPath(), "/"), "/")
	}

	var src string
	if len(vid) > 0 {
		src = host + "/embed/" + vid + "?rel=0&v=" + vid + suffix(cfg)
	} else {
		p := u.EscapedPath()
		if len(p) == 0 {
			p = "/"
		}
		src = host + p
		err = fmt.Errorf("%w: %s: no video id", ErrSourceUnresolvable, link)
	}

	wrapper := dom.Append(dom.Element("div", "style", wrapperStyle),
		dom.Element("iframe",
			"src", src,
			"style", iframeStyle,
			"allow", iframeAllow,
			"allowfullscreen", "",
			"scrolling", "no",
			"title", "Content from Youtube",
			"loading", "lazy",
		),
	)
	return embed.New(common.MediaKindYoutubeVideo, link, src, cfg, wrapper), err
}
