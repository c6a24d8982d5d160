// Package probe delivers ready signals for decorated media. Every attached
// embed is checked against its origin: media which answers with playable
// content becomes Loaded, broken one is replaced with a placeholder.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/yudalvi/whirlp-da/common"
	"github.com/yudalvi/whirlp-da/config"
	"github.com/yudalvi/whirlp-da/embed"
	"github.com/yudalvi/whirlp-da/video"
)

// sniffLen is enough for filetype matchers and image headers.
const sniffLen = 512

var (
	ErrNotProbeable = errors.New("media location cannot be probed")
	ErrContent      = errors.New("unexpected media content")
)

// PlaceholderFunc returns replacement for broken media of given kind.
type PlaceholderFunc func(kind common.MediaKind) *html.Node

// Summary counts probe outcomes.
type Summary struct {
	Loaded  int
	Failed  int
	Skipped int
}

type Prober struct {
	http        *http.Client
	timeout     time.Duration
	concurrency int
	placeholder PlaceholderFunc
	log         *zap.Logger
}

// New creates prober. When httpClient is nil http.DefaultClient is used.
func New(cfg *config.ProbeConfig, httpClient *http.Client, placeholder PlaceholderFunc, log *zap.Logger) *Prober {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Prober{
		http:        httpClient,
		timeout:     cfg.Timeout,
		concurrency: max(cfg.Concurrency, 1),
		placeholder: placeholder,
		log:         log.Named("probe"),
	}
}

type outcome struct {
	err  error
	info string
}

// Run probes embeds which wait for ready signal. Requests are issued
// concurrently, results are applied to the document sequentially in embed
// order since embeds may share parents. Embeds which cannot be probed stay in
// Loading state.
func (p *Prober) Run(ctx context.Context, embeds []*embed.Embed) (Summary, error) {
	var sum Summary

	outcomes := make([]outcome, len(embeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, e := range embeds {
		if e.State() != common.EmbedStateLoading {
			continue
		}
		g.Go(func() error {
			outcomes[i].info, outcomes[i].err = p.check(gctx, e)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	for i, e := range embeds {
		if e.State() != common.EmbedStateLoading {
			continue
		}
		res := outcomes[i]
		switch {
		case res.err == nil:
			if err := e.MarkLoaded(); err != nil {
				return sum, err
			}
			p.log.Debug("Media ready", zap.Stringer("kind", e.Kind), zap.String("url", e.URL), zap.String("content", res.info))
			if expected := video.MIMEType(e.Link); e.Kind == common.MediaKindNativeVideo && len(expected) > 0 && expected != res.info {
				p.log.Info("Video content does not match its extension", zap.String("url", e.URL), zap.String("expected", expected), zap.String("content", res.info))
			}
			sum.Loaded++
		case errors.Is(res.err, ErrNotProbeable):
			p.log.Debug("Media not probed", zap.String("url", e.URL), zap.Error(res.err))
			sum.Skipped++
		default:
			replacement := e.Fallback
			if replacement == nil && p.placeholder != nil {
				replacement = p.placeholder(e.Kind)
			}
			if err := e.Fail(res.err, replacement); err != nil {
				return sum, err
			}
			p.log.Warn("Unable to load media, using placeholder", zap.Stringer("kind", e.Kind), zap.String("url", e.URL), zap.Error(res.err))
			sum.Failed++
		}
	}
	return sum, nil
}

func (p *Prober) check(ctx context.Context, e *embed.Embed) (string, error) {
	u, err := url.Parse(e.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || len(u.Host) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotProbeable, e.URL)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return "", fmt.Errorf("unable to create request: %w", err)
	}
	if e.Kind != common.MediaKindYoutubeVideo {
		req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", sniffLen-1))
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	if e.Kind == common.MediaKindYoutubeVideo {
		// player page answers, frame will load
		return resp.Header.Get("Content-Type"), nil
	}

	head, err := io.ReadAll(io.LimitReader(resp.Body, sniffLen))
	if err != nil {
		return "", fmt.Errorf("unable to read media: %w", err)
	}
	return sniff(e.Kind, head)
}

// sniff verifies that media starts like content of expected kind.
func sniff(kind common.MediaKind, head []byte) (string, error) {
	if kind == common.MediaKindImage {
		// decoders report dimensions when header fits into sniffed part
		if cfg, format, err := image.DecodeConfig(bytes.NewReader(head)); err == nil {
			return fmt.Sprintf("%s %dx%d", format, cfg.Width, cfg.Height), nil
		}
		if filetype.IsImage(head) {
			t, _ := filetype.Match(head)
			return t.MIME.Value, nil
		}
		if isSVG(head) {
			return "image/svg+xml", nil
		}
		return "", fmt.Errorf("%w: not an image", ErrContent)
	}

	if filetype.IsVideo(head) {
		t, _ := filetype.Match(head)
		return t.MIME.Value, nil
	}
	return "", fmt.Errorf("%w: not a video", ErrContent)
}

func isSVG(head []byte) bool {
	s := strings.ToLower(string(head))
	return strings.Contains(s, "<svg")
}
