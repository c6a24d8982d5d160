package fragment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"github.com/yudalvi/whirlp-da/config"
)

// maxPayload limits size of fetched documents.
const maxPayload = 8 << 20

var (
	ErrNotConfigured = errors.New("content service is not configured")
	ErrNoTemplate    = errors.New("content fragment has no template")
)

// Template is dynamic media template definition stored in content fragment.
type Template struct {
	URL        string
	VarMapping []string
}

type templateResponse struct {
	Data struct {
		ByPath struct {
			Item struct {
				Template   string   `json:"dm_template"`
				VarMapping []string `json:"var_mapping"`
			} `json:"item"`
		} `json:"dynamicMediaTemplateByPath"`
	} `json:"data"`
}

// Client retrieves documents from content service through cache.
type Client struct {
	http       *http.Client
	baseURL    string
	pathPrefix string
	timeout    time.Duration
	query      *template.Template
	cache      *Cache
	log        *zap.Logger
}

// NewClient creates client. When httpClient is nil http.DefaultClient is used.
func NewClient(cfg *config.FragmentsConfig, cache *Cache, httpClient *http.Client, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cache == nil {
		cache = NewCache(nil, log)
	}

	query, err := template.New("template_query").Funcs(sprig.FuncMap()).Parse(cfg.TemplateQuery)
	if err != nil {
		return nil, fmt.Errorf("unable to parse template query: %w", err)
	}

	return &Client{
		http:       httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		pathPrefix: "/" + strings.Trim(cfg.PathPrefix, "/"),
		timeout:    cfg.Timeout,
		query:      query,
		cache:      cache,
		log:        log.Named("fragments"),
	}, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unable to fetch %s: status %d", url, resp.StatusCode)
	}
	return body, nil
}

// NavigationURL returns location of navigation data for language.
func (c *Client) NavigationURL(lang string) string {
	return c.baseURL + c.pathPrefix + "/" + lang + "/navigation.json"
}

// Navigation returns "data" part of language navigation document. Any
// failure to retrieve or decode it yields empty object, which is cached like
// a regular result.
func (c *Client) Navigation(ctx context.Context, lang string) (json.RawMessage, error) {
	if len(c.baseURL) == 0 {
		return nil, ErrNotConfigured
	}
	data, err := c.cache.GetOrFetch(ctx, "navigation:"+lang, func(ctx context.Context) ([]byte, error) {
		url := c.NavigationURL(lang)
		body, err := c.get(ctx, url)
		if err != nil {
			c.log.Warn("Unable to fetch navigation", zap.String("lang", lang), zap.Error(err))
			return []byte("{}"), nil
		}
		var doc struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &doc); err != nil || len(doc.Data) == 0 {
			c.log.Warn("Unexpected navigation document", zap.String("url", url), zap.Error(err))
			return []byte("{}"), nil
		}
		return doc.Data, nil
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// TemplateURL expands configured query for content fragment path. baseURL
// overrides configured one when not empty.
func (c *Client) TemplateURL(baseURL, path string) (string, error) {
	if len(baseURL) == 0 {
		baseURL = c.baseURL
	}
	if len(baseURL) == 0 {
		return "", ErrNotConfigured
	}
	var buf bytes.Buffer
	err := c.query.Execute(&buf, struct {
		BaseURL string
		Path    string
	}{strings.TrimRight(baseURL, "/"), path})
	if err != nil {
		return "", fmt.Errorf("unable to expand template query: %w", err)
	}
	return buf.String(), nil
}

// Template retrieves dynamic media template definition by content fragment
// path.
func (c *Client) Template(ctx context.Context, baseURL, path string) (*Template, error) {
	url, err := c.TemplateURL(baseURL, path)
	if err != nil {
		return nil, err
	}
	body, err := c.cache.GetOrFetch(ctx, "template:"+url, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, url)
	})
	if err != nil {
		return nil, err
	}

	var resp templateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unable to decode content fragment %s: %w", path, err)
	}
	item := resp.Data.ByPath.Item
	if len(item.Template) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTemplate, path)
	}
	return &Template{URL: item.Template, VarMapping: item.VarMapping}, nil
}
