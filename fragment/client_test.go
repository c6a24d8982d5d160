package fragment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/yudalvi/whirlp-da/config"
)

const templateQuery = "{{ .BaseURL }}/graphql/execute.json/wknd-universal/DynamicMediaTemplateByPath;path={{ .Path }}"

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := &config.FragmentsConfig{
		BaseURL:       baseURL,
		PathPrefix:    "/language-masters/",
		Timeout:       5 * time.Second,
		TemplateQuery: templateQuery,
	}
	c, err := NewClient(cfg, NewCache(nil, zaptest.NewLogger(t)), nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestClient_Navigation(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/language-masters/en/navigation.json":
			w.Write([]byte(`{"total":1,"data":[{"title":"Home"}]}`))
		case "/language-masters/fr/navigation.json":
			w.Write([]byte(`not json`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/")
	ctx := context.Background()

	tests := []struct {
		lang string
		want string
	}{
		{"en", `[{"title":"Home"}]`},
		{"fr", `{}`},
		{"de", `{}`},
		{"en", `[{"title":"Home"}]`},
		{"de", `{}`},
	}
	for _, tt := range tests {
		data, err := c.Navigation(ctx, tt.lang)
		if err != nil {
			t.Fatalf("Navigation(%s) error = %v", tt.lang, err)
		}
		if string(data) != tt.want {
			t.Errorf("Navigation(%s) = %s, want %s", tt.lang, data, tt.want)
		}
	}
	// failures are remembered like regular results
	if hits.Load() != 3 {
		t.Errorf("server hit %d times, want 3", hits.Load())
	}
}

func TestClient_NotConfigured(t *testing.T) {
	c := newTestClient(t, "")
	if _, err := c.Navigation(context.Background(), "en"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Navigation() error = %v", err)
	}
	if _, err := c.Template(context.Background(), "", "/content/dam/x"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Template() error = %v", err)
	}
}

func TestClient_Template(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/graphql/execute.json/wknd-universal/DynamicMediaTemplateByPath;path=/content/dam/offer":
			w.Write([]byte(`{"data":{"dynamicMediaTemplateByPath":{"item":{"dm_template":"https://s7.example.com/is/image/T?fmt=png","var_mapping":["$title=Sale,","$price=10"]}}}}`))
		case "/graphql/execute.json/wknd-universal/DynamicMediaTemplateByPath;path=/content/dam/empty":
			w.Write([]byte(`{"data":{"dynamicMediaTemplateByPath":{"item":{}}}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, "https://unused.example.com")
	ctx := context.Background()

	tmpl, err := c.Template(ctx, srv.URL, "/content/dam/offer")
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if tmpl.URL != "https://s7.example.com/is/image/T?fmt=png" || len(tmpl.VarMapping) != 2 {
		t.Errorf("Template() = %+v", tmpl)
	}

	if _, err := c.Template(ctx, srv.URL, "/content/dam/empty"); !errors.Is(err, ErrNoTemplate) {
		t.Errorf("Template(empty) error = %v, want ErrNoTemplate", err)
	}
	if _, err := c.Template(ctx, srv.URL, "/content/dam/broken"); err == nil {
		t.Error("Template(broken) expected error")
	}
}

func TestClient_TemplateURL(t *testing.T) {
	c := newTestClient(t, "https://author.example.com/")
	got, err := c.TemplateURL("", "/content/dam/a")
	if err != nil {
		t.Fatal(err)
	}
	if want := "https://author.example.com/graphql/execute.json/wknd-universal/DynamicMediaTemplateByPath;path=/content/dam/a"; got != want {
		t.Errorf("TemplateURL() = %s, want %s", got, want)
	}
	if got := c.NavigationURL("en"); got != "https://author.example.com/language-masters/en/navigation.json" {
		t.Errorf("NavigationURL() = %s", got)
	}
}

func TestNewClient_BadTemplate(t *testing.T) {
	cfg := &config.FragmentsConfig{TemplateQuery: "{{ .BaseURL"}
	if _, err := NewClient(cfg, nil, nil, nil); err == nil {
		t.Error("expected template parse error")
	}
}
