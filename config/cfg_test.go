package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rupor-github/gencfg"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestLoadConfiguration_Defaults(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	dm := cfg.Decoration.DynamicMedia
	if dm.DeliveryPrefix != "https://delivery-p" {
		t.Errorf("DeliveryPrefix = %q", dm.DeliveryPrefix)
	}
	if dm.HostSuffix != ".adobeaemcloud.com" {
		t.Errorf("HostSuffix = %q", dm.HostSuffix)
	}
	if dm.Quality != 85 {
		t.Errorf("Quality = %d, want 85", dm.Quality)
	}
	if !strings.HasSuffix(dm.Breakpoints, "|width:780") {
		t.Errorf("Breakpoints = %q, expected unconditional 780 rule last", dm.Breakpoints)
	}
	if !strings.HasPrefix(dm.TemplateFallback, "https://smartimaging.scene7.com/") {
		t.Errorf("TemplateFallback = %q", dm.TemplateFallback)
	}
	if cfg.Decoration.Video.YouTubeHost != "https://www.youtube.com" {
		t.Errorf("YouTubeHost = %q", cfg.Decoration.Video.YouTubeHost)
	}
	if cfg.Decoration.Probe.Enable {
		t.Error("Probe should be disabled by default")
	}
	if cfg.Decoration.Probe.Timeout != 10*time.Second {
		t.Errorf("Probe.Timeout = %v, want 10s", cfg.Decoration.Probe.Timeout)
	}
	if cfg.Decoration.Fragments.PathPrefix != "/language-masters" {
		t.Errorf("PathPrefix = %q", cfg.Decoration.Fragments.PathPrefix)
	}
	if cfg.Decoration.Fragments.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v, want 1h", cfg.Decoration.Fragments.Cache.TTL)
	}
}

func TestLoadConfiguration_TemplatesNotExpanded(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if !strings.Contains(cfg.Decoration.Fragments.TemplateQuery, "{{ .Path }}") {
		t.Errorf("TemplateQuery was expanded: %q", cfg.Decoration.Fragments.TemplateQuery)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
decoration:
  dynamic_media:
    quality: 70
    breakpoints: "width:1000"
  probe:
    enable: true
    concurrency: 8
  fragments:
    base_url: "https://author.example.com"
    languages: ["en", "fr"]
logging:
  console:
    level: normal
  file:
    level: debug
    destination: /tmp/test.log
    mode: append
reporting:
  destination: /tmp/test-report.zip
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Decoration.DynamicMedia.Quality != 70 {
		t.Errorf("Quality = %d, want 70", cfg.Decoration.DynamicMedia.Quality)
	}
	if cfg.Decoration.DynamicMedia.Breakpoints != "width:1000" {
		t.Errorf("Breakpoints = %q", cfg.Decoration.DynamicMedia.Breakpoints)
	}
	if !cfg.Decoration.Probe.Enable || cfg.Decoration.Probe.Concurrency != 8 {
		t.Errorf("Probe = %+v", cfg.Decoration.Probe)
	}
	if len(cfg.Decoration.Fragments.Languages) != 2 {
		t.Errorf("Languages = %v", cfg.Decoration.Fragments.Languages)
	}
	// untouched values keep defaults
	if cfg.Decoration.DynamicMedia.HostSuffix != ".adobeaemcloud.com" {
		t.Errorf("HostSuffix = %q, expected default", cfg.Decoration.DynamicMedia.HostSuffix)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\ndecoration:\n  probe: true\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad quality", "version: 1\ndecoration:\n  dynamic_media:\n    quality: 150\n"},
		{"bad concurrency", "version: 1\ndecoration:\n  probe:\n    concurrency: 0\n"},
		{"bad log level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Decoration.DynamicMedia.Quality = 60

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Decoration.DynamicMedia.Quality != 60 {
		t.Errorf("Quality after dump/load = %d, want 60", cfg2.Decoration.DynamicMedia.Quality)
	}
}

func TestUnmarshalConfig(t *testing.T) {
	t.Run("valid config without processing", func(t *testing.T) {
		result, err := unmarshalConfig([]byte(`version: 1`), &Config{}, false)
		if err != nil {
			t.Fatalf("unmarshalConfig() error = %v", err)
		}
		if result.Version != 1 {
			t.Errorf("Version = %d, want 1", result.Version)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := unmarshalConfig([]byte(`invalid: [yaml`), &Config{}, false); err == nil {
			t.Error("Expected error for invalid YAML")
		}
	})

	t.Run("validation error is wrapped", func(t *testing.T) {
		_, err := unmarshalConfig([]byte(`version: 3`), &Config{}, true)
		if err == nil {
			t.Fatal("Expected validation error")
		}
		if !strings.Contains(err.Error(), "validation") {
			t.Errorf("error %q does not mention validation", err)
		}
		if errors.Unwrap(err) == nil {
			t.Error("validation error is not wrapped")
		}
	})
}
