package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	DynamicMediaConfig struct {
		DeliveryPrefix string `yaml:"delivery_prefix" validate:"required,url"`
		HostSuffix     string `yaml:"host_suffix" validate:"required"`
		Quality        int    `yaml:"quality" validate:"min=1,max=100"`
		// Breakpoints applies to delivery links when page metadata has no
		// rules for the enclosing block.
		Breakpoints string `yaml:"breakpoints"`
		// TemplateFallback replaces dynamic media template images which
		// could not be loaded.
		TemplateFallback string `yaml:"template_fallback" validate:"omitempty,url"`
	}

	VideoConfig struct {
		YouTubeHost string `yaml:"youtube_host" validate:"required,url"`
	}

	PlaceholderConfig struct {
		Width  int `yaml:"width" validate:"min=16,max=4096"`
		Height int `yaml:"height" validate:"min=16,max=4096"`
		// URL is used verbatim instead of generated image when set.
		URL string `yaml:"url" validate:"omitempty,url"`
	}

	ProbeConfig struct {
		Enable      bool          `yaml:"enable"`
		Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
		Concurrency int           `yaml:"concurrency" validate:"min=1,max=64"`
	}

	CacheConfig struct {
		Path string        `yaml:"path,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
		TTL  time.Duration `yaml:"ttl" validate:"gte=0"`
	}

	FragmentsConfig struct {
		BaseURL       string        `yaml:"base_url" validate:"omitempty,url"`
		PathPrefix    string        `yaml:"path_prefix"`
		Languages     []string      `yaml:"languages" validate:"min=1,dive,required"`
		Timeout       time.Duration `yaml:"timeout" validate:"gte=0"`
		TemplateQuery string        `yaml:"template_query"`
		Cache         CacheConfig   `yaml:"cache"`
	}

	DecorationConfig struct {
		OutputNameTemplate string             `yaml:"output_name_template"`
		DynamicMedia       DynamicMediaConfig `yaml:"dynamic_media"`
		Video              VideoConfig        `yaml:"video"`
		Placeholder        PlaceholderConfig  `yaml:"placeholder"`
		Probe              ProbeConfig        `yaml:"probe"`
		Fragments          FragmentsConfig    `yaml:"fragments"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Decoration DecorationConfig `yaml:"decoration"`
		Logging    LoggingConfig    `yaml:"logging"`
		Reporting  ReporterConfig   `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field names above, templates are expanded later
	// with per-page values
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
	TemplateQueryFieldName      TemplateFieldName = "template_query"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(TemplateQueryFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("config sanitization failed: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
