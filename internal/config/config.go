// Package config provides configuration management for mdsite.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "mdsite.yml"

// Config holds the mdsite site configuration.
type Config struct {
	Title        string         `yaml:"title" json:"title"`
	BaseURL      string         `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	ContentDir   string         `yaml:"content_dir,omitempty" json:"content_dir,omitempty"`
	OutputDir    string         `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
	PublicDir    string         `yaml:"public_dir,omitempty" json:"public_dir,omitempty"`
	ComicsDir    string         `yaml:"comics_dir,omitempty" json:"comics_dir,omitempty"`
	OutputFormat string         `yaml:"output_format,omitempty" json:"output_format,omitempty"`
	Video        VideoConfig    `yaml:"video,omitempty" json:"video,omitempty"`
	Comics       ComicsConfig   `yaml:"comics,omitempty" json:"comics,omitempty"`
	Markdown     MarkdownConfig `yaml:"markdown,omitempty" json:"markdown,omitempty"`
	Log          LogConfig      `yaml:"log,omitempty" json:"log,omitempty"`

	// root is the directory relative paths are resolved against.
	root string
}

// VideoConfig selects how ::video directives are rendered.
type VideoConfig struct {
	Binding string `yaml:"binding,omitempty" json:"binding,omitempty"`
}

// Validate implements validation.Validatable.
func (v VideoConfig) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Binding, validation.In("native", "player").Error("must be native or player")),
	)
}

// ComicsConfig controls comic manifest lookups.
type ComicsConfig struct {
	// RemoteManifests allows fetching manifests of galleries hosted on
	// other sites while building.
	RemoteManifests bool `yaml:"remote_manifests,omitempty" json:"remote_manifests,omitempty"`
}

// MarkdownConfig holds renderer options.
type MarkdownConfig struct {
	UnsafeHTML bool `yaml:"unsafe_html,omitempty" json:"unsafe_html,omitempty"`
}

// LogConfig holds logger options.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Validate implements validation.Validatable.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("console", "json")),
	)
}

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.ComicsDir == "" {
		c.ComicsDir = "comics"
	}
	if c.Video.Binding == "" {
		c.Video.Binding = "native"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required.Error("is required")),
		validation.Field(&c.BaseURL, validation.By(httpURL)),
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required, validation.By(func(value interface{}) error {
			if filepath.Clean(value.(string)) == filepath.Clean(c.ContentDir) {
				return validation.NewError("mdsite.config.output_dir_same", "must differ from content_dir")
			}
			return nil
		})),
		validation.Field(&c.OutputFormat, validation.In("table", "json", "plain")),
		validation.Field(&c.Video),
		validation.Field(&c.Log),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return validation.NewError("mdsite.config.base_url_invalid", "must be an http or https URL")
	}
	return nil
}

// NormalizeURL removes the trailing slash from the base URL.
func (c *Config) NormalizeURL() {
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Precedence: MDSITE_* → fallback variable → existing config value
func (c *Config) LoadFromEnv() {
	setString := func(dst *string, keys ...string) {
		if v := getEnvWithFallback(keys...); v != "" {
			*dst = v
		}
	}
	setBool := func(dst *bool, key string) {
		if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
			*dst = v
		}
	}

	setString(&c.Title, "MDSITE_TITLE")
	setString(&c.BaseURL, "MDSITE_BASE_URL", "SITE_URL")
	setString(&c.ContentDir, "MDSITE_CONTENT_DIR")
	setString(&c.OutputDir, "MDSITE_OUTPUT_DIR")
	setString(&c.PublicDir, "MDSITE_PUBLIC_DIR")
	setString(&c.ComicsDir, "MDSITE_COMICS_DIR")
	setString(&c.Video.Binding, "MDSITE_VIDEO_BINDING")
	setString(&c.Log.Level, "MDSITE_LOG_LEVEL", "LOG_LEVEL")
	setString(&c.Log.Format, "MDSITE_LOG_FORMAT")
	setBool(&c.Comics.RemoteManifests, "MDSITE_REMOTE_MANIFESTS")
	setBool(&c.Markdown.UnsafeHTML, "MDSITE_UNSAFE_HTML")
}

// getEnvWithFallback returns the value of the first non-empty env var.
func getEnvWithFallback(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// DefaultConfigPath returns the default configuration file path:
// $MDSITE_CONFIG when set, else mdsite.yml in the working directory.
func DefaultConfigPath() string {
	if p := os.Getenv("MDSITE_CONFIG"); p != "" {
		return p
	}
	return FileName
}

// Resolve returns p joined to the configuration directory when p is relative.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.root == "" {
		return p
	}
	return filepath.Join(c.root, p)
}

// ContentPath returns the resolved content directory.
func (c *Config) ContentPath() string { return c.Resolve(c.ContentDir) }

// OutputPath returns the resolved output directory.
func (c *Config) OutputPath() string { return c.Resolve(c.OutputDir) }

// PublicPath returns the resolved public directory.
func (c *Config) PublicPath() string { return c.Resolve(c.PublicDir) }

// ComicsPath returns the resolved comics directory inside the public directory.
func (c *Config) ComicsPath() string {
	if filepath.IsAbs(c.ComicsDir) {
		return c.ComicsDir
	}
	return filepath.Join(c.PublicPath(), c.ComicsDir)
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.root = filepath.Dir(path)

	return &cfg, nil
}

// LoadWithEnv loads configuration from file, overrides it with environment
// variables and fills in defaults.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		// If file doesn't exist, start with empty config
		cfg = &Config{root: filepath.Dir(path)}
	}

	cfg.LoadFromEnv()
	cfg.ApplyDefaults()
	cfg.NormalizeURL()
	return cfg, nil
}
