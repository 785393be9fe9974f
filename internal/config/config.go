package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides, e.g. DOCVIEW_PORT.
const EnvPrefix = "DOCVIEW_"

type Config struct {
	Port string `koanf:"port"`

	// Auth. Empty disables bearer auth on the session API.
	APIKey string `koanf:"api_key"`

	// Document source: an http(s) base URL or a local directory.
	DocsSource   string `koanf:"docs_source"`
	DocsRoot     string `koanf:"docs_root"`
	ManifestPath string `koanf:"manifest_path"`

	// Fetching
	FetchTimeout    time.Duration `koanf:"fetch_timeout"`
	FetchMaxRetries int           `koanf:"fetch_max_retries"`
	FetchRPS        float64       `koanf:"fetch_rps"`
	StatsWindow     time.Duration `koanf:"stats_window"`

	// Sessions
	SessionTTL time.Duration `koanf:"session_ttl"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Port:            "8091",
		DocsSource:      ".",
		DocsRoot:        "documents",
		ManifestPath:    "documents/navigation.json",
		FetchTimeout:    10 * time.Second,
		FetchMaxRetries: 2,
		FetchRPS:        0,
		StatsWindow:     time.Hour,
		SessionTTL:      30 * time.Minute,
		CORSOrigins:     []string{"http://localhost:*", "http://127.0.0.1:*"},
	}
}

// Load reads defaults, then the YAML file at path if it exists, then
// DOCVIEW_* environment overrides.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return cfg, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshalling config: %w", err)
	}
	// The manifest lives under docs_root unless placed explicitly.
	if !k.Exists("manifest_path") {
		cfg.ManifestPath = ""
	}

	cfg.applyFallbacks()
	return cfg, nil
}

func (c *Config) applyFallbacks() {
	def := Default()
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = def.FetchTimeout
	}
	if c.FetchMaxRetries < 0 {
		c.FetchMaxRetries = 0
	}
	if c.FetchRPS < 0 {
		c.FetchRPS = 0
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = def.StatsWindow
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = def.SessionTTL
	}
	if c.DocsRoot == "" {
		c.DocsRoot = def.DocsRoot
	}
	c.DocsRoot = strings.Trim(c.DocsRoot, "/")
	if c.ManifestPath == "" {
		c.ManifestPath = c.DocsRoot + "/navigation.json"
	}
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.DocsSource == "" {
		return fmt.Errorf("docs_source is required")
	}
	if c.FetchMaxRetries > 10 {
		return fmt.Errorf("fetch_max_retries must be at most 10, got %d", c.FetchMaxRetries)
	}
	return nil
}

// RemoteSource reports whether DocsSource is an HTTP base URL rather
// than a directory.
func (c Config) RemoteSource() bool {
	return strings.HasPrefix(c.DocsSource, "http://") || strings.HasPrefix(c.DocsSource, "https://")
}
