// Package config manages client configuration.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ProxyConfig holds upstream proxy endpoints and the attempt bound used when
// YouTube signals blocking. It is supplied once at client construction and
// never mutated; all sessions of one fetch operation share it read-only.
type ProxyConfig struct {
	// HTTPURL is the proxy endpoint for plain HTTP requests.
	HTTPURL string `json:"http_url"`
	// HTTPSURL is the proxy endpoint for HTTPS requests.
	HTTPSURL string `json:"https_url"`
	// RetriesWhenBlocked is the total number of attempts made through the
	// proxy when YouTube blocks a request before the block is surfaced.
	RetriesWhenBlocked int `json:"retries_when_blocked"`
}

// Config holds all client configuration.
type Config struct {
	// UserAgent for HTTP requests.
	UserAgent string `json:"user_agent"`
	// AcceptLanguage for HTTP requests. Reason strings returned by the player
	// endpoint are matched in English, so this should stay an English locale.
	AcceptLanguage string `json:"accept_language"`
	// HTTPTimeout is the per-request timeout.
	HTTPTimeout time.Duration `json:"http_timeout"`
	// RequestsPerSecond paces requests per host (0 = unlimited).
	RequestsPerSecond float64 `json:"requests_per_second"`
	// Languages is the default language-code preference order.
	Languages []string `json:"languages"`
	// Proxy is the optional proxy configuration.
	Proxy *ProxyConfig `json:"proxy,omitempty"`
}

// Default returns configuration with safe defaults.
func Default() *Config {
	return &Config{
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		AcceptLanguage:    "en-US",
		HTTPTimeout:       30 * time.Second,
		RequestsPerSecond: 4.0,
		Languages:         []string{"en"},
	}
}

// Load loads configuration from defaults, an optional config file, and
// environment variables. Priority: env vars > config file > defaults.
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.loadFromFile(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load yttranscript.json from the current directory
// or the home directory.
func (c *Config) loadFromFile() error {
	paths := []string{"yttranscript.json"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".yttranscript.json"))
	}

	var lastErr error = os.ErrNotExist
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	return lastErr
}

// loadFromEnv overrides configuration with YTT_* environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTT_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("YTT_ACCEPT_LANGUAGE"); v != "" {
		c.AcceptLanguage = v
	}
	if v := os.Getenv("YTT_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("YTT_REQUESTS_PER_SECOND"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = rps
		}
	}
	if v := os.Getenv("YTT_LANGUAGES"); v != "" {
		var languages []string
		for _, lang := range strings.Split(v, ",") {
			if lang = strings.TrimSpace(lang); lang != "" {
				languages = append(languages, lang)
			}
		}
		if len(languages) > 0 {
			c.Languages = languages
		}
	}

	httpProxy := os.Getenv("YTT_HTTP_PROXY")
	httpsProxy := os.Getenv("YTT_HTTPS_PROXY")
	if httpProxy != "" || httpsProxy != "" {
		if c.Proxy == nil {
			c.Proxy = &ProxyConfig{RetriesWhenBlocked: DefaultRetriesWhenBlocked}
		}
		if httpProxy != "" {
			c.Proxy.HTTPURL = httpProxy
		}
		if httpsProxy != "" {
			c.Proxy.HTTPSURL = httpsProxy
		}
	}
	if v := os.Getenv("YTT_PROXY_RETRIES"); v != "" && c.Proxy != nil {
		if n, err := strconv.Atoi(v); err == nil {
			c.Proxy.RetriesWhenBlocked = n
		}
	}
}

// DefaultRetriesWhenBlocked is the attempt bound applied when a proxy is
// configured without an explicit retry count.
const DefaultRetriesWhenBlocked = 3

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %v", c.HTTPTimeout)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %v", c.RequestsPerSecond)
	}
	if c.Proxy != nil {
		if c.Proxy.RetriesWhenBlocked < 0 {
			return fmt.Errorf("retries_when_blocked must not be negative, got %d", c.Proxy.RetriesWhenBlocked)
		}
		for _, endpoint := range []string{c.Proxy.HTTPURL, c.Proxy.HTTPSURL} {
			if endpoint == "" {
				continue
			}
			if _, err := url.Parse(endpoint); err != nil {
				return fmt.Errorf("invalid proxy endpoint %q: %w", endpoint, err)
			}
		}
	}
	return nil
}
