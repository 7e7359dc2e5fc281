package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Storage backends
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	News    NewsConfig    `yaml:"news"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	CORSOrigins  []string      `yaml:"cors_origins"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StorageConfig selects the user and bookmark database.
type StorageConfig struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

// NewsConfig configures the upstream feeds and the aggregate cache.
type NewsConfig struct {
	AggregateURL       string            `yaml:"aggregate_url"`
	CacheTTL           time.Duration     `yaml:"cache_ttl"`
	FetchTimeout       time.Duration     `yaml:"fetch_timeout"`
	RegionalPrefix     string            `yaml:"regional_prefix"`
	RegionalSourceName string            `yaml:"regional_source_name"`
	RegionalLimit      int               `yaml:"regional_limit"`
	UserAgent          string            `yaml:"user_agent"`
	RegionalFeeds      map[string]string `yaml:"regional_feeds"`
}

// AuthConfig configures login sessions.
type AuthConfig struct {
	CookieName   string        `yaml:"cookie_name"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns the configuration used when nothing is overridden. The
// regional feed table is left empty here; the news package supplies its own
// defaults when the map is empty.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			CORSOrigins:  []string{"*"},
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type: StorageSQLite,
			DSN:  "ognews.db",
		},
		News: NewsConfig{
			AggregateURL:       "https://ok.surf/api/v1/cors/news-feed",
			CacheTTL:           60 * time.Second,
			FetchTimeout:       10 * time.Second,
			RegionalPrefix:     "nigeria_",
			RegionalSourceName: "OG Nigeria",
			RegionalLimit:      10,
			UserAgent:          "ognews/1.0",
		},
		Auth: AuthConfig{
			CookieName: "ognews_session",
			SessionTTL: 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}

	switch c.Storage.Type {
	case StorageSQLite, StoragePostgres:
	default:
		errs = append(errs, fmt.Errorf("storage.type must be %s or %s, got %q",
			StorageSQLite, StoragePostgres, c.Storage.Type))
	}
	if strings.TrimSpace(c.Storage.DSN) == "" {
		errs = append(errs, errors.New("storage.dsn is required"))
	}

	if c.News.CacheTTL <= 0 {
		errs = append(errs, errors.New("news.cache_ttl must be positive"))
	}
	if c.News.FetchTimeout <= 0 {
		errs = append(errs, errors.New("news.fetch_timeout must be positive"))
	}
	if c.News.RegionalLimit <= 0 {
		errs = append(errs, errors.New("news.regional_limit must be positive"))
	}
	if c.News.RegionalPrefix == "" {
		errs = append(errs, errors.New("news.regional_prefix is required"))
	}
	for region, url := range c.News.RegionalFeeds {
		if strings.TrimSpace(url) == "" {
			errs = append(errs, fmt.Errorf("news.regional_feeds.%s has no url", region))
		}
	}

	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("auth.session_ttl must be positive"))
	}
	if c.Auth.CookieName == "" {
		errs = append(errs, errors.New("auth.cookie_name is required"))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
