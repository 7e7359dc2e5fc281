package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "ognews.yaml"

// LoadConfigFile reads a YAML config file. Returns nil if the file doesn't
// exist (not an error). Returns error if the file exists but cannot be parsed.
// Keys absent from the file keep the values from Default.
func LoadConfigFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load builds the effective configuration: defaults, then the config file,
// then environment overrides. An empty path uses OGNEWS_CONFIG or DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = getEnv("OGNEWS_CONFIG", DefaultPath)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default()
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	c.Server.Addr = getEnv("OGNEWS_ADDR", c.Server.Addr)
	c.Storage.Type = getEnv("OGNEWS_STORAGE_TYPE", c.Storage.Type)
	c.Storage.DSN = getEnv("OGNEWS_STORAGE_DSN", c.Storage.DSN)
	c.News.AggregateURL = getEnv("OGNEWS_AGGREGATE_URL", c.News.AggregateURL)
	c.Log.Level = getEnv("OGNEWS_LOG_LEVEL", c.Log.Level)

	if origins := os.Getenv("OGNEWS_CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	if secure := os.Getenv("OGNEWS_SECURE_COOKIE"); secure != "" {
		value, err := strconv.ParseBool(secure)
		if err != nil {
			return fmt.Errorf("invalid OGNEWS_SECURE_COOKIE %q: %w", secure, err)
		}
		c.Auth.SecureCookie = value
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
