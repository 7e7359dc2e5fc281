package news

import (
	"net/http"

	"github.com/owoyelepatrick51-droid/OG-MEDIA/config"
)

// Components is the aggregation core wired from configuration.
type Components struct {
	Regional *RegionalFetcher
	Cache    *Cache
	Service  *Service
}

// NewFromConfig builds the fetchers, the aggregate cache and the query
// service. An empty regional feed table uses DefaultRegionalFeeds. Every
// upstream request is bounded by cfg.FetchTimeout.
func NewFromConfig(cfg config.NewsConfig) *Components {
	client := &http.Client{Timeout: cfg.FetchTimeout}

	feeds := cfg.RegionalFeeds
	if len(feeds) == 0 {
		feeds = DefaultRegionalFeeds()
	}

	regional := NewRegionalFetcher(RegionalConfig{
		Feeds:      feeds,
		SourceName: cfg.RegionalSourceName,
		Limit:      cfg.RegionalLimit,
		UserAgent:  cfg.UserAgent,
	}, client)

	cache := NewCache(NewAggregateFetcher(cfg.AggregateURL, cfg.UserAgent, client), cfg.CacheTTL)

	return &Components{
		Regional: regional,
		Cache:    cache,
		Service:  NewService(regional, cache, cfg.RegionalPrefix),
	}
}
