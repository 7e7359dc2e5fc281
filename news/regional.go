package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"
)

// ErrUnknownRegion is returned (inside a FetchResult) for a region that has no
// configured feed.
var ErrUnknownRegion = errors.New("unknown regional feed")

const (
	// DefaultRegionalSourceName labels articles from regional feeds.
	DefaultRegionalSourceName = "OG Nigeria"
	// DefaultRegionalLimit caps the number of articles per regional feed.
	DefaultRegionalLimit = 10
	// TrendingRegion is the regional feed blended into Trending.
	TrendingRegion = "trending"
)

// DefaultRegionalFeeds returns the built-in region to feed URL mapping.
func DefaultRegionalFeeds() map[string]string {
	return map[string]string{
		"trending":      "https://premiumtimesng.com/feed",
		"entertainment": "https://gistlover.com/category/entertainment/feed",
		"music":         "https://notjustok.com/feed",
		"sports":        "https://vanguardngr.com/category/sports/feed",
		"celebrity":     "https://www.gistlover.com/category/gist/feed",
		"music_updates": "https://tooxclusive.com/feed",
	}
}

// RegionalConfig configures a RegionalFetcher.
type RegionalConfig struct {
	Feeds      map[string]string
	SourceName string
	Limit      int
	UserAgent  string
}

// RegionalFetcher fetches the named regional syndication feeds. It holds no
// mutable state, so concurrent fetches of different regions are independent.
type RegionalFetcher struct {
	feeds      map[string]string
	sourceName string
	limit      int
	userAgent  string
	client     *http.Client
	now        func() time.Time
}

// NewRegionalFetcher creates a fetcher. A nil client falls back to
// http.DefaultClient; callers should pass one with a timeout.
func NewRegionalFetcher(cfg RegionalConfig, client *http.Client) *RegionalFetcher {
	if client == nil {
		client = http.DefaultClient
	}

	feeds := make(map[string]string, len(cfg.Feeds))
	for region, url := range cfg.Feeds {
		feeds[region] = url
	}

	sourceName := cfg.SourceName
	if sourceName == "" {
		sourceName = DefaultRegionalSourceName
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultRegionalLimit
	}

	return &RegionalFetcher{
		feeds:      feeds,
		sourceName: sourceName,
		limit:      limit,
		userAgent:  cfg.UserAgent,
		client:     client,
		now:        time.Now,
	}
}

// Regions returns the configured region names in sorted order.
func (f *RegionalFetcher) Regions() []string {
	regions := make([]string, 0, len(f.feeds))
	for region := range f.feeds {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}

// Fetch retrieves and normalizes one regional feed. Failures are logged and
// reported through the result status; they never affect other regions.
func (f *RegionalFetcher) Fetch(ctx context.Context, region string) FetchResult {
	url, ok := f.feeds[region]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownRegion, region)
		slog.Warn("Regional feed not configured", "region", region)
		return failedResult(err)
	}

	feed, err := f.fetchFeed(ctx, url)
	if err != nil {
		slog.Error("Regional feed fetch failed", "region", region, "url", url, "error", err)
		return failedResult(err)
	}

	articles := FeedToArticles(feed, f.sourceName, f.now())
	return okResult(firstN(articles, f.limit))
}

// fetchFeed fetches and parses an RSS or Atom feed. A parser is created per
// call because gofeed parsers keep state while parsing.
func (f *RegionalFetcher) fetchFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	fp.Client = f.client
	if f.userAgent != "" {
		fp.UserAgent = f.userAgent
	}

	feed, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return feed, nil
}
