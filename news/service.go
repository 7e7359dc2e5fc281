package news

import (
	"context"
	"strings"
	"sync"
)

const (
	// DefaultRegionalPrefix marks categories served by regional feeds.
	DefaultRegionalPrefix = "nigeria_"

	trendingRegionalCount = 3
	trendingGlobalCount   = 5
)

// RegionalSource fetches one named regional feed.
type RegionalSource interface {
	Fetch(ctx context.Context, region string) FetchResult
}

// CategorySource returns the global articles for a category.
type CategorySource interface {
	Articles(ctx context.Context, category string) FetchResult
}

// Service is the entry point for news queries. It routes a category either to
// a regional feed or to the cached global aggregate.
type Service struct {
	regional RegionalSource
	global   CategorySource
	prefix   string
}

// NewService creates a query service. An empty prefix uses
// DefaultRegionalPrefix.
func NewService(regional RegionalSource, global CategorySource, prefix string) *Service {
	if prefix == "" {
		prefix = DefaultRegionalPrefix
	}
	return &Service{
		regional: regional,
		global:   global,
		prefix:   prefix,
	}
}

// RegionalPrefix returns the prefix that routes a category to a regional feed.
func (s *Service) RegionalPrefix() string {
	return s.prefix
}

// List returns the articles for a category. The query is accepted for API
// compatibility but no upstream supports filtering, so it is not applied.
func (s *Service) List(ctx context.Context, category, query string) []Article {
	return s.Fetch(ctx, category).Articles
}

// Fetch is List with the fetch status kept.
func (s *Service) Fetch(ctx context.Context, category string) FetchResult {
	if region, ok := s.regionFor(category); ok {
		return s.regional.Fetch(ctx, region)
	}
	return s.global.Articles(ctx, category)
}

// Trending blends the head of the regional trending feed with the head of the
// global World category, regional articles first.
func (s *Service) Trending(ctx context.Context) []Article {
	var (
		wg       sync.WaitGroup
		regional FetchResult
		global   FetchResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		regional = s.regional.Fetch(ctx, TrendingRegion)
	}()
	go func() {
		defer wg.Done()
		global = s.global.Articles(ctx, "")
	}()
	wg.Wait()

	head := firstN(regional.Articles, trendingRegionalCount)
	tail := firstN(global.Articles, trendingGlobalCount)

	combined := make([]Article, 0, len(head)+len(tail))
	combined = append(combined, head...)
	combined = append(combined, tail...)
	return combined
}

func (s *Service) regionFor(category string) (string, bool) {
	if !strings.HasPrefix(category, s.prefix) {
		return "", false
	}
	return strings.TrimPrefix(category, s.prefix), true
}
