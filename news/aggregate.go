package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultAggregateURL is the multi-category news feed provider.
	DefaultAggregateURL = "https://ok.surf/api/v1/cors/news-feed"
	// DefaultCategory is used for unknown category tokens and as the fallback
	// when a category is missing from the payload.
	DefaultCategory = "World"
)

// ErrMalformedPayload is returned when the aggregate body is not a JSON object.
var ErrMalformedPayload = errors.New("malformed aggregate payload")

// categoryLabels maps lower-case request tokens to the provider's labels.
var categoryLabels = map[string]string{
	"business":      "Business",
	"entertainment": "Entertainment",
	"health":        "Health",
	"science":       "Science",
	"sports":        "Sports",
	"technology":    "Technology",
	"tech":          "Technology",
	"world":         "World",
	"nigeria":       "World",
	"crypto":        "Business",
}

// ResolveCategory translates a request token to the provider's category label.
// Matching is case-insensitive; unknown or empty tokens resolve to World.
func ResolveCategory(token string) string {
	if label, ok := categoryLabels[strings.ToLower(strings.TrimSpace(token))]; ok {
		return label
	}
	return DefaultCategory
}

// RawArticle is one entry of the aggregate payload as the provider sends it.
type RawArticle struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
	OG     string `json:"og"`
	Image  string `json:"image"`
}

// Payload maps provider category labels to their entries.
type Payload map[string][]RawArticle

// Articles extracts and normalizes the entries for a request category. A
// category missing from the payload falls back to World; when World is also
// missing the result is empty.
func (p Payload) Articles(category string, now time.Time) []Article {
	raw, ok := p[ResolveCategory(category)]
	if !ok {
		raw = p[DefaultCategory]
	}

	articles := make([]Article, 0, len(raw))
	for _, entry := range raw {
		article := entry.toArticle(now)
		if err := article.Validate(); err != nil {
			slog.Debug("Skipping aggregate entry", "error", err)
			continue
		}
		articles = append(articles, article)
	}
	return articles
}

func (r RawArticle) toArticle(now time.Time) Article {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = NoTitle
	}

	image := r.OG
	if image == "" {
		image = r.Image
	}

	return Article{
		Title:       title,
		URL:         strings.TrimSpace(r.Link),
		URLToImage:  stringPtr(image),
		Source:      ArticleSource{Name: r.Source},
		PublishedAt: now,
		Description: title,
	}
}

// AggregateFetcher retrieves the categorized payload from the aggregate
// provider.
type AggregateFetcher struct {
	url       string
	userAgent string
	client    *http.Client
}

// NewAggregateFetcher creates a fetcher for the given provider URL.
func NewAggregateFetcher(url, userAgent string, client *http.Client) *AggregateFetcher {
	if url == "" {
		url = DefaultAggregateURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &AggregateFetcher{
		url:       url,
		userAgent: userAgent,
		client:    client,
	}
}

// FetchPayload performs one GET against the provider and returns the decoded
// payload.
func (f *AggregateFetcher) FetchPayload(ctx context.Context) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch aggregate feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("aggregate feed returned %s", resp.Status)
	}

	return DecodePayload(resp.Body)
}

// DecodePayload parses an aggregate body. The body must be a JSON object.
// Categories that are null or not arrays are left out, so lookups fall back
// to World; entries that are not objects are skipped. Entries without a link
// are dropped later by Article.Validate.
func DecodePayload(r io.Reader) (Payload, error) {
	var categories map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&categories); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if categories == nil {
		return nil, fmt.Errorf("%w: body is null", ErrMalformedPayload)
	}

	payload := make(Payload, len(categories))
	for label, body := range categories {
		var entries []json.RawMessage
		if err := json.Unmarshal(body, &entries); err != nil {
			slog.Warn("Skipping malformed aggregate category", "category", label, "error", err)
			continue
		}
		if entries == nil {
			slog.Debug("Skipping null aggregate category", "category", label)
			continue
		}

		raw := make([]RawArticle, 0, len(entries))
		for i, entry := range entries {
			var article RawArticle
			if err := json.Unmarshal(entry, &article); err != nil {
				slog.Debug("Skipping malformed aggregate entry", "category", label, "index", i, "error", err)
				continue
			}
			raw = append(raw, article)
		}
		payload[label] = raw
	}

	return payload, nil
}
