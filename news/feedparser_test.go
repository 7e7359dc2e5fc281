package news

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var normalizedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func mediaExtensions(name, url string) ext.Extensions {
	return ext.Extensions{
		"media": {
			name: {{Name: name, Attrs: map[string]string{"url": url}}},
		},
	}
}

// TestFeedItemToArticle_BasicRSSItem verifies conversion of a basic RSS item
func TestFeedItemToArticle_BasicRSSItem(t *testing.T) {
	publishedTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	item := &gofeed.Item{
		Title:           "Test Article",
		Description:     "This is a test description",
		Link:            "http://example.com/article",
		PublishedParsed: &publishedTime,
	}

	article, err := FeedItemToArticle(item, "OG Nigeria", normalizedAt)
	require.NoError(t, err)

	assert.Equal(t, "Test Article", article.Title)
	assert.Equal(t, "This is a test description", article.Description)
	assert.Equal(t, "http://example.com/article", article.URL)
	assert.Equal(t, "OG Nigeria", article.Source.Name)
	assert.Equal(t, publishedTime, article.PublishedAt)
	assert.Nil(t, article.URLToImage)
}

// TestFeedItemToArticle_MissingDate verifies the normalization time is used
func TestFeedItemToArticle_MissingDate(t *testing.T) {
	item := &gofeed.Item{Title: "Test", Link: "http://example.com"}

	article, err := FeedItemToArticle(item, "OG Nigeria", normalizedAt)
	require.NoError(t, err)
	assert.Equal(t, normalizedAt, article.PublishedAt)
}

// TestFeedItemToArticle_UpdatedDate verifies Atom updated dates are used when
// there is no published date
func TestFeedItemToArticle_UpdatedDate(t *testing.T) {
	updated := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	item := &gofeed.Item{Title: "Test", Link: "http://example.com", UpdatedParsed: &updated}

	article, err := FeedItemToArticle(item, "OG Nigeria", normalizedAt)
	require.NoError(t, err)
	assert.Equal(t, updated, article.PublishedAt)
}

// TestFeedItemToArticle_DescriptionFallsBackToTitle verifies the title is
// used when the item has no text content
func TestFeedItemToArticle_DescriptionFallsBackToTitle(t *testing.T) {
	item := &gofeed.Item{Title: "Only a title", Link: "http://example.com"}

	article, err := FeedItemToArticle(item, "OG Nigeria", normalizedAt)
	require.NoError(t, err)
	assert.Equal(t, "Only a title", article.Description)
}

// TestFeedItemToArticle_SnippetStripsHTML verifies the description is plain
// text
func TestFeedItemToArticle_SnippetStripsHTML(t *testing.T) {
	item := &gofeed.Item{
		Title:       "Test",
		Link:        "http://example.com",
		Description: "<p>Hello <b>world</b></p>\n   <p>again &amp; again</p>",
	}

	article, err := FeedItemToArticle(item, "OG Nigeria", normalizedAt)
	require.NoError(t, err)
	assert.Equal(t, "Hello world again & again", article.Description)
}

// TestFeedItemToArticle_EmptyTitle verifies fallback for empty title
func TestFeedItemToArticle_EmptyTitle(t *testing.T) {
	item := &gofeed.Item{Title: "  ", Link: "http://example.com/article"}

	article, err := FeedItemToArticle(item, "OG Nigeria", normalizedAt)
	require.NoError(t, err)
	assert.Equal(t, NoTitle, article.Title, "should use fallback for empty title")
	assert.Equal(t, NoTitle, article.Description)
}

// TestFeedItemToArticle_MissingLink verifies items without a link are rejected
func TestFeedItemToArticle_MissingLink(t *testing.T) {
	_, err := FeedItemToArticle(&gofeed.Item{Title: "No link"}, "OG Nigeria", normalizedAt)
	assert.Error(t, err)

	_, err = FeedItemToArticle(&gofeed.Item{Title: "Blank link", Link: "  "}, "OG Nigeria", normalizedAt)
	assert.Error(t, err)

	_, err = FeedItemToArticle(nil, "OG Nigeria", normalizedAt)
	assert.Error(t, err)
}

// TestExtractImage verifies the order in which image sources are tried
func TestExtractImage(t *testing.T) {
	tests := []struct {
		name string
		item *gofeed.Item
		want string
	}{
		{
			name: "enclosure wins over everything",
			item: &gofeed.Item{
				Enclosures: []*gofeed.Enclosure{{URL: "http://img/enclosure.jpg", Type: "image/jpeg"}},
				Extensions: mediaExtensions("thumbnail", "http://img/thumb.jpg"),
				Content:    `<img src="http://img/content.jpg">`,
			},
			want: "http://img/enclosure.jpg",
		},
		{
			name: "empty enclosure is skipped",
			item: &gofeed.Item{
				Enclosures: []*gofeed.Enclosure{{URL: ""}},
				Extensions: mediaExtensions("thumbnail", "http://img/thumb.jpg"),
			},
			want: "http://img/thumb.jpg",
		},
		{
			name: "media thumbnail before content",
			item: &gofeed.Item{
				Extensions: mediaExtensions("thumbnail", "http://img/thumb.jpg"),
				Content:    `<img src="http://img/content.jpg">`,
			},
			want: "http://img/thumb.jpg",
		},
		{
			name: "media content",
			item: &gofeed.Item{
				Extensions: mediaExtensions("content", "http://img/media.jpg"),
			},
			want: "http://img/media.jpg",
		},
		{
			name: "media group",
			item: &gofeed.Item{
				Extensions: ext.Extensions{
					"media": {
						"group": {{
							Name: "group",
							Children: map[string][]ext.Extension{
								"content": {{Name: "content", Attrs: map[string]string{"url": "http://img/group.jpg"}}},
							},
						}},
					},
				},
			},
			want: "http://img/group.jpg",
		},
		{
			name: "img tag in encoded content",
			item: &gofeed.Item{
				Content: `<p>Story</p><img class="wp-image" src="http://img/content.jpg" alt="x"><img src="http://img/second.jpg">`,
			},
			want: "http://img/content.jpg",
		},
		{
			name: "img tag in description when there is no encoded content",
			item: &gofeed.Item{
				Description: `<img width="300" src="http://img/description.jpg" />`,
			},
			want: "http://img/description.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractImage(tt.item)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

// TestExtractImage_NoImage verifies a nil image when nothing matches
func TestExtractImage_NoImage(t *testing.T) {
	items := []*gofeed.Item{
		nil,
		{},
		{Content: "<p>no images here</p>"},
		{Content: `<img alt="missing src">`},
		{Extensions: ext.Extensions{"dc": {"creator": {{Name: "creator", Value: "x"}}}}},
	}

	for _, item := range items {
		assert.NotPanics(t, func() {
			assert.Nil(t, ExtractImage(item))
		})
	}
}

// TestFeedToArticles verifies order is kept and unusable items are dropped
func TestFeedToArticles(t *testing.T) {
	feed := &gofeed.Feed{
		Items: []*gofeed.Item{
			{Title: "First", Link: "http://example.com/1"},
			{Title: "No link"},
			{Title: "Second", Link: "http://example.com/2"},
		},
	}

	articles := FeedToArticles(feed, "OG Nigeria", normalizedAt)

	require.Len(t, articles, 2)
	assert.Equal(t, "First", articles[0].Title)
	assert.Equal(t, "Second", articles[1].Title)
}

// TestFeedToArticles_NilFeed verifies a nil feed yields an empty list
func TestFeedToArticles_NilFeed(t *testing.T) {
	articles := FeedToArticles(nil, "OG Nigeria", normalizedAt)
	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}
