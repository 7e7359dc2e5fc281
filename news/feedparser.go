package news

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

var errNilItem = errors.New("nil feed item")

// imgSrcPattern finds the first <img src="..."> in rendered feed content.
var imgSrcPattern = regexp.MustCompile(`<img[^>]+src="([^">]+)"`)

// FeedItemToArticle converts an RSS or Atom feed item to an Article. The
// gofeed library normalizes both formats into a common item, so this function
// handles every syndication format transparently. Items that do not produce a
// valid Article (no link) are reported with an error.
func FeedItemToArticle(item *gofeed.Item, sourceName string, now time.Time) (Article, error) {
	if item == nil {
		return Article{}, errNilItem
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = NoTitle
	}

	// Published_at: <pubDate> (RSS) or <published>/<updated> (Atom)
	var publishedAt time.Time
	switch {
	case item.PublishedParsed != nil:
		publishedAt = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		publishedAt = *item.UpdatedParsed
	default:
		publishedAt = now
	}

	description := contentSnippet(item)
	if description == "" {
		description = title
	}

	article := Article{
		Title:       title,
		URL:         strings.TrimSpace(item.Link),
		URLToImage:  ExtractImage(item),
		Source:      ArticleSource{Name: sourceName},
		PublishedAt: publishedAt,
		Description: description,
	}
	return article, article.Validate()
}

// FeedToArticles converts all usable items in a feed to Articles, keeping the
// order the feed provides.
func FeedToArticles(feed *gofeed.Feed, sourceName string, now time.Time) []Article {
	if feed == nil {
		return []Article{}
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		article, err := FeedItemToArticle(item, sourceName, now)
		if err != nil {
			slog.Debug("Skipping feed item", "error", err)
			continue
		}
		articles = append(articles, article)
	}
	return articles
}

// ExtractImage finds a representative image for a feed item. Sources embed
// images in different ways, so the lookup tries enclosures, then Media RSS
// attachments, then the first <img> tag in the item content. It returns nil
// when nothing matches.
func ExtractImage(item *gofeed.Item) *string {
	if item == nil {
		return nil
	}

	for _, enclosure := range item.Enclosures {
		if enclosure != nil && enclosure.URL != "" {
			return stringPtr(enclosure.URL)
		}
	}

	if url := mediaURL(item.Extensions); url != "" {
		return stringPtr(url)
	}

	html := item.Content
	if html == "" {
		html = item.Description
	}
	if match := imgSrcPattern.FindStringSubmatch(html); match != nil {
		return stringPtr(match[1])
	}

	return nil
}

// mediaURL looks for media:content, then media:thumbnail, at the top level of
// the item and then inside media:group.
func mediaURL(extensions ext.Extensions) string {
	media, ok := extensions["media"]
	if !ok {
		return ""
	}

	if url := mediaAttachmentURL(media); url != "" {
		return url
	}

	for _, group := range media["group"] {
		if url := mediaAttachmentURL(group.Children); url != "" {
			return url
		}
	}

	return ""
}

func mediaAttachmentURL(elements map[string][]ext.Extension) string {
	for _, name := range []string{"content", "thumbnail"} {
		for _, element := range elements[name] {
			if url := element.Attrs["url"]; url != "" {
				return url
			}
		}
	}
	return ""
}

// contentSnippet returns the plain text of the item description (or encoded
// content when there is no description) with whitespace collapsed.
func contentSnippet(item *gofeed.Item) string {
	html := item.Description
	if strings.TrimSpace(html) == "" {
		html = item.Content
	}
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}
