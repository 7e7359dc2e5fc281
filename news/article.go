package news

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// NoTitle is used when an upstream entry arrives without a title.
const NoTitle = "(No title)"

// ArticleSource identifies the publisher of an article.
type ArticleSource struct {
	Name string `json:"name"`
}

// Article is the normalized shape every upstream entry is mapped into. URL is
// the identity used for bookmark matching and deduplication.
type Article struct {
	Title       string        `json:"title" validate:"required"`
	URL         string        `json:"url" validate:"required"`
	URLToImage  *string       `json:"urlToImage"`
	Source      ArticleSource `json:"source"`
	PublishedAt time.Time     `json:"publishedAt"`
	Description string        `json:"description,omitempty"`
}

var articleValidator = validator.New()

// Validate reports whether the article can be placed into a response list.
func (a *Article) Validate() error {
	if err := articleValidator.Struct(a); err != nil {
		return fmt.Errorf("invalid article %q: %w", a.URL, err)
	}
	return nil
}

// firstN returns at most n articles from the head of the list. The result is
// never nil so it always serializes as a JSON array.
func firstN(articles []Article, n int) []Article {
	if len(articles) > n {
		articles = articles[:n]
	}
	if articles == nil {
		return []Article{}
	}
	return articles
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
