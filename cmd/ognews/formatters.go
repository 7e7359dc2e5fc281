package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/owoyelepatrick51-droid/OG-MEDIA/news"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// printArticlesTable prints articles in human-readable table format
func printArticlesTable(w io.Writer, articles []news.Article) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles to display.")
		return
	}

	fmt.Fprintf(w, "Showing %d articles\n\n", len(articles))

	for _, article := range articles {
		source := article.Source.Name
		if source == "" {
			source = "Unknown"
		}

		fmt.Fprintf(w, "%s\n", truncate(article.Title, 70))
		fmt.Fprintf(w, "   %s | Published: %s\n", source, article.PublishedAt.Format("2006-01-02 15:04"))
		if article.Description != "" && article.Description != article.Title {
			fmt.Fprintf(w, "   %s\n", truncate(article.Description, 150))
		}
		fmt.Fprintf(w, "   URL: %s\n", article.URL)
		if article.URLToImage != nil {
			fmt.Fprintf(w, "   Image: %s\n", *article.URLToImage)
		}
		fmt.Fprintln(w)
	}
}

// printArticlesJSON prints articles as the API would return them
func printArticlesJSON(w io.Writer, articles []news.Article) error {
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printArticlesCompact prints one line per article
func printArticlesCompact(w io.Writer, articles []news.Article) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles to display.")
		return
	}

	for _, article := range articles {
		fmt.Fprintf(w, "%s (%s) %s\n", truncate(article.Title, 80), article.Source.Name, article.URL)
	}
}

// printRegions lists the categories that select a regional feed
func printRegions(w io.Writer, prefix string, regions []string) {
	if len(regions) == 0 {
		fmt.Fprintln(w, "No regional feeds configured.")
		return
	}

	fmt.Fprintln(w, "Regional categories:")
	for _, region := range regions {
		fmt.Fprintf(w, "  %s\n", prefix+region)
	}
	fmt.Fprintf(w, "\nUse: ognews news -category %s\n", prefix+regions[0])
}
