package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/owoyelepatrick51-droid/OG-MEDIA/config"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/news"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(getEnv("OGNEWS_CONFIG", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// Fetch diagnostics go to stderr so JSON output stays clean
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))

	core := news.NewFromConfig(cfg.News)
	ctx := context.Background()

	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "news":
		handleNews(ctx, core, args)
	case "trending":
		handleTrending(ctx, core, args)
	case "regions":
		printRegions(os.Stdout, core.Service.RegionalPrefix(), core.Regional.Regions())
	case "help", "--help", "-h":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage(os.Stderr)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "ognews - News aggregator CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ognews <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  news       List articles for a category")
	fmt.Fprintln(w, "  trending   Show the blended trending list")
	fmt.Fprintln(w, "  regions    List regional feeds")
	fmt.Fprintln(w, "  help       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment Variables:")
	fmt.Fprintln(w, "  OGNEWS_CONFIG         Path to config file (default: ognews.yaml)")
	fmt.Fprintln(w, "  OGNEWS_AGGREGATE_URL  Aggregate news feed URL")
	fmt.Fprintln(w, "  OGNEWS_LOG_LEVEL      Log level (debug, info, warn, error)")
}

func handleNews(ctx context.Context, core *news.Components, args []string) {
	fs := flag.NewFlagSet("news", flag.ExitOnError)
	category := fs.String("category", "", "Category, or <prefix><region> for a regional feed")
	query := fs.String("q", "", "Search text (accepted, not applied)")
	limit := fs.Int("limit", 0, "Maximum articles to show (0 = all)")
	format := fs.String("format", "table", "Output format: table, json, compact")
	fs.Parse(args)

	articles := core.Service.List(ctx, *category, *query)
	if *limit > 0 && len(articles) > *limit {
		articles = articles[:*limit]
	}

	printArticles(*format, articles)
}

func handleTrending(ctx context.Context, core *news.Components, args []string) {
	fs := flag.NewFlagSet("trending", flag.ExitOnError)
	format := fs.String("format", "table", "Output format: table, json, compact")
	fs.Parse(args)

	printArticles(*format, core.Service.Trending(ctx))
}

func printArticles(format string, articles []news.Article) {
	var err error
	switch format {
	case "table":
		printArticlesTable(os.Stdout, articles)
	case "json":
		err = printArticlesJSON(os.Stdout, articles)
	case "compact":
		printArticlesCompact(os.Stdout, articles)
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid format: %s (must be table, json, or compact)\n", format)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
