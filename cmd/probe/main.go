package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"contract-review-fe/internal/config"
	"contract-review-fe/pkg/analyzer"

	"github.com/fatih/color"
)

// probe is an operator tool for checking the analysis backend from the
// command line: health, clause search, and ad-hoc text classification.
func main() {
	var (
		query    = flag.String("search", "", "run a clause search with this query")
		limit    = flag.Int("limit", 5, "max search results")
		classify = flag.String("classify", "", "classify this clause text")
		timeout  = flag.Duration("timeout", 30*time.Second, "request timeout")
	)
	flag.Parse()

	cfg := config.Load()
	backend := analyzer.New(cfg.Analyzer.BaseURL, *timeout)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	ok := checkHealth(ctx, backend, cfg.Analyzer.BaseURL)

	if *query != "" {
		ok = runSearch(ctx, backend, *query, *limit) && ok
	}
	if *classify != "" {
		ok = runClassify(ctx, backend, *classify) && ok
	}

	if !ok {
		os.Exit(1)
	}
}

func checkHealth(ctx context.Context, backend analyzer.Client, baseURL string) bool {
	fmt.Printf("Backend: %s\n", baseURL)

	health, err := backend.Health(ctx)
	if err != nil {
		color.Red("✗ health check failed: %v", err)
		return false
	}

	if health.Status == "healthy" {
		color.Green("✓ backend is %s", health.Status)
	} else {
		color.Yellow("! backend reports %s", health.Status)
	}

	for model, loaded := range health.ModelsLoaded {
		if loaded {
			color.Green("  ✓ model %s loaded", model)
		} else {
			color.Yellow("  ! model %s not loaded", model)
		}
	}
	return true
}

func runSearch(ctx context.Context, backend analyzer.Client, query string, limit int) bool {
	res, err := backend.Search(ctx, query, limit)
	if err != nil {
		color.Red("✗ search failed: %v", err)
		return false
	}

	color.Cyan("Search %q: %d result(s)", res.Query, len(res.Results))
	for i, hit := range res.Results {
		fmt.Printf("%2d. [%.4f] %s\n", i+1, hit.Distance, truncate(hit.Text, 100))
	}
	return true
}

func runClassify(ctx context.Context, backend analyzer.Client, text string) bool {
	classification, err := backend.ClassifyText(ctx, text)
	if err != nil {
		color.Red("✗ classification failed: %v", err)
		return false
	}

	color.Cyan("Classification for %q:", truncate(text, 60))
	out, err := json.MarshalIndent(classification, "", "  ")
	if err != nil {
		color.Red("✗ could not render classification: %v", err)
		return false
	}
	fmt.Println(string(out))
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
