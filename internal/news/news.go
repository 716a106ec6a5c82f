// Package news collects articles from NewsAPI, Google News RSS, and the
// Yahoo Finance headline feed. Each recommended search query fans out to the
// per-query providers concurrently; the Yahoo headline feed is scanned once
// per fetch regardless of query count to avoid duplicate pulls. Collected
// items are deduplicated by title similarity before they reach the curation
// stage.
package news

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/chipsight/chipsight/pkg/models"
	"github.com/chipsight/chipsight/pkg/utils"
)

// Aggregator fans a set of search queries out across the configured
// providers and merges the results.
type Aggregator struct {
	newsapi *NewsAPIClient // nil when no API key is configured
	rss     *RSSClient

	perQueryLimit int
	headlineLimit int
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithNewsAPI enables the NewsAPI provider.
func WithNewsAPI(c *NewsAPIClient) AggregatorOption {
	return func(a *Aggregator) { a.newsapi = c }
}

// WithRSS overrides the RSS client, used by tests to point at fake feeds.
func WithRSS(c *RSSClient) AggregatorOption {
	return func(a *Aggregator) { a.rss = c }
}

// WithPerQueryLimit caps how many NewsAPI articles each query contributes.
func WithPerQueryLimit(n int) AggregatorOption {
	return func(a *Aggregator) { a.perQueryLimit = n }
}

// WithHeadlineLimit caps how many Yahoo Finance headlines one fetch adds.
func WithHeadlineLimit(n int) AggregatorOption {
	return func(a *Aggregator) { a.headlineLimit = n }
}

// NewAggregator creates an aggregator with Google News and Yahoo Finance
// enabled. NewsAPI joins the fan-out only when configured via WithNewsAPI.
func NewAggregator(opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		rss:           NewRSSClient(),
		perQueryLimit: 5,
		headlineLimit: 3,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Fetch collects articles for every query over the given period (e.g. "3d",
// "12h"). Provider failures are logged and skipped; Fetch only errors when
// the context is cancelled. The result is deduplicated, first seen wins.
func (a *Aggregator) Fetch(ctx context.Context, queries []string, period string) ([]models.NewsItem, error) {
	days := utils.PeriodDays(period)

	var mu sync.Mutex
	var collected []models.NewsItem
	add := func(items []models.NewsItem, provider string, err error) {
		if err != nil {
			log.Printf("news: %s: %v", provider, err)
			return
		}
		mu.Lock()
		collected = append(collected, items...)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, query := range queries {
		q := query
		if a.newsapi != nil {
			g.Go(func() error {
				items, err := a.newsapi.Search(gctx, q, days, a.perQueryLimit)
				add(items, "newsapi", err)
				return nil
			})
		}
		g.Go(func() error {
			items, err := a.rss.GoogleNews(gctx, q, period)
			add(items, "google news", err)
			return nil
		})
	}
	g.Go(func() error {
		items, err := a.rss.YahooHeadlines(gctx, queries, a.headlineLimit)
		add(items, "yahoo finance", err)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unique := Dedup(collected)
	log.Printf("news: %d articles fetched, %d after dedup (%s)", len(collected), len(unique), sourceBreakdown(unique))
	return unique, nil
}

// sourceBreakdown summarizes item counts per provider for the fetch log.
func sourceBreakdown(items []models.NewsItem) string {
	counts := make(map[string]int)
	var order []string
	for _, it := range items {
		src := it.Source
		if i := strings.Index(src, " ("); i > 0 {
			src = src[:i]
		}
		if _, seen := counts[src]; !seen {
			order = append(order, src)
		}
		counts[src]++
	}
	var parts []string
	for _, src := range order {
		parts = append(parts, strings.ToLower(src)+"="+strconv.Itoa(counts[src]))
	}
	if len(parts) == 0 {
		return "no sources"
	}
	return strings.Join(parts, " ")
}
