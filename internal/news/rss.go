package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/chipsight/chipsight/pkg/models"
)

const (
	googleNewsBaseURL = "https://news.google.com/rss/search"
	yahooHeadlinesURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?region=US&lang=en-US"

	// yahooHeadlineQuery tags headline items so downstream stages can tell
	// them apart from query-driven results.
	yahooHeadlineQuery = "yahoo_finance_filter"
)

// RSSClient fetches the Google News search feed and the Yahoo Finance
// headline feed.
type RSSClient struct {
	parser     *gofeed.Parser
	googleBase string
	yahooURL   string
}

// RSSOption configures an RSSClient.
type RSSOption func(*RSSClient)

// WithGoogleBaseURL overrides the Google News search feed base URL.
func WithGoogleBaseURL(u string) RSSOption {
	return func(c *RSSClient) { c.googleBase = strings.TrimRight(u, "/") }
}

// WithYahooURL overrides the Yahoo Finance headline feed URL.
func WithYahooURL(u string) RSSOption {
	return func(c *RSSClient) { c.yahooURL = u }
}

// NewRSSClient creates an RSS client for the default feeds.
func NewRSSClient(opts ...RSSOption) *RSSClient {
	c := &RSSClient{
		parser:     gofeed.NewParser(),
		googleBase: googleNewsBaseURL,
		yahooURL:   yahooHeadlinesURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GoogleNews searches the Google News feed for a query, scoped to the given
// period using the feed's native "when:" operator (e.g. "when:3d").
func (c *RSSClient) GoogleNews(ctx context.Context, query, period string) ([]models.NewsItem, error) {
	feedURL := fmt.Sprintf("%s?q=%s+when:%s&hl=en-US&gl=US&ceid=US:en",
		c.googleBase, url.QueryEscape(query), period)

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("google news %q: %w", query, err)
	}

	items := make([]models.NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		items = append(items, models.NewsItem{
			Title:       entry.Title,
			Published:   entry.Published,
			Source:      "Google News",
			Description: cleanHTML(entry.Description),
			URL:         entry.Link,
			Query:       query,
		})
	}
	return items, nil
}

// YahooHeadlines scans the Yahoo Finance headline feed once and keeps up to
// limit entries whose title mentions a term from any query. Terms of three
// characters or fewer are ignored so stop words do not match everything.
func (c *RSSClient) YahooHeadlines(ctx context.Context, queries []string, limit int) ([]models.NewsItem, error) {
	feed, err := c.parser.ParseURLWithContext(c.yahooURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("yahoo headlines: %w", err)
	}

	var terms []string
	for _, q := range queries {
		for _, term := range strings.Fields(strings.ToLower(q)) {
			if len(term) > 3 {
				terms = append(terms, term)
			}
		}
	}

	var items []models.NewsItem
	for _, entry := range feed.Items {
		if len(items) == limit {
			break
		}
		title := strings.ToLower(entry.Title)
		if !containsAny(title, terms) {
			continue
		}
		items = append(items, models.NewsItem{
			Title:       entry.Title,
			Published:   entry.Published,
			Source:      "Yahoo Finance",
			Description: cleanHTML(entry.Description),
			URL:         entry.Link,
			Query:       yahooHeadlineQuery,
		})
	}
	return items, nil
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// cleanHTML strips markup from feed descriptions using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
