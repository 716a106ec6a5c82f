package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chipsight/chipsight/pkg/models"
)

const newsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPIClient queries the NewsAPI /v2/everything endpoint.
type NewsAPIClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewsAPIOption configures a NewsAPIClient.
type NewsAPIOption func(*NewsAPIClient)

// WithNewsAPIBaseURL overrides the API base URL.
func WithNewsAPIBaseURL(u string) NewsAPIOption {
	return func(c *NewsAPIClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithNewsAPITimeout overrides the default 10-second HTTP timeout.
func WithNewsAPITimeout(d time.Duration) NewsAPIOption {
	return func(c *NewsAPIClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewNewsAPIClient creates a NewsAPI client with a 10-second timeout.
func NewNewsAPIClient(apiKey string, opts ...NewsAPIOption) *NewsAPIClient {
	c := &NewsAPIClient{
		apiKey:  apiKey,
		baseURL: newsAPIBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns up to limit articles matching the query, published within
// the last days days, newest first.
func (c *NewsAPIClient) Search(ctx context.Context, query string, days, limit int) ([]models.NewsItem, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(limit*2))
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("newsapi: HTTP %d: %s", resp.StatusCode, string(raw))
	}

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("newsapi: parse response: %w", err)
	}

	items := make([]models.NewsItem, 0, limit)
	for _, a := range body.Articles {
		if len(items) == limit {
			break
		}
		items = append(items, models.NewsItem{
			Title:       a.Title,
			Published:   a.PublishedAt,
			Source:      fmt.Sprintf("NewsAPI (%s)", a.Source.Name),
			Description: a.Description,
			URL:         a.URL,
			Query:       query,
		})
	}
	return items, nil
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}
