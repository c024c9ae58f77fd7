// Package newsdata fetches business headlines from newsdata.io.
package newsdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aristath/hermes/internal/domain"
	"github.com/aristath/hermes/internal/modules/news"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://newsdata.io/api/1/news"

	// MaxItems is how many headlines are kept per symbol
	MaxItems = 4
)

// Client for newsdata.io
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a newsdata.io client. An empty key disables fetching.
func NewClient(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.With().Str("client", "newsdata").Logger(),
	}
}

// SetBaseURL points the client at another endpoint (used by tests)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

type response struct {
	Status  string    `json:"status"`
	Results []article `json:"results"`
}

type article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SourceID    string `json:"source_id"`
	PubDate     string `json:"pubDate"`
	Link        string `json:"link"`
	ImageURL    string `json:"image_url"`
}

// GetCompanyNews returns up to MaxItems business headlines mentioning symbol,
// each tagged with a keyword sentiment.
//
// News is decoration: every provider failure is logged and yields an empty list.
func (c *Client) GetCompanyNews(ctx context.Context, symbol string) ([]domain.NewsItem, error) {
	if c.apiKey == "" {
		return []domain.NewsItem{}, nil
	}

	items, err := c.fetch(ctx, symbol)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("News fetch failed, continuing without news")
		return []domain.NewsItem{}, nil
	}
	return items, nil
}

func (c *Client) fetch(ctx context.Context, symbol string) ([]domain.NewsItem, error) {
	query := url.Values{}
	query.Set("apikey", c.apiKey)
	query.Set("q", symbol)
	query.Set("language", "en")
	query.Set("category", "business")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsdata returned status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("newsdata reported an error")
	}

	results := body.Results
	if len(results) > MaxItems {
		results = results[:MaxItems]
	}

	items := make([]domain.NewsItem, 0, len(results))
	for _, a := range results {
		items = append(items, domain.NewsItem{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.SourceID,
			Date:        a.PubDate,
			Link:        a.Link,
			Image:       a.ImageURL,
			Sentiment:   news.AnalyzeSentiment(a.Title, a.Description),
		})
	}
	return items, nil
}
