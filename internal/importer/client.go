package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/highhandantidote/community/pkg/config"
	"github.com/highhandantidote/community/pkg/logging"
	"github.com/highhandantidote/community/pkg/telemetry"
)

// RedditPost is one submission as returned by Reddit's public listing API
type RedditPost struct {
	Name        string  `json:"name"` // fullname, e.g. t3_abc123
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Author      string  `json:"author"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	CreatedUTC  float64 `json:"created_utc"`
	NumComments int64   `json:"num_comments"`
	Stickied    bool    `json:"stickied"`
}

type listingResponse struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data RedditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Client fetches subreddit listings from Reddit's public JSON API
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *zap.Logger
}

// NewClient creates a new Reddit listing client
func NewClient(cfg *config.ImporterConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logging.GetLogger().With(zap.String("component", "reddit-client")),
	}
}

// FetchNew returns up to limit newest submissions of a subreddit, plus the
// pagination token for the next page (empty when exhausted).
func (c *Client) FetchNew(ctx context.Context, subreddit string, limit int, after string) ([]RedditPost, string, error) {
	ctx, span := telemetry.StartSpan(ctx, "reddit.fetch_new")
	defer span.End()

	endpoint := fmt.Sprintf("%s/r/%s/new.json", c.baseURL, url.PathEscape(subreddit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}

	q := req.URL.Query()
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("raw_json", "1")
	if after != "" {
		q.Set("after", after)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch r/%s: %w", subreddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d from r/%s", resp.StatusCode, subreddit)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read listing body: %w", err)
	}

	var listing listingResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal listing: %w", err)
	}

	posts := make([]RedditPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}

	c.logger.Debug("Fetched subreddit listing",
		zap.String("subreddit", subreddit),
		zap.Int("count", len(posts)))

	return posts, listing.Data.After, nil
}
