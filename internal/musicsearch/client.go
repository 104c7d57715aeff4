package musicsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Searcher defines the music search operation used by the recommender.
type Searcher interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]Song, error)
}

// SearchOptions contains optional parameters for a music search.
type SearchOptions struct {
	MaxResults   int
	RegionFilter bool
}

// Client queries the TheraMuse music search service. The primary endpoint is
// tried first; on failure the backups are walked in order and the first
// endpoint that answers becomes the preferred one for subsequent calls.
type Client struct {
	baseURL    string
	backupURLs []string
	preferred  string
	httpClient *http.Client
	maxRetries int
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMaxRetries overrides how many times a query is retried per endpoint.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// New creates a music search client.
func New(baseURL string, backupURLs []string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("music search base url required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		preferred:  strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: 3,
	}
	for _, backup := range backupURLs {
		backup = strings.TrimRight(strings.TrimSpace(backup), "/")
		if backup != "" {
			client.backupURLs = append(client.backupURLs, backup)
		}
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// regionHints maps country names appearing in queries to region and language
// parameters. Only applied when the caller opts in, typically for birthplace
// searches.
var regionHints = []struct {
	country  string
	region   string
	language string
}{
	{"bangladesh", "BD", "bn"},
	{"india", "IN", "hi"},
	{"pakistan", "PK", "ur"},
	{"nepal", "NP", "ne"},
	{"sri lanka", "LK", "si"},
	{"united states", "US", "en"},
	{"united kingdom", "GB", "en"},
	{"germany", "DE", "de"},
	{"france", "FR", "fr"},
	{"spain", "ES", "es"},
	{"japan", "JP", "ja"},
	{"china", "CN", "zh"},
	{"korea", "KR", "ko"},
	{"brazil", "BR", "pt"},
	{"italy", "IT", "it"},
	{"russia", "RU", "ru"},
}

func inferRegion(query string) (region, language string) {
	lowered := strings.ToLower(query)
	for _, hint := range regionHints {
		if strings.Contains(lowered, hint.country) {
			return hint.region, hint.language
		}
	}
	return "", ""
}

// Search performs a music search, retrying transient failures with a short
// backoff. An empty result is not an error.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]Song, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	params := url.Values{}
	params.Set("query", query)
	if opts.MaxResults > 0 {
		params.Set("max_results", strconv.Itoa(opts.MaxResults))
	}
	params.Set("sort", "relevance")
	params.Set("filter", "music")
	params.Set("videoCategoryId", "10")
	if opts.RegionFilter {
		if region, language := inferRegion(query); region != "" {
			params.Set("region", region)
			params.Set("language", language)
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		songs, err := c.tryEndpoints(ctx, params)
		if err == nil {
			return songs, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) tryEndpoints(ctx context.Context, params url.Values) ([]Song, error) {
	endpoints := make([]string, 0, len(c.backupURLs)+1)
	endpoints = append(endpoints, c.preferred)
	for _, backup := range c.backupURLs {
		if backup != c.preferred {
			endpoints = append(endpoints, backup)
		}
	}
	if c.baseURL != c.preferred {
		endpoints = append(endpoints, c.baseURL)
	}

	var lastErr error
	for _, endpoint := range endpoints {
		songs, err := c.fetch(ctx, endpoint, params)
		if err == nil {
			c.preferred = endpoint
			return songs, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no search endpoints configured")
	}
	return nil, fmt.Errorf("all search endpoints unavailable: %w", lastErr)
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]Song, error) {
	target, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse search url: %w", err)
	}
	target.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("music search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload []Song
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return payload, nil
}
