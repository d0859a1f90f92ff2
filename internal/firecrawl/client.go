// Package firecrawl is a small client for the Firecrawl v1 scrape and crawl endpoints.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/email-extractor/internal/metrics"
)

// DefaultBaseURL is the hosted Firecrawl API.
const DefaultBaseURL = "https://api.firecrawl.dev"

const (
	scrapePath = "/v1/scrape"
	crawlPath  = "/v1/crawl"

	defaultTimeout = 120 * time.Second
)

// Config controls the client.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout bounds a whole HTTP exchange. Firecrawl applies its own per-page
	// timeout from the request body on top of this.
	Timeout time.Duration
}

// Client calls the Firecrawl API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// New builds a Client. A nil httpClient gets one bounded by cfg.Timeout.
func New(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    httpClient,
		logger:  logger,
	}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Scrape fetches a single page. A decoded response is returned even when
// Firecrawl reports success=false; only transport and decoding problems are errors.
func (c *Client) Scrape(ctx context.Context, req ScrapeRequest) (ScrapeResponse, error) {
	var out ScrapeResponse
	if err := c.post(ctx, "scrape", scrapePath, req, &out); err != nil {
		return ScrapeResponse{}, err
	}
	return out, nil
}

// Crawl runs a bounded multi-page crawl and returns the pages Firecrawl
// includes in its reply.
func (c *Client) Crawl(ctx context.Context, req CrawlRequest) (CrawlResponse, error) {
	var out CrawlResponse
	if err := c.post(ctx, "crawl", crawlPath, req, &out); err != nil {
		return CrawlResponse{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, endpoint, path string, payload, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpstream("firecrawl", endpoint, err, time.Since(start))
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", endpoint, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("close firecrawl body", zap.String("endpoint", endpoint), zap.Error(cerr))
		}
	}()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response (status %d): %w", endpoint, resp.StatusCode, err)
	}
	c.logger.Debug("firecrawl call finished",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
