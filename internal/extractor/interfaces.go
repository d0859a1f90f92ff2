package extractor

import (
	"context"
	"time"

	"github.com/JakeFAU/email-extractor/internal/firecrawl"
)

// Scraper fetches page content from the content API.
type Scraper interface {
	Scrape(ctx context.Context, req firecrawl.ScrapeRequest) (firecrawl.ScrapeResponse, error)
	Crawl(ctx context.Context, req firecrawl.CrawlRequest) (firecrawl.CrawlResponse, error)
	Configured() bool
}

// CaptchaVerifier checks a human-verification token.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) bool
	Bypassed() bool
	Configured() bool
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Hasher fingerprints fetched content.
type Hasher interface {
	Hash(content string) string
}

// IDGenerator produces history record IDs.
type IDGenerator interface {
	NewID() (string, error)
}
