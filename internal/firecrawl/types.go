package firecrawl

// Output formats understood by Firecrawl.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// ScrapeRequest is the body of POST /v1/scrape.
type ScrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
	// Timeout is in milliseconds.
	Timeout int `json:"timeout,omitempty"`
}

// ScrapeOptions are the per-page options of a crawl.
type ScrapeOptions struct {
	Formats []string `json:"formats"`
	// Timeout is in milliseconds.
	Timeout int `json:"timeout,omitempty"`
}

// CrawlRequest is the body of POST /v1/crawl.
type CrawlRequest struct {
	URL           string        `json:"url"`
	MaxDepth      int           `json:"maxDepth"`
	Limit         int           `json:"limit"`
	ScrapeOptions ScrapeOptions `json:"scrapeOptions"`
}

// Metadata describes a fetched page.
type Metadata struct {
	Title      string `json:"title,omitempty"`
	SourceURL  string `json:"sourceURL,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// Document is one fetched page in the requested formats.
type Document struct {
	Markdown string    `json:"markdown,omitempty"`
	HTML     string    `json:"html,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Title returns the page title from metadata, or "" when absent.
func (d Document) Title() string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata.Title
}

// ScrapeResponse is the reply of POST /v1/scrape.
type ScrapeResponse struct {
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
	Data    *Document `json:"data,omitempty"`
}

// CrawlResponse is the reply of POST /v1/crawl.
type CrawlResponse struct {
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
	ID      string     `json:"id,omitempty"`
	Data    []Document `json:"data,omitempty"`
}
