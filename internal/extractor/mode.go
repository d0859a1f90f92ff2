package extractor

import (
	"context"
	"strings"

	"github.com/JakeFAU/email-extractor/internal/firecrawl"
)

// Mode selects how much of a site is fetched.
type Mode string

const (
	// ModeFast scrapes the single page at the URL.
	ModeFast Mode = "fast"
	// ModeDeep crawls up to deepLimit pages, deepMaxDepth links away from the URL.
	ModeDeep Mode = "deep"
)

const (
	fastTimeoutMs = 30000
	deepTimeoutMs = 60000
	deepMaxDepth  = 2
	deepLimit     = 10
)

// ParseMode maps the request value to a Mode. An empty value means ModeFast.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFast:
		return ModeFast, nil
	case ModeDeep:
		return ModeDeep, nil
	default:
		return "", inputError(MsgInvalidMode)
	}
}

func (m Mode) String() string {
	return string(m)
}

// fetched is what a mode hands back to the extraction step.
type fetched struct {
	content string
	title   string
	pages   int
}

// fetchPlan owns one mode's request shape and response conversion.
type fetchPlan interface {
	fetch(ctx context.Context, s Scraper, url string) (fetched, error)
}

var plans = map[Mode]fetchPlan{
	ModeFast: fastPlan{},
	ModeDeep: deepPlan{},
}

type fastPlan struct{}

func (fastPlan) request(url string) firecrawl.ScrapeRequest {
	return firecrawl.ScrapeRequest{
		URL:     url,
		Formats: []string{firecrawl.FormatMarkdown, firecrawl.FormatHTML},
		Timeout: fastTimeoutMs,
	}
}

func (p fastPlan) fetch(ctx context.Context, s Scraper, url string) (fetched, error) {
	resp, err := s.Scrape(ctx, p.request(url))
	if err != nil {
		return fetched{}, upstreamError(msgUpstreamUnreachable, err)
	}
	if !resp.Success {
		return fetched{}, upstreamError(orDefault(resp.Error, MsgScrapeFailed), nil)
	}
	var doc firecrawl.Document
	if resp.Data != nil {
		doc = *resp.Data
	}
	return fetched{
		content: pageContent(doc),
		title:   orDefault(doc.Title(), unknownTitle),
		pages:   1,
	}, nil
}

type deepPlan struct{}

func (deepPlan) request(url string) firecrawl.CrawlRequest {
	return firecrawl.CrawlRequest{
		URL:      url,
		MaxDepth: deepMaxDepth,
		Limit:    deepLimit,
		ScrapeOptions: firecrawl.ScrapeOptions{
			Formats: []string{firecrawl.FormatMarkdown},
			Timeout: deepTimeoutMs,
		},
	}
}

func (p deepPlan) fetch(ctx context.Context, s Scraper, url string) (fetched, error) {
	resp, err := s.Crawl(ctx, p.request(url))
	if err != nil {
		return fetched{}, upstreamError(msgUpstreamUnreachable, err)
	}
	if !resp.Success {
		return fetched{}, upstreamError(orDefault(resp.Error, MsgDeepCrawlFailed), nil)
	}
	parts := make([]string, 0, len(resp.Data))
	for _, doc := range resp.Data {
		parts = append(parts, pageContent(doc))
	}
	title := unknownTitle
	if len(resp.Data) > 0 {
		title = orDefault(resp.Data[0].Title(), unknownTitle)
	}
	return fetched{
		content: strings.Join(parts, " "),
		title:   title,
		pages:   len(resp.Data),
	}, nil
}

func pageContent(doc firecrawl.Document) string {
	return doc.Markdown + " " + doc.HTML
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
