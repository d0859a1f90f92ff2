package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClientScrape(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/scrape", r.URL.Path)
		assert.Equal(t, "Bearer fc-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://acme.test", body["url"])
		assert.Equal(t, []any{"markdown", "html"}, body["formats"])
		assert.EqualValues(t, 30000, body["timeout"])

		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"# Hi","html":"<h1>Hi</h1>","metadata":{"title":"Acme"}}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/", APIKey: "fc-key"}, srv.Client(), zap.NewNop())
	resp, err := c.Scrape(context.Background(), ScrapeRequest{
		URL:     "https://acme.test",
		Formats: []string{FormatMarkdown, FormatHTML},
		Timeout: 30000,
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	require.Equal(t, "# Hi", resp.Data.Markdown)
	require.Equal(t, "Acme", resp.Data.Title())
}

func TestClientCrawl(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/crawl", r.URL.Path)

		var body CrawlRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 2, body.MaxDepth)
		assert.Equal(t, 10, body.Limit)
		assert.Equal(t, []string{"markdown"}, body.ScrapeOptions.Formats)
		assert.Equal(t, 60000, body.ScrapeOptions.Timeout)

		_, _ = w.Write([]byte(`{"success":true,"data":[{"markdown":"a@b.io"},{"markdown":"c@d.io","metadata":{"title":"Two"}}]}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "k"}, srv.Client(), nil)
	resp, err := c.Crawl(context.Background(), CrawlRequest{
		URL:           "https://acme.test",
		MaxDepth:      2,
		Limit:         10,
		ScrapeOptions: ScrapeOptions{Formats: []string{FormatMarkdown}, Timeout: 60000},
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	require.Equal(t, "", resp.Data[0].Title())
	require.Equal(t, "Two", resp.Data[1].Title())
}

func TestClientReturnsReportedFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"success":false,"error":"Insufficient credits"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "k"}, srv.Client(), nil)
	resp, err := c.Scrape(context.Background(), ScrapeRequest{URL: "https://acme.test"})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, "Insufficient credits", resp.Error)
}

func TestClientDecodeError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "k"}, srv.Client(), nil)
	_, err := c.Crawl(context.Background(), CrawlRequest{URL: "https://acme.test"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode crawl response (status 502)")
}

func TestClientTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	c := New(Config{BaseURL: baseURL, APIKey: "k", Timeout: time.Second}, nil, nil)
	_, err := c.Scrape(context.Background(), ScrapeRequest{URL: "https://acme.test"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "scrape request")
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	c := New(Config{}, nil, nil)
	require.Equal(t, DefaultBaseURL, c.baseURL)
	require.Equal(t, defaultTimeout, c.http.Timeout)
	require.False(t, c.Configured())
}
