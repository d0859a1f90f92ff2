// Package main hosts the email extractor entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes POST /api/extract-emails plus health, readiness and metrics endpoints.
//     Requests pass through request-id, logging, panic recovery, Prometheus, timeout and per-client rate limit
//     middleware before reaching the extraction service.
//   - Pipeline: internal/extractor.Service validates the request, verifies the Turnstile token (internal/captcha),
//     fetches content through Firecrawl (internal/firecrawl) in fast (one page) or deep (bounded crawl) mode, and
//     filters emails with internal/extract. Each request is independent; nothing is cached between calls.
//   - History: when history.dsn is set, each successful extraction is written to Postgres (internal/history/postgres).
//     Write failures are logged and never fail the request.
//   - Configuration & plumbing: Viper populates config from env/files; zap provides structured logging with optional
//     lumberjack file rotation; Prometheus metrics are served on /metrics.
//
// Quick checklist:
//   - Secrets: EMAILX_CAPTCHA_SECRET_KEY and EMAILX_FIRECRAWL_API_KEY. Missing secrets are reported per request as
//     server configuration errors, so the process still starts and serves probes.
//   - Local development: EMAILX_CAPTCHA_BYPASS=true skips Turnstile entirely.
//   - Run: emailextractor serve --config config.yaml, or emailextractor extract https://acme.io --mode deep.
//   - Cloud Run: the server listens on PORT when set and drains in-flight requests on SIGTERM.
package main
