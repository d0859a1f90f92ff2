// Package api hosts the HTTP server, middleware, and handlers. Routes:
//   - POST /api/extract-emails runs one extraction.
//   - GET /healthz and /readyz for container probes.
//   - GET /metrics for Prometheus scraping.
package api
