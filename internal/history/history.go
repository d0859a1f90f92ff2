// Package history defines the write-only log of successful extractions.
package history

import (
	"context"
	"time"
)

// Record is one successful extraction. ContentHash is the hex SHA-256 of the
// fetched content.
type Record struct {
	ID           string
	URL          string
	Domain       string
	CrawlMode    string
	Title        string
	Emails       []string
	PagesCrawled int
	ContentHash  string
	CreatedAt    time.Time
}

// Store persists records. Implementations must be safe for concurrent use.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Ping(ctx context.Context) error
	Close()
}

// NoOp discards records. It is used when no database is configured.
type NoOp struct{}

// Save does nothing.
func (NoOp) Save(context.Context, Record) error { return nil }

// Ping always succeeds.
func (NoOp) Ping(context.Context) error { return nil }

// Close does nothing.
func (NoOp) Close() {}
