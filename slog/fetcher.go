// Package slog provides log/slog decorators for scrape services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scrape"
)

// Ensure LoggingFetcher implements scrape.Fetcher.
var _ scrape.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher and logs every request.
type LoggingFetcher struct {
	next   scrape.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next scrape.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs url, size and duration.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Warn("fetch",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
		return html, err
	}
	f.logger.Info("fetch",
		"url", url,
		"bytes", len(html),
		"duration", time.Since(begin),
	)
	return html, nil
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
