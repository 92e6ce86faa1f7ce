package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/scrape"
)

// Ensure LoggingExtractor implements scrape.Extractor.
var _ scrape.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   scrape.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next scrape.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the record count.
func (e *LoggingExtractor) Extract(html string, container string, selectors scrape.SelectorMap) ([]scrape.Record, error) {
	begin := time.Now()
	records, err := e.next.Extract(html, container, selectors)
	attrs := []any{
		"container", container,
		"fields", len(selectors),
		"duration", time.Since(begin),
	}
	if err != nil {
		e.logger.Warn("extract", append(attrs, "err", err)...)
		return records, err
	}
	e.logger.Debug("extract", append(attrs, "records", len(records))...)
	return records, nil
}
