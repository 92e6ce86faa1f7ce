package mock

import (
	"context"

	"github.com/fwojciec/scrape"
)

var _ scrape.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of scrape.Extractor.
type Extractor struct {
	ExtractFn func(html string, container string, selectors scrape.SelectorMap) ([]scrape.Record, error)
}

func (e *Extractor) Extract(html string, container string, selectors scrape.SelectorMap) ([]scrape.Record, error) {
	return e.ExtractFn(html, container, selectors)
}

var _ scrape.PageScraper = (*PageScraper)(nil)

// PageScraper is a mock implementation of scrape.PageScraper.
type PageScraper struct {
	ScrapePageFn func(ctx context.Context, url string, container string, selectors scrape.SelectorMap) (*scrape.ResultSet, error)
}

func (s *PageScraper) ScrapePage(ctx context.Context, url string, container string, selectors scrape.SelectorMap) (*scrape.ResultSet, error) {
	return s.ScrapePageFn(ctx, url, container, selectors)
}
