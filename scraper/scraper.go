// Package scraper orchestrates fetching and extraction: one page at a time
// through Scraper, or a list of pages in order through Runner.
package scraper

import (
	"context"

	"github.com/fwojciec/scrape"
)

var _ scrape.PageScraper = (*Scraper)(nil)

// Scraper fetches a page and extracts records from it.
type Scraper struct {
	Fetcher   scrape.Fetcher
	Extractor scrape.Extractor

	// RateLimiter, if set, is consulted with the page host before each fetch.
	RateLimiter scrape.DomainLimiter
}

// ScrapePage fetches url and applies selectors within every container.
// Fetch failures are returned unchanged and no ResultSet is produced.
// A page with no matching containers yields an empty ResultSet, not an error.
func (s *Scraper) ScrapePage(ctx context.Context, url string, container string, selectors scrape.SelectorMap) (*scrape.ResultSet, error) {
	if url == "" {
		return nil, scrape.Errorf(scrape.EINVALID, "URL required")
	}
	if err := selectors.Validate(); err != nil {
		return nil, err
	}

	if s.RateLimiter != nil {
		if err := s.RateLimiter.Wait(ctx, hostOf(url)); err != nil {
			return nil, err
		}
	}

	html, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	records, err := s.Extractor.Extract(html, container, selectors)
	if err != nil {
		return nil, err
	}

	return scrape.NewResultSet(url, records), nil
}
