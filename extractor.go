package scrape

import "context"

// Extractor applies a SelectorMap to every container in an HTML page.
type Extractor interface {
	// Extract returns one Record per element matching container, in
	// document order. Every Record has exactly the fields of selectors.
	// An empty container selector treats the whole page as one container.
	// No matching containers yields an empty slice, not an error.
	Extract(html string, container string, selectors SelectorMap) ([]Record, error)
}

// PageScraper fetches one page and extracts records from it.
type PageScraper interface {
	// ScrapePage returns a ResultSet for url. Fetch failures are returned
	// as errors; a page without matches yields an empty ResultSet.
	ScrapePage(ctx context.Context, url string, container string, selectors SelectorMap) (*ResultSet, error)
}
