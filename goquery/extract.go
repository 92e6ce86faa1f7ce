// Package goquery implements scrape.Extractor on top of goquery CSS selection.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scrape"
)

// Ensure Extractor implements scrape.Extractor at compile time.
var _ scrape.Extractor = (*Extractor)(nil)

// Extractor extracts records from HTML using CSS selectors.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses html and applies selectors within every container match.
func (e *Extractor) Extract(html string, container string, selectors scrape.SelectorMap) ([]scrape.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, scrape.Errorf(scrape.EINVALID, "failed to parse HTML: %v", err)
	}
	return ExtractDocument(doc, container, selectors), nil
}

// ExtractDocument applies selectors within every element of doc matching
// container, in document order. An empty container selects the whole
// document, producing exactly one record.
func ExtractDocument(doc *goquery.Document, container string, selectors scrape.SelectorMap) []scrape.Record {
	if strings.TrimSpace(container) == "" {
		return []scrape.Record{extractRecord(doc.Selection, selectors)}
	}

	containers := doc.Find(container)
	records := make([]scrape.Record, 0, containers.Length())
	containers.Each(func(_ int, sel *goquery.Selection) {
		records = append(records, extractRecord(sel, selectors))
	})
	return records
}

// extractRecord builds one record from the first descendant of root
// matching each selector.
func extractRecord(root *goquery.Selection, selectors scrape.SelectorMap) scrape.Record {
	record := make(scrape.Record, len(selectors))
	for i, s := range selectors {
		record[i] = scrape.Field{Name: s.Field, Value: extractValue(root, s)}
	}
	return record
}

func extractValue(root *goquery.Selection, s scrape.Selector) *string {
	match := root.Find(s.Query).First()
	if match.Length() == 0 {
		return nil
	}

	if s.Attr != "" {
		v, ok := match.Attr(s.Attr)
		if !ok {
			return nil
		}
		return &v
	}

	text := strings.TrimSpace(match.Text())
	return &text
}
