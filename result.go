package scrape

import (
	"context"
	"time"
)

// ResultSet holds the records extracted from a single page.
type ResultSet struct {
	URL     string   `json:"url"`
	Count   int      `json:"count"`
	Records []Record `json:"data"`
}

// NewResultSet returns a ResultSet for url with Count set from records.
// A nil slice is stored as an empty one so it encodes as [].
func NewResultSet(url string, records []Record) *ResultSet {
	if records == nil {
		records = []Record{}
	}
	return &ResultSet{URL: url, Count: len(records), Records: records}
}

// Empty reports whether the page produced no records.
func (rs *ResultSet) Empty() bool {
	return rs == nil || len(rs.Records) == 0
}

// Compact returns a copy of rs whose records omit absent values.
func (rs *ResultSet) Compact() *ResultSet {
	records := make([]Record, len(rs.Records))
	for i, r := range rs.Records {
		records[i] = r.Compact()
	}
	return &ResultSet{URL: rs.URL, Count: rs.Count, Records: records}
}

// Output is the envelope written by a ResultWriter.
type Output struct {
	SourceURL string `json:"source_url"`
	Data      any    `json:"data"`
}

// ResultWriter persists extraction results.
type ResultWriter interface {
	// Save writes {source_url, data} to path.
	Save(sourceURL string, data any, path string) error
}

// Run is a stored extraction.
type Run struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"sourceUrl"`
	Container   string    `json:"container"`
	Count       int       `json:"count"`
	ContentHash string    `json:"contentHash"`
	Records     []Record  `json:"records"`
	ScrapedAt   time.Time `json:"scrapedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SourceURL == "" {
		return Errorf(EINVALID, "run source URL required")
	}
	return nil
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunService stores a history of extractions.
type RunService interface {
	// CreateRun stores the run, assigning its ID, hash and timestamp.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}
