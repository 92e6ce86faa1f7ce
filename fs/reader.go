package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fwojciec/scrape"
)

// SavedOutput is a saved file with its data left undecoded.
type SavedOutput struct {
	SourceURL string          `json:"source_url"`
	Data      json.RawMessage `json:"data"`
}

// Load reads a file written by Writer.Save.
// Returns ENOTFOUND if the file does not exist.
func Load(path string) (*SavedOutput, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, scrape.Errorf(scrape.ENOTFOUND, "file %s not found", path)
	}
	if err != nil {
		return nil, err
	}

	var out SavedOutput
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, scrape.Errorf(scrape.EINVALID, "parse %s: %v", path, err)
	}
	return &out, nil
}

// Records decodes data saved from a []scrape.Record.
func (o *SavedOutput) Records() ([]scrape.Record, error) {
	var records []scrape.Record
	if err := json.Unmarshal(o.Data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// ResultSets decodes data saved from a []*scrape.ResultSet.
func (o *SavedOutput) ResultSets() ([]*scrape.ResultSet, error) {
	var sets []*scrape.ResultSet
	if err := json.Unmarshal(o.Data, &sets); err != nil {
		return nil, fmt.Errorf("decode result sets: %w", err)
	}
	return sets, nil
}
