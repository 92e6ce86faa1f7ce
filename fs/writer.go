// Package fs provides file-based persistence for extraction results.
package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/scrape"
)

// Ensure Writer implements scrape.ResultWriter at compile time.
var _ scrape.ResultWriter = (*Writer)(nil)

// Writer saves results as indented UTF-8 JSON files.
type Writer struct {
	omitNull bool
	stdout   io.Writer
}

// Option configures a Writer.
type Option func(*Writer)

// WithOmitNull drops absent values from records before they are written.
// Saved records then no longer share the selector map's full key set.
func WithOmitNull() Option {
	return func(w *Writer) {
		w.omitNull = true
	}
}

// WithStdout sets the destination used when Save is given the path "-".
func WithStdout(out io.Writer) Option {
	return func(w *Writer) {
		w.stdout = out
	}
}

// NewWriter creates a new Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Save writes {"source_url": sourceURL, "data": data} to path.
// The file is written next to path first and renamed into place,
// so a failed save never leaves a truncated file behind.
// The path "-" writes to the writer configured with WithStdout.
func (w *Writer) Save(sourceURL string, data any, path string) error {
	if path == "" {
		return scrape.Errorf(scrape.EINVALID, "output path required")
	}
	if path == "-" && w.stdout == nil {
		return scrape.Errorf(scrape.EINVALID, "no standard output configured")
	}

	if w.omitNull {
		data = omitNull(data)
	}

	b, err := Encode(&scrape.Output{SourceURL: sourceURL, Data: data})
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if path == "-" {
		_, err := w.stdout.Write(b)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Encode renders out as two-space indented JSON with a trailing newline.
// HTML characters and non-ASCII text are written literally.
func Encode(out *scrape.Output) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// omitNull returns data with absent values removed from any records it holds.
// Types other than records and result sets are returned unchanged.
func omitNull(data any) any {
	switch v := data.(type) {
	case scrape.Record:
		return v.Compact()
	case []scrape.Record:
		out := make([]scrape.Record, len(v))
		for i, r := range v {
			out[i] = r.Compact()
		}
		return out
	case *scrape.ResultSet:
		return v.Compact()
	case []*scrape.ResultSet:
		out := make([]*scrape.ResultSet, len(v))
		for i, rs := range v {
			out[i] = rs.Compact()
		}
		return out
	default:
		return data
	}
}
