package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/scrape"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ scrape.RunService = (*RunService)(nil)

// RunService implements scrape.RunService using SQLite.
type RunService struct {
	db *DB

	// now is replaceable for deterministic timestamps.
	now func() time.Time
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db, now: time.Now}
}

// hashRecords returns the hex xxHash of the encoded records.
func hashRecords(encoded []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(encoded))
}

// CreateRun stores run and fills in ID, Count, ContentHash and ScrapedAt.
func (s *RunService) CreateRun(ctx context.Context, run *scrape.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	records := run.Records
	if records == nil {
		records = []scrape.Record{}
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	run.ID = uuid.New().String()
	run.Count = len(records)
	run.ContentHash = hashRecords(encoded)
	run.ScrapedAt = s.now().UTC().Truncate(time.Second)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source_url, container, count, content_hash, records, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.SourceURL, run.Container, run.Count, run.ContentHash, string(encoded),
		run.ScrapedAt.Format(time.RFC3339))

	return err
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*scrape.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_url, container, count, content_hash, records, scraped_at
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scrape.Errorf(scrape.ENOTFOUND, "run %q not found", id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter scrape.RunFilter) ([]*scrape.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_url, container, count, content_hash, records, scraped_at FROM runs WHERE 1=1")

	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY scraped_at DESC, rowid DESC")

	// SQLite only accepts OFFSET after a LIMIT; -1 means unbounded.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*scrape.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*scrape.Run, error) {
	var run scrape.Run
	var records, scrapedAt string

	if err := row.Scan(&run.ID, &run.SourceURL, &run.Container, &run.Count,
		&run.ContentHash, &records, &scrapedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(records), &run.Records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	t, err := time.Parse(time.RFC3339, scrapedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scraped_at: %w", err)
	}
	run.ScrapedAt = t

	return &run, nil
}
