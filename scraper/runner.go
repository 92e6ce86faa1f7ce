package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/scrape"
)

// DefaultDelay is the pause between consecutive requests of a batch.
const DefaultDelay = time.Second

// ProgressEvent reports the outcome of one URL in a batch.
type ProgressEvent struct {
	URL       string
	Completed int
	Total     int

	// Count is the number of records extracted, zero on failure.
	Count int

	// Error is ENETWORK (or another fetch error) when the URL was
	// skipped, or EEMPTY when it was kept but produced no records.
	Error error
}

// Skipped reports whether the URL was left out of the results.
func (e ProgressEvent) Skipped() bool {
	return e.Error != nil && scrape.ErrorCode(e.Error) != scrape.EEMPTY
}

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Runner scrapes a list of URLs one after another.
type Runner struct {
	Scraper scrape.PageScraper

	// Delay is slept between consecutive requests regardless of outcome.
	// Zero means DefaultDelay; a negative value disables the pause.
	Delay time.Duration

	// Sleep replaces the real timer, mainly for tests.
	Sleep SleepFunc
}

// Run scrapes urls in order with the same selectors and container.
// URLs that fail to fetch are reported through progress and skipped.
// An error is returned only for invalid selectors or a canceled context.
func (r *Runner) Run(ctx context.Context, urls []string, selectors scrape.SelectorMap, container string, progress ProgressFunc) ([]*scrape.ResultSet, error) {
	if err := selectors.Validate(); err != nil {
		return nil, err
	}

	delay := r.Delay
	if delay == 0 {
		delay = DefaultDelay
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	results := make([]*scrape.ResultSet, 0, len(urls))
	for i, url := range urls {
		if i > 0 && delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return results, err
			}
		}

		event := ProgressEvent{URL: url, Completed: i + 1, Total: len(urls)}

		rs, err := r.Scraper.ScrapePage(ctx, url, container, selectors)
		switch {
		case err != nil && isCanceled(ctx, err):
			return results, err
		case err != nil:
			event.Error = err
		case rs.Empty():
			event.Error = scrape.Errorf(scrape.EEMPTY, "no data was found on %s", url)
			results = append(results, rs)
		default:
			event.Count = rs.Count
			results = append(results, rs)
		}

		if progress != nil {
			progress(event)
		}
	}

	return results, nil
}

func isCanceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
