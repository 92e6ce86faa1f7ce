package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scrape"
)

// Ensure RetryFetcher implements scrape.Fetcher at compile time.
var _ scrape.Fetcher = (*RetryFetcher)(nil)

// BackoffDelays returns n exponentially growing delays starting at 1s.
func BackoffDelays(n int) []time.Duration {
	n = max(n, 0)
	delays := make([]time.Duration, 0, n)
	for i := range n {
		delays = append(delays, time.Second<<i)
	}
	return delays
}

// RetryFetcher retries failed fetches with backoff.
type RetryFetcher struct {
	Fetcher scrape.Fetcher

	// Delays holds the pause before each retry. Its length is the number
	// of retries after the first attempt.
	Delays []time.Duration

	// Retryable reports whether an error deserves another attempt.
	// Nil retries ENETWORK errors.
	Retryable func(error) bool

	// Logger receives one entry per retry. Nil discards.
	Logger *slog.Logger

	// Sleep replaces the real timer, mainly for tests.
	Sleep SleepFunc
}

// Fetch calls the wrapped fetcher until it succeeds, returns an error
// that is not retryable, or the retries are used up. The last error is
// returned.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	retryable := f.Retryable
	if retryable == nil {
		retryable = func(err error) bool { return scrape.ErrorCode(err) == scrape.ENETWORK }
	}
	sleep := f.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 0; ; attempt++ {
		html, err := f.Fetcher.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if attempt >= len(f.Delays) || !retryable(err) || ctx.Err() != nil {
			return "", err
		}

		if f.Logger != nil {
			f.Logger.Info("retry", "url", url, "attempt", attempt+2, "err", err)
		}
		if err := sleep(ctx, f.Delays[attempt]); err != nil {
			return "", err
		}
	}
}

// Close closes the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.Fetcher.Close()
}
