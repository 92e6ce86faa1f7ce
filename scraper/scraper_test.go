package scraper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/goquery"
	"github.com/fwojciec/scrape/mock"
	"github.com/fwojciec/scrape/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quotesHTML = `<html><body>
<div class="quote"><span class="text">Quote one</span><small class="author">Author One</small></div>
<div class="quote"><span class="text">Quote two</span><small class="author">Author Two</small></div>
</body></html>`

func quoteSelectors() scrape.SelectorMap {
	return scrape.SelectorMap{
		{Field: "quote", Query: "span.text"},
		{Field: "author", Query: "small.author"},
	}
}

func staticFetcher(pages map[string]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			html, ok := pages[url]
			if !ok {
				return "", scrape.Errorf(scrape.ENETWORK, "HTTP 404 for %s", url)
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
}

func TestScraper_ScrapePage(t *testing.T) {
	t.Parallel()

	t.Run("extracts records from the fetched page", func(t *testing.T) {
		t.Parallel()

		// Given: a page with two quotes
		s := &scraper.Scraper{
			Fetcher:   staticFetcher(map[string]string{"https://quotes.example/": quotesHTML}),
			Extractor: goquery.NewExtractor(),
		}

		// When: scraping it
		rs, err := s.ScrapePage(context.Background(), "https://quotes.example/", "div.quote", quoteSelectors())

		// Then: both quotes are returned with the source URL and count
		require.NoError(t, err)
		assert.Equal(t, "https://quotes.example/", rs.URL)
		assert.Equal(t, 2, rs.Count)
		require.Len(t, rs.Records, 2)
		assert.Equal(t, []string{"quote", "author"}, rs.Records[0].Keys())
		v, _ := rs.Records[1].Get("author")
		assert.Equal(t, "Author Two", *v)
	})

	t.Run("returns empty result set when nothing matches", func(t *testing.T) {
		t.Parallel()

		s := &scraper.Scraper{
			Fetcher:   staticFetcher(map[string]string{"https://quotes.example/": quotesHTML}),
			Extractor: goquery.NewExtractor(),
		}

		rs, err := s.ScrapePage(context.Background(), "https://quotes.example/", "article", quoteSelectors())

		require.NoError(t, err)
		assert.True(t, rs.Empty())
		assert.Equal(t, 0, rs.Count)
	})

	t.Run("fetch failure returns error and no result set", func(t *testing.T) {
		t.Parallel()

		extractCalled := false
		s := &scraper.Scraper{
			Fetcher: staticFetcher(nil),
			Extractor: &mock.Extractor{
				ExtractFn: func(string, string, scrape.SelectorMap) ([]scrape.Record, error) {
					extractCalled = true
					return nil, nil
				},
			},
		}

		rs, err := s.ScrapePage(context.Background(), "https://missing.example/", "div.quote", quoteSelectors())

		require.Error(t, err)
		assert.Nil(t, rs)
		assert.Equal(t, scrape.ENETWORK, scrape.ErrorCode(err))
		assert.False(t, extractCalled)
	})

	t.Run("extraction failure is returned", func(t *testing.T) {
		t.Parallel()

		s := &scraper.Scraper{
			Fetcher: staticFetcher(map[string]string{"https://quotes.example/": quotesHTML}),
			Extractor: &mock.Extractor{
				ExtractFn: func(string, string, scrape.SelectorMap) ([]scrape.Record, error) {
					return nil, errors.New("parse failure")
				},
			},
		}

		rs, err := s.ScrapePage(context.Background(), "https://quotes.example/", "div.quote", quoteSelectors())

		require.Error(t, err)
		assert.Nil(t, rs)
	})

	t.Run("rejects empty selector map before fetching", func(t *testing.T) {
		t.Parallel()

		s := &scraper.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					t.Fatal("fetch should not be called")
					return "", nil
				},
			},
		}

		_, err := s.ScrapePage(context.Background(), "https://quotes.example/", "div.quote", nil)

		assert.Equal(t, scrape.EINVALID, scrape.ErrorCode(err))
	})

	t.Run("rejects empty URL", func(t *testing.T) {
		t.Parallel()

		s := &scraper.Scraper{}

		_, err := s.ScrapePage(context.Background(), "", "div.quote", quoteSelectors())

		assert.Equal(t, scrape.EINVALID, scrape.ErrorCode(err))
	})

	t.Run("waits on the rate limiter with the page host", func(t *testing.T) {
		t.Parallel()

		var domain string
		s := &scraper.Scraper{
			Fetcher:   staticFetcher(map[string]string{"https://quotes.example:8080/page/1/": quotesHTML}),
			Extractor: goquery.NewExtractor(),
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, d string) error {
					domain = d
					return nil
				},
			},
		}

		_, err := s.ScrapePage(context.Background(), "https://quotes.example:8080/page/1/", "div.quote", quoteSelectors())

		require.NoError(t, err)
		assert.Equal(t, "quotes.example", domain)
	})

	t.Run("rate limiter error aborts before fetching", func(t *testing.T) {
		t.Parallel()

		s := &scraper.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					t.Fatal("fetch should not be called")
					return "", nil
				},
			},
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(context.Context, string) error { return context.DeadlineExceeded },
			},
		}

		_, err := s.ScrapePage(context.Background(), "https://quotes.example/", "div.quote", quoteSelectors())

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
