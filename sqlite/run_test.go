package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecords() []scrape.Record {
	return []scrape.Record{
		{{Name: "quote", Value: scrape.String("Quote one")}, {Name: "author", Value: scrape.String("Author One")}},
		{{Name: "quote", Value: scrape.String("Quote two")}, {Name: "author"}},
	}
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("assigns id, count, hash and timestamp", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewRunService(openTestDB(t))
		run := &scrape.Run{SourceURL: "https://quotes.example/", Container: "div.quote", Records: sampleRecords()}

		err := s.CreateRun(context.Background(), run)

		require.NoError(t, err)
		assert.NotEmpty(t, run.ID)
		assert.Equal(t, 2, run.Count)
		assert.Len(t, run.ContentHash, 16)
		assert.False(t, run.ScrapedAt.IsZero())
	})

	t.Run("identical records hash identically", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewRunService(openTestDB(t))
		a := &scrape.Run{SourceURL: "https://quotes.example/", Records: sampleRecords()}
		b := &scrape.Run{SourceURL: "https://quotes.example/", Records: sampleRecords()}
		c := &scrape.Run{SourceURL: "https://quotes.example/", Records: sampleRecords()[:1]}

		require.NoError(t, s.CreateRun(context.Background(), a))
		require.NoError(t, s.CreateRun(context.Background(), b))
		require.NoError(t, s.CreateRun(context.Background(), c))

		assert.NotEqual(t, a.ID, b.ID)
		assert.Equal(t, a.ContentHash, b.ContentHash)
		assert.NotEqual(t, a.ContentHash, c.ContentHash)
	})

	t.Run("rejects run without source URL", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewRunService(openTestDB(t))

		err := s.CreateRun(context.Background(), &scrape.Run{})

		assert.Equal(t, scrape.EINVALID, scrape.ErrorCode(err))
	})
}

func TestRunService_FindRunByID(t *testing.T) {
	t.Parallel()

	t.Run("returns stored records in order", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewRunService(openTestDB(t))
		run := &scrape.Run{SourceURL: "https://quotes.example/", Container: "div.quote", Records: sampleRecords()}
		require.NoError(t, s.CreateRun(context.Background(), run))

		got, err := s.FindRunByID(context.Background(), run.ID)

		require.NoError(t, err)
		assert.Equal(t, run.SourceURL, got.SourceURL)
		assert.Equal(t, "div.quote", got.Container)
		assert.Equal(t, run.ContentHash, got.ContentHash)
		assert.True(t, run.ScrapedAt.Equal(got.ScrapedAt))
		assert.Equal(t, sampleRecords(), got.Records)
	})

	t.Run("empty run stores empty records", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewRunService(openTestDB(t))
		run := &scrape.Run{SourceURL: "https://quotes.example/"}
		require.NoError(t, s.CreateRun(context.Background(), run))

		got, err := s.FindRunByID(context.Background(), run.ID)

		require.NoError(t, err)
		assert.Equal(t, 0, got.Count)
		assert.Empty(t, got.Records)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewRunService(openTestDB(t))

		_, err := s.FindRunByID(context.Background(), "missing")

		assert.Equal(t, scrape.ENOTFOUND, scrape.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) *sqlite.RunService {
		t.Helper()
		s := sqlite.NewRunService(openTestDB(t))
		for _, u := range []string{"https://a.example/", "https://b.example/", "https://a.example/"} {
			require.NoError(t, s.CreateRun(context.Background(), &scrape.Run{SourceURL: u, Records: sampleRecords()}))
		}
		return s
	}

	t.Run("lists newest first", func(t *testing.T) {
		t.Parallel()

		runs, err := setup(t).FindRuns(context.Background(), scrape.RunFilter{})

		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "https://a.example/", runs[0].SourceURL)
		assert.Equal(t, "https://b.example/", runs[1].SourceURL)
	})

	t.Run("filters by source URL", func(t *testing.T) {
		t.Parallel()

		u := "https://a.example/"
		runs, err := setup(t).FindRuns(context.Background(), scrape.RunFilter{SourceURL: &u})

		require.NoError(t, err)
		require.Len(t, runs, 2)
		for _, r := range runs {
			assert.Equal(t, u, r.SourceURL)
		}
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		s := setup(t)

		limited, err := s.FindRuns(context.Background(), scrape.RunFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, limited, 1)

		offset, err := s.FindRuns(context.Background(), scrape.RunFilter{Offset: 2})
		require.NoError(t, err)
		require.Len(t, offset, 1)
		assert.Equal(t, "https://a.example/", offset[0].SourceURL)
	})

	t.Run("returns empty slice when nothing stored", func(t *testing.T) {
		t.Parallel()

		runs, err := sqlite.NewRunService(openTestDB(t)).FindRuns(context.Background(), scrape.RunFilter{})

		require.NoError(t, err)
		assert.NotNil(t, runs)
		assert.Empty(t, runs)
	})
}
