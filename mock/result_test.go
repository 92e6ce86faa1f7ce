package mock_test

import (
	"testing"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultWriter_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ scrape.ResultWriter = &mock.ResultWriter{}
}

func TestResultWriter_Save(t *testing.T) {
	t.Parallel()

	t.Run("delegates to SaveFn", func(t *testing.T) {
		t.Parallel()

		var gotURL, gotPath string
		var gotData any
		w := &mock.ResultWriter{
			SaveFn: func(sourceURL string, data any, path string) error {
				gotURL, gotData, gotPath = sourceURL, data, path
				return nil
			},
		}

		data := []scrape.Record{{{Name: "quote", Value: scrape.String("x")}}}
		err := w.Save("https://example.com", data, "out.json")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", gotURL)
		assert.Equal(t, data, gotData)
		assert.Equal(t, "out.json", gotPath)
	})
}
